package tree

import (
	"testing"
	"time"

	"forumview/internal/model"

	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func samplePayload() []model.Comment {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return []model.Comment{
		{
			ID: 1, Content: "root", CreatedAt: now,
			Author: model.Author{ID: 7, Username: "ana"},
			Replies: []model.Comment{
				{
					ID: 2, Content: "child", ParentID: ptr(1), CreatedAt: now,
					Replies: []model.Comment{
						{ID: 4, Content: "grandchild", ParentID: ptr(2), CreatedAt: now},
					},
				},
				{ID: 3, Content: "second child", ParentID: ptr(1), CreatedAt: now},
			},
		},
		{ID: 5, Content: "other root", CreatedAt: now},
	}
}

func collectIDs(f Forest) []int64 {
	var out []int64
	f.Walk(func(c model.Comment, _ int) bool {
		out = append(out, c.ID)
		return true
	})
	return out
}

func TestBuild_WalkPreOrder(t *testing.T) {
	t.Parallel()

	f := Build(samplePayload())
	require.Equal(t, []int64{1, 2, 4, 3, 5}, collectIDs(f))
	require.Equal(t, 5, f.Len())

	var depths []int
	f.Walk(func(_ model.Comment, depth int) bool {
		depths = append(depths, depth)
		return true
	})
	require.Equal(t, []int{0, 1, 2, 1, 0}, depths)
}

func TestWalk_StopsEarly(t *testing.T) {
	t.Parallel()

	f := Build(samplePayload())
	var seen []int64
	f.Walk(func(c model.Comment, _ int) bool {
		seen = append(seen, c.ID)
		return c.ID != 2
	})
	require.Equal(t, []int64{1, 2}, seen)
}

func TestBuild_IsolatedFromInput(t *testing.T) {
	t.Parallel()

	in := samplePayload()
	f := Build(in)
	in[0].Content = "mutated"
	in[0].Replies[0].Content = "mutated"

	got, ok := f.Find(2)
	require.True(t, ok)
	require.Equal(t, "child", got.Content)

	roots := f.Roots()
	roots[0].Replies = nil
	got, ok = f.Find(1)
	require.True(t, ok)
	require.Len(t, got.Replies, 2)
}

func TestFind(t *testing.T) {
	t.Parallel()

	f := Build(samplePayload())

	tests := []struct {
		name   string
		id     int64
		wantOK bool
		want   string
	}{
		{name: "root", id: 1, wantOK: true, want: "root"},
		{name: "nested", id: 4, wantOK: true, want: "grandchild"},
		{name: "missing", id: 42},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, ok := f.Find(tt.id)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.wantOK, f.Has(tt.id))
			if tt.wantOK {
				require.Equal(t, tt.want, got.Content)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		roots   []model.Comment
		wantErr bool
	}{
		{name: "sample payload", roots: samplePayload()},
		{name: "empty", roots: nil},
		{
			name:    "root with parent",
			roots:   []model.Comment{{ID: 1, ParentID: ptr(9)}},
			wantErr: true,
		},
		{
			name: "reply under wrong parent",
			roots: []model.Comment{{ID: 1, Replies: []model.Comment{
				{ID: 2, ParentID: ptr(3)},
			}}},
			wantErr: true,
		},
		{
			name: "reply without parent",
			roots: []model.Comment{{ID: 1, Replies: []model.Comment{
				{ID: 2},
			}}},
			wantErr: true,
		},
		{
			name:    "duplicate id",
			roots:   []model.Comment{{ID: 1}, {ID: 1}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Build(tt.roots).Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInconsistent)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestInsert(t *testing.T) {
	t.Parallel()

	base := Build(samplePayload())

	t.Run("reply appended after existing replies", func(t *testing.T) {
		f, err := base.Insert(model.Comment{ID: 10, Content: "new", ParentID: ptr(1)})
		require.NoError(t, err)
		require.Equal(t, []int64{1, 2, 4, 3, 10, 5}, collectIDs(f))
		require.NoError(t, f.Validate())

		parent, _ := f.Find(1)
		require.Equal(t, int64(10), parent.Replies[len(parent.Replies)-1].ID)

		require.False(t, base.Has(10))
		require.Equal(t, 5, base.Len())
	})

	t.Run("deep reply", func(t *testing.T) {
		f, err := base.Insert(model.Comment{ID: 11, ParentID: ptr(4)})
		require.NoError(t, err)
		got, ok := f.Find(4)
		require.True(t, ok)
		require.Len(t, got.Replies, 1)
	})

	t.Run("root", func(t *testing.T) {
		f, err := base.Insert(model.Comment{ID: 12, Content: "new root"})
		require.NoError(t, err)
		require.Len(t, f.Roots(), 3)
		require.Equal(t, []int64{1, 2, 4, 3, 5, 12}, collectIDs(f))
	})

	t.Run("unknown parent", func(t *testing.T) {
		_, err := base.Insert(model.Comment{ID: 13, ParentID: ptr(99)})
		require.ErrorIs(t, err, ErrParentNotFound)
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := base.Insert(model.Comment{ID: 2, ParentID: ptr(1)})
		require.ErrorIs(t, err, ErrDuplicateID)
	})

	t.Run("duplicate inside carried replies", func(t *testing.T) {
		_, err := base.Insert(model.Comment{ID: 14, Replies: []model.Comment{{ID: 1, ParentID: ptr(14)}}})
		require.ErrorIs(t, err, ErrDuplicateID)
		require.Equal(t, 5, base.Len())
	})

	t.Run("repeated id within carried replies", func(t *testing.T) {
		_, err := base.Insert(model.Comment{ID: 15, Replies: []model.Comment{
			{ID: 16, ParentID: ptr(15)},
			{ID: 16, ParentID: ptr(15)},
		}})
		require.ErrorIs(t, err, ErrDuplicateID)
	})

	t.Run("fresh subtree", func(t *testing.T) {
		f, err := base.Insert(model.Comment{ID: 17, Replies: []model.Comment{{ID: 18, ParentID: ptr(17)}}})
		require.NoError(t, err)
		require.NoError(t, f.Validate())
		require.True(t, f.Has(18))
	})
}

func TestFromFlat(t *testing.T) {
	t.Parallel()

	rows := []model.Comment{
		{ID: 1, Content: "root"},
		{ID: 2, ParentID: ptr(1)},
		{ID: 3},
		{ID: 4, ParentID: ptr(2)},
		{ID: 5, ParentID: ptr(1)},
		{ID: 6, ParentID: ptr(77)}, // parent not in payload
	}

	f, dropped := FromFlat(rows)
	require.Equal(t, 1, dropped)
	require.Equal(t, []int64{1, 2, 4, 5, 3}, collectIDs(f))
	require.False(t, f.Has(6))
	require.NoError(t, f.Validate())

	dupRows := []model.Comment{
		{ID: 1, Content: "first"},
		{ID: 1, Content: "again"},
		{ID: 2, ParentID: ptr(1)},
	}
	f, dropped = FromFlat(dupRows)
	require.Equal(t, 1, dropped)
	require.Equal(t, []int64{1, 2}, collectIDs(f))
	first, _ := f.Find(1)
	require.Equal(t, "first", first.Content)
	require.NoError(t, f.Validate())

	cyclic := []model.Comment{
		{ID: 1},
		{ID: 2, ParentID: ptr(3)},
		{ID: 3, ParentID: ptr(2)},
	}
	f, dropped = FromFlat(cyclic)
	require.Equal(t, 2, dropped)
	require.Equal(t, 1, f.Len())

	empty, dropped := FromFlat(nil)
	require.Zero(t, dropped)
	require.Zero(t, empty.Len())
}
