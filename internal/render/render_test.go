package render

import (
	"bytes"
	"testing"
	"time"

	"forumview/internal/model"
	"forumview/internal/tree"
	"forumview/internal/view"

	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func newPlain(now time.Time) *Renderer {
	r := New(PlainTheme())
	r.now = func() time.Time { return now }
	return r
}

func TestRenderer_Discussion(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	f := tree.Build([]model.Comment{
		{ID: 1, Content: "root", Author: model.Author{Username: "ana"}, CreatedAt: now.Add(-2 * time.Hour),
			Replies: []model.Comment{
				{ID: 2, Content: "child", ParentID: ptr(1), Author: model.Author{Username: "bo"}, CreatedAt: now.Add(-5 * time.Minute)},
			}},
	})
	d := view.NewDiscussion(model.Entity{Title: "Hello", Author: model.Author{Username: "ana"}, CommentsCount: 2}, f)
	r := newPlain(now)

	var buf bytes.Buffer
	require.NoError(t, r.Discussion(&buf, d))
	out := buf.String()
	require.Contains(t, out, "Hello")
	require.Contains(t, out, "▾ ana #1 · 2h ago")
	require.Contains(t, out, "    child")

	d.ToggleCollapse(1)
	buf.Reset()
	require.NoError(t, r.Discussion(&buf, d))
	out = buf.String()
	require.Contains(t, out, "▸ ana")
	require.Contains(t, out, "(1 hidden)")
	require.NotContains(t, out, "child")

	d.ToggleReply(1)
	require.NoError(t, d.SetDraft(ptr(1), "typing"))
	buf.Reset()
	require.NoError(t, r.Discussion(&buf, d))
	require.Contains(t, buf.String(), "↳ replying: typing")
}

func TestRenderer_HiddenCountsWholeSubtree(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	f := tree.Build([]model.Comment{
		{ID: 1, Content: "root", Replies: []model.Comment{
			{ID: 2, Content: "child", ParentID: ptr(1), Replies: []model.Comment{
				{ID: 3, Content: "grandchild", ParentID: ptr(2)},
				{ID: 4, Content: "grandchild two", ParentID: ptr(2)},
			}},
		}},
	})
	d := view.NewDiscussion(model.Entity{Title: "Deep"}, f)
	d.ToggleCollapse(1)

	var buf bytes.Buffer
	require.NoError(t, newPlain(now).Discussion(&buf, d))
	require.Contains(t, buf.String(), "(3 hidden)")
	require.NotContains(t, buf.String(), "grandchild")
}

func TestRenderer_EmptyAndThreads(t *testing.T) {
	t.Parallel()

	r := newPlain(time.Now())

	var buf bytes.Buffer
	require.NoError(t, r.Discussion(&buf, view.NewDiscussion(model.Entity{Title: "x"}, tree.Build(nil))))
	require.Contains(t, buf.String(), "No comments yet.")

	buf.Reset()
	require.NoError(t, r.Threads(&buf, []model.Entity{{ID: 3, Title: "first", CommentsCount: 4}}))
	require.Contains(t, buf.String(), "#3 first (4 comments, unknown)")
}

func TestRenderer_Projects(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, newPlain(time.Now()).Projects(&buf, []model.Entity{
		{ID: 2, Title: "forge", Content: "A tiny build tool.", Author: model.Author{Username: "bo"}, CommentsCount: 1},
		{ID: 5, Title: "kiln", Author: model.Author{Username: "ana"}},
	}))
	require.Equal(t, "#2 forge by bo (1 comments)\n    A tiny build tool.\n#5 kiln by ana (0 comments)\n", buf.String())
}
