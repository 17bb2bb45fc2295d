package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"forumview/internal/model"
	"forumview/internal/view"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func ptr(v int64) *int64 { return &v }

var threadRef = model.ParentRef{Kind: model.KindThread, ID: 9}

func sampleComments() []model.Comment {
	return []model.Comment{
		{ID: 1, Content: "root", Replies: []model.Comment{
			{ID: 2, Content: "child", ParentID: ptr(1), Replies: []model.Comment{
				{ID: 3, Content: "grandchild", ParentID: ptr(2)},
			}},
		}},
		{ID: 4, Content: "other"},
	}
}

func rowIDs(d *view.Discussion) []int64 {
	var out []int64
	for _, r := range d.Rows() {
		out = append(out, r.Comment.ID)
	}
	return out
}

func openDiscussion(t *testing.T, api *MockForumAPI, policy ReconcilePolicy) (*DiscussionService, *view.Discussion) {
	t.Helper()

	api.EXPECT().
		GetDiscussion(gomock.Any(), threadRef).
		Return(model.Entity{ID: 9, Kind: model.KindThread, CommentsCount: 4}, sampleComments(), nil)

	svc := NewDiscussionService(api, policy)
	d, err := svc.Open(context.Background(), threadRef)
	require.NoError(t, err)
	return svc, d
}

func TestDiscussionService_Open(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ref     model.ParentRef
		setup   func(api *MockForumAPI)
		wantErr error
	}{
		{
			name:    "invalid kind",
			ref:     model.ParentRef{Kind: "meetup", ID: 1},
			setup:   func(_ *MockForumAPI) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "invalid id",
			ref:     model.ParentRef{Kind: model.KindProject},
			setup:   func(_ *MockForumAPI) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name: "not found",
			ref:  threadRef,
			setup: func(api *MockForumAPI) {
				api.EXPECT().GetDiscussion(gomock.Any(), threadRef).
					Return(model.Entity{}, nil, ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "success",
			ref:  threadRef,
			setup: func(api *MockForumAPI) {
				api.EXPECT().GetDiscussion(gomock.Any(), threadRef).
					Return(model.Entity{Title: "hello"}, sampleComments(), nil)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			api := NewMockForumAPI(ctrl)
			tt.setup(api)

			d, err := NewDiscussionService(api, ReconcileLocal).Open(context.Background(), tt.ref)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, threadRef, d.Ref())
			require.Equal(t, "hello", d.Entity().Title)
			require.Equal(t, []int64{1, 2, 3, 4}, rowIDs(d))
			require.NoError(t, d.Forest().Validate())
		})
	}
}

func TestDiscussionService_Submit_EmptyContentMakesNoCall(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := NewMockForumAPI(ctrl)
	svc, d := openDiscussion(t, api, ReconcileLocal)

	d.ToggleReply(2)
	require.NoError(t, d.SetDraft(ptr(2), "   "))

	// no CreateComment expectation: any call fails the test
	err := svc.Submit(context.Background(), d, "   ", ptr(2))
	require.ErrorIs(t, err, ErrEmptyContent)

	id, open := d.ReplyingTo()
	require.True(t, open)
	require.Equal(t, int64(2), id)
}

func TestDiscussionService_Submit_LocalInsertKeepsCollapse(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := NewMockForumAPI(ctrl)
	svc, d := openDiscussion(t, api, ReconcileLocal)

	d.ToggleCollapse(2)
	d.ToggleReply(1)
	require.NoError(t, d.SetDraft(ptr(1), "new reply"))

	api.EXPECT().
		CreateComment(gomock.Any(), CreateCommentRequest{Parent: threadRef, Content: "new reply", ParentID: ptr(1)}).
		Return(model.Comment{ID: 10, Content: "new reply", CreatedAt: time.Now()}, nil)

	require.NoError(t, svc.Submit(context.Background(), d, "new reply", ptr(1)))

	require.Equal(t, []int64{1, 2, 10, 4}, rowIDs(d))
	require.True(t, d.Collapsed().IsCollapsed(2))
	_, open := d.ReplyingTo()
	require.False(t, open)
	require.Equal(t, 5, d.Entity().CommentsCount)

	got, ok := d.Forest().Find(10)
	require.True(t, ok)
	require.Equal(t, int64(1), *got.ParentID)
}

func TestDiscussionService_Submit_TopLevelClearsMainDraft(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := NewMockForumAPI(ctrl)
	svc, d := openDiscussion(t, api, ReconcileLocal)
	require.NoError(t, d.SetDraft(nil, "hello"))

	api.EXPECT().
		CreateComment(gomock.Any(), CreateCommentRequest{Parent: threadRef, Content: "hello"}).
		Return(model.Comment{ID: 11, Content: "hello"}, nil)

	require.NoError(t, svc.Submit(context.Background(), d, "hello", nil))
	require.Equal(t, "", d.Draft(nil))
	require.Equal(t, []int64{1, 2, 3, 4, 11}, rowIDs(d))
}

func TestDiscussionService_Submit_TopLevelClosesReplyComposer(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := NewMockForumAPI(ctrl)
	svc, d := openDiscussion(t, api, ReconcileLocal)

	d.ToggleReply(2)
	require.NoError(t, d.SetDraft(ptr(2), "half reply"))
	require.NoError(t, d.SetDraft(nil, "top"))

	api.EXPECT().
		CreateComment(gomock.Any(), CreateCommentRequest{Parent: threadRef, Content: "top"}).
		Return(model.Comment{ID: 12, Content: "top"}, nil)

	require.NoError(t, svc.Submit(context.Background(), d, "top", nil))

	_, open := d.ReplyingTo()
	require.False(t, open)
	require.Equal(t, "", d.Draft(nil))
	require.Equal(t, "", d.Draft(ptr(2)))

	d.ToggleReply(2)
	require.Equal(t, "", d.Draft(ptr(2)))
}

func TestDiscussionService_Submit_ConflictFallsBackToReload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		created model.Comment
	}{
		{name: "empty response", created: model.Comment{}},
		{name: "parent missing locally", created: model.Comment{ID: 20, ParentID: ptr(77)}},
		{name: "duplicate id", created: model.Comment{ID: 3, ParentID: ptr(1)}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			api := NewMockForumAPI(ctrl)
			svc, d := openDiscussion(t, api, ReconcileLocal)
			d.ToggleCollapse(1)

			api.EXPECT().CreateComment(gomock.Any(), gomock.Any()).Return(tt.created, nil)

			reloaded := append(sampleComments(), model.Comment{ID: 30, Content: "fresh"})
			api.EXPECT().GetDiscussion(gomock.Any(), threadRef).
				Return(model.Entity{ID: 9, Kind: model.KindThread}, reloaded, nil)

			require.NoError(t, svc.Submit(context.Background(), d, "text", ptr(1)))
			require.Equal(t, []int64{1, 2, 3, 4, 30}, rowIDs(d))
			require.Zero(t, d.Collapsed().Len())
		})
	}
}

func TestDiscussionService_Submit_ReloadPolicy(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := NewMockForumAPI(ctrl)
	svc, d := openDiscussion(t, api, ReconcileReload)

	d.ToggleCollapse(1)
	d.ToggleReply(2)

	api.EXPECT().
		CreateComment(gomock.Any(), CreateCommentRequest{Parent: threadRef, Content: "reply", ParentID: ptr(2)}).
		Return(model.Comment{ID: 12}, nil)

	after := sampleComments()
	after[0].Replies[0].Replies = append(after[0].Replies[0].Replies,
		model.Comment{ID: 12, Content: "reply", ParentID: ptr(2)})
	api.EXPECT().GetDiscussion(gomock.Any(), threadRef).
		Return(model.Entity{ID: 9, Kind: model.KindThread}, after, nil)

	require.NoError(t, svc.Submit(context.Background(), d, "reply", ptr(2)))

	parent, ok := d.Forest().Find(2)
	require.True(t, ok)
	require.Equal(t, int64(12), parent.Replies[len(parent.Replies)-1].ID)
	require.Zero(t, d.Collapsed().Len())
	_, open := d.ReplyingTo()
	require.False(t, open)
}

func TestDiscussionService_Submit_FailureKeepsInput(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := NewMockForumAPI(ctrl)
	svc, d := openDiscussion(t, api, ReconcileLocal)

	d.ToggleReply(1)
	require.NoError(t, d.SetDraft(ptr(1), "keep me"))

	api.EXPECT().CreateComment(gomock.Any(), gomock.Any()).Return(model.Comment{}, ErrTransport)

	err := svc.Submit(context.Background(), d, "keep me", ptr(1))
	require.ErrorIs(t, err, ErrTransport)
	require.Equal(t, "keep me", d.Draft(ptr(1)))
	require.Equal(t, []int64{1, 2, 3, 4}, rowIDs(d))
}

func TestDiscussionService_Submit_ReloadFailureIsStale(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := NewMockForumAPI(ctrl)
	svc, d := openDiscussion(t, api, ReconcileReload)
	require.NoError(t, d.SetDraft(nil, "posted"))

	api.EXPECT().CreateComment(gomock.Any(), gomock.Any()).Return(model.Comment{ID: 40}, nil)
	api.EXPECT().GetDiscussion(gomock.Any(), threadRef).Return(model.Entity{}, nil, errors.New("boom"))

	err := svc.Submit(context.Background(), d, "posted", nil)
	require.ErrorIs(t, err, ErrStale)
	require.Equal(t, "", d.Draft(nil))
}

func TestParseReconcilePolicy(t *testing.T) {
	t.Parallel()

	p, err := ParseReconcilePolicy("")
	require.NoError(t, err)
	require.Equal(t, ReconcileLocal, p)

	p, err = ParseReconcilePolicy("reload")
	require.NoError(t, err)
	require.Equal(t, "reload", p.String())

	_, err = ParseReconcilePolicy("patch")
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", UserMessage(nil))
	require.Equal(t, UserMessage(ErrTransport), UserMessage(ErrNotFound))
	require.Equal(t, UserMessage(ErrRemote), UserMessage(ErrInvalidRequest))
	require.NotEqual(t, UserMessage(ErrTransport), UserMessage(ErrEmptyContent))
}
