package service

import (
	"context"
	"testing"

	"forumview/internal/model"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestProjectService_ListProjects(t *testing.T) {
	t.Parallel()

	projects := []model.Entity{
		{ID: 3, Kind: model.KindProject, Title: "Kiln", Content: "Pottery scheduler"},
		{ID: 2, Kind: model.KindProject, Title: "forge", Content: "A tiny build tool."},
		{ID: 1, Kind: model.KindProject, Title: "notes", Content: "Markdown BUILD logs"},
	}

	tests := []struct {
		name    string
		search  string
		wantIDs []int64
	}{
		{name: "empty keeps all", search: "", wantIDs: []int64{3, 2, 1}},
		{name: "title ignores case", search: "KILN", wantIDs: []int64{3}},
		{name: "description matches", search: "build", wantIDs: []int64{2, 1}},
		{name: "surrounding spaces trimmed", search: "  forge ", wantIDs: []int64{2}},
		{name: "no match", search: "zzz", wantIDs: []int64{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			api := NewMockForumAPI(ctrl)
			api.EXPECT().ListProjects(gomock.Any()).Return(projects, nil)

			got, err := NewProjectService(api).ListProjects(context.Background(), tt.search)
			require.NoError(t, err)

			ids := make([]int64, 0, len(got))
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			require.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestProjectService_ListProjects_Error(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := NewMockForumAPI(ctrl)
	api.EXPECT().ListProjects(gomock.Any()).Return(nil, ErrUnauthorized)

	_, err := NewProjectService(api).ListProjects(context.Background(), "x")
	require.ErrorIs(t, err, ErrUnauthorized)
}
