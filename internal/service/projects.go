package service

import (
	"context"
	"strings"

	"forumview/internal/model"
)

type ProjectService struct {
	api ForumAPI
}

func NewProjectService(api ForumAPI) *ProjectService {
	return &ProjectService{api: api}
}

// ListProjects returns the projects whose title or description contains
// search, ignoring case. An empty search keeps every project.
func (s *ProjectService) ListProjects(ctx context.Context, search string) ([]model.Entity, error) {
	items, err := s.api.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return items, nil
	}

	out := make([]model.Entity, 0, len(items))
	for _, e := range items {
		if strings.Contains(strings.ToLower(e.Title), q) || strings.Contains(strings.ToLower(e.Content), q) {
			out = append(out, e)
		}
	}
	return out, nil
}
