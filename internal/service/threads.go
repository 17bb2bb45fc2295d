package service

import (
	"context"

	"forumview/internal/model"
	"forumview/pkg/pagination"
)

const (
	DefaultThreadsLimit = 20
	MaxThreadsLimit     = 100
)

type ThreadService struct {
	api ForumAPI
}

func NewThreadService(api ForumAPI) *ThreadService {
	return &ThreadService{api: api}
}

func (s *ThreadService) ListThreads(ctx context.Context, in pagination.PageRequest) (pagination.Page[model.Entity], error) {
	if err := validatePagination(in); err != nil {
		return pagination.Page[model.Entity]{}, err
	}

	if in.Limit <= 0 {
		in.Limit = DefaultThreadsLimit
	}
	in.Limit = min(in.Limit, MaxThreadsLimit)

	return s.api.ListThreads(ctx, in)
}
