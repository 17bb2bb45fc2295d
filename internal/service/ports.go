package service

import (
	"context"

	"forumview/internal/model"
	"forumview/internal/session"
	"forumview/pkg/pagination"
)

//go:generate mockgen -source=ports.go -destination=./ports_mock.go -package=service
type ForumAPI interface {
	GetDiscussion(ctx context.Context, ref model.ParentRef) (model.Entity, []model.Comment, error)
	// CreateComment may return a zero Comment when the server reply carries
	// no usable comment.
	CreateComment(ctx context.Context, req CreateCommentRequest) (model.Comment, error)
	ToggleReaction(ctx context.Context, req ToggleReactionRequest) (model.Entity, error)
	ListThreads(ctx context.Context, in pagination.PageRequest) (pagination.Page[model.Entity], error)
	ListProjects(ctx context.Context) ([]model.Entity, error)
}

type Authenticator interface {
	Login(ctx context.Context, req LoginRequest) (*session.Session, error)
}
