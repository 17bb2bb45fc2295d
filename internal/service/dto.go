package service

import (
	"fmt"

	"forumview/internal/model"
	"forumview/pkg/pagination"
)

type CreateCommentRequest struct {
	Parent   model.ParentRef
	Content  string `validate:"required"`
	ParentID *int64 `validate:"omitempty,gt=0"`
}

type Reaction string

const (
	ReactionLike  Reaction = "like"
	ReactionChill Reaction = "chill"
)

type ToggleReactionRequest struct {
	Parent   model.ParentRef
	Reaction Reaction `validate:"required,oneof=like chill"`
}

type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

func validatePagination(in pagination.PageRequest) error {
	if in.HasBefore() && in.HasAfter() {
		return fmt.Errorf("both cursors provided: %w", ErrInvalidRequest)
	}
	if _, err := pagination.Decode(in.BeforeCursor); err != nil {
		return fmt.Errorf("%w: before-cursor: %v", ErrInvalidRequest, err)
	}
	if _, err := pagination.Decode(in.AfterCursor); err != nil {
		return fmt.Errorf("%w: after-cursor: %v", ErrInvalidRequest, err)
	}
	return nil
}
