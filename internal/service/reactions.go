package service

import (
	"context"
	"fmt"

	"forumview/internal/model"
	"forumview/internal/view"
	"forumview/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type ReactionService struct {
	api      ForumAPI
	validate *validator.Validate
}

func NewReactionService(api ForumAPI) *ReactionService {
	return &ReactionService{api: api, validate: validator.New()}
}

func (s *ReactionService) ToggleLike(ctx context.Context, ref model.ParentRef) (model.Entity, error) {
	return s.toggle(ctx, ToggleReactionRequest{Parent: ref, Reaction: ReactionLike})
}

func (s *ReactionService) ToggleChill(ctx context.Context, ref model.ParentRef) (model.Entity, error) {
	return s.toggle(ctx, ToggleReactionRequest{Parent: ref, Reaction: ReactionChill})
}

// Apply toggles r on an open discussion and swaps in the updated header.
func (s *ReactionService) Apply(ctx context.Context, d *view.Discussion, r Reaction) error {
	e, err := s.toggle(ctx, ToggleReactionRequest{Parent: d.Ref(), Reaction: r})
	if err != nil {
		return err
	}
	d.SetEntity(e)
	return nil
}

func (s *ReactionService) toggle(ctx context.Context, req ToggleReactionRequest) (model.Entity, error) {
	if err := s.validate.Struct(req); err != nil {
		return model.Entity{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	e, err := s.api.ToggleReaction(ctx, req)
	if err != nil {
		logger.FromContext(ctx).Error("error toggling reaction",
			"parent", req.Parent.String(), "reaction", string(req.Reaction), "error", err)
		return model.Entity{}, err
	}
	if e.Kind == "" {
		e.Kind = req.Parent.Kind
	}
	return e, nil
}
