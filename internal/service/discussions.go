package service

import (
	"context"
	"fmt"

	"forumview/internal/model"
	"forumview/internal/tree"
	"forumview/internal/view"
	"forumview/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// ReconcilePolicy decides how a discussion catches up after a submit.
type ReconcilePolicy int

const (
	// ReconcileLocal inserts the created comment in place and reloads only
	// when that is not possible.
	ReconcileLocal ReconcilePolicy = iota
	// ReconcileReload refetches the whole discussion, dropping collapse
	// state, reply focus and drafts.
	ReconcileReload
)

func ParseReconcilePolicy(s string) (ReconcilePolicy, error) {
	switch s {
	case "", "local":
		return ReconcileLocal, nil
	case "reload":
		return ReconcileReload, nil
	}
	return 0, fmt.Errorf("%w: unknown reconcile policy %q", ErrInvalidRequest, s)
}

func (p ReconcilePolicy) String() string {
	if p == ReconcileReload {
		return "reload"
	}
	return "local"
}

type DiscussionService struct {
	api      ForumAPI
	policy   ReconcilePolicy
	validate *validator.Validate
}

func NewDiscussionService(api ForumAPI, policy ReconcilePolicy) *DiscussionService {
	return &DiscussionService{
		api:      api,
		policy:   policy,
		validate: validator.New(),
	}
}

func (s *DiscussionService) Open(ctx context.Context, ref model.ParentRef) (*view.Discussion, error) {
	entity, forest, err := s.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	return view.NewDiscussion(entity, forest), nil
}

func (s *DiscussionService) Reload(ctx context.Context, d *view.Discussion) error {
	entity, forest, err := s.fetch(ctx, d.Ref())
	if err != nil {
		return err
	}
	d.Replace(entity, forest)
	return nil
}

func (s *DiscussionService) fetch(ctx context.Context, ref model.ParentRef) (model.Entity, tree.Forest, error) {
	log := logger.FromContext(ctx)

	if err := s.validate.Struct(ref); err != nil {
		return model.Entity{}, tree.Forest{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	entity, comments, err := s.api.GetDiscussion(ctx, ref)
	if err != nil {
		log.Error("error fetching discussion", "parent", ref.String(), "error", err)
		return model.Entity{}, tree.Forest{}, err
	}
	if entity.Kind == "" {
		entity.Kind = ref.Kind
	}
	if entity.ID == 0 {
		entity.ID = ref.ID
	}
	return entity, tree.Build(comments), nil
}

// Submit posts content as a top-level comment (parentID nil) or as a reply.
// Blank content is refused before any request is made. On failure the
// drafts and reply focus are left as they were so the user can resubmit.
func (s *DiscussionService) Submit(ctx context.Context, d *view.Discussion, content string, parentID *int64) error {
	log := logger.FromContext(ctx)

	if !view.CanSubmit(content) {
		return ErrEmptyContent
	}

	req := CreateCommentRequest{
		Parent:   d.Ref(),
		Content:  content,
		ParentID: parentID,
	}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	created, err := s.api.CreateComment(ctx, req)
	if err != nil {
		log.Error("error adding comment", "parent", req.Parent.String(), "error", err)
		return err
	}

	if err := s.reconcile(ctx, d, created, parentID); err != nil {
		d.FinishSubmit(parentID)
		return fmt.Errorf("%w: %v", ErrStale, err)
	}
	d.FinishSubmit(parentID)
	return nil
}

func (s *DiscussionService) reconcile(ctx context.Context, d *view.Discussion, created model.Comment, parentID *int64) error {
	log := logger.FromContext(ctx)

	if s.policy == ReconcileReload {
		return s.Reload(ctx, d)
	}

	if created.ID <= 0 {
		log.Warn("create response carried no comment, reloading", "parent", d.Ref().String())
		return s.Reload(ctx, d)
	}
	if created.ParentID == nil && parentID != nil {
		pid := *parentID
		created.ParentID = &pid
	}

	if err := d.Insert(created); err != nil {
		log.Warn("local insert conflict, reloading",
			"parent", d.Ref().String(), "comment_id", created.ID, "error", err)
		return s.Reload(ctx, d)
	}
	return nil
}
