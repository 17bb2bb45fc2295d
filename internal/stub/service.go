// Package stub implements the forum behavior served by the development
// stub server: accounts, threads and projects, flat comment storage nested
// on read, and reactions.
package stub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"forumview/internal/adapter/out/storage"
	"forumview/internal/model"
	"forumview/internal/tree"
	"forumview/pkg/logger"
	"forumview/pkg/pagination"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultThreadsLimit = 20
	MaxThreadsLimit     = 100
)

type Service struct {
	storage  Storage
	tx       Transactor
	bus      CommentBus
	validate *validator.Validate
}

type Option func(*Service)

// WithCommentBus publishes every created comment to bus.
func WithCommentBus(bus CommentBus) Option {
	return func(s *Service) { s.bus = bus }
}

func NewService(st Storage, tx Transactor, opts ...Option) *Service {
	if tx == nil {
		tx = NoTx{}
	}
	s := &Service{storage: st, tx: tx, validate: validator.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type RegisterRequest struct {
	Username string `validate:"required,alphanum,max=32"`
	Name     *string
	Password string `validate:"required,min=4"`
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, error) {
	if err := s.validate.Struct(req); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.storage.CreateUser(ctx, User{
		Author:       model.Author{Username: req.Username, Name: req.Name},
		PasswordHash: string(hash),
	})
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrUnauthorized
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrUnauthorized
	}
	return u, nil
}

type CreateEntityRequest struct {
	Kind    model.ParentKind `validate:"required,oneof=thread project"`
	UserID  int64            `validate:"required,gt=0"`
	Title   string           `validate:"required"`
	Content string
	Mood    string `validate:"omitempty,oneof=chill excited curious supportive"`
}

func (s *Service) CreateEntity(ctx context.Context, req CreateEntityRequest) (model.Entity, error) {
	if err := s.validate.Struct(req); err != nil {
		return model.Entity{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return s.storage.CreateEntity(ctx, model.Entity{
		Kind:    req.Kind,
		Title:   req.Title,
		Content: req.Content,
		Mood:    req.Mood,
		Author:  model.Author{ID: req.UserID},
	})
}

// GetDiscussion returns the entity and its comments nested by parent.
func (s *Service) GetDiscussion(ctx context.Context, ref model.ParentRef, viewerID int64) (model.Entity, []model.Comment, error) {
	if err := s.validate.Struct(ref); err != nil {
		return model.Entity{}, nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	e, err := s.storage.GetEntity(ctx, ref, viewerID)
	if err != nil {
		return model.Entity{}, nil, err
	}

	rows, err := s.storage.ListComments(ctx, ref)
	if err != nil {
		return model.Entity{}, nil, err
	}

	forest, dropped := tree.FromFlat(rows)
	if dropped > 0 {
		logger.FromContext(ctx).Warn("unreachable comments dropped", "parent", ref.String(), "count", dropped)
	}
	return e, forest.Roots(), nil
}

type CreateCommentRequest struct {
	Ref      model.ParentRef
	UserID   int64  `validate:"required,gt=0"`
	ParentID *int64 `validate:"omitempty,gt=0"`
	Content  string `validate:"required"`
	Mood     string
}

// CreateComment stores a comment. A reply must point at a comment of the
// same thread or project.
func (s *Service) CreateComment(ctx context.Context, req CreateCommentRequest) (model.Comment, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := s.validate.Struct(req); err != nil {
		return model.Comment{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	var out model.Comment
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.storage.GetEntity(ctx, req.Ref, req.UserID); err != nil {
			return err
		}

		if req.ParentID != nil {
			ref, err := s.storage.GetCommentRef(ctx, *req.ParentID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return fmt.Errorf("%w: parent comment %d does not exist", ErrInvalidRequest, *req.ParentID)
				}
				return err
			}
			if ref != req.Ref {
				return fmt.Errorf("%w: parent comment %d belongs to %s", ErrInvalidRequest, *req.ParentID, ref)
			}
		}

		c, err := s.storage.CreateComment(ctx, CreateCommentParams{
			Ref:      req.Ref,
			UserID:   req.UserID,
			ParentID: req.ParentID,
			Content:  req.Content,
			Mood:     req.Mood,
		})
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return model.Comment{}, err
	}

	if s.bus != nil {
		if err := s.bus.Publish(ctx, req.Ref, out); err != nil {
			logger.FromContext(ctx).Warn("publish comment", "parent", req.Ref.String(), "comment_id", out.ID, "error", err)
		}
	}
	return out, nil
}

// Listen streams comments created on ref until ctx is done.
func (s *Service) Listen(ctx context.Context, ref model.ParentRef) (<-chan model.Comment, error) {
	if s.bus == nil {
		return nil, fmt.Errorf("%w: live updates disabled", ErrInvalidRequest)
	}
	if err := s.validate.Struct(ref); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if _, err := s.storage.GetEntity(ctx, ref, 0); err != nil {
		return nil, err
	}
	return s.bus.Subscribe(ctx, ref)
}

func (s *Service) ToggleReaction(ctx context.Context, ref model.ParentRef, userID int64, reaction string) (model.Entity, error) {
	if err := s.validate.Struct(ref); err != nil {
		return model.Entity{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if reaction != "like" && reaction != "chill" {
		return model.Entity{}, fmt.Errorf("%w: unknown reaction %q", ErrInvalidRequest, reaction)
	}

	var out model.Entity
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.storage.GetEntity(ctx, ref, userID); err != nil {
			return err
		}
		if err := s.storage.ToggleReaction(ctx, ref, userID, reaction); err != nil {
			return err
		}
		e, err := s.storage.GetEntity(ctx, ref, userID)
		if err != nil {
			return err
		}
		out = e
		return nil
	})
	return out, err
}

func (s *Service) ListProjects(ctx context.Context, viewerID int64) ([]model.Entity, error) {
	return s.storage.ListProjects(ctx, viewerID)
}

func (s *Service) ListThreads(ctx context.Context, in pagination.PageRequest, viewerID int64) (pagination.Page[model.Entity], error) {
	var (
		items []model.Entity
		err   error
		page  pagination.Page[model.Entity]
	)

	params, err := toGetThreadsParams(in, viewerID)
	if err != nil {
		return page, err
	}

	limit := params.Limit
	peek := limit + 1

	switch params.Direction {
	case storage.DirectionUnspecified:
		items, err = s.storage.ListThreads(ctx, peek, viewerID)
	default:
		params.Limit = peek
		items, err = s.storage.ListThreadsWithCursor(ctx, params)
	}
	if err != nil {
		return page, err
	}

	if len(items) == 0 {
		return page, nil
	}

	if len(items) > limit {
		if params.Direction == storage.DirectionBefore {
			items = items[len(items)-limit:]
			page.HasPreviousPage = true
		} else {
			items = items[:limit]
			page.HasNextPage = true
		}
	}
	if params.Direction == storage.DirectionAfter {
		page.HasPreviousPage = true
	}
	if params.Direction == storage.DirectionBefore {
		page.HasNextPage = true
	}

	page.Items = items
	page.Count = len(items)

	startCursor := pagination.Cursor{CreatedAt: items[0].CreatedAt, ID: items[0].ID}
	endCursor := pagination.Cursor{CreatedAt: items[len(items)-1].CreatedAt, ID: items[len(items)-1].ID}
	page.StartCursor, page.EndCursor = startCursor.Encode(), endCursor.Encode()
	return page, nil
}

func toGetThreadsParams(in pagination.PageRequest, viewerID int64) (storage.GetThreadsParams, error) {
	if in.HasBefore() && in.HasAfter() {
		return storage.GetThreadsParams{}, fmt.Errorf("both cursors provided: %w", ErrInvalidRequest)
	}

	if in.Limit <= 0 {
		in.Limit = DefaultThreadsLimit
	}
	in.Limit = min(in.Limit, MaxThreadsLimit)

	params := storage.GetThreadsParams{Limit: in.Limit, ViewerID: viewerID}

	before, err := pagination.Decode(in.BeforeCursor)
	if err != nil {
		return params, fmt.Errorf("%w: before-cursor: %v", ErrInvalidRequest, err)
	}
	after, err := pagination.Decode(in.AfterCursor)
	if err != nil {
		return params, fmt.Errorf("%w: after-cursor: %v", ErrInvalidRequest, err)
	}

	switch {
	case before != nil:
		params.Cursor = *before
		params.Direction = storage.DirectionBefore
	case after != nil:
		params.Cursor = *after
		params.Direction = storage.DirectionAfter
	}
	return params, nil
}
