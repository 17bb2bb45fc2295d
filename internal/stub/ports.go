package stub

import (
	"context"

	"forumview/internal/adapter/out/storage"
	"forumview/internal/model"
)

type User struct {
	model.Author
	PasswordHash string
}

type CreateCommentParams struct {
	Ref      model.ParentRef
	UserID   int64
	ParentID *int64
	Content  string
	Mood     string
}

type Storage interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)

	CreateEntity(ctx context.Context, e model.Entity) (model.Entity, error)
	GetEntity(ctx context.Context, ref model.ParentRef, viewerID int64) (model.Entity, error)
	ListThreads(ctx context.Context, limit int, viewerID int64) ([]model.Entity, error)
	ListThreadsWithCursor(ctx context.Context, p storage.GetThreadsParams) ([]model.Entity, error)
	// ListProjects returns every project, newest first.
	ListProjects(ctx context.Context, viewerID int64) ([]model.Entity, error)
	ToggleReaction(ctx context.Context, ref model.ParentRef, userID int64, reaction string) error

	CreateComment(ctx context.Context, p CreateCommentParams) (model.Comment, error)
	GetCommentRef(ctx context.Context, commentID int64) (model.ParentRef, error)
	// ListComments returns the entity's comments flat, oldest first.
	ListComments(ctx context.Context, ref model.ParentRef) ([]model.Comment, error)
}

// CommentBus fans out created comments to listeners of one thread or
// project.
type CommentBus interface {
	Publish(ctx context.Context, ref model.ParentRef, c model.Comment) error
	Subscribe(ctx context.Context, ref model.ParentRef) (<-chan model.Comment, error)
}

// Transactor runs fn inside one storage transaction where the storage
// supports it.
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoTx runs fn directly. Used with the in-memory storage.
type NoTx struct{}

func (NoTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
