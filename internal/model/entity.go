package model

import (
	"fmt"
	"time"
)

type ParentKind string

const (
	KindThread  ParentKind = "thread"
	KindProject ParentKind = "project"
)

// PathSegment is the API collection name for the kind.
func (k ParentKind) PathSegment() string {
	switch k {
	case KindThread:
		return "forum_threads"
	case KindProject:
		return "projects"
	default:
		return ""
	}
}

func ParseParentKind(s string) (ParentKind, error) {
	switch ParentKind(s) {
	case KindThread, KindProject:
		return ParentKind(s), nil
	}
	return "", fmt.Errorf("unknown parent kind %q", s)
}

// ParentRef names the thread or project a comment forest hangs off.
type ParentRef struct {
	Kind ParentKind `validate:"required,oneof=thread project"`
	ID   int64      `validate:"required,gt=0"`
}

func (r ParentRef) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}

type Entity struct {
	ID              int64
	Kind            ParentKind
	Title           string
	Content         string
	Author          Author
	Mood            string
	CreatedAt       time.Time
	LikesCount      int
	ChillVotesCount int
	CommentsCount   int
	UserLiked       bool
	UserChilled     bool
}

func (e Entity) Ref() ParentRef {
	return ParentRef{Kind: e.Kind, ID: e.ID}
}
