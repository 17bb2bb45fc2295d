package inmemory

import (
	"context"
	"forumview/internal/adapter/out/storage"
	"forumview/internal/model"
	"forumview/internal/stub"
	"slices"
	"sync"
	"time"
)

type reactionKey struct {
	ref      model.ParentRef
	userID   int64
	reaction string
}

// Storage keeps users, threads/projects, comments and reactions in memory.
// Ids start at 1 and are never reused.
type Storage struct {
	mu sync.RWMutex

	users      []stub.User
	byUsername map[string]int64

	entities []model.Entity
	threads  []int64
	projects []int64

	comments []commentRow
	byEntity map[model.ParentRef][]int64

	reactions map[reactionKey]struct{}
}

type commentRow struct {
	model.Comment
	ref model.ParentRef
}

func New() *Storage {
	return &Storage{
		users:      []stub.User{{}},
		byUsername: make(map[string]int64),
		entities:   []model.Entity{{}},
		comments:   []commentRow{{}},
		byEntity:   make(map[model.ParentRef][]int64),
		reactions:  make(map[reactionKey]struct{}),
	}
}

var _ stub.Storage = (*Storage)(nil)

func (s *Storage) CreateUser(_ context.Context, u stub.User) (stub.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUsername[u.Username]; ok {
		return stub.User{}, stub.ErrConflict
	}
	u.ID = int64(len(s.users))
	s.users = append(s.users, u)
	s.byUsername[u.Username] = u.ID
	return u, nil
}

func (s *Storage) GetUserByUsername(_ context.Context, username string) (stub.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return stub.User{}, stub.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Storage) author(userID int64) model.Author {
	if userID <= 0 || int(userID) >= len(s.users) {
		return model.Author{ID: userID}
	}
	return s.users[userID].Author
}

func (s *Storage) CreateEntity(_ context.Context, e model.Entity) (model.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = int64(len(s.entities))
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	s.entities = append(s.entities, e)
	switch e.Kind {
	case model.KindThread:
		s.threads = append(s.threads, e.ID)
	case model.KindProject:
		s.projects = append(s.projects, e.ID)
	}
	return s.decorate(e, 0), nil
}

func (s *Storage) GetEntity(_ context.Context, ref model.ParentRef, viewerID int64) (model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entity(ref)
	if !ok {
		return model.Entity{}, stub.ErrNotFound
	}
	return s.decorate(e, viewerID), nil
}

func (s *Storage) entity(ref model.ParentRef) (model.Entity, bool) {
	if ref.ID <= 0 || int(ref.ID) >= len(s.entities) {
		return model.Entity{}, false
	}
	e := s.entities[ref.ID]
	if e.Kind != ref.Kind {
		return model.Entity{}, false
	}
	return e, true
}

// decorate fills author, counters and the viewer's own reactions.
func (s *Storage) decorate(e model.Entity, viewerID int64) model.Entity {
	ref := e.Ref()
	e.Author = s.author(e.Author.ID)
	e.CommentsCount = len(s.byEntity[ref])
	e.LikesCount, e.ChillVotesCount = 0, 0
	for k := range s.reactions {
		if k.ref != ref {
			continue
		}
		switch k.reaction {
		case "like":
			e.LikesCount++
		case "chill":
			e.ChillVotesCount++
		}
	}
	_, e.UserLiked = s.reactions[reactionKey{ref: ref, userID: viewerID, reaction: "like"}]
	_, e.UserChilled = s.reactions[reactionKey{ref: ref, userID: viewerID, reaction: "chill"}]
	return e
}

func (s *Storage) ListThreads(_ context.Context, limit int, viewerID int64) ([]model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.threads) == 0 {
		return nil, nil
	}

	out := make([]model.Entity, 0, min(limit, len(s.threads)))
	for i := len(s.threads) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.decorate(s.entities[s.threads[i]], viewerID))
	}
	return out, nil
}

func (s *Storage) ListThreadsWithCursor(_ context.Context, p storage.GetThreadsParams) ([]model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.threads) == 0 {
		return nil, nil
	}

	out := make([]model.Entity, 0, p.Limit)
	switch p.Direction {
	case storage.DirectionAfter:
		for i := len(s.threads) - 1; i >= 0 && len(out) < p.Limit; i-- {
			id := s.threads[i]
			if id < p.Cursor.ID {
				out = append(out, s.decorate(s.entities[id], p.ViewerID))
			}
		}
		return out, nil

	case storage.DirectionBefore:
		for i := 0; i < len(s.threads) && len(out) < p.Limit; i++ {
			id := s.threads[i]
			if id > p.Cursor.ID {
				out = append(out, s.decorate(s.entities[id], p.ViewerID))
			}
		}
		slices.Reverse(out)
		return out, nil

	default:
		return nil, storage.ErrDirectionUnset
	}
}

func (s *Storage) ListProjects(_ context.Context, viewerID int64) ([]model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Entity, 0, len(s.projects))
	for i := len(s.projects) - 1; i >= 0; i-- {
		out = append(out, s.decorate(s.entities[s.projects[i]], viewerID))
	}
	return out, nil
}

func (s *Storage) ToggleReaction(_ context.Context, ref model.ParentRef, userID int64, reaction string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entity(ref); !ok {
		return stub.ErrNotFound
	}
	k := reactionKey{ref: ref, userID: userID, reaction: reaction}
	if _, ok := s.reactions[k]; ok {
		delete(s.reactions, k)
		return nil
	}
	s.reactions[k] = struct{}{}
	return nil
}
