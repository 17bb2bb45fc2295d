package inmemory

import (
	"context"
	"forumview/internal/model"
	"forumview/internal/stub"
	"time"
)

func (s *Storage) CreateComment(_ context.Context, p stub.CreateCommentParams) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entity(p.Ref); !ok {
		return model.Comment{}, stub.ErrNotFound
	}

	c := model.Comment{
		ID:        int64(len(s.comments)),
		Content:   p.Content,
		Author:    s.author(p.UserID),
		Mood:      p.Mood,
		CreatedAt: time.Now(),
	}
	if p.ParentID != nil {
		pid := *p.ParentID
		c.ParentID = &pid
	}

	s.comments = append(s.comments, commentRow{Comment: c, ref: p.Ref})
	s.byEntity[p.Ref] = append(s.byEntity[p.Ref], c.ID)
	return c, nil
}

func (s *Storage) GetCommentRef(_ context.Context, commentID int64) (model.ParentRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if commentID <= 0 || int(commentID) >= len(s.comments) {
		return model.ParentRef{}, stub.ErrNotFound
	}
	return s.comments[commentID].ref, nil
}

func (s *Storage) ListComments(_ context.Context, ref model.ParentRef) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byEntity[ref]
	if len(ids) == 0 {
		return nil, nil
	}

	out := make([]model.Comment, 0, len(ids))
	for _, id := range ids {
		c := s.comments[id].Comment
		if c.ParentID != nil {
			pid := *c.ParentID
			c.ParentID = &pid
		}
		out = append(out, c)
	}
	return out, nil
}
