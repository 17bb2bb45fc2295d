package inmemory

import (
	"context"
	"sync"

	"forumview/internal/model"
	"forumview/internal/stub"
)

// CommentBus delivers comments to subscribers of the same thread or
// project. Slow subscribers miss comments instead of blocking publishers.
type CommentBus struct {
	mu   sync.RWMutex
	subs map[model.ParentRef]map[chan model.Comment]struct{}
	buf  int
}

func New(buf int) *CommentBus {
	if buf <= 0 {
		buf = 64
	}
	return &CommentBus{
		subs: make(map[model.ParentRef]map[chan model.Comment]struct{}),
		buf:  buf,
	}
}

var _ stub.CommentBus = (*CommentBus)(nil)

// Subscribe registers a channel that is closed once ctx is done.
func (b *CommentBus) Subscribe(ctx context.Context, ref model.ParentRef) (<-chan model.Comment, error) {
	ch := make(chan model.Comment, b.buf)

	b.mu.Lock()
	if b.subs[ref] == nil {
		b.subs[ref] = make(map[chan model.Comment]struct{})
	}
	b.subs[ref][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		if set := b.subs[ref]; set != nil {
			delete(set, ch)
			if len(set) == 0 {
				delete(b.subs, ref)
			}
		}
		b.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

func (b *CommentBus) Publish(_ context.Context, ref model.ParentRef, c model.Comment) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[ref] {
		select {
		case ch <- c:
		default:
		}
	}
	return nil
}

// Subscribers reports how many listeners ref has.
func (b *CommentBus) Subscribers(ref model.ParentRef) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[ref])
}
