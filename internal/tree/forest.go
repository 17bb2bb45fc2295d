// Package tree holds the comment forest of a thread or project.
//
// A Forest is immutable: every accessor hands out copies and Insert returns a
// new Forest, so a forest can be shared between a view and its renderer
// without coordination.
package tree

import (
	"errors"
	"fmt"

	"forumview/internal/model"
)

var (
	ErrParentNotFound = errors.New("parent comment not found")
	ErrDuplicateID    = errors.New("duplicate comment id")
	ErrInconsistent   = errors.New("inconsistent comment tree")
)

type Forest struct {
	roots []model.Comment
	// id -> index path from the roots slice down to the node
	paths map[int64][]int
}

// Build wraps server-nested roots. Nesting is trusted as is.
func Build(roots []model.Comment) Forest {
	f := Forest{roots: cloneComments(roots)}
	f.reindex()
	return f
}

func (f *Forest) reindex() {
	f.paths = make(map[int64][]int)
	var walk func(nodes []model.Comment, prefix []int)
	walk = func(nodes []model.Comment, prefix []int) {
		for i := range nodes {
			path := append(append(make([]int, 0, len(prefix)+1), prefix...), i)
			if _, seen := f.paths[nodes[i].ID]; !seen {
				f.paths[nodes[i].ID] = path
			}
			walk(nodes[i].Replies, path)
		}
	}
	walk(f.roots, nil)
}

func (f Forest) Roots() []model.Comment {
	return cloneComments(f.roots)
}

// Len counts every node in the forest, replies included.
func (f Forest) Len() int {
	n := 0
	f.Walk(func(model.Comment, int) bool {
		n++
		return true
	})
	return n
}

func (f Forest) Has(id int64) bool {
	_, ok := f.paths[id]
	return ok
}

func (f Forest) Find(id int64) (model.Comment, bool) {
	path, ok := f.paths[id]
	if !ok {
		return model.Comment{}, false
	}
	return cloneComment(*f.at(path)), true
}

func (f Forest) at(path []int) *model.Comment {
	nodes := f.roots
	var node *model.Comment
	for _, i := range path {
		node = &nodes[i]
		nodes = node.Replies
	}
	return node
}

// Walk visits nodes pre-order in server order. Returning false from fn stops
// the walk. The comment passed to fn still carries its Replies.
func (f Forest) Walk(fn func(c model.Comment, depth int) bool) {
	var walk func(nodes []model.Comment, depth int) bool
	walk = func(nodes []model.Comment, depth int) bool {
		for _, c := range nodes {
			if !fn(c, depth) {
				return false
			}
			if !walk(c.Replies, depth+1) {
				return false
			}
		}
		return true
	}
	walk(f.roots, 0)
}

// Validate checks that every reply points at the node it is nested under,
// that roots have no parent and that ids are unique.
func (f Forest) Validate() error {
	seen := make(map[int64]struct{})
	var check func(nodes []model.Comment, parent *int64) error
	check = func(nodes []model.Comment, parent *int64) error {
		for _, c := range nodes {
			if _, dup := seen[c.ID]; dup {
				return fmt.Errorf("%w: id %d appears twice", ErrInconsistent, c.ID)
			}
			seen[c.ID] = struct{}{}

			switch {
			case parent == nil && c.ParentID != nil:
				return fmt.Errorf("%w: root %d has parent %d", ErrInconsistent, c.ID, *c.ParentID)
			case parent != nil && (c.ParentID == nil || *c.ParentID != *parent):
				return fmt.Errorf("%w: reply %d nested under %d", ErrInconsistent, c.ID, *parent)
			}

			id := c.ID
			if err := check(c.Replies, &id); err != nil {
				return err
			}
		}
		return nil
	}
	return check(f.roots, nil)
}

// Insert returns a forest with c appended to its parent's replies, or to the
// roots when c has no parent. Ids of c and of any replies it carries must be
// new to the forest. f is left untouched.
func (f Forest) Insert(c model.Comment) (Forest, error) {
	if id, dup := f.firstDuplicate(c); dup {
		return f, fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}

	c = cloneComment(c)
	out := Forest{roots: cloneComments(f.roots)}

	if c.ParentID == nil {
		out.roots = append(out.roots, c)
		out.reindex()
		return out, nil
	}

	path, ok := f.paths[*c.ParentID]
	if !ok {
		return f, fmt.Errorf("%w: %d", ErrParentNotFound, *c.ParentID)
	}
	parent := out.at(path)
	parent.Replies = append(parent.Replies, c)
	out.reindex()
	return out, nil
}

func (f Forest) firstDuplicate(c model.Comment) (int64, bool) {
	seen := make(map[int64]struct{})
	var check func(c model.Comment) (int64, bool)
	check = func(c model.Comment) (int64, bool) {
		if _, taken := f.paths[c.ID]; taken {
			return c.ID, true
		}
		if _, again := seen[c.ID]; again {
			return c.ID, true
		}
		seen[c.ID] = struct{}{}
		for _, r := range c.Replies {
			if id, dup := check(r); dup {
				return id, true
			}
		}
		return 0, false
	}
	return check(c)
}

// FromFlat nests flat rows by ParentID, keeping input order among siblings.
// Rows whose parent is not among rows cannot be reached and are dropped, as
// are repeats of an id already seen; the number dropped is returned.
func FromFlat(rows []model.Comment) (Forest, int) {
	children := make(map[int64][]model.Comment)
	seen := make(map[int64]struct{}, len(rows))
	var roots []model.Comment
	for _, r := range rows {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}

		r.Replies = nil
		if r.ParentID == nil {
			roots = append(roots, r)
			continue
		}
		children[*r.ParentID] = append(children[*r.ParentID], r)
	}

	// Ids are unique here, so every row hangs below at most one node and the
	// walk from the roots cannot revisit a row.
	placed := 0
	var attach func(nodes []model.Comment)
	attach = func(nodes []model.Comment) {
		for i := range nodes {
			placed++
			nodes[i].Replies = append([]model.Comment(nil), children[nodes[i].ID]...)
			attach(nodes[i].Replies)
		}
	}
	attach(roots)

	f := Forest{roots: roots}
	f.reindex()
	return f, len(rows) - placed
}

func cloneComments(in []model.Comment) []model.Comment {
	if in == nil {
		return nil
	}
	out := make([]model.Comment, len(in))
	for i := range in {
		out[i] = cloneComment(in[i])
	}
	return out
}

func cloneComment(c model.Comment) model.Comment {
	if c.ParentID != nil {
		pid := *c.ParentID
		c.ParentID = &pid
	}
	if c.Author.Name != nil {
		name := *c.Author.Name
		c.Author.Name = &name
	}
	c.Replies = cloneComments(c.Replies)
	return c
}
