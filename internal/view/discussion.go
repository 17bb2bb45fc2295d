// Package view holds the per-session state of an open discussion: the
// comment forest, which nodes are collapsed, where the reply composer is
// open and what has been typed into the composers.
//
// A Discussion is owned by a single goroutine and is not safe for
// concurrent use.
package view

import (
	"errors"
	"strings"

	"forumview/internal/model"
	"forumview/internal/tree"
)

var ErrComposerClosed = errors.New("reply composer is not open on this comment")

type Discussion struct {
	entity    model.Entity
	forest    tree.Forest
	collapsed *CollapseSet
	focus     ReplyFocus

	mainDraft  string
	replyDraft string
}

func NewDiscussion(entity model.Entity, forest tree.Forest) *Discussion {
	return &Discussion{
		entity:    entity,
		forest:    forest,
		collapsed: NewCollapseSet(),
	}
}

func (d *Discussion) Entity() model.Entity      { return d.entity }
func (d *Discussion) Ref() model.ParentRef      { return d.entity.Ref() }
func (d *Discussion) Forest() tree.Forest       { return d.forest }
func (d *Discussion) Collapsed() *CollapseSet   { return d.collapsed }
func (d *Discussion) Rows() []Row               { return Visible(d.forest, d.collapsed) }
func (d *Discussion) ReplyingTo() (int64, bool) { return d.focus.Current() }

// SetEntity swaps the header, e.g. after a reaction toggle.
func (d *Discussion) SetEntity(e model.Entity) {
	d.entity = e
}

// ToggleCollapse flips the collapse flag of a comment that has replies.
// Leaves and unknown ids are ignored. It reports whether id is collapsed
// afterwards.
func (d *Discussion) ToggleCollapse(id int64) bool {
	c, ok := d.forest.Find(id)
	if !ok || len(c.Replies) == 0 {
		return false
	}
	return d.collapsed.Toggle(id)
}

// ToggleReply opens the reply composer under id or closes it if it is
// already open there. Whatever was typed into the previous reply composer
// is discarded.
func (d *Discussion) ToggleReply(id int64) {
	d.focus.Toggle(id)
	d.replyDraft = ""
}

func (d *Discussion) CancelReply() {
	d.focus.Clear()
	d.replyDraft = ""
}

// SetDraft stores composer text. A nil parentID addresses the top-level
// composer; otherwise the reply composer must be open on parentID.
func (d *Discussion) SetDraft(parentID *int64, text string) error {
	if parentID == nil {
		d.mainDraft = text
		return nil
	}
	if !d.focus.Is(*parentID) {
		return ErrComposerClosed
	}
	d.replyDraft = text
	return nil
}

func (d *Discussion) Draft(parentID *int64) string {
	if parentID == nil {
		return d.mainDraft
	}
	if !d.focus.Is(*parentID) {
		return ""
	}
	return d.replyDraft
}

// Insert places a freshly created comment into the forest, keeping collapse
// state as it is.
func (d *Discussion) Insert(c model.Comment) error {
	f, err := d.forest.Insert(c)
	if err != nil {
		return err
	}
	d.forest = f
	d.entity.CommentsCount++
	return nil
}

// Replace installs a refetched discussion. Like a page reload it drops the
// collapse set, the reply focus and every draft.
func (d *Discussion) Replace(entity model.Entity, forest tree.Forest) {
	d.entity = entity
	d.forest = forest
	d.collapsed.Reset()
	d.focus.Clear()
	d.mainDraft = ""
	d.replyDraft = ""
}

// FinishSubmit clears the draft of the composer that was just submitted
// and closes the reply composer whichever one was used.
func (d *Discussion) FinishSubmit(parentID *int64) {
	if parentID == nil {
		d.mainDraft = ""
	}
	d.CancelReply()
}

// CanSubmit mirrors the disabled submit control: blank text never leaves
// the client.
func CanSubmit(content string) bool {
	return strings.TrimSpace(content) != ""
}
