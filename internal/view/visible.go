package view

import (
	"forumview/internal/model"
	"forumview/internal/tree"
)

type Row struct {
	Comment    model.Comment
	Depth      int
	HasReplies bool
	Collapsed  bool
	// ReplyCount counts direct replies, hidden or not.
	ReplyCount int
	// Descendants counts every comment below this one, which is what a
	// collapsed row hides.
	Descendants int
}

// Visible flattens f pre-order, skipping the replies of collapsed nodes.
// Collapse flags of hidden descendants are kept but have no effect until
// their ancestor is expanded again.
func Visible(f tree.Forest, collapsed *CollapseSet) []Row {
	var rows []Row
	var emit func(nodes []model.Comment, depth int)
	emit = func(nodes []model.Comment, depth int) {
		for _, c := range nodes {
			hasReplies := len(c.Replies) > 0
			isCollapsed := hasReplies && collapsed != nil && collapsed.IsCollapsed(c.ID)
			replies := c.Replies

			row := Row{
				Comment:     c,
				Depth:       depth,
				HasReplies:  hasReplies,
				Collapsed:   isCollapsed,
				ReplyCount:  len(replies),
				Descendants: countDescendants(replies),
			}
			row.Comment.Replies = nil
			rows = append(rows, row)

			if !isCollapsed {
				emit(replies, depth+1)
			}
		}
	}
	emit(f.Roots(), 0)
	return rows
}

func countDescendants(replies []model.Comment) int {
	n := len(replies)
	for _, r := range replies {
		n += countDescendants(r.Replies)
	}
	return n
}
