// Package render draws discussions for a terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"forumview/internal/model"
	"forumview/internal/view"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Title    lipgloss.Style
	Meta     lipgloss.Style
	Author   lipgloss.Style
	Body     lipgloss.Style
	Toggle   lipgloss.Style
	Hidden   lipgloss.Style
	Composer lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Meta:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Author:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Body:     lipgloss.NewStyle(),
		Toggle:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Hidden:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
		Composer: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
}

// PlainTheme renders without any styling.
func PlainTheme() Theme {
	s := lipgloss.NewStyle()
	return Theme{Title: s, Meta: s, Author: s, Body: s, Toggle: s, Hidden: s, Composer: s}
}

const indentUnit = "  "

type Renderer struct {
	theme Theme
	now   func() time.Time
}

func New(theme Theme) *Renderer {
	return &Renderer{theme: theme, now: time.Now}
}

func (r *Renderer) Discussion(w io.Writer, d *view.Discussion) error {
	var b strings.Builder

	e := d.Entity()
	b.WriteString(r.theme.Title.Render(e.Title))
	b.WriteString("\n")
	b.WriteString(r.theme.Meta.Render(fmt.Sprintf("%s · %s · ♥ %d · ✿ %d · %d comments",
		e.Author.DisplayName(), r.ago(e.CreatedAt), e.LikesCount, e.ChillVotesCount, e.CommentsCount)))
	b.WriteString("\n")
	if e.Content != "" {
		b.WriteString("\n")
		b.WriteString(r.theme.Body.Render(e.Content))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	rows := d.Rows()
	if len(rows) == 0 {
		b.WriteString(r.theme.Hidden.Render("No comments yet."))
		b.WriteString("\n")
	}

	replyingTo, replying := d.ReplyingTo()
	for _, row := range rows {
		r.row(&b, row)
		if replying && row.Comment.ID == replyingTo {
			indent := strings.Repeat(indentUnit, row.Depth+1)
			b.WriteString(indent)
			b.WriteString(r.theme.Composer.Render("↳ replying: " + d.Draft(&replyingTo)))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) row(b *strings.Builder, row view.Row) {
	indent := strings.Repeat(indentUnit, row.Depth)

	marker := " "
	switch {
	case row.HasReplies && row.Collapsed:
		marker = r.theme.Toggle.Render("▸")
	case row.HasReplies:
		marker = r.theme.Toggle.Render("▾")
	}

	c := row.Comment
	header := fmt.Sprintf("%s%s %s %s", indent, marker,
		r.theme.Author.Render(c.Author.DisplayName()),
		r.theme.Meta.Render(fmt.Sprintf("#%d · %s", c.ID, r.ago(c.CreatedAt))))
	b.WriteString(header)
	b.WriteString("\n")

	for _, line := range strings.Split(c.Content, "\n") {
		b.WriteString(indent)
		b.WriteString(indentUnit)
		b.WriteString(r.theme.Body.Render(line))
		b.WriteString("\n")
	}

	if row.Collapsed {
		b.WriteString(indent)
		b.WriteString(indentUnit)
		b.WriteString(r.theme.Hidden.Render(fmt.Sprintf("(%d hidden)", row.Descendants)))
		b.WriteString("\n")
	}
}

func (r *Renderer) ago(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	d := r.now().Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// Projects prints one line per project followed by its description.
func (r *Renderer) Projects(w io.Writer, projects []model.Entity) error {
	var b strings.Builder
	for _, p := range projects {
		fmt.Fprintf(&b, "%s %s %s\n",
			r.theme.Meta.Render(fmt.Sprintf("#%d", p.ID)),
			r.theme.Title.Render(p.Title),
			r.theme.Meta.Render(fmt.Sprintf("by %s (%d comments)", p.Author.DisplayName(), p.CommentsCount)))
		if p.Content != "" {
			fmt.Fprintf(&b, "    %s\n", p.Content)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Threads prints one line per thread.
func (r *Renderer) Threads(w io.Writer, threads []model.Entity) error {
	var b strings.Builder
	for _, t := range threads {
		fmt.Fprintf(&b, "%s %s %s\n",
			r.theme.Meta.Render(fmt.Sprintf("#%d", t.ID)),
			r.theme.Title.Render(t.Title),
			r.theme.Meta.Render(fmt.Sprintf("(%d comments, %s)", t.CommentsCount, r.ago(t.CreatedAt))))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
