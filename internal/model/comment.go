package model

import "time"

type Author struct {
	ID       int64
	Username string
	Name     *string
}

// DisplayName returns Name when set, Username otherwise.
func (a Author) DisplayName() string {
	if a.Name != nil && *a.Name != "" {
		return *a.Name
	}
	return a.Username
}

type Comment struct {
	ID        int64
	Content   string
	Author    Author
	Mood      string
	CreatedAt time.Time
	ParentID  *int64
	Replies   []Comment
}

func (c Comment) IsRoot() bool {
	return c.ParentID == nil
}
