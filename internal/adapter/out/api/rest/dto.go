package rest

import (
	"bytes"
	"encoding/json"
	"time"

	"forumview/internal/model"
)

type wireUser struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Name     *string `json:"name"`
}

type wireComment struct {
	ID        int64         `json:"id"`
	Content   string        `json:"content"`
	User      wireUser      `json:"user"`
	Mood      string        `json:"mood,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	ParentID  *int64        `json:"parent_id"`
	Replies   []wireComment `json:"replies"`
}

type wireEntity struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content,omitempty"`
	Description     string    `json:"description,omitempty"`
	Mood            string    `json:"mood,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	User            wireUser  `json:"user"`
	LikesCount      int       `json:"likes_count"`
	ChillVotesCount int       `json:"chill_votes_count"`
	CommentsCount   int       `json:"comments_count"`
	UserLiked       bool      `json:"user_liked"`
	UserChilled     bool      `json:"user_chilled"`
}

type discussionResponse struct {
	ForumThread *wireEntity   `json:"forum_thread"`
	Project     *wireEntity   `json:"project"`
	Comments    []wireComment `json:"comments"`
}

type createCommentBody struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id"`
}

// createCommentResponse accepts either {"comment": {...}} or a bare comment.
type createCommentResponse struct {
	wireComment
	Comment *wireComment `json:"comment"`
}

type pageInfo struct {
	StartCursor     *string `json:"start_cursor"`
	EndCursor       *string `json:"end_cursor"`
	HasNextPage     bool    `json:"has_next_page"`
	HasPreviousPage bool    `json:"has_previous_page"`
}

// listResponse accepts the paginated envelope {"forum_threads"|"projects": [...],
// "page_info": {...}} as well as a bare array, which reads as a single page.
type listResponse struct {
	Items    []wireEntity
	PageInfo pageInfo
}

func (r *listResponse) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		*r = listResponse{}
		return json.Unmarshal(trimmed, &r.Items)
	}

	var env struct {
		ForumThreads []wireEntity `json:"forum_threads"`
		Projects     []wireEntity `json:"projects"`
		PageInfo     pageInfo     `json:"page_info"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	r.Items = env.ForumThreads
	if r.Items == nil {
		r.Items = env.Projects
	}
	r.PageInfo = env.PageInfo
	return nil
}

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  *wireUser `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toAuthor(u wireUser) model.Author {
	return model.Author{ID: u.ID, Username: u.Username, Name: u.Name}
}

// toComment converts a wire comment. Replies nested under it inherit its id
// as their parent when the payload leaves parent_id out.
func toComment(w wireComment) model.Comment {
	c := model.Comment{
		ID:        w.ID,
		Content:   w.Content,
		Author:    toAuthor(w.User),
		Mood:      w.Mood,
		CreatedAt: w.CreatedAt,
		ParentID:  w.ParentID,
	}
	if len(w.Replies) > 0 {
		parent := w.ID
		c.Replies = toComments(w.Replies, &parent)
	}
	return c
}

func toComments(in []wireComment, parentID *int64) []model.Comment {
	out := make([]model.Comment, 0, len(in))
	for _, w := range in {
		c := toComment(w)
		if c.ParentID == nil && parentID != nil {
			pid := *parentID
			c.ParentID = &pid
		}
		out = append(out, c)
	}
	return out
}

func toEntity(w wireEntity, kind model.ParentKind) model.Entity {
	content := w.Content
	if content == "" {
		content = w.Description
	}
	return model.Entity{
		ID:              w.ID,
		Kind:            kind,
		Title:           w.Title,
		Content:         content,
		Author:          toAuthor(w.User),
		Mood:            w.Mood,
		CreatedAt:       w.CreatedAt,
		LikesCount:      w.LikesCount,
		ChillVotesCount: w.ChillVotesCount,
		CommentsCount:   w.CommentsCount,
		UserLiked:       w.UserLiked,
		UserChilled:     w.UserChilled,
	}
}
