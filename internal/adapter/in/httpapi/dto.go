package httpapi

import (
	"time"

	"forumview/internal/model"
	"forumview/pkg/pagination"
)

type userResponse struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Name     *string `json:"name"`
}

type commentResponse struct {
	ID        int64             `json:"id"`
	Content   string            `json:"content"`
	User      userResponse      `json:"user"`
	Mood      string            `json:"mood,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	ParentID  *int64            `json:"parent_id"`
	Replies   []commentResponse `json:"replies"`
}

// entityResponse carries the body as content for threads and as
// description for projects.
type entityResponse struct {
	ID              int64        `json:"id"`
	Title           string       `json:"title"`
	Content         string       `json:"content,omitempty"`
	Description     string       `json:"description,omitempty"`
	Mood            string       `json:"mood,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	User            userResponse `json:"user"`
	LikesCount      int          `json:"likes_count"`
	ChillVotesCount int          `json:"chill_votes_count"`
	CommentsCount   int          `json:"comments_count"`
	UserLiked       bool         `json:"user_liked"`
	UserChilled     bool         `json:"user_chilled"`
}

type threadDiscussionResponse struct {
	ForumThread entityResponse    `json:"forum_thread"`
	Comments    []commentResponse `json:"comments"`
}

type projectDiscussionResponse struct {
	Project  entityResponse    `json:"project"`
	Comments []commentResponse `json:"comments"`
}

type createCommentRequest struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id"`
	Mood     string `json:"mood"`
}

type createCommentResponse struct {
	Comment commentResponse `json:"comment"`
}

type pageInfoResponse struct {
	StartCursor     *string `json:"start_cursor"`
	EndCursor       *string `json:"end_cursor"`
	HasNextPage     bool    `json:"has_next_page"`
	HasPreviousPage bool    `json:"has_previous_page"`
}

type threadsResponse struct {
	ForumThreads []entityResponse `json:"forum_threads"`
	PageInfo     pageInfoResponse `json:"page_info"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toUserResponse(a model.Author) userResponse {
	return userResponse{ID: a.ID, Username: a.Username, Name: a.Name}
}

func toCommentResponse(c model.Comment) commentResponse {
	out := commentResponse{
		ID:        c.ID,
		Content:   c.Content,
		User:      toUserResponse(c.Author),
		Mood:      c.Mood,
		CreatedAt: c.CreatedAt,
		ParentID:  c.ParentID,
		Replies:   toCommentResponses(c.Replies),
	}
	return out
}

func toCommentResponses(in []model.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(in))
	for _, c := range in {
		out = append(out, toCommentResponse(c))
	}
	return out
}

func toEntityResponse(e model.Entity) entityResponse {
	out := entityResponse{
		ID:              e.ID,
		Title:           e.Title,
		Mood:            e.Mood,
		CreatedAt:       e.CreatedAt,
		User:            toUserResponse(e.Author),
		LikesCount:      e.LikesCount,
		ChillVotesCount: e.ChillVotesCount,
		CommentsCount:   e.CommentsCount,
		UserLiked:       e.UserLiked,
		UserChilled:     e.UserChilled,
	}
	if e.Kind == model.KindProject {
		out.Description = e.Content
	} else {
		out.Content = e.Content
	}
	return out
}

func toThreadsResponse(p pagination.Page[model.Entity]) threadsResponse {
	out := threadsResponse{
		ForumThreads: make([]entityResponse, 0, len(p.Items)),
		PageInfo: pageInfoResponse{
			StartCursor:     p.StartCursor,
			EndCursor:       p.EndCursor,
			HasNextPage:     p.HasNextPage,
			HasPreviousPage: p.HasPreviousPage,
		},
	}
	for _, e := range p.Items {
		out.ForumThreads = append(out.ForumThreads, toEntityResponse(e))
	}
	return out
}
