// Package httpapi serves the forum REST API of the development stub.
package httpapi

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"forumview/internal/model"
	"forumview/internal/stub"
	"forumview/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type ForumService interface {
	Authenticate(ctx context.Context, username, password string) (stub.User, error)
	GetDiscussion(ctx context.Context, ref model.ParentRef, viewerID int64) (model.Entity, []model.Comment, error)
	CreateComment(ctx context.Context, req stub.CreateCommentRequest) (model.Comment, error)
	ToggleReaction(ctx context.Context, ref model.ParentRef, userID int64, reaction string) (model.Entity, error)
	ListThreads(ctx context.Context, in pagination.PageRequest, viewerID int64) (pagination.Page[model.Entity], error)
	ListProjects(ctx context.Context, viewerID int64) ([]model.Entity, error)
	Listen(ctx context.Context, ref model.ParentRef) (<-chan model.Comment, error)
}

type Handler struct {
	svc    ForumService
	tokens *Tokens
}

func NewHandler(svc ForumService, tokens *Tokens) *Handler {
	return &Handler{svc: svc, tokens: tokens}
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(badRequest("username and password are required"))
		return
	}

	u, err := h.svc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	token, err := h.tokens.Issue(u.ID, u.Username)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: token, User: toUserResponse(u.Author)})
}

// ListProjects answers with a bare array of projects.
func (h *Handler) ListProjects(c *gin.Context) {
	items, err := h.svc.ListProjects(c.Request.Context(), currentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	out := make([]entityResponse, 0, len(items))
	for _, e := range items {
		out = append(out, toEntityResponse(e))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ListThreads(c *gin.Context) {
	in := pagination.PageRequest{}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			_ = c.Error(badRequest("invalid limit"))
			return
		}
		in.Limit = limit
	}
	if after := c.Query("after"); after != "" {
		in.AfterCursor = &after
	}
	if before := c.Query("before"); before != "" {
		in.BeforeCursor = &before
	}

	page, err := h.svc.ListThreads(c.Request.Context(), in, currentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toThreadsResponse(page))
}

func (h *Handler) GetDiscussion(kind model.ParentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, err := parentRef(c, kind)
		if err != nil {
			_ = c.Error(err)
			return
		}

		e, comments, err := h.svc.GetDiscussion(c.Request.Context(), ref, currentUserID(c))
		if err != nil {
			_ = c.Error(err)
			return
		}

		if kind == model.KindProject {
			c.JSON(http.StatusOK, projectDiscussionResponse{Project: toEntityResponse(e), Comments: toCommentResponses(comments)})
			return
		}
		c.JSON(http.StatusOK, threadDiscussionResponse{ForumThread: toEntityResponse(e), Comments: toCommentResponses(comments)})
	}
}

func (h *Handler) CreateComment(kind model.ParentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, err := parentRef(c, kind)
		if err != nil {
			_ = c.Error(err)
			return
		}

		var req createCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(badRequest("invalid comment body"))
			return
		}

		created, err := h.svc.CreateComment(c.Request.Context(), stub.CreateCommentRequest{
			Ref:      ref,
			UserID:   currentUserID(c),
			ParentID: req.ParentID,
			Content:  req.Content,
			Mood:     req.Mood,
		})
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, createCommentResponse{Comment: toCommentResponse(created)})
	}
}

func (h *Handler) ToggleReaction(kind model.ParentKind, reaction string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, err := parentRef(c, kind)
		if err != nil {
			_ = c.Error(err)
			return
		}

		e, err := h.svc.ToggleReaction(c.Request.Context(), ref, currentUserID(c), reaction)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, toEntityResponse(e))
	}
}

// StreamComments sends comments created on the thread or project as
// server-sent events until the client goes away.
func (h *Handler) StreamComments(kind model.ParentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, err := parentRef(c, kind)
		if err != nil {
			_ = c.Error(err)
			return
		}

		ctx := c.Request.Context()
		ch, err := h.svc.Listen(ctx, ref)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Status(http.StatusOK)
		c.Writer.Flush()

		c.Stream(func(_ io.Writer) bool {
			select {
			case cm, ok := <-ch:
				if !ok {
					return false
				}
				c.SSEvent("comment", toCommentResponse(cm))
				return true
			case <-ctx.Done():
				return false
			}
		})
	}
}

func parentRef(c *gin.Context, kind model.ParentKind) (model.ParentRef, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return model.ParentRef{}, badRequest("invalid id")
	}
	return model.ParentRef{Kind: kind, ID: id}, nil
}
