package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"forumview/internal/adapter/in/httpapi"
	"forumview/internal/adapter/out/storage/inmemory"
	"forumview/internal/stub"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router http.Handler
	tokens *httpapi.Tokens
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	svc := stub.NewService(inmemory.New(), nil)
	require.NoError(t, svc.Seed(context.Background()))

	tokens := httpapi.NewTokens("test-secret", 0)
	router := httpapi.NewRouter(httpapi.NewHandler(svc, tokens), tokens, prometheus.NewRegistry())
	return testServer{router: router, tokens: tokens}
}

func (s testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s testServer) login(t *testing.T, username string) string {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username, "password": stub.DemoPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, username, resp.User.Username)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestLogin(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.login(t, "ana")

	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "ana", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "ana"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing"},
		{name: "garbage", token: "not-a-jwt"},
		{name: "foreign secret", token: mustIssue(t, httpapi.NewTokens("other", 0))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/v1/forum_threads/1", tt.token, nil)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.NotEmpty(t, errorOf(t, rec))
		})
	}
}

func mustIssue(t *testing.T, tokens *httpapi.Tokens) string {
	t.Helper()
	tok, err := tokens.Issue(1, "ana")
	require.NoError(t, err)
	return tok
}

func TestGetDiscussion(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token := s.login(t, "ana")

	rec := s.do(t, http.MethodGet, "/api/v1/forum_threads/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var thread struct {
		ForumThread struct {
			Title         string `json:"title"`
			Content       string `json:"content"`
			CommentsCount int    `json:"comments_count"`
		} `json:"forum_thread"`
		Comments []struct {
			ID      int64 `json:"id"`
			Replies []struct {
				ParentID *int64 `json:"parent_id"`
				Replies  []struct {
					Content string `json:"content"`
				} `json:"replies"`
			} `json:"replies"`
		} `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &thread))
	require.Equal(t, "Slow mornings", thread.ForumThread.Title)
	require.Equal(t, 3, thread.ForumThread.CommentsCount)
	require.Len(t, thread.Comments, 1)
	require.Len(t, thread.Comments[0].Replies, 1)
	require.Equal(t, thread.Comments[0].ID, *thread.Comments[0].Replies[0].ParentID)
	require.Equal(t, "Green or black?", thread.Comments[0].Replies[0].Replies[0].Content)

	rec = s.do(t, http.MethodGet, "/api/v1/projects/2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"project"`)
	require.Contains(t, rec.Body.String(), `"description":"A tiny build tool."`)

	require.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/projects/1", token, nil).Code)
	require.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/forum_threads/abc", token, nil).Code)
}

func TestCreateComment(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token := s.login(t, "bo")

	tests := []struct {
		name       string
		path       string
		body       any
		wantStatus int
	}{
		{
			name:       "empty content",
			path:       "/api/v1/forum_threads/1/comments",
			body:       map[string]any{"content": "   ", "parent_id": nil},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "parent does not exist",
			path:       "/api/v1/forum_threads/1/comments",
			body:       map[string]any{"content": "x", "parent_id": 999},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "parent belongs to the project",
			path:       "/api/v1/forum_threads/1/comments",
			body:       map[string]any{"content": "x", "parent_id": 4},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "malformed body",
			path:       "/api/v1/forum_threads/1/comments",
			body:       "nope",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown thread",
			path:       "/api/v1/forum_threads/40/comments",
			body:       map[string]any{"content": "x"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "reply",
			path:       "/api/v1/forum_threads/1/comments",
			body:       map[string]any{"content": "Oolong.", "parent_id": 3},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "project top level",
			path:       "/api/v1/projects/2/comments",
			body:       map[string]any{"content": "Nice"},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, tt.path, token, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusCreated {
				require.NotEmpty(t, errorOf(t, rec))
				return
			}

			var resp struct {
				Comment struct {
					ID   int64 `json:"id"`
					User struct {
						Username string `json:"username"`
					} `json:"user"`
				} `json:"comment"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Positive(t, resp.Comment.ID)
			require.Equal(t, "bo", resp.Comment.User.Username)
		})
	}
}

func TestToggleReaction(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token := s.login(t, "ana")

	type entity struct {
		LikesCount      int  `json:"likes_count"`
		ChillVotesCount int  `json:"chill_votes_count"`
		UserLiked       bool `json:"user_liked"`
		UserChilled     bool `json:"user_chilled"`
	}

	var got entity
	rec := s.do(t, http.MethodPatch, "/api/v1/forum_threads/1/toggle_like", token, struct{}{})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, entity{LikesCount: 1, UserLiked: true}, got)

	rec = s.do(t, http.MethodPatch, "/api/v1/projects/2/toggle_chill", token, struct{}{})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, entity{ChillVotesCount: 1, UserChilled: true}, got)

	rec = s.do(t, http.MethodPatch, "/api/v1/forum_threads/1/toggle_like", token, struct{}{})
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, entity{}, got)
}

func TestListThreads(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token := s.login(t, "ana")

	rec := s.do(t, http.MethodGet, "/api/v1/forum_threads?limit=5", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ForumThreads []struct {
			Title string `json:"title"`
		} `json:"forum_threads"`
		PageInfo struct {
			HasNextPage bool    `json:"has_next_page"`
			EndCursor   *string `json:"end_cursor"`
		} `json:"page_info"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.ForumThreads, 1)
	require.False(t, resp.PageInfo.HasNextPage)
	require.NotNil(t, resp.PageInfo.EndCursor)

	require.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/forum_threads?limit=x", token, nil).Code)
	require.Equal(t, http.StatusUnprocessableEntity, s.do(t, http.MethodGet, "/api/v1/forum_threads?after=garbage!", token, nil).Code)
}

func TestListProjects(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token := s.login(t, "bo")

	require.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/projects", "", nil).Code)

	rec := s.do(t, http.MethodGet, "/api/v1/projects", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []struct {
		ID            int64  `json:"id"`
		Title         string `json:"title"`
		Description   string `json:"description"`
		CommentsCount int    `json:"comments_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Equal(t, "forge", resp[0].Title)
	require.Equal(t, "A tiny build tool.", resp[0].Description)
	require.Equal(t, 1, resp[0].CommentsCount)
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())

	s.do(t, http.MethodGet, "/api/v1/forum_threads/1", "", nil)

	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.True(t, strings.Contains(body, `forumstub_http_requests_total{method="GET",route="/api/v1/forum_threads/:id",status="401"} 1`), body)
}

func TestRequestIDEchoed(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(httpapi.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get(httpapi.RequestIDHeader))
}
