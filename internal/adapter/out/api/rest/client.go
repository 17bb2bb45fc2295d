// Package rest talks to the forum REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"forumview/internal/model"
	"forumview/internal/service"
	"forumview/internal/session"
	"forumview/pkg/logger"
	"forumview/pkg/pagination"

	"github.com/google/uuid"
)

const (
	apiPrefix       = "/api/v1"
	RequestIDHeader = "X-Request-ID"
	DefaultTimeout  = 15 * time.Second
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
	metrics    *Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func NewClient(baseURL string, sess *session.Session, opts ...Option) *Client {
	if sess == nil {
		sess = &session.Session{}
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		session:    sess,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	_ service.ForumAPI      = (*Client)(nil)
	_ service.Authenticator = (*Client)(nil)
)

func (c *Client) GetDiscussion(ctx context.Context, ref model.ParentRef) (model.Entity, []model.Comment, error) {
	var resp discussionResponse
	path := fmt.Sprintf("%s/%s/%d", apiPrefix, ref.Kind.PathSegment(), ref.ID)
	if err := c.do(ctx, "get_discussion", http.MethodGet, path, nil, &resp); err != nil {
		return model.Entity{}, nil, err
	}

	head := resp.ForumThread
	if ref.Kind == model.KindProject {
		head = resp.Project
	}
	if head == nil {
		return model.Entity{}, nil, fmt.Errorf("%w: response has no %s", service.ErrRemote, ref.Kind)
	}
	return toEntity(*head, ref.Kind), toComments(resp.Comments, nil), nil
}

func (c *Client) CreateComment(ctx context.Context, req service.CreateCommentRequest) (model.Comment, error) {
	var resp createCommentResponse
	path := fmt.Sprintf("%s/%s/%d/comments", apiPrefix, req.Parent.Kind.PathSegment(), req.Parent.ID)
	body := createCommentBody{Content: req.Content, ParentID: req.ParentID}
	if err := c.do(ctx, "create_comment", http.MethodPost, path, body, &resp); err != nil {
		return model.Comment{}, err
	}

	if resp.Comment != nil {
		return toComment(*resp.Comment), nil
	}
	return toComment(resp.wireComment), nil
}

func (c *Client) ToggleReaction(ctx context.Context, req service.ToggleReactionRequest) (model.Entity, error) {
	var resp wireEntity
	path := fmt.Sprintf("%s/%s/%d/toggle_%s", apiPrefix, req.Parent.Kind.PathSegment(), req.Parent.ID, req.Reaction)
	if err := c.do(ctx, "toggle_"+string(req.Reaction), http.MethodPatch, path, struct{}{}, &resp); err != nil {
		return model.Entity{}, err
	}
	return toEntity(resp, req.Parent.Kind), nil
}

func (c *Client) ListThreads(ctx context.Context, in pagination.PageRequest) (pagination.Page[model.Entity], error) {
	q := url.Values{}
	if in.Limit > 0 {
		q.Set("limit", strconv.Itoa(in.Limit))
	}
	if in.HasAfter() {
		q.Set("after", *in.AfterCursor)
	}
	if in.HasBefore() {
		q.Set("before", *in.BeforeCursor)
	}
	return c.list(ctx, "list_threads", model.KindThread, q)
}

func (c *Client) ListProjects(ctx context.Context) ([]model.Entity, error) {
	page, err := c.list(ctx, "list_projects", model.KindProject, nil)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (c *Client) list(ctx context.Context, endpoint string, kind model.ParentKind, q url.Values) (pagination.Page[model.Entity], error) {
	path := apiPrefix + "/" + kind.PathSegment()
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp listResponse
	if err := c.do(ctx, endpoint, http.MethodGet, path, nil, &resp); err != nil {
		return pagination.Page[model.Entity]{}, err
	}

	page := pagination.Page[model.Entity]{
		Count:           len(resp.Items),
		StartCursor:     resp.PageInfo.StartCursor,
		EndCursor:       resp.PageInfo.EndCursor,
		HasNextPage:     resp.PageInfo.HasNextPage,
		HasPreviousPage: resp.PageInfo.HasPreviousPage,
	}
	for _, w := range resp.Items {
		page.Items = append(page.Items, toEntity(w, kind))
	}
	return page, nil
}

func (c *Client) Login(ctx context.Context, req service.LoginRequest) (*session.Session, error) {
	var resp loginResponse
	body := loginBody{Username: req.Username, Password: req.Password}
	if err := c.do(ctx, "login", http.MethodPost, apiPrefix+"/auth/login", body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: login response has no token", service.ErrRemote)
	}

	sess := &session.Session{Token: resp.Token}
	if resp.User != nil {
		u := toAuthor(*resp.User)
		sess.User = &u
	}
	return sess, nil
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, in, out any) (err error) {
	log := logger.FromContext(ctx)
	started := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = outcomeLabel(err)
		}
		c.metrics.observe(endpoint, outcome, started)
	}()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", service.ErrTransport, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth := c.session.AuthHeader(); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", service.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", service.ErrTransport, err)
	}

	log.Debug("api call", "endpoint", endpoint, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(started))

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: unmarshal response: %v", service.ErrRemote, err)
	}
	return nil
}

func statusError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	var er errorResponse
	if json.Unmarshal(body, &er) == nil && er.Error != "" {
		msg = er.Error
	}

	var kind error
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = service.ErrInvalidRequest
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = service.ErrUnauthorized
	case http.StatusNotFound:
		kind = service.ErrNotFound
	default:
		kind = service.ErrRemote
	}
	return fmt.Errorf("%w: HTTP %d: %s", kind, status, msg)
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, service.ErrTransport):
		return "transport"
	case errors.Is(err, service.ErrInvalidRequest):
		return "invalid"
	case errors.Is(err, service.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, service.ErrNotFound):
		return "not_found"
	default:
		return "remote"
	}
}
