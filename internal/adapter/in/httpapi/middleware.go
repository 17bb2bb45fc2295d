package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"forumview/internal/stub"
	"forumview/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	RequestIDHeader = "X-Request-ID"
	userIDKey       = "userID"
)

// apiError carries a status chosen by the handler itself.
type apiError struct {
	status int
	msg    string
}

func (e *apiError) Error() string { return e.msg }

func badRequest(msg string) error {
	return &apiError{status: http.StatusBadRequest, msg: msg}
}

func statusOf(err error) int {
	var ae *apiError
	switch {
	case errors.As(err, &ae):
		return ae.status
	case errors.Is(err, stub.ErrInvalidRequest):
		return http.StatusUnprocessableEntity
	case errors.Is(err, stub.ErrUnauthorized), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, stub.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, stub.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders the first error recorded by a handler.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors[0].Err
		status := statusOf(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			logger.FromContext(c.Request.Context()).Error("request failed", "error", err)
			msg = http.StatusText(status)
		}
		c.AbortWithStatusJSON(status, errorResponse{Error: msg})
	}
}

// RequestLogger puts a request-scoped logger into the request context and
// logs every completed request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		ctx, log := logger.With(c.Request.Context(), "request_id", requestID)
		c.Request = c.Request.WithContext(ctx)

		started := time.Now()
		c.Next()

		log.Info("http request",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(started),
		)
	}
}

// Auth requires a valid bearer token and stores the caller's user id.
func Auth(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			_ = c.Error(&apiError{status: http.StatusUnauthorized, msg: "authorization header missing"})
			c.Abort()
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			_ = c.Error(&apiError{status: http.StatusUnauthorized, msg: "please log in again"})
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forumstub",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "forumstub",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(c.Request.Method, route).Observe(time.Since(started).Seconds())
	}
}
