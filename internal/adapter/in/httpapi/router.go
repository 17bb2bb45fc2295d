package httpapi

import (
	"net/http"

	"forumview/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the API under /api/v1 together with /healthz and
// /metrics.
func NewRouter(h *Handler, tokens *Tokens, reg *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if reg != nil {
		r.Use(NewMetrics(reg).Middleware())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}
	r.Use(RequestLogger(), ErrorHandler())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := r.Group("/api/v1")
	api.POST("/auth/login", h.Login)

	authed := api.Group("", Auth(tokens))
	authed.GET("/forum_threads", h.ListThreads)
	authed.GET("/projects", h.ListProjects)

	for _, kind := range []model.ParentKind{model.KindThread, model.KindProject} {
		g := authed.Group("/" + kind.PathSegment() + "/:id")
		g.GET("", h.GetDiscussion(kind))
		g.POST("/comments", h.CreateComment(kind))
		g.GET("/comments/stream", h.StreamComments(kind))
		g.PATCH("/toggle_like", h.ToggleReaction(kind, "like"))
		g.PATCH("/toggle_chill", h.ToggleReaction(kind, "chill"))
	}
	return r
}
