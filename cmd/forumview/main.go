// Command forumview reads and writes forum discussions from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"forumview/config"
	"forumview/internal/adapter/out/api/rest"
	"forumview/internal/render"
	"forumview/internal/service"
	"forumview/internal/session"
	"forumview/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errorMessage(err))
		os.Exit(1)
	}
}

// env is what every subcommand needs, built once in PersistentPreRunE.
type env struct {
	cfg      config.Config
	store    *session.Store
	client   *rest.Client
	reg      *prometheus.Registry
	renderer *render.Renderer
	out      io.Writer
}

func (e *env) policy() service.ReconcilePolicy {
	p, _ := service.ParseReconcilePolicy(e.cfg.Reconcile)
	return p
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		configPath string
		apiURL     string
		logLevel   string
		plain      bool
		e          = &env{out: stdout}
	)

	cmd := &cobra.Command{
		Use:           "forumview",
		Short:         "Browse and join forum discussions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.API.URL = apiURL
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			e.cfg = cfg

			log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: parseLevel(cfg.Log.Level)}))
			ctx := logger.WithLogger(cmd.Context(), log)

			e.store = session.NewStore(cfg.Dir)
			sess, err := e.store.Load()
			switch {
			case errors.Is(err, session.ErrNoSession):
				sess = &session.Session{}
			case err != nil:
				return err
			}
			ctx = session.WithSession(ctx, sess)

			e.reg = prometheus.NewRegistry()
			e.client = rest.NewClient(cfg.API.URL, sess,
				rest.WithTimeout(cfg.API.Timeout),
				rest.WithMetrics(rest.NewMetrics(e.reg)),
			)

			theme := render.DefaultTheme()
			if plain {
				theme = render.PlainTheme()
			}
			e.renderer = render.New(theme)

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			logRequestStats(cmd.Context(), e.reg)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Forum API base URL")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&plain, "plain", false, "Disable colors")

	cmd.AddCommand(
		loginCmd(e),
		logoutCmd(e),
		showCmd(e),
		commentCmd(e),
		reactionCmd(e, service.ReactionLike),
		reactionCmd(e, service.ReactionChill),
		threadsCmd(e),
		projectsCmd(e),
		whoamiCmd(e),
	)
	return cmd
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn
	}
	return l
}

// errorMessage keeps remote failures generic but tells local problems
// apart.
func errorMessage(err error) string {
	var exitErr *usageError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.Error()
	case errors.Is(err, errNotLoggedIn):
		return "You are not logged in. Run `forumview login` first."
	case errors.Is(err, service.ErrEmptyContent), errors.Is(err, service.ErrStale),
		errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrTransport),
		errors.Is(err, service.ErrRemote):
		return service.UserMessage(err)
	default:
		return err.Error()
	}
}

// logRequestStats writes per-endpoint request counts at debug level.
func logRequestStats(ctx context.Context, reg *prometheus.Registry) {
	if reg == nil {
		return
	}
	log := logger.FromContext(ctx)
	families, err := reg.Gather()
	if err != nil {
		log.Debug("gather metrics", "error", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			attrs := []any{"metric", mf.GetName(), "count", m.GetCounter().GetValue()}
			for _, lp := range m.GetLabel() {
				attrs = append(attrs, lp.GetName(), lp.GetValue())
			}
			log.Debug("api requests", attrs...)
		}
	}
}
