package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"forumview/internal/model"
	"forumview/internal/service"
	"forumview/internal/session"
	"forumview/internal/view"
	"forumview/pkg/pagination"

	"github.com/spf13/cobra"
)

var errNotLoggedIn = errors.New("not logged in")

type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// requireSession returns the session carried by ctx when it holds a token.
func requireSession(ctx context.Context) (*session.Session, error) {
	sess := session.FromContext(ctx)
	if !sess.LoggedIn() {
		return nil, errNotLoggedIn
	}
	return sess, nil
}

func parseRef(kindArg, idArg string) (model.ParentRef, error) {
	kind, err := model.ParseParentKind(kindArg)
	if err != nil {
		return model.ParentRef{}, usagef("first argument must be thread or project, got %q", kindArg)
	}
	id, err := strconv.ParseInt(idArg, 10, 64)
	if err != nil || id <= 0 {
		return model.ParentRef{}, usagef("invalid id %q", idArg)
	}
	return model.ParentRef{Kind: kind, ID: id}, nil
}

func loginCmd(e *env) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("FORUMVIEW_PASSWORD")
			}
			auth := service.NewAuthService(e.client, e.store)
			sess, err := auth.Login(cmd.Context(), service.LoginRequest{Username: username, Password: password})
			if err != nil {
				if errors.Is(err, service.ErrInvalidRequest) && (username == "" || password == "") {
					return usagef("--username and --password (or FORUMVIEW_PASSWORD) are required")
				}
				return err
			}

			name := username
			if sess.User != nil {
				name = sess.User.DisplayName()
			}
			fmt.Fprintf(e.out, "Logged in as %s.\n", name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (defaults to $FORUMVIEW_PASSWORD)")
	return cmd
}

func logoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := service.NewAuthService(e.client, e.store).Logout(); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "Logged out.")
			return nil
		},
	}
}

func whoamiCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := requireSession(cmd.Context())
			if err != nil {
				return err
			}
			if sess.User == nil {
				fmt.Fprintln(e.out, "Logged in.")
				return nil
			}
			fmt.Fprintf(e.out, "%s (@%s, id %d)\n", sess.User.DisplayName(), sess.User.Username, sess.User.ID)
			return nil
		},
	}
}

func showCmd(e *env) *cobra.Command {
	var collapse []int64

	cmd := &cobra.Command{
		Use:   "show <thread|project> <id>",
		Short: "Show a discussion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0], args[1])
			if err != nil {
				return err
			}
			if _, err := requireSession(cmd.Context()); err != nil {
				return err
			}

			d, err := service.NewDiscussionService(e.client, e.policy()).Open(cmd.Context(), ref)
			if err != nil {
				return err
			}
			collapseAll(d, collapse)
			return e.renderer.Discussion(e.out, d)
		},
	}
	cmd.Flags().Int64SliceVar(&collapse, "collapse", nil, "Comment ids whose replies stay hidden")
	return cmd
}

func collapseAll(d *view.Discussion, ids []int64) {
	for _, id := range ids {
		if !d.Collapsed().IsCollapsed(id) {
			d.ToggleCollapse(id)
		}
	}
}

func commentCmd(e *env) *cobra.Command {
	var (
		replyTo   int64
		reconcile string
		collapse  []int64
	)

	cmd := &cobra.Command{
		Use:   "comment <thread|project> <id> <text>",
		Short: "Post a comment or a reply",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0], args[1])
			if err != nil {
				return err
			}
			if _, err := requireSession(cmd.Context()); err != nil {
				return err
			}

			policy := e.policy()
			if reconcile != "" {
				if policy, err = service.ParseReconcilePolicy(reconcile); err != nil {
					return usagef("--reconcile must be local or reload")
				}
			}

			discussions := service.NewDiscussionService(e.client, policy)
			d, err := discussions.Open(cmd.Context(), ref)
			if err != nil {
				return err
			}
			collapseAll(d, collapse)

			var parentID *int64
			if replyTo > 0 {
				if !d.Forest().Has(replyTo) {
					return usagef("comment %d is not part of %s", replyTo, ref)
				}
				d.ToggleReply(replyTo)
				parentID = &replyTo
			}
			if err := d.SetDraft(parentID, args[2]); err != nil {
				return err
			}

			if err := discussions.Submit(cmd.Context(), d, d.Draft(parentID), parentID); err != nil {
				return err
			}
			return e.renderer.Discussion(e.out, d)
		},
	}
	cmd.Flags().Int64Var(&replyTo, "reply-to", 0, "Reply to this comment id")
	cmd.Flags().StringVar(&reconcile, "reconcile", "", "How to refresh after posting: local or reload")
	cmd.Flags().Int64SliceVar(&collapse, "collapse", nil, "Comment ids whose replies stay hidden")
	return cmd
}

func reactionCmd(e *env, r service.Reaction) *cobra.Command {
	return &cobra.Command{
		Use:   string(r) + " <thread|project> <id>",
		Short: "Toggle your " + string(r) + " on a thread or project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0], args[1])
			if err != nil {
				return err
			}
			if _, err := requireSession(cmd.Context()); err != nil {
				return err
			}

			reactions := service.NewReactionService(e.client)
			var entity model.Entity
			if r == service.ReactionChill {
				entity, err = reactions.ToggleChill(cmd.Context(), ref)
			} else {
				entity, err = reactions.ToggleLike(cmd.Context(), ref)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(e.out, "%s: %d likes (you: %t), %d chill votes (you: %t)\n",
				entity.Title, entity.LikesCount, entity.UserLiked, entity.ChillVotesCount, entity.UserChilled)
			return nil
		},
	}
}

func threadsCmd(e *env) *cobra.Command {
	var (
		limit  int
		after  string
		before string
	)

	cmd := &cobra.Command{
		Use:   "threads",
		Short: "List forum threads, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := requireSession(cmd.Context()); err != nil {
				return err
			}

			in := pagination.PageRequest{Limit: limit}
			if after != "" {
				in.AfterCursor = &after
			}
			if before != "" {
				in.BeforeCursor = &before
			}

			page, err := service.NewThreadService(e.client).ListThreads(cmd.Context(), in)
			if err != nil {
				return err
			}
			if page.Count == 0 {
				fmt.Fprintln(e.out, "No threads.")
				return nil
			}
			if err := e.renderer.Threads(e.out, page.Items); err != nil {
				return err
			}
			if page.HasNextPage && page.EndCursor != nil {
				fmt.Fprintf(e.out, "\nMore: forumview threads --after %s\n", *page.EndCursor)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Threads per page")
	cmd.Flags().StringVar(&after, "after", "", "Cursor of the last thread on the previous page")
	cmd.Flags().StringVar(&before, "before", "", "Cursor of the first thread on the next page")
	return cmd
}

func projectsCmd(e *env) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects, optionally filtered by title or description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := requireSession(cmd.Context()); err != nil {
				return err
			}

			projects, err := service.NewProjectService(e.client).ListProjects(cmd.Context(), search)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				if search != "" {
					fmt.Fprintf(e.out, "No projects match %q.\n", search)
					return nil
				}
				fmt.Fprintln(e.out, "No projects.")
				return nil
			}
			return e.renderer.Projects(e.out, projects)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive match on title or description")
	return cmd
}
