package stub

import (
	"context"
	"errors"
	"fmt"

	"forumview/internal/model"
	"forumview/pkg/logger"
)

const DemoPassword = "password"

// Seed fills an empty storage with two users, a thread and a project with
// a few nested comments. It is a no-op when the demo user already exists.
func (s *Service) Seed(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if _, err := s.storage.GetUserByUsername(ctx, "ana"); err == nil {
		log.Info("seed skipped, demo data present")
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	bo := "Bo"
	ana, err := s.Register(ctx, RegisterRequest{Username: "ana", Password: DemoPassword})
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	bob, err := s.Register(ctx, RegisterRequest{Username: "bo", Name: &bo, Password: DemoPassword})
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	thread, err := s.CreateEntity(ctx, CreateEntityRequest{
		Kind: model.KindThread, UserID: ana.ID, Title: "Slow mornings", Content: "How do you start the day?", Mood: "chill",
	})
	if err != nil {
		return fmt.Errorf("seed thread: %w", err)
	}
	project, err := s.CreateEntity(ctx, CreateEntityRequest{
		Kind: model.KindProject, UserID: bob.ID, Title: "forge", Content: "A tiny build tool.",
	})
	if err != nil {
		return fmt.Errorf("seed project: %w", err)
	}

	root, err := s.CreateComment(ctx, CreateCommentRequest{Ref: thread.Ref(), UserID: bob.ID, Content: "Tea and a walk."})
	if err != nil {
		return fmt.Errorf("seed comment: %w", err)
	}
	reply, err := s.CreateComment(ctx, CreateCommentRequest{Ref: thread.Ref(), UserID: ana.ID, ParentID: &root.ID, Content: "Same here."})
	if err != nil {
		return fmt.Errorf("seed comment: %w", err)
	}
	if _, err := s.CreateComment(ctx, CreateCommentRequest{Ref: thread.Ref(), UserID: bob.ID, ParentID: &reply.ID, Content: "Green or black?"}); err != nil {
		return fmt.Errorf("seed comment: %w", err)
	}
	if _, err := s.CreateComment(ctx, CreateCommentRequest{Ref: project.Ref(), UserID: ana.ID, Content: "Does it cache builds?"}); err != nil {
		return fmt.Errorf("seed comment: %w", err)
	}

	log.Info("seeded demo data", "thread_id", thread.ID, "project_id", project.ID)
	return nil
}
