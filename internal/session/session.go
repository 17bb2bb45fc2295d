// Package session owns the authenticated user and bearer token. The REST
// client receives a *Session at construction; nothing else reads the token.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"forumview/internal/model"

	"gopkg.in/yaml.v3"
)

const FileName = "session.yaml"

var ErrNoSession = errors.New("not logged in")

type Session struct {
	Token string
	User  *model.Author
}

func (s *Session) LoggedIn() bool {
	return s != nil && s.Token != ""
}

// AuthHeader returns the Authorization header value, or "" when logged out.
func (s *Session) AuthHeader() string {
	if !s.LoggedIn() {
		return ""
	}
	return "Bearer " + s.Token
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) *Session {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	if !ok || s == nil {
		return &Session{}
	}
	return s
}

type fileSession struct {
	Token string    `yaml:"token"`
	User  *fileUser `yaml:"user,omitempty"`
}

type fileUser struct {
	ID       int64   `yaml:"id"`
	Username string  `yaml:"username"`
	Name     *string `yaml:"name,omitempty"`
}

// Store keeps the session in a YAML file between CLI runs.
type Store struct {
	path string
}

func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName)}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var fs fileSession
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", s.path, err)
	}
	if fs.Token == "" {
		return nil, ErrNoSession
	}

	out := &Session{Token: fs.Token}
	if fs.User != nil {
		out.User = &model.Author{ID: fs.User.ID, Username: fs.User.Username, Name: fs.User.Name}
	}
	return out, nil
}

func (s *Store) Save(sess *Session) error {
	if !sess.LoggedIn() {
		return ErrNoSession
	}

	fs := fileSession{Token: sess.Token}
	if sess.User != nil {
		fs.User = &fileUser{ID: sess.User.ID, Username: sess.User.Username, Name: sess.User.Name}
	}

	data, err := yaml.Marshal(fs)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
