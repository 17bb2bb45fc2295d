package postgres

import (
	"context"
	"errors"
	"fmt"

	"forumview/internal/model"
	"forumview/internal/stub"
	"forumview/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

func (s *Storage) CreateUser(ctx context.Context, u stub.User) (stub.User, error) {
	query, args, err := sq.
		Insert(tableinfo.UsersTableName).
		Columns(
			tableinfo.UserUsernameColumn,
			tableinfo.UserNameColumn,
			tableinfo.UserPasswordHashColumn,
		).
		Values(u.Username, u.Name, u.PasswordHash).
		Suffix("RETURNING " + tableinfo.UserIDColumn).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return stub.User{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)
	if err := tr.QueryRow(ctx, query, args...).Scan(&u.ID); err != nil {
		if isUniqueViolation(err) {
			return stub.User{}, fmt.Errorf("%w: username %q taken", stub.ErrConflict, u.Username)
		}
		return stub.User{}, fmt.Errorf("exec insert user: %w", err)
	}
	return u, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (stub.User, error) {
	query, args, err := sq.
		Select(
			tableinfo.UserIDColumn,
			tableinfo.UserUsernameColumn,
			tableinfo.UserNameColumn,
			tableinfo.UserPasswordHashColumn,
		).
		From(tableinfo.UsersTableName).
		Where(sq.Eq{tableinfo.UserUsernameColumn: username}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return stub.User{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var u stub.User
	tr := s.getter.DefaultTrOrDB(ctx, s.pool)
	if err := tr.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return stub.User{}, stub.ErrNotFound
		}
		return stub.User{}, fmt.Errorf("exec select user: %w", err)
	}
	return u, nil
}

func (s *Storage) author(ctx context.Context, userID int64) (model.Author, error) {
	query, args, err := sq.
		Select(tableinfo.UserIDColumn, tableinfo.UserUsernameColumn, tableinfo.UserNameColumn).
		From(tableinfo.UsersTableName).
		Where(sq.Eq{tableinfo.UserIDColumn: userID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Author{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var a model.Author
	tr := s.getter.DefaultTrOrDB(ctx, s.pool)
	if err := tr.QueryRow(ctx, query, args...).Scan(&a.ID, &a.Username, &a.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Author{ID: userID}, nil
		}
		return model.Author{}, fmt.Errorf("exec select author: %w", err)
	}
	return a, nil
}
