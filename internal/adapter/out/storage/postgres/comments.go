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

const commentAlias = "c"

func (s *Storage) CreateComment(ctx context.Context, p stub.CreateCommentParams) (model.Comment, error) {
	query, args, err := sq.
		Insert(tableinfo.CommentsTableName).
		Columns(
			tableinfo.CommentEntityKindColumn,
			tableinfo.CommentEntityIDColumn,
			tableinfo.CommentParentIDColumn,
			tableinfo.CommentUserIDColumn,
			tableinfo.CommentContentColumn,
			tableinfo.CommentMoodColumn,
		).
		Values(string(p.Ref.Kind), p.Ref.ID, p.ParentID, p.UserID, p.Content, p.Mood).
		Suffix(fmt.Sprintf("RETURNING %s, %s", tableinfo.CommentIDColumn, tableinfo.CommentCreatedAtColumn)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Comment{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	out := model.Comment{
		Content:  p.Content,
		Mood:     p.Mood,
		ParentID: p.ParentID,
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)
	if err := tr.QueryRow(ctx, query, args...).Scan(&out.ID, &out.CreatedAt); err != nil {
		return model.Comment{}, fmt.Errorf("exec insert comment: %w", err)
	}

	out.Author, err = s.author(ctx, p.UserID)
	if err != nil {
		return model.Comment{}, err
	}
	return out, nil
}

func (s *Storage) GetCommentRef(ctx context.Context, commentID int64) (model.ParentRef, error) {
	query, args, err := sq.
		Select(tableinfo.CommentEntityKindColumn, tableinfo.CommentEntityIDColumn).
		From(tableinfo.CommentsTableName).
		Where(sq.Eq{tableinfo.CommentIDColumn: commentID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.ParentRef{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var (
		kind string
		ref  model.ParentRef
	)
	tr := s.getter.DefaultTrOrDB(ctx, s.pool)
	if err := tr.QueryRow(ctx, query, args...).Scan(&kind, &ref.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ParentRef{}, stub.ErrNotFound
		}
		return model.ParentRef{}, fmt.Errorf("exec select comment ref: %w", err)
	}
	ref.Kind = model.ParentKind(kind)
	return ref, nil
}

func listCommentsQueryBuilder(ref model.ParentRef) sq.SelectBuilder {
	return sq.
		Select(
			col(commentAlias, tableinfo.CommentIDColumn),
			col(commentAlias, tableinfo.CommentParentIDColumn),
			col(commentAlias, tableinfo.CommentContentColumn),
			col(commentAlias, tableinfo.CommentMoodColumn),
			col(commentAlias, tableinfo.CommentCreatedAtColumn),
			col(userAlias, tableinfo.UserIDColumn),
			col(userAlias, tableinfo.UserUsernameColumn),
			col(userAlias, tableinfo.UserNameColumn),
		).
		From(tableinfo.CommentsTableName+" "+commentAlias).
		Join(fmt.Sprintf("%s %s ON %s = %s",
			tableinfo.UsersTableName, userAlias,
			col(userAlias, tableinfo.UserIDColumn), col(commentAlias, tableinfo.CommentUserIDColumn),
		)).
		Where(sq.Eq{
			col(commentAlias, tableinfo.CommentEntityKindColumn): string(ref.Kind),
			col(commentAlias, tableinfo.CommentEntityIDColumn):   ref.ID,
		}).
		OrderBy(
			col(commentAlias, tableinfo.CommentCreatedAtColumn)+" ASC",
			col(commentAlias, tableinfo.CommentIDColumn)+" ASC",
		).
		PlaceholderFormat(sq.Dollar)
}

func scanComment(row pgx.Row) (model.Comment, error) {
	var c model.Comment
	err := row.Scan(
		&c.ID,
		&c.ParentID,
		&c.Content,
		&c.Mood,
		&c.CreatedAt,
		&c.Author.ID,
		&c.Author.Username,
		&c.Author.Name,
	)
	return c, err
}

func (s *Storage) ListComments(ctx context.Context, ref model.ParentRef) ([]model.Comment, error) {
	query, args, err := listCommentsQueryBuilder(ref).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)
	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select comments: %w", err)
	}
	defer rows.Close()

	var out []model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}
