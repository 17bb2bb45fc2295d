package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"forumview/internal/adapter/out/storage"
	"forumview/internal/model"
	"forumview/internal/stub"
	"forumview/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const (
	entityAlias = "e"
	userAlias   = "u"
)

func col(alias, name string) string { return alias + "." + name }

// entitySelect selects entity rows joined with their author, the comment
// and reaction counters, and whether viewerID reacted.
func entitySelect(viewerID int64) sq.SelectBuilder {
	sameEntity := func(alias, kindCol, idCol string) string {
		return fmt.Sprintf("%s = %s AND %s = %s",
			col(alias, kindCol), col(entityAlias, tableinfo.EntityKindColumn),
			col(alias, idCol), col(entityAlias, tableinfo.EntityIDColumn),
		)
	}
	reactions := fmt.Sprintf("%s r WHERE %s",
		tableinfo.ReactionsTableName,
		sameEntity("r", tableinfo.ReactionEntityKindColumn, tableinfo.ReactionEntityIDColumn),
	)

	return sq.
		Select(
			col(entityAlias, tableinfo.EntityIDColumn),
			col(entityAlias, tableinfo.EntityKindColumn),
			col(entityAlias, tableinfo.EntityTitleColumn),
			col(entityAlias, tableinfo.EntityContentColumn),
			col(entityAlias, tableinfo.EntityMoodColumn),
			col(entityAlias, tableinfo.EntityCreatedAtColumn),
			col(userAlias, tableinfo.UserIDColumn),
			col(userAlias, tableinfo.UserUsernameColumn),
			col(userAlias, tableinfo.UserNameColumn),
		).
		Column(fmt.Sprintf("(SELECT count(*) FROM %s c WHERE %s)",
			tableinfo.CommentsTableName,
			sameEntity("c", tableinfo.CommentEntityKindColumn, tableinfo.CommentEntityIDColumn),
		)).
		Column(sq.Expr(fmt.Sprintf("(SELECT count(*) FROM %s AND r.%s = ?)", reactions, tableinfo.ReactionKindColumn), "like")).
		Column(sq.Expr(fmt.Sprintf("(SELECT count(*) FROM %s AND r.%s = ?)", reactions, tableinfo.ReactionKindColumn), "chill")).
		Column(sq.Expr(fmt.Sprintf("EXISTS (SELECT 1 FROM %s AND r.%s = ? AND r.%s = ?)",
			reactions, tableinfo.ReactionUserIDColumn, tableinfo.ReactionKindColumn), viewerID, "like")).
		Column(sq.Expr(fmt.Sprintf("EXISTS (SELECT 1 FROM %s AND r.%s = ? AND r.%s = ?)",
			reactions, tableinfo.ReactionUserIDColumn, tableinfo.ReactionKindColumn), viewerID, "chill")).
		From(tableinfo.EntitiesTableName + " " + entityAlias).
		Join(fmt.Sprintf("%s %s ON %s = %s",
			tableinfo.UsersTableName, userAlias,
			col(userAlias, tableinfo.UserIDColumn), col(entityAlias, tableinfo.EntityUserIDColumn),
		)).
		PlaceholderFormat(sq.Dollar)
}

func scanEntity(row pgx.Row) (model.Entity, error) {
	var (
		e    model.Entity
		kind string
	)
	if err := row.Scan(
		&e.ID,
		&kind,
		&e.Title,
		&e.Content,
		&e.Mood,
		&e.CreatedAt,
		&e.Author.ID,
		&e.Author.Username,
		&e.Author.Name,
		&e.CommentsCount,
		&e.LikesCount,
		&e.ChillVotesCount,
		&e.UserLiked,
		&e.UserChilled,
	); err != nil {
		return model.Entity{}, err
	}
	e.Kind = model.ParentKind(kind)
	return e, nil
}

func (s *Storage) CreateEntity(ctx context.Context, e model.Entity) (model.Entity, error) {
	query, args, err := sq.
		Insert(tableinfo.EntitiesTableName).
		Columns(
			tableinfo.EntityKindColumn,
			tableinfo.EntityTitleColumn,
			tableinfo.EntityContentColumn,
			tableinfo.EntityMoodColumn,
			tableinfo.EntityUserIDColumn,
		).
		Values(string(e.Kind), e.Title, e.Content, e.Mood, e.Author.ID).
		Suffix("RETURNING " + tableinfo.EntityIDColumn).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Entity{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)
	if err := tr.QueryRow(ctx, query, args...).Scan(&e.ID); err != nil {
		return model.Entity{}, fmt.Errorf("exec insert entity: %w", err)
	}
	return s.GetEntity(ctx, e.Ref(), 0)
}

func (s *Storage) GetEntity(ctx context.Context, ref model.ParentRef, viewerID int64) (model.Entity, error) {
	query, args, err := entitySelect(viewerID).
		Where(sq.Eq{
			col(entityAlias, tableinfo.EntityIDColumn):   ref.ID,
			col(entityAlias, tableinfo.EntityKindColumn): string(ref.Kind),
		}).
		ToSql()
	if err != nil {
		return model.Entity{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)
	e, err := scanEntity(tr.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Entity{}, stub.ErrNotFound
		}
		return model.Entity{}, fmt.Errorf("exec select entity: %w", err)
	}
	return e, nil
}

func (s *Storage) ListThreads(ctx context.Context, limit int, viewerID int64) ([]model.Entity, error) {
	query, args, err := entitySelect(viewerID).
		Where(sq.Eq{col(entityAlias, tableinfo.EntityKindColumn): string(model.KindThread)}).
		OrderBy(
			col(entityAlias, tableinfo.EntityCreatedAtColumn)+" DESC",
			col(entityAlias, tableinfo.EntityIDColumn)+" DESC",
		).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}
	return s.queryEntities(ctx, query, args, limit)
}

func listProjectsQueryBuilder(viewerID int64) sq.SelectBuilder {
	return entitySelect(viewerID).
		Where(sq.Eq{col(entityAlias, tableinfo.EntityKindColumn): string(model.KindProject)}).
		OrderBy(
			col(entityAlias, tableinfo.EntityCreatedAtColumn)+" DESC",
			col(entityAlias, tableinfo.EntityIDColumn)+" DESC",
		)
}

func (s *Storage) ListProjects(ctx context.Context, viewerID int64) ([]model.Entity, error) {
	query, args, err := listProjectsQueryBuilder(viewerID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}
	return s.queryEntities(ctx, query, args, 0)
}

func getThreadsQueryBuilder(p storage.GetThreadsParams) (sq.SelectBuilder, error) {
	createdAt := col(entityAlias, tableinfo.EntityCreatedAtColumn)
	id := col(entityAlias, tableinfo.EntityIDColumn)

	qb := entitySelect(p.ViewerID).
		Where(sq.Eq{col(entityAlias, tableinfo.EntityKindColumn): string(model.KindThread)}).
		Limit(uint64(p.Limit))

	switch p.Direction {
	case storage.DirectionAfter:
		return qb.
			Where(sq.Expr(fmt.Sprintf("(%s, %s) < (?, ?)", createdAt, id), p.Cursor.CreatedAt, p.Cursor.ID)).
			OrderBy(createdAt+" DESC", id+" DESC"), nil
	case storage.DirectionBefore:
		return qb.
			Where(sq.Expr(fmt.Sprintf("(%s, %s) > (?, ?)", createdAt, id), p.Cursor.CreatedAt, p.Cursor.ID)).
			OrderBy(createdAt+" ASC", id+" ASC"), nil
	default:
		return qb, storage.ErrDirectionUnset
	}
}

func (s *Storage) ListThreadsWithCursor(ctx context.Context, p storage.GetThreadsParams) ([]model.Entity, error) {
	qb, err := getThreadsQueryBuilder(p)
	if err != nil {
		return nil, err
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	out, err := s.queryEntities(ctx, query, args, p.Limit)
	if err != nil {
		return nil, err
	}
	if p.Direction == storage.DirectionBefore {
		slices.Reverse(out)
	}
	return out, nil
}

func (s *Storage) queryEntities(ctx context.Context, query string, args []any, limit int) ([]model.Entity, error) {
	tr := s.getter.DefaultTrOrDB(ctx, s.pool)
	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select entities: %w", err)
	}
	defer rows.Close()

	out := make([]model.Entity, 0, limit)
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func (s *Storage) ToggleReaction(ctx context.Context, ref model.ParentRef, userID int64, reaction string) error {
	key := sq.Eq{
		tableinfo.ReactionEntityKindColumn: string(ref.Kind),
		tableinfo.ReactionEntityIDColumn:   ref.ID,
		tableinfo.ReactionUserIDColumn:     userID,
		tableinfo.ReactionKindColumn:       reaction,
	}

	query, args, err := sq.
		Delete(tableinfo.ReactionsTableName).
		Where(key).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)
	tag, err := tr.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec delete reaction: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	query, args, err = sq.
		Insert(tableinfo.ReactionsTableName).
		Columns(
			tableinfo.ReactionEntityKindColumn,
			tableinfo.ReactionEntityIDColumn,
			tableinfo.ReactionUserIDColumn,
			tableinfo.ReactionKindColumn,
		).
		Values(string(ref.Kind), ref.ID, userID, reaction).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}
	if _, err := tr.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec insert reaction: %w", err)
	}
	return nil
}
