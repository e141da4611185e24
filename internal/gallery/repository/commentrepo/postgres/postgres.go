package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Antonov75/gallery_service/internal/gallery/domain/models"
	"github.com/Antonov75/gallery_service/internal/gallery/repository/commentrepo"
	"github.com/Antonov75/gallery_service/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentsPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) CommentsPostgresRepo {
	return CommentsPostgresRepo{
		db: db,
	}
}

func (cr CommentsPostgresRepo) CreateComment(ctx context.Context, //nolint:nonamedreturns
	c models.Comment,
) (id int64, err error) {
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create comment")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("comments").
		Columns("owner_id", "image_id", "text").
		Values(c.OwnerID, c.ImageID, c.Text).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

func (cr CommentsPostgresRepo) GetComment(ctx context.Context, id int64) (c models.Comment, err error) {
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return models.Comment{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get comment")
	}()

	query := "SELECT id, owner_id, image_id, text, created_at, updated_at FROM comments WHERE id = $1"

	if err := tx.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.OwnerID, &c.ImageID, &c.Text, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c, commentrepo.ErrNotFound
		}

		return c, fmt.Errorf("scan error: %w", err)
	}

	return c, nil
}

func (cr CommentsPostgresRepo) UpdateComment(ctx context.Context, id int64, text string) (err error) {
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update comment")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update("comments").
		Set("text", text).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return commentrepo.ErrNotFound
	}

	return nil
}

func (cr CommentsPostgresRepo) DeleteComment(ctx context.Context, id int64) (err error) {
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete comment")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("comments").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return commentrepo.ErrNotFound
	}

	return nil
}

func (cr CommentsPostgresRepo) ListByImage(ctx context.Context, //nolint:nonamedreturns
	imageID int64,
) (comments []models.Comment, err error) {
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list comments")
	}()

	rows, err := tx.Query(ctx,
		"SELECT id, owner_id, image_id, text, created_at, updated_at FROM comments WHERE image_id = $1 ORDER BY id ASC",
		imageID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	comments = make([]models.Comment, 0, 10) //nolint:gomnd

	for rows.Next() {
		var c models.Comment

		if err := rows.Scan(&c.ID, &c.OwnerID, &c.ImageID, &c.Text, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		comments = append(comments, c)
	}

	return comments, nil
}
