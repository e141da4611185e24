package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Antonov75/gallery_service/internal/gallery/domain/models"
	"github.com/Antonov75/gallery_service/internal/gallery/repository/ratingrepo"
	"github.com/Antonov75/gallery_service/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RatingsPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) RatingsPostgresRepo {
	return RatingsPostgresRepo{
		db: db,
	}
}

// SetRating upserts the caller's rating for an image: at most one row
// exists per (owner_id, image_id), so a repeat submission updates the
// previous value. The image average is recomputed in the same
// transaction as the write.
func (rr RatingsPostgresRepo) SetRating(ctx context.Context, r models.Rating) (saved models.Rating, err error) {
	tx, err := rr.db.Begin(ctx)
	if err != nil {
		return models.Rating{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "set rating")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("ratings").
		Columns("owner_id", "image_id", "value").
		Values(r.OwnerID, r.ImageID, r.Value).
		Suffix("ON CONFLICT (owner_id, image_id) DO UPDATE SET value = EXCLUDED.value RETURNING id").ToSql()
	if err != nil {
		return models.Rating{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&r.ID); err != nil {
		return models.Rating{}, fmt.Errorf("scan error: %w", err)
	}

	if err = recomputeAverage(ctx, tx, r.ImageID); err != nil {
		return models.Rating{}, err
	}

	return r, nil
}

func (rr RatingsPostgresRepo) GetRating(ctx context.Context, id int64) (r models.Rating, err error) {
	tx, err := rr.db.Begin(ctx)
	if err != nil {
		return models.Rating{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get rating")
	}()

	query := "SELECT id, owner_id, image_id, value FROM ratings WHERE id = $1"

	if err := tx.QueryRow(ctx, query, id).Scan(&r.ID, &r.OwnerID, &r.ImageID, &r.Value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r, ratingrepo.ErrNotFound
		}

		return r, fmt.Errorf("scan error: %w", err)
	}

	return r, nil
}

// UpdateRating changes the value of the caller's own rating. Ownership
// is part of the lookup predicate: a rating belonging to another user
// reads as not found.
func (rr RatingsPostgresRepo) UpdateRating(ctx context.Context,
	id int64, owner uuid.UUID, value int,
) (r models.Rating, err error) {
	tx, err := rr.db.Begin(ctx)
	if err != nil {
		return models.Rating{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update rating")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update("ratings").
		Set("value", value).
		Where(squirrel.Eq{"id": id, "owner_id": owner}).
		Suffix("RETURNING image_id").ToSql()
	if err != nil {
		return models.Rating{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&r.ImageID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Rating{}, ratingrepo.ErrNotFound
		}

		return models.Rating{}, fmt.Errorf("scan error: %w", err)
	}

	r.ID = id
	r.OwnerID = owner
	r.Value = value

	if err = recomputeAverage(ctx, tx, r.ImageID); err != nil {
		return models.Rating{}, err
	}

	return r, nil
}

// DeleteRating removes the caller's own rating; ownership is part of
// the lookup predicate, as in UpdateRating.
func (rr RatingsPostgresRepo) DeleteRating(ctx context.Context, id int64, owner uuid.UUID) (err error) {
	tx, err := rr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete rating")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("ratings").
		Where(squirrel.Eq{"id": id, "owner_id": owner}).
		Suffix("RETURNING image_id").ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	var imageID int64

	if err = tx.QueryRow(ctx, query, args...).Scan(&imageID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ratingrepo.ErrNotFound
		}

		return fmt.Errorf("scan error: %w", err)
	}

	return recomputeAverage(ctx, tx, imageID)
}

// recomputeAverage refreshes the image's denormalized average from all
// remaining rating rows. Full recomputation keeps deletes simple and
// correct; with zero rows the average is 0.00.
func recomputeAverage(ctx context.Context, tx pgx.Tx, imageID int64) error {
	rows, err := tx.Query(ctx, "SELECT value FROM ratings WHERE image_id = $1", imageID)
	if err != nil {
		return fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	values := make([]int, 0, 10) //nolint:gomnd

	for rows.Next() {
		var v int

		if err := rows.Scan(&v); err != nil {
			return fmt.Errorf("scan error: %w", err)
		}

		values = append(values, v)
	}

	rows.Close()

	if _, err := tx.Exec(ctx,
		"UPDATE images SET rating = $1 WHERE id = $2",
		models.AverageRating(values), imageID,
	); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	return nil
}
