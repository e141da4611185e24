package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Antonov75/gallery_service/internal/gallery/domain/models"
	"github.com/Antonov75/gallery_service/internal/gallery/repository/imagerepo"
	"github.com/Antonov75/gallery_service/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const imageColumns = "i.id, i.owner_id, i.title, i.url, COALESCE(i.edited_url, ''), i.rating, i.created_at, i.updated_at"

type ImagesPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) ImagesPostgresRepo {
	return ImagesPostgresRepo{
		db: db,
	}
}

func (ir ImagesPostgresRepo) CreateImage(ctx context.Context, //nolint:nonamedreturns
	image models.Image,
) (id int64, err error) {
	tx, err := ir.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create image")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("images").
		Columns("owner_id", "title", "url").
		Values(image.OwnerID, image.Title, image.URL).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

func (ir ImagesPostgresRepo) GetImage(ctx context.Context, id int64) (im models.Image, err error) {
	tx, err := ir.db.Begin(ctx)
	if err != nil {
		return models.Image{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get image")
	}()

	query := "SELECT " + imageColumns + " FROM images i WHERE i.id = $1"

	if err := tx.QueryRow(ctx, query, id).Scan(
		&im.ID, &im.OwnerID, &im.Title, &im.URL, &im.EditedURL,
		&im.Rating, &im.CreatedAt, &im.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return im, imagerepo.ErrNotFound
		}

		return im, fmt.Errorf("scan error: %w", err)
	}

	tags, err := loadTags(ctx, tx, id)
	if err != nil {
		return im, err
	}

	im.Tags = tags

	return im, nil
}

func (ir ImagesPostgresRepo) UpdateImage(ctx context.Context, image models.Image) (err error) {
	tx, err := ir.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update image")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	ub := psql.Update("images").
		Set("title", image.Title).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": image.ID})

	if image.EditedURL != "" {
		ub = ub.Set("edited_url", image.EditedURL)
	}

	query, args, err := ub.ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return imagerepo.ErrNotFound
	}

	return nil
}

func (ir ImagesPostgresRepo) DeleteImage(ctx context.Context, id int64) (err error) {
	tx, err := ir.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete image")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("images").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return imagerepo.ErrNotFound
	}

	return nil
}

// AddTags links the named tags to the image, reusing tag rows by exact
// name and creating missing ones. Re-linking an already linked tag is a
// no-op: the association is a set.
func (ir ImagesPostgresRepo) AddTags(ctx context.Context, imageID int64, names []string) (err error) {
	tx, err := ir.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "add tags")
	}()

	if err := imageExists(ctx, tx, imageID); err != nil {
		return err
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	for _, name := range names {
		query, args, err := psql.Insert("tags").
			Columns("name").
			Values(name).
			Suffix("ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id").ToSql()
		if err != nil {
			return fmt.Errorf("to sql error: %w", err)
		}

		var tagID int64
		if err := tx.QueryRow(ctx, query, args...).Scan(&tagID); err != nil {
			return fmt.Errorf("scan error: %w", err)
		}

		query, args, err = psql.Insert("image_tags").
			Columns("image_id", "tag_id").
			Values(imageID, tagID).
			Suffix("ON CONFLICT (image_id, tag_id) DO NOTHING").ToSql()
		if err != nil {
			return fmt.Errorf("to sql error: %w", err)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("exec error: %w", err)
		}
	}

	return nil
}

// RemoveTags drops the associations whose tag name is in names. Tag rows
// themselves persist even with no images left referencing them.
func (ir ImagesPostgresRepo) RemoveTags(ctx context.Context, imageID int64, names []string) (err error) {
	tx, err := ir.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "remove tags")
	}()

	if err := imageExists(ctx, tx, imageID); err != nil {
		return err
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("image_tags").
		Where(squirrel.Eq{"image_id": imageID}).
		Where("tag_id IN (SELECT id FROM tags WHERE name = ANY(?))", names).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	return nil
}

// SearchImages returns the union of images linked to any of the named
// tags and images whose title equals one of the names. A row satisfying
// both predicates may appear twice.
func (ir ImagesPostgresRepo) SearchImages(ctx context.Context, //nolint:nonamedreturns
	req imagerepo.SearchRequest,
) (images []models.Image, err error) {
	tx, err := ir.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "search images")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select(imageColumns).
		From("images i").
		Join("image_tags it ON it.image_id = i.id").
		Join("tags t ON t.id = it.tag_id").
		Where("t.name = ANY(?)", req.Names).
		Suffix("UNION ALL SELECT "+imageColumns+" FROM images i WHERE i.title = ANY(?)", req.Names).ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	images = make([]models.Image, 0, 10) //nolint:gomnd

	for rows.Next() {
		var im models.Image

		if err := rows.Scan(
			&im.ID, &im.OwnerID, &im.Title, &im.URL, &im.EditedURL,
			&im.Rating, &im.CreatedAt, &im.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		images = append(images, im)
	}

	return images, nil
}

func imageExists(ctx context.Context, tx pgx.Tx, imageID int64) error {
	var one int
	if err := tx.QueryRow(ctx, "SELECT 1 FROM images WHERE id = $1", imageID).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return imagerepo.ErrNotFound
		}

		return fmt.Errorf("scan error: %w", err)
	}

	return nil
}

func loadTags(ctx context.Context, tx pgx.Tx, imageID int64) ([]models.Tag, error) {
	rows, err := tx.Query(ctx,
		"SELECT t.id, t.name FROM tags t JOIN image_tags it ON it.tag_id = t.id WHERE it.image_id = $1 ORDER BY t.name ASC",
		imageID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	tags := make([]models.Tag, 0, 4) //nolint:gomnd

	for rows.Next() {
		var t models.Tag

		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		tags = append(tags, t)
	}

	return tags, nil
}
