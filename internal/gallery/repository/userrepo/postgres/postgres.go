package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Antonov75/gallery_service/internal/gallery/domain/models"
	"github.com/Antonov75/gallery_service/internal/gallery/repository/userrepo"
	"github.com/Antonov75/gallery_service/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var userColumns = []string{
	"u.id", "u.username", "u.email", "u.password_hash",
	"u.is_verified", "u.is_superuser", "u.access_level",
	"u.created_at",
	"p.id", "p.role_name",
	"p.can_add_image", "p.can_update_image", "p.can_delete_image",
	"p.can_add_tag", "p.can_update_tag", "p.can_delete_tag",
	"p.can_add_comment", "p.can_update_comment", "p.can_delete_comment",
}

type UsersPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) UsersPostgresRepo {
	return UsersPostgresRepo{
		db: db,
	}
}

func (ur UsersPostgresRepo) CreateUser(ctx context.Context, u models.User) (err error) {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create user")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("users").
		Columns("id", "username", "email", "password_hash", "is_verified", "is_superuser", "access_level").
		Values(u.ID, u.Username, u.Email, u.PasswordHash, u.IsVerified, u.IsSuperuser, u.AccessLevel).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	_, err = tx.Exec(ctx, query, args...)
	if err != nil {
		target := new(pgconn.PgError)
		if errors.As(err, &target) {
			switch target.Code { //nolint:gocritic
			case "23505":
				return userrepo.ErrAlreadyExists
			}
		}

		return fmt.Errorf("exec error: %w", err)
	}

	return nil
}

func (ur UsersPostgresRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return ur.getUser(ctx, squirrel.Eq{"u.username": username})
}

func (ur UsersPostgresRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return ur.getUser(ctx, squirrel.Eq{"u.id": id})
}

func (ur UsersPostgresRepo) getUser(ctx context.Context, pred squirrel.Eq) (u models.User, err error) {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get user")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select(userColumns...).
		From("users u").
		Join("permissions p ON p.id = u.access_level").
		Where(pred).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("to sql error: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.IsVerified, &u.IsSuperuser, &u.AccessLevel,
		&u.CreatedAt,
		&u.Permission.ID, &u.Permission.RoleName,
		&u.Permission.CanAddImage, &u.Permission.CanUpdateImage, &u.Permission.CanDeleteImage,
		&u.Permission.CanAddTag, &u.Permission.CanUpdateTag, &u.Permission.CanDeleteTag,
		&u.Permission.CanAddComment, &u.Permission.CanUpdateComment, &u.Permission.CanDeleteComment,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return u, userrepo.ErrNotFound
		}

		return u, fmt.Errorf("scan error: %w", err)
	}

	return u, nil
}

// SetVerified flips is_verified after a successful email confirmation.
func (ur UsersPostgresRepo) SetVerified(ctx context.Context, id uuid.UUID) (err error) {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "set verified")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update("users").
		Set("is_verified", true).
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return userrepo.ErrNotFound
	}

	return nil
}
