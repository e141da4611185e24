package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Antonov75/gallery_service/internal/gallery/repository/verifycache"
	"github.com/Antonov75/gallery_service/internal/pkg/config"
	"github.com/Antonov75/gallery_service/internal/pkg/redistools"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// VerifyCache keeps short-lived email verification tokens. It is a side
// cache only: no authorization decision or aggregate ever reads from it.
type VerifyCache struct {
	rdb     *redis.Client
	expTime time.Duration
}

func New(ctx context.Context, cfg config.RedisCache, expTime time.Duration) (VerifyCache, error) {
	rdb := redis.NewClient(&redis.Options{ //nolint:exhaustruct
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := redistools.Connect(ctx, rdb); err != nil {
		return VerifyCache{}, fmt.Errorf("connect error: %w", err)
	}

	return VerifyCache{
		rdb:     rdb,
		expTime: expTime,
	}, nil
}

func (vc VerifyCache) SaveToken(ctx context.Context, token string, userID uuid.UUID) error {
	_, err := vc.rdb.Set(ctx, "verify:"+token, userID.String(), vc.expTime).Result()
	if err != nil {
		return fmt.Errorf("set error: %w", err)
	}

	return nil
}

// PopToken consumes the token: a second confirmation attempt with the
// same token reads as not found.
func (vc VerifyCache) PopToken(ctx context.Context, token string) (uuid.UUID, error) {
	idStr, err := vc.rdb.GetDel(ctx, "verify:"+token).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, verifycache.ErrTokenNotFound
	} else if err != nil {
		return uuid.Nil, fmt.Errorf("getdel error: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse user id error: %w", err)
	}

	return id, nil
}

func (vc VerifyCache) Ping(ctx context.Context) error {
	if err := vc.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping error: %w", err)
	}

	return nil
}
