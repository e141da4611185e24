package ratingservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Antonov75/gallery_service/internal/gallery/domain/models"
	"github.com/Antonov75/gallery_service/internal/gallery/repository/imagerepo"
	"github.com/Antonov75/gallery_service/internal/gallery/repository/ratingrepo"
	"github.com/google/uuid"
)

var (
	// ErrNotFound covers missing and foreign ratings alike; see
	// ratingrepo.ErrNotFound.
	ErrNotFound      = errors.New("rating not found")
	ErrImageNotFound = errors.New("image not found")
	ErrInvalidValue  = errors.New("rating value out of range")
)

type RatingService struct {
	ratingRepo Repository
	imageRepo  Images
}

type Repository interface {
	SetRating(context.Context, models.Rating) (models.Rating, error)
	GetRating(context.Context, int64) (models.Rating, error)
	UpdateRating(ctx context.Context, id int64, owner uuid.UUID, value int) (models.Rating, error)
	DeleteRating(ctx context.Context, id int64, owner uuid.UUID) error
}

type Images interface {
	GetImage(context.Context, int64) (models.Image, error)
}

func New(ratingRepo Repository, imageRepo Images) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		imageRepo:  imageRepo,
	}
}

// SetRating records the user's rating for an image; a repeat submission
// for the same image replaces the previous value rather than adding a
// second row.
func (rs *RatingService) SetRating(ctx context.Context,
	user models.User, req SetRatingRequest,
) (models.Rating, error) {
	if err := validateValue(req.Value); err != nil {
		return models.Rating{}, err
	}

	if _, err := rs.imageRepo.GetImage(ctx, req.ImageID); err != nil {
		if errors.Is(err, imagerepo.ErrNotFound) {
			return models.Rating{}, ErrImageNotFound
		}

		return models.Rating{}, fmt.Errorf("get image error: %w", err)
	}

	r := models.Rating{ //nolint:exhaustruct
		OwnerID: user.ID,
		ImageID: req.ImageID,
		Value:   req.Value,
	}

	saved, err := rs.ratingRepo.SetRating(ctx, r)
	if err != nil {
		return models.Rating{}, fmt.Errorf("set rating error: %w", err)
	}

	return saved, nil
}

func (rs *RatingService) GetRating(ctx context.Context, id int64) (models.Rating, error) {
	r, err := rs.ratingRepo.GetRating(ctx, id)
	if err != nil {
		if errors.Is(err, ratingrepo.ErrNotFound) {
			return models.Rating{}, ErrNotFound
		}

		return models.Rating{}, fmt.Errorf("get rating error: %w", err)
	}

	return r, nil
}

func (rs *RatingService) UpdateRating(ctx context.Context,
	user models.User, id int64, value int,
) (models.Rating, error) {
	if err := validateValue(value); err != nil {
		return models.Rating{}, err
	}

	r, err := rs.ratingRepo.UpdateRating(ctx, id, user.ID, value)
	if err != nil {
		if errors.Is(err, ratingrepo.ErrNotFound) {
			return models.Rating{}, ErrNotFound
		}

		return models.Rating{}, fmt.Errorf("update rating error: %w", err)
	}

	return r, nil
}

func (rs *RatingService) DeleteRating(ctx context.Context, user models.User, id int64) error {
	if err := rs.ratingRepo.DeleteRating(ctx, id, user.ID); err != nil {
		if errors.Is(err, ratingrepo.ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("delete rating error: %w", err)
	}

	return nil
}

func validateValue(v int) error {
	if v < models.RatingMin || v > models.RatingMax {
		return ErrInvalidValue
	}

	return nil
}
