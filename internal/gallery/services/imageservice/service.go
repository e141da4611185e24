package imageservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Antonov75/gallery_service/internal/gallery/domain/models"
	"github.com/Antonov75/gallery_service/internal/gallery/repository/imagerepo"
	"github.com/Antonov75/gallery_service/internal/gallery/services/accessservice"
	"github.com/Antonov75/gallery_service/pkg/logger"
)

var ErrNotFound = errors.New("image not found")

type ImageService struct {
	imageRepo   Repository
	transformer Transformer
	lg          logger.Logger
}

type Repository interface {
	CreateImage(context.Context, models.Image) (int64, error)
	GetImage(context.Context, int64) (models.Image, error)
	UpdateImage(context.Context, models.Image) error
	DeleteImage(context.Context, int64) error
	AddTags(ctx context.Context, imageID int64, names []string) error
	RemoveTags(ctx context.Context, imageID int64, names []string) error
	SearchImages(context.Context, imagerepo.SearchRequest) ([]models.Image, error)
}

// Transformer derives an edited delivery URL from the original. The
// image provider itself is an external collaborator; only its URL
// scheme is known here.
type Transformer interface {
	Transform(original string, req TransformRequest) (string, error)
}

func New(imageRepo Repository, transformer Transformer, lg logger.Logger) *ImageService {
	return &ImageService{
		imageRepo:   imageRepo,
		transformer: transformer,
		lg:          lg,
	}
}

func (is *ImageService) CreateImage(ctx context.Context,
	grant accessservice.Grant, req CreateImageRequest,
) (models.Image, error) {
	if !grant.Permits(models.ActionAddImage) {
		return models.Image{}, accessservice.ErrForbidden
	}

	im := models.Image{ //nolint:exhaustruct
		OwnerID: grant.UserID(),
		Title:   req.Title,
		URL:     req.URL,
	}

	id, err := is.imageRepo.CreateImage(ctx, im)
	if err != nil {
		return models.Image{}, fmt.Errorf("create image error: %w", err)
	}

	return is.GetImage(ctx, id)
}

func (is *ImageService) GetImage(ctx context.Context, id int64) (models.Image, error) {
	im, err := is.imageRepo.GetImage(ctx, id)
	if err != nil {
		if errors.Is(err, imagerepo.ErrNotFound) {
			return models.Image{}, ErrNotFound
		}

		return models.Image{}, fmt.Errorf("get image error: %w", err)
	}

	return im, nil
}

func (is *ImageService) UpdateImage(ctx context.Context,
	grant accessservice.Grant, id int64, title string,
) (models.Image, error) {
	if !grant.Permits(models.ActionUpdateImage) {
		return models.Image{}, accessservice.ErrForbidden
	}

	im := models.Image{ //nolint:exhaustruct
		ID:    id,
		Title: title,
	}

	if err := is.imageRepo.UpdateImage(ctx, im); err != nil {
		if errors.Is(err, imagerepo.ErrNotFound) {
			return models.Image{}, ErrNotFound
		}

		return models.Image{}, fmt.Errorf("update image error: %w", err)
	}

	return is.GetImage(ctx, id)
}

func (is *ImageService) DeleteImage(ctx context.Context, grant accessservice.Grant, id int64) error {
	if !grant.Permits(models.ActionDeleteImage) {
		return accessservice.ErrForbidden
	}

	if err := is.imageRepo.DeleteImage(ctx, id); err != nil {
		if errors.Is(err, imagerepo.ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("delete image error: %w", err)
	}

	return nil
}

// TransformImage stores the derived URL as the image's single edited
// variant; a repeat transform replaces it.
func (is *ImageService) TransformImage(ctx context.Context,
	grant accessservice.Grant, id int64, req TransformRequest,
) (models.Image, error) {
	if !grant.Permits(models.ActionUpdateImage) {
		return models.Image{}, accessservice.ErrForbidden
	}

	im, err := is.GetImage(ctx, id)
	if err != nil {
		return models.Image{}, err
	}

	edited, err := is.transformer.Transform(im.URL, req)
	if err != nil {
		return models.Image{}, fmt.Errorf("transform error: %w", err)
	}

	im.EditedURL = edited

	if err := is.imageRepo.UpdateImage(ctx, im); err != nil {
		return models.Image{}, fmt.Errorf("update image error: %w", err)
	}

	is.lg.Infof("image %d transformed to %s", id, edited)

	return is.GetImage(ctx, id)
}

func (is *ImageService) AddTags(ctx context.Context,
	grant accessservice.Grant, imageID int64, names []string,
) (models.Image, error) {
	if !grant.Permits(models.ActionAddTag) {
		return models.Image{}, accessservice.ErrForbidden
	}

	if err := is.imageRepo.AddTags(ctx, imageID, uniqueNames(names)); err != nil {
		if errors.Is(err, imagerepo.ErrNotFound) {
			return models.Image{}, ErrNotFound
		}

		return models.Image{}, fmt.Errorf("add tags error: %w", err)
	}

	return is.GetImage(ctx, imageID)
}

func (is *ImageService) RemoveTags(ctx context.Context,
	grant accessservice.Grant, imageID int64, names []string,
) (models.Image, error) {
	if !grant.Permits(models.ActionDeleteTag) {
		return models.Image{}, accessservice.ErrForbidden
	}

	if err := is.imageRepo.RemoveTags(ctx, imageID, uniqueNames(names)); err != nil {
		if errors.Is(err, imagerepo.ErrNotFound) {
			return models.Image{}, ErrNotFound
		}

		return models.Image{}, fmt.Errorf("remove tags error: %w", err)
	}

	return is.GetImage(ctx, imageID)
}

func (is *ImageService) SearchImages(ctx context.Context, names []string) ([]models.Image, error) {
	images, err := is.imageRepo.SearchImages(ctx, imagerepo.SearchRequest{Names: uniqueNames(names)})
	if err != nil {
		return nil, fmt.Errorf("search images error: %w", err)
	}

	return images, nil
}

// uniqueNames treats the request as a set: same-batch duplicates are
// collapsed, order of first appearance kept.
func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))

	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}

		seen[n] = struct{}{}
		out = append(out, n)
	}

	return out
}
