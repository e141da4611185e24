package commentservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Antonov75/gallery_service/internal/gallery/domain/models"
	"github.com/Antonov75/gallery_service/internal/gallery/repository/commentrepo"
	"github.com/Antonov75/gallery_service/internal/gallery/services/accessservice"
)

var ErrNotFound = errors.New("comment not found")

type CommentService struct {
	commentRepo Repository
}

type Repository interface {
	CreateComment(context.Context, models.Comment) (int64, error)
	GetComment(context.Context, int64) (models.Comment, error)
	UpdateComment(ctx context.Context, id int64, text string) error
	DeleteComment(context.Context, int64) error
	ListByImage(context.Context, int64) ([]models.Comment, error)
}

func New(commentRepo Repository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
	}
}

func (cs *CommentService) CreateComment(ctx context.Context,
	grant accessservice.Grant, imageID int64, text string,
) (models.Comment, error) {
	if !grant.Permits(models.ActionAddComment) {
		return models.Comment{}, accessservice.ErrForbidden
	}

	c := models.Comment{ //nolint:exhaustruct
		OwnerID: grant.UserID(),
		ImageID: imageID,
		Text:    text,
	}

	id, err := cs.commentRepo.CreateComment(ctx, c)
	if err != nil {
		return models.Comment{}, fmt.Errorf("create comment error: %w", err)
	}

	return cs.GetComment(ctx, id)
}

func (cs *CommentService) GetComment(ctx context.Context, id int64) (models.Comment, error) {
	c, err := cs.commentRepo.GetComment(ctx, id)
	if err != nil {
		if errors.Is(err, commentrepo.ErrNotFound) {
			return models.Comment{}, ErrNotFound
		}

		return models.Comment{}, fmt.Errorf("get comment error: %w", err)
	}

	return c, nil
}

func (cs *CommentService) UpdateComment(ctx context.Context,
	grant accessservice.Grant, id int64, text string,
) (models.Comment, error) {
	if !grant.Permits(models.ActionUpdateComment) {
		return models.Comment{}, accessservice.ErrForbidden
	}

	if err := cs.commentRepo.UpdateComment(ctx, id, text); err != nil {
		if errors.Is(err, commentrepo.ErrNotFound) {
			return models.Comment{}, ErrNotFound
		}

		return models.Comment{}, fmt.Errorf("update comment error: %w", err)
	}

	return cs.GetComment(ctx, id)
}

func (cs *CommentService) DeleteComment(ctx context.Context, grant accessservice.Grant, id int64) error {
	if !grant.Permits(models.ActionDeleteComment) {
		return accessservice.ErrForbidden
	}

	if err := cs.commentRepo.DeleteComment(ctx, id); err != nil {
		if errors.Is(err, commentrepo.ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("delete comment error: %w", err)
	}

	return nil
}

func (cs *CommentService) ListByImage(ctx context.Context, imageID int64) ([]models.Comment, error) {
	comments, err := cs.commentRepo.ListByImage(ctx, imageID)
	if err != nil {
		return nil, fmt.Errorf("list comments error: %w", err)
	}

	return comments, nil
}
