package commentservice_test

import (
	"context"
	"testing"

	"github.com/Antonov75/gallery_service/internal/gallery/domain/models"
	"github.com/Antonov75/gallery_service/internal/gallery/repository/commentrepo"
	"github.com/Antonov75/gallery_service/internal/gallery/services/accessservice"
	"github.com/Antonov75/gallery_service/internal/gallery/services/commentservice"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeCommentRepo struct {
	comments map[int64]models.Comment
	nextID   int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{
		comments: make(map[int64]models.Comment),
		nextID:   1,
	}
}

func (f *fakeCommentRepo) CreateComment(_ context.Context, c models.Comment) (int64, error) {
	c.ID = f.nextID
	f.nextID++
	f.comments[c.ID] = c

	return c.ID, nil
}

func (f *fakeCommentRepo) GetComment(_ context.Context, id int64) (models.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return models.Comment{}, commentrepo.ErrNotFound
	}

	return c, nil
}

func (f *fakeCommentRepo) UpdateComment(_ context.Context, id int64, text string) error {
	c, ok := f.comments[id]
	if !ok {
		return commentrepo.ErrNotFound
	}

	c.Text = text
	f.comments[id] = c

	return nil
}

func (f *fakeCommentRepo) DeleteComment(_ context.Context, id int64) error {
	if _, ok := f.comments[id]; !ok {
		return commentrepo.ErrNotFound
	}

	delete(f.comments, id)

	return nil
}

func (f *fakeCommentRepo) ListByImage(_ context.Context, imageID int64) ([]models.Comment, error) {
	out := make([]models.Comment, 0, len(f.comments))

	for _, c := range f.comments {
		if c.ImageID == imageID {
			out = append(out, c)
		}
	}

	return out, nil
}

func grantFor(t *testing.T, action models.Action) accessservice.Grant {
	t.Helper()

	u := models.User{ //nolint:exhaustruct
		ID:         uuid.New(),
		IsVerified: true,
		Permission: models.Permission{ //nolint:exhaustruct
			CanAddComment:    true,
			CanUpdateComment: true,
			CanDeleteComment: true,
		},
	}

	g, err := accessservice.Authorize(action, u, nil)
	require.NoError(t, err)

	return g
}

func TestCreateCommentOwnedByGrantHolder(t *testing.T) {
	cs := commentservice.New(newFakeCommentRepo())
	g := grantFor(t, models.ActionAddComment)

	c, err := cs.CreateComment(context.Background(), g, 1, "nice shot")
	require.NoError(t, err)
	require.Equal(t, g.UserID(), c.OwnerID)
	require.Equal(t, int64(1), c.ImageID)
	require.Equal(t, "nice shot", c.Text)
}

func TestCommentMutatorsRequireMatchingGrant(t *testing.T) {
	cs := commentservice.New(newFakeCommentRepo())

	g := grantFor(t, models.ActionAddComment)

	_, err := cs.UpdateComment(context.Background(), g, 1, "edited")
	require.ErrorIs(t, err, accessservice.ErrForbidden)

	err = cs.DeleteComment(context.Background(), g, 1)
	require.ErrorIs(t, err, accessservice.ErrForbidden)

	var zero accessservice.Grant

	_, err = cs.CreateComment(context.Background(), zero, 1, "text")
	require.ErrorIs(t, err, accessservice.ErrForbidden)
}

func TestUpdateCommentMissing(t *testing.T) {
	cs := commentservice.New(newFakeCommentRepo())

	_, err := cs.UpdateComment(context.Background(),
		grantFor(t, models.ActionUpdateComment), 404, "edited")
	require.ErrorIs(t, err, commentservice.ErrNotFound)
}

func TestListByImage(t *testing.T) {
	repo := newFakeCommentRepo()
	cs := commentservice.New(repo)
	g := grantFor(t, models.ActionAddComment)

	_, err := cs.CreateComment(context.Background(), g, 1, "first")
	require.NoError(t, err)

	_, err = cs.CreateComment(context.Background(), g, 1, "second")
	require.NoError(t, err)

	_, err = cs.CreateComment(context.Background(), g, 2, "other image")
	require.NoError(t, err)

	comments, err := cs.ListByImage(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, comments, 2)
}
