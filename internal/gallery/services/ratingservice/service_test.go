package ratingservice_test

import (
	"context"
	"testing"

	"github.com/Antonov75/gallery_service/internal/gallery/domain/models"
	"github.com/Antonov75/gallery_service/internal/gallery/repository/imagerepo"
	"github.com/Antonov75/gallery_service/internal/gallery/repository/ratingrepo"
	"github.com/Antonov75/gallery_service/internal/gallery/services/ratingservice"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeRatingRepo struct {
	ratings map[int64]models.Rating
	nextID  int64
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{
		ratings: make(map[int64]models.Rating),
		nextID:  1,
	}
}

func (f *fakeRatingRepo) SetRating(_ context.Context, r models.Rating) (models.Rating, error) {
	for id, existing := range f.ratings {
		if existing.OwnerID == r.OwnerID && existing.ImageID == r.ImageID {
			existing.Value = r.Value
			f.ratings[id] = existing

			return existing, nil
		}
	}

	r.ID = f.nextID
	f.nextID++
	f.ratings[r.ID] = r

	return r, nil
}

func (f *fakeRatingRepo) GetRating(_ context.Context, id int64) (models.Rating, error) {
	r, ok := f.ratings[id]
	if !ok {
		return models.Rating{}, ratingrepo.ErrNotFound
	}

	return r, nil
}

func (f *fakeRatingRepo) UpdateRating(_ context.Context,
	id int64, owner uuid.UUID, value int,
) (models.Rating, error) {
	r, ok := f.ratings[id]
	if !ok || r.OwnerID != owner {
		return models.Rating{}, ratingrepo.ErrNotFound
	}

	r.Value = value
	f.ratings[id] = r

	return r, nil
}

func (f *fakeRatingRepo) DeleteRating(_ context.Context, id int64, owner uuid.UUID) error {
	r, ok := f.ratings[id]
	if !ok || r.OwnerID != owner {
		return ratingrepo.ErrNotFound
	}

	delete(f.ratings, id)

	return nil
}

type fakeImages struct {
	existing map[int64]struct{}
}

func (f fakeImages) GetImage(_ context.Context, id int64) (models.Image, error) {
	if _, ok := f.existing[id]; !ok {
		return models.Image{}, imagerepo.ErrNotFound
	}

	return models.Image{ID: id}, nil //nolint:exhaustruct
}

func testUser() models.User {
	return models.User{ //nolint:exhaustruct
		ID:         uuid.New(),
		IsVerified: true,
	}
}

func TestSetRatingValueOutOfRange(t *testing.T) {
	rs := ratingservice.New(newFakeRatingRepo(), fakeImages{existing: map[int64]struct{}{1: {}}})

	for _, v := range []int{0, -1, 6, 100} {
		_, err := rs.SetRating(context.Background(), testUser(),
			ratingservice.SetRatingRequest{ImageID: 1, Value: v})
		require.ErrorIs(t, err, ratingservice.ErrInvalidValue)
	}
}

func TestSetRatingImageMissing(t *testing.T) {
	rs := ratingservice.New(newFakeRatingRepo(), fakeImages{existing: map[int64]struct{}{}})

	_, err := rs.SetRating(context.Background(), testUser(),
		ratingservice.SetRatingRequest{ImageID: 42, Value: 3})
	require.ErrorIs(t, err, ratingservice.ErrImageNotFound)
}

func TestSetRatingRepeatReplacesValue(t *testing.T) {
	repo := newFakeRatingRepo()
	rs := ratingservice.New(repo, fakeImages{existing: map[int64]struct{}{1: {}}})
	u := testUser()

	first, err := rs.SetRating(context.Background(), u,
		ratingservice.SetRatingRequest{ImageID: 1, Value: 2})
	require.NoError(t, err)

	second, err := rs.SetRating(context.Background(), u,
		ratingservice.SetRatingRequest{ImageID: 1, Value: 5})
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 5, second.Value)
	require.Len(t, repo.ratings, 1)
}

func TestUpdateRatingForeignReadsAsNotFound(t *testing.T) {
	repo := newFakeRatingRepo()
	rs := ratingservice.New(repo, fakeImages{existing: map[int64]struct{}{1: {}}})
	owner := testUser()
	stranger := testUser()

	r, err := rs.SetRating(context.Background(), owner,
		ratingservice.SetRatingRequest{ImageID: 1, Value: 4})
	require.NoError(t, err)

	_, err = rs.UpdateRating(context.Background(), stranger, r.ID, 1)
	require.ErrorIs(t, err, ratingservice.ErrNotFound)

	err = rs.DeleteRating(context.Background(), stranger, r.ID)
	require.ErrorIs(t, err, ratingservice.ErrNotFound)

	// Для владельца операция проходит.
	updated, err := rs.UpdateRating(context.Background(), owner, r.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 1, updated.Value)

	require.NoError(t, rs.DeleteRating(context.Background(), owner, r.ID))
}

func TestUpdateRatingValueOutOfRange(t *testing.T) {
	rs := ratingservice.New(newFakeRatingRepo(), fakeImages{existing: map[int64]struct{}{1: {}}})

	_, err := rs.UpdateRating(context.Background(), testUser(), 1, 0)
	require.ErrorIs(t, err, ratingservice.ErrInvalidValue)
}

func TestGetRatingMissing(t *testing.T) {
	rs := ratingservice.New(newFakeRatingRepo(), fakeImages{existing: map[int64]struct{}{}})

	_, err := rs.GetRating(context.Background(), 404)
	require.ErrorIs(t, err, ratingservice.ErrNotFound)
}
