package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Rating value bounds. Values outside the range are rejected before
// reaching the repositories.
const (
	RatingMin = 1
	RatingMax = 5
)

type Image struct {
	ID        int64     `json:"image_id"` //nolint:tagliatelle
	OwnerID   uuid.UUID `json:"owner_id"` //nolint:tagliatelle
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	EditedURL string    `json:"edited_url,omitempty"` //nolint:tagliatelle
	// Rating is a denormalized aggregate over the ratings table. It is
	// recomputed after every rating write, never set directly.
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"created_at"` //nolint:tagliatelle
	UpdatedAt time.Time `json:"updated_at"` //nolint:tagliatelle
	Tags      []Tag     `json:"tags,omitempty"`
}

func (im Image) Owner() uuid.UUID {
	return im.OwnerID
}

type Tag struct {
	ID   int64  `json:"tag_id"` //nolint:tagliatelle
	Name string `json:"name"`
}

type Comment struct {
	ID        int64     `json:"comment_id"` //nolint:tagliatelle
	OwnerID   uuid.UUID `json:"owner_id"`   //nolint:tagliatelle
	ImageID   int64     `json:"image_id"`   //nolint:tagliatelle
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"` //nolint:tagliatelle
	UpdatedAt time.Time `json:"updated_at"` //nolint:tagliatelle
}

func (c Comment) Owner() uuid.UUID {
	return c.OwnerID
}

type Rating struct {
	ID      int64     `json:"rating_id"` //nolint:tagliatelle
	OwnerID uuid.UUID `json:"owner_id"`  //nolint:tagliatelle
	ImageID int64     `json:"image_id"`  //nolint:tagliatelle
	Value   int       `json:"value"`
}

func (r Rating) Owner() uuid.UUID {
	return r.OwnerID
}

// AverageRating is the mean of values rounded to two decimal places,
// 0 for an empty set.
func AverageRating(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0
	for _, v := range values {
		sum += v
	}

	avg := float64(sum) / float64(len(values))

	return math.Round(avg*100) / 100 //nolint:gomnd
}
