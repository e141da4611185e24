package ratingservice

type SetRatingRequest struct {
	ImageID int64 `json:"image_id"` //nolint:tagliatelle
	Value   int   `json:"value"`
}
