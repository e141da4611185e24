package imagerepo

import "errors"

var ErrNotFound = errors.New("image not found")

// SearchRequest carries the strings matched against tag names and image
// titles. Results are the union of both predicates.
type SearchRequest struct {
	Names []string
}
