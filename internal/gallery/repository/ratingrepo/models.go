package ratingrepo

import "errors"

// ErrNotFound covers both a missing rating and a rating owned by another
// user: ownership is part of the lookup predicate, so foreign rows are
// indistinguishable from absent ones.
var ErrNotFound = errors.New("rating not found")
