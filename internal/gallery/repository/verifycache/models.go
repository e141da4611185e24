package verifycache

import "errors"

var ErrTokenNotFound = errors.New("verification token not found")
