package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Antonov75/gallery_service/internal/gallery/repository/userrepo"
	"github.com/Antonov75/gallery_service/internal/gallery/repository/verifycache"
	"github.com/Antonov75/gallery_service/internal/gallery/services/accessservice"
	"github.com/Antonov75/gallery_service/internal/gallery/services/authservice"
	"github.com/Antonov75/gallery_service/internal/gallery/services/commentservice"
	"github.com/Antonov75/gallery_service/internal/gallery/services/imageservice"
	"github.com/Antonov75/gallery_service/internal/gallery/services/ratingservice"
)

var (
	errTokenRequired = errors.New("bearer token required")
	errTokenInvalid  = errors.New("invalid or expired token")
)

type Error struct {
	Err string `json:"error"`
}

func (se Error) ToJSON() []byte {
	b, err := json.Marshal(se)
	if err != nil {
		se.Err = err.Error()

		b, err := json.Marshal(se)
		if err != nil {
			return []byte(`{
				"error": "marshal error"
			  }`)
		}

		return b
	}

	return b
}

func handleError(w http.ResponseWriter, err error, code int) {
	w.WriteHeader(code)

	e := Error{err.Error()}

	w.Write(e.ToJSON()) //nolint:errcheck
}

// handleServiceError maps the service error taxonomy onto stable HTTP
// categories, keeping "confirm your email", "you lack permission" and
// "nothing here" distinguishable for clients.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accessservice.ErrEmailNotVerified):
		handleError(w, accessservice.ErrEmailNotVerified, http.StatusUnprocessableEntity)
	case errors.Is(err, accessservice.ErrForbidden):
		handleError(w, accessservice.ErrForbidden, http.StatusForbidden)
	case errors.Is(err, authservice.ErrInvalidCredentials):
		handleError(w, authservice.ErrInvalidCredentials, http.StatusUnauthorized)
	case errors.Is(err, userrepo.ErrAlreadyExists):
		handleError(w, userrepo.ErrAlreadyExists, http.StatusConflict)
	case errors.Is(err, verifycache.ErrTokenNotFound):
		handleError(w, verifycache.ErrTokenNotFound, http.StatusNotFound)
	case errors.Is(err, ratingservice.ErrInvalidValue):
		handleError(w, ratingservice.ErrInvalidValue, http.StatusBadRequest)
	case errors.Is(err, imageservice.ErrNotFound),
		errors.Is(err, commentservice.ErrNotFound),
		errors.Is(err, ratingservice.ErrNotFound),
		errors.Is(err, ratingservice.ErrImageNotFound):
		handleError(w, err, http.StatusNotFound)
	default:
		handleError(w, err, http.StatusInternalServerError)
	}
}
