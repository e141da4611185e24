package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Antonov75/gallery_service/internal/gallery/services/ratingservice"
)

// Выставление оценки изображению; повторная оценка того же
// изображения заменяет предыдущую
// (POST /ratings).
func (s *Server) setRating(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		handleError(w, errTokenRequired, http.StatusUnauthorized)

		return
	}

	var req ratingservice.SetRatingRequest

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	rt, err := s.ratingService.SetRating(r.Context(), user, req)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, rt)
}

// Получение оценки по идентификатору
// (GET /ratings/{id}).
func (s *Server) getRating(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	rt, err := s.ratingService.GetRating(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, rt)
}

// Изменение собственной оценки
// (PATCH /ratings/{id}).
func (s *Server) updateRating(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		handleError(w, errTokenRequired, http.StatusUnauthorized)

		return
	}

	id, err := pathID(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	var req UpdateRatingRequest

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	rt, err := s.ratingService.UpdateRating(r.Context(), user, id, req.Value)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, rt)
}

// Удаление собственной оценки
// (DELETE /ratings/{id}).
func (s *Server) deleteRating(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		handleError(w, errTokenRequired, http.StatusUnauthorized)

		return
	}

	id, err := pathID(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	if err := s.ratingService.DeleteRating(r.Context(), user, id); err != nil {
		handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
