package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Antonov75/gallery_service/internal/gallery/domain/models"
	"github.com/Antonov75/gallery_service/internal/gallery/services/accessservice"
)

// Создание комментария к изображению
// (POST /comments).
func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		handleError(w, errTokenRequired, http.StatusUnauthorized)

		return
	}

	var req CreateCommentRequest

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	if req.Text == "" {
		handleError(w, fmt.Errorf("comment text required"), http.StatusBadRequest) //nolint:perfsprint

		return
	}

	// Комментарий нельзя оставить к несуществующему изображению.
	if _, err := s.imageService.GetImage(r.Context(), req.ImageID); err != nil {
		handleServiceError(w, err)

		return
	}

	grant, err := accessservice.Authorize(models.ActionAddComment, user, nil)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	c, err := s.commentService.CreateComment(r.Context(), grant, req.ImageID, req.Text)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, c)
}

// Получение комментария по идентификатору
// (GET /comments/{id}).
func (s *Server) getComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	c, err := s.commentService.GetComment(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, c)
}

// Изменение текста комментария
// (PATCH /comments/{id}).
func (s *Server) updateComment(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateCommentRequest

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	c, err := s.commentService.GetComment(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	grant, err := accessservice.Authorize(models.ActionUpdateComment, user, c)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	updated, err := s.commentService.UpdateComment(r.Context(), grant, id, req.Text)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Удаление комментария
// (DELETE /comments/{id}).
func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
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

	c, err := s.commentService.GetComment(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	grant, err := accessservice.Authorize(models.ActionDeleteComment, user, c)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	if err := s.commentService.DeleteComment(r.Context(), grant, id); err != nil {
		handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Получение комментариев изображения
// (GET /images/{id}/comments).
func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	if _, err := s.imageService.GetImage(r.Context(), id); err != nil {
		handleServiceError(w, err)

		return
	}

	comments, err := s.commentService.ListByImage(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, comments)
}
