package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Antonov75/gallery_service/internal/gallery/domain/models"
	"github.com/Antonov75/gallery_service/internal/gallery/services/accessservice"
	"github.com/Antonov75/gallery_service/internal/gallery/services/imageservice"
	"github.com/go-chi/chi/v5"
)

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id error: %w", err)
	}

	return id, nil
}

// Создание нового изображения
// (POST /images).
func (s *Server) createImage(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		handleError(w, errTokenRequired, http.StatusUnauthorized)

		return
	}

	var req imageservice.CreateImageRequest

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	grant, err := accessservice.Authorize(models.ActionAddImage, user, nil)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	im, err := s.imageService.CreateImage(r.Context(), grant, req)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, im)
}

// Получение изображения по идентификатору
// (GET /images/{id}).
func (s *Server) getImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	im, err := s.imageService.GetImage(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, im)
}

// Изменение заголовка изображения
// (PATCH /images/{id}).
func (s *Server) updateImage(w http.ResponseWriter, r *http.Request) {
	s.imageOperation(w, r, models.ActionUpdateImage,
		func(r *http.Request, grant accessservice.Grant, id int64) (interface{}, error) {
			var req UpdateImageRequest

			dec := json.NewDecoder(r.Body)

			if err := dec.Decode(&req); err != nil {
				return nil, fmt.Errorf("decode error: %w", err)
			}

			return s.imageService.UpdateImage(r.Context(), grant, id, req.Title)
		})
}

// Удаление изображения
// (DELETE /images/{id}).
func (s *Server) deleteImage(w http.ResponseWriter, r *http.Request) {
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

	im, err := s.imageService.GetImage(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	grant, err := accessservice.Authorize(models.ActionDeleteImage, user, im)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	if err := s.imageService.DeleteImage(r.Context(), grant, id); err != nil {
		handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Создание отредактированной версии изображения
// (POST /images/{id}/transform).
func (s *Server) transformImage(w http.ResponseWriter, r *http.Request) {
	s.imageOperation(w, r, models.ActionUpdateImage,
		func(r *http.Request, grant accessservice.Grant, id int64) (interface{}, error) {
			var req imageservice.TransformRequest

			dec := json.NewDecoder(r.Body)

			if err := dec.Decode(&req); err != nil {
				return nil, fmt.Errorf("decode error: %w", err)
			}

			return s.imageService.TransformImage(r.Context(), grant, id, req)
		})
}

// Добавление тегов к изображению
// (POST /images/{id}/tags).
func (s *Server) addTags(w http.ResponseWriter, r *http.Request) {
	s.imageOperation(w, r, models.ActionAddTag,
		func(r *http.Request, grant accessservice.Grant, id int64) (interface{}, error) {
			var req TagsRequest

			dec := json.NewDecoder(r.Body)

			if err := dec.Decode(&req); err != nil {
				return nil, fmt.Errorf("decode error: %w", err)
			}

			return s.imageService.AddTags(r.Context(), grant, id, req.Names)
		})
}

// Удаление тегов с изображения
// (DELETE /images/{id}/tags).
func (s *Server) removeTags(w http.ResponseWriter, r *http.Request) {
	s.imageOperation(w, r, models.ActionDeleteTag,
		func(r *http.Request, grant accessservice.Grant, id int64) (interface{}, error) {
			var req TagsRequest

			dec := json.NewDecoder(r.Body)

			if err := dec.Decode(&req); err != nil {
				return nil, fmt.Errorf("decode error: %w", err)
			}

			return s.imageService.RemoveTags(r.Context(), grant, id, req.Names)
		})
}

// Поиск изображений по тегам и заголовкам
// (GET /images/search?name=...).
func (s *Server) searchImages(w http.ResponseWriter, r *http.Request) {
	names := r.URL.Query()["name"]
	if len(names) == 0 {
		handleError(w, fmt.Errorf("at least one name parameter required"), http.StatusBadRequest) //nolint:perfsprint

		return
	}

	images, err := s.imageService.SearchImages(r.Context(), names)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, images)
}

// imageOperation loads the target image, runs the operation-shape
// access check against it and hands the grant to op.
func (s *Server) imageOperation(w http.ResponseWriter, r *http.Request, action models.Action,
	op func(r *http.Request, grant accessservice.Grant, id int64) (interface{}, error),
) {
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

	im, err := s.imageService.GetImage(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	grant, err := accessservice.Authorize(action, user, im)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	resp, err := op(r, grant, id)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, resp)
}
