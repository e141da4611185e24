package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Antonov75/gallery_service/internal/gallery/services/authservice"
	"github.com/go-chi/chi/v5"
)

// Регистрация нового пользователя
// (POST /auth/register).
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req authservice.RegisterRequest

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		handleError(w, fmt.Errorf("not enough parameters to register user"), http.StatusBadRequest) //nolint:perfsprint

		return
	}

	u, err := s.authService.Register(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{
		UserID: u.ID.String(),
		Email:  u.Email,
	})
}

// Подтверждение почты по токену из письма
// (GET /auth/confirm/{token}).
func (s *Server) confirmEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := s.authService.ConfirmEmail(r.Context(), token); err != nil {
		handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Аутентификация пользователя
// (POST /auth/login).
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	if req.Username == "" || req.Password == "" {
		handleError(w, fmt.Errorf("not enough parameters to auth user"), http.StatusBadRequest) //nolint:perfsprint

		return
	}

	token, err := s.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, AuthUserResponse{Token: token})
}
