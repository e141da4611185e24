package server

import (
	"encoding/json"
	"net/http"
)

type RegisterResponse struct {
	UserID string `json:"user_id"` //nolint:tagliatelle
	Email  string `json:"email"`
}

type AuthUserResponse struct {
	Token string `json:"token"`
}

type HealthResponse struct {
	DB    string `json:"db"`
	Cache string `json:"cache"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		w.Write(Error{err.Error()}.ToJSON()) //nolint:errcheck
	}
}
