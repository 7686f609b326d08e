package delivery_http

import (
	"log/slog"
	"net/http"

	model "pinstack-feed-service/internal/domain/models"
	auth_port "pinstack-feed-service/internal/domain/ports/input/auth"
	ports "pinstack-feed-service/internal/domain/ports/output"
)

type AuthHandler struct {
	auth auth_port.Service
	log  ports.Logger
}

func NewAuthHandler(auth auth_port.Service, log ports.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, r, err)
		return
	}

	id, err := h.auth.Signup(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}

	h.log.Debug("Signup succeeded", slog.String("user_id", id.String()))
	writeJSON(w, http.StatusCreated, map[string]any{"message": "User created!", "userId": id})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"token": result.Token, "userId": result.UserID})
}
