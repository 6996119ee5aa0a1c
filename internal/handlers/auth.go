package handlers

import (
	"net/http"
	"strings"

	"github.com/crucial707/candidate-hub/internal/auth"
	"github.com/crucial707/candidate-hub/internal/respond"
	"github.com/crucial707/candidate-hub/internal/service"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Auth *service.AuthService
}

type credentials struct {
	Username string `json:"username" validate:"required,min=1,max=64,printascii"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// ==========================
// Register
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input credentials
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.Auth.Register(r.Context(), input.Username, input.Password)
	if err != nil {
		JSONError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]string{"username": user.Username})
}

// ==========================
// Login (JSON body or OAuth2 password form)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input credentials
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid_form", "invalid form body")
			return
		}
		input.Username = r.PostForm.Get("username")
		input.Password = r.PostForm.Get("password")
		if !validateStruct(w, &input) {
			return
		}
	} else if !decodeJSON(w, r, &input) {
		return
	}

	token, err := h.Auth.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		JSONError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   auth.TokenType,
	})
}

func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}
