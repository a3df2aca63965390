package handler

import (
	"encoding/json"
	"net/http"

	"github.com/scrybe/scrybe-backend/internal/application/auth"
	"github.com/scrybe/scrybe-backend/internal/domain"
	"github.com/scrybe/scrybe-backend/internal/pkg/validate"
)

// AuthHandler handles signup, OTP verification and both login flows.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.svc.Signup(r.Context(), req); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Signup successful. OTP sent to email."})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.OTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.svc.VerifyOTP(r.Context(), req); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Email verified successfully."})
}

// Login accepts the form-encoded credential pair of the OAuth2 password flow.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	token, err := h.svc.Login(r.Context(), username, password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

func (h *AuthHandler) LoginGoogle(w http.ResponseWriter, r *http.Request) {
	var req domain.GoogleTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeDomainError(w, err)
		return
	}
	token, err := h.svc.LoginWithGoogle(r.Context(), req.Token)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}
