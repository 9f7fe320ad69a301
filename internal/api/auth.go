package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"jobboard/internal/auth"
	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/models"
	"jobboard/internal/store"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

type sessionResponse struct {
	Token   string          `json:"token"`
	Profile *models.Profile `json:"profile"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if req.Email == "" || len(req.Password) < 8 {
		s.writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "email and a password of at least 8 characters are required"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	profile := &models.Profile{
		Email:        req.Email,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         models.RoleUser,
		PasswordHash: hash,
	}
	if err := s.profiles.Create(r.Context(), profile); err != nil {
		s.writeError(w, err)
		return
	}

	token, err := s.tokens.Generate(profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSONStatus(w, http.StatusCreated, sessionResponse{Token: token, Profile: profile})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	profile, err := s.profiles.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, apperrors.NewInvalidCredentialsError())
			return
		}
		s.writeError(w, err)
		return
	}
	if !auth.CheckPassword(profile.PasswordHash, req.Password) {
		s.writeError(w, apperrors.NewInvalidCredentialsError())
		return
	}

	token, err := s.tokens.Generate(profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, sessionResponse{Token: token, Profile: profile})
}

// Sessions are stateless tokens; sign-out is a client-side discard.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if req.Email == "" || len(req.Password) < 8 {
		s.writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "email and a password of at least 8 characters are required"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	profile := &models.Profile{
		Email:        req.Email,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         models.RoleAdmin,
		PasswordHash: hash,
	}
	if err := s.profiles.Create(r.Context(), profile); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSONStatus(w, http.StatusCreated, profile)
}
