package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vasapolrittideah/identity-broker/internal/middleware"
	"github.com/vasapolrittideah/identity-broker/internal/payload"
	"github.com/vasapolrittideah/identity-broker/internal/usecase"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrUserAlreadyExists) {
			h.respondError(w, http.StatusConflict, "email_taken", "a user with this email already exists")
			return
		}

		h.logger.Error().Err(err).Msg("failed to register user")
		h.respondError(w, http.StatusServiceUnavailable, "persistence_error", "something went wrong")
		return
	}

	h.respondJSON(w, http.StatusCreated, payload.TokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			h.respondError(w, http.StatusUnauthorized, "invalid_credentials", "email or password is incorrect")
		case errors.Is(err, usecase.ErrUserInactive):
			h.respondError(w, http.StatusForbidden, "user_inactive", "user account is inactive")
		default:
			h.logger.Error().Err(err).Msg("failed to log user in")
			h.respondError(w, http.StatusServiceUnavailable, "persistence_error", "something went wrong")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, payload.TokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "unauthorized", "no authenticated user")
		return
	}

	h.respondJSON(w, http.StatusOK, payload.NewUserResponse(user))
}

func (h *Handler) protectedRoute(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "unauthorized", "no authenticated user")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Hello, %s", user.Email),
	})
}
