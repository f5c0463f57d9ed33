package handler

import (
	"errors"
	"net/http"

	"github.com/vasapolrittideah/identity-broker/internal/payload"
	"github.com/vasapolrittideah/identity-broker/internal/usecase"
)

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ForgotPasswordRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.passwordResetUsecase.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.logger.Error().Err(err).Msg("failed to request password reset")
		h.respondError(w, http.StatusServiceUnavailable, "persistence_error", "something went wrong")
		return
	}

	// Always accepted, whether or not the email exists.
	h.respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ResetPasswordRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	claims, err := h.passwordResetUsecase.VerifyResetToken(req.Token)
	if err != nil {
		h.respondResetTokenError(w, err)
		return
	}

	if err := h.passwordResetUsecase.ResetPassword(r.Context(), claims.JTI, req.NewPassword); err != nil {
		h.logger.Error().Err(err).Msg("failed to reset password")
		h.respondResetTokenError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

func (h *Handler) validateResetToken(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "token query parameter is required")
		return
	}

	claims, err := h.passwordResetUsecase.VerifyResetToken(tokenStr)
	if err != nil {
		h.respondResetTokenError(w, err)
		return
	}

	if err := h.passwordResetUsecase.ValidatePasswordResetToken(r.Context(), claims.JTI); err != nil {
		h.respondResetTokenError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "valid"})
}

func (h *Handler) respondResetTokenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrTokenNotFound):
		h.respondError(w, http.StatusNotFound, "token_not_found", "password reset token not found")
	case errors.Is(err, usecase.ErrTokenAlreadyUsed):
		h.respondError(w, http.StatusConflict, "token_used", "password reset token has already been used")
	case errors.Is(err, usecase.ErrTokenExpired):
		h.respondError(w, http.StatusUnauthorized, "token_expired", "password reset token has expired")
	case errors.Is(err, usecase.ErrInvalidToken):
		h.respondError(w, http.StatusUnauthorized, "invalid_token", "invalid password reset token")
	default:
		h.respondError(w, http.StatusServiceUnavailable, "persistence_error", "something went wrong")
	}
}
