package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/identity-broker/internal/payload"
	"github.com/vasapolrittideah/identity-broker/internal/provider"
	"github.com/vasapolrittideah/identity-broker/internal/usecase"
)

func (h *Handler) oauthAuthorize(w http.ResponseWriter, r *http.Request) {
	providerName := chi.URLParam(r, "provider")

	authURL, err := h.oauthUsecase.AuthCodeURL(providerName)
	if err != nil {
		h.respondError(w, http.StatusNotFound, "unknown_provider", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, payload.AuthorizeResponse{AuthorizationURL: authURL})
}

func (h *Handler) oauthCallback(w http.ResponseWriter, r *http.Request) {
	providerName := chi.URLParam(r, "provider")
	code := r.URL.Query().Get("code")

	result, err := h.oauthUsecase.HandleCallback(r.Context(), providerName, code)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("provider", providerName).
			Msg("oauth callback failed")

		switch {
		case errors.Is(err, usecase.ErrMissingCode):
			h.respondError(w, http.StatusBadRequest, "missing_code", "callback has no authorization code")
		case errors.Is(err, provider.ErrUnknownProvider):
			h.respondError(w, http.StatusNotFound, "unknown_provider", err.Error())
		case errors.Is(err, provider.ErrTokenExchange):
			h.respondError(w, http.StatusBadGateway, "token_exchange_failed", "provider rejected the authorization code")
		case errors.Is(err, provider.ErrProfileFetch):
			h.respondError(w, http.StatusBadGateway, "profile_fetch_failed", "provider userinfo call failed")
		case errors.Is(err, usecase.ErrProfileIncomplete):
			h.respondError(w, http.StatusUnprocessableEntity, "profile_incomplete", "provider profile has no email")
		default:
			h.respondError(w, http.StatusServiceUnavailable, "persistence_error", "user store unavailable")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, payload.TokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
	})
}
