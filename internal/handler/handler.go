package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/identity-broker/internal/middleware"
	"github.com/vasapolrittideah/identity-broker/internal/payload"
	"github.com/vasapolrittideah/identity-broker/internal/usecase"
)

// Handler exposes the broker's HTTP surface.
type Handler struct {
	authUsecase          usecase.AuthUsecase
	oauthUsecase         usecase.OAuthUsecase
	passwordResetUsecase usecase.PasswordResetUsecase
	authMiddleware       *middleware.AuthMiddleware
	validate             *validator.Validate
	trans                ut.Translator
	logger               *zerolog.Logger
}

// New creates the HTTP handler with English validation messages.
func New(
	authUsecase usecase.AuthUsecase,
	oauthUsecase usecase.OAuthUsecase,
	passwordResetUsecase usecase.PasswordResetUsecase,
	authMiddleware *middleware.AuthMiddleware,
	logger *zerolog.Logger,
) *Handler {
	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		logger.Fatal().Err(err).Msg("failed to register validation translations")
	}

	return &Handler{
		authUsecase:          authUsecase,
		oauthUsecase:         oauthUsecase,
		passwordResetUsecase: passwordResetUsecase,
		authMiddleware:       authMiddleware,
		validate:             validate,
		trans:                trans,
		logger:               logger,
	}
}

// Routes builds the broker's route tree.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/jwt/login", h.login)
		r.Post("/forgot-password", h.forgotPassword)
		r.Post("/reset-password", h.resetPassword)
		r.Get("/reset-password/validate", h.validateResetToken)

		r.Route("/{provider}", func(r chi.Router) {
			r.Get("/authorize", h.oauthAuthorize)
			r.Get("/callback", h.oauthCallback)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(h.authMiddleware.RequireUser)
		r.Get("/users/me", h.me)
		r.Get("/protected-route", h.protectedRoute)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode parses and validates a JSON request body. Validation failures come
// back as a single translated, user-facing message.
func (h *Handler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body")
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, ve := range verrs {
				msgs = append(msgs, ve.Translate(h.trans))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	return nil
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response body")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, code, description string) {
	h.respondJSON(w, status, payload.ErrorResponse{
		Error:            code,
		ErrorDescription: description,
	})
}
