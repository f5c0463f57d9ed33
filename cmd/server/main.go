package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/identity-broker/internal/config"
	"github.com/vasapolrittideah/identity-broker/internal/handler"
	"github.com/vasapolrittideah/identity-broker/internal/mailer"
	"github.com/vasapolrittideah/identity-broker/internal/middleware"
	"github.com/vasapolrittideah/identity-broker/internal/provider"
	"github.com/vasapolrittideah/identity-broker/internal/repository"
	"github.com/vasapolrittideah/identity-broker/internal/token"
	"github.com/vasapolrittideah/identity-broker/internal/usecase"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := config.New(&logger)

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()

	startupCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := client.Ping(startupCtx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping mongodb")
	}

	db := client.Database(cfg.DatabaseName)

	userRepo := repository.NewUserMongoRepository(startupCtx, &logger, db)
	resetTokenRepo := repository.NewPasswordResetTokenMongoRepository(startupCtx, &logger, db)

	issuer := token.NewIssuer(cfg.Token.AccessTokenSecret, cfg.Token.Issuer, cfg.Token.AccessTokenExpiresIn)
	jwtAuth := token.NewAuthenticator(cfg.Token.Issuer, cfg.Token.Issuer)

	registry := provider.NewRegistry(configuredProviders(cfg)...)

	authUsecase := usecase.NewAuthUsecase(userRepo, &issuer)
	oauthUsecase := usecase.NewOAuthUsecase(userRepo, registry, &issuer, &logger)
	passwordResetUsecase := usecase.NewPasswordResetUsecase(
		userRepo,
		resetTokenRepo,
		jwtAuth,
		mailer.NewMailer(&logger),
		cfg,
	)

	authMiddleware := middleware.NewAuthMiddleware(&issuer, userRepo, &logger)

	h := handler.New(authUsecase, oauthUsecase, passwordResetUsecase, authMiddleware, &logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Mount("/", h.Routes())

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("identity broker started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("identity broker stopped cleanly")
}

// configuredProviders wires up every provider whose client registration is
// complete; the rest stay unregistered and their routes answer with
// unknown_provider.
func configuredProviders(cfg *config.Config) []provider.Provider {
	var providers []provider.Provider

	if cfg.Google.Configured() {
		providers = append(providers, provider.NewGoogle(provider.GoogleConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
		}))
	}

	if cfg.LinkedIn.Configured() {
		providers = append(providers, provider.NewLinkedIn(provider.LinkedInConfig{
			ClientID:     cfg.LinkedIn.ClientID,
			ClientSecret: cfg.LinkedIn.ClientSecret,
			RedirectURL:  cfg.LinkedIn.RedirectURL,
		}))
	}

	if cfg.Facebook.Configured() {
		providers = append(providers, provider.NewFacebook(provider.FacebookConfig{
			ClientID:     cfg.Facebook.ClientID,
			ClientSecret: cfg.Facebook.ClientSecret,
			RedirectURL:  cfg.Facebook.RedirectURL,
		}))
	}

	return providers
}
