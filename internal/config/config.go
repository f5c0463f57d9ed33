package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds all process-wide settings. It is loaded once at startup and
// treated as immutable afterwards.
type Config struct {
	ServerAddr          string        `env:"SERVER_ADDR"            envDefault:":8000"`
	ShutdownTimeout     time.Duration `env:"SHUTDOWN_TIMEOUT"       envDefault:"10s"`
	MongoURL            string        `env:"MONGODB_URL"`
	DatabaseName        string        `env:"DATABASE_NAME"          envDefault:"identity_broker"`
	AppPasswordResetURL string        `env:"APP_PASSWORD_RESET_URL" envDefault:"http://localhost:8000/auth/reset-password"`

	Token    TokenConfig
	Google   OAuthClientConfig `envPrefix:"GOOGLE_"`
	LinkedIn OAuthClientConfig `envPrefix:"LINKEDIN_"`
	Facebook OAuthClientConfig `envPrefix:"FACEBOOK_"`
}

// TokenConfig holds signing secrets and lifetimes for issued JWTs.
type TokenConfig struct {
	AccessTokenSecret           string        `env:"SECRET_KEY"`
	AccessTokenExpiresIn        time.Duration `env:"ACCESS_TOKEN_EXPIRES_IN"         envDefault:"3600s"`
	PasswordResetTokenSecret    string        `env:"PASSWORD_RESET_TOKEN_SECRET"`
	PasswordResetTokenExpiresIn time.Duration `env:"PASSWORD_RESET_TOKEN_EXPIRES_IN" envDefault:"15m"`
	Issuer                      string        `env:"TOKEN_ISSUER"                    envDefault:"identity-broker"`
}

// OAuthClientConfig holds one provider's OAuth client registration.
type OAuthClientConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
}

// New loads the configuration from environment variables.
func New(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks the settings without which the broker cannot operate.
func (c *Config) validate() error {
	if c.MongoURL == "" {
		return fmt.Errorf("missing MONGODB_URL environment variable")
	}
	if c.Token.AccessTokenSecret == "" {
		return fmt.Errorf("missing SECRET_KEY environment variable")
	}
	if c.Token.PasswordResetTokenSecret == "" {
		return fmt.Errorf("missing PASSWORD_RESET_TOKEN_SECRET environment variable")
	}

	return nil
}

// Configured reports whether the provider registration is complete enough to
// be wired into the registry.
func (c OAuthClientConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURL != ""
}
