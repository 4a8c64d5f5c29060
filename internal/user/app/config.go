package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hogwartsschoolofmagic/user/pkg/httpx"
	"github.com/hogwartsschoolofmagic/user/pkg/jwtx"
	"golang.org/x/text/language"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env                 string        `env:"ENV" envDefault:"dev"`                          // Environment (dev, staging, prod)
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`                   // Log level (debug, info, warn, error)
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`                  // Log format (json, text)
	Port                int           `env:"PORT" envDefault:"8080"`                        // HTTP server port
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`        // Graceful shutdown timeout
	DatabaseDriver      string        `env:"DATABASE_DRIVER" envDefault:"sqlite"`           // sqlite or postgres
	DatabaseFile        string        `env:"DATABASE_FILE" envDefault:"user.db"`            // SQLite database file
	DatabaseURL         string        `env:"DATABASE_URL"`                                  // Postgres DSN
	PepperFile          string        `env:"PEPPER_FILE" envDefault:"pepper"`               // Password hashing pepper, generated when missing
	JWTSecret           string        `env:"JWT_SECRET"`                                    // Required: HS512 secret, at least 32 bytes
	JWTExpiration       time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`               // Access token lifetime
	JWTLeeway           time.Duration `env:"JWT_LEEWAY" envDefault:"0s"`                    // Clock skew tolerated on exp/nbf
	TrustedProxies      []string      `env:"TRUSTED_PROXIES" envSeparator:","`              // Proxy CIDRs allowed to set X-Forwarded-For
	CORSAllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`         // Browser origins, empty allows any
	DefaultLocale       string        `env:"DEFAULT_LOCALE" envDefault:"en"`                // Fallback message locale

	OAuth2 OAuth2Config `envPrefix:"OAUTH2_"`
	Mail   MailConfig   `envPrefix:"MAIL_"`
}

type OAuth2Config struct {
	// AuthorizedRedirectURIs may receive a token after an OAuth2 login.
	AuthorizedRedirectURIs []string `env:"AUTHORIZED_REDIRECT_URIS" envSeparator:","`
	GoogleClientID         string   `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret     string   `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL      string   `env:"GOOGLE_REDIRECT_URL" envDefault:"http://localhost:8080/login/oauth2/code/google"`
	// CookieSecret seals the in-flight authorization request. A random one
	// is generated at startup when empty.
	CookieSecret string `env:"COOKIE_SECRET"`
	// CookieSecure marks the OAuth2 cookies Secure when TLS ends at a proxy.
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"false"`
}

// MailConfig selects the SMTP relay. Without a host, mail is only logged.
type MailConfig struct {
	Host       string `env:"HOST"`
	Port       int    `env:"PORT" envDefault:"587"`
	Username   string `env:"USERNAME"`
	Password   string `env:"PASSWORD"`
	From       string `env:"FROM" envDefault:"no-reply@hogwarts.example"`
	ConfirmURL string `env:"CONFIRM_URL" envDefault:"http://localhost:3000/registrationConfirm"`
}

// LoadConfig reads the configuration from the environment and validates it.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error

	if len(c.JWTSecret) < jwtx.MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", jwtx.MinSecretLength))
	}
	if c.JWTExpiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION must be positive"))
	}
	if c.JWTLeeway < 0 {
		errs = append(errs, errors.New("JWT_LEEWAY must not be negative"))
	}
	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %w", err))
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("DATABASE_FILE is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver))
	}

	if c.OAuth2.GoogleClientID != "" && c.OAuth2.GoogleClientSecret == "" {
		errs = append(errs, errors.New("OAUTH2_GOOGLE_CLIENT_SECRET is required with OAUTH2_GOOGLE_CLIENT_ID"))
	}
	if _, err := language.Parse(c.DefaultLocale); err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_LOCALE: %w", err))
	}

	return errors.Join(errs...)
}
