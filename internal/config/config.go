package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/justsurfingit/job-portal/internal/capture"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	DatabaseURL string   `env:"DATABASE_URL" envDefault:"host=localhost user=postgres password=password dbname=jobportal port=5432 sslmode=disable"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	DefaultCompany string `env:"DEFAULT_COMPANY" envDefault:"Rakamin"`

	MediaDir     string `env:"MEDIA_DIR" envDefault:"./media"`
	MediaBaseURL string `env:"MEDIA_BASE_URL" envDefault:"/media"`
	MaxPhotoSize int64  `env:"MAX_PHOTO_BYTES" envDefault:"5242880"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	GmailCredentialsFile string `env:"GMAIL_CREDENTIALS_FILE" envDefault:"credential.json"`
	GmailTokenFile       string `env:"GMAIL_TOKEN_FILE" envDefault:"token.json"`
	NotifyApplicants     bool   `env:"NOTIFY_APPLICANTS" envDefault:"false"`

	Capture CaptureConfig `envPrefix:"CAPTURE_"`
}

// CaptureConfig tunes the guided capture flow.
type CaptureConfig struct {
	Poses        []int         `env:"POSES" envSeparator:"," envDefault:"1,2,3"`
	Hold         time.Duration `env:"HOLD" envDefault:"800ms"`
	ConfirmDelay time.Duration `env:"CONFIRM_DELAY" envDefault:"500ms"`
	Countdown    int           `env:"COUNTDOWN" envDefault:"3"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"10m"`
}

// Flow returns the capture flow settings; the countdown ticks once a second.
func (c CaptureConfig) Flow() capture.Config {
	return capture.Config{
		Poses:        c.Poses,
		Hold:         c.Hold,
		ConfirmDelay: c.ConfirmDelay,
		Countdown:    c.Countdown,
		Tick:         time.Second,
	}
}

// Load reads an optional .env file, parses the environment and validates
// everything the server needs.
func Load() (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse is Load without validation, for commands that only touch the
// database.
func Parse() (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if len(c.Capture.Poses) == 0 {
		return errors.New("CAPTURE_POSES must list at least one pose")
	}
	if c.Capture.Countdown < 0 {
		return errors.New("CAPTURE_COUNTDOWN must not be negative")
	}
	return nil
}
