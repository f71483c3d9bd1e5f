package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Image uploader backends.
const (
	UploaderBackend    = "backend"
	UploaderCloudinary = "cloudinary"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	APIBaseURL  string
	EventsPath  string
	OrganizerID string
	HTTPTimeout time.Duration

	ImageUploader string
	Cloudinary    CloudinaryConfig

	SessionDBDriver string
	SessionDBURL    string

	MapSettingsFile string
}

// CloudinaryConfig holds credentials for direct image uploads.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production .env might not exist and we rely on system environment variables
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:   env,
		APIBaseURL:    os.Getenv("API_BASE_URL"),
		EventsPath:    os.Getenv("EVENTS_PATH"),
		OrganizerID:   os.Getenv("ORGANIZER_ID"),
		ImageUploader: os.Getenv("IMAGE_UPLOADER"),
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			Folder:    os.Getenv("CLOUDINARY_FOLDER"),
		},
		SessionDBDriver: os.Getenv("SESSION_DB_DRIVER"),
		SessionDBURL:    os.Getenv("SESSION_DB_URL"),
		MapSettingsFile: os.Getenv("MAP_SETTINGS_FILE"),
	}

	if s := os.Getenv("HTTP_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT %q: %w", s, err)
		}
		cfg.HTTPTimeout = d
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.APIBaseURL == "" {
		c.APIBaseURL = "http://localhost:3333"
	}
	if c.EventsPath == "" {
		c.EventsPath = "/events"
	}
	if c.OrganizerID == "" {
		c.OrganizerID = "EF-B200"
	}
	if c.ImageUploader == "" {
		c.ImageUploader = UploaderBackend
	}
	if c.Cloudinary.Folder == "" {
		c.Cloudinary.Folder = "events"
	}
	if c.SessionDBDriver == "" {
		c.SessionDBDriver = "sqlite"
	}
	if c.SessionDBURL == "" && c.SessionDBDriver == "sqlite" {
		c.SessionDBURL = "file:volunteermap-session.db"
	}
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.ImageUploader {
	case UploaderBackend:
	case UploaderCloudinary:
		if c.Cloudinary.CloudName == "" || c.Cloudinary.APIKey == "" || c.Cloudinary.APISecret == "" {
			return fmt.Errorf("IMAGE_UPLOADER=cloudinary requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	default:
		return fmt.Errorf("unknown IMAGE_UPLOADER %q (use backend or cloudinary)", c.ImageUploader)
	}
	switch c.SessionDBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown SESSION_DB_DRIVER %q (use sqlite or postgres)", c.SessionDBDriver)
	}
	if c.SessionDBURL == "" {
		return fmt.Errorf("SESSION_DB_URL is required for driver %s", c.SessionDBDriver)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("HTTP_TIMEOUT must not be negative")
	}
	return nil
}

// String renders the non-secret settings for startup logs.
func (c *Config) String() string {
	return fmt.Sprintf("env=%s api=%s events_path=%s uploader=%s session_driver=%s http_timeout=%s",
		c.Environment, c.APIBaseURL, c.EventsPath, c.ImageUploader, c.SessionDBDriver, c.HTTPTimeout)
}
