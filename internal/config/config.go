package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Host               string        `env:"HOST" env-default:"0.0.0.0"`
	Port               string        `env:"PORT" env-default:"8080"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" env-default:"30s"`
	ImageFetchTimeout  time.Duration `env:"IMAGE_FETCH_TIMEOUT" env-default:"15s"`
	MaxRequestBodySize int64         `env:"MAX_REQUEST_BODY_SIZE" env-default:"1048576"`
	LogLevel           string        `env:"LOG_LEVEL" env-default:"info"`
	MaxSessions        int           `env:"MAX_SESSIONS" env-default:"1000"`

	Pexels  PexelsConfig
	Media   MediaConfig
	Gallery GalleryConfig
	Share   ShareConfig
}

// PexelsConfig holds the photo API credential and endpoint root
type PexelsConfig struct {
	APIKey  string `env:"PEXELS_API_KEY"`
	BaseURL string `env:"PEXELS_BASE_URL" env-default:"https://api.pexels.com/v1"`
}

// MediaConfig configures the download/share gateway
type MediaConfig struct {
	AccessGranted bool     `env:"MEDIA_ACCESS_GRANTED" env-default:"true"`
	ScratchDir    string   `env:"SCRATCH_DIR"`
	AllowedHosts  []string `env:"MEDIA_ALLOWED_HOSTS" env-separator:","`
}

// GalleryConfig selects where downloaded wallpapers are committed
type GalleryConfig struct {
	Kind string `env:"GALLERY_KIND" env-default:"local"`
	Dir  string `env:"GALLERY_DIR" env-default:"./gallery"`

	AzureAccountName string `env:"AZURE_ACCOUNT_NAME"`
	AzureAccountKey  string `env:"AZURE_ACCOUNT_KEY"`
	AzureContainer   string `env:"AZURE_CONTAINER" env-default:"wallpapers"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET" env-default:"wallpapers"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" env-default:"false"`
}

// ShareConfig selects the share mechanism; "none" means sharing is unavailable
type ShareConfig struct {
	Kind        string        `env:"SHARE_KIND" env-default:"none"`
	OutboxDir   string        `env:"SHARE_OUTBOX_DIR"`
	NATSURL     string        `env:"NATS_URL"`
	NATSSubject string        `env:"NATS_SHARE_SUBJECT" env-default:"wallpaper.shared"`
	NATSTimeout time.Duration `env:"NATS_CONNECT_TIMEOUT" env-default:"5s"`
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// LoadFromEnv reads an optional .env file (ENV_FILE, default ".env") and then
// the process environment.
func LoadFromEnv() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}
	if cfg.Media.ScratchDir == "" {
		cfg.Media.ScratchDir = filepath.Join(os.TempDir(), "vixel")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and cross-field requirements
func (c *Config) Validate() error {
	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 || c.ImageFetchTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s)",
			c.RequestTimeout, c.ImageFetchTimeout)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("MAX_SESSIONS must be > 0 (got %d)", c.MaxSessions)
	}
	if strings.TrimSpace(c.Pexels.APIKey) == "" {
		return fmt.Errorf("PEXELS_API_KEY is required")
	}

	switch c.Gallery.Kind {
	case "local":
		if c.Gallery.Dir == "" {
			return fmt.Errorf("GALLERY_DIR is required for local gallery")
		}
	case "azure":
		if c.Gallery.AzureAccountName == "" || c.Gallery.AzureAccountKey == "" {
			return fmt.Errorf("AZURE_ACCOUNT_NAME and AZURE_ACCOUNT_KEY are required for azure gallery")
		}
	case "minio":
		if c.Gallery.MinioEndpoint == "" || c.Gallery.MinioAccessKey == "" || c.Gallery.MinioSecretKey == "" {
			return fmt.Errorf("MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for minio gallery")
		}
	default:
		return fmt.Errorf("invalid GALLERY_KIND: %q", c.Gallery.Kind)
	}

	switch c.Share.Kind {
	case "none":
	case "outbox":
		if c.Share.OutboxDir == "" {
			return fmt.Errorf("SHARE_OUTBOX_DIR is required for outbox sharing")
		}
	case "nats":
		if c.Share.NATSURL == "" {
			return fmt.Errorf("NATS_URL is required for nats sharing")
		}
	default:
		return fmt.Errorf("invalid SHARE_KIND: %q", c.Share.Kind)
	}
	return nil
}
