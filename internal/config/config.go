// Package config loads runtime settings from the environment. Variables are
// prefixed with NAJDENO_ and may also come from a .env file in the working
// directory; real environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Prefix is prepended to every environment variable name.
const Prefix = "NAJDENO_"

// Blob backends.
const (
	BlobBackendDB    = "db"
	BlobBackendMinio = "minio"
)

// Config is the complete runtime configuration.
type Config struct {
	Addr    string `env:"ADDR" envDefault:":8080"`
	DB      string `env:"DB" envDefault:"najdeno.sqlite3"`
	LogPath string `env:"LOG"`
	// BaseURL is the public origin printed into QR codes.
	BaseURL         string        `env:"BASE_URL" envDefault:"http://localhost:8080"`
	ExternalTimeout time.Duration `env:"EXTERNAL_TIMEOUT" envDefault:"10s"`
	MaxUploadBytes  int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	SecureCookies   bool          `env:"SECURE_COOKIES"`

	BlobBackend string      `env:"BLOB_BACKEND" envDefault:"db"`
	Minio       MinioConfig `envPrefix:"MINIO_"`
	Redis       RedisConfig `envPrefix:"REDIS_"`
}

// MinioConfig configures the S3-compatible blob backend.
type MinioConfig struct {
	Endpoint      string        `env:"ENDPOINT"`
	AccessKey     string        `env:"ACCESS_KEY"`
	SecretKey     string        `env:"SECRET_KEY"`
	Bucket        string        `env:"BUCKET" envDefault:"najdeno"`
	Region        string        `env:"REGION"`
	UseSSL        bool          `env:"USE_SSL"`
	PresignExpiry time.Duration `env:"PRESIGN_EXPIRY" envDefault:"15m"`
}

// RedisConfig locates the notification queue. An empty Addr disables the
// queue and notices are delivered inline.
type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"`
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: Prefix})
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	switch c.BlobBackend {
	case BlobBackendDB:
	case BlobBackendMinio:
		if c.Minio.Endpoint == "" {
			return errors.New("NAJDENO_MINIO_ENDPOINT is required for the minio blob backend")
		}
	default:
		return fmt.Errorf("unknown blob backend %q (want %s or %s)", c.BlobBackend, BlobBackendDB, BlobBackendMinio)
	}
	if c.ExternalTimeout <= 0 {
		return errors.New("NAJDENO_EXTERNAL_TIMEOUT must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("NAJDENO_MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}
