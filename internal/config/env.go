package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// EnvConfig lists the environment variables understood by the binary.
// Unset variables leave the current value untouched.
type EnvConfig struct {
	DatabaseDSN       string        `env:"ONBOARD_DATABASE_DSN"`
	SecretKey         string        `env:"ONBOARD_SECRET_KEY"`
	AccessToken       string        `env:"ONBOARD_ACCESS_TOKEN"`
	S3RootUser        string        `env:"ONBOARD_S3_ROOT_USER"`
	S3RootPassword    string        `env:"ONBOARD_S3_ROOT_PASSWORD"`
	S3Bucket          string        `env:"ONBOARD_S3_BUCKET"`
	S3Region          string        `env:"ONBOARD_S3_REGION"`
	S3BaseEndpoint    string        `env:"ONBOARD_S3_BASE_ENDPOINT"`
	S3PublicBaseURL   string        `env:"ONBOARD_S3_PUBLIC_BASE_URL"`
	UploadTimeout     time.Duration `env:"ONBOARD_UPLOAD_TIMEOUT"`
	UploadConcurrency int           `env:"ONBOARD_UPLOAD_CONCURRENCY"`
	MaxPhotoDimension int           `env:"ONBOARD_MAX_PHOTO_DIMENSION"`
	RedisAddr         string        `env:"ONBOARD_REDIS_ADDR"`
	RedisPassword     string        `env:"ONBOARD_REDIS_PASSWORD"`
	ReferenceCacheTTL time.Duration `env:"ONBOARD_REFERENCE_CACHE_TTL"`
	KafkaBrokers      []string      `env:"ONBOARD_KAFKA_BROKERS" env-separator:","`
	KafkaTopic        string        `env:"ONBOARD_KAFKA_TOPIC"`
	GeoIPDatabase     string        `env:"ONBOARD_GEOIP_DATABASE"`
	GeoIPAddress      string        `env:"ONBOARD_GEOIP_ADDRESS"`
	Position          string        `env:"ONBOARD_POSITION"`
	DefaultRole       string        `env:"ONBOARD_DEFAULT_ROLE"`
	LogLevel          string        `env:"ONBOARD_LOG_LEVEL"`
	LogFormat         string        `env:"ONBOARD_LOG_FORMAT"`
}

// parseEnv loads EnvFile into the process environment (a missing file is
// fine, existing variables win) and overlays the ONBOARD_* variables.
func parseEnv(config *Config) error {
	if config.EnvFile != "" {
		if err := godotenv.Load(config.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	var e EnvConfig
	if err := cleanenv.ReadEnv(&e); err != nil {
		return err
	}

	overlay(&config.DatabaseDSN, e.DatabaseDSN)
	overlay(&config.SecretKey, e.SecretKey)
	overlay(&config.AccessToken, e.AccessToken)
	overlay(&config.S3RootUser, e.S3RootUser)
	overlay(&config.S3RootPassword, e.S3RootPassword)
	overlay(&config.S3Bucket, e.S3Bucket)
	overlay(&config.S3Region, e.S3Region)
	overlay(&config.S3BaseEndpoint, e.S3BaseEndpoint)
	overlay(&config.S3PublicBaseURL, e.S3PublicBaseURL)
	overlay(&config.UploadTimeout, e.UploadTimeout)
	overlay(&config.UploadConcurrency, e.UploadConcurrency)
	overlay(&config.MaxPhotoDimension, e.MaxPhotoDimension)
	overlay(&config.RedisAddr, e.RedisAddr)
	overlay(&config.RedisPassword, e.RedisPassword)
	overlay(&config.ReferenceCacheTTL, e.ReferenceCacheTTL)
	if len(e.KafkaBrokers) > 0 {
		config.KafkaBrokers = e.KafkaBrokers
	}
	overlay(&config.KafkaTopic, e.KafkaTopic)
	overlay(&config.GeoIPDatabase, e.GeoIPDatabase)
	overlay(&config.GeoIPAddress, e.GeoIPAddress)
	overlay(&config.Position, e.Position)
	overlay(&config.DefaultRole, e.DefaultRole)
	overlay(&config.LogLevel, e.LogLevel)
	overlay(&config.LogFormat, e.LogFormat)

	return nil
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
