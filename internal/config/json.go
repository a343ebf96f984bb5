package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/onboard/internal/flagx"
	"github.com/dmitrijs2005/onboard/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Only fields
// present in the file override the current values.
type JsonConfig struct {
	DatabaseDSN       *string         `json:"database_dsn"`
	SecretKey         *string         `json:"secret_key"`
	AccessToken       *string         `json:"access_token"`
	S3RootUser        *string         `json:"s3_root_user"`
	S3RootPassword    *string         `json:"s3_root_password"`
	S3Bucket          *string         `json:"s3_bucket"`
	S3Region          *string         `json:"s3_region"`
	S3BaseEndpoint    *string         `json:"s3_base_endpoint"`
	S3PublicBaseURL   *string         `json:"s3_public_base_url"`
	UploadTimeout     *timex.Duration `json:"upload_timeout"`
	UploadConcurrency *int            `json:"upload_concurrency"`
	MaxPhotoDimension *int            `json:"max_photo_dimension"`
	RedisAddr         *string         `json:"redis_addr"`
	RedisPassword     *string         `json:"redis_password"`
	ReferenceCacheTTL *timex.Duration `json:"reference_cache_ttl"`
	KafkaBrokers      []string        `json:"kafka_brokers"`
	KafkaTopic        *string         `json:"kafka_topic"`
	GeoIPDatabase     *string         `json:"geoip_database"`
	GeoIPAddress      *string         `json:"geoip_address"`
	Position          *string         `json:"position"`
	DefaultRole       *string         `json:"default_role"`
	LogLevel          *string         `json:"log_level"`
	LogFormat         *string         `json:"log_format"`
	EnvFile           *string         `json:"env_file"`
}

// parseJson overlays the file named by -c/-config (or ONBOARD_CONFIG).
// No path means nothing to load.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.AccessToken, c.AccessToken)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)
	if c.UploadTimeout != nil {
		config.UploadTimeout = c.UploadTimeout.Duration
	}
	if c.UploadConcurrency != nil {
		config.UploadConcurrency = *c.UploadConcurrency
	}
	if c.MaxPhotoDimension != nil {
		config.MaxPhotoDimension = *c.MaxPhotoDimension
	}
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	if c.ReferenceCacheTTL != nil {
		config.ReferenceCacheTTL = c.ReferenceCacheTTL.Duration
	}
	if c.KafkaBrokers != nil {
		config.KafkaBrokers = c.KafkaBrokers
	}
	setString(&config.KafkaTopic, c.KafkaTopic)
	setString(&config.GeoIPDatabase, c.GeoIPDatabase)
	setString(&config.GeoIPAddress, c.GeoIPAddress)
	setString(&config.Position, c.Position)
	setString(&config.DefaultRole, c.DefaultRole)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.EnvFile, c.EnvFile)

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
