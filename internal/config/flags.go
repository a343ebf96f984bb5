package config

import (
	"flag"
	"strings"

	"github.com/dmitrijs2005/onboard/internal/flagx"
)

// parseFlags overlays values from the command line.
//
// Supported flags:
//
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t string   access token of the signed-in user
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-w string   public base URL for uploaded photos
//	-ut duration  upload timeout
//	-r string   Redis address for the reference cache
//	-k string   comma separated Kafka brokers
//	-geoip string  MaxMind City database path
//	-ip string  address to geolocate
//	-pos string fixed position "lat,lng"
//	-l string   log level
//
// Only these flags are parsed; the rest of args is ignored (flagx.FilterArgs).
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{
		"-d", "-s", "-t", "-u", "-p", "-b", "-g", "-e", "-w", "-ut", "-r", "-k", "-geoip", "-ip", "-pos", "-l",
	})

	fs := flag.NewFlagSet("onboard", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.AccessToken, "t", config.AccessToken, "access token")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicBaseURL, "w", config.S3PublicBaseURL, "public base URL for photos")
	fs.DurationVar(&config.UploadTimeout, "ut", config.UploadTimeout, "upload timeout (e.g. 30s)")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "Redis address")
	brokers := fs.String("k", strings.Join(config.KafkaBrokers, ","), "Kafka brokers")
	fs.StringVar(&config.GeoIPDatabase, "geoip", config.GeoIPDatabase, "GeoIP City database")
	fs.StringVar(&config.GeoIPAddress, "ip", config.GeoIPAddress, "IP address to geolocate")
	fs.StringVar(&config.Position, "pos", config.Position, "fixed position lat,lng")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.KafkaBrokers = splitList(*brokers)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
