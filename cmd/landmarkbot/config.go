package main

import (
	"fmt"
	"net/url"
	"strings"

	"landmarkbot/pkg/types"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	storeKindRedis    = "redis"
	storeKindPostgres = "postgres"
)

// loadConfig reads the environment and checks what every command needs, the
// record store URL.
func loadConfig(prefix string) (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process(prefix, c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.StoreURL == "" {
		c.StoreURL = c.RedisURL
	}

	if c.StoreURL == "" {
		return nil, fmt.Errorf("set STORE_URL or REDIS_URL")
	}

	if _, err := storeKind(c.StoreURL); err != nil {
		return nil, err
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 15
	}

	return c, nil
}

// validateServeConfig checks the messaging and media settings serve needs.
func validateServeConfig(c *types.Config) error {
	var missing []string
	require := func(value, name string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	require(c.ChannelAccessToken, "CHANNEL_ACCESS_TOKEN")
	require(c.ChannelSecret, "CHANNEL_SECRET")

	switch c.MediaBackend {
	case types.MediaBackendCloudinary:
		require(c.CloudinaryName, "CLOUDINARY_NAME")
		require(c.CloudinaryKey, "CLOUDINARY_KEY")
		require(c.CloudinarySecret, "CLOUDINARY_SECRET")
	case types.MediaBackendS3:
		require(c.S3AccessKeyID, "S3_ACCESS_KEY_ID")
		require(c.S3SecretAccessKey, "S3_SECRET_ACCESS_KEY")
		require(c.S3BucketName, "S3_BUCKET_NAME")
	default:
		return fmt.Errorf("%w: %q", types.ErrUnsupportedMedia, c.MediaBackend)
	}

	if len(missing) > 0 {
		return fmt.Errorf("set %s", strings.Join(missing, ", "))
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return nil
}

func storeKind(storeURL string) (string, error) {
	u, err := url.Parse(storeURL)
	if err != nil {
		return "", fmt.Errorf("parse store url: %w", err)
	}

	switch u.Scheme {
	case "redis", "rediss":
		return storeKindRedis, nil
	case "postgres", "postgresql":
		return storeKindPostgres, nil
	default:
		return "", fmt.Errorf("%w: %q", types.ErrUnsupportedStore, u.Scheme)
	}
}

func newLogger(c *types.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	return logger
}
