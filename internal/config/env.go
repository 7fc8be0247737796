package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func applyEnv(c *Config) error {
	setString(&c.App.Env, "APP_ENV")
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")
	setString(&c.Session.Backend, "SESSION_BACKEND")
	setString(&c.Redis.Host, "REDIS_HOST")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Storage.S3.Endpoint, "S3_ENDPOINT")
	setString(&c.Storage.S3.AccessKey, "S3_ACCESS_KEY")
	setString(&c.Storage.S3.SecretKey, "S3_SECRET_KEY")
	setString(&c.Storage.S3.Bucket, "S3_BUCKET")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.JWT.Secret, "JWT_SECRET")
	setString(&c.AccountAPI.BaseURL, "ACCOUNT_API_URL")
	setString(&c.AccountAPI.TokenPath, "TOKEN_PATH")

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}

	ints := []struct {
		dst *int
		key string
	}{
		{&c.Server.Port, "SERVER_PORT"},
		{&c.Server.AccountPort, "ACCOUNT_SERVER_PORT"},
		{&c.Redis.Port, "REDIS_PORT"},
		{&c.Redis.DB, "REDIS_DB"},
		{&c.Database.Port, "DB_PORT"},
		{&c.Storage.ArchiveWorkers, "ARCHIVE_WORKERS"},
	}
	for _, e := range ints {
		if err := setInt(e.dst, e.key); err != nil {
			return err
		}
	}

	if err := setBool(&c.Storage.S3.Enabled, "S3_ENABLED"); err != nil {
		return err
	}

	durations := []struct {
		dst *time.Duration
		key string
	}{
		{&c.Session.TTL, "SESSION_TTL"},
		{&c.AccountAPI.Timeout, "ACCOUNT_API_TIMEOUT"},
		{&c.JWT.AccessTokenExp, "JWT_ACCESS_TOKEN_EXP"},
	}
	for _, e := range durations {
		if err := setDuration(e.dst, e.key); err != nil {
			return err
		}
	}

	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
