package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvGRPCAddr        = "LOVEOPS_GRPC_ADDR"
	EnvDatabaseDSN     = "LOVEOPS_DATABASE_DSN"
	EnvSecretKey       = "LOVEOPS_SECRET_KEY"
	EnvAccessTokenTTL  = "LOVEOPS_ACCESS_TOKEN_TTL"
	EnvRefreshTokenTTL = "LOVEOPS_REFRESH_TOKEN_TTL"
	EnvS3User          = "LOVEOPS_S3_USER"
	EnvS3Password      = "LOVEOPS_S3_PASSWORD"
	EnvS3Bucket        = "LOVEOPS_S3_BUCKET"
	EnvS3Region        = "LOVEOPS_S3_REGION"
	EnvS3Endpoint      = "LOVEOPS_S3_ENDPOINT"
	EnvS3PublicURL     = "LOVEOPS_S3_PUBLIC_URL"
	EnvLogLevel        = "LOVEOPS_LOG_LEVEL"
)

// parseEnv loads envFile into the process environment (variables already
// set win) and overlays every LOVEOPS_* variable that is present. A missing
// file is fine; a malformed file or duration panics.
func parseEnv(cfg *Config, envFile string) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(err)
	}

	for _, s := range []struct {
		key string
		dst *string
	}{
		{EnvGRPCAddr, &cfg.EndpointAddrGRPC},
		{EnvDatabaseDSN, &cfg.DatabaseDSN},
		{EnvSecretKey, &cfg.SecretKey},
		{EnvS3User, &cfg.S3RootUser},
		{EnvS3Password, &cfg.S3RootPassword},
		{EnvS3Bucket, &cfg.S3Bucket},
		{EnvS3Region, &cfg.S3Region},
		{EnvS3Endpoint, &cfg.S3BaseEndpoint},
		{EnvS3PublicURL, &cfg.S3PublicBaseURL},
		{EnvLogLevel, &cfg.LogLevel},
	} {
		if v, ok := lookup(s.key); ok {
			*s.dst = v
		}
	}

	for _, d := range []struct {
		key string
		dst *time.Duration
	}{
		{EnvAccessTokenTTL, &cfg.AccessTokenValidityDuration},
		{EnvRefreshTokenTTL, &cfg.RefreshTokenValidityDuration},
	} {
		if v, ok := lookup(d.key); ok {
			dur, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*d.dst = dur
		}
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
