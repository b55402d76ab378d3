package app

import (
	"time"

	"github.com/udaanlabs/pathshala-backend/internal/logger"
	"github.com/udaanlabs/pathshala-backend/internal/utils"
)

type Config struct {
	JWTSecretKey          string
	AccessTokenTTL        time.Duration
	TotalSessions         int
	Timezone              string
	StaticContentManifest string
	OtelEnabled           bool
	OtelSampleRatio       float64
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	totalSessions := utils.GetEnvAsInt("TOTAL_SESSIONS", 150, log)
	timezone := utils.GetEnv("APP_TIMEZONE", "Asia/Kolkata", log)
	manifest := utils.GetEnv("STATIC_CONTENT_MANIFEST", "static_content/manifest.yaml", log)
	otelEnabled := utils.GetEnvAsBool("OTEL_ENABLED", false, log)
	otelSampleRatio := utils.GetEnvAsFloat("OTEL_SAMPLER_RATIO", 0.1, log)
	return Config{
		JWTSecretKey:          jwtSecretKey,
		AccessTokenTTL:        time.Duration(accessTokenTTLSeconds) * time.Second,
		TotalSessions:         totalSessions,
		Timezone:              timezone,
		StaticContentManifest: manifest,
		OtelEnabled:           otelEnabled,
		OtelSampleRatio:       otelSampleRatio,
	}
}
