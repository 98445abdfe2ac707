package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

const (
	BroadcastDriverMemory = "memory"
	BroadcastDriverRedis  = "redis"
)

type Config struct {
	AppURL                 string
	DatabaseDSN            string
	JWTSecret              string
	JWTIssuer              string
	AccessTokenTTLMinutes  int
	RefreshTokenTTLHours   int
	BroadcastDriver        string
	RedisAddr              string
	RedisChannelPrefix     string
	RateLimit              int
	ShutdownTimeoutSeconds int
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDSN:            getEnv("DATABASE_DSN", "todo.db"),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		JWTIssuer:              getEnv("JWT_ISSUER", "todo-stream"),
		AccessTokenTTLMinutes:  getEnvAsInt("ACCESS_TOKEN_TTL_MINUTES", 15),
		RefreshTokenTTLHours:   getEnvAsInt("REFRESH_TOKEN_TTL_HOURS", 168),
		BroadcastDriver:        getEnv("BROADCAST_DRIVER", BroadcastDriverMemory),
		RedisAddr:              fmt.Sprintf("%s:%s", redisHost, redisPort),
		RedisChannelPrefix:     getEnv("REDIS_CHANNEL_PREFIX", "tasks:"),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
	}

	validate(cfg)
	return cfg
}

func validate(cfg Config) {
	if cfg.AppURL == "" {
		log.Fatal("APP_URL must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN must not be empty")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	if cfg.AccessTokenTTLMinutes <= 0 {
		log.Fatal("ACCESS_TOKEN_TTL_MINUTES must be greater than 0")
	}
	if cfg.RefreshTokenTTLHours <= 0 {
		log.Fatal("REFRESH_TOKEN_TTL_HOURS must be greater than 0")
	}
	if cfg.BroadcastDriver != BroadcastDriverMemory && cfg.BroadcastDriver != BroadcastDriverRedis {
		log.Fatal("BROADCAST_DRIVER must be either memory or redis")
	}
	if cfg.RateLimit <= 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}
