package config

import (
	"os"
	"time"
)

// Config captures process-wide settings loaded once from the environment.
// There is no validation beyond defaulting; missing values fall back to
// development defaults.
type Config struct {
	ProjectName     string
	Env             string
	Addr            string
	AIAddr          string
	JWTSecret       string
	DatabaseURL     string
	RedisURL        string
	PolygonRPCURL   string
	ContractAddress string
	AllowOrigins    string
}

// AccessTokenTTL is the lifetime of issued access tokens.
const AccessTokenTTL = 60 * time.Minute

// BreachDedupWindow is the fixed trailing window during which a repeat breach
// for the same user/geofence pair is suppressed.
const BreachDedupWindow = 5 * time.Minute

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		ProjectName:     getenv("PROJECT_NAME", "trailguard"),
		Env:             getenv("ENV", "dev"),
		Addr:            getenv("ADDR", ":8080"),
		AIAddr:          getenv("AI_ADDR", ":8090"),
		JWTSecret:       getenv("JWT_SECRET", "change_me"),
		DatabaseURL:     getenv("DATABASE_URL", "postgres://postgres:postgres@db:5432/safety?sslmode=disable"),
		RedisURL:        getenv("REDIS_URL", "redis://redis:6379/0"),
		PolygonRPCURL:   getenv("POLYGON_RPC_URL", "https://rpc-amoy.polygon.technology"),
		ContractAddress: getenv("CONTRACT_ADDRESS", ""),
		AllowOrigins:    getenv("ALLOW_ORIGINS", "*"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
