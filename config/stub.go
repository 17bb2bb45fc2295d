package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// StubConfig configures the development stub server. It is read from the
// environment only.
type StubConfig struct {
	Postgres    PostgresConfig
	HTTP        HTTPConfig
	Auth        AuthConfig
	StorageType string
	Seed        bool
	LiveBuffer  int
}

type PostgresConfig struct {
	User     string
	Password string
	DB       string
	Host     string
	Port     int
	SSLMode  string
}

func (pc PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.User,
		pc.Password,
		pc.Host,
		pc.Port,
		pc.DB,
		pc.SSLMode,
	)
}

type HTTPConfig struct {
	Port string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

func LoadStubConfig() StubConfig {
	loadDotEnv()

	storageType := getEnv("STORAGE_TYPE", "inmemory")

	cfg := StubConfig{
		StorageType: storageType,
		HTTP: HTTPConfig{
			Port: getEnv("HTTP_PORT", "8080"),
		},
		Auth: AuthConfig{
			JWTSecret: mustGetEnv("JWT_SECRET"),
			TokenTTL:  mustGetDuration("JWT_TTL", 24*time.Hour),
		},
		Seed:       getEnv("SEED", "true") == "true",
		LiveBuffer: mustGetInt("LIVE_BUFFER", 64),
	}

	if storageType == "postgres" {
		cfg.Postgres = PostgresConfig{
			User:     mustGetEnv("POSTGRES_USER"),
			Password: mustGetEnv("POSTGRES_PASSWORD"),
			DB:       mustGetEnv("POSTGRES_DB"),
			Host:     mustGetEnv("POSTGRES_HOST"),
			Port:     mustGetInt("POSTGRES_PORT", 5432),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		}
	}

	return cfg
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("missing required env var: " + key)
	}
	return val
}

func mustGetInt(key string, def int) int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		panic("invalid int for env var " + key + ": " + val)
	}
	return i
}

func mustGetDuration(key string, def time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		panic("invalid duration for env var " + key + ": " + val)
	}
	return d
}
