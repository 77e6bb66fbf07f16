package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  Server
	Store   Store
	Auth    Auth
	Redis   Redis
	Scraper Scraper
}

type Server struct {
	Port int
}

type Store struct {
	Path string
}

type Auth struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

type Redis struct {
	Addr              string
	Password          string
	DB                int
	Stream            string
	RelayPollInterval time.Duration
	RelayBatchSize    int
}

type Scraper struct {
	FetchTimeoutSeconds int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: Server{
			Port: getEnvInt("PORT", 8080),
		},
		Store: Store{
			Path: getEnv("STORE_PATH", "amzone.json"),
		},
		Auth: Auth{
			JWTSecret:     getEnv("JWT_SECRET", "amzone-secret"),
			TokenTTL:      time.Duration(getEnvInt("TOKEN_TTL_HOURS", 168)) * time.Hour,
			AdminName:     getEnv("ADMIN_NAME", "Adarsh Sukumar"),
			AdminEmail:    getEnv("ADMIN_EMAIL", "adarsh@amzone.com"),
			AdminPassword: getEnv("ADMIN_PASSWORD", "password123"),
		},
		Redis: Redis{
			Addr:              getEnv("REDIS_ADDR", "localhost:6379"),
			Password:          getEnv("REDIS_PASSWORD", ""),
			DB:                getEnvInt("REDIS_DB", 0),
			Stream:            getEnv("REDIS_STREAM", "stream:catalog_events"),
			RelayPollInterval: time.Duration(getEnvInt("RELAY_POLL_SECONDS", 5)) * time.Second,
			RelayBatchSize:    getEnvInt("RELAY_BATCH_SIZE", 100),
		},
		Scraper: Scraper{
			FetchTimeoutSeconds: getEnvInt("SCRAPER_TIMEOUT", 30),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Store.Path == "" {
		return fmt.Errorf("store path is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required")
	}

	if c.Auth.AdminEmail == "" {
		return fmt.Errorf("admin email is required")
	}

	if c.Scraper.FetchTimeoutSeconds < 1 {
		return fmt.Errorf("scraper timeout must be at least 1 second")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
