package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything the process reads from the environment.
type Config struct {
	Env            string // development | production | test
	Port           string
	DatabaseDSN    string
	JWTSecret      string
	GoogleClientID string
	UploadBase     string
	ImportDir      string // optional CSV drop folder; empty disables the watcher
	ImportAccount  string // account email the watcher imports into
	AutoMigrate    bool
}

// loadConfig reads ./.env (if present) and then the environment. Development
// defaults keep local startup friction low; production refuses to run on the
// fallback JWT secret.
func loadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:            getenv("APP_ENV", "development"),
		Port:           getenv("PORT", "8081"),
		DatabaseDSN:    os.Getenv("DB_DSN"),
		JWTSecret:      getenv("JWT_SECRET", "dev-insecure-secret-change"),
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		UploadBase:     getenv("UPLOAD_BASE", "uploads"),
		ImportDir:      os.Getenv("IMPORT_DIR"),
		ImportAccount:  os.Getenv("IMPORT_ACCOUNT"),
		AutoMigrate:    getenv("DB_AUTO_MIGRATE", "true") != "false",
	}

	if cfg.DatabaseDSN == "" {
		return Config{}, fmt.Errorf("DB_DSN is not set; a Postgres DSN is required")
	}
	if cfg.Env == "production" && cfg.JWTSecret == "dev-insecure-secret-change" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set in production")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
