package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment. The spreadsheet ID
// and credentials path are checked when the sheets client is built; the
// sheet GID stays a raw string because it is only validated on delete.
type Config struct {
	ListenAddr      string
	SheetName       string
	SpreadsheetID   string
	CredentialsPath string
	SheetGID        string
	DatabasePath    string
	SessionSecret   string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// Load reads the optional .env file and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr:      getEnvWithDefault("LISTEN_ADDR", ":8080"),
		SheetName:       getEnvWithDefault("SHEET_NAME", "Inventory"),
		SpreadsheetID:   os.Getenv("GOOGLE_SPREADSHEET_ID"),
		CredentialsPath: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		SheetGID:        os.Getenv("GOOGLE_SHEET_GID"),
		DatabasePath:    getEnvWithDefault("DATABASE_PATH", "liquorstock.sqlite3"),
		SessionSecret:   getEnvWithDefault("SESSION_SECRET", "insecure-dev-secret"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  getEnvWithDefault("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
