package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	AppPort string
	DBPath  string
}

// Load reads configuration from the environment with reasonable defaults.
// A .env file in the working directory is loaded first if present.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "site.db"
	}

	return Config{AppPort: port, DBPath: dbPath}
}
