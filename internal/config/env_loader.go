package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads environment variables from a .env file.
// If envFile is empty, it attempts to load .env from the current
// directory. Returns true if a file was loaded, false otherwise.
// Variables already set in the environment keep precedence, as
// godotenv never overwrites existing values.
func LoadEnvFile(envFile string) bool {
	if envFile == "" {
		envFile = ".env"
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return false
	}

	if err := godotenv.Load(envFile); err != nil {
		return false
	}

	return true
}
