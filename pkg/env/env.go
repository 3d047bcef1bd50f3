package env

import (
	"os"

	"github.com/jaywantadh/midasclient/pkg/logging"
	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file from the working directory, if there is one.
// Variables already present in the environment win.
func LoadEnv() {
	err := godotenv.Load()

	if err != nil {
		logging.Log.Debug("no .env file found, using system envs")
	}
}

func GetEnv(key string, fallback string) string {
	if value, exist := os.LookupEnv(key); exist {
		return value
	}
	return fallback
}
