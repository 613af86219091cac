package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress string

	FirebaseProjectID string
	CredentialsFile   string
	StorageBucket     string

	// FunctionsWorkerURL is where the server reaches the remote procedures
	// (notification dispatch, committee count updates). Empty disables the
	// fire-and-forget calls, e.g. under the emulator.
	FunctionsWorkerURL string

	// DevJWTSecret enables the local-dev bearer auth path when set; production
	// deployments leave it empty and require Firebase ID tokens.
	DevJWTSecret  string
	JWTExpiration time.Duration

	DataDir         string
	MaxUploadSizeMB int64
}

func Load() *Config {
	// Use only in dev; deployed environments set real env vars.
	_ = godotenv.Load()

	return &Config{
		ServerAddress:      getEnv("SERVER_ADDRESS", ":8080"),
		FirebaseProjectID:  getEnv("FIREBASE_PROJECT_ID", ""),
		CredentialsFile:    getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		StorageBucket:      getEnv("FIREBASE_STORAGE_BUCKET", ""),
		FunctionsWorkerURL: getEnv("FUNCTIONS_WORKER_URL", ""),
		DevJWTSecret:       getEnv("DEV_JWT_SECRET", ""),
		JWTExpiration:      time.Duration(getEnvInt64("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
		DataDir:            getEnv("DATA_DIR", "./data"),
		MaxUploadSizeMB:    getEnvInt64("MAX_UPLOAD_SIZE_MB", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
