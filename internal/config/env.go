package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

type Config struct {
	// Telegram
	TelegramAPIID    int
	TelegramAPIHash  string
	TelegramBotToken string
	SessionPath      string

	// Gemini
	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration

	// Persistence: memory | file | sqlite | firestore
	StoreBackend        string
	StoreFilePath       string
	DBPath              string
	FirestoreProject    string
	FirestoreCredsFile  string

	// Birthday scan
	ScanInterval     time.Duration
	ScanInitialDelay time.Duration

	// Dispatcher
	WorkerCount int
}

func LoadFromEnv() *Config {
	cfg := &Config{
		TelegramAPIID:    getEnvAsIntOrDefault("JEEVES_TELEGRAM_API_ID", 0),
		TelegramAPIHash:  os.Getenv("JEEVES_TELEGRAM_API_HASH"),
		TelegramBotToken: os.Getenv("JEEVES_TELEGRAM_BOT_TOKEN"),
		SessionPath:      getEnvOrDefault("JEEVES_SESSION_PATH", "./telegram.session"),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnvOrDefault("JEEVES_GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiTimeout: getEnvAsDurationOrDefault("JEEVES_GEMINI_TIMEOUT", 30*time.Second),

		StoreBackend:       getEnvOrDefault("JEEVES_STORE_BACKEND", "memory"),
		StoreFilePath:      getEnvOrDefault("JEEVES_STORE_FILE", "./jeeves.json"),
		DBPath:             getEnvOrDefault("JEEVES_DB_PATH", "./jeeves.db"),
		FirestoreProject:   os.Getenv("JEEVES_FIRESTORE_PROJECT"),
		FirestoreCredsFile: os.Getenv("JEEVES_FIRESTORE_CREDENTIALS_FILE"),

		ScanInterval:     getEnvAsDurationOrDefault("JEEVES_BIRTHDAY_SCAN_INTERVAL", 24*time.Hour),
		ScanInitialDelay: getEnvAsDurationOrDefault("JEEVES_BIRTHDAY_SCAN_DELAY", 10*time.Second),

		WorkerCount: getEnvAsIntOrDefault("JEEVES_WORKER_COUNT", 2),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
