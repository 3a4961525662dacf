package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret  string
	ServerPort string
	Mode       string

	// External assistant (answer fetcher)
	AssistantURL       string
	AssistantProjectID string
	AssistantAgentRef  string
	AssistantAgentName string
	AssistantThreadID  string
	AssistantTimeout   time.Duration

	// How often the scheduler loop checks for due session advances.
	SchedulerTick time.Duration

	LogFile string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "conf"),

		JWTSecret:  getEnv("JWT_SECRET", "super-secret-key-change-me"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		Mode:       getEnv("GIN_MODE", "debug"),

		AssistantURL:       getEnv("ASSISTANT_URL", ""),
		AssistantProjectID: getEnv("ASSISTANT_PROJECT_ID", ""),
		AssistantAgentRef:  getEnv("ASSISTANT_AGENT_REF", ""),
		AssistantAgentName: getEnv("ASSISTANT_AGENT_NAME", "Sarah"),
		AssistantThreadID:  getEnv("ASSISTANT_THREAD_ID", "conf"),
		AssistantTimeout:   getEnvInt("ASSISTANT_TIMEOUT_SEC", 60) * time.Second,

		SchedulerTick: getEnvInt("SCHEDULER_TICK_MS", 250) * time.Millisecond,

		LogFile: getEnv("LOG_FILE", "logs/app.log"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) time.Duration {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(fallback)
}
