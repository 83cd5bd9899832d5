package config

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL string
	HTTPAddr    string
	LogLevel    string

	CacheVersion string
	CDNBaseURL   string
	SeedFile     string

	TelegramToken         string
	TelegramDebug         bool
	TelegramUpdateTimeout int64
}

var instance *Config
var once sync.Once

// GetConfig загружает конфиг один раз за процесс
func GetConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.Debugf("no .env file loaded: %s", err.Error())
		}
		instance = Load()
	})

	return instance
}

// Load читает конфиг из переменных окружения
func Load() *Config {
	cfg := &Config{}

	cfg.DatabaseURL = getEnv("DATABASE_URL", "attendance.db")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	cfg.CacheVersion = getEnv("CACHE_VERSION", "attendance-static-v1")
	cfg.CDNBaseURL = getEnv("CDN_BASE_URL", "https://cdn.jsdelivr.net")
	cfg.SeedFile = getEnv("SEED_BACKUP_FILE", "")

	// Бот необязателен: без токена работает только веб
	cfg.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	cfg.TelegramDebug = getEnvAsBool("TELEGRAM_DEBUG", false)
	cfg.TelegramUpdateTimeout = getEnvAsInt("TELEGRAM_UPDATE_TIMEOUT", 60)

	return cfg
}

// BotEnabled сообщает, настроен ли Telegram бот
func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return int64(val)
	}

	return defaultVal
}
