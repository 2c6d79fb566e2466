package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is everything the server reads from the environment.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	StoreDriver string // excel | mysql | redis
	ExcelPath   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string

	FileStoreDriver string // local | remote
	UploadDir       string
	UploadBaseURL   string
	FileStoreURL    string
	FileStoreToken  string

	CORSOrigins  []string
	DefaultRooms []string
}

// LoadDotEnv reads .env if present. Returns false when there was nothing to load.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

// Load reads the config from the process environment.
func Load() Config {
	return Config{
		Port:      EnvOrDefault("PORT", "8080"),
		LogLevel:  EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: EnvOrDefault("LOG_FORMAT", "json"),

		StoreDriver: strings.ToLower(EnvOrDefault("STORE_DRIVER", "excel")),
		ExcelPath:   EnvOrDefault("EXCEL_PATH", "data/lodge.xlsx"),

		RedisAddr:     EnvOrDefault("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
		RedisKey:      EnvOrDefault("REDIS_KEY", "lodge:snapshot"),

		FileStoreDriver: strings.ToLower(EnvOrDefault("FILESTORE_DRIVER", "local")),
		UploadDir:       EnvOrDefault("UPLOAD_DIR", "uploads"),
		UploadBaseURL:   EnvOrDefault("UPLOAD_BASE_URL", "/uploads"),
		FileStoreURL:    os.Getenv("FILESTORE_URL"),
		FileStoreToken:  os.Getenv("FILESTORE_TOKEN"),

		CORSOrigins:  SplitList(EnvOrDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		DefaultRooms: SplitList(os.Getenv("DEFAULT_ROOMS")),
	}
}

func EnvOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(EnvOrDefault(key, ""))
	if err != nil {
		return def
	}
	return v
}

// SplitList splits a comma separated env value, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
