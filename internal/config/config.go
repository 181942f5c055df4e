package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	ServerPort int

	DatabaseURL string

	JWTSecret []byte

	AdminUsername string
	AdminPassword string

	UploadDir string

	ESURL      string
	ESUser     string
	ESPassword string

	KafkaBrokers []string

	LogLevel string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		ServerPort:    EnvIntDefault("SERVER_PORT", 5001),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     []byte(EnvDefault("JWT_SECRET", "change-me-in-production")),
		AdminUsername: EnvDefault("ADMIN_USERNAME", "admin"),
		AdminPassword: EnvDefault("ADMIN_PASSWORD", "admin"),
		UploadDir:     EnvDefault("UPLOAD_DIR", "uploads"),
		ESURL:         os.Getenv("ES_URL"),
		ESUser:        os.Getenv("ES_USER"),
		ESPassword:    os.Getenv("ES_PASSWORD"),
		KafkaBrokers:  CSV(os.Getenv("KAFKA_BROKERS")),
		LogLevel:      EnvDefault("LOG_LEVEL", "info"),
	}

	return config, nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
