package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Database struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

// DSN returns the libpq style connection string understood by the gorm
// postgres driver.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type Config struct {
	Port            string
	Env             string
	DB              Database
	RedisAddr       string
	KafkaBroker     string
	JWTSecret       string
	RBACModelPath   string
	LeavePolicyFile string
	HRAPIBaseURL    string
	HRAPIToken      string
	HRAPITimeout    time.Duration
	ConnectRetries  int
}

// Load reads configuration from the process environment. Call
// godotenv.Load() first when a .env file should be honoured.
func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "3000"),
		Env:  getEnv("APP_ENV", "development"),
		DB: Database{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "hrdash"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker:     getEnv("KAFKA_BROKER", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		RBACModelPath:   getEnv("RBAC_MODEL_PATH", ""),
		LeavePolicyFile: getEnv("LEAVE_POLICY_FILE", ""),
		HRAPIBaseURL:    strings.TrimRight(getEnv("HRAPI_BASE_URL", "http://localhost:3000/api/v1"), "/"),
		HRAPIToken:      getEnv("HRAPI_TOKEN", ""),
		HRAPITimeout:    getDuration("HRAPI_TIMEOUT", 10*time.Second),
		ConnectRetries:  getInt("CONNECT_RETRIES", 5),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
