package environments

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Evolution EvolutionConfig
	Dispatch  DispatchConfig
	Auth      AuthConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type EvolutionConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

type DispatchConfig struct {
	BatchSize          int
	PollInterval       time.Duration
	DefaultCountryCode string
}

type AuthConfig struct {
	AdminAPIKey string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: GetEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     GetEnv("DB_HOST", "localhost"),
			Port:     GetEnv("DB_PORT", "3306"),
			User:     GetEnv("DB_USER", "zapstatus"),
			Password: GetEnv("DB_PASSWORD", "zapstatus123"),
			DBName:   GetEnv("DB_NAME", "zapstatus"),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetEnvAsInt("REDIS_DB", 0),
		},
		Evolution: EvolutionConfig{
			URL:     GetEnv("EVOLUTION_URL", "http://localhost:8081"),
			APIKey:  GetEnv("EVOLUTION_API_KEY", ""),
			Timeout: time.Duration(GetEnvAsInt("EVOLUTION_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Dispatch: DispatchConfig{
			BatchSize:          GetEnvAsInt("DISPATCH_BATCH_SIZE", 50),
			PollInterval:       time.Duration(GetEnvAsInt("DISPATCH_INTERVAL_MINUTES", 1)) * time.Minute,
			DefaultCountryCode: GetEnv("DEFAULT_COUNTRY_CODE", "55"),
		},
		Auth: AuthConfig{
			AdminAPIKey: GetEnv("ADMIN_API_KEY", ""),
		},
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
