package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Leads     LeadsConfig
	Dashboard DashboardConfig
	Team      TeamConfig
	Jobs      JobsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// LeadsConfig holds the lead lifecycle rules
type LeadsConfig struct {
	RequireCompany      bool
	ClearFollowUpOnExit bool
	FollowUpWindow      time.Duration
	StoreTimeout        time.Duration
	TransitionPolicy    string
}

// DashboardConfig holds dashboard view settings
type DashboardConfig struct {
	FollowUpLimit int
}

// TeamConfig holds team member settings
type TeamConfig struct {
	DeletePolicy string
}

// JobsConfig holds background job schedules
type JobsConfig struct {
	CacheRefreshSpec string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "leadflow"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		Leads: LeadsConfig{
			RequireCompany:      getEnvAsBool("LEADS_REQUIRE_COMPANY", false),
			ClearFollowUpOnExit: getEnvAsBool("LEADS_CLEAR_FOLLOW_UP", true),
			FollowUpWindow:      getEnvAsDuration("LEADS_FOLLOW_UP_WINDOW", 7*24*time.Hour),
			StoreTimeout:        getEnvAsDuration("LEADS_STORE_TIMEOUT", 15*time.Second),
			TransitionPolicy:    getEnv("LEADS_TRANSITION_POLICY", "permissive"),
		},
		Dashboard: DashboardConfig{
			FollowUpLimit: getEnvAsInt("DASHBOARD_FOLLOW_UP_LIMIT", 5),
		},
		Team: TeamConfig{
			DeletePolicy: getEnv("TEAM_DELETE_POLICY", "nullify"),
		},
		Jobs: JobsConfig{
			CacheRefreshSpec: getEnv("JOBS_CACHE_REFRESH_SPEC", "@every 1m"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
