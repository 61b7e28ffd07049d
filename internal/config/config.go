package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/iamasit07/reversi/backend/internal/domain"
	"github.com/iamasit07/reversi/backend/internal/service/bot"
)

type Config struct {
	Port                 string
	AllowedOrigins       []string
	FrontendURL          string
	EngineMaxDepth       int
	EngineRegion         string
	DefaultDifficulty    string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisURL             string
	RedisPassword        string
	MoveCacheTTL         time.Duration
	JWTSecret            string
	RequireAuth          bool
	SessionIdleTimeout   time.Duration
	CleanupInterval      time.Duration
}

var AppConfig *Config

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// The frontend is always an allowed origin.
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOrigins := append([]string{frontendURL}, splitList(GetEnv("ALLOWED_ORIGINS", ""))...)

	// Engine
	maxDepth := GetEnvAsInt("ENGINE_MAX_DEPTH", bot.DEFAULT_DEPTH)
	region := GetEnv("ENGINE_REGION", domain.RegionFull.String())
	difficulty := GetEnv("DEFAULT_DIFFICULTY", bot.DifficultyHard)

	// Database Config
	dbURL := GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", ""))
	dbMaxOpenConns := GetEnvAsInt("DB_MAX_OPEN_CONNS", 25)
	dbMaxIdleConns := GetEnvAsInt("DB_MAX_IDLE_CONNS", 25)
	dbConnMaxLifetimeMin := GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5)

	// Cache
	redisURL := GetEnv("REDIS_URL", "")
	redisPassword := GetEnv("REDIS_PASSWORD", "")
	moveCacheTTLSec := GetEnvAsInt("MOVE_CACHE_TTL_SECONDS", 3600)

	// Security
	jwtSecret := GetEnv("JWT_SECRET", "")
	requireAuth := GetEnvAsBool("REQUIRE_AUTH", false)

	// Sessions
	idleMin := GetEnvAsInt("SESSION_IDLE_TIMEOUT_MINUTES", 30)
	cleanupMin := GetEnvAsInt("CLEANUP_INTERVAL_MINUTES", 5)

	AppConfig = &Config{
		Port:                 port,
		AllowedOrigins:       allowedOrigins,
		FrontendURL:          frontendURL,
		EngineMaxDepth:       maxDepth,
		EngineRegion:         region,
		DefaultDifficulty:    difficulty,
		DatabaseURL:          dbURL,
		DBMaxOpenConns:       dbMaxOpenConns,
		DBMaxIdleConns:       dbMaxIdleConns,
		DBConnMaxLifetimeMin: dbConnMaxLifetimeMin,
		RedisURL:             redisURL,
		RedisPassword:        redisPassword,
		MoveCacheTTL:         time.Duration(moveCacheTTLSec) * time.Second,
		JWTSecret:            jwtSecret,
		RequireAuth:          requireAuth,
		SessionIdleTimeout:   time.Duration(idleMin) * time.Minute,
		CleanupInterval:      time.Duration(cleanupMin) * time.Minute,
	}

	return AppConfig
}

// Validate reports every problem at once instead of stopping at the first.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Port == "" {
		result = multierror.Append(result, fmt.Errorf("PORT must not be empty"))
	}
	if c.EngineMaxDepth < 1 || c.EngineMaxDepth > bot.MAX_DEPTH {
		result = multierror.Append(result, fmt.Errorf("ENGINE_MAX_DEPTH must be between 1 and %d, got %d", bot.MAX_DEPTH, c.EngineMaxDepth))
	}
	if c.EngineRegion != domain.RegionFull.String() && c.EngineRegion != domain.RegionInterior.String() {
		result = multierror.Append(result, fmt.Errorf("ENGINE_REGION must be %q or %q, got %q", domain.RegionFull, domain.RegionInterior, c.EngineRegion))
	}
	if !bot.IsValidDifficulty(c.DefaultDifficulty) {
		result = multierror.Append(result, fmt.Errorf("DEFAULT_DIFFICULTY %q is not easy, medium or hard", c.DefaultDifficulty))
	}
	if c.MoveCacheTTL < 0 {
		result = multierror.Append(result, fmt.Errorf("MOVE_CACHE_TTL_SECONDS must not be negative"))
	}
	if c.RequireAuth && c.JWTSecret == "" {
		result = multierror.Append(result, fmt.Errorf("REQUIRE_AUTH is set but JWT_SECRET is empty"))
	}
	if c.SessionIdleTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("SESSION_IDLE_TIMEOUT_MINUTES must be positive"))
	}
	if c.CleanupInterval <= 0 {
		result = multierror.Append(result, fmt.Errorf("CLEANUP_INTERVAL_MINUTES must be positive"))
	}

	return result.ErrorOrNil()
}

// EngineConfig turns the environment settings into the search configuration.
func (c *Config) EngineConfig() bot.Config {
	cfg := bot.DefaultConfig()
	cfg.MaxDepth = c.EngineMaxDepth
	cfg.Rules = domain.Rules{Region: domain.ParseRegion(c.EngineRegion)}
	return cfg
}

func GetEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	return getEnvParsed(key, defaultValue, strconv.Atoi)
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	return getEnvParsed(key, defaultValue, strconv.ParseBool)
}

// getEnvParsed falls back to defaultValue, with a log line, when the variable
// is set but does not parse.
func getEnvParsed[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	raw := GetEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := parse(raw)
	if err != nil {
		log.Printf("[CONFIG] %s=%q is invalid, using default %v", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

// splitList parses a comma separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
