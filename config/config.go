package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"growth-hub/models"
)

// Scraper fetch modes.
const (
	ScraperModeHTTP    = "http"
	ScraperModeBrowser = "browser"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxConcurrency     int
	RateLimitMs        int
	MaxRetries         int
	ListingsPerQuery   int
	QueriesPerPlatform int
	ScraperMode        string
	ChromeBin          string
	SimulationSeed     int64

	Platforms []models.Platform

	CSVOutputPath    string
	HTTPAddr         string
	AnalysisSchedule string
	LogLevel         string

	BusinessName        string
	BusinessDescription string
	BusinessIndustry    string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "growth"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "growth123"),
		PostgresDB:       getEnv("POSTGRES_DB", "growth_hub"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxConcurrency:     getEnvInt("MAX_CONCURRENCY", 2),
		RateLimitMs:        getEnvInt("RATE_LIMIT_MS", 2000),
		MaxRetries:         getEnvInt("MAX_RETRIES", 3),
		ListingsPerQuery:   getEnvInt("LISTINGS_PER_QUERY", 10),
		QueriesPerPlatform: getEnvInt("QUERIES_PER_PLATFORM", 2),
		ScraperMode:        strings.ToLower(getEnv("SCRAPER_MODE", ScraperModeHTTP)),
		ChromeBin:          getEnv("CHROME_BIN", ""),
		SimulationSeed:     int64(getEnvInt("SIMULATION_SEED", 0)),

		Platforms: parsePlatforms(getEnv("PLATFORMS", "amazon,flipkart,instagram,youtube")),

		CSVOutputPath:    getEnv("CSV_OUTPUT_PATH", "./output/raw_listings.csv"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		AnalysisSchedule: getEnv("ANALYSIS_SCHEDULE", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),

		BusinessName:        getEnv("BUSINESS_NAME", ""),
		BusinessDescription: getEnv("BUSINESS_DESCRIPTION", ""),
		BusinessIndustry:    getEnv("BUSINESS_INDUSTRY", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// parsePlatforms splits a comma list, dropping blanks and repeats. Unknown
// names are kept; they are scored with default weights.
func parsePlatforms(s string) []models.Platform {
	var out []models.Platform
	seen := make(map[models.Platform]struct{})
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, _ := models.ParsePlatform(part)
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
