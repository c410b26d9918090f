package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"insight-web/pkg/catalog"
)

// Config holds all application configuration values
type Config struct {
	APIURL        string
	Port          string
	SessionSecret string
	SessionMaxAge int
	SecureCookies bool
	CORSOrigins   []string
	PageSize      int
	LeadFormTTL   time.Duration
	HTTPTimeout   time.Duration
	TimeZone      string
	GinMode       string
	Debug         bool
}

// LoadConfig reads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		APIURL:        envOrDefault("API_URL", "http://localhost:8000"),
		Port:          envOrDefault("PORT", "4000"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionMaxAge: envInt("SESSION_MAX_AGE", 24*60*60),
		SecureCookies: envBool("SECURE_COOKIES", false),
		CORSOrigins:   envList("CORS_ORIGINS", "https://24int.ru,http://24int.ru,http://localhost:4000"),
		PageSize:      envInt("PAGE_SIZE", catalog.DefaultPageSize),
		LeadFormTTL:   envDuration("LEAD_FORM_TTL", 30*time.Minute),
		HTTPTimeout:   envDuration("HTTP_TIMEOUT", 10*time.Second),
		TimeZone:      envOrDefault("TZ_DISPLAY", "Europe/Moscow"),
		GinMode:       envOrDefault("GIN_MODE", "release"),
		Debug:         envBool("DEBUG", false),
	}
}

// Location resolves TimeZone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	parsed, err := strconv.Atoi(envOrDefault(key, ""))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	parsed, err := strconv.ParseBool(envOrDefault(key, ""))
	if err != nil {
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	parsed, err := time.ParseDuration(envOrDefault(key, ""))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envList(key, fallback string) []string {
	var out []string
	for _, item := range strings.Split(envOrDefault(key, fallback), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
