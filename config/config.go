// Package config loads application configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/roldanhc-acho/appdspi/calendar"
)

// Config is everything the process needs at startup.
type Config struct {
	// Port the HTTP server listens on.
	Port int

	// DBPath is the SQLite database path; ":memory:" for throwaway runs.
	DBPath string

	// WorkdayHours is the standard workday length (default 9).
	WorkdayHours calendar.Hours

	// Holidays is the fixed-holiday list for the active year, YYYY-MM-DD.
	// Empty means the built-in default set.
	Holidays []string

	// AllowedOrigins for CORS, comma-separated in the env.
	AllowedOrigins []string

	// Env is the deployment environment label used in log fields.
	Env string
}

// Load reads the environment. A missing .env file is not an error; real
// deployments configure through the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath: getEnv("DB_PATH", "appdspi.db"),
		Env:    getEnv("APP_ENV", "development"),
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	cfg.Port = port

	hours, err := calendar.ParseHours(getEnv("WORKDAY_HOURS", strconv.Itoa(calendar.DefaultWorkdayHours)))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKDAY_HOURS: %w", err)
	}
	if hours.IsNegative() {
		return nil, fmt.Errorf("invalid WORKDAY_HOURS: must be non-negative")
	}
	cfg.WorkdayHours = hours

	if raw := os.Getenv("HOLIDAYS"); raw != "" {
		for _, h := range strings.Split(raw, ",") {
			h = strings.TrimSpace(h)
			if h == "" {
				continue
			}
			if _, err := calendar.ParseDate(h); err != nil {
				return nil, fmt.Errorf("invalid HOLIDAYS entry: %w", err)
			}
			cfg.Holidays = append(cfg.Holidays, h)
		}
	} else {
		cfg.Holidays = calendar.DefaultHolidays()
	}

	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:8080")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg, nil
}

// WorkCalendar builds the immutable calendar the services compute against.
func (c *Config) WorkCalendar() (*calendar.WorkCalendar, error) {
	return calendar.NewWorkCalendar(c.Holidays, c.WorkdayHours)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
