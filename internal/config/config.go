package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string // empty disables auth; all requests share one session

	PhotonURL    string
	NominatimURL string

	// Per-IP rate limit for the geocode proxy (upstream usage policies)
	GeocodeRate   int
	GeocodeWindow time.Duration
}

// Load reads configuration from the environment, after a best-effort
// .env load for local development.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", ":8080"),
		DBPath:        getEnv("DB_PATH", "./data/journeys.db"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		PhotonURL:     getEnv("PHOTON_URL", ""),
		NominatimURL:  getEnv("NOMINATIM_URL", ""),
		GeocodeRate:   getEnvInt("GEOCODE_RATE", 30),
		GeocodeWindow: time.Duration(getEnvInt("GEOCODE_WINDOW_SECONDS", 60)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
