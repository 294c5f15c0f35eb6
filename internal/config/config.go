package config

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port              string
	DBPath            string
	UploadDir         string
	CSRFKey           []byte
	SessionKey        []byte
	CookieDomain      string
	CookieSecure      bool
	AdminPasswordHash []byte
	CheckoutRateWindow time.Duration
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DBPath:       getEnv("DB_PATH", "./ministore.db"),
		UploadDir:    getEnv("UPLOAD_DIR", "static/uploads"),
		CookieDomain: getEnv("COOKIE_DOMAIN", ""),
		CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",
	}

	cfg.CSRFKey = loadKey("CSRF_KEY")
	cfg.SessionKey = loadKey("SESSION_KEY")

	// Admin shared secret. Prefer a bcrypt hash from the environment
	// (generate one with `cli hash-password`); fall back to hashing a
	// plaintext ADMIN_PASSWORD at startup for development.
	if hash := os.Getenv("ADMIN_PASSWORD_HASH"); hash != "" {
		cfg.AdminPasswordHash = []byte(hash)
	} else {
		pw := getEnv("ADMIN_PASSWORD", "admin")
		slog.Warn("ADMIN_PASSWORD_HASH not set. Hashing ADMIN_PASSWORD (default 'admin') at startup. SET ADMIN_PASSWORD_HASH IN PRODUCTION!")
		hashed, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		cfg.AdminPasswordHash = hashed
	}

	windowStr := getEnv("CHECKOUT_RATE_WINDOW", "10s")
	window, err := time.ParseDuration(windowStr)
	if err != nil {
		slog.Error("Invalid CHECKOUT_RATE_WINDOW, falling back to 10s", "value", windowStr)
		window = 10 * time.Second
	}
	cfg.CheckoutRateWindow = window

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", os.Getenv("PORT"))
		cfg.Port = "8080"
	}

	return cfg, nil
}

// loadKey reads a base64-encoded 32-byte key from the environment,
// generating a random development key when absent or invalid.
func loadKey(envVar string) []byte {
	keyStr := os.Getenv(envVar)
	if keyStr == "" {
		slog.Warn(envVar + " environment variable not set. Generating a random key for development. This key will change on each restart. PLEASE SET " + envVar + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	decoded, err := base64.StdEncoding.DecodeString(keyStr)
	if err != nil || len(decoded) < 32 {
		slog.Warn(envVar + " is invalid or too short (min 32 bytes recommended). Generating a random key for development. PLEASE SET A SECURE " + envVar + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	return decoded
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		// Fallback only prevents a panic; never acceptable in production.
		fallbackKey := "fallback-insecure-key-" + strconv.FormatInt(time.Now().UnixNano(), 10)
		if len(fallbackKey) < n {
			paddedKey := make([]byte, n)
			copy(paddedKey, fallbackKey)
			return paddedKey
		}
		return []byte(fallbackKey)[:n]
	}
	return b
}
