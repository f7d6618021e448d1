package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBDSN     string
	JWTSecret string
	JWTTTL    time.Duration
	LogFile   string
	Env       string
}

func Load() Config {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "storefront.db" // sqlite file in project root
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-only-secret"
		log.Println("[config] JWT_SECRET not set, using insecure dev default")
	}
	ttl := 24 * time.Hour
	if v := os.Getenv("JWT_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = time.Duration(n) * time.Minute
		}
	}
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	cfg := Config{
		Port:      port,
		DBDSN:     dsn,
		JWTSecret: secret,
		JWTTTL:    ttl,
		LogFile:   os.Getenv("LOG_FILE"),
		Env:       env,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s APP_ENV=%s", cfg.Port, cfg.DBDSN, cfg.Env)
	return cfg
}
