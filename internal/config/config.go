package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBDSN     string
	MediaDir  string
	LogFile   string
	JWTSecret string
	RedisAddr string // empty disables the product cache
	RedisDB   int
}

func Load() Config {
	// Best-effort: a missing .env is fine in containers/CI.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "gemlight.db"
	} // sqlite file in project root
	media := os.Getenv("MEDIA_DIR")
	if media == "" {
		media = "./web/media"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./gemlight.log"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-only-change-me"
		log.Printf("[config] JWT_SECRET not set; using insecure dev default")
	}
	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	cfg := Config{
		Port:      port,
		DBDSN:     dsn,
		MediaDir:  media,
		LogFile:   logFile,
		JWTSecret: secret,
		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisDB:   redisDB,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s REDIS=%q", cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.RedisAddr)
	return cfg
}
