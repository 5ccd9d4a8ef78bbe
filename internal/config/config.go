package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	DBDSN   string
	LogFile string
}

func Load() Config {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "simplestore.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./simplestore.log"
	}

	cfg := Config{Port: port, DBDSN: dsn, LogFile: logFile}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.LogFile)
	return cfg
}
