package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         string
	DBDSN        string
	LogFile      string
	AllowDemo    bool
	StoreTimeout time.Duration
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "astranode.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./astranode.log" // default log sink in project root
	}

	// Demo mode bypasses signature checks; disable in production deploys.
	allowDemo := true
	if v := os.Getenv("ALLOW_DEMO"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			allowDemo = b
		}
	}

	timeoutMs := 5000
	if v := os.Getenv("STORE_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeoutMs = n
		}
	}

	cfg := Config{
		Port:         port,
		DBDSN:        dsn,
		LogFile:      logFile,
		AllowDemo:    allowDemo,
		StoreTimeout: time.Duration(timeoutMs) * time.Millisecond,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s ALLOW_DEMO=%v STORE_TIMEOUT=%s",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.AllowDemo, cfg.StoreTimeout)
	return cfg
}
