package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// DB
	Env    string // "dev" | "prod"
	DBPath string // e.g. "./data/attendkiosk.db"

	// Scanning loop
	PollInterval time.Duration // one capture frame per interval

	// Operator HTTP surface
	HTTPAddr string

	// Export
	ExportSink        string // "csv" | "sheets"
	ExportDir         string // csv sink output directory
	SheetsCredsFile   string // service-account JSON for the sheets sink
	SheetsSpreadsheet string // spreadsheet file ID
	ExportTimeout     time.Duration

	// Logging
	LogLevel string
	LogDev   bool
}

func FromEnv() Config {
	env := strings.ToLower(getenvDefault("KIOSK_ENV", "dev"))
	if env != "dev" && env != "prod" {
		// fail-soft: treat unknown as dev
		env = "dev"
	}

	pollMs := getenvInt("KIOSK_POLL_INTERVAL_MS", 50)
	if pollMs <= 0 {
		pollMs = 50
	}

	export := strings.ToLower(getenvDefault("KIOSK_EXPORT_SINK", "csv"))
	if export != "csv" && export != "sheets" {
		export = "csv"
	}

	timeoutS := getenvInt("KIOSK_EXPORT_TIMEOUT_S", 30)
	if timeoutS <= 0 {
		timeoutS = 30
	}

	return Config{
		Env:    env,
		DBPath: getenvDefault("KIOSK_DB_PATH", "./data/attendkiosk.db"),

		PollInterval: time.Duration(pollMs) * time.Millisecond,

		HTTPAddr: getenvDefault("KIOSK_HTTP_ADDR", "127.0.0.1:8090"),

		ExportSink:        export,
		ExportDir:         getenvDefault("KIOSK_EXPORT_DIR", "./data/exports"),
		SheetsCredsFile:   os.Getenv("KIOSK_SHEETS_CREDENTIALS_FILE"),
		SheetsSpreadsheet: os.Getenv("KIOSK_SHEETS_SPREADSHEET_ID"),
		ExportTimeout:     time.Duration(timeoutS) * time.Second,

		LogLevel: getenvDefault("KIOSK_LOG_LEVEL", "info"),
		LogDev:   env == "dev",
	}
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
