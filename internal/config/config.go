package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	WSURL          string
	DefaultTableID string
	AuthToken      string
	DisplayNames   []string // one session per name; empty means use the saved preference
	HTTPAddr       string
	PrefsPath      string
	LogLevel       string
	LogDev         bool
	TerminalView   bool
}

// Load reads .env (if present) and then the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) Config {
	return Config{
		WSURL:          def(getenv("WS_URL"), "ws://localhost:8000/ws"),
		DefaultTableID: def(getenv("DEFAULT_TABLE_ID"), "table_1"),
		AuthToken:      def(getenv("AUTH_TOKEN"), "dev"),
		DisplayNames:   splitList(getenv("DISPLAY_NAMES")),
		HTTPAddr:       def(getenv("HTTP_ADDR"), ":8080"),
		PrefsPath:      def(getenv("PREFS_PATH"), "holdem_client.db"),
		LogLevel:       def(getenv("LOG_LEVEL"), "info"),
		LogDev:         asBool(getenv("LOG_DEV")),
		TerminalView:   asBoolDef(getenv("TERMINAL_VIEW"), true),
	}
}

func def(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func asBool(v string) bool {
	return asBoolDef(v, false)
}

func asBoolDef(v string, fallback bool) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
