package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr      string
	RoomGrace     time.Duration
	AllowedOrigin string
	LogLevel      string
	LogFormat     string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func Load() Config {
	return Config{
		HTTPAddr:      getenv("HTTP_ADDR", ":3001"),
		RoomGrace:     time.Duration(getenvInt("ROOM_GRACE_SECONDS", 60)) * time.Second,
		AllowedOrigin: getenv("ALLOWED_ORIGIN", ""),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFormat:     getenv("LOG_FORMAT", "console"),
	}
}
