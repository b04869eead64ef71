package env

import (
	"os"
	"strconv"
	"time"
)

const (
	ListenAddr      = "COLLAB_LISTEN_ADDR"
	RoomAutoCreate  = "ROOM_AUTO_CREATE"
	SessionTTL      = "SESSION_TTL"
	OutboxRedisURL  = "OUTBOX_REDIS_URL"
	OutboxRedisPass = "OUTBOX_REDIS_PASS"
	WebUrl          = "WEB_URL"
)

func Get(key string) string {
	return os.Getenv(key)
}

func GetOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func MustGet(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("env: required environment variable not set: " + key)
	}
	return val
}

func GetBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

func GetDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}
