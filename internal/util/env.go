package util

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnv returns the value of the environment variable key or defaultVal if unset.
func GetEnv(key string, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}

	return defaultVal
}

// GetEnvAsInt returns the environment variable key parsed as int or defaultVal.
func GetEnvAsInt(key string, defaultVal int) int {
	strVal := GetEnv(key, "")

	if val, err := strconv.Atoi(strVal); err == nil {
		return val
	}

	return defaultVal
}

// GetEnvAsUint32 returns the environment variable key parsed as uint32 or defaultVal.
func GetEnvAsUint32(key string, defaultVal uint32) uint32 {
	strVal := GetEnv(key, "")

	if val, err := strconv.ParseUint(strVal, 10, 32); err == nil {
		return uint32(val)
	}

	return defaultVal
}

// GetEnvAsUint64 returns the environment variable key parsed as uint64 or defaultVal.
func GetEnvAsUint64(key string, defaultVal uint64) uint64 {
	strVal := GetEnv(key, "")

	if val, err := strconv.ParseUint(strVal, 10, 64); err == nil {
		return val
	}

	return defaultVal
}

// GetEnvAsBool returns the environment variable key parsed as bool or defaultVal.
func GetEnvAsBool(key string, defaultVal bool) bool {
	strVal := GetEnv(key, "")

	if val, err := strconv.ParseBool(strVal); err == nil {
		return val
	}

	return defaultVal
}

// GetEnvAsDuration returns the environment variable key parsed via time.ParseDuration or defaultVal.
func GetEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	strVal := GetEnv(key, "")

	if val, err := time.ParseDuration(strVal); err == nil {
		return val
	}

	return defaultVal
}

// GetEnvAsStringArr splits the environment variable key by separator, trimming
// whitespace and dropping empty entries. defaultVal is returned if nothing remains.
func GetEnvAsStringArr(key string, defaultVal []string, separator ...string) []string {
	strVal := GetEnv(key, "")
	if len(strVal) == 0 {
		return defaultVal
	}

	sep := ","
	if len(separator) >= 1 {
		sep = separator[0]
	}

	parts := strings.Split(strVal, sep)
	res := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			res = append(res, part)
		}
	}

	if len(res) == 0 {
		return defaultVal
	}

	return res
}
