package internal

import (
	"log"
	"os"
)

// Env returns the value of key, or def when unset or empty.
func Env(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// MustEnv returns the value of key and halts the process when it is missing.
// Used for the store endpoints the service cannot run without.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("missing env: %s", key)
	}
	return v
}
