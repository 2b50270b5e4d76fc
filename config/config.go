package config

import (
	"os"
	"strconv"
)

type Config struct {
	RedisURI string
	MongoURI string
	MongoDB  string
	HTTPPort string

	// Store selects the document-store backend: "redis" or "memory".
	Store string

	// Source selects the question source: "static" or "sampled".
	// A sampled source reads the catalog named by Catalog: "store" (the
	// document store paths) or "mongo".
	Source  string
	Catalog string

	// MatchSize is how many questions a sampled match requests.
	MatchSize int
}

func Load() *Config {
	return &Config{
		RedisURI:  getEnv("REDIS_URI", "localhost:6379"),
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "starquiz"),
		HTTPPort:  getEnv("PORT", "8080"),
		Store:     getEnv("STORE", "redis"),
		Source:    getEnv("QUESTION_SOURCE", "static"),
		Catalog:   getEnv("QUESTION_CATALOG", "store"),
		MatchSize: getEnvInt("MATCH_SIZE", 10),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}
