package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	GroqAPIKey string
	GroqModel  string

	GoogleAPIKey string
	GeminiModel  string

	PineconeAPIKey string
	PineconeIndex  string
	PineconeHost   string

	DatabaseURL string

	// Retriever selects the retrieval backend: pinecone, pgvector or none.
	Retriever string

	// ProviderTimeout bounds each provider and retrieval call.
	ProviderTimeout time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		GroqAPIKey: getEnv("GROQ_API_KEY", ""),
		GroqModel:  getEnv("GROQ_MODEL", ""),

		GoogleAPIKey: getEnv("GOOGLE_API_KEY", getEnv("GEMINI_API_KEY", "")),
		GeminiModel:  getEnv("GEMINI_MODEL", ""),

		PineconeAPIKey: getEnv("PINECONE_API_KEY", ""),
		PineconeIndex:  getEnv("PINECONE_INDEX", "medical-chatbot"),
		PineconeHost:   getEnv("PINECONE_HOST", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		Retriever: getEnv("RETRIEVER", "pinecone"),

		ProviderTimeout: time.Duration(getEnvInt("PROVIDER_TIMEOUT", 20)) * time.Second,
	}

	return cfg
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
