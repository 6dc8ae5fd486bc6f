package config

import (
	"os"
	"strconv"
	"strings"
)

// Config centralizes runtime settings for the API. It is constructed once
// at startup and passed by reference; nothing reads ambient environment
// state during request handling.
type Config struct {
	Port string

	AuthToken string

	DatabaseURL string

	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAITimeoutMS  int
	OpenAIMaxRetries int
	OpenAIModel      string
	ChatMaxTokens    int
	ChatTemperature  float64

	RemotiveBaseURL  string
	AdzunaBaseURL    string
	AdzunaAppID      string
	AdzunaAppKey     string
	AdzunaCountry    string
	ArbeitnowBaseURL string

	ProviderTimeoutMS   int
	SearchDefaultLimit  int
	SimilarDefaultLimit int

	SuggestionPerTermLimit int
	SuggestionCap          int
	SuggestionSource       string

	ResultsCacheTTLSeconds int
	ResultsCacheMaxEntries int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitRPS       float64
	RateLimitBurst     int
	CORSAllowedOrigins []string
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8000"),

		AuthToken: getEnv("API_AUTH_TOKEN", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAITimeoutMS:  getEnvInt("OPENAI_TIMEOUT_MS", 15000),
		OpenAIMaxRetries: getEnvInt("OPENAI_MAX_RETRIES", 2),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		ChatMaxTokens:    getEnvInt("CHAT_MAX_TOKENS", 120),
		ChatTemperature:  getEnvFloat("CHAT_TEMPERATURE", 0.7),

		RemotiveBaseURL:  getEnv("REMOTIVE_BASE_URL", "https://remotive.com/api"),
		AdzunaBaseURL:    getEnv("ADZUNA_BASE_URL", "https://api.adzuna.com/v1/api"),
		AdzunaAppID:      getEnv("ADZUNA_APP_ID", ""),
		AdzunaAppKey:     getEnv("ADZUNA_APP_KEY", ""),
		AdzunaCountry:    getEnv("ADZUNA_COUNTRY", "us"),
		ArbeitnowBaseURL: getEnv("ARBEITNOW_BASE_URL", "https://www.arbeitnow.com/api"),

		ProviderTimeoutMS:   getEnvInt("PROVIDER_TIMEOUT_MS", 10000),
		SearchDefaultLimit:  getEnvInt("SEARCH_DEFAULT_LIMIT", 10),
		SimilarDefaultLimit: getEnvInt("SIMILAR_DEFAULT_LIMIT", 5),

		SuggestionPerTermLimit: getEnvInt("SUGGESTION_PER_TERM_LIMIT", 2),
		SuggestionCap:          getEnvInt("SUGGESTION_CAP", 4),
		SuggestionSource:       getEnv("SUGGESTION_SOURCE", "adzuna"),

		ResultsCacheTTLSeconds: getEnvInt("RESULTS_CACHE_TTL_SECONDS", 300),
		ResultsCacheMaxEntries: getEnvInt("RESULTS_CACHE_MAX_ENTRIES", 2000),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RateLimitRPS:       getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 40),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key, fallback string) []string {
	value := os.Getenv(key)
	if value == "" {
		value = fallback
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}
	return result
}
