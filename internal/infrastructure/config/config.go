// Package config provides application-wide configuration loaded from env vars.
// All fields have safe defaults so the binary runs locally without any env setup.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration for medquery.
type Config struct {
	// Server
	Addr string // MEDQUERY_ADDR, default ":8080"

	// Dataset
	DatasetPath  string // DATASET_PATH, default "Medicine_Details_Final.csv"
	DatasetWatch bool   // DATASET_WATCH, default false
	LexiconPath  string // LEXICON_PATH, default "" (embedded tables)

	// Retrieval
	TopK             int     // MATCH_TOP_K, default 2
	Threshold        float64 // MATCH_THRESHOLD, default 0.1
	PreviewLength    int     // PREVIEW_LENGTH, default 200
	AltPreviewLength int     // ALT_PREVIEW_LENGTH, default 100

	// Vectorizer
	MaxFeatures int     // VECTORIZER_MAX_FEATURES, default 5000
	MinDF       int     // VECTORIZER_MIN_DF, default 1
	MaxDF       float64 // VECTORIZER_MAX_DF, default 0.95
	NgramMax    int     // VECTORIZER_NGRAM_MAX, default 2
	StopWords   string  // VECTORIZER_STOP_WORDS, default "english"

	// Enrichment
	EnrichEnabled  bool          // ENRICH_ENABLED, default true
	OpenFDABaseURL string        // OPENFDA_BASE_URL, default "https://api.fda.gov"
	EnrichTimeout  time.Duration // ENRICH_TIMEOUT, default 10s
	CacheSize      int           // ENRICH_CACHE_SIZE, default 256
	CacheTTL       time.Duration // ENRICH_CACHE_TTL, default 24h
	RedisAddr      string        // REDIS_ADDR, default "" (in-process cache)
	RedisPassword  string        // REDIS_PASSWORD
	RedisDB        int           // REDIS_DB, default 0

	LogLevel string // LOG_LEVEL, default "info"
}

const (
	envKeyAddr             = "MEDQUERY_ADDR"
	envKeyDatasetPath      = "DATASET_PATH"
	envKeyDatasetWatch     = "DATASET_WATCH"
	envKeyLexiconPath      = "LEXICON_PATH"
	envKeyTopK             = "MATCH_TOP_K"
	envKeyThreshold        = "MATCH_THRESHOLD"
	envKeyPreviewLength    = "PREVIEW_LENGTH"
	envKeyAltPreviewLength = "ALT_PREVIEW_LENGTH"
	envKeyMaxFeatures      = "VECTORIZER_MAX_FEATURES"
	envKeyMinDF            = "VECTORIZER_MIN_DF"
	envKeyMaxDF            = "VECTORIZER_MAX_DF"
	envKeyNgramMax         = "VECTORIZER_NGRAM_MAX"
	envKeyStopWords        = "VECTORIZER_STOP_WORDS"
	envKeyEnrichEnabled    = "ENRICH_ENABLED"
	envKeyOpenFDABaseURL   = "OPENFDA_BASE_URL"
	envKeyEnrichTimeout    = "ENRICH_TIMEOUT"
	envKeyCacheSize        = "ENRICH_CACHE_SIZE"
	envKeyCacheTTL         = "ENRICH_CACHE_TTL"
	envKeyRedisAddr        = "REDIS_ADDR"
	envKeyRedisPassword    = "REDIS_PASSWORD"
	envKeyRedisDB          = "REDIS_DB"
	envKeyLogLevel         = "LOG_LEVEL"
)

// Load reads configuration from environment variables, applying defaults for
// missing or unparsable values.
func Load() Config {
	return Config{
		Addr:             envOr(envKeyAddr, ":8080"),
		DatasetPath:      envOr(envKeyDatasetPath, "Medicine_Details_Final.csv"),
		DatasetWatch:     envBool(envKeyDatasetWatch, false),
		LexiconPath:      envOr(envKeyLexiconPath, ""),
		TopK:             envInt(envKeyTopK, 2),
		Threshold:        envFloat(envKeyThreshold, 0.1),
		PreviewLength:    envInt(envKeyPreviewLength, 200),
		AltPreviewLength: envInt(envKeyAltPreviewLength, 100),
		MaxFeatures:      envInt(envKeyMaxFeatures, 5000),
		MinDF:            envInt(envKeyMinDF, 1),
		MaxDF:            envFloat(envKeyMaxDF, 0.95),
		NgramMax:         envInt(envKeyNgramMax, 2),
		StopWords:        envOr(envKeyStopWords, "english"),
		EnrichEnabled:    envBool(envKeyEnrichEnabled, true),
		OpenFDABaseURL:   envOr(envKeyOpenFDABaseURL, "https://api.fda.gov"),
		EnrichTimeout:    envDuration(envKeyEnrichTimeout, 10*time.Second),
		CacheSize:        envInt(envKeyCacheSize, 256),
		CacheTTL:         envDuration(envKeyCacheTTL, 24*time.Hour),
		RedisAddr:        envOr(envKeyRedisAddr, ""),
		RedisPassword:    envOr(envKeyRedisPassword, ""),
		RedisDB:          envInt(envKeyRedisDB, 0),
		LogLevel:         envOr(envKeyLogLevel, "info"),
	}
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(envOr(key, "")); err == nil {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(envOr(key, ""), 64); err == nil {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(envOr(key, "")); err == nil {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(envOr(key, "")); err == nil {
		return v
	}
	return fallback
}
