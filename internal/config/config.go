// Package config loads batchkb's runtime configuration from the
// environment, using the same envOr/envInt/envBool helper pattern the
// rest of the pack uses for twelve-factor services.
package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Config holds every tunable named in the system's external interface.
type Config struct {
	Port string

	// Worker pool.
	MaxConcurrentTasks int
	ConversionTimeout  time.Duration
	SkipTempFiles      bool

	// Transcoder engine discovery.
	LibreOfficePath         string
	LibreOfficeDefaultPaths []string

	// TextPipeline tuning.
	MinParagraphLen          int
	SimhashDistanceThreshold int
	EnableNearDuplicate      bool
	EnableCrossDocDedup      bool
	CustomNoisePatterns      []string

	// DedupStore backend.
	RedisEnabled    bool
	RedisHost       string
	RedisPort       int
	RedisDB         int
	RedisPassword   string
	RedisDocKey     string
	RedisParaKey    string
	RedisSimhashKey string

	// StorageCleaner.
	CleanKeepDays int
	LogLevel      string

	// Storage roots.
	BatchDir string
	TempDir  string
}

// Load reads Config from the environment, applying the defaults spec.md
// §6 documents.
func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		MaxConcurrentTasks: envInt("MAX_CONCURRENT_TASKS", runtime.NumCPU()),
		ConversionTimeout:  envDuration("CONVERSION_TIMEOUT", 60*time.Second),
		SkipTempFiles:      envBool("SKIP_TEMP_FILES", true),

		LibreOfficePath:         os.Getenv("LIBREOFFICE_PATH"),
		LibreOfficeDefaultPaths: envList("LIBREOFFICE_DEFAULT_PATHS", []string{"/usr/bin/soffice", "/usr/bin/libreoffice", "/opt/libreoffice/program/soffice"}),

		MinParagraphLen:          envInt("MIN_PARAGRAPH_LEN", 10),
		SimhashDistanceThreshold: envInt("SIMHASH_DISTANCE_THRESHOLD", 3),
		EnableNearDuplicate:      envBool("ENABLE_NEAR_DUPLICATE", true),
		EnableCrossDocDedup:      envBool("ENABLE_CROSS_DOC_DEDUP", false),
		CustomNoisePatterns:      envList("CUSTOM_NOISE_PATTERNS", nil),

		RedisEnabled:    envBool("REDIS_ENABLED", false),
		RedisHost:       envOr("REDIS_HOST", "127.0.0.1"),
		RedisPort:       envInt("REDIS_PORT", 6379),
		RedisDB:         envInt("REDIS_DB", 1),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDocKey:     envOr("REDIS_DOC_KEY", "batchkb:doc:hashes"),
		RedisParaKey:    envOr("REDIS_PARA_KEY", "batchkb:para:hashes"),
		RedisSimhashKey: envOr("REDIS_SIMHASH_KEY", "batchkb:para:simhash"),

		CleanKeepDays: envInt("CLEAN_KEEP_DAYS", 7),
		LogLevel:      envOr("LOG_LEVEL", "info"),

		BatchDir: envOr("BATCH_DIR", "storage/batch"),
		TempDir:  envOr("TEMP_DIR", "storage/temp"),
	}

	if cfg.MaxConcurrentTasks <= 0 {
		cfg.MaxConcurrentTasks = runtime.NumCPU()
	}
	if cfg.ConversionTimeout <= 0 {
		cfg.ConversionTimeout = 60 * time.Second
	}
	if cfg.MinParagraphLen < 0 {
		cfg.MinParagraphLen = 10
	}
	if cfg.SimhashDistanceThreshold < 0 {
		cfg.SimhashDistanceThreshold = 3
	}
	if cfg.CleanKeepDays <= 0 {
		cfg.CleanKeepDays = 7
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList parses a comma-separated environment value into a slice,
// trimming whitespace around each element and dropping empties.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
