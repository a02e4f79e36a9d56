package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth. Empty disables bearer auth on /api/*.
	APIKey string

	// Upload limits
	MaxUploadBytes int64
	MaxBatchFiles  int

	// Batch processing
	BatchWorkers int

	// Result cache. Zero disables it.
	ResultCacheTTL time.Duration

	// Stats window
	StatsWindow time.Duration

	// Field rules. Empty selects the built-in table.
	RulesFile string

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("FNOL_API_KEY"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 16<<20), // 16MB
		MaxBatchFiles:  envInt("MAX_BATCH_FILES", 50),

		BatchWorkers: envInt("BATCH_WORKERS", 4),

		ResultCacheTTL: envDuration("RESULT_CACHE_TTL", 10*time.Minute),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		RulesFile: os.Getenv("FNOL_RULES_FILE"),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("PORT must be a TCP port number, got %q", c.Port)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.MaxBatchFiles <= 0 {
		return fmt.Errorf("MAX_BATCH_FILES must be positive")
	}
	if c.BatchWorkers <= 0 {
		return fmt.Errorf("BATCH_WORKERS must be positive")
	}
	if c.ResultCacheTTL < 0 {
		return fmt.Errorf("RESULT_CACHE_TTL must not be negative")
	}
	if c.RulesFile != "" {
		f, err := os.Open(c.RulesFile)
		if err != nil {
			return fmt.Errorf("FNOL_RULES_FILE: %w", err)
		}
		f.Close()
	}
	return nil
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

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
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
