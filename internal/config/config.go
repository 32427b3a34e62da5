package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Extract ExtractConfig
	Batch   BatchConfig
	CORS    CORSConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string `mapstructure:"port"`
	Environment     string `mapstructure:"environment"`
	MaxUploadSizeMB int64  `mapstructure:"max_upload_size_mb"`
}

// ExtractConfig holds layout-reconstruction tuning for the PDF extractor.
type ExtractConfig struct {
	RowTolerance     float64 `mapstructure:"row_tolerance"`
	WordGapFactor    float64 `mapstructure:"word_gap_factor"`
	ColumnGapMin     float64 `mapstructure:"column_gap_min"`
	ColumnSupportPct int     `mapstructure:"column_support_pct"`
}

// BatchConfig holds directory batch-processing settings.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the REMITEX_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("REMITEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_size_mb", 50)

	// Extractor defaults
	v.SetDefault("extract.row_tolerance", 2.0)
	v.SetDefault("extract.word_gap_factor", 0.3)
	v.SetDefault("extract.column_gap_min", 6.0)
	v.SetDefault("extract.column_support_pct", 25)

	// Batch defaults
	v.SetDefault("batch.concurrency", 4)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Viper reads list-valued env vars as a single comma-joined string.
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
	}

	return &cfg, nil
}
