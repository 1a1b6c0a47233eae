package config

import (
	"fmt"
	"time"

	"github.com/dgallion1/specindex/internal/validate"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const DefaultDocTitle = "USB Power Delivery Specification, Revision 3.2, Version 1.1, 2024-10"

type Config struct {
	Port string

	// Auth
	APIKey string

	// Run
	DocTitle         string
	OutputDir        string
	ProgressInterval int

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL          time.Duration
	CleanupSchedule string

	// Upload rate limit, requests per second. Zero disables it.
	UploadRate  float64
	UploadBurst int

	// PDF
	PDFFallbackPdftotext bool

	// Logging
	LogLevel  string
	LogFormat string

	// Validation thresholds
	TOC     validate.TOCThresholds
	Content validate.ContentThresholds
}

// Load reads configuration from defaults, the optional config file at path
// and the environment, in increasing order of precedence. The file format
// follows its extension (.yaml, .toml, .json). Keys are the upper-case
// environment names; files use the same names in lower case.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	toc := validate.DefaultTOCThresholds()
	content := validate.DefaultContentThresholds()

	cfg := Config{
		Port:   v.GetString("port"),
		APIKey: v.GetString("specindex_api_key"),

		DocTitle:         v.GetString("doc_title"),
		OutputDir:        v.GetString("output_dir"),
		ProgressInterval: v.GetInt("progress_interval"),

		WorkerCount:  v.GetInt("worker_count"),
		MaxQueueSize: v.GetInt("max_queue_size"),

		MaxUploadBytes: v.GetInt64("max_upload_bytes"),

		JobTTL:          v.GetDuration("job_ttl"),
		CleanupSchedule: v.GetString("job_cleanup_schedule"),

		UploadRate:  v.GetFloat64("upload_rate"),
		UploadBurst: v.GetInt("upload_burst"),

		PDFFallbackPdftotext: v.GetBool("pdf_fallback_pdftotext"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),

		TOC: validate.TOCThresholds{
			MinSections:      v.GetInt("toc_min_sections"),
			MaxDepth:         v.GetInt("toc_max_depth"),
			MaxOrphanRatio:   v.GetFloat64("toc_max_orphan_ratio"),
			RejectDuplicates: v.GetBool("toc_reject_duplicates"),
		},
		Content: validate.ContentThresholds{
			MinSections:   v.GetInt("content_min_sections"),
			MinQuality:    v.GetFloat64("content_min_quality"),
			MinAvgLength:  v.GetFloat64("content_min_avg_length"),
			MaxEmptyRatio: v.GetFloat64("content_max_empty_ratio"),
			ShortLength:   v.GetInt("content_short_length"),
		},
	}

	if cfg.DocTitle == "" {
		cfg.DocTitle = DefaultDocTitle
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 104857600
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.CleanupSchedule == "" {
		cfg.CleanupSchedule = "@every 5m"
	}
	if cfg.UploadRate < 0 {
		cfg.UploadRate = 0
	}
	if cfg.UploadBurst <= 0 {
		cfg.UploadBurst = 10
	}
	if cfg.ProgressInterval < 0 {
		cfg.ProgressInterval = 0
	}
	if cfg.TOC.MinSections < 0 {
		cfg.TOC.MinSections = toc.MinSections
	}
	if cfg.TOC.MaxDepth <= 0 {
		cfg.TOC.MaxDepth = toc.MaxDepth
	}
	if cfg.Content.MinSections < 0 {
		cfg.Content.MinSections = content.MinSections
	}
	if cfg.Content.ShortLength <= 0 {
		cfg.Content.ShortLength = content.ShortLength
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	toc := validate.DefaultTOCThresholds()
	content := validate.DefaultContentThresholds()

	v.SetDefault("port", "8090")
	v.SetDefault("specindex_api_key", "")
	v.SetDefault("doc_title", DefaultDocTitle)
	v.SetDefault("output_dir", "data/output")
	v.SetDefault("progress_interval", 100)
	v.SetDefault("worker_count", 4)
	v.SetDefault("max_queue_size", 100)
	v.SetDefault("max_upload_bytes", 104857600) // 100MB
	v.SetDefault("job_ttl", time.Hour)
	v.SetDefault("job_cleanup_schedule", "@every 5m")
	v.SetDefault("upload_rate", 5)
	v.SetDefault("upload_burst", 10)
	v.SetDefault("pdf_fallback_pdftotext", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("toc_min_sections", toc.MinSections)
	v.SetDefault("toc_max_depth", toc.MaxDepth)
	v.SetDefault("toc_max_orphan_ratio", toc.MaxOrphanRatio)
	v.SetDefault("toc_reject_duplicates", toc.RejectDuplicates)

	v.SetDefault("content_min_sections", content.MinSections)
	v.SetDefault("content_min_quality", content.MinQuality)
	v.SetDefault("content_min_avg_length", content.MinAvgLength)
	v.SetDefault("content_max_empty_ratio", content.MaxEmptyRatio)
	v.SetDefault("content_short_length", content.ShortLength)
}

// Validate checks settings every command needs.
func (c Config) Validate() error {
	if c.TOC.MaxOrphanRatio < 0 || c.TOC.MaxOrphanRatio > 1 {
		return fmt.Errorf("TOC_MAX_ORPHAN_RATIO must be between 0 and 1")
	}
	if c.Content.MinQuality < 0 || c.Content.MinQuality > 1 {
		return fmt.Errorf("CONTENT_MIN_QUALITY must be between 0 and 1")
	}
	if c.Content.MaxEmptyRatio < 0 || c.Content.MaxEmptyRatio > 1 {
		return fmt.Errorf("CONTENT_MAX_EMPTY_RATIO must be between 0 and 1")
	}
	if c.Content.MinAvgLength < 0 {
		return fmt.Errorf("CONTENT_MIN_AVG_LENGTH must not be negative")
	}
	if _, err := cron.ParseStandard(c.CleanupSchedule); err != nil {
		return fmt.Errorf("JOB_CLEANUP_SCHEDULE: %w", err)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}
	return nil
}

// ValidateServe also checks settings the HTTP service needs.
func (c Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("SPECINDEX_API_KEY is required")
	}
	return nil
}
