package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("expected port %q, got %q", "8090", cfg.Port)
	}
	if cfg.DocTitle != DefaultDocTitle {
		t.Errorf("expected default doc title, got %q", cfg.DocTitle)
	}
	if cfg.WorkerCount != 4 || cfg.MaxQueueSize != 100 {
		t.Errorf("unexpected pool sizes: %d/%d", cfg.WorkerCount, cfg.MaxQueueSize)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h ttl, got %v", cfg.JobTTL)
	}
	if cfg.TOC.MinSections != 1000 || cfg.TOC.MaxDepth != 10 || cfg.TOC.MaxOrphanRatio != 0.10 {
		t.Errorf("unexpected toc thresholds: %+v", cfg.TOC)
	}
	if cfg.TOC.RejectDuplicates {
		t.Error("expected duplicate rejection off by default")
	}
	if cfg.Content.MinQuality != 0.75 || cfg.Content.MinAvgLength != 100 || cfg.Content.MaxEmptyRatio != 0.05 || cfg.Content.ShortLength != 50 {
		t.Errorf("unexpected content thresholds: %+v", cfg.Content)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("JOB_TTL", "30m")
	t.Setenv("TOC_MIN_SECTIONS", "5")
	t.Setenv("TOC_REJECT_DUPLICATES", "true")
	t.Setenv("CONTENT_MIN_QUALITY", "0.5")
	t.Setenv("SPECINDEX_API_KEY", "secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WorkerCount != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != 30*time.Minute {
		t.Errorf("expected 30m, got %v", cfg.JobTTL)
	}
	if cfg.TOC.MinSections != 5 || !cfg.TOC.RejectDuplicates {
		t.Errorf("unexpected toc thresholds: %+v", cfg.TOC)
	}
	if cfg.Content.MinQuality != 0.5 {
		t.Errorf("expected 0.5, got %v", cfg.Content.MinQuality)
	}
	if err := cfg.ValidateServe(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_NonPositiveFallsBack(t *testing.T) {
	t.Setenv("WORKER_COUNT", "0")
	t.Setenv("MAX_QUEUE_SIZE", "-1")
	t.Setenv("TOC_MAX_DEPTH", "0")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WorkerCount != 4 || cfg.MaxQueueSize != 100 || cfg.TOC.MaxDepth != 10 {
		t.Errorf("expected defaults, got %d/%d/%d", cfg.WorkerCount, cfg.MaxQueueSize, cfg.TOC.MaxDepth)
	}
}

func TestLoad_YAMLFileBelowEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specindex.yaml")
	yaml := "doc_title: From File\noutput_dir: /tmp/out\ncontent_min_sections: 10\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Setenv("CONTENT_MIN_SECTIONS", "20")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DocTitle != "From File" || cfg.OutputDir != "/tmp/out" {
		t.Errorf("expected file values, got %q %q", cfg.DocTitle, cfg.OutputDir)
	}
	if cfg.Content.MinSections != 20 {
		t.Errorf("expected env to win, got %d", cfg.Content.MinSections)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := cfg
	bad.Content.MinQuality = 1.5
	if bad.Validate() == nil {
		t.Error("expected error for quality > 1")
	}

	bad = cfg
	bad.LogFormat = "xml"
	if bad.Validate() == nil {
		t.Error("expected error for unknown log format")
	}

	if cfg.ValidateServe() == nil {
		t.Error("expected error for missing api key")
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specindex.toml")
	body := "doc_title = \"TOML Doc\"\ntoc_max_depth = 6\nupload_rate = 0\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DocTitle != "TOML Doc" || cfg.TOC.MaxDepth != 6 {
		t.Errorf("expected values from toml file, got %q/%d", cfg.DocTitle, cfg.TOC.MaxDepth)
	}
	if cfg.UploadRate != 0 {
		t.Errorf("expected rate limit disabled, got %v", cfg.UploadRate)
	}
}

func TestValidate_CleanupSchedule(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CleanupSchedule != "@every 5m" {
		t.Errorf("expected default schedule, got %q", cfg.CleanupSchedule)
	}
	cfg.CleanupSchedule = "every so often"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid schedule to fail")
	}
	cfg.CleanupSchedule = "*/10 * * * *"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
