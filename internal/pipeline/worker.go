package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/specindex/internal/config"
	"github.com/dgallion1/specindex/internal/source"
	"github.com/dgallion1/specindex/internal/stats"
)

// Worker processes one document job at a time.
type Worker struct {
	cfg   config.Config
	stats *stats.Stages
	log   *slog.Logger
}

func NewWorker(cfg config.Config, runStats *stats.Stages, log *slog.Logger) *Worker {
	return &Worker{cfg: cfg, stats: runStats, log: log}
}

// Process runs the full pipeline for a job with a fresh engine.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)
	start := time.Now()

	src, err := source.ForFile(job.Filename, source.Options{
		FallbackPdftotext: w.cfg.PDFFallbackPdftotext,
		ProgressEvery:     w.cfg.ProgressInterval,
		Log:               log,
	})
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	title := job.Title
	if title == "" {
		title = w.cfg.DocTitle
	}
	engine := NewEngine(DefaultComponents(title, w.cfg), log)
	engine.OnStep = func(step string) {
		job.SetStatus(statusForStep[step], step)
	}

	res, err := engine.Process(ctx, src, bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("run failed", "error", err)
		job.AddError(fmt.Sprintf("run: %s", err))
		job.SetStatus(StatusFailed, job.Snapshot().Phase)
		return
	}

	stages := make(map[string]time.Duration, len(res.Summary.Steps)+1)
	for _, st := range res.Summary.Steps {
		stages[st.Name] = time.Duration(st.DurationMs) * time.Millisecond
	}
	stages[stats.TotalStage] = time.Since(start)
	w.stats.Observe(stages)
	job.SetResult(res)
	job.SetStatus(StatusCompleted, "done")
	log.Info("run complete",
		"toc_entries", len(res.TOC),
		"content_sections", len(res.Content),
		"valid", res.Valid(),
		"status", res.Report.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
