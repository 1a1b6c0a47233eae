package pipeline

import (
	"path/filepath"
	"time"

	"github.com/dgallion1/specindex/internal/output"
)

// WriteOutputs writes the TOC, content, report and execution summary files
// into dir. The summary is written last and lists the other files.
func WriteOutputs(dir string, res *Result) error {
	start := time.Now()

	tocStats, err := output.WriteJSONL(filepath.Join(dir, output.TOCFile), res.TOC)
	if err != nil {
		return err
	}
	contentStats, err := output.WriteJSONL(filepath.Join(dir, output.ContentFile), res.Content)
	if err != nil {
		return err
	}
	reportStats, err := output.WriteJSON(filepath.Join(dir, output.ReportFile), res.Report)
	if err != nil {
		return err
	}

	sum := &res.Summary
	sum.Outputs = []output.WriteStats{tocStats, contentStats, reportStats}
	sum.Steps = append(sum.Steps, StepTiming{
		Name:       StepWrite,
		DurationMs: time.Since(start).Milliseconds(),
		Detail:     dir,
	})
	sum.FinishedAt = time.Now()
	if !sum.StartedAt.IsZero() {
		sum.DurationMs = sum.FinishedAt.Sub(sum.StartedAt).Milliseconds()
	}

	_, err = output.WriteJSON(filepath.Join(dir, output.SummaryFile), sum)
	return err
}
