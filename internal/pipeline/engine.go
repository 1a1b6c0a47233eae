package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dgallion1/specindex/internal/config"
	"github.com/dgallion1/specindex/internal/content"
	"github.com/dgallion1/specindex/internal/doctree"
	"github.com/dgallion1/specindex/internal/output"
	"github.com/dgallion1/specindex/internal/report"
	"github.com/dgallion1/specindex/internal/source"
	"github.com/dgallion1/specindex/internal/toc"
	"github.com/dgallion1/specindex/internal/validate"
)

// TOCBuilder turns page text into TOC entries.
type TOCBuilder interface {
	Build(pages doctree.PageText) []doctree.TOCEntry
	Stats() toc.Stats
}

// ContentBuilder turns page text into content sections.
type ContentBuilder interface {
	Build(pages doctree.PageText) []doctree.ContentSection
	Stats() content.Stats
}

// Components are the collaborators of one engine. An engine owns its
// components for its lifetime; they must not be shared between engines.
type Components struct {
	DocTitle         string
	TOC              TOCBuilder
	Content          ContentBuilder
	TOCValidator     validate.Validator[doctree.TOCEntry]
	ContentValidator validate.Validator[doctree.ContentSection]
	Reporter         *report.Generator
}

// DefaultComponents wires the standard builders and validators.
func DefaultComponents(docTitle string, cfg config.Config) Components {
	return Components{
		DocTitle:         docTitle,
		TOC:              toc.NewBuilder(docTitle),
		Content:          content.NewBuilder(docTitle),
		TOCValidator:     validate.NewTOCValidator(cfg.TOC),
		ContentValidator: validate.NewContentValidator(cfg.Content),
		Reporter:         report.NewGenerator(cfg.TOC.MinSections),
	}
}

// Step names, in execution order.
const (
	StepExtract  = "extract"
	StepTOC      = "build_toc"
	StepContent  = "build_content"
	StepValidate = "validate"
	StepReport   = "report"
	StepWrite    = "write"
)

// StepTiming records how long one step took.
type StepTiming struct {
	Name       string `json:"name"`
	DurationMs int64  `json:"duration_ms"`
	Detail     string `json:"detail,omitempty"`
}

// Summary is the execution_summary.json document.
type Summary struct {
	Document        string              `json:"document"`
	Source          string              `json:"source,omitempty"`
	Status          string              `json:"status"`
	Error           string              `json:"error,omitempty"`
	StartedAt       time.Time           `json:"started_at"`
	FinishedAt      time.Time           `json:"finished_at"`
	DurationMs      int64               `json:"duration_ms"`
	Steps           []StepTiming        `json:"steps"`
	Pages           int                 `json:"pages"`
	TOCEntries      int                 `json:"toc_entries"`
	ContentSections int                 `json:"content_sections"`
	TOCValid        bool                `json:"toc_valid"`
	ContentValid    bool                `json:"content_valid"`
	ReportStatus    report.Status       `json:"validation_status,omitempty"`
	TOCStats        toc.Stats           `json:"toc_stats"`
	ContentStats    content.Stats       `json:"content_stats"`
	Outputs         []output.WriteStats `json:"outputs"`
}

// Result is everything one run produces.
type Result struct {
	DocTitle      string
	Pages         doctree.PageText
	TOC           []doctree.TOCEntry
	Content       []doctree.ContentSection
	TOCReport     validate.Report
	ContentReport validate.Report
	Report        report.Report
	Summary       Summary
}

// Valid reports whether both validators passed.
func (r *Result) Valid() bool {
	return r.TOCReport.IsValid && r.ContentReport.IsValid
}

// Engine runs extraction, building, validation and reporting for one
// document at a time. Not safe for concurrent use.
type Engine struct {
	c   Components
	log *slog.Logger

	// OnStep, if set, is called before each step starts.
	OnStep func(step string)
}

func NewEngine(c Components, log *slog.Logger) *Engine {
	return &Engine{c: c, log: log}
}

// Process extracts page text from r with src and runs the engine on it.
func (e *Engine) Process(ctx context.Context, src source.Source, r io.Reader, filename string) (*Result, error) {
	start := time.Now()
	e.step(StepExtract)
	doc, err := src.Extract(ctx, r, filename)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filename, err)
	}
	extract := StepTiming{
		Name:       StepExtract,
		DurationMs: time.Since(start).Milliseconds(),
		Detail:     fmt.Sprintf("%d pages", len(doc.Pages)),
	}
	e.log.Info("step complete", "step", StepExtract, "pages", len(doc.Pages), "source_title", doc.Title, "duration_ms", extract.DurationMs)

	res, err := e.Run(ctx, doc.Pages)
	if err != nil {
		return nil, err
	}
	res.Summary.Source = filename
	res.Summary.StartedAt = start
	res.Summary.Steps = append([]StepTiming{extract}, res.Summary.Steps...)
	res.Summary.DurationMs = res.Summary.FinishedAt.Sub(start).Milliseconds()
	return res, nil
}

// Run builds and validates the TOC and content sections of pages.
// It fails only when pages violate the ordering contract or ctx is done;
// validation failures are reported in the result.
func (e *Engine) Run(ctx context.Context, pages doctree.PageText) (*Result, error) {
	if err := pages.Check(); err != nil {
		return nil, err
	}
	docTitle := e.c.DocTitle

	res := &Result{DocTitle: docTitle, Pages: pages}
	sum := &res.Summary
	sum.Document = docTitle
	sum.StartedAt = time.Now()
	sum.Pages = len(pages)

	timed := func(name string, fn func() string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.step(name)
		t := time.Now()
		detail := fn()
		st := StepTiming{Name: name, DurationMs: time.Since(t).Milliseconds(), Detail: detail}
		sum.Steps = append(sum.Steps, st)
		e.log.Info("step complete", "step", name, "detail", detail, "duration_ms", st.DurationMs)
		return nil
	}

	err := timed(StepTOC, func() string {
		res.TOC = e.c.TOC.Build(pages)
		sum.TOCStats = e.c.TOC.Stats()
		return fmt.Sprintf("%d entries, max depth %d", len(res.TOC), sum.TOCStats.MaxDepth)
	})
	if err != nil {
		return nil, err
	}

	err = timed(StepContent, func() string {
		res.Content = e.c.Content.Build(pages)
		sum.ContentStats = e.c.Content.Stats()
		return fmt.Sprintf("%d sections", len(res.Content))
	})
	if err != nil {
		return nil, err
	}

	err = timed(StepValidate, func() string {
		res.TOCReport = e.c.TOCValidator.Validate(res.TOC)
		res.ContentReport = e.c.ContentValidator.Validate(res.Content)
		for _, r := range []validate.Report{res.TOCReport, res.ContentReport} {
			if !r.IsValid {
				e.log.Warn("validation failed", "validator", r.Validator, "errors", r.Errors)
			}
		}
		return fmt.Sprintf("toc valid=%t, content valid=%t", res.TOCReport.IsValid, res.ContentReport.IsValid)
	})
	if err != nil {
		return nil, err
	}

	err = timed(StepReport, func() string {
		res.Report = e.c.Reporter.Generate(report.Input{
			DocTitle:   docTitle,
			TOC:        res.TOC,
			Content:    res.Content,
			Coverage:   pages.Coverage(),
			Validation: []validate.Report{res.TOCReport, res.ContentReport},
		})
		return string(res.Report.Status)
	})
	if err != nil {
		return nil, err
	}

	sum.Status = "completed"
	sum.TOCEntries = len(res.TOC)
	sum.ContentSections = len(res.Content)
	sum.TOCValid = res.TOCReport.IsValid
	sum.ContentValid = res.ContentReport.IsValid
	sum.ReportStatus = res.Report.Status
	sum.Outputs = []output.WriteStats{}
	sum.FinishedAt = time.Now()
	sum.DurationMs = sum.FinishedAt.Sub(sum.StartedAt).Milliseconds()
	return res, nil
}

func (e *Engine) step(name string) {
	if e.OnStep != nil {
		e.OnStep(name)
	}
}
