// Package report summarizes a finished extraction run.
package report

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/specindex/internal/doctree"
	"github.com/dgallion1/specindex/internal/stats"
	"github.com/dgallion1/specindex/internal/validate"
)

// Status grades a run by page coverage and extracted volume.
type Status string

const (
	StatusExcellent        Status = "EXCELLENT"
	StatusGood             Status = "GOOD"
	StatusFair             Status = "FAIR"
	StatusNeedsImprovement Status = "NEEDS_IMPROVEMENT"
)

// Report is the validation_report.json document.
type Report struct {
	Document        string                     `json:"document"`
	ValidationDate  string                     `json:"validation_date"`
	Summary         Summary                    `json:"summary"`
	TOCAnalysis     TOCAnalysis                `json:"toc_analysis"`
	ContentAnalysis ContentAnalysis            `json:"content_analysis"`
	Status          Status                     `json:"validation_status"`
	Metrics         Metrics                    `json:"detailed_metrics"`
	Validation      map[string]validate.Report `json:"validation"`
}

type Summary struct {
	TOCSections     int                  `json:"total_toc_sections"`
	ContentSections int                  `json:"total_content_sections"`
	SectionsMatched int                  `json:"sections_matched"`
	PageCoverage    doctree.PageCoverage `json:"page_coverage"`
}

type TOCAnalysis struct {
	TotalSections    int         `json:"total_sections"`
	HierarchyLevels  int         `json:"hierarchy_levels"`
	SectionsPerLevel map[int]int `json:"sections_per_level"`
	MaxDepth         int         `json:"max_depth"`
}

type ContentAnalysis struct {
	TotalSections          int     `json:"total_sections"`
	SectionsWithContent    int     `json:"sections_with_content"`
	SectionsWithoutContent int     `json:"sections_without_content"`
	AverageLength          float64 `json:"average_content_length"`
	TotalCharacters        int     `json:"total_characters"`
	P50Length              float64 `json:"p50_content_length"`
	P95Length              float64 `json:"p95_content_length"`
	P99Length              float64 `json:"p99_content_length"`
}

type Metrics struct {
	PageCoveragePercent   float64 `json:"page_coverage_percentage"`
	ContentQualityPercent float64 `json:"content_quality_percentage"`
	TOCComplete           bool    `json:"toc_completeness"`
	OverallScore          float64 `json:"overall_quality_score"`
}

// Input is everything a report is computed from.
type Input struct {
	DocTitle   string
	TOC        []doctree.TOCEntry
	Content    []doctree.ContentSection
	Coverage   doctree.PageCoverage
	Validation []validate.Report
}

// Generator builds reports. CompleteTOC is the entry count above which the
// TOC is considered complete.
type Generator struct {
	CompleteTOC int
	Now         func() time.Time
}

func NewGenerator(completeTOC int) *Generator {
	return &Generator{CompleteTOC: completeTOC, Now: time.Now}
}

func (g *Generator) Generate(in Input) Report {
	r := Report{
		Document:       in.DocTitle,
		ValidationDate: g.Now().Format("2006-01-02 15:04:05"),
		Summary: Summary{
			TOCSections:     len(in.TOC),
			ContentSections: len(in.Content),
			SectionsMatched: matched(in.TOC, in.Content),
			PageCoverage:    in.Coverage,
		},
		TOCAnalysis:     analyzeTOC(in.TOC),
		ContentAnalysis: analyzeContent(in.Content),
		Validation:      make(map[string]validate.Report, len(in.Validation)),
	}
	for _, v := range in.Validation {
		r.Validation[v.Validator] = v
	}

	quality := 0.0
	if n := len(in.Content); n > 0 {
		quality = float64(r.ContentAnalysis.SectionsWithContent) / float64(n) * 100
	}
	r.Metrics = Metrics{
		PageCoveragePercent:   in.Coverage.CoveragePercent,
		ContentQualityPercent: round2(quality),
		TOCComplete:           len(in.TOC) > g.CompleteTOC,
		OverallScore:          round2((in.Coverage.CoveragePercent + quality) / 2),
	}
	r.Status = grade(in.Coverage.CoveragePercent, len(in.TOC), len(in.Content))
	return r
}

func grade(coverage float64, tocCount, contentCount int) Status {
	switch {
	case coverage >= 95 && tocCount > 5000 && contentCount > 5000:
		return StatusExcellent
	case coverage >= 85 && tocCount > 1000:
		return StatusGood
	case coverage >= 70:
		return StatusFair
	default:
		return StatusNeedsImprovement
	}
}

// matched counts distinct section ids present in both lists.
func matched(entries []doctree.TOCEntry, sections []doctree.ContentSection) int {
	ids := make(map[string]bool, len(entries))
	for _, e := range entries {
		ids[e.SectionID] = false
	}
	n := 0
	for _, s := range sections {
		if seen, ok := ids[s.SectionID]; ok && !seen {
			ids[s.SectionID] = true
			n++
		}
	}
	return n
}

func analyzeTOC(entries []doctree.TOCEntry) TOCAnalysis {
	a := TOCAnalysis{
		TotalSections:    len(entries),
		SectionsPerLevel: make(map[int]int),
	}
	for _, e := range entries {
		a.SectionsPerLevel[e.Level]++
		if e.Level > a.MaxDepth {
			a.MaxDepth = e.Level
		}
	}
	a.HierarchyLevels = len(a.SectionsPerLevel)
	return a
}

func analyzeContent(sections []doctree.ContentSection) ContentAnalysis {
	a := ContentAnalysis{TotalSections: len(sections)}
	if len(sections) == 0 {
		return a
	}

	lengths := make([]int, 0, len(sections))
	for _, s := range sections {
		if strings.TrimSpace(s.Content) != "" {
			a.SectionsWithContent++
		}
		n := utf8.RuneCountInString(s.Content)
		a.TotalCharacters += n
		lengths = append(lengths, n)
	}
	a.SectionsWithoutContent = a.TotalSections - a.SectionsWithContent
	a.AverageLength = round2(float64(a.TotalCharacters) / float64(a.TotalSections))

	sort.Ints(lengths)
	a.P50Length = stats.Percentile(lengths, 50)
	a.P95Length = stats.Percentile(lengths, 95)
	a.P99Length = stats.Percentile(lengths, 99)
	return a
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
