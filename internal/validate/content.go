package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/specindex/internal/doctree"
	"github.com/go-playground/validator/v10"
)

// ContentThresholds configures the content rules.
type ContentThresholds struct {
	MinSections   int
	MinQuality    float64 // share of sections with non-blank content
	MinAvgLength  float64
	MaxEmptyRatio float64
	ShortLength   int // sections under this many characters count as short
}

// DefaultContentThresholds returns the thresholds used for a full specification.
func DefaultContentThresholds() ContentThresholds {
	return ContentThresholds{
		MinSections:   1000,
		MinQuality:    0.75,
		MinAvgLength:  100,
		MaxEmptyRatio: 0.05,
		ShortLength:   50,
	}
}

// ContentValidator validates content sections.
type ContentValidator struct {
	th    ContentThresholds
	check *validator.Validate
}

func NewContentValidator(th ContentThresholds) *ContentValidator {
	return &ContentValidator{th: th, check: validator.New()}
}

func (v *ContentValidator) Name() string { return "content" }

func (v *ContentValidator) Validate(sections []doctree.ContentSection) Report {
	r := newReport(v.Name())
	total := len(sections)

	if total < v.th.MinSections {
		r.fail(fmt.Sprintf("Insufficient sections: %d (minimum: %d)", total, v.th.MinSections))
	}

	var withContent, empty, short, totalLen int
	for _, s := range sections {
		text := strings.TrimSpace(s.Content)
		n := utf8.RuneCountInString(text)
		totalLen += n
		switch {
		case n == 0:
			empty++
		case n < v.th.ShortLength:
			short++
			withContent++
		default:
			withContent++
		}
	}

	if missing := countInvalid(v.check, sections); missing > 0 {
		r.fail(fmt.Sprintf("Missing required fields in %d entries", missing))
	}

	// Ratios are undefined on empty input; the volume rule already failed.
	var quality, avg, emptyRatio float64
	if total > 0 {
		quality = float64(withContent) / float64(total)
		avg = float64(totalLen) / float64(total)
		emptyRatio = float64(empty) / float64(total)

		if quality < v.th.MinQuality {
			r.fail(fmt.Sprintf("Content quality too low: %.1f%% (threshold: %.1f%%)", quality*100, v.th.MinQuality*100))
		}
		if avg < v.th.MinAvgLength {
			r.fail(fmt.Sprintf("Average content too short: %.0f chars", avg))
		}
		if emptyRatio > v.th.MaxEmptyRatio {
			r.fail(fmt.Sprintf("Too many empty sections: %.1f%%", emptyRatio*100))
		}
	}

	r.Details["total_sections"] = total
	r.Details["sections_with_content"] = withContent
	r.Details["empty_sections"] = empty
	r.Details["short_sections"] = short
	r.Details["total_content_length"] = totalLen
	r.Details["quality_ratio"] = quality
	r.Details["average_length"] = avg
	return r.finish()
}
