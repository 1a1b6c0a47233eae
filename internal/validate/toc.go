package validate

import (
	"fmt"

	"github.com/dgallion1/specindex/internal/doctree"
	"github.com/go-playground/validator/v10"
)

// TOCThresholds configures the TOC rules.
type TOCThresholds struct {
	MinSections      int
	MaxDepth         int
	MaxOrphanRatio   float64 // share of level>1 entries allowed without a parent
	RejectDuplicates bool
}

// DefaultTOCThresholds returns the thresholds used for a full specification.
func DefaultTOCThresholds() TOCThresholds {
	return TOCThresholds{
		MinSections:    1000,
		MaxDepth:       10,
		MaxOrphanRatio: 0.10,
	}
}

// TOCValidator validates table-of-contents entries.
type TOCValidator struct {
	th    TOCThresholds
	check *validator.Validate
}

func NewTOCValidator(th TOCThresholds) *TOCValidator {
	return &TOCValidator{th: th, check: validator.New()}
}

func (v *TOCValidator) Name() string { return "toc" }

func (v *TOCValidator) Validate(entries []doctree.TOCEntry) Report {
	r := newReport(v.Name())
	total := len(entries)

	if total < v.th.MinSections {
		r.fail(fmt.Sprintf("Insufficient sections: %d (minimum: %d)", total, v.th.MinSections))
	}

	maxDepth := 0
	orphans := 0
	seen := make(map[string]struct{}, total)
	duplicates := 0
	for _, e := range entries {
		if e.Level > maxDepth {
			maxDepth = e.Level
		}
		if e.Level > 1 && (e.ParentID == nil || *e.ParentID == "") {
			orphans++
		}
		if _, ok := seen[e.SectionID]; ok {
			duplicates++
		} else {
			seen[e.SectionID] = struct{}{}
		}
	}

	if maxDepth > v.th.MaxDepth {
		r.fail(fmt.Sprintf("Hierarchy too deep: %d levels (max: %d)", maxDepth, v.th.MaxDepth))
	}
	if float64(orphans) > float64(total)*v.th.MaxOrphanRatio {
		r.fail(fmt.Sprintf("Too many hierarchy issues: %d", orphans))
	}
	if missing := countInvalid(v.check, entries); missing > 0 {
		r.fail(fmt.Sprintf("Missing required fields in %d entries", missing))
	}
	if v.th.RejectDuplicates && duplicates > 0 {
		r.fail(fmt.Sprintf("Duplicate section IDs found: %d", duplicates))
	}

	r.Details["total_entries"] = total
	r.Details["max_depth"] = maxDepth
	r.Details["orphan_entries"] = orphans
	r.Details["duplicate_ids"] = duplicates
	return r.finish()
}
