// Package validate checks built TOC entries and content sections against
// structural and quality thresholds. Every rule runs on every call and each
// failing rule adds one message to the report.
package validate

import (
	"github.com/go-playground/validator/v10"
)

// Report is the outcome of one validation call.
type Report struct {
	Validator string         `json:"validator"`
	IsValid   bool           `json:"is_valid"`
	Errors    []string       `json:"errors"`
	Details   map[string]any `json:"details"`
}

// Validator checks a list of records of one kind.
type Validator[T any] interface {
	Name() string
	Validate(items []T) Report
}

func newReport(name string) Report {
	return Report{
		Validator: name,
		Errors:    []string{},
		Details:   make(map[string]any),
	}
}

func (r *Report) fail(msg string) {
	r.Errors = append(r.Errors, msg)
}

func (r *Report) finish() Report {
	r.IsValid = len(r.Errors) == 0
	return *r
}

// countInvalid returns how many items fail their struct validation tags.
func countInvalid[T any](v *validator.Validate, items []T) int {
	n := 0
	for i := range items {
		if err := v.Struct(&items[i]); err != nil {
			n++
		}
	}
	return n
}
