package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dgallion1/specindex/internal/doctree"
	"github.com/dgallion1/specindex/internal/output"
	"github.com/dgallion1/specindex/internal/report"
	"github.com/dgallion1/specindex/internal/validate"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "validate [dir]",
		Short: "Re-validate TOC and content files from a previous run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.OutputDir
			if len(args) == 1 {
				dir = args[0]
			}

			entries, err := output.ReadJSONL[doctree.TOCEntry](filepath.Join(dir, output.TOCFile))
			if err != nil {
				return err
			}
			sections, err := output.ReadJSONL[doctree.ContentSection](filepath.Join(dir, output.ContentFile))
			if err != nil {
				return err
			}

			tocReport := validate.NewTOCValidator(a.cfg.TOC).Validate(entries)
			contentReport := validate.NewContentValidator(a.cfg.Content).Validate(sections)

			docTitle := a.cfg.DocTitle
			if len(entries) > 0 && entries[0].DocTitle != "" {
				docTitle = entries[0].DocTitle
			}
			rep := report.NewGenerator(a.cfg.TOC.MinSections).Generate(report.Input{
				DocTitle:   docTitle,
				TOC:        entries,
				Content:    sections,
				Coverage:   previousCoverage(filepath.Join(dir, output.ReportFile)),
				Validation: []validate.Report{tocReport, contentReport},
			})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "toc entries:      %d (valid=%t)\n", len(entries), tocReport.IsValid)
			fmt.Fprintf(out, "content sections: %d (valid=%t)\n", len(sections), contentReport.IsValid)
			fmt.Fprintf(out, "status:           %s\n", rep.Status)
			printErrors(out, tocReport.Validator, tocReport.Errors)
			printErrors(out, contentReport.Validator, contentReport.Errors)

			if write {
				st, err := output.WriteJSON(filepath.Join(dir, output.ReportFile), rep)
				if err != nil {
					return err
				}
				a.log.Info("report written", "path", st.Path, "bytes", st.Bytes)
			}

			if !tocReport.IsValid || !contentReport.IsValid {
				return errInvalid
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "overwrite the validation report in dir")
	return cmd
}

// previousCoverage reads page coverage from an earlier report. Page text
// is not kept between runs, so a missing report yields zero coverage.
func previousCoverage(path string) doctree.PageCoverage {
	data, err := os.ReadFile(path)
	if err != nil {
		return doctree.PageCoverage{}
	}
	var prev report.Report
	if err := json.Unmarshal(data, &prev); err != nil {
		return doctree.PageCoverage{}
	}
	return prev.Summary.PageCoverage
}

func printErrors(w io.Writer, validator string, errs []string) {
	for _, e := range errs {
		fmt.Fprintf(w, "  %s: %s\n", validator, e)
	}
}
