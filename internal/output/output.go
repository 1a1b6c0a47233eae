// Package output writes records as JSON Lines and reports as indented JSON.
package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// File names produced by a run.
const (
	TOCFile     = "usb_pd_toc.jsonl"
	ContentFile = "usb_pd_spec.jsonl"
	ReportFile  = "validation_report.json"
	SummaryFile = "execution_summary.json"
)

// WriteStats describes one written file.
type WriteStats struct {
	Path  string `json:"path"`
	Lines int    `json:"lines"`
	Bytes int64  `json:"bytes"`
}

// Metadata is stamped into every report file.
type Metadata struct {
	GeneratedAt string `json:"generated_at"`
	OutputPath  string `json:"output_path"`
	Format      string `json:"format"`
}

// EncodeJSONL writes one JSON object per line. Non-ASCII text and HTML
// characters are written as-is.
func EncodeJSONL[T any](w io.Writer, records []T) (int, error) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i := range records {
		if err := enc.Encode(records[i]); err != nil {
			return i, fmt.Errorf("encode record %d: %w", i, err)
		}
	}
	return len(records), nil
}

// WriteJSONL writes records to path, creating parent directories.
func WriteJSONL[T any](path string, records []T) (WriteStats, error) {
	st := WriteStats{Path: path}
	err := writeFile(path, func(w io.Writer) error {
		n, err := EncodeJSONL(w, records)
		st.Lines = n
		return err
	})
	if err != nil {
		return st, err
	}
	st.Bytes, err = fileSize(path)
	return st, err
}

// ReadJSONL decodes one record per non-blank line of the file at path.
func ReadJSONL[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []T
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var rec T
		if err := json.Unmarshal(b, &rec); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// WriteJSON writes v with two-space indentation and a "metadata" key
// alongside v's own top-level fields. v must encode as a JSON object.
func WriteJSON(path string, v any) (WriteStats, error) {
	st := WriteStats{Path: path}

	body, err := withMetadata(v, Metadata{
		GeneratedAt: time.Now().Format(time.RFC3339),
		OutputPath:  path,
		Format:      "json",
	})
	if err != nil {
		return st, err
	}

	err = writeFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(body)
	})
	if err != nil {
		return st, err
	}
	st.Lines = 1
	st.Bytes, err = fileSize(path)
	return st, err
}

func withMetadata(v any, meta Metadata) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	var fields map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("report is not a json object: %w", err)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}
	m, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	fields["metadata"] = m
	return fields, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
