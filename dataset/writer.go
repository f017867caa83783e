package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Writer is a dataset sink. Implementations are not safe for concurrent use;
// the generator funnels samples through a single collector.
type Writer interface {
	Write(s *Sample) error
	Close() error
}

// NewWriter opens a sink at path in the given format ("jsonl" or "csv").
func NewWriter(path, format string) (Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating dataset file: %w", err)
	}
	switch format {
	case "jsonl":
		return &jsonlWriter{f: f, enc: json.NewEncoder(f)}, nil
	case "csv":
		w := csv.NewWriter(f)
		if err := w.Write(csvHeader); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing csv header: %w", err)
		}
		return &csvWriter{f: f, w: w}, nil
	default:
		f.Close()
		return nil, fmt.Errorf("unknown dataset format %q", format)
	}
}

type jsonlWriter struct {
	f   *os.File
	enc *json.Encoder
}

func (w *jsonlWriter) Write(s *Sample) error {
	if err := w.enc.Encode(s); err != nil {
		return fmt.Errorf("encoding sample %s: %w", s.ID, err)
	}
	return nil
}

func (w *jsonlWriter) Close() error {
	return w.f.Close()
}

type csvWriter struct {
	f *os.File
	w *csv.Writer
}

func (w *csvWriter) Write(s *Sample) error {
	rec := []string{
		s.ID,
		s.Problem,
		s.Goal,
		strconv.Itoa(s.NumClauses),
		s.Proof,
		strconv.FormatInt(s.ElapsedMS, 10),
	}
	if err := w.w.Write(rec); err != nil {
		return fmt.Errorf("writing sample %s: %w", s.ID, err)
	}
	return nil
}

func (w *csvWriter) Close() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		w.f.Close()
		return fmt.Errorf("flushing csv: %w", err)
	}
	return w.f.Close()
}
