package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Read loads a dataset, dispatching on the file extension: ".jsonl" is
// newline-delimited JSON, everything else is CSV.
func Read(path string) ([]Sample, int, error) {
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return ReadJSONL(path)
	}
	return ReadCSV(path)
}

// ReadCSV loads a CSV dataset. Malformed rows are skipped, not fatal; the
// skipped count lets callers warn about them.
func ReadCSV(path string) (samples []Sample, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if header {
			header = false
			if len(rec) > 0 && rec[0] == csvHeader[0] {
				continue
			}
		}
		s, ok := parseRecord(rec)
		if !ok {
			skipped++
			continue
		}
		samples = append(samples, s)
	}
	return samples, skipped, nil
}

// ReadJSONL loads a JSONL dataset. Like ReadCSV it skips and counts malformed
// lines rather than failing.
func ReadJSONL(path string) (samples []Sample, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var s Sample
		if err := json.Unmarshal([]byte(line), &s); err != nil || s.ID == "" || s.Problem == "" {
			skipped++
			continue
		}
		samples = append(samples, s)
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading dataset: %w", err)
	}
	return samples, skipped, nil
}

func parseRecord(rec []string) (Sample, bool) {
	if len(rec) != len(csvHeader) {
		return Sample{}, false
	}
	n, err := strconv.Atoi(rec[3])
	if err != nil {
		return Sample{}, false
	}
	ms, err := strconv.ParseInt(rec[5], 10, 64)
	if err != nil {
		return Sample{}, false
	}
	return Sample{
		ID:         rec[0],
		Problem:    rec[1],
		Goal:       rec[2],
		NumClauses: n,
		Proof:      rec[4],
		ElapsedMS:  ms,
	}, true
}
