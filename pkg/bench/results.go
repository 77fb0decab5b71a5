package bench

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// resultFields is the column order of every results file.
var resultFields = []string{
	"question", "correct_answer", "generated_answer", "execution_log", "total_tokens",
}

// WriteResults writes rows to a timestamped CSV under dir and returns
// the file path. label names the system that produced the answers
// (e.g. "metaroute", "mrp") so result files from different systems can
// sit in the same directory.
func WriteResults(dir, label, benchmark string, rows []Row) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create results dir: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("results_%s_%s_%s.csv", label, benchmark, timestamp))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create results file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(resultFields); err != nil {
		return "", fmt.Errorf("failed to write results header: %w", err)
	}
	for _, row := range rows {
		record := []string{row.Question, row.CorrectAnswer, row.GeneratedAnswer, row.ExecutionLog, row.TotalTokens}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write results row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush results file: %w", err)
	}
	return path, nil
}

// ReadResults reads a results CSV back as generic records, header
// included, preserving any extra columns a later stage appended.
func ReadResults(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}
	return records, nil
}
