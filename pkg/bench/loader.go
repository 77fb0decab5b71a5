// Package bench loads benchmark datasets, runs them through a solver,
// and writes timestamped result files. Datasets live on disk in the
// formats their upstream distributions use (JSONL for most, one CSV,
// one JSON array); the loaders normalize everything to Problem.
package bench

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Problem is one benchmark item in normalized form. Context is empty
// for benchmarks without supporting passages.
type Problem struct {
	Question string
	Answer   string
	Context  string
}

// Benchmarks supported by Load.
var Benchmarks = []string{
	"gsm8k", "drop", "hotpotqa", "game_of_24", "mbpp", "humaneval", "trivia_cw",
}

// Load reads the named benchmark from dataDir and returns at most limit
// problems (limit <= 0 means all). dataDir is the benchmarks root; each
// benchmark keeps its files in its own subdirectory.
func Load(dataDir, name string, limit int) ([]Problem, error) {
	var (
		problems []Problem
		err      error
	)

	switch strings.ToLower(name) {
	case "gsm8k":
		problems, err = loadJSONL(filepath.Join(dataDir, "gsm8k", "test.jsonl"))
	case "drop":
		problems, err = loadJSONL(filepath.Join(dataDir, "drop", "dev.jsonl"))
	case "hotpotqa":
		problems, err = loadJSONL(filepath.Join(dataDir, "hotpotqa", "dev.jsonl"))
	case "game_of_24":
		problems, err = loadGameOf24(filepath.Join(dataDir, "game_of_24", "24.csv"))
	case "mbpp":
		problems, err = loadMBPP(filepath.Join(dataDir, "mbpp_humaneval", "sanitized-mbpp.json"), "test")
	case "humaneval":
		problems, err = loadHumanEval(filepath.Join(dataDir, "mbpp_humaneval", "humaneval.jsonl"))
	case "trivia_cw":
		problems, err = loadJSONL(filepath.Join(dataDir, "trivia_cw", "test.jsonl"))
	default:
		return nil, fmt.Errorf("unknown benchmark %q (supported: %s)", name, strings.Join(Benchmarks, ", "))
	}
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(problems) > limit {
		problems = problems[:limit]
	}
	return problems, nil
}

// jsonlRecord covers the field variants across the JSONL benchmarks:
// most carry question/answer, DROP calls its context "passage", and
// HotpotQA nests context as [title, [sentences]] pairs.
type jsonlRecord struct {
	Question string          `json:"question"`
	Answer   string          `json:"answer"`
	Context  json.RawMessage `json:"context"`
	Passage  string          `json:"passage"`
}

func loadJSONL(path string) ([]Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open benchmark file: %w", err)
	}
	defer f.Close()

	var problems []Problem
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var rec jsonlRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
		}

		problems = append(problems, Problem{
			Question: rec.Question,
			Answer:   rec.Answer,
			Context:  normalizeContext(rec),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read benchmark file: %w", err)
	}
	return problems, nil
}

// normalizeContext flattens whichever context shape the record carries
// into a single string.
func normalizeContext(rec jsonlRecord) string {
	if len(rec.Context) == 0 {
		return rec.Passage
	}

	var asString string
	if err := json.Unmarshal(rec.Context, &asString); err == nil {
		return asString
	}

	// HotpotQA: [[title, [sentence, ...]], ...]. Keep the sentences,
	// drop the titles.
	var nested [][]json.RawMessage
	if err := json.Unmarshal(rec.Context, &nested); err == nil {
		var sentences []string
		for _, pair := range nested {
			if len(pair) < 2 {
				continue
			}
			var sents []string
			if err := json.Unmarshal(pair[1], &sents); err == nil {
				sentences = append(sentences, sents...)
			}
		}
		return strings.Join(sentences, " ")
	}

	return rec.Passage
}

// loadGameOf24 reads the 24.csv puzzle list and renders each puzzle
// into a question. The file has no reference answers.
func loadGameOf24(path string) ([]Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open benchmark file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	puzzleCol := -1
	for i, col := range records[0] {
		if strings.EqualFold(strings.TrimSpace(col), "Puzzles") {
			puzzleCol = i
			break
		}
	}
	if puzzleCol < 0 {
		return nil, fmt.Errorf("%s: no Puzzles column", filepath.Base(path))
	}

	var problems []Problem
	for _, record := range records[1:] {
		if puzzleCol >= len(record) {
			continue
		}
		numbers := strings.TrimSpace(record[puzzleCol])
		if numbers == "" {
			continue
		}
		problems = append(problems, Problem{
			Question: fmt.Sprintf("Use the numbers %s and the operations (+, -, *, /) to get 24. Each number must be used exactly once.", numbers),
		})
	}
	return problems, nil
}

// mbppRecord is one entry of the sanitized MBPP JSON array.
type mbppRecord struct {
	TaskID            string `json:"task_id"`
	Text              string `json:"text"`
	CanonicalSolution string `json:"canonical_solution"`
}

// loadMBPP reads the sanitized MBPP file and keeps only the requested
// split, identified by the task_id prefix.
func loadMBPP(path, split string) ([]Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open benchmark file: %w", err)
	}

	var records []mbppRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	prefix := "mbpp-" + split
	var problems []Problem
	for _, rec := range records {
		if !strings.HasPrefix(rec.TaskID, prefix) {
			continue
		}
		problems = append(problems, Problem{Question: rec.Text, Answer: rec.CanonicalSolution})
	}
	return problems, nil
}

func loadHumanEval(path string) ([]Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open benchmark file: %w", err)
	}
	defer f.Close()

	var problems []Problem
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec mbppRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		problems = append(problems, Problem{Question: rec.Text, Answer: rec.CanonicalSolution})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read benchmark file: %w", err)
	}
	return problems, nil
}
