package bench

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_GSM8K(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "gsm8k", "test.jsonl"),
		`{"question": "2+2?", "answer": "#### 4"}
{"question": "3+3?", "answer": "#### 6"}
`)

	problems, err := Load(dir, "gsm8k", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(problems) != 2 {
		t.Fatalf("got %d problems, want 2", len(problems))
	}
	if problems[0].Question != "2+2?" || problems[0].Answer != "#### 4" {
		t.Errorf("problem 0 = %+v", problems[0])
	}
	if problems[0].Context != "" {
		t.Errorf("gsm8k should have no context, got %q", problems[0].Context)
	}
}

func TestLoad_Limit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "gsm8k", "test.jsonl"),
		`{"question": "a", "answer": "1"}
{"question": "b", "answer": "2"}
{"question": "c", "answer": "3"}
`)

	problems, err := Load(dir, "gsm8k", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(problems) != 2 {
		t.Errorf("got %d problems, want 2", len(problems))
	}
}

func TestLoad_DropPassageBecomesContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "drop", "dev.jsonl"),
		`{"question": "How many yards?", "answer": "12", "passage": "The kicker made a 12-yard field goal."}
`)

	problems, err := Load(dir, "drop", 0)
	if err != nil {
		t.Fatal(err)
	}
	if problems[0].Context != "The kicker made a 12-yard field goal." {
		t.Errorf("Context = %q", problems[0].Context)
	}
}

func TestLoad_HotpotQANestedContextFlattens(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "hotpotqa", "dev.jsonl"),
		`{"question": "q", "answer": "a", "context": [["Title One", ["First sentence.", "Second sentence."]], ["Title Two", ["Third sentence."]]]}
`)

	problems, err := Load(dir, "hotpotqa", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := "First sentence. Second sentence. Third sentence."
	if problems[0].Context != want {
		t.Errorf("Context = %q, want %q", problems[0].Context, want)
	}
}

func TestLoad_GameOf24(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "game_of_24", "24.csv"),
		"Rank,Puzzles,AMT\n1,1 1 4 6,99.1\n2,1 1 11 11,99.6\n")

	problems, err := Load(dir, "game_of_24", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(problems) != 2 {
		t.Fatalf("got %d problems, want 2", len(problems))
	}
	if !strings.Contains(problems[0].Question, "1 1 4 6") {
		t.Errorf("Question = %q", problems[0].Question)
	}
	if !strings.Contains(problems[0].Question, "get 24") {
		t.Errorf("Question missing task framing: %q", problems[0].Question)
	}
}

func TestLoad_MBPPFiltersSplit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "mbpp_humaneval", "sanitized-mbpp.json"),
		`[
  {"task_id": "mbpp-test-1", "text": "Write max.", "canonical_solution": "def max_(a,b): ..."},
  {"task_id": "mbpp-train-1", "text": "Write min.", "canonical_solution": "def min_(a,b): ..."}
]`)

	problems, err := Load(dir, "mbpp", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1 (test split only)", len(problems))
	}
	if problems[0].Question != "Write max." {
		t.Errorf("Question = %q", problems[0].Question)
	}
}

func TestLoad_UnknownBenchmark(t *testing.T) {
	if _, err := Load(t.TempDir(), "nonexistent", 0); err == nil {
		t.Error("expected an error for an unknown benchmark")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(t.TempDir(), "gsm8k", 0); err == nil {
		t.Error("expected an error for a missing data file")
	}
}
