// Package judge scores benchmark result files with one or more LLM
// judges. Each judge reads a rubric-rendered prompt per row and returns
// a structured verdict; verdicts are appended to the results file as
// extra columns so downstream analysis keeps everything in one place.
package judge

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/zen-systems/metaroute/pkg/extract"
	"github.com/zen-systems/metaroute/pkg/oracle"
	"github.com/zen-systems/metaroute/pkg/prompt"
)

// catastrophicVerdict is the fail-closed verdict recorded when a judge
// response cannot be decoded.
func catastrophicVerdict(routed bool) map[string]any {
	verdict := map[string]any{
		"task_success": map[string]any{
			"is_correct":              false,
			"is_catastrophic_failure": true,
			"reasoning":               "Failed to parse judge response.",
		},
	}
	if routed {
		verdict["strategy_quality"] = map[string]any{}
		verdict["decision_rationality"] = map[string]any{}
	}
	return verdict
}

// Judge scores result rows with a panel of judge models.
type Judge struct {
	ports   map[string]oracle.Port
	prompts *prompt.Library
	routed  bool
	debug   bool
}

// New creates a judge panel. ports maps a judge name to the port that
// answers for it. routed selects the rubric: routed results carry an
// execution log and are scored on strategy quality and decision
// rationality as well as task success; baseline results only on task
// success.
func New(ports map[string]oracle.Port, prompts *prompt.Library, routed, debug bool) *Judge {
	if prompts == nil {
		prompts = prompt.Defaults()
	}
	return &Judge{ports: ports, prompts: prompts, routed: routed, debug: debug}
}

// Evaluate scores every row of the results CSV at inputPath and writes
// an evaluated_<name> copy next to it with one evaluation_<judge>
// column per judge. It returns the output path.
func (j *Judge) Evaluate(ctx context.Context, inputPath string) (string, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return "", fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to parse results file: %w", err)
	}
	if len(records) < 1 {
		return "", fmt.Errorf("results file %s is empty", filepath.Base(inputPath))
	}

	header := records[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"question", "correct_answer", "generated_answer"} {
		if _, ok := col[required]; !ok {
			return "", fmt.Errorf("results file missing %q column", required)
		}
	}

	// Fixed judge order keeps column layout stable across runs.
	judgeNames := make([]string, 0, len(j.ports))
	for name := range j.ports {
		judgeNames = append(judgeNames, name)
	}
	sort.Strings(judgeNames)

	outHeader := append([]string{}, header...)
	for _, name := range judgeNames {
		outHeader = append(outHeader, "evaluation_"+name)
	}

	outRecords := [][]string{outHeader}
	for i, record := range records[1:] {
		if j.debug {
			log.Printf("[judge] row %d/%d", i+1, len(records)-1)
		}

		rubricPrompt, err := j.renderRubric(record, col)
		if err != nil {
			return "", err
		}

		outRecord := append([]string{}, record...)
		for _, name := range judgeNames {
			raw, _ := j.ports[name].Invoke(ctx, rubricPrompt)
			outRecord = append(outRecord, j.encodeVerdict(raw))
		}
		outRecords = append(outRecords, outRecord)
	}

	outputPath := filepath.Join(filepath.Dir(inputPath), "evaluated_"+filepath.Base(inputPath))
	if err := writeCSV(outputPath, outRecords); err != nil {
		return "", err
	}
	return outputPath, nil
}

func (j *Judge) renderRubric(record []string, col map[string]int) (string, error) {
	field := func(name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	vars := map[string]string{
		"question":         field("question"),
		"correct_answer":   field("correct_answer"),
		"generated_answer": field("generated_answer"),
	}
	rubric := prompt.JudgeBaselineRubric
	if j.routed {
		rubric = prompt.JudgeRubric
		vars["execution_log"] = field("execution_log")
		if vars["execution_log"] == "" {
			vars["execution_log"] = "{}"
		}
	}
	return j.prompts.Render(rubric, vars)
}

// encodeVerdict decodes a judge response and re-encodes the verdict as
// compact JSON for the CSV cell. Undecodable responses become the
// catastrophic-failure verdict.
func (j *Judge) encodeVerdict(raw string) string {
	verdict := j.parseVerdict(raw)
	data, err := json.Marshal(verdict)
	if err != nil {
		data, _ = json.Marshal(catastrophicVerdict(j.routed))
	}
	return string(data)
}

func (j *Judge) parseVerdict(raw string) any {
	doc, err := extract.Extract(raw)
	if err != nil || !doc.IsObject() {
		return catastrophicVerdict(j.routed)
	}
	return doc.Value()
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create evaluated file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write evaluated file: %w", err)
	}
	return nil
}
