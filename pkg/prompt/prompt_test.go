package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRender_VerbatimSubstitution(t *testing.T) {
	lib := Defaults()

	query := `numbers: 3 8 3 8, operators: + - * /  "quotes" {{nested}}`
	got, err := lib.Render(Synthesis, map[string]string{"user_query": query})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(got, query) {
		t.Errorf("rendered prompt does not contain query verbatim:\n%s", got)
	}
	if strings.Contains(got, "{{user_query}}") {
		t.Error("placeholder left unsubstituted")
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	if _, err := Defaults().Render("no_such_template", nil); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestRender_MissingVarLeftInPlace(t *testing.T) {
	got, err := Defaults().Render(Execution, map[string]string{"user_query": "q"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(got, "{{strategy_name}}") {
		t.Error("unprovided placeholder should be left in place")
	}
}

func TestDefaults_CoreTemplatesPresent(t *testing.T) {
	lib := Defaults()
	for _, name := range []string{
		MetacognitiveEvaluation, StrategyScoring, StrategySelection,
		Verification, Synthesis, Execution, MRPEvaluation,
		JudgeRubric, JudgeBaselineRubric,
	} {
		if !lib.Has(name) {
			t.Errorf("built-in template %q missing", name)
		}
	}
}

func TestLoad_FileOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	custom := "Custom synthesis: {{user_query}}"
	if err := os.WriteFile(filepath.Join(dir, "synthesis.md"), []byte(custom), 0644); err != nil {
		t.Fatal(err)
	}

	lib, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got, err := lib.Render(Synthesis, map[string]string{"user_query": "abc"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "Custom synthesis: abc" {
		t.Errorf("Render() = %q, want override applied", got)
	}

	// Unrelated templates keep their defaults.
	if !lib.Has(Verification) {
		t.Error("default template lost after Load")
	}
}

func TestLoad_MissingDirUsesDefaults(t *testing.T) {
	lib, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !lib.Has(Synthesis) {
		t.Error("expected defaults when dir is missing")
	}
}
