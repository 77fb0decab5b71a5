// Package prompt stores named prompt templates. Templates are plain
// text with {{placeholder}} markers substituted verbatim, with no
// escaping or template language, so payloads reach the oracle
// byte-for-byte. A Library is built once at startup and never mutated
// afterwards.
package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Template names the core asks for.
const (
	MetacognitiveEvaluation = "metacognitive_evaluation"
	StrategyScoring         = "strategy_scoring"
	StrategySelection       = "strategy_selection"
	Verification            = "verification"
	Synthesis               = "synthesis"
	Execution               = "execution"
	MRPEvaluation           = "mrp_evaluation"
	JudgeRubric             = "judge_rubric"
	JudgeBaselineRubric     = "judge_baseline_rubric"
)

// Library holds an immutable set of named templates.
type Library struct {
	templates map[string]string
}

// Defaults returns a library containing the built-in templates.
func Defaults() *Library {
	templates := make(map[string]string, len(defaultTemplates))
	for name, text := range defaultTemplates {
		templates[name] = text
	}
	return &Library{templates: templates}
}

// Load returns the built-in templates overridden by any .md files in
// dir (the file stem is the template name). A missing dir is fine; a
// present but unreadable dir is not.
func Load(dir string) (*Library, error) {
	lib := Defaults()
	if dir == "" {
		return lib, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return lib, nil
		}
		return nil, fmt.Errorf("failed to read prompt dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", entry.Name(), err)
		}
		name := strings.TrimSuffix(entry.Name(), ".md")
		lib.templates[name] = string(data)
	}

	return lib, nil
}

// Has reports whether the library contains a template.
func (l *Library) Has(name string) bool {
	_, ok := l.templates[name]
	return ok
}

// Names returns the template names in the library, unsorted.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.templates))
	for name := range l.templates {
		names = append(names, name)
	}
	return names
}

// Render substitutes {{key}} markers in the named template with the
// given values, verbatim. Markers without a value are left in place.
func (l *Library) Render(name string, vars map[string]string) (string, error) {
	text, ok := l.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt template %q", name)
	}

	pairs := make([]string, 0, len(vars)*2)
	for key, value := range vars {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text), nil
}
