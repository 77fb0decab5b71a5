// Package strategy resolves reasoning-strategy names to instructional
// recipes and runs them through the oracle. Dispatch failures (empty
// or unknown strategy names) come back as inline error text, not Go
// errors, so batch runs keep progressing past a bad strategy name.
package strategy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zen-systems/metaroute/pkg/oracle"
	"github.com/zen-systems/metaroute/pkg/prompt"
)

// Dispatcher resolves a strategy name and produces an answer for a
// problem using that strategy's instructions.
type Dispatcher interface {
	// Run dispatches the named strategy. The answer may be inline
	// error text; usage covers whatever oracle calls were made.
	Run(ctx context.Context, strategyName, problem, contextText string) (string, oracle.Usage)
}

// RecipeDispatcher implements Dispatcher with a recipe registry built
// once at startup: built-in recipes overridden by .md files in a
// recipe directory.
type RecipeDispatcher struct {
	oracle  oracle.Port
	prompts *prompt.Library
	recipes map[string]string
}

// NewDispatcher creates a dispatcher with built-in recipes plus any
// overrides found in recipeDir (file stem = strategy name; a missing
// dir is fine).
func NewDispatcher(port oracle.Port, prompts *prompt.Library, recipeDir string) (*RecipeDispatcher, error) {
	recipes := make(map[string]string, len(defaultRecipes))
	for name, text := range defaultRecipes {
		recipes[name] = text
	}

	if recipeDir != "" {
		entries, err := os.ReadDir(recipeDir)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read recipe dir %s: %w", recipeDir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
				continue
			}
			data, err := os.ReadFile(filepath.Join(recipeDir, entry.Name()))
			if err != nil {
				return nil, fmt.Errorf("failed to read recipe file %s: %w", entry.Name(), err)
			}
			recipes[strings.TrimSuffix(entry.Name(), ".md")] = string(data)
		}
	}

	return &RecipeDispatcher{oracle: port, prompts: prompts, recipes: recipes}, nil
}

// Strategies returns the registered strategy names, unsorted.
func (d *RecipeDispatcher) Strategies() []string {
	names := make([]string, 0, len(d.recipes))
	for name := range d.recipes {
		names = append(names, name)
	}
	return names
}

// Run dispatches the named strategy against the problem.
func (d *RecipeDispatcher) Run(ctx context.Context, strategyName, problem, contextText string) (string, oracle.Usage) {
	if strings.TrimSpace(strategyName) == "" {
		return "Error: strategy name is missing.", oracle.Usage{}
	}

	key := normalizeName(strategyName)
	instructions, ok := d.recipes[key]
	if !ok {
		return fmt.Sprintf("Error: Recipe file for strategy '%s' not found.", strategyName), oracle.Usage{}
	}

	query := problem
	if contextText != "" {
		query = fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s", contextText, problem)
	}

	executionPrompt, err := d.prompts.Render(prompt.Execution, map[string]string{
		"strategy_name":         strategyName,
		"strategy_instructions": instructions,
		"user_query":            query,
	})
	if err != nil {
		return fmt.Sprintf("Error: %v", err), oracle.Usage{}
	}

	return d.oracle.Invoke(ctx, executionPrompt)
}

// normalizeName maps a strategy name to its recipe key: lower case,
// spaces collapsed to underscores ("Plan and Solve" -> "plan_and_solve").
func normalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
