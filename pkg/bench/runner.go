package bench

import (
	"context"
	"encoding/json"
	"log"

	"github.com/zen-systems/metaroute/pkg/session"
)

// Solver turns one problem into an answer with a trace and usage
// totals. The routing session satisfies this.
type Solver interface {
	Run(ctx context.Context, problem, contextText string) *session.Result
}

// Row is one line of a results file. ExecutionLog and TotalTokens are
// JSON-encoded so the CSV stays one row per problem.
type Row struct {
	Question        string
	CorrectAnswer   string
	GeneratedAnswer string
	ExecutionLog    string
	TotalTokens     string
}

// Runner drives a solver across a benchmark, one problem at a time.
// Problems are independent so a failing one only costs its own row.
type Runner struct {
	solver Solver
	debug  bool
}

// NewRunner creates a benchmark runner over a solver.
func NewRunner(solver Solver, debug bool) *Runner {
	return &Runner{solver: solver, debug: debug}
}

// Run solves every problem and returns one row per problem, in order.
// It stops early only when ctx is cancelled, returning the rows
// finished so far.
func (r *Runner) Run(ctx context.Context, problems []Problem) []Row {
	rows := make([]Row, 0, len(problems))
	for i, problem := range problems {
		if ctx.Err() != nil {
			log.Printf("[bench] cancelled after %d/%d problems", i, len(problems))
			break
		}
		if r.debug {
			log.Printf("[bench] problem %d/%d", i+1, len(problems))
		}

		result := r.solver.Run(ctx, problem.Question, problem.Context)

		tokens, err := json.Marshal(result.TotalUsage)
		if err != nil {
			tokens = []byte("{}")
		}
		rows = append(rows, Row{
			Question:        problem.Question,
			CorrectAnswer:   problem.Answer,
			GeneratedAnswer: result.FinalAnswer,
			ExecutionLog:    result.Trace.JSON(),
			TotalTokens:     string(tokens),
		})
	}
	return rows
}
