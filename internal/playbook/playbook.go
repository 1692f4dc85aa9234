// Package playbook runs the bookstore's canonical sequence of queries,
// updates, aggregations and index operations as named steps.
package playbook

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Step is one named statement of the playbook.
type Step struct {
	Name string
	Run  func(ctx context.Context) (any, error)
}

// Result is the outcome of one step.
type Result struct {
	Step     string        `json:"step"`
	Result   any           `json:"result,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"-"`
}

// Failed reports whether the step returned an error.
func (r Result) Failed() bool {
	return r.Error != ""
}

// Select keeps the steps whose name starts with one of prefixes. No
// prefixes selects everything.
func Select(steps []Step, prefixes ...string) []Step {
	if len(prefixes) == 0 {
		return steps
	}
	var out []Step
	for _, s := range steps {
		for _, p := range prefixes {
			if p != "" && strings.HasPrefix(s.Name, p) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

type Runner struct {
	steps []Step
	log   zerolog.Logger
}

func NewRunner(steps []Step, log zerolog.Logger) *Runner {
	return &Runner{steps: steps, log: log.With().Str("component", "playbook").Logger()}
}

// Run executes the steps in order. A failing step is recorded and the run
// moves on; a cancelled ctx marks the remaining steps as failed.
func (r *Runner) Run(ctx context.Context) []Result {
	results := make([]Result, 0, len(r.steps))
	for _, s := range r.steps {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Step: s.Name, Error: err.Error()})
			continue
		}

		start := time.Now()
		value, err := s.Run(ctx)
		res := Result{Step: s.Name, Result: value, Duration: time.Since(start)}

		if err != nil {
			res.Result = nil
			res.Error = err.Error()
			r.log.Error().Err(err).Str("step", s.Name).Dur("duration", res.Duration).Msg("step failed")
		} else {
			r.log.Info().Str("step", s.Name).Dur("duration", res.Duration).Msg("step done")
		}
		results = append(results, res)
	}
	return results
}
