// Package aiparse defines the contract a model-backed parser must satisfy
// and the fallback policy that keeps parsing available when the model is
// not.
package aiparse

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"todo-planner/internal/parser"
)

// Provenance records which parser produced a result. Callers use it to
// decide how much to trust the fields and whether to ask the user to
// confirm.
type Provenance string

const (
	ProvenanceAI       Provenance = "ai"
	ProvenanceFallback Provenance = "fallback"
)

// Adapter is implemented by hosted-model parsers. Parse must honor ctx
// cancellation; Confidence is the model's own estimate in [0,1].
type Adapter interface {
	Parse(ctx context.Context, text string, now time.Time) (task parser.ParsedTask, confidence float64, err error)
}

// Result is a parse outcome with its provenance. Confidence is meaningful
// only when Provenance is ai; the deterministic parser does not score
// itself.
type Result struct {
	Task       parser.ParsedTask
	Provenance Provenance
	Confidence float64
}

// Chain tries the AI adapter within Timeout and falls back to the
// deterministic parser on any failure, timeout or malformed response. With a
// nil adapter it is just the deterministic parser.
type Chain struct {
	AI      Adapter
	Timeout time.Duration
}

// Parse never fails: the deterministic fallback accepts any input.
func (c Chain) Parse(ctx context.Context, text string, now time.Time) Result {
	if c.AI != nil {
		aiCtx := ctx
		if c.Timeout > 0 {
			var cancel context.CancelFunc
			aiCtx, cancel = context.WithTimeout(ctx, c.Timeout)
			defer cancel()
		}
		task, confidence, err := c.AI.Parse(aiCtx, text, now)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("ai parse failed, falling back to deterministic parser")
		case !wellFormed(task):
			log.Warn().Msg("ai parse returned malformed task, falling back to deterministic parser")
		default:
			return Result{Task: task, Provenance: ProvenanceAI, Confidence: confidence}
		}
	}
	return Result{Task: parser.Parse(text, now), Provenance: ProvenanceFallback}
}

// wellFormed checks the ParsedTask shape contract: a non-empty title, and a
// valid rule exactly when the task is recurring.
func wellFormed(task parser.ParsedTask) bool {
	if task.Title == "" {
		return false
	}
	if task.IsRecurring != (task.Rule != nil) {
		return false
	}
	if task.Rule != nil && task.Rule.Validate() != nil {
		return false
	}
	return true
}
