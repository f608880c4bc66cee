// Package policy evaluates the learner progression policy with OPA. The
// graduation rule lives in rego so deployments can swap in their own
// curriculum rules without a rebuild.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Decision values returned by the progression policy.
const (
	DecisionContinue = "continue"
	DecisionGraduate = "graduate"
)

// ProgressionInput is the input document for the progression policy.
type ProgressionInput struct {
	Phase        string `json:"phase"`
	Level        int    `json:"level"`
	MasteryLevel int    `json:"mastery_level"`
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.progression.decision"),
		rego.Module("progression.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate runs the progression policy and returns the decision string.
// The policy defines a default, so an empty result set means a broken policy
// rather than a missing rule.
func (e *Engine) Evaluate(ctx context.Context, input ProgressionInput) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionContinue, nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return DecisionContinue, nil
}

// DefaultPolicy graduates a learner out of the exercise loop once their level
// reaches the configured mastery level.
const DefaultPolicy = `
package progression

default decision := "continue"

decision := "graduate" if {
	input.phase == "exercise_loop"
	input.level >= input.mastery_level
}
`
