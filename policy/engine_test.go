package policy

import (
	"context"
	"testing"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(context.Background(), DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return engine
}

func TestEvaluateGraduatesAtMastery(t *testing.T) {
	engine := newTestEngine(t)
	decision, err := engine.Evaluate(context.Background(), ProgressionInput{
		Phase:        "exercise_loop",
		Level:        4,
		MasteryLevel: 4,
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if decision != DecisionGraduate {
		t.Fatalf("expected graduate, got %q", decision)
	}
}

func TestEvaluateContinuesBelowMastery(t *testing.T) {
	engine := newTestEngine(t)
	decision, err := engine.Evaluate(context.Background(), ProgressionInput{
		Phase:        "exercise_loop",
		Level:        3,
		MasteryLevel: 4,
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if decision != DecisionContinue {
		t.Fatalf("expected continue, got %q", decision)
	}
}

func TestEvaluateIgnoresOtherPhases(t *testing.T) {
	engine := newTestEngine(t)
	decision, err := engine.Evaluate(context.Background(), ProgressionInput{
		Phase:        "free_conversation",
		Level:        5,
		MasteryLevel: 4,
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if decision != DecisionContinue {
		t.Fatalf("expected continue outside the exercise loop, got %q", decision)
	}
}
