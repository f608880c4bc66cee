package domain

import "testing"

func TestCanTransitionForwardOnly(t *testing.T) {
	cases := []struct {
		from, to Phase
		want     bool
	}{
		{PhaseGreeting, PhaseCollectingProfile, true},
		{PhaseCollectingProfile, PhaseReadingAssessment, true},
		{PhaseReadingAssessment, PhaseExerciseLoop, true},
		{PhaseExerciseLoop, PhaseEvaluation, true},
		{PhaseEvaluation, PhaseFreeConversation, true},

		// Self-loops are always legal.
		{PhaseCollectingProfile, PhaseCollectingProfile, true},
		{PhaseExerciseLoop, PhaseExerciseLoop, true},
		{PhaseFreeConversation, PhaseFreeConversation, true},

		// Backward and skipping moves are not.
		{PhaseExerciseLoop, PhaseReadingAssessment, false},
		{PhaseFreeConversation, PhaseGreeting, false},
		{PhaseGreeting, PhaseReadingAssessment, false},
		{PhaseCollectingProfile, PhaseExerciseLoop, false},

		{Phase("bogus"), PhaseGreeting, false},
		{PhaseGreeting, Phase("bogus"), false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestClampLevel(t *testing.T) {
	for in, want := range map[int]int{-1: 1, 0: 1, 1: 1, 3: 3, 5: 5, 6: 5, 42: 5} {
		if got := ClampLevel(in); got != want {
			t.Errorf("ClampLevel(%d) = %d, want %d", in, got, want)
		}
	}
}
