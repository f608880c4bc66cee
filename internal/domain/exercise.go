package domain

import "time"

// ExercisePlan records one reading exercise handed to a learner: the passage
// they must read aloud, the narration script the assistant speaks first, and
// the prompt used to illustrate it. Plans are never mutated after creation;
// they are kept for audit and for scoring the learner's attempt.
type ExercisePlan struct {
	ExerciseID   string    `json:"exercise_id"`
	LearnerKey   string    `json:"learner_key"`
	PassageID    string    `json:"passage_id"`
	TargetLevel  int       `json:"target_level"`
	Title        string    `json:"title"`
	Passage      string    `json:"passage"`
	Narration    string    `json:"narration"`
	ImagePrompt  string    `json:"image_prompt"`
	ImageRef     string    `json:"image_ref,omitempty"`
	NarrationRef string    `json:"narration_ref,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
