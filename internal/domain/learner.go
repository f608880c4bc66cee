package domain

import "time"

// Proficiency level bounds. Levels are ordinal: 1 is a learner who cannot yet
// read simple words, 5 reads full paragraphs fluently.
const (
	MinLevel = 1
	MaxLevel = 5
)

// LearnerProfile is the durable identity record for one learner. It is
// created on first contact and never deleted, only archived.
type LearnerProfile struct {
	LearnerKey     string    `json:"learner_key"`
	Name           string    `json:"name,omitempty"`
	Age            int       `json:"age,omitempty"`
	Level          int       `json:"level"`
	Archived       bool      `json:"archived,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// ProfileComplete reports whether onboarding has collected both fields.
func (p *LearnerProfile) ProfileComplete() bool {
	return p.Name != "" && p.Age > 0
}

// SessionState is the single mutable, frequently written record per learner.
// Version increases by one on every committed write; writers must present the
// version they read, so concurrent duplicate deliveries lose the race instead
// of committing a second transition.
type SessionState struct {
	LearnerKey        string    `json:"learner_key"`
	Phase             Phase     `json:"phase"`
	PendingExerciseID string    `json:"pending_exercise_id,omitempty"`
	Version           int64     `json:"version"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ClampLevel bounds lvl to the ordinal scale.
func ClampLevel(lvl int) int {
	if lvl < MinLevel {
		return MinLevel
	}
	if lvl > MaxLevel {
		return MaxLevel
	}
	return lvl
}
