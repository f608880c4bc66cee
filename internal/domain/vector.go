package domain

import "time"

// Vector record sources. Curriculum records are shared across learners and
// carry an empty learner key.
const (
	VectorSourceTurn       = "turn"
	VectorSourceCurriculum = "curriculum"
)

// VectorRecord is one embedded text unit in the retrieval index. The index is
// a derived, rebuildable cache over the history log and curriculum content,
// never a source of truth.
type VectorRecord struct {
	LearnerKey string    `json:"learner_key,omitempty"`
	Source     string    `json:"source"`
	SourceID   string    `json:"source_id,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Snippet is one retrieval result with its similarity score (1 = identical).
type Snippet struct {
	Content    string  `json:"content"`
	Source     string  `json:"source"`
	Similarity float64 `json:"similarity"`
}
