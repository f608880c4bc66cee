package domain

// InboundTurn is one delivered learner message after the transport adapter
// has transcribed any audio payload. Text therefore always carries the
// modality-appropriate textual content.
type InboundTurn struct {
	TurnID     string   `json:"turn_id,omitempty"`
	LearnerKey string   `json:"learner_key"`
	Modality   Modality `json:"modality"`
	Text       string   `json:"text"`
}

// LearnerInfo is the inspection view of a learner: profile plus current
// session state.
type LearnerInfo struct {
	Profile *LearnerProfile `json:"profile"`
	State   *SessionState   `json:"state"`
}
