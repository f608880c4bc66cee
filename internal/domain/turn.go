package domain

import "time"

// Turn is one inbound or outbound conversational unit. Turns are immutable
// once written; the history log for a learner is their ordered sequence and
// insertion order is the conversational record.
type Turn struct {
	TurnID     string    `json:"turn_id"`
	LearnerKey string    `json:"learner_key"`
	Direction  Direction `json:"direction"`
	Modality   Modality  `json:"modality"`
	Content    string    `json:"content"`
	MediaRef   string    `json:"media_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// MediaUnit is one deliverable piece of an outbound bundle. Data carries raw
// synthesized audio or generated image bytes; Text carries literal text or an
// image caption. The JSON encoding base64s Data for the transport.
type MediaUnit struct {
	Kind Modality `json:"kind"`
	Text string   `json:"text,omitempty"`
	Data []byte   `json:"data,omitempty"`
}

// OutboundBundle is the ordered list of media units produced for one inbound
// turn. Order is significant: the transport must deliver units in sequence.
type OutboundBundle struct {
	LearnerKey string      `json:"learner_key"`
	Phase      Phase       `json:"phase"`
	Units      []MediaUnit `json:"units"`
}

// Decision is the orchestrator's tagged output variant handed to the
// response composer. Which fields are meaningful depends on Kind:
//
//	TextOnly:               Text
//	AudioOnly:              Audio
//	ImageWithCaption:       Image, Caption
//	AudioThenImage:         Audio, Image
//	ReadingExercisePackage: Audio (narration), Image, Instruction
type Decision struct {
	Kind        DecisionKind
	Text        string
	Caption     string
	Instruction string
	Audio       []byte
	Image       []byte
}
