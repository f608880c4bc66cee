// Package domain defines the core domain models for the literacy orchestrator.
package domain

// Phase represents one state of the literacy journey.
type Phase string

const (
	PhaseGreeting          Phase = "greeting"
	PhaseCollectingProfile Phase = "collecting_profile"
	PhaseReadingAssessment Phase = "reading_assessment"
	PhaseExerciseLoop      Phase = "exercise_loop"
	PhaseEvaluation        Phase = "evaluation"
	PhaseFreeConversation  Phase = "free_conversation"
)

// phaseOrder assigns each phase its position on the journey. Transitions only
// move forward; exercise_loop and free_conversation may self-loop.
var phaseOrder = map[Phase]int{
	PhaseGreeting:          0,
	PhaseCollectingProfile: 1,
	PhaseReadingAssessment: 2,
	PhaseExerciseLoop:      3,
	PhaseEvaluation:        4,
	PhaseFreeConversation:  5,
}

// CanTransition reports whether moving from p to next is a legal step:
// staying in place, or advancing exactly one position.
func (p Phase) CanTransition(next Phase) bool {
	from, ok := phaseOrder[p]
	if !ok {
		return false
	}
	to, ok := phaseOrder[next]
	if !ok {
		return false
	}
	if from == to {
		return p == next
	}
	return to == from+1
}

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	_, ok := phaseOrder[p]
	return ok
}

// Direction represents whether a turn was received or sent.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Modality represents the media kind of a turn.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityAudio Modality = "audio"
	ModalityImage Modality = "image"
)

// DecisionKind tags the composer variants.
type DecisionKind string

const (
	DecisionTextOnly               DecisionKind = "text_only"
	DecisionAudioOnly              DecisionKind = "audio_only"
	DecisionImageWithCaption       DecisionKind = "image_with_caption"
	DecisionAudioThenImage         DecisionKind = "audio_then_image"
	DecisionReadingExercisePackage DecisionKind = "reading_exercise_package"
)
