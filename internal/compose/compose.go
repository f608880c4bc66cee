// Package compose turns handler decisions into ordered outbound media units.
// The unit order inside each decision is fixed, so a learner always receives
// an exercise the same way: narration first, then the illustration, then the
// written text.
package compose

import "github.com/alfaia/alfaia/internal/domain"

// Bundle flattens decisions into the outbound unit sequence. Decisions are
// emitted in the order given; units within a decision follow the variant's
// fixed layout. Empty payloads are skipped so a degraded decision never
// produces blank units.
func Bundle(decisions ...domain.Decision) []domain.MediaUnit {
	var units []domain.MediaUnit
	for _, d := range decisions {
		units = append(units, expand(d)...)
	}
	return units
}

func expand(d domain.Decision) []domain.MediaUnit {
	var units []domain.MediaUnit

	text := func(s string) {
		if s != "" {
			units = append(units, domain.MediaUnit{Kind: domain.ModalityText, Text: s})
		}
	}
	audio := func(b []byte) {
		if len(b) > 0 {
			units = append(units, domain.MediaUnit{Kind: domain.ModalityAudio, Data: b})
		}
	}
	image := func(b []byte, caption string) {
		if len(b) > 0 {
			units = append(units, domain.MediaUnit{Kind: domain.ModalityImage, Text: caption, Data: b})
		}
	}

	switch d.Kind {
	case domain.DecisionTextOnly:
		text(d.Text)
	case domain.DecisionAudioOnly:
		audio(d.Audio)
	case domain.DecisionImageWithCaption:
		image(d.Image, d.Caption)
	case domain.DecisionAudioThenImage:
		audio(d.Audio)
		image(d.Image, d.Caption)
	case domain.DecisionReadingExercisePackage:
		audio(d.Audio)
		image(d.Image, d.Caption)
		text(d.Text)
		text(d.Instruction)
	}
	return units
}
