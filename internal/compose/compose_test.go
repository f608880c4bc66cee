package compose

import (
	"testing"

	"github.com/alfaia/alfaia/internal/domain"
)

func kinds(units []domain.MediaUnit) []domain.Modality {
	out := make([]domain.Modality, len(units))
	for i, u := range units {
		out[i] = u.Kind
	}
	return out
}

func assertKinds(t *testing.T, units []domain.MediaUnit, want ...domain.Modality) {
	t.Helper()
	got := kinds(units)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unit %d: got %v, want %v", i, got, want)
		}
	}
}

func TestBundleTextOnly(t *testing.T) {
	units := Bundle(domain.Decision{Kind: domain.DecisionTextOnly, Text: "Olá, Maria!"})
	assertKinds(t, units, domain.ModalityText)
	if units[0].Text != "Olá, Maria!" {
		t.Fatalf("unexpected text %q", units[0].Text)
	}
}

func TestBundleAudioThenImage(t *testing.T) {
	units := Bundle(domain.Decision{
		Kind:    domain.DecisionAudioThenImage,
		Audio:   []byte{1},
		Image:   []byte{2},
		Caption: "legenda",
	})
	assertKinds(t, units, domain.ModalityAudio, domain.ModalityImage)
	if units[1].Text != "legenda" {
		t.Fatalf("caption should ride on the image unit, got %q", units[1].Text)
	}
}

func TestBundleReadingExercisePackageOrder(t *testing.T) {
	units := Bundle(domain.Decision{
		Kind:        domain.DecisionReadingExercisePackage,
		Audio:       []byte{1},
		Image:       []byte{2},
		Text:        "O sol brilha de dia.",
		Instruction: "Agora leia em voz alta.",
	})
	assertKinds(t, units,
		domain.ModalityAudio, domain.ModalityImage, domain.ModalityText, domain.ModalityText)
	if units[2].Text != "O sol brilha de dia." {
		t.Fatalf("passage text out of place: %q", units[2].Text)
	}
	if units[3].Text != "Agora leia em voz alta." {
		t.Fatalf("instruction out of place: %q", units[3].Text)
	}
}

func TestBundleSkipsEmptyPayloads(t *testing.T) {
	units := Bundle(domain.Decision{
		Kind: domain.DecisionReadingExercisePackage,
		Text: "O sol brilha de dia.",
	})
	// Audio and image failed upstream; the written passage still goes out.
	assertKinds(t, units, domain.ModalityText)
}

func TestBundleConcatenatesDecisions(t *testing.T) {
	units := Bundle(
		domain.Decision{Kind: domain.DecisionTextOnly, Text: "Parabéns!"},
		domain.Decision{Kind: domain.DecisionAudioOnly, Audio: []byte{9}},
	)
	assertKinds(t, units, domain.ModalityText, domain.ModalityAudio)
}
