package extract

import "testing"

func TestDetectNameAndAge(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantName string
		wantAge  int
	}{
		{"full introduction", "Meu nome é João e tenho 25 anos", "João", 25},
		{"name comma age", "Pedro, 45 anos", "Pedro", 45},
		{"sou with article", "Sou a Maria e tenho 30", "Maria", 30},
		{"name then number", "Pedro 45", "Pedro", 45},
		{"name only", "Meu nome é Maria", "Maria", 0},
		{"age only", "Tenho 35 anos", "", 35},
		{"bare number", "35", "", 35},
		{"me chamo", "me chamo Ana Paula", "Ana Paula", 0},
		{"greeting is not a name", "Bom dia", "", 0},
		{"unrealistic age ignored", "tenho 500 anos", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectNameAndAge(tt.message)
			if got.Name != tt.wantName {
				t.Errorf("DetectNameAndAge(%q).Name = %q, want %q", tt.message, got.Name, tt.wantName)
			}
			if got.Age != tt.wantAge {
				t.Errorf("DetectNameAndAge(%q).Age = %d, want %d", tt.message, got.Age, tt.wantAge)
			}
		})
	}
}

func TestDetectNameCapitalizesWords(t *testing.T) {
	got := DetectNameAndAge("meu nome é maria clara")
	if got.Name != "Maria Clara" {
		t.Fatalf("expected capitalized name, got %q", got.Name)
	}
}
