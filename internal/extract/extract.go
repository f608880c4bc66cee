// Package extract pulls structured profile fields out of free-form learner
// replies during onboarding. Pure functions; no I/O.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// ProfileInfo holds the fields detected in one message. Zero values mean the
// field was not found with acceptable confidence.
type ProfileInfo struct {
	Name string
	Age  int
}

var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(\d{1,3})\s*anos?\b`),
	regexp.MustCompile(`(?i)\btenho\s+(\d{1,3})\b`),
	regexp.MustCompile(`\b(\d{1,3})\s*$`),
	regexp.MustCompile(`^\s*(\d{1,3})\s*$`),
}

var namePatterns = []*regexp.Regexp{
	// Explicit introductions carry the most confidence.
	regexp.MustCompile(`(?i)(?:me chamo|meu nome é|meu nome e|nome é|eu sou o|eu sou a|sou o|sou a|sou)\s+([A-Za-zÀ-ÿ]+(?:\s+[A-Za-zÀ-ÿ]+)?)\s*(?:e\s|,|$)`),
	// Name immediately followed by age context.
	regexp.MustCompile(`(?i)([A-Za-zÀ-ÿ]{3,})\s+(?:e\s+tenho|,\s*tenho)`),
	// Capitalized name opening the message.
	regexp.MustCompile(`^([A-ZÀ-Ö][a-zà-ÿ]+(?:\s+[A-ZÀ-Ö][a-zà-ÿ]+)?)\s*(?:e\s|,|$)`),
	// A single capitalized word on its own.
	regexp.MustCompile(`^\s*([A-ZÀ-Ö][a-zà-ÿ]{2,})\s*$`),
	// Any capitalized word, lowest confidence.
	regexp.MustCompile(`\b([A-ZÀ-Ö][a-zà-ÿ]{2,})\b`),
}

// stopwords are capitalized words that are never names.
var stopwords = map[string]bool{
	"Oi": true, "Olá": true, "Ola": true, "Bom": true, "Boa": true,
	"Tenho": true, "Anos": true, "Ano": true, "Meu": true, "Minha": true,
	"Nome": true, "Idade": true, "Sou": true, "E": true, "Dia": true,
	"Tarde": true, "Noite": true,
}

// DetectNameAndAge scans one message for a name and an age. Both detections
// are independent; either may be missing.
func DetectNameAndAge(message string) ProfileInfo {
	return ProfileInfo{
		Name: detectName(message),
		Age:  detectAge(message),
	}
}

func detectAge(message string) int {
	for _, pattern := range agePatterns {
		match := pattern.FindStringSubmatch(message)
		if match == nil {
			continue
		}
		age, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if age >= 1 && age <= 120 {
			return age
		}
	}
	return 0
}

func detectName(message string) string {
	for _, pattern := range namePatterns {
		for _, match := range pattern.FindAllStringSubmatch(message, -1) {
			name := capitalize(strings.TrimSpace(match[1]))
			if len([]rune(name)) > 1 && !stopwords[name] {
				return name
			}
		}
	}
	return ""
}

// capitalize title-cases each word of a candidate name.
func capitalize(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, w := range words {
		runes := []rune(w)
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
