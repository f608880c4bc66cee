// Package evaluate scores a transcribed reading attempt against the expected
// passage and maps the score through the level-transition policy. Pure
// functions; deterministic given their inputs.
package evaluate

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/alfaia/alfaia/internal/domain"
)

// Level-transition thresholds. The band between them is hysteresis: border
// scores never oscillate the level.
const (
	UpperThreshold = 0.8
	LowerThreshold = 0.4
)

// Result holds the outcome of scoring one attempt.
type Result struct {
	// Score is the normalized similarity in [0, 1].
	Score float64
	// ExpectedWords and AttemptWords are the normalized token counts.
	ExpectedWords int
	AttemptWords  int
	// Missing words appear in the passage but not the attempt; Extra is the
	// reverse. Both are capped for feedback readability.
	Missing []string
	Extra   []string
}

// ScoreAttempt compares the expected passage with the learner's transcribed
// attempt. Returns domain.ErrEvaluationIndeterminate when the attempt carries
// no usable words; the caller must treat that as a neutral score.
func ScoreAttempt(expected, attempt string) (Result, error) {
	expectedNorm := Normalize(expected)
	attemptNorm := Normalize(attempt)

	expectedWords := strings.Fields(expectedNorm)
	attemptWords := strings.Fields(attemptNorm)

	if len(attemptWords) == 0 {
		return Result{}, domain.ErrEvaluationIndeterminate
	}

	result := Result{
		ExpectedWords: len(expectedWords),
		AttemptWords:  len(attemptWords),
		Missing:       diffWords(expectedWords, attemptWords),
		Extra:         diffWords(attemptWords, expectedWords),
	}

	longest := len([]rune(expectedNorm))
	if l := len([]rune(attemptNorm)); l > longest {
		longest = l
	}
	if longest == 0 {
		return Result{}, domain.ErrEvaluationIndeterminate
	}

	distance := levenshtein.ComputeDistance(expectedNorm, attemptNorm)
	result.Score = 1.0 - float64(distance)/float64(longest)
	if result.Score < 0 {
		result.Score = 0
	}
	return result, nil
}

// NextLevel maps a score through the fixed level-transition policy:
// score >= UpperThreshold advances one level, score <= LowerThreshold drops
// one level, anything strictly between leaves the level unchanged.
func NextLevel(level int, score float64) int {
	switch {
	case score >= UpperThreshold:
		return domain.ClampLevel(level + 1)
	case score <= LowerThreshold:
		return domain.ClampLevel(level - 1)
	default:
		return domain.ClampLevel(level)
	}
}

// InitialLevel maps a baseline assessment score to a starting proficiency
// level on the ordinal scale.
func InitialLevel(score float64) int {
	switch {
	case score >= UpperThreshold:
		return 3
	case score >= 0.5:
		return 2
	default:
		return domain.MinLevel
	}
}

// Normalize lowercases, strips punctuation and diacritics, and collapses
// whitespace so transcription artifacts do not count as reading errors.
func Normalize(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if repl, ok := diacritics[r]; ok {
			b.WriteRune(repl)
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
			continue
		}
		if r == '\n' || r == '\t' {
			b.WriteRune(' ')
		}
		// Everything else (punctuation, symbols) is dropped.
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

var diacritics = map[rune]rune{
	'á': 'a', 'à': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
	'ç': 'c', 'ñ': 'n',
}

const diffCap = 5

// diffWords returns words of a that are absent from b, capped to keep
// feedback messages short.
func diffWords(a, b []string) []string {
	present := make(map[string]bool, len(b))
	for _, w := range b {
		present[w] = true
	}
	var missing []string
	seen := make(map[string]bool)
	for _, w := range a {
		if !present[w] && !seen[w] {
			seen[w] = true
			missing = append(missing, w)
			if len(missing) == diffCap {
				break
			}
		}
	}
	return missing
}
