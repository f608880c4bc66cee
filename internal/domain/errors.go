package domain

import (
	"errors"
	"fmt"
)

// ErrEvaluationIndeterminate signals an attempt transcript that is empty or
// unusable. The caller treats it as a neutral score: no level change.
var ErrEvaluationIndeterminate = errors.New("evaluation indeterminate: attempt transcript unusable")

// ErrExtractionAmbiguous signals that the profile extractor could not parse
// name or age with confidence. Recovered by re-prompting, never escalated.
var ErrExtractionAmbiguous = errors.New("extraction ambiguous")

// StaleStateError reports a lost optimistic-concurrency race on the session
// state, including duplicate delivery of an already-committed turn. The
// caller must re-read state and retry.
type StaleStateError struct {
	LearnerKey string
	Version    int64
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("stale session state for learner %s at version %d", e.LearnerKey, e.Version)
}

// IsStaleState reports whether err is a lost state race.
func IsStaleState(err error) bool {
	var stale *StaleStateError
	return errors.As(err, &stale)
}

// AdapterError wraps a failed external generation, transcription or embedding
// call. The orchestrator recovers by degrading to a text-only response and
// keeping the phase unchanged.
type AdapterError struct {
	Op  string
	Err error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("adapter %s failed: %v", e.Op, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// IsAdapterFailure reports whether err originated in an external adapter.
func IsAdapterFailure(err error) bool {
	var ae *AdapterError
	return errors.As(err, &ae)
}
