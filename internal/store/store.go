// Package store defines the durable storage interface and its SQLite
// implementation.
package store

import (
	"context"
	"database/sql"

	"github.com/alfaia/alfaia/internal/domain"
)

// Store defines the interface for data persistence.
type Store interface {
	// Learner profile operations
	CreateProfile(ctx context.Context, profile *domain.LearnerProfile) error
	GetProfile(ctx context.Context, learnerKey string) (*domain.LearnerProfile, error)
	UpdateProfile(ctx context.Context, profile *domain.LearnerProfile) error
	ArchiveProfile(ctx context.Context, learnerKey string) error

	// Session state operations. UpdateSessionState performs a conditional
	// write on the version the caller read; a lost race returns
	// *domain.StaleStateError.
	CreateSessionState(ctx context.Context, state *domain.SessionState) error
	GetSessionState(ctx context.Context, learnerKey string) (*domain.SessionState, error)
	UpdateSessionState(ctx context.Context, state *domain.SessionState) error

	// History log operations. Turns are append-only; AppendTurn returns
	// *domain.StaleStateError when the turn id was already recorded
	// (duplicate delivery).
	AppendTurn(ctx context.Context, turn *domain.Turn) error
	GetTurns(ctx context.Context, learnerKey string, limit int) ([]domain.Turn, error)

	// Exercise plan operations
	CreateExercisePlan(ctx context.Context, plan *domain.ExercisePlan) error
	GetExercisePlan(ctx context.Context, exerciseID string) (*domain.ExercisePlan, error)
	GetLatestExercisePlan(ctx context.Context, learnerKey string) (*domain.ExercisePlan, error)
	RecentPassageIDs(ctx context.Context, learnerKey string, limit int) ([]string, error)
	CountExercisePlans(ctx context.Context, learnerKey string) (int, error)

	// DB exposes the underlying handle so the vector index can share it.
	DB() *sql.DB

	// Lifecycle
	Close() error
}
