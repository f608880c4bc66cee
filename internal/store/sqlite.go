package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/alfaia/alfaia/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS learner_profiles (
			learner_key TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			age INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			archived INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_activity_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS session_states (
			learner_key TEXT PRIMARY KEY,
			phase TEXT NOT NULL,
			pending_exercise_id TEXT NOT NULL DEFAULT '',
			version INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (learner_key) REFERENCES learner_profiles(learner_key)
		)`,
		`CREATE TABLE IF NOT EXISTS turns (
			turn_id TEXT PRIMARY KEY,
			learner_key TEXT NOT NULL,
			direction TEXT NOT NULL,
			modality TEXT NOT NULL,
			content TEXT NOT NULL,
			media_ref TEXT NOT NULL DEFAULT '',
			seq INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (learner_key) REFERENCES learner_profiles(learner_key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_turns_learner ON turns(learner_key, seq)`,
		`CREATE TABLE IF NOT EXISTS exercise_plans (
			exercise_id TEXT PRIMARY KEY,
			learner_key TEXT NOT NULL,
			passage_id TEXT NOT NULL,
			target_level INTEGER NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			passage TEXT NOT NULL,
			narration TEXT NOT NULL,
			image_prompt TEXT NOT NULL,
			image_ref TEXT NOT NULL DEFAULT '',
			narration_ref TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (learner_key) REFERENCES learner_profiles(learner_key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exercise_plans_learner ON exercise_plans(learner_key, created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// DB exposes the underlying handle for the vector index.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateProfile creates a new learner profile.
func (s *SQLiteStore) CreateProfile(ctx context.Context, profile *domain.LearnerProfile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO learner_profiles (learner_key, name, age, level, archived, created_at, last_activity_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		profile.LearnerKey, profile.Name, profile.Age, profile.Level, boolToInt(profile.Archived),
		profile.CreatedAt, profile.LastActivityAt)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a learner profile, or nil if the learner is unknown.
func (s *SQLiteStore) GetProfile(ctx context.Context, learnerKey string) (*domain.LearnerProfile, error) {
	var profile domain.LearnerProfile
	var archived int
	err := s.db.QueryRowContext(ctx,
		`SELECT learner_key, name, age, level, archived, created_at, last_activity_at
		 FROM learner_profiles WHERE learner_key = ?`,
		learnerKey).Scan(&profile.LearnerKey, &profile.Name, &profile.Age, &profile.Level,
		&archived, &profile.CreatedAt, &profile.LastActivityAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	profile.Archived = archived != 0
	return &profile, nil
}

// UpdateProfile writes the mutable profile fields.
func (s *SQLiteStore) UpdateProfile(ctx context.Context, profile *domain.LearnerProfile) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE learner_profiles SET name = ?, age = ?, level = ?, last_activity_at = ? WHERE learner_key = ?`,
		profile.Name, profile.Age, profile.Level, profile.LastActivityAt, profile.LearnerKey)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// ArchiveProfile marks a learner as archived. Profiles are never deleted.
func (s *SQLiteStore) ArchiveProfile(ctx context.Context, learnerKey string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE learner_profiles SET archived = 1 WHERE learner_key = ?`, learnerKey)
	if err != nil {
		return fmt.Errorf("failed to archive profile: %w", err)
	}
	return nil
}

// CreateSessionState creates the initial session state for a learner.
func (s *SQLiteStore) CreateSessionState(ctx context.Context, state *domain.SessionState) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_states (learner_key, phase, pending_exercise_id, version, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		state.LearnerKey, string(state.Phase), state.PendingExerciseID, state.Version, state.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session state: %w", err)
	}
	return nil
}

// GetSessionState retrieves the session state, or nil if none exists.
func (s *SQLiteStore) GetSessionState(ctx context.Context, learnerKey string) (*domain.SessionState, error) {
	var state domain.SessionState
	var phase string
	err := s.db.QueryRowContext(ctx,
		`SELECT learner_key, phase, pending_exercise_id, version, updated_at
		 FROM session_states WHERE learner_key = ?`,
		learnerKey).Scan(&state.LearnerKey, &phase, &state.PendingExerciseID, &state.Version, &state.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session state: %w", err)
	}
	state.Phase = domain.Phase(phase)
	return &state, nil
}

// UpdateSessionState commits a new session state conditioned on the version
// the caller read. On success the stored version is state.Version+1 and the
// struct is updated in place; a lost race returns *domain.StaleStateError.
func (s *SQLiteStore) UpdateSessionState(ctx context.Context, state *domain.SessionState) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE session_states
		 SET phase = ?, pending_exercise_id = ?, version = version + 1, updated_at = ?
		 WHERE learner_key = ? AND version = ?`,
		string(state.Phase), state.PendingExerciseID, state.UpdatedAt,
		state.LearnerKey, state.Version)
	if err != nil {
		return fmt.Errorf("failed to update session state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return &domain.StaleStateError{LearnerKey: state.LearnerKey, Version: state.Version}
	}
	state.Version++
	return nil
}

// AppendTurn appends one turn to the history log. A duplicate turn id means
// the transport delivered the same logical turn twice; that surfaces as a
// *domain.StaleStateError so the caller does not commit a second transition.
func (s *SQLiteStore) AppendTurn(ctx context.Context, turn *domain.Turn) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (turn_id, learner_key, direction, modality, content, media_ref, seq, created_at)
		 VALUES (?, ?, ?, ?, ?, ?,
		         (SELECT COALESCE(MAX(seq), 0) + 1 FROM turns WHERE learner_key = ?), ?)`,
		turn.TurnID, turn.LearnerKey, string(turn.Direction), string(turn.Modality),
		turn.Content, turn.MediaRef, turn.LearnerKey, turn.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return &domain.StaleStateError{LearnerKey: turn.LearnerKey}
		}
		return fmt.Errorf("failed to append turn: %w", err)
	}
	return nil
}

// GetTurns returns the most recent turns in chronological order.
func (s *SQLiteStore) GetTurns(ctx context.Context, learnerKey string, limit int) ([]domain.Turn, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT turn_id, learner_key, direction, modality, content, media_ref, created_at
		 FROM (SELECT * FROM turns WHERE learner_key = ? ORDER BY seq DESC LIMIT ?)
		 ORDER BY seq ASC`,
		learnerKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.Turn
	for rows.Next() {
		var turn domain.Turn
		var direction, modality string
		if err := rows.Scan(&turn.TurnID, &turn.LearnerKey, &direction, &modality,
			&turn.Content, &turn.MediaRef, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turn.Direction = domain.Direction(direction)
		turn.Modality = domain.Modality(modality)
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

// CreateExercisePlan stores a new exercise plan.
func (s *SQLiteStore) CreateExercisePlan(ctx context.Context, plan *domain.ExercisePlan) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exercise_plans (exercise_id, learner_key, passage_id, target_level, title,
		                             passage, narration, image_prompt, image_ref, narration_ref, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ExerciseID, plan.LearnerKey, plan.PassageID, plan.TargetLevel, plan.Title,
		plan.Passage, plan.Narration, plan.ImagePrompt, plan.ImageRef, plan.NarrationRef, plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create exercise plan: %w", err)
	}
	return nil
}

// GetExercisePlan retrieves a plan by id, or nil if unknown.
func (s *SQLiteStore) GetExercisePlan(ctx context.Context, exerciseID string) (*domain.ExercisePlan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT exercise_id, learner_key, passage_id, target_level, title, passage, narration,
		        image_prompt, image_ref, narration_ref, created_at
		 FROM exercise_plans WHERE exercise_id = ?`, exerciseID)
	return scanExercisePlan(row)
}

// GetLatestExercisePlan retrieves the most recently created plan for a
// learner, or nil if they have none.
func (s *SQLiteStore) GetLatestExercisePlan(ctx context.Context, learnerKey string) (*domain.ExercisePlan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT exercise_id, learner_key, passage_id, target_level, title, passage, narration,
		        image_prompt, image_ref, narration_ref, created_at
		 FROM exercise_plans WHERE learner_key = ? ORDER BY created_at DESC, exercise_id DESC LIMIT 1`,
		learnerKey)
	return scanExercisePlan(row)
}

// RecentPassageIDs returns the passage ids of the learner's most recent
// plans, newest first. Used to avoid repeating passages.
func (s *SQLiteStore) RecentPassageIDs(ctx context.Context, learnerKey string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT passage_id FROM exercise_plans WHERE learner_key = ?
		 ORDER BY created_at DESC, exercise_id DESC LIMIT ?`,
		learnerKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent passage ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan passage id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountExercisePlans returns how many plans a learner has received.
func (s *SQLiteStore) CountExercisePlans(ctx context.Context, learnerKey string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM exercise_plans WHERE learner_key = ?`, learnerKey).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count exercise plans: %w", err)
	}
	return count, nil
}

func scanExercisePlan(row *sql.Row) (*domain.ExercisePlan, error) {
	var plan domain.ExercisePlan
	err := row.Scan(&plan.ExerciseID, &plan.LearnerKey, &plan.PassageID, &plan.TargetLevel,
		&plan.Title, &plan.Passage, &plan.Narration, &plan.ImagePrompt,
		&plan.ImageRef, &plan.NarrationRef, &plan.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan exercise plan: %w", err)
	}
	return &plan, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
