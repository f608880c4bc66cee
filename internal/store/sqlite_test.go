package store

import (
	"context"
	"testing"
	"time"

	"github.com/alfaia/alfaia/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func seedLearner(t *testing.T, s *SQLiteStore, key string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	profile := &domain.LearnerProfile{
		LearnerKey:     key,
		Level:          domain.MinLevel,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if err := s.CreateProfile(ctx, profile); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
}

func TestSQLiteStoreProfileLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	missing, err := store.GetProfile(ctx, "nobody")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil profile for unknown learner, got %+v", missing)
	}

	seedLearner(t, store, "5511999990000")

	profile, err := store.GetProfile(ctx, "5511999990000")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile == nil || profile.Level != domain.MinLevel {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	profile.Name = "Maria"
	profile.Age = 35
	profile.Level = 2
	profile.LastActivityAt = time.Now()
	if err := store.UpdateProfile(ctx, profile); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	got, err := store.GetProfile(ctx, "5511999990000")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got.Name != "Maria" || got.Age != 35 || got.Level != 2 {
		t.Fatalf("unexpected profile after update: %+v", got)
	}

	if err := store.ArchiveProfile(ctx, "5511999990000"); err != nil {
		t.Fatalf("ArchiveProfile failed: %v", err)
	}
	got, _ = store.GetProfile(ctx, "5511999990000")
	if !got.Archived {
		t.Fatalf("expected archived profile, got %+v", got)
	}
}

func TestSQLiteStoreSessionStateVersionCheck(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()
	seedLearner(t, store, "l1")

	state := &domain.SessionState{
		LearnerKey: "l1",
		Phase:      domain.PhaseGreeting,
		UpdatedAt:  time.Now(),
	}
	if err := store.CreateSessionState(ctx, state); err != nil {
		t.Fatalf("CreateSessionState failed: %v", err)
	}

	loaded, err := store.GetSessionState(ctx, "l1")
	if err != nil {
		t.Fatalf("GetSessionState failed: %v", err)
	}
	if loaded.Version != 0 || loaded.Phase != domain.PhaseGreeting {
		t.Fatalf("unexpected state: %+v", loaded)
	}

	// Two writers holding the same read version: only one commits.
	first := *loaded
	second := *loaded

	first.Phase = domain.PhaseCollectingProfile
	first.UpdatedAt = time.Now()
	if err := store.UpdateSessionState(ctx, &first); err != nil {
		t.Fatalf("first UpdateSessionState failed: %v", err)
	}
	if first.Version != 1 {
		t.Fatalf("expected version 1 after commit, got %d", first.Version)
	}

	second.Phase = domain.PhaseCollectingProfile
	second.UpdatedAt = time.Now()
	err = store.UpdateSessionState(ctx, &second)
	if err == nil {
		t.Fatalf("expected stale state error for second writer")
	}
	if !domain.IsStaleState(err) {
		t.Fatalf("expected StaleStateError, got %v", err)
	}

	final, _ := store.GetSessionState(ctx, "l1")
	if final.Version != 1 {
		t.Fatalf("expected exactly one committed write, version=%d", final.Version)
	}
}

func TestSQLiteStoreTurnsAppendOnlyAndOrdered(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()
	seedLearner(t, store, "l1")

	contents := []string{"oi", "bem-vindo", "meu nome é Maria"}
	for i, c := range contents {
		turn := &domain.Turn{
			TurnID:     "trn_" + c,
			LearnerKey: "l1",
			Direction:  domain.DirectionIn,
			Modality:   domain.ModalityText,
			Content:    c,
			CreatedAt:  time.Now().Add(time.Duration(i) * time.Millisecond),
		}
		if err := store.AppendTurn(ctx, turn); err != nil {
			t.Fatalf("AppendTurn failed: %v", err)
		}
	}

	turns, err := store.GetTurns(ctx, "l1", 10)
	if err != nil {
		t.Fatalf("GetTurns failed: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	for i, c := range contents {
		if turns[i].Content != c {
			t.Fatalf("turn %d out of order: got %q want %q", i, turns[i].Content, c)
		}
	}

	// Duplicate turn id surfaces as a stale-state error.
	dup := &domain.Turn{
		TurnID:     "trn_oi",
		LearnerKey: "l1",
		Direction:  domain.DirectionIn,
		Modality:   domain.ModalityText,
		Content:    "oi",
		CreatedAt:  time.Now(),
	}
	err = store.AppendTurn(ctx, dup)
	if !domain.IsStaleState(err) {
		t.Fatalf("expected StaleStateError for duplicate turn, got %v", err)
	}
}

func TestSQLiteStoreExercisePlans(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()
	seedLearner(t, store, "l1")

	base := time.Now()
	for i, pid := range []string{"n1-sol-lua", "n1-casa", "n2-escola"} {
		plan := &domain.ExercisePlan{
			ExerciseID:  "exr_" + pid,
			LearnerKey:  "l1",
			PassageID:   pid,
			TargetLevel: 1 + i/2,
			Passage:     "texto",
			Narration:   "texto",
			ImagePrompt: "prompt",
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		}
		if err := store.CreateExercisePlan(ctx, plan); err != nil {
			t.Fatalf("CreateExercisePlan failed: %v", err)
		}
	}

	plan, err := store.GetExercisePlan(ctx, "exr_n1-casa")
	if err != nil {
		t.Fatalf("GetExercisePlan failed: %v", err)
	}
	if plan == nil || plan.PassageID != "n1-casa" {
		t.Fatalf("unexpected plan: %+v", plan)
	}

	latest, err := store.GetLatestExercisePlan(ctx, "l1")
	if err != nil {
		t.Fatalf("GetLatestExercisePlan failed: %v", err)
	}
	if latest == nil || latest.PassageID != "n2-escola" {
		t.Fatalf("unexpected latest plan: %+v", latest)
	}

	ids, err := store.RecentPassageIDs(ctx, "l1", 2)
	if err != nil {
		t.Fatalf("RecentPassageIDs failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "n2-escola" || ids[1] != "n1-casa" {
		t.Fatalf("unexpected recent ids: %v", ids)
	}

	count, err := store.CountExercisePlans(ctx, "l1")
	if err != nil {
		t.Fatalf("CountExercisePlans failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 plans, got %d", count)
	}
}
