package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alfaia/alfaia/internal/adapter/openai"
	"github.com/alfaia/alfaia/internal/compose"
	"github.com/alfaia/alfaia/internal/domain"
	"github.com/alfaia/alfaia/internal/evaluate"
	"github.com/alfaia/alfaia/internal/extract"
	"github.com/alfaia/alfaia/policy"
)

// openaiMessage aliases the provider's chat message type for brevity.
type openaiMessage = openai.ChatMessage

// HandleInboundTurn processes one learner message through the current phase
// and returns the ordered outbound bundle. Exactly one session state write
// happens per call; duplicate turn ids and lost version races both surface as
// *domain.StaleStateError so the transport can tell the caller to retry with
// fresh state.
func (s *Service) HandleInboundTurn(ctx context.Context, in domain.InboundTurn) (*domain.OutboundBundle, error) {
	if in.LearnerKey == "" {
		return nil, fmt.Errorf("learner_key is required")
	}
	if in.TurnID == "" {
		in.TurnID = "trn_" + uuid.New().String()[:8]
	}
	if in.Modality == "" {
		in.Modality = domain.ModalityText
	}

	lock := s.lockFor(in.LearnerKey)
	lock.Lock()
	defer lock.Unlock()

	profile, state, err := s.loadOrCreate(ctx, in.LearnerKey)
	if err != nil {
		return nil, err
	}

	restarted := s.maybeRestart(profile, state)

	if err := s.store.AppendTurn(ctx, &domain.Turn{
		TurnID:     in.TurnID,
		LearnerKey: in.LearnerKey,
		Direction:  domain.DirectionIn,
		Modality:   in.Modality,
		Content:    in.Text,
		CreatedAt:  s.now(),
	}); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier(in.LearnerKey, s.config.AckText)
	}

	prevProfile := *profile
	prevState := *state
	decisions, err := s.route(ctx, profile, state, in)
	if err != nil {
		if !domain.IsAdapterFailure(err) {
			return nil, err
		}
		// An upstream model failed. Keep the phase where it is and apologize
		// in plain text so the learner can simply try again.
		s.logger.Warn("adapter failure, degrading to text reply",
			zap.String("learner_key", in.LearnerKey),
			zap.String("phase", string(prevState.Phase)),
			zap.Error(err))
		*profile = prevProfile
		*state = prevState
		decisions = []domain.Decision{{Kind: domain.DecisionTextOnly, Text: apologyText}}
	}

	if !prevState.Phase.CanTransition(state.Phase) {
		return nil, fmt.Errorf("illegal phase transition %s -> %s", prevState.Phase, state.Phase)
	}

	if restarted {
		decisions = append([]domain.Decision{{
			Kind: domain.DecisionTextOnly,
			Text: "Que bom ver você de novo! Vamos continuar de onde paramos.",
		}}, decisions...)
	}

	units := compose.Bundle(decisions...)
	for _, unit := range units {
		if err := s.store.AppendTurn(ctx, &domain.Turn{
			TurnID:     "trn_" + uuid.New().String()[:8],
			LearnerKey: in.LearnerKey,
			Direction:  domain.DirectionOut,
			Modality:   unit.Kind,
			Content:    unit.Text,
			MediaRef:   mediaRef(unit.Kind, unit.Data),
			CreatedAt:  s.now(),
		}); err != nil {
			return nil, fmt.Errorf("failed to record outbound turn: %w", err)
		}
	}

	state.UpdatedAt = s.now()
	if err := s.store.UpdateSessionState(ctx, state); err != nil {
		return nil, err
	}

	profile.LastActivityAt = s.now()
	if err := s.store.UpdateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.indexTurn(ctx, in.LearnerKey, in.TurnID, in.Text)
	for _, unit := range units {
		if unit.Kind == domain.ModalityText {
			s.indexTurn(ctx, in.LearnerKey, "", unit.Text)
		}
	}

	return &domain.OutboundBundle{
		LearnerKey: in.LearnerKey,
		Phase:      state.Phase,
		Units:      units,
	}, nil
}

// loadOrCreate fetches the learner's records, creating them on first contact.
func (s *Service) loadOrCreate(ctx context.Context, learnerKey string) (*domain.LearnerProfile, *domain.SessionState, error) {
	profile, err := s.store.GetProfile(ctx, learnerKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		now := s.now()
		profile = &domain.LearnerProfile{
			LearnerKey:     learnerKey,
			Level:          domain.MinLevel,
			CreatedAt:      now,
			LastActivityAt: now,
		}
		if err := s.store.CreateProfile(ctx, profile); err != nil {
			return nil, nil, fmt.Errorf("failed to create profile: %w", err)
		}
	}

	state, err := s.store.GetSessionState(ctx, learnerKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session state: %w", err)
	}
	if state == nil {
		state = &domain.SessionState{
			LearnerKey: learnerKey,
			Phase:      domain.PhaseGreeting,
			UpdatedAt:  s.now(),
		}
		if err := s.store.CreateSessionState(ctx, state); err != nil {
			return nil, nil, fmt.Errorf("failed to create session state: %w", err)
		}
	}
	return profile, state, nil
}

// maybeRestart rewinds an expired session. The profile and history survive;
// a learner with a complete profile lands in free conversation instead of
// being asked their name again.
func (s *Service) maybeRestart(profile *domain.LearnerProfile, state *domain.SessionState) bool {
	if state.Phase == domain.PhaseGreeting {
		return false
	}
	if profile.LastActivityAt.IsZero() || s.now().Sub(profile.LastActivityAt) < s.config.SessionExpiry {
		return false
	}
	if profile.ProfileComplete() {
		state.Phase = domain.PhaseFreeConversation
	} else {
		state.Phase = domain.PhaseGreeting
	}
	state.PendingExerciseID = ""
	return true
}

func (s *Service) route(ctx context.Context, profile *domain.LearnerProfile, state *domain.SessionState, in domain.InboundTurn) ([]domain.Decision, error) {
	switch state.Phase {
	case domain.PhaseGreeting:
		return s.handleGreeting(state)
	case domain.PhaseCollectingProfile:
		return s.handleCollectingProfile(ctx, profile, state, in)
	case domain.PhaseReadingAssessment:
		return s.handleReadingAssessment(ctx, profile, state, in)
	case domain.PhaseExerciseLoop:
		return s.handleExerciseLoop(ctx, profile, state, in)
	case domain.PhaseEvaluation:
		return s.handleEvaluation(ctx, profile, state)
	case domain.PhaseFreeConversation:
		return s.handleFreeConversation(ctx, profile, in)
	default:
		return nil, fmt.Errorf("unknown phase %q", state.Phase)
	}
}

func (s *Service) handleGreeting(state *domain.SessionState) ([]domain.Decision, error) {
	state.Phase = domain.PhaseCollectingProfile
	return []domain.Decision{{Kind: domain.DecisionTextOnly, Text: greetingText}}, nil
}

func (s *Service) handleCollectingProfile(ctx context.Context, profile *domain.LearnerProfile, state *domain.SessionState, in domain.InboundTurn) ([]domain.Decision, error) {
	info := extract.DetectNameAndAge(in.Text)
	if info.Name == "" && info.Age == 0 {
		s.logger.Debug("profile extraction found nothing",
			zap.String("learner_key", profile.LearnerKey),
			zap.Error(domain.ErrExtractionAmbiguous))
	}
	if info.Name != "" && profile.Name == "" {
		profile.Name = info.Name
	}
	if info.Age > 0 && profile.Age == 0 {
		profile.Age = info.Age
	}

	if !profile.ProfileComplete() {
		prompt := askAgeText
		if profile.Name == "" {
			prompt = askNameText
		}
		return []domain.Decision{{Kind: domain.DecisionTextOnly, Text: prompt}}, nil
	}

	plan := s.generator.AssessmentPlan(profile.LearnerKey)
	pkg, err := s.renderPackage(ctx, &plan)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateExercisePlan(ctx, &plan); err != nil {
		return nil, fmt.Errorf("failed to store assessment plan: %w", err)
	}
	state.PendingExerciseID = plan.ExerciseID
	state.Phase = domain.PhaseReadingAssessment
	return []domain.Decision{
		{Kind: domain.DecisionTextOnly, Text: profileWelcome(profile.Name)},
		pkg,
	}, nil
}

func (s *Service) handleReadingAssessment(ctx context.Context, profile *domain.LearnerProfile, state *domain.SessionState, in domain.InboundTurn) ([]domain.Decision, error) {
	plan, err := s.pendingPlan(ctx, state)
	if err != nil {
		return nil, err
	}

	result, err := evaluate.ScoreAttempt(plan.Passage, in.Text)
	if errors.Is(err, domain.ErrEvaluationIndeterminate) {
		return []domain.Decision{{Kind: domain.DecisionTextOnly, Text: retryReadingText}}, nil
	}
	if err != nil {
		return nil, err
	}

	profile.Level = evaluate.InitialLevel(result.Score)
	s.logger.Info("reading assessment scored",
		zap.String("learner_key", profile.LearnerKey),
		zap.Float64("score", result.Score),
		zap.Int("level", profile.Level))

	next := s.generator.Next(profile.LearnerKey, profile.Level, []string{plan.PassageID})
	pkg, err := s.renderPackage(ctx, &next)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateExercisePlan(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to store exercise plan: %w", err)
	}
	state.PendingExerciseID = next.ExerciseID
	state.Phase = domain.PhaseExerciseLoop
	return []domain.Decision{
		{Kind: domain.DecisionTextOnly, Text: assessmentFeedback(profile.Level)},
		pkg,
	}, nil
}

func (s *Service) handleExerciseLoop(ctx context.Context, profile *domain.LearnerProfile, state *domain.SessionState, in domain.InboundTurn) ([]domain.Decision, error) {
	plan, err := s.pendingPlan(ctx, state)
	if err != nil {
		return nil, err
	}

	result, err := evaluate.ScoreAttempt(plan.Passage, in.Text)
	if errors.Is(err, domain.ErrEvaluationIndeterminate) {
		return []domain.Decision{{Kind: domain.DecisionTextOnly, Text: retryReadingText}}, nil
	}
	if err != nil {
		return nil, err
	}

	newLevel := evaluate.NextLevel(profile.Level, result.Score)
	levelUp := newLevel > profile.Level
	levelDown := newLevel < profile.Level
	profile.Level = newLevel
	s.logger.Info("exercise scored",
		zap.String("learner_key", profile.LearnerKey),
		zap.String("exercise_id", plan.ExerciseID),
		zap.Float64("score", result.Score),
		zap.Int("level", newLevel))

	feedback := exerciseFeedback(result.Score, levelUp, levelDown)

	decision, err := s.policyEngine.Evaluate(ctx, policy.ProgressionInput{
		Phase:        string(state.Phase),
		Level:        newLevel,
		MasteryLevel: s.config.MasteryLevel,
	})
	if err != nil {
		s.logger.Warn("progression policy failed, continuing exercises", zap.Error(err))
		decision = policy.DecisionContinue
	}

	if decision == policy.DecisionGraduate {
		state.Phase = domain.PhaseEvaluation
		state.PendingExerciseID = ""
		return []domain.Decision{
			{Kind: domain.DecisionTextOnly, Text: feedback},
			{Kind: domain.DecisionTextOnly, Text: graduationInvite(profile.Name)},
		}, nil
	}

	recent, err := s.store.RecentPassageIDs(ctx, profile.LearnerKey, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent passages: %w", err)
	}
	next := s.generator.Next(profile.LearnerKey, newLevel, recent)
	pkg, err := s.renderPackage(ctx, &next)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateExercisePlan(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to store exercise plan: %w", err)
	}
	state.PendingExerciseID = next.ExerciseID
	return []domain.Decision{
		{Kind: domain.DecisionTextOnly, Text: feedback},
		pkg,
	}, nil
}

func (s *Service) handleEvaluation(ctx context.Context, profile *domain.LearnerProfile, state *domain.SessionState) ([]domain.Decision, error) {
	count, err := s.store.CountExercisePlans(ctx, profile.LearnerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to count exercises: %w", err)
	}

	summary := evaluationSummary(profile, count)
	audio, err := s.provider.Synthesize(ctx, summary)
	if err != nil {
		return nil, err
	}

	state.Phase = domain.PhaseFreeConversation
	return []domain.Decision{
		{Kind: domain.DecisionTextOnly, Text: summary},
		{Kind: domain.DecisionAudioOnly, Audio: audio},
	}, nil
}

func (s *Service) handleFreeConversation(ctx context.Context, profile *domain.LearnerProfile, in domain.InboundTurn) ([]domain.Decision, error) {
	snippets, err := s.index.Query(ctx, profile.LearnerKey, in.Text, s.config.RetrievalK)
	if err != nil {
		// Retrieval is best-effort; conversation continues without context.
		s.logger.Warn("retrieval failed", zap.String("learner_key", profile.LearnerKey), zap.Error(err))
		snippets = nil
	}

	turns, err := s.store.GetTurns(ctx, profile.LearnerKey, s.config.HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	messages := []openaiMessage{{Role: "system", Content: completionSystemPrompt(profile, snippets)}}
	for _, t := range turns {
		if t.Content == "" {
			continue
		}
		role := "user"
		if t.Direction == domain.DirectionOut {
			role = "assistant"
		}
		messages = append(messages, openaiMessage{Role: role, Content: t.Content})
	}

	reply, err := s.provider.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	// Re-reading the latest passage fluently still counts toward the level.
	// Ordinary chat never lowers it.
	if last, err := s.store.GetLatestExercisePlan(ctx, profile.LearnerKey); err == nil && last != nil {
		if result, err := evaluate.ScoreAttempt(last.Passage, in.Text); err == nil && result.Score >= evaluate.UpperThreshold {
			profile.Level = domain.ClampLevel(profile.Level + 1)
		}
	}

	return []domain.Decision{{Kind: domain.DecisionTextOnly, Text: reply}}, nil
}

// renderPackage synthesizes narration audio and the illustration for a plan
// and wraps them with the passage text in the fixed exercise layout.
func (s *Service) renderPackage(ctx context.Context, plan *domain.ExercisePlan) (domain.Decision, error) {
	audio, err := s.provider.Synthesize(ctx, plan.Narration)
	if err != nil {
		return domain.Decision{}, err
	}
	image, err := s.provider.GenerateImage(ctx, plan.ImagePrompt)
	if err != nil {
		return domain.Decision{}, err
	}
	plan.NarrationRef = mediaRef(domain.ModalityAudio, audio)
	plan.ImageRef = mediaRef(domain.ModalityImage, image)
	return domain.Decision{
		Kind:        domain.DecisionReadingExercisePackage,
		Audio:       audio,
		Image:       image,
		Caption:     plan.Title,
		Text:        plan.Passage,
		Instruction: exerciseInstruction,
	}, nil
}

func (s *Service) pendingPlan(ctx context.Context, state *domain.SessionState) (*domain.ExercisePlan, error) {
	if state.PendingExerciseID != "" {
		plan, err := s.store.GetExercisePlan(ctx, state.PendingExerciseID)
		if err != nil {
			return nil, fmt.Errorf("failed to get exercise plan: %w", err)
		}
		if plan != nil {
			return plan, nil
		}
	}
	plan, err := s.store.GetLatestExercisePlan(ctx, state.LearnerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest exercise plan: %w", err)
	}
	if plan == nil {
		return nil, fmt.Errorf("no exercise pending for learner %s", state.LearnerKey)
	}
	return plan, nil
}

// mediaRef derives a content-addressed reference for rendered media, so the
// history log and exercise plans can name a payload without storing it.
func mediaRef(kind domain.Modality, data []byte) string {
	if len(data) == 0 {
		return ""
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s_%x", kind, sum[:6])
}

// indexTurn adds a turn's text to the retrieval index, best-effort.
func (s *Service) indexTurn(ctx context.Context, learnerKey, sourceID, content string) {
	if content == "" {
		return
	}
	err := s.index.Add(ctx, domain.VectorRecord{
		LearnerKey: learnerKey,
		Source:     domain.VectorSourceTurn,
		SourceID:   sourceID,
		Content:    content,
		CreatedAt:  s.now(),
	})
	if err != nil {
		s.logger.Warn("failed to index turn", zap.String("learner_key", learnerKey), zap.Error(err))
	}
}
