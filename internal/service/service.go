// Package service implements the conversation orchestrator: it routes each
// inbound learner turn through the current phase of the literacy journey and
// produces the outbound media bundle.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alfaia/alfaia/config"
	"github.com/alfaia/alfaia/internal/adapter/openai"
	"github.com/alfaia/alfaia/internal/domain"
	"github.com/alfaia/alfaia/internal/exercise"
	"github.com/alfaia/alfaia/internal/store"
	"github.com/alfaia/alfaia/internal/vector"
	"github.com/alfaia/alfaia/policy"
)

// Notifier receives the acknowledgement message sent before slow media work
// begins. The HTTP transport leaves it nil; push-style transports set it.
type Notifier func(learnerKey, text string)

type Service struct {
	store        store.Store
	index        *vector.Index
	provider     openai.Provider
	generator    *exercise.Generator
	policyEngine *policy.Engine
	config       *config.Config
	logger       *zap.Logger

	notifier Notifier
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(st store.Store, index *vector.Index, provider openai.Provider, generator *exercise.Generator, policyEngine *policy.Engine, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		store:        st,
		index:        index,
		provider:     provider,
		generator:    generator,
		policyEngine: policyEngine,
		config:       cfg,
		logger:       logger,
		now:          time.Now,
		locks:        make(map[string]*sync.Mutex),
	}
}

// SetNotifier installs the acknowledgement hook.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// lockFor serializes processing per learner. Cross-process writers are still
// caught by the session state version check; the lock just avoids burning
// versions on same-process races. Mutexes are never evicted: the map holds
// one entry per learner seen since startup.
func (s *Service) lockFor(learnerKey string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[learnerKey]
	if !ok {
		l = &sync.Mutex{}
		s.locks[learnerKey] = l
	}
	return l
}

// TranscribeAudio converts learner audio into text via the provider.
func (s *Service) TranscribeAudio(ctx context.Context, audio []byte, filename string) (string, error) {
	return s.provider.Transcribe(ctx, audio, filename)
}

// GetLearnerInfo returns the learner's profile and session state.
func (s *Service) GetLearnerInfo(ctx context.Context, learnerKey string) (*domain.LearnerInfo, error) {
	profile, err := s.store.GetProfile(ctx, learnerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, nil
	}
	state, err := s.store.GetSessionState(ctx, learnerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get session state: %w", err)
	}
	return &domain.LearnerInfo{Profile: profile, State: state}, nil
}

// ResetLearner moves the learner back to the start of the journey. The
// profile and history are kept; only the session state is rewound.
func (s *Service) ResetLearner(ctx context.Context, learnerKey string) error {
	lock := s.lockFor(learnerKey)
	lock.Lock()
	defer lock.Unlock()

	state, err := s.store.GetSessionState(ctx, learnerKey)
	if err != nil {
		return fmt.Errorf("failed to get session state: %w", err)
	}
	if state == nil {
		return nil
	}
	state.Phase = domain.PhaseGreeting
	state.PendingExerciseID = ""
	state.UpdatedAt = s.now()
	if err := s.store.UpdateSessionState(ctx, state); err != nil {
		return err
	}
	s.logger.Info("learner reset", zap.String("learner_key", learnerKey))
	return nil
}
