package core

import (
	"sync"

	"github.com/dkeye/Activities/internal/domain"
	"github.com/rs/zerolog/log"
)

// activityImpl is a threadsafe in-memory activity.
type activityImpl struct {
	mu       sync.RWMutex
	activity *domain.Activity
}

func NewActivityService(a *domain.Activity) ActivityService {
	return &activityImpl{activity: a}
}

func (s *activityImpl) Name() domain.ActivityName { return s.activity.Name }

func (s *activityImpl) Snapshot() domain.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activity.Clone()
}

func (s *activityImpl) ParticipantCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activity.Participants)
}

func (s *activityImpl) Join(email domain.Email, admit Admitter) (domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.activity
	if a.Has(email) {
		return domain.Activity{}, domain.NewAlreadySignedUp(a.Name, email)
	}
	if admit != nil {
		if err := admit.Admit(*a, email); err != nil {
			return domain.Activity{}, err
		}
	}
	a.Add(email)
	a.Version++
	log.Debug().Str("module", "core.activity").Str("activity", string(a.Name)).Str("email", string(email)).Int("count", len(a.Participants)).Msg("participant added")
	return a.Clone(), nil
}

func (s *activityImpl) Leave(email domain.Email) (domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.activity
	if !a.Remove(email) {
		return domain.Activity{}, domain.NewNotSignedUp(a.Name, email)
	}
	a.Version++
	log.Debug().Str("module", "core.activity").Str("activity", string(a.Name)).Str("email", string(email)).Int("count", len(a.Participants)).Msg("participant removed")
	return a.Clone(), nil
}
