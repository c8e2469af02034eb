package app

import (
	"github.com/dkeye/Activities/internal/core"
	"github.com/dkeye/Activities/internal/domain"
	"github.com/rs/zerolog/log"
)

// CapacityPolicy decides what max_participants means at signup time.
type CapacityPolicy interface {
	core.Admitter
}

// InformationalCapacity admits everyone; capacity is only displayed.
type InformationalCapacity struct{}

func (InformationalCapacity) Admit(a domain.Activity, email domain.Email) error {
	if a.IsFull() {
		log.Warn().Str("module", "app.policy").Str("activity", string(a.Name)).Str("email", string(email)).Int("max", a.MaxParticipants).Msg("admitting past capacity")
	}
	return nil
}

// HardCapCapacity rejects signups once the activity is full.
type HardCapCapacity struct{}

func (HardCapCapacity) Admit(a domain.Activity, email domain.Email) error {
	if a.IsFull() {
		return domain.NewActivityFull(a.Name, email, a.MaxParticipants)
	}
	return nil
}

func PolicyFor(enforce bool) CapacityPolicy {
	if enforce {
		return HardCapCapacity{}
	}
	return InformationalCapacity{}
}
