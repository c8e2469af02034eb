package core

import "github.com/dkeye/Activities/internal/domain"

// Admitter decides whether one more participant fits. It runs under the
// activity lock and must not call back into the activity.
type Admitter interface {
	Admit(a domain.Activity, email domain.Email) error
}

// ActivityService is the core-facing API of one activity.
// It owns the participant set; all mutations are serialized.
type ActivityService interface {
	Name() domain.ActivityName
	Snapshot() domain.Activity
	ParticipantCount() int

	// Join adds email unless present or rejected by admit (nil admits).
	Join(email domain.Email, admit Admitter) (domain.Activity, error)
	// Leave removes email if present.
	Leave(email domain.Email) (domain.Activity, error)
}
