// Package domain contains entities and their invariants, no transport or locking.
package domain

import "fmt"

type (
	ActivityName string
	Email        string
)

// Activity is a named offering with a capacity and an ordered participant list.
type Activity struct {
	Name            ActivityName `json:"-"`
	Description     string       `json:"description"`
	Schedule        string       `json:"schedule"`
	MaxParticipants int          `json:"max_participants"`
	Participants    []Email      `json:"participants"`
	// Version counts mutations; it orders snapshots of the same activity.
	Version uint64 `json:"-"`
}

// NewActivity validates a seed entry. Participants are copied.
func NewActivity(name ActivityName, description, schedule string, maxParticipants int, participants []Email) (*Activity, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: activity name is empty", ErrInvalid)
	}
	if maxParticipants <= 0 {
		return nil, fmt.Errorf("%w: %s: max_participants must be positive, got %d", ErrInvalid, name, maxParticipants)
	}
	if len(participants) > maxParticipants {
		return nil, fmt.Errorf("%w: %s: %d participants exceed capacity %d", ErrInvalid, name, len(participants), maxParticipants)
	}
	seen := make(map[Email]struct{}, len(participants))
	out := make([]Email, 0, len(participants))
	for _, p := range participants {
		if p == "" {
			return nil, fmt.Errorf("%w: %s: empty participant email", ErrInvalid, name)
		}
		if _, dup := seen[p]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate participant %s", ErrInvalid, name, p)
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return &Activity{
		Name:            name,
		Description:     description,
		Schedule:        schedule,
		MaxParticipants: maxParticipants,
		Participants:    out,
	}, nil
}

func (a *Activity) Has(email Email) bool {
	return a.indexOf(email) >= 0
}

func (a *Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

func (a *Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// Clone returns a copy that shares no memory with a.
func (a *Activity) Clone() Activity {
	c := *a
	c.Participants = append(make([]Email, 0, len(a.Participants)), a.Participants...)
	return c
}

// Add appends email. The caller must have checked Has.
func (a *Activity) Add(email Email) {
	a.Participants = append(a.Participants, email)
}

// Remove deletes email keeping the order of the others.
func (a *Activity) Remove(email Email) bool {
	i := a.indexOf(email)
	if i < 0 {
		return false
	}
	a.Participants = append(a.Participants[:i], a.Participants[i+1:]...)
	return true
}

func (a *Activity) indexOf(email Email) int {
	for i, p := range a.Participants {
		if p == email {
			return i
		}
	}
	return -1
}
