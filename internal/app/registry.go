package app

import (
	"fmt"
	"sync"

	"github.com/dkeye/Activities/internal/core"
	"github.com/dkeye/Activities/internal/domain"
	"github.com/rs/zerolog/log"
)

type ChangeKind string

const (
	ChangeSignup     ChangeKind = "signup"
	ChangeUnregister ChangeKind = "unregister"
)

// ChangeEvent describes one successful mutation. Snapshot is the activity
// state right after it. Events of one activity may reach observers out of
// order; Version is strictly increasing per activity, so observers keep the
// highest one they have seen.
type ChangeEvent struct {
	Kind     ChangeKind
	Activity domain.ActivityName
	Email    domain.Email
	Version  uint64
	Snapshot domain.Activity
}

type Observer interface {
	OnChange(ev ChangeEvent)
}

type ObserverFunc func(ev ChangeEvent)

func (f ObserverFunc) OnChange(ev ChangeEvent) { f(ev) }

// Registry is the fixed catalog of activities. The set of activities never
// changes after NewRegistry; each activity serializes its own mutations.
type Registry struct {
	order      []domain.ActivityName
	activities map[domain.ActivityName]core.ActivityService
	policy     CapacityPolicy
	emails     EmailRule

	mu        sync.RWMutex
	observers []Observer
}

type Option func(*Registry)

func WithCapacityPolicy(p CapacityPolicy) Option {
	return func(r *Registry) { r.policy = p }
}

func WithEmailRule(rule EmailRule) Option {
	return func(r *Registry) { r.emails = rule }
}

func NewRegistry(seed []*domain.Activity, opts ...Option) (*Registry, error) {
	r := &Registry{
		order:      make([]domain.ActivityName, 0, len(seed)),
		activities: make(map[domain.ActivityName]core.ActivityService, len(seed)),
		policy:     InformationalCapacity{},
		emails:     NewEmailRule(false),
	}
	for _, o := range opts {
		o(r)
	}
	for _, a := range seed {
		if _, dup := r.activities[a.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate activity %q", domain.ErrInvalid, a.Name)
		}
		r.order = append(r.order, a.Name)
		r.activities[a.Name] = core.NewActivityService(a)
	}
	log.Info().Str("module", "app.registry").Int("activities", len(r.order)).Msg("registry seeded")
	return r, nil
}

// Observe registers o for every later change. Observers run synchronously on
// the mutating goroutine, after the activity lock is released.
func (r *Registry) Observe(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, o)
}

func (r *Registry) List() Catalog {
	out := make(Catalog, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.activities[name].Snapshot())
	}
	return out
}

func (r *Registry) Get(name string) (domain.Activity, error) {
	svc, ok := r.activities[domain.ActivityName(name)]
	if !ok {
		return domain.Activity{}, domain.NewActivityNotFound(domain.ActivityName(name))
	}
	return svc.Snapshot(), nil
}

func (r *Registry) Signup(name, email string) (string, error) {
	an, e := domain.ActivityName(name), domain.Email(email)
	svc, ok := r.activities[an]
	if !ok {
		return "", domain.NewActivityNotFound(an)
	}
	if reason := r.emails.Check(email); reason != "" {
		return "", domain.NewInvalidEmail(an, e, reason)
	}
	snap, err := svc.Join(e, r.policy)
	if err != nil {
		log.Info().Str("module", "app.registry").Str("activity", name).Str("email", email).Err(err).Msg("signup rejected")
		return "", err
	}
	log.Info().Str("module", "app.registry").Str("activity", name).Str("email", email).Msg("signed up")
	r.notify(ChangeEvent{Kind: ChangeSignup, Activity: an, Email: e, Version: snap.Version, Snapshot: snap})
	return fmt.Sprintf("Signed up %s for %s", email, name), nil
}

func (r *Registry) Unregister(name, email string) (string, error) {
	an, e := domain.ActivityName(name), domain.Email(email)
	svc, ok := r.activities[an]
	if !ok {
		return "", domain.NewActivityNotFound(an)
	}
	if email == "" {
		return "", domain.NewInvalidEmail(an, e, emailRequired)
	}
	snap, err := svc.Leave(e)
	if err != nil {
		log.Info().Str("module", "app.registry").Str("activity", name).Str("email", email).Err(err).Msg("unregister rejected")
		return "", err
	}
	log.Info().Str("module", "app.registry").Str("activity", name).Str("email", email).Msg("unregistered")
	r.notify(ChangeEvent{Kind: ChangeUnregister, Activity: an, Email: e, Version: snap.Version, Snapshot: snap})
	return fmt.Sprintf("Unregistered %s from %s", email, name), nil
}

func (r *Registry) notify(ev ChangeEvent) {
	r.mu.RLock()
	obs := make([]Observer, len(r.observers))
	copy(obs, r.observers)
	r.mu.RUnlock()
	for _, o := range obs {
		o.OnChange(ev)
	}
}
