// Package feed pushes registry changes to websocket clients.
package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Activities/internal/app"
	"github.com/dkeye/Activities/internal/domain"
	"github.com/dkeye/Activities/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Source provides the catalog sent to a client when it connects.
type Source interface {
	List() app.Catalog
}

type Options struct {
	Buffer     int
	PingPeriod time.Duration
	ReadLimit  int64
}

type snapshotMessage struct {
	Type       string      `json:"type"`
	Activities app.Catalog `json:"activities"`
}

type updateMessage struct {
	Type     string          `json:"type"`
	Kind     app.ChangeKind  `json:"kind"`
	Activity string          `json:"activity"`
	Email    string          `json:"email"`
	Version  uint64          `json:"version"`
	Details  domain.Activity `json:"details"`
}

// Hub fans registry changes out to subscribers. It implements app.Observer.
type Hub struct {
	source Source
	opts   Options

	mu   sync.RWMutex
	subs map[*subscriber]struct{}

	upgrader websocket.Upgrader
}

func NewHub(source Source, opts Options) *Hub {
	if opts.Buffer <= 0 {
		opts.Buffer = 32
	}
	if opts.PingPeriod <= 0 {
		opts.PingPeriod = 54 * time.Second
	}
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = 4096
	}
	return &Hub{
		source: source,
		opts:   opts,
		subs:   make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Serve upgrades the request and runs the pumps until ctx ends or the
// client goes away.
func (h *Hub) Serve(ctx context.Context, c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.feed").Msg("ws upgrade")
		return
	}
	s := newSubscriber(c.GetString("client_token"), ws, h.opts.Buffer)
	if err := h.add(s); err != nil {
		log.Error().Err(err).Str("module", "adapters.feed").Msg("snapshot")
		s.Close()
		return
	}
	log.Info().Str("module", "adapters.feed").Str("client", s.id).Msg("subscriber connected")

	ctx, cancel := context.WithCancel(ctx)
	go h.writePump(ctx, s)
	go func() {
		defer cancel()
		h.readPump(s)
	}()
}

// OnChange broadcasts ev; subscribers that cannot keep up are disconnected.
// A subscriber never receives a version older than one it already has.
func (h *Hub) OnChange(ev app.ChangeEvent) {
	msg, err := json.Marshal(updateMessage{
		Type:     "activity_updated",
		Kind:     ev.Kind,
		Activity: string(ev.Activity),
		Email:    string(ev.Email),
		Version:  ev.Version,
		Details:  ev.Snapshot,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.feed").Msg("marshal update")
		return
	}

	var dropped []*subscriber
	stale := 0
	h.mu.Lock()
	for s := range h.subs {
		if ev.Version <= s.seen[ev.Activity] {
			stale++
			continue
		}
		if err := s.TrySend(msg); err != nil {
			dropped = append(dropped, s)
			continue
		}
		s.seen[ev.Activity] = ev.Version
	}
	h.mu.Unlock()

	for _, s := range dropped {
		log.Warn().Str("module", "adapters.feed").Str("client", s.id).Msg("dropping slow subscriber")
		metrics.FeedDropped.Inc()
		h.remove(s)
		s.Close()
	}
	log.Debug().Str("module", "adapters.feed").Str("activity", string(ev.Activity)).Uint64("version", ev.Version).Int("stale", stale).Int("dropped", len(dropped)).Msg("broadcast")
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[*subscriber]struct{})
	h.mu.Unlock()
	for s := range subs {
		s.Close()
	}
	metrics.FeedSubscribers.Set(0)
}

// add registers s and queues the snapshot under the hub lock so that it is
// always the first message s receives.
func (h *Hub) add(s *subscriber) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	catalog := h.source.List()
	msg, err := json.Marshal(snapshotMessage{Type: "snapshot", Activities: catalog})
	if err != nil {
		return err
	}
	if err := s.TrySend(msg); err != nil {
		return err
	}
	for _, a := range catalog {
		s.seen[a.Name] = a.Version
	}
	h.subs[s] = struct{}{}
	metrics.FeedSubscribers.Set(float64(len(h.subs)))
	return nil
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; !ok {
		return
	}
	delete(h.subs, s)
	metrics.FeedSubscribers.Set(float64(len(h.subs)))
}
