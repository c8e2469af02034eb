package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

func (h *Hub) pongWait() time.Duration {
	return h.opts.PingPeriod * 10 / 9
}

func (h *Hub) writePump(ctx context.Context, s *subscriber) {
	ticker := time.NewTicker(h.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		h.remove(s)
		s.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "adapters.feed").Str("client", s.id).Msg("writePump ctx done")
			return
		case data, ok := <-s.send:
			if !ok {
				return
			}
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "adapters.feed").Msg("writePump set deadline")
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "adapters.feed").Str("client", s.id).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Warn().Err(err).Str("module", "adapters.feed").Str("client", s.id).Msg("ping failed")
				return
			}
		}
	}
}

func (h *Hub) readPump(s *subscriber) {
	defer func() {
		log.Info().Str("module", "adapters.feed").Str("client", s.id).Msg("readPump closing")
		h.remove(s)
		s.Close()
	}()

	s.conn.SetReadLimit(h.opts.ReadLimit)
	_ = s.conn.SetReadDeadline(time.Now().Add(h.pongWait()))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(h.pongWait()))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "adapters.feed").Str("client", s.id).Msg("readPump read error")
			}
			return
		}
		h.handleMessage(s, data)
	}
}

func (h *Hub) handleMessage(s *subscriber, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Debug().Err(err).Str("module", "adapters.feed").Msg("bad json")
		return
	}
	switch env.Type {
	case "ping":
		_ = s.TrySend([]byte(`{"type":"pong"}`))
	default:
		log.Debug().Str("module", "adapters.feed").Str("type", env.Type).Msg("ignored message")
	}
}
