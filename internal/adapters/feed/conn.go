package feed

import (
	"errors"
	"sync"

	"github.com/dkeye/Activities/internal/domain"
	"github.com/gorilla/websocket"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("connection closed")
)

// subscriber is one websocket client of the feed.
// Only the write pump writes to conn.
type subscriber struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	// seen is the last version queued per activity; guarded by Hub.mu.
	seen map[domain.ActivityName]uint64

	mu     sync.RWMutex
	closed bool
}

func newSubscriber(id string, conn *websocket.Conn, buffer int) *subscriber {
	return &subscriber{
		id:   id,
		conn: conn,
		send: make(chan []byte, buffer),
		seen: make(map[domain.ActivityName]uint64),
	}
}

func (s *subscriber) TrySend(msg []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	select {
	case s.send <- msg:
	default:
		return ErrBackpressure
	}
	return nil
}

func (s *subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
	_ = s.conn.Close()
}
