package events

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	sendBuffer   = 16
)

// Subscriber is one websocket client of the events feed.
type Subscriber struct {
	stationID    int64
	ws           *websocket.Conn
	send         chan []byte
	logger       *zap.Logger
	writeTimeout time.Duration
	onClose      func(*Subscriber)

	closeOnce sync.Once
	mu        sync.Mutex
	closed    bool
}

func newSubscriber(stationID int64, ws *websocket.Conn, writeTimeout time.Duration, logger *zap.Logger, onClose func(*Subscriber)) *Subscriber {
	return &Subscriber{
		stationID:    stationID,
		ws:           ws,
		send:         make(chan []byte, sendBuffer),
		logger:       logger,
		writeTimeout: writeTimeout,
		onClose:      onClose,
	}
}

// Start launches read/write pumps and blocks until the client goes away.
func (s *Subscriber) Start(ctx context.Context) {
	go s.writePump(ctx)
	s.readPump(ctx)
}

// The feed is one-way; reads only keep deadlines fresh and detect disconnects.
func (s *Subscriber) readPump(ctx context.Context) {
	defer s.cleanup()
	s.ws.SetReadLimit(4096)
	_ = s.ws.SetReadDeadline(time.Now().Add(pongWait))
	s.ws.SetPongHandler(func(string) error {
		return s.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if _, _, err := s.ws.ReadMessage(); err != nil {
			s.logger.Debug("events subscriber read closed", zap.Error(err))
			return
		}
	}
}

func (s *Subscriber) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.send:
			if !ok {
				_ = s.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.write(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send enqueues a message, dropping it when the buffer is full or the subscriber is gone.
func (s *Subscriber) Send(msg []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.send <- msg:
	default:
		s.logger.Warn("dropping booking event, subscriber buffer full", zap.Int64("station_id", s.stationID))
	}
}

func (s *Subscriber) write(messageType int, data []byte) error {
	_ = s.ws.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return s.ws.WriteMessage(messageType, data)
}

func (s *Subscriber) cleanup() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.send)
		s.mu.Unlock()
		_ = s.ws.Close()
		if s.onClose != nil {
			s.onClose(s)
		}
	})
}
