// Package ws streams team notifications to connected clients over websockets.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/pkg/ctxutil"
)

const (
	defaultBuffer = 16
	writeTimeout  = 5 * time.Second
)

type subscriber struct {
	teamID    uuid.UUID
	msgs      chan []byte
	closeSlow func()
}

// Hub fans out events to the subscribers of each team. Publishing never
// blocks: a subscriber whose buffer is full is disconnected.
type Hub struct {
	buffer         int
	originPatterns []string
	log            *slog.Logger

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}

	closing sync.WaitGroup
}

// NewHub creates a Hub. originPatterns are the hosts allowed to open a
// connection from a browser; "*" allows any.
func NewHub(logger *slog.Logger, originPatterns []string) *Hub {
	return &Hub{
		buffer:         defaultBuffer,
		originPatterns: originPatterns,
		log:            logger.With("handler", "ws"),
		subscribers:    make(map[*subscriber]struct{}),
	}
}

// Publish sends event to every subscriber of the team.
func (h *Hub) Publish(teamID uuid.UUID, event domain.Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Error("marshal event", slog.String("type", event.Type), slog.String("error", err.Error()))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subscribers {
		if s.teamID != teamID {
			continue
		}
		select {
		case s.msgs <- msg:
		default:
			h.closing.Add(1)
			go func() {
				defer h.closing.Done()
				s.closeSlow()
			}()
		}
	}
}

// Wait blocks until every slow-subscriber disconnect started by Publish has
// finished. Call it once publishers have stopped.
func (h *Hub) Wait() {
	h.closing.Wait()
}

// Subscribers returns the number of connected subscribers of the team.
func (h *Hub) Subscribers(teamID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for s := range h.subscribers {
		if s.teamID == teamID {
			n++
		}
	}
	return n
}

// ServeHTTP upgrades an authenticated request and streams the caller's team
// events until the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	teamID, ok := ctxutil.TeamIDFromCtx(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	err := h.subscribe(w, r, teamID)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, net.ErrClosed) &&
		websocket.CloseStatus(err) != websocket.StatusNormalClosure &&
		websocket.CloseStatus(err) != websocket.StatusGoingAway {
		h.log.WarnContext(r.Context(), "websocket closed", slog.String("error", err.Error()))
	}
}

func (h *Hub) subscribe(w http.ResponseWriter, r *http.Request, teamID uuid.UUID) error {
	var mu sync.Mutex
	var c *websocket.Conn
	var closed bool
	s := &subscriber{
		teamID: teamID,
		msgs:   make(chan []byte, h.buffer),
		closeSlow: func() {
			mu.Lock()
			defer mu.Unlock()
			closed = true
			if c != nil {
				c.Close(websocket.StatusPolicyViolation, "connection too slow to keep up with messages")
			}
		},
	}
	h.add(s)
	defer h.remove(s)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.originPatterns})
	if err != nil {
		return err
	}
	mu.Lock()
	if closed {
		mu.Unlock()
		return net.ErrClosed
	}
	c = conn
	mu.Unlock()
	defer c.CloseNow()

	ctx := c.CloseRead(context.WithoutCancel(r.Context()))
	for {
		select {
		case msg := <-s.msgs:
			if err := write(ctx, c, msg); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func write(ctx context.Context, c *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.Write(ctx, websocket.MessageText, msg)
}

func (h *Hub) add(s *subscriber) {
	h.mu.Lock()
	h.subscribers[s] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	delete(h.subscribers, s)
	h.mu.Unlock()
}
