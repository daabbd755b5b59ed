package api

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/robert-malhotra/eo-search/internal/search"
)

const (
	// Time allowed to write one message to the peer.
	writeWait = 10 * time.Second

	// Time allowed for the client to send its search request.
	requestWait = 30 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

func (h *Handlers) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
}

func (h *Handlers) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(h.opts.AllowedOrigins, "*") {
		return true
	}
	return slices.Contains(h.opts.AllowedOrigins, origin)
}

// Stream runs a search over a websocket. The client sends one search request
// as JSON; the server streams every run event and closes after "finished".
// GET /search/stream
func (h *Handlers) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(requestWait))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		h.logger.Warn("no search request received on stream", slog.String("error", err.Error()))
		return
	}
	req, err := decodeSearchRequest(bytes.NewReader(msg), h.opts.Now(), h.opts.DefaultLookback)
	if err != nil {
		closeWith(conn, websocket.CloseUnsupportedData, err.Error())
		return
	}

	queue := newEventQueue()
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reading keeps control frames flowing and notices a client that left.
	go func() {
		defer cancel()
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	run, err := h.orchestrator.Start(ctx, req, queue)
	if run != nil {
		h.logger.Info("streaming search", slog.String("search_id", run.ID))
	}
	if err != nil && run == nil {
		closeWith(conn, websocket.CloseInternalServerErr, err.Error())
		return
	}

	h.writeEvents(ctx, conn, queue)
}

// writeEvents drains the queue into the connection until the finished event
// was written or the client left.
func (h *Handlers) writeEvents(ctx context.Context, conn *websocket.Conn, queue *eventQueue) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-queue.ready:
			for _, e := range queue.drain() {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(e); err != nil {
					h.logger.Warn("failed to write stream event", slog.String("error", err.Error()))
					return
				}
				if e.Type == search.EventFinished {
					closeWith(conn, websocket.CloseNormalClosure, "search finished")
					return
				}
			}
		}
	}
}

func closeWith(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

// eventQueue buffers run events so a slow client never blocks the run.
type eventQueue struct {
	mu     sync.Mutex
	events []search.Event
	ready  chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{ready: make(chan struct{}, 1)}
}

func (q *eventQueue) OnEvent(e search.Event) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *eventQueue) drain() []search.Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}
