package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/artboard/pkg/geom"
	"github.com/matzehuels/artboard/pkg/httputil"
	"github.com/matzehuels/artboard/pkg/presence"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are enforced by the gateway.
	CheckOrigin: func(*http.Request) bool { return true },
}

// CursorMessage is sent by feed clients to move their cursor.
type CursorMessage struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// feeds tracks open websocket connections so shutdown can close them.
type feeds struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]string
	logger *log.Logger
}

func newFeeds(logger *log.Logger) *feeds {
	return &feeds{conns: make(map[*websocket.Conn]string), logger: logger}
}

func (f *feeds) add(c *websocket.Conn, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conns[c] = userID
	f.logger.Debug("feed connected", "user", userID, "remote", c.RemoteAddr().String(), "open", len(f.conns))
}

func (f *feeds) remove(c *websocket.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.conns, c)
}

// Len returns the number of open feeds.
func (f *feeds) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.conns)
}

func (f *feeds) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.conns {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		c.Close()
	}
	clear(f.conns)
}

// handlePresenceFeed upgrades to a websocket that pushes the active
// collaborator list every interval and accepts cursor moves. Browsers
// cannot set headers on websocket requests, so the identity may also come
// from the user and name query parameters.
func (s *Server) handlePresenceFeed(w http.ResponseWriter, r *http.Request) {
	canvasID := chi.URLParam(r, "id")
	userID := r.Header.Get(httputil.HeaderUserID)
	name := r.Header.Get(httputil.HeaderUserName)
	if userID == "" {
		userID = r.URL.Query().Get("user")
		name = r.URL.Query().Get("name")
	}
	if userID == "" {
		_, _, err := identity(r)
		s.writeError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("feed upgrade failed", "err", err)
		return
	}
	s.feeds.add(conn, userID)
	defer s.feeds.remove(conn)
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.readCursors(ctx, cancel, conn, presence.Record{CanvasID: canvasID, UserID: userID, Name: name})

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		recs, err := s.presence.List(ctx, canvasID)
		if err != nil {
			s.logger.Debug("feed list failed", "canvas", canvasID, "err", err)
		} else {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(presence.Filter(recs, userID, s.now(), s.freshness)); err != nil {
				return
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// readCursors upserts every cursor message until the connection fails,
// then cancels the feed.
func (s *Server) readCursors(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, rec presence.Record) {
	defer cancel()
	for {
		var msg CursorMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		p := geom.Pt(msg.X, msg.Y)
		rec.Cursor = &p
		if _, err := s.presence.Upsert(ctx, rec); err != nil {
			s.logger.Debug("feed upsert failed", "user", rec.UserID, "err", err)
		}
	}
}
