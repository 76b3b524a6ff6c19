package api

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/internal/metrics"
	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/live"
)

const (
	writeWait    = 5 * time.Second
	pingInterval = 30 * time.Second
)

type liveMessage struct {
	Type      string                 `json:"type"`
	Timeslots []timeslotViewResponse `json:"timeslots,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			allowed := s.cfg.HTTP.AllowedOrigins
			if slices.Contains(allowed, "*") || slices.Contains(allowed, origin) {
				return true
			}
			// Same-origin pages are always allowed
			u, err := url.Parse(origin)
			return err == nil && strings.EqualFold(u.Host, r.Host)
		},
	}
}

// Live pushes the event's merged shift list over a websocket every time it changes.
// Each connection owns its own live session, closed on disconnect.
func (s *Server) Live(c *gin.Context) {
	eventID := c.Param("eventID")
	userID := claimsFrom(c).Subject

	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	metrics.LiveSubscriptions.Inc()
	defer metrics.LiveSubscriptions.Dec()
	s.logger.Debug("Live connection opened", zap.String("event_id", eventID), zap.String("user_id", userID))

	// gorilla connections support one concurrent writer
	var writeMu sync.Mutex
	write := func(msg liveMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg)
	}

	session := live.NewSession(s.store, s.logger)
	defer session.Close()

	session.Subscribe(eventID,
		func(views []model.TimeslotView) {
			if err := write(liveMessage{Type: "timeslots", Timeslots: toViews(views)}); err != nil {
				s.logger.Debug("Live write failed", zap.Error(err))
			}
		},
		func(err error) {
			s.logger.Warn("Live view error", zap.String("event_id", eventID), zap.Error(err))
			_ = write(liveMessage{Type: "error", Error: err.Error()})
		},
	)

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				writeMu.Lock()
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
				writeMu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	// Reads only detect the client going away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.logger.Debug("Live connection closed", zap.String("event_id", eventID), zap.String("user_id", userID))
}
