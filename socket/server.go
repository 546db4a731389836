package socket

import (
	"context"
	"log"
	"sync"

	"reelmatch_server/models"
	"reelmatch_server/services"

	socketio "github.com/googollee/go-socket.io"
)

// Server bridges client viewport events into per-session visibility
// monitors and relays dispatcher feedback back out. This is the explicit
// message channel between the rendering surface and the engagement
// pipeline.
type Server struct {
	IO *socketio.Server

	engagement *services.EngagementService
	profiles   *services.UserProfileService
	matches    *services.MatchService

	mu       sync.Mutex
	monitors map[string]*services.VisibilityMonitor
}

// NewServer initializes the Socket.IO server and its event handlers
func NewServer(engagement *services.EngagementService, profiles *services.UserProfileService, matches *services.MatchService) *Server {
	srv := &Server{
		IO:         socketio.NewServer(nil),
		engagement: engagement,
		profiles:   profiles,
		matches:    matches,
		monitors:   make(map[string]*services.VisibilityMonitor),
	}

	srv.IO.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	// A session binds this connection to a viewer and creates its
	// monitor. The monitor owns the session's recorded-view set.
	srv.IO.OnEvent("/", "session", func(c socketio.Conn, data map[string]string) {
		viewerID := data["userId"]
		if viewerID == "" {
			log.Println("❌ Invalid userId in session request")
			return
		}

		monitor := services.NewVisibilityMonitor(context.Background(), srv.engagement, srv.profiles, viewerID)
		srv.mu.Lock()
		srv.monitors[c.ID()] = monitor
		srv.mu.Unlock()

		c.Join("feed")
		c.Emit("sessionReady", map[string]interface{}{"muted": monitor.Muted()})
		log.Printf("👥 Session started for viewer %s on socket %s", viewerID, c.ID())
	})

	// Feed mutation: re-subscribe the monitor's observation targets.
	srv.IO.OnEvent("/", "observe", func(c socketio.Conn, elements map[string]string) {
		if monitor := srv.monitor(c.ID()); monitor != nil {
			monitor.Observe(elements)
		}
	})

	// One viewport intersection update for one element.
	srv.IO.OnEvent("/", "visibility", func(c socketio.Conn, data map[string]interface{}) {
		monitor := srv.monitor(c.ID())
		if monitor == nil {
			return
		}

		elementID, _ := data["elementId"].(string)
		ratio, _ := data["ratio"].(float64)
		if elementID == "" {
			return
		}

		monitor.HandleIntersection(elementID, ratio)
		c.Emit("playback", map[string]interface{}{
			"elementId": elementID,
			"playing":   monitor.Playing(elementID),
			"muted":     monitor.Muted(),
		})
	})

	srv.IO.OnEvent("/", "muteToggle", func(c socketio.Conn) {
		if monitor := srv.monitor(c.ID()); monitor != nil {
			muted := monitor.ToggleMute(context.Background())
			c.Emit("muteState", map[string]interface{}{"muted": muted})
		}
	})

	srv.IO.OnDisconnect("/", func(c socketio.Conn, reason string) {
		srv.mu.Lock()
		if monitor, ok := srv.monitors[c.ID()]; ok {
			monitor.Close()
			delete(srv.monitors, c.ID())
		}
		srv.mu.Unlock()
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	go srv.relayCardEvents()

	return srv
}

func (s *Server) monitor(connID string) *services.VisibilityMonitor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.monitors[connID]
}

// relayCardEvents forwards dispatcher state changes to feed subscribers.
func (s *Server) relayCardEvents() {
	for event := range s.matches.Events() {
		s.broadcastCardEvent(event)
	}
}

func (s *Server) broadcastCardEvent(event models.CardEvent) {
	s.IO.BroadcastToRoom("/", "feed", "cardEvent", event)
}
