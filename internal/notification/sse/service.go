// Package sse provides Server-Sent Events support for real-time notifications.
package sse

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"sakkanal_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventType represents different types of SSE events
type EventType string

const (
	EventNotification EventType = "notification"
	EventUnreadCount  EventType = "unread_count"
	EventLeadUpdated  EventType = "lead_updated"
)

const (
	clientBuffer      = 32
	heartbeatInterval = 25 * time.Second
)

// Event represents an SSE event payload
type Event struct {
	Type    EventType   `json:"type"`
	LeadID  uuid.UUID   `json:"leadId,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// client represents a connected SSE client
type client struct {
	adminID uuid.UUID
	events  chan Event
}

// Service manages SSE connections and event broadcasting
type Service struct {
	mu      sync.RWMutex
	clients map[uuid.UUID][]*client // adminID -> clients
	log     *logger.Logger
	closed  bool
}

// New creates a new SSE service
func New(log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		clients: make(map[uuid.UUID][]*client),
		log:     log,
	}
}

func (s *Service) addClient(c *client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.clients[c.adminID] = append(s.clients[c.adminID], c)
	return true
}

// removeClient unregisters a client connection. It is a no-op once Close has run.
func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients, ok := s.clients[c.adminID]
	if !ok {
		return
	}
	for i, cl := range clients {
		if cl == c {
			s.clients[c.adminID] = append(clients[:i], clients[i+1:]...)
			close(c.events)
			break
		}
	}
	if len(s.clients[c.adminID]) == 0 {
		delete(s.clients, c.adminID)
	}
}

// Connected reports how many streams are open for an admin.
func (s *Service) Connected(adminID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients[adminID])
}

// Publish sends an event to every stream of one admin.
func (s *Service) Publish(adminID uuid.UUID, event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.clients[adminID] {
		select {
		case c.events <- event:
		default:
			s.log.Warn("sse buffer full, dropping event", "adminId", adminID, "type", event.Type)
		}
	}
}

// Broadcast sends an event to every connected admin.
func (s *Service) Broadcast(event Event) {
	s.mu.RLock()
	adminIDs := make([]uuid.UUID, 0, len(s.clients))
	for adminID := range s.clients {
		adminIDs = append(adminIDs, adminID)
	}
	s.mu.RUnlock()

	for _, adminID := range adminIDs {
		s.Publish(adminID, event)
	}
}

// Handler returns a Gin handler for SSE connections
func (s *Service) Handler(getAdminID func(*gin.Context) (uuid.UUID, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, ok := getAdminID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		cl := &client{
			adminID: adminID,
			events:  make(chan Event, clientBuffer),
		}
		if !s.addClient(cl) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stream closed"})
			return
		}
		defer s.removeClient(cl)

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		c.SSEvent("connected", gin.H{"adminId": adminID})
		c.Writer.Flush()

		s.log.Debug("sse client connected", "adminId", adminID)

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				s.log.Debug("sse client disconnected", "adminId", adminID)
				return
			case <-heartbeat.C:
				c.SSEvent("ping", gin.H{"ts": time.Now().Unix()})
				c.Writer.Flush()
			case event, ok := <-cl.events:
				if !ok {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					s.log.Warn("sse marshal failed", "error", err)
					continue
				}
				c.SSEvent(string(event.Type), string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close shuts down the SSE service and ends every open stream.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, clients := range s.clients {
		for _, c := range clients {
			close(c.events)
		}
	}
	s.clients = make(map[uuid.UUID][]*client)
	s.closed = true
}
