package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Hub tracks live sessions grouped by conversation id.
type Hub struct {
	mu     sync.RWMutex
	groups map[uuid.UUID]map[*Session]struct{}
}

type HubStats struct {
	Groups   int `json:"groups"`
	Sessions int `json:"sessions"`
}

func NewHub() *Hub {
	return &Hub{groups: make(map[uuid.UUID]map[*Session]struct{})}
}

// Join adds s to the conversation's group, creating the group on first use.
func (h *Hub) Join(conversationID uuid.UUID, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[conversationID]
	if !ok {
		members = make(map[*Session]struct{})
		h.groups[conversationID] = members
	}
	members[s] = struct{}{}
}

// Leave removes s from the conversation's group. Absent sessions or groups are ignored.
func (h *Hub) Leave(conversationID uuid.UUID, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[conversationID]
	if !ok {
		return
	}
	delete(members, s)
	if len(members) == 0 {
		delete(h.groups, conversationID)
	}
}

// Members returns a snapshot of the sessions joined to the conversation.
func (h *Hub) Members(conversationID uuid.UUID) []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return lo.Keys(h.groups[conversationID])
}

// Broadcast sends payload to every member of the conversation's group and returns how many
// members it reached. Failed deliveries are logged and skipped.
func (h *Hub) Broadcast(conversationID uuid.UUID, payload any) int {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("🔥 Failed to encode broadcast for conversation %s: %v", conversationID, err)
		return 0
	}

	members := h.Members(conversationID)
	if len(members) == 0 {
		return 0
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		delivered int
	)
	for _, member := range members {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			if err := s.sendRaw(data); err != nil {
				log.Printf("⚠️ Failed to deliver message to session %s (user %s): %v", s.ID, s.Identity.Username, err)
				return
			}
			mu.Lock()
			delivered++
			mu.Unlock()
		}(member)
	}
	wg.Wait()
	return delivered
}

// PingAll pings every live session and closes the ones that fail. It returns the number closed.
func (h *Hub) PingAll() int {
	h.mu.RLock()
	var sessions []*Session
	for _, members := range h.groups {
		sessions = append(sessions, lo.Keys(members)...)
	}
	h.mu.RUnlock()

	closed := 0
	for _, s := range sessions {
		if err := s.ping(); err != nil {
			log.Printf("⚠️ Ping failed for session %s (user %s), closing: %v", s.ID, s.Identity.Username, err)
			s.Close()
			closed++
		}
	}
	return closed
}

func (h *Hub) Stats() HubStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := HubStats{Groups: len(h.groups)}
	for _, members := range h.groups {
		stats.Sessions += len(members)
	}
	return stats
}
