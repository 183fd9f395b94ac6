package hub

import "encoding/json"

// Join adds the session to a room's member set. Idempotent. Any
// authenticated session may join any channel id; there is deliberately
// no membership check against the space.
func (h *Hub) Join(sessionID int64, channelID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, exists := h.clients[sessionID]; !exists {
		// disconnected between read and dispatch
		return
	}

	sessionIDs := h.rooms[channelID]
	for i := range sessionIDs {
		if sessionIDs[i] == sessionID {
			return
		}
	}

	h.rooms[channelID] = append(sessionIDs, sessionID)
	h.sugar.Debugf("Session ID [%d] joined channel ID [%d]", sessionID, channelID)
}

func (h *Hub) Leave(sessionID int64, channelID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.leaveLocked(sessionID, channelID)
}

func (h *Hub) leaveLocked(sessionID int64, channelID int64) {
	sessionIDs := h.rooms[channelID]

	// this won't run in case channel doesn't exist since length will be 0
	for i := range sessionIDs {
		if sessionIDs[i] == sessionID {
			sessionIDs[i] = sessionIDs[len(sessionIDs)-1]
			h.rooms[channelID] = sessionIDs[:len(sessionIDs)-1]
			break
		}
	}

	// delete channel from map if no session is left in it
	if len(h.rooms[channelID]) == 0 {
		delete(h.rooms, channelID)
	}
}

func (h *Hub) leaveAllLocked(sessionID int64) {
	for channelID := range h.rooms {
		h.leaveLocked(sessionID, channelID)
	}
}

// Broadcast delivers the event to every session currently in the room,
// at most once each, best effort: a session whose queue is full is
// skipped so one slow socket can't stall the rest of the room.
func (h *Hub) Broadcast(channelID int64, event OutEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.sugar.Error(err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, sessionID := range h.rooms[channelID] {
		client, exists := h.clients[sessionID]
		if !exists {
			h.sugar.Warnf("Session ID [%d] is in channel ID [%d] but not connected", sessionID, channelID)
			continue
		}

		select {
		case client.send <- payload:
		default:
			h.sugar.Warnf("Dropping broadcast for slow session ID [%d]", sessionID)
		}
	}
}
