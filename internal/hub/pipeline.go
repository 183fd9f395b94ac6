package hub

import "groupchat-backend/internal/models"

// SendMessage runs one inbound chat message through persist-then-fanout.
// The append must commit before anything is broadcast: the live feed can
// never show a message that history couldn't replay. A message that
// fails to persist dies here; the sender gets no ack either way.
//
// sendMutex holds the two steps together so that, per channel, members
// observe broadcasts in exactly the commit order of the store.
func (h *Hub) SendMessage(client *Client, channelID int64, body string) {
	h.sendMutex.Lock()
	defer h.sendMutex.Unlock()

	msg, err := h.store.AppendMessage(channelID, client.UserID, body)
	if err != nil {
		h.sugar.Errorf("Persisting message from session ID [%d] to channel ID [%d]: %v", client.SessionID, channelID, err)
		return
	}

	view := models.MessageView{
		ID:       msg.ID,
		Body:     msg.Body,
		Username: client.Username,
		Ts:       msg.CreatedAt,
	}

	h.Broadcast(channelID, OutEvent{
		Type:    EventMsg,
		Channel: channelID,
		Data:    view,
	})
}
