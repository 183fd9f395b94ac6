package hub

import "groupchat-backend/internal/models"

const (
	EventJoin = "join"
	EventMsg  = "msg"
)

// Event is what clients send: a tagged variant decoded at the transport
// boundary before it reaches the room table or the pipeline.
type Event struct {
	Type    string `json:"type"`
	Channel int64  `json:"channel"`
	Body    string `json:"body,omitempty"`
}

// OutEvent is what members of a room receive after a message was
// persisted. Data carries the store-assigned id and timestamp.
type OutEvent struct {
	Type    string             `json:"type"`
	Channel int64              `json:"channel"`
	Data    models.MessageView `json:"data"`
}
