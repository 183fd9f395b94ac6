package hub

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"groupchat-backend/internal/database"
	"groupchat-backend/internal/jwt"
	"groupchat-backend/internal/snowflake"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// sendBuffer is the per-client outbound queue. A client that falls this
// far behind starts losing broadcasts instead of holding up the room.
const sendBuffer = 64

type Client struct {
	SessionID int64
	UserID    int64
	Username  string
	Conn      *websocket.Conn
	send      chan []byte
}

// Hub owns the connected sessions and the room membership table. It is
// constructed once in main and handed to whatever accepts connections;
// its lifetime is the process lifetime.
type Hub struct {
	sugar *zap.SugaredLogger
	store *database.Store

	mutex   sync.Mutex
	clients map[int64]*Client
	rooms   map[int64][]int64

	// spans persist+fanout of one message, see SendMessage
	sendMutex sync.Mutex
}

func NewHub(sugar *zap.SugaredLogger, store *database.Store) *Hub {
	return &Hub{
		sugar:   sugar,
		store:   store,
		clients: make(map[int64]*Client),
		rooms:   make(map[int64][]int64),
	}
}

func bearerToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// HandleClient is the session gate: the token is verified once, before
// the upgrade. A connection that fails here never reaches the room table.
func (h *Hub) HandleClient(w http.ResponseWriter, r *http.Request) {
	user, err := jwt.VerifyToken(bearerToken(r))
	if err != nil {
		h.sugar.Debugf("Rejecting connection: %v", err)
		http.Error(w, "auth fail", http.StatusUnauthorized)
		return
	}

	sessionID, err := snowflake.Generate()
	if err != nil {
		h.sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.sugar.Error(err)
		return
	}
	defer conn.Close()

	client := &Client{
		SessionID: sessionID,
		UserID:    user.UserID,
		Username:  user.Username,
		Conn:      conn,
		send:      make(chan []byte, sendBuffer),
	}

	h.addClient(client)
	go client.writePump(h.sugar)

	h.sugar.Debugf("User ID [%d] connected as session ID [%d]", user.UserID, sessionID)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.sugar.Debug(err)
			break
		}

		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			h.sugar.Debugf("Session ID [%d] sent a malformed event: %v", sessionID, err)
			continue
		}

		h.dispatch(client, event)
	}

	h.removeClient(sessionID)
}

func (h *Hub) dispatch(client *Client, event Event) {
	switch event.Type {
	case EventJoin:
		h.Join(client.SessionID, event.Channel)
	case EventMsg:
		h.SendMessage(client, event.Channel, event.Body)
	default:
		h.sugar.Debugf("Session ID [%d] sent unknown event type [%s]", client.SessionID, event.Type)
	}
}

func (c *Client) writePump(sugar *zap.SugaredLogger) {
	for payload := range c.send {
		err := c.Conn.WriteMessage(websocket.TextMessage, payload)
		if err != nil {
			sugar.Debug(err)
			return
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client.SessionID] = client
}

// removeClient tears the session down: membership is gone and the send
// channel closed before this returns, so a broadcast that starts
// afterwards can never observe the session.
func (h *Hub) removeClient(sessionID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	client, exists := h.clients[sessionID]
	if !exists {
		return
	}

	h.leaveAllLocked(sessionID)
	delete(h.clients, sessionID)
	close(client.send)

	h.sugar.Debugf("Removed session ID [%d] from hub", sessionID)
}
