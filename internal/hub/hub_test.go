package hub

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"groupchat-backend/internal/database"
	"groupchat-backend/internal/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestHub builds a hub on a throwaway sqlite store with one space,
// its general channel, and one registered user to author messages.
func newTestHub(t *testing.T) (*Hub, *database.Store, int64, models.User) {
	t.Helper()
	req := require.New(t)

	sugar := zap.NewNop().Sugar()
	cfg := models.ConfigFile{
		SelfContained: true,
		DbFile:        filepath.Join(t.TempDir(), "test.db"),
	}

	store, err := database.Setup(&cfg, sugar)
	req.NoError(err)
	t.Cleanup(func() { store.Close() })

	user, err := store.CreateUser("alice", []byte("hash"))
	req.NoError(err)

	space, err := store.CreateSpace("Test")
	req.NoError(err)

	channels, err := store.ListChannels(space.ID)
	req.NoError(err)
	req.Len(channels, 1)

	return NewHub(sugar, store), store, channels[0].ID, user
}

func newTestClient(h *Hub, sessionID int64, userID int64, username string) *Client {
	client := &Client{
		SessionID: sessionID,
		UserID:    userID,
		Username:  username,
		send:      make(chan []byte, sendBuffer),
	}
	h.addClient(client)
	return client
}

func receive(t *testing.T, client *Client) OutEvent {
	t.Helper()

	select {
	case payload := <-client.send:
		var event OutEvent
		require.NoError(t, json.Unmarshal(payload, &event))
		return event
	case <-time.After(time.Second):
		t.Fatalf("session %d received nothing", client.SessionID)
		return OutEvent{}
	}
}

func requireNothingQueued(t *testing.T, client *Client) {
	t.Helper()

	select {
	case payload := <-client.send:
		t.Fatalf("session %d unexpectedly received %s", client.SessionID, payload)
	default:
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	h, _, channelID, user := newTestHub(t)
	client := newTestClient(h, 1, user.ID, user.Username)

	h.Join(client.SessionID, channelID)
	h.Join(client.SessionID, channelID)

	h.mutex.Lock()
	defer h.mutex.Unlock()
	require.Len(t, h.rooms[channelID], 1)
}

func TestJoinFromUnknownSessionIsIgnored(t *testing.T) {
	h, _, channelID, _ := newTestHub(t)

	h.Join(999, channelID)

	h.mutex.Lock()
	defer h.mutex.Unlock()
	require.Empty(t, h.rooms)
}

func TestBroadcastReachesRoomMembersOnly(t *testing.T) {
	h, _, channelID, user := newTestHub(t)
	member1 := newTestClient(h, 1, user.ID, user.Username)
	member2 := newTestClient(h, 2, user.ID, user.Username)
	outsider := newTestClient(h, 3, user.ID, user.Username)

	h.Join(member1.SessionID, channelID)
	h.Join(member2.SessionID, channelID)

	h.Broadcast(channelID, OutEvent{Type: EventMsg, Channel: channelID})

	receive(t, member1)
	receive(t, member2)
	requireNothingQueued(t, outsider)
}

func TestLeaveRemovesOnlyThatRoom(t *testing.T) {
	h, _, channelID, user := newTestHub(t)
	client := newTestClient(h, 1, user.ID, user.Username)

	h.Join(client.SessionID, channelID)
	h.Join(client.SessionID, channelID+1)

	h.Leave(client.SessionID, channelID)

	h.mutex.Lock()
	defer h.mutex.Unlock()
	require.NotContains(t, h.rooms, channelID)
	require.Equal(t, []int64{client.SessionID}, h.rooms[channelID+1])
}

func TestDisconnectRemovesAllMemberships(t *testing.T) {
	h, _, channelID, user := newTestHub(t)
	client := newTestClient(h, 1, user.ID, user.Username)
	other := newTestClient(h, 2, user.ID, user.Username)

	h.Join(client.SessionID, channelID)
	h.Join(client.SessionID, channelID+100)
	h.Join(other.SessionID, channelID)

	h.removeClient(client.SessionID)

	h.mutex.Lock()
	require.Equal(t, []int64{other.SessionID}, h.rooms[channelID])
	require.NotContains(t, h.rooms, channelID+100)
	h.mutex.Unlock()

	// a broadcast after disconnect must not reach the departed session
	h.Broadcast(channelID, OutEvent{Type: EventMsg, Channel: channelID})
	receive(t, other)

	select {
	case payload, ok := <-client.send:
		require.False(t, ok, "departed session received %s", payload)
	default:
	}
}

func TestSendMessagePersistsThenBroadcasts(t *testing.T) {
	req := require.New(t)
	h, store, channelID, user := newTestHub(t)
	sender := newTestClient(h, 1, user.ID, user.Username)
	peer := newTestClient(h, 2, user.ID, user.Username)

	h.Join(sender.SessionID, channelID)
	h.Join(peer.SessionID, channelID)

	h.SendMessage(sender, channelID, "hi")

	got1 := receive(t, sender)
	got2 := receive(t, peer)
	req.Equal(got1.Data.ID, got2.Data.ID)
	req.Equal("hi", got1.Data.Body)
	req.Equal("hi", got2.Data.Body)
	req.Equal(user.Username, got1.Data.Username)

	// late joiner sees the message in history only
	late := newTestClient(h, 3, user.ID, user.Username)
	h.Join(late.SessionID, channelID)
	requireNothingQueued(t, late)

	history, err := store.ListMessages(channelID, 0)
	req.NoError(err)
	req.Len(history, 1)
	req.Equal(got1.Data.ID, history[0].ID)
	req.Equal("hi", history[0].Body)
}

func TestSendMessagePersistFailureIsNeverBroadcast(t *testing.T) {
	req := require.New(t)
	h, store, channelID, user := newTestHub(t)
	client := newTestClient(h, 1, user.ID, user.Username)

	unknownChannel := channelID + 9000
	h.Join(client.SessionID, unknownChannel)

	h.SendMessage(client, unknownChannel, "ghost")

	requireNothingQueued(t, client)

	history, err := store.ListMessages(unknownChannel, 0)
	req.NoError(err)
	req.Empty(history)
}

func TestBroadcastOrderMatchesCommitOrder(t *testing.T) {
	req := require.New(t)
	h, store, channelID, user := newTestHub(t)
	sender := newTestClient(h, 1, user.ID, user.Username)
	observer := newTestClient(h, 2, user.ID, user.Username)

	h.Join(sender.SessionID, channelID)
	h.Join(observer.SessionID, channelID)

	const count = 10
	for i := 0; i < count; i++ {
		h.SendMessage(sender, channelID, string(rune('a'+i)))
	}

	var liveIDs []int64
	for i := 0; i < count; i++ {
		liveIDs = append(liveIDs, receive(t, observer).Data.ID)
	}

	history, err := store.ListMessages(channelID, 0)
	req.NoError(err)
	req.Len(history, count)

	for i := 0; i < count; i++ {
		req.Equal(history[i].ID, liveIDs[i])
		if i > 0 {
			req.Greater(liveIDs[i], liveIDs[i-1])
		}
	}
}

func TestSlowSessionDoesNotBlockRoom(t *testing.T) {
	h, _, channelID, user := newTestHub(t)
	slow := newTestClient(h, 1, user.ID, user.Username)
	healthy := newTestClient(h, 2, user.ID, user.Username)

	h.Join(slow.SessionID, channelID)
	h.Join(healthy.SessionID, channelID)

	// fill the slow session's queue to capacity
	for i := 0; i < sendBuffer; i++ {
		slow.send <- []byte("{}")
	}

	done := make(chan struct{})
	go func() {
		h.Broadcast(channelID, OutEvent{Type: EventMsg, Channel: channelID})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow session")
	}

	receive(t, healthy)
}
