package doc

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livedocs/internal/app/store"
	"livedocs/internal/app/user"
	"livedocs/internal/pkg/randx"
)

// newTestClient builds a client without a transport; tests drive
// processInboundMessage directly and read outbound frames from the send queue.
func newTestClient(m *Manager, u user.User) *Client {
	return &Client{
		ConnID:  "c-test",
		manager: m,
		user:    u,
		send:    make(chan []byte, sendChannelBuffer),
		logger:  zerolog.Nop(),
	}
}

// readFrame pops the next queued outbound frame and decodes its envelope.
func readFrame(t *testing.T, c *Client) Message {
	t.Helper()

	select {
	case raw := <-c.send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(waitFor):
		t.Fatal("no outbound frame within deadline")
		return Message{}
	}
}

func frame(t *testing.T, msgType MessageType, payload any) []byte {
	t.Helper()

	raw, err := json.Marshal(map[string]any{"type": msgType, "payload": payload})
	require.NoError(t, err)
	return raw
}

func TestClientJoinDeliversInitialState(t *testing.T) {
	m := NewManager(store.NewMemoryGateway())
	defer m.Shutdown()

	c := newTestClient(m, alice)
	c.processInboundMessage(frame(t, TypeJoinDocument, JoinPayload{DocumentID: "d1", Color: "#123456"}))

	require.NotNil(t, c.session)
	assert.Equal(t, "d1", c.session.DocumentID)
	assert.Equal(t, "#123456", c.user.Color)

	first := readFrame(t, c)
	assert.Equal(t, TypeDocumentData, first.Type)
	assert.Equal(t, "d1", first.DocumentID)

	second := readFrame(t, c)
	assert.Equal(t, TypeOnlineUsers, second.Type)
}

func TestClientJoinAssignsFallbackColor(t *testing.T) {
	m := NewManager(store.NewMemoryGateway())
	defer m.Shutdown()

	c := newTestClient(m, alice)
	c.processInboundMessage(frame(t, TypeJoinDocument, JoinPayload{DocumentID: "d1"}))

	assert.Equal(t, randx.PresenceColor(alice.ID), c.user.Color)
}

func TestClientJoinWithoutDocumentIDIsDropped(t *testing.T) {
	m := NewManager(store.NewMemoryGateway())
	defer m.Shutdown()

	c := newTestClient(m, alice)
	c.processInboundMessage(frame(t, TypeJoinDocument, JoinPayload{}))

	assert.Nil(t, c.session)
	assert.Nil(t, m.Get("d1"))
}

func TestClientSecondJoinIsIgnored(t *testing.T) {
	m := NewManager(store.NewMemoryGateway())
	defer m.Shutdown()

	c := newTestClient(m, alice)
	c.processInboundMessage(frame(t, TypeJoinDocument, JoinPayload{DocumentID: "d1"}))
	require.NotNil(t, c.session)

	c.processInboundMessage(frame(t, TypeJoinDocument, JoinPayload{DocumentID: "d2"}))
	assert.Equal(t, "d1", c.session.DocumentID, "a connection stays on its first document")
	assert.Nil(t, m.Get("d2"))
}

func TestClientEventBeforeJoinIsDropped(t *testing.T) {
	m := NewManager(store.NewMemoryGateway())
	defer m.Shutdown()

	c := newTestClient(m, alice)
	c.processInboundMessage(frame(t, TypeUpdate, ContentPayload{DocumentID: "d1", Content: "X"}))

	assert.Nil(t, c.session)
	assert.Nil(t, m.Get("d1"), "events cannot create sessions")
}

func TestClientMalformedJSONIsDropped(t *testing.T) {
	m := NewManager(store.NewMemoryGateway())
	defer m.Shutdown()

	c := newTestClient(m, alice)
	c.processInboundMessage([]byte("{not json"))
	c.processInboundMessage(frame(t, MessageType("unknown_type"), nil))

	assert.Nil(t, c.session)
}

func TestClientJoinedSessionValidation(t *testing.T) {
	c := newTestClient(nil, alice)
	c.session = NewSession("d1", store.NewMemoryGateway(), make(chan CleanupMsg, 1))

	cases := []struct {
		name    string
		payload json.RawMessage
		matched bool
	}{
		{"matching document", json.RawMessage(`{"documentId":"d1","content":"X"}`), true},
		{"foreign document", json.RawMessage(`{"documentId":"d2","content":"X"}`), false},
		{"missing document id", json.RawMessage(`{"content":"X"}`), false},
		{"malformed payload", json.RawMessage(`{"documentId":`), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p ContentPayload
			s := c.joinedSession(tc.payload, &p, &p.DocumentID)
			if tc.matched {
				assert.NotNil(t, s)
			} else {
				assert.Nil(t, s)
			}
		})
	}
}

func TestClientSendDropsWhenQueueFull(t *testing.T) {
	c := newTestClient(nil, alice)
	c.send = make(chan []byte, 1)

	require.NoError(t, c.Send(NewMessage(TypeOnlineUsers, "d1", OnlineUsersPayload{})))
	assert.ErrorIs(t, c.Send(NewMessage(TypeOnlineUsers, "d1", OnlineUsersPayload{})), ErrSendQueueFull)
}
