package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Greet(t *testing.T) {
	c := NewClient(nil, "auth0|owner", NewHub())

	require.NoError(t, c.Greet(17))

	var got Event
	require.NoError(t, json.Unmarshal(<-c.send, &got))
	assert.Equal(t, "session.connected", got.Type)
	assert.Equal(t, EntityTypeSession, got.Entity)
	assert.Equal(t, uint64(17), got.Version)
	payload, ok := got.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, c.ID(), payload["clientId"])
	assert.Equal(t, "auth0|owner", payload["subject"])
}

func TestClient_SendAfterClose(t *testing.T) {
	c := NewClient(nil, "auth0|owner", NewHub())
	c.closed = true

	assert.ErrorIs(t, c.Send([]byte("{}")), ErrClientClosed)
	assert.ErrorIs(t, c.SendEvent(SnapshotReloaded(nil)), ErrClientClosed)
	assert.True(t, c.IsClosed())
}

func TestClient_SendFullBuffer(t *testing.T) {
	c := NewClient(nil, "auth0|owner", NewHub())
	for i := 0; i < sendBufferSize; i++ {
		require.NoError(t, c.Send([]byte("{}")))
	}

	assert.ErrorIs(t, c.Send([]byte("{}")), ErrClientClosed, "slow clients are dropped")
}
