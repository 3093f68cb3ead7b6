package monitor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastStageEventMarshalsOntoBroadcastChannel(t *testing.T) {
	h := NewHub()
	require.NoError(t, h.BroadcastStageEvent(StageEvent{Stage: "WFACTOR", RFactor: 0.42, Aborted: false, Sequence: 3}))

	msg := <-h.broadcast
	var got StageEvent
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, "WFACTOR", got.Stage)
	assert.InDelta(t, 0.42, got.RFactor, 1e-9)
	assert.False(t, got.Aborted)
	assert.Equal(t, 3, got.Sequence)
}

func TestBroadcastEnqueuesRawBytes(t *testing.T) {
	h := NewHub()
	h.Broadcast([]byte("hello"))
	assert.Equal(t, []byte("hello"), <-h.broadcast)
}

func TestRunRegistersAndDeliversToClients(t *testing.T) {
	h := NewHub()
	go h.Run()

	c := &client{hub: h, send: make(chan []byte, 1)}
	h.register <- c

	h.Broadcast([]byte("ping"))
	assert.Equal(t, []byte("ping"), <-c.send)

	h.unregister <- c
	_, ok := <-c.send
	assert.False(t, ok) // channel closed on unregister
}
