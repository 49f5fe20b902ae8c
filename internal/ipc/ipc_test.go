package ipc

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSendUtteranceRoundTrip(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "deskai.sock")

	received := make(chan ControlMessage, 1)
	require.NoError(t, StartServer(socket, func(msg ControlMessage) {
		received <- msg
	}))

	require.NoError(t, SendUtterance(socket, "open browser", 0.9))

	select {
	case msg := <-received:
		require.Equal(t, "utter", msg.Cmd)
		require.Equal(t, "open browser", msg.Text)
		require.InDelta(t, 0.9, msg.Confidence, 1e-9)
	case <-time.After(2 * time.Second):
		t.Fatal("daemon never received the utterance")
	}
}

func TestSendUtteranceNoDaemon(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "missing.sock")
	require.Error(t, SendUtterance(socket, "hello", 1.0))
}
