package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"deskai/internal/command"
)

func TestRegisterBuiltin(t *testing.T) {
	reg := command.NewRegistry()
	require.NoError(t, RegisterBuiltin(reg, Options{}))
	reg.Freeze()

	require.Equal(t, []string{
		"close_app", "date", "exit", "open_app", "play_media",
		"search", "system_command", "time", "volume", "weather",
	}, reg.Intents())

	// Registering twice is a programming error.
	reg2 := command.NewRegistry()
	require.NoError(t, RegisterBuiltin(reg2, Options{}))
	require.Error(t, RegisterBuiltin(reg2, Options{}))
}

func TestTimeHandler(t *testing.T) {
	payload, err := timeNow(context.Background(), nil)
	require.NoError(t, err)
	require.Contains(t, payload, "The time is")
	require.Contains(t, payload, time.Now().Format("PM"))
}

func TestDateHandler(t *testing.T) {
	payload, err := dateToday(context.Background(), nil)
	require.NoError(t, err)
	require.Contains(t, payload, "Today is")
	require.Contains(t, payload, time.Now().Format("Monday"))
}

func TestExitHandlerSignalsShutdown(t *testing.T) {
	var exited bool

	reg := command.NewRegistry()
	require.NoError(t, RegisterBuiltin(reg, Options{OnExit: func() { exited = true }}))
	reg.Freeze()

	specs := reg.Lookup("exit")
	require.Len(t, specs, 1)

	payload, err := specs[0].Handler.Invoke(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, "Goodbye! Shutting down.", payload)
	require.True(t, exited)
}

func TestOpenAppUnknownBinaryFails(t *testing.T) {
	_, err := openApp(context.Background(), map[string]any{
		"target": "definitely-not-an-installed-program",
	})
	require.Error(t, err)
}

func TestStringSlot(t *testing.T) {
	slots := map[string]any{"target": "firefox", "level": 75.0}
	require.Equal(t, "firefox", stringSlot(slots, "target"))
	require.Empty(t, stringSlot(slots, "level"), "non-string slots read as empty")
	require.Empty(t, stringSlot(slots, "missing"))
}
