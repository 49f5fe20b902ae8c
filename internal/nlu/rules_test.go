package nlu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"deskai/internal/intent"
)

func parse(t *testing.T, text string) intent.Intent {
	t.Helper()
	in, err := NewRuleParser().Parse(context.Background(), intent.NewUtterance(text, 0.9))
	require.NoError(t, err)
	return in
}

func TestRuleParserIntents(t *testing.T) {
	tests := []struct {
		text  string
		id    string
		slot  string
		value string
	}{
		{"open browser", "open_app", "target", "firefox"},
		{"open google chrome", "open_app", "target", "chrome"},
		{"launch spotify", "open_app", "target", "spotify"},
		{"close firefox", "close_app", "target", "firefox"},
		{"search for golang tutorials", "search", "query", "golang tutorials"},
		{"what is a goroutine", "search", "query", "a goroutine"},
		{"play some jazz", "play_media", "media", "some jazz"},
		{"shutdown the computer", "system_command", "command", "shutdown"},
		{"reboot", "system_command", "command", "restart"},
		{"what time is it", "time", "", ""},
		{"what's the date", "date", "", ""},
		{"what's the weather", "weather", "", ""},
		{"volume up", "volume", "action", "up"},
		{"lower the volume", "volume", "action", "down"},
		{"mute", "volume", "action", "mute"},
		{"goodbye", "exit", "", ""},
		{"stop listening", "exit", "", ""},
		{"quit", "exit", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			in := parse(t, tc.text)
			require.Equal(t, tc.id, in.ID)
			if tc.slot == "" {
				require.Empty(t, in.Slots)
				return
			}
			got, ok := in.Slot(tc.slot)
			require.True(t, ok, "expected slot %q", tc.slot)
			require.Equal(t, tc.value, got)
		})
	}
}

func TestExitVerbsWithTargetCloseTheApp(t *testing.T) {
	// "quit firefox" must close firefox, never shut the assistant down;
	// only a bare exit phrase means exit.
	tests := []struct {
		text   string
		target string
	}{
		{"quit firefox", "firefox"},
		{"exit spotify", "spotify"},
		{"stop music", "spotify"},
	}

	for _, tc := range tests {
		in := parse(t, tc.text)
		require.Equal(t, "close_app", in.ID, "text %q", tc.text)
		got, ok := in.Slot("target")
		require.True(t, ok)
		require.Equal(t, tc.target, got)
	}
}

func TestRuleParserUnknown(t *testing.T) {
	in := parse(t, "mumbling about nothing in particular")
	require.Equal(t, "unknown", in.ID)
}

func TestRuleParserEmptyText(t *testing.T) {
	in := parse(t, "   ")
	require.Equal(t, "unknown", in.ID)
	require.Empty(t, in.Slots)
}

func TestRuleParserConfidenceCappedByUtterance(t *testing.T) {
	p := NewRuleParser()

	in, err := p.Parse(context.Background(), intent.NewUtterance("open firefox", 0.5))
	require.NoError(t, err)
	require.InDelta(t, 0.5, in.Confidence, 1e-9)

	in, err = p.Parse(context.Background(), intent.NewUtterance("open firefox", 0.95))
	require.NoError(t, err)
	require.InDelta(t, ruleConfidence, in.Confidence, 1e-9)
}

func TestNormalizeApp(t *testing.T) {
	require.Equal(t, "firefox", normalizeApp("The Browser"))
	require.Equal(t, "files", normalizeApp("file manager"))
	require.Equal(t, "gimp", normalizeApp("gimp"), "unlisted names pass through")
}
