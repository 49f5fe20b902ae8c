// Package handlers provides the builtin command set the daemon
// registers at startup: application launching, web search, media,
// system power control, clock queries and volume.
package handlers

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"deskai/internal/command"
)

// Options configures the builtin set. OnExit is invoked by the exit
// command to signal daemon shutdown.
type Options struct {
	OnExit func()
}

// knownApps maps canonical application names to their launch argv.
// Anything not listed is launched by name and left to PATH lookup.
var knownApps = map[string][]string{
	"firefox":    {"firefox"},
	"chrome":     {"google-chrome"},
	"files":      {"xdg-open", "."},
	"calculator": {"gnome-calculator"},
	"editor":     {"gedit"},
	"spotify":    {"spotify"},
	"vlc":        {"vlc"},
	"terminal":   {"x-terminal-emulator"},
}

// RegisterBuiltin installs the builtin command specs into reg. Any
// error is a programming error and fatal at startup.
func RegisterBuiltin(reg *command.Registry, opts Options) error {
	specs := []*command.Spec{
		{
			Intent:      "open_app",
			Description: "open an application or folder",
			Slots: []command.SlotSpec{
				{Name: "target", Type: command.String, Required: true},
			},
			Handler: command.HandlerFunc(openApp),
		},
		{
			Intent:      "close_app",
			Description: "close a running application",
			Slots: []command.SlotSpec{
				{Name: "target", Type: command.String, Required: true},
			},
			Handler: command.HandlerFunc(closeApp),
		},
		{
			Intent:      "search",
			Description: "search the web",
			Slots: []command.SlotSpec{
				{Name: "query", Type: command.String, Required: true},
			},
			Handler: command.HandlerFunc(search),
		},
		{
			Intent:      "play_media",
			Description: "play music or video",
			Slots: []command.SlotSpec{
				{Name: "media", Type: command.String, Required: true},
			},
			Handler: command.HandlerFunc(playMedia),
		},
		{
			Intent:      "system_command",
			Description: "system power control",
			Slots: []command.SlotSpec{
				{
					Name:     "command",
					Type:     command.Enum,
					Required: true,
					Values:   []string{"shutdown", "restart", "sleep", "lock"},
				},
			},
			Handler: command.HandlerFunc(systemCommand),
		},
		{
			Intent:      "time",
			Description: "tell the current time",
			Handler:     command.HandlerFunc(timeNow),
		},
		{
			Intent:      "date",
			Description: "tell today's date",
			Handler:     command.HandlerFunc(dateToday),
		},
		{
			Intent:      "weather",
			Description: "open the weather forecast",
			Handler:     command.HandlerFunc(weather),
		},
		{
			Intent:      "volume",
			Description: "adjust audio volume",
			Slots: []command.SlotSpec{
				{
					Name:     "action",
					Type:     command.Enum,
					Required: true,
					Values:   []string{"up", "down", "mute", "unmute"},
				},
			},
			Handler: command.HandlerFunc(volume),
		},
		{
			Intent:      "exit",
			Description: "shut the assistant down",
			Handler: command.HandlerFunc(func(ctx context.Context, slots map[string]any) (string, error) {
				if opts.OnExit != nil {
					opts.OnExit()
				}
				return "Goodbye! Shutting down.", nil
			}),
		},
	}

	for _, spec := range specs {
		if err := reg.Register(spec); err != nil {
			return fmt.Errorf("register builtin %q: %w", spec.Intent, err)
		}
	}
	return nil
}

func stringSlot(slots map[string]any, name string) string {
	if v, ok := slots[name].(string); ok {
		return v
	}
	return ""
}

func openApp(ctx context.Context, slots map[string]any) (string, error) {
	target := strings.ToLower(stringSlot(slots, "target"))

	argv, ok := knownApps[target]
	if !ok {
		argv = []string{target}
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("open %q: %w", target, err)
	}
	// Launched detached: waiting would hold the pipeline for the
	// application's whole lifetime.
	go func() { _ = cmd.Wait() }()

	return fmt.Sprintf("Opening %s", target), nil
}

func closeApp(ctx context.Context, slots map[string]any) (string, error) {
	target := strings.ToLower(stringSlot(slots, "target"))

	if err := exec.CommandContext(ctx, "pkill", "-x", target).Run(); err != nil {
		return "", fmt.Errorf("close %q: %w", target, err)
	}
	return fmt.Sprintf("Closing %s", target), nil
}

func search(ctx context.Context, slots map[string]any) (string, error) {
	query := stringSlot(slots, "query")

	u := "https://www.google.com/search?q=" + url.QueryEscape(query)
	if err := openURL(ctx, u); err != nil {
		return "", err
	}
	return fmt.Sprintf("Searching for %s", query), nil
}

func playMedia(ctx context.Context, slots map[string]any) (string, error) {
	media := stringSlot(slots, "media")

	u := "https://www.youtube.com/results?search_query=" + url.QueryEscape(media)
	if err := openURL(ctx, u); err != nil {
		return "", err
	}
	return fmt.Sprintf("Playing %s", media), nil
}

func systemCommand(ctx context.Context, slots map[string]any) (string, error) {
	var argv []string
	var msg string

	switch stringSlot(slots, "command") {
	case "shutdown":
		argv, msg = []string{"systemctl", "poweroff"}, "Shutting down"
	case "restart":
		argv, msg = []string{"systemctl", "reboot"}, "Restarting"
	case "sleep":
		argv, msg = []string{"systemctl", "suspend"}, "Putting the computer to sleep"
	case "lock":
		argv, msg = []string{"loginctl", "lock-session"}, "Locking the computer"
	default:
		return "", fmt.Errorf("unknown system command %q", stringSlot(slots, "command"))
	}

	if err := exec.CommandContext(ctx, argv[0], argv[1:]...).Run(); err != nil {
		return "", fmt.Errorf("%s: %w", argv[0], err)
	}
	return msg, nil
}

func timeNow(ctx context.Context, slots map[string]any) (string, error) {
	now := time.Now().Format("3:04 PM")
	return fmt.Sprintf("The time is %s", now), nil
}

func dateToday(ctx context.Context, slots map[string]any) (string, error) {
	today := time.Now().Format("Monday, January 2, 2006")
	return fmt.Sprintf("Today is %s", today), nil
}

func weather(ctx context.Context, slots map[string]any) (string, error) {
	if err := openURL(ctx, "https://www.weather.com"); err != nil {
		return "", err
	}
	return "Opening the weather forecast", nil
}

func volume(ctx context.Context, slots map[string]any) (string, error) {
	var argv []string
	var msg string

	switch stringSlot(slots, "action") {
	case "up":
		argv, msg = []string{"pactl", "set-sink-volume", "@DEFAULT_SINK@", "+10%"}, "Increasing volume"
	case "down":
		argv, msg = []string{"pactl", "set-sink-volume", "@DEFAULT_SINK@", "-10%"}, "Decreasing volume"
	case "mute":
		argv, msg = []string{"pactl", "set-sink-mute", "@DEFAULT_SINK@", "1"}, "Muting audio"
	case "unmute":
		argv, msg = []string{"pactl", "set-sink-mute", "@DEFAULT_SINK@", "0"}, "Unmuting audio"
	default:
		return "", fmt.Errorf("unknown volume action %q", stringSlot(slots, "action"))
	}

	if err := exec.CommandContext(ctx, argv[0], argv[1:]...).Run(); err != nil {
		return "", fmt.Errorf("pactl: %w", err)
	}
	return msg, nil
}

func openURL(ctx context.Context, u string) error {
	cmd := exec.CommandContext(ctx, "xdg-open", u)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("xdg-open: %w", err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
