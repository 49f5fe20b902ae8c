package nlu

import (
	"context"
	"regexp"
	"strings"

	"deskai/internal/intent"
)

// rule binds an intent identifier to a phrase pattern. When the
// pattern captures a group, slot names the slot the capture fills.
type rule struct {
	intent  string
	slot    string
	pattern *regexp.Regexp
}

// ruleConfidence is assigned to any pattern hit. Pattern matches are
// strong signals but not certainties.
const ruleConfidence = 0.8

var rules = []rule{
	// Anchored: "quit" with a target is close_app, not a shutdown.
	{"exit", "", regexp.MustCompile(`^(?:exit|quit|goodbye|bye|stop listening)$`)},
	{"system_command", "command", regexp.MustCompile(`\b(shutdown|restart|reboot|sleep|lock)\b\s*(?:computer|system|pc)?`)},
	{"time", "", regexp.MustCompile(`\b(?:what time is it|tell me the time|current time|what'?s the time)\b`)},
	{"date", "", regexp.MustCompile(`\b(?:what'?s (?:the )?date|today'?s date|what day is it)\b`)},
	{"weather", "", regexp.MustCompile(`\b(?:what'?s the weather|weather forecast|how'?s the weather)\b`)},
	{"volume", "action", regexp.MustCompile(`\b(?:volume|sound)\s+(up|down|mute|unmute)\b`)},
	{"volume", "action", regexp.MustCompile(`\b(?:(increase|raise)|(decrease|lower))\s+(?:the\s+)?volume\b`)},
	{"volume", "action", regexp.MustCompile(`\b(mute|unmute)\b`)},
	{"play_media", "media", regexp.MustCompile(`\b(?:play|start playing|put on)\s+(.+)`)},
	{"open_app", "target", regexp.MustCompile(`\b(?:open|launch|start|run)\s+(.+)`)},
	{"close_app", "target", regexp.MustCompile(`\b(?:close|quit|exit|stop)\s+(.+)`)},
	{"search", "query", regexp.MustCompile(`\b(?:search|look up|google)\s+(?:for\s+)?(.+)`)},
	{"search", "query", regexp.MustCompile(`\b(?:what is|who is|tell me about)\s+(.+)`)},
}

// appAliases maps spoken application names to canonical identifiers.
var appAliases = map[string][]string{
	"firefox":    {"firefox", "browser", "the browser", "web browser"},
	"chrome":     {"chrome", "google chrome"},
	"files":      {"files", "file manager", "explorer", "my computer"},
	"calculator": {"calculator", "calc"},
	"editor":     {"editor", "text editor", "notepad"},
	"spotify":    {"spotify", "music"},
	"vlc":        {"vlc", "vlc player", "video player"},
	"terminal":   {"terminal", "console", "shell"},
}

// RuleParser is the offline NLP collaborator: a fixed pattern table
// matched against the utterance text, first hit wins. Used when no
// OpenAI key is configured.
type RuleParser struct{}

func NewRuleParser() *RuleParser { return &RuleParser{} }

func (p *RuleParser) Parse(_ context.Context, utt intent.Utterance) (intent.Intent, error) {
	text := strings.ToLower(strings.TrimSpace(utt.Text))
	if text == "" {
		return intent.Intent{ID: "unknown"}, nil
	}

	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		in := intent.Intent{ID: r.intent, Confidence: ruleConfidence}
		if utt.Confidence > 0 && utt.Confidence < in.Confidence {
			in.Confidence = utt.Confidence
		}
		if r.slot != "" {
			value := captured(m)
			value = normalizeSlot(r.intent, r.slot, value)
			if value != "" {
				in.Slots = append(in.Slots, intent.Slot{Name: r.slot, Value: value})
			}
		}
		return in, nil
	}

	return intent.Intent{ID: "unknown", Confidence: utt.Confidence}, nil
}

// captured returns the first non-empty capture group.
func captured(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return strings.TrimSpace(g)
		}
	}
	return ""
}

func normalizeSlot(intentID, slot, value string) string {
	switch {
	case intentID == "system_command" && value == "reboot":
		return "restart"
	case intentID == "volume":
		switch value {
		case "increase", "raise":
			return "up"
		case "decrease", "lower":
			return "down"
		}
		return value
	case slot == "target":
		return normalizeApp(value)
	}
	return value
}

func normalizeApp(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for canonical, aliases := range appAliases {
		for _, alias := range aliases {
			if name == alias {
				return canonical
			}
		}
	}
	return name
}
