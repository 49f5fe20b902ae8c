// Package nlu derives structured intents from recognized text. Two
// collaborator implementations are provided: an OpenAI-backed analyzer
// and an offline rule-based parser.
package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	log "log/slog"
	"sort"

	openai "github.com/openai/openai-go/v3"

	"deskai/internal/intent"
)

type result struct {
	Intent     string            `json:"intent"`
	Slots      map[string]string `json:"slots"`
	Confidence float64           `json:"confidence"`
	Query      string            `json:"query"`
}

const systemPrompt = `
You are the intent classifier for a desktop voice assistant.
Your ONLY job is to convert the user's utterance into minimal structured JSON.

GENERAL RULES:
1. Do NOT converse.
2. Do NOT answer the question.
3. Do NOT add explanations.
4. Output ONLY JSON. No markdown.
5. Never hallucinate unknown applications or parameters.

OUTPUT FORMAT:
{
  "intent": "<string>",
  "slots": { "<name>": "<string value>", ... },
  "confidence": <float 0.0-1.0>,
  "query": "<original user text>"
}

INTENTS (canonical, snake_case):
- "open_app"        slots: target (application or folder name)
- "close_app"       slots: target
- "search"          slots: query
- "play_media"      slots: media
- "system_command"  slots: command (shutdown|restart|sleep|lock)
- "time"            no slots
- "date"            no slots
- "weather"         no slots
- "volume"          slots: action (up|down|mute|unmute)
- "exit"            no slots
- "unknown"         (if not classifiable)

SLOT NORMALIZATION:
- Application names: canonical lower-case ("chrome", "firefox", "spotify").
- Map synonyms to the canonical name.
- Keep search queries and media titles as the raw phrase.
- Never invent missing values; omit the slot instead.

If the meaning is unclear, intent = "unknown" with low confidence.
Be strict and minimal. Do not generate text other than the JSON.
`

// Analyzer asks a chat model to classify an utterance. Implements the
// pipeline's Parser contract.
type Analyzer struct {
	client openai.Client
	model  openai.ChatModel
}

func NewAnalyzer(client openai.Client) *Analyzer {
	return &Analyzer{client: client, model: openai.ChatModelGPT5Nano}
}

// Parse classifies the utterance text. The utterance's own recognition
// confidence caps the returned intent confidence, so a badly-heard
// phrase cannot come back over-confident.
func (a *Analyzer) Parse(ctx context.Context, utt intent.Utterance) (intent.Intent, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(utt.Text),
		},
		Model: a.model,
	})
	if err != nil {
		return intent.Intent{}, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return intent.Intent{}, fmt.Errorf("no choices in response")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return intent.Intent{}, fmt.Errorf("empty message content")
	}

	log.Debug("Classified", "data", content)

	var out result
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return intent.Intent{}, fmt.Errorf("unmarshal NLU result: %w (raw: %s)", err, content)
	}

	confidence := out.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = utt.Confidence
	}
	if utt.Confidence > 0 && confidence > utt.Confidence {
		confidence = utt.Confidence
	}

	names := make([]string, 0, len(out.Slots))
	for name := range out.Slots {
		names = append(names, name)
	}
	sort.Strings(names)

	in := intent.Intent{ID: out.Intent, Confidence: confidence}
	for _, name := range names {
		if out.Slots[name] == "" {
			continue
		}
		in.Slots = append(in.Slots, intent.Slot{Name: name, Value: out.Slots[name]})
	}
	return in, nil
}
