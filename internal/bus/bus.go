// Package bus connects the daemon to a WebSocket message bus so other
// shards (a remote STT front end, a UI) can feed it utterances and
// receive spoken responses.
package bus

import (
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/gorilla/websocket"
)

type Bus struct {
	conn *websocket.Conn
}

// Message is one bus frame. Kind "utterance" carries recognized text
// and its confidence inbound; kind "response" carries the spoken reply
// outbound.
type Message struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Kind       string  `json:"kind"`
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence,omitempty"`
}

func Dial(wsURL string) (*Bus, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}

	slog.Info("Connected to bus", "url", wsURL)
	return &Bus{conn: conn}, nil
}

func (b *Bus) Read() (*Message, error) {
	_, msg, err := b.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var m Message
	if err := json.Unmarshal(msg, &m); err != nil {
		return nil, err
	}

	return &m, nil
}

func (b *Bus) Write(m *Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}

	return b.conn.WriteMessage(websocket.TextMessage, data)
}

func (b *Bus) Close() error {
	return b.conn.Close()
}
