// Package ipc is the local control channel: a unix socket over which
// external collaborators (the STT front end, scripts, deskai-ctl) hand
// recognized utterances to the daemon.
package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
)

const DefaultSocketPath = "/tmp/deskai.sock"

// ControlMessage is one framed control request. For "utter" commands
// Text carries the recognized speech and Confidence its recognition
// score.
type ControlMessage struct {
	Cmd        string  `json:"cmd"`
	Text       string  `json:"text,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// StartServer listens on socketPath and invokes handler for each
// decoded message. The listener runs until the process exits.
func StartServer(socketPath string, handler func(ControlMessage)) error {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	os.Remove(socketPath)

	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				continue
			}
			go handleConn(conn, handler)
		}
	}()

	return nil
}

func handleConn(conn net.Conn, handler func(ControlMessage)) {
	defer conn.Close()

	var msg ControlMessage
	dec := json.NewDecoder(conn)
	if err := dec.Decode(&msg); err != nil {
		return
	}
	handler(msg)
}

// SendUtterance delivers one recognized utterance to a running daemon.
func SendUtterance(socketPath, text string, confidence float64) error {
	return send(socketPath, ControlMessage{Cmd: "utter", Text: text, Confidence: confidence})
}

func send(socketPath string, msg ControlMessage) error {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	return enc.Encode(msg)
}
