// Package tts renders response text to audio through espeak-ng.
package tts

import (
	"fmt"
	"os/exec"
)

// Speaker shells out to espeak-ng. Voice selects the espeak voice
// identifier ("en", "en-us", ...); empty means the espeak default.
type Speaker struct {
	Voice string
}

func NewSpeaker(voice string) *Speaker {
	return &Speaker{Voice: voice}
}

// Speak renders text synchronously. An empty string is a no-op.
func (s *Speaker) Speak(text string) error {
	if text == "" {
		return nil
	}

	args := []string{}
	if s.Voice != "" {
		args = append(args, "-v", s.Voice)
	}
	args = append(args, text)

	if err := exec.Command("espeak-ng", args...).Run(); err != nil {
		return fmt.Errorf("espeak-ng: %w", err)
	}
	return nil
}
