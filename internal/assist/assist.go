// Package assist wires the dispatch pipeline together: an utterance is
// parsed into an intent, mapped to a command, executed, and turned into
// a spoken response. One utterance is processed at a time, end to end,
// and the user always hears a response: success payload or fallback
// phrase, never silence.
package assist

import (
	"context"
	"errors"

	"deskai/internal/command"
	"deskai/internal/engine"
	"deskai/internal/intent"
	"deskai/internal/respond"
	"deskai/internal/sink"
)

// Parser is the NLP collaborator: it derives an Intent from recognized
// text. Opaque to the pipeline beyond this contract.
type Parser interface {
	Parse(ctx context.Context, utt intent.Utterance) (intent.Intent, error)
}

// Speaker is the TTS collaborator, fire-and-forget from the pipeline's
// perspective.
type Speaker interface {
	Speak(text string) error
}

// Pipeline runs the map → execute → respond sequence.
type Pipeline struct {
	mapper    *command.Mapper
	engine    *engine.Engine
	responder *respond.Responder
	events    *sink.Sink
	speaker   Speaker
}

func NewPipeline(m *command.Mapper, e *engine.Engine, r *respond.Responder, events *sink.Sink, speaker Speaker) *Pipeline {
	return &Pipeline{
		mapper:    m,
		engine:    e,
		responder: r,
		events:    events,
		speaker:   speaker,
	}
}

// Dispatch maps and executes one intent. Mapping errors are classified
// into an outcome and recovered into a fallback response; nothing from
// this path terminates the pipeline.
func (p *Pipeline) Dispatch(ctx context.Context, in intent.Intent) respond.Response {
	rc, err := p.mapper.Map(in)
	if err != nil {
		res := engine.Result{
			Outcome: classifyMappingError(err),
			Detail:  err.Error(),
		}
		return p.responder.ToResponse(res)
	}
	return p.responder.ToResponse(p.engine.Execute(ctx, rc))
}

// HandleUtterance runs the full path from recognized text to spoken
// response. NLP failures are reported and answered with the NotFound
// fallback.
func (p *Pipeline) HandleUtterance(ctx context.Context, utt intent.Utterance, parser Parser) respond.Response {
	in, err := parser.Parse(ctx, utt)
	if err != nil {
		p.events.Report(sink.Event{
			Stage:    sink.StageNLP,
			Severity: sink.Error,
			Message:  "intent extraction failed",
			Detail:   err.Error(),
		})
		resp := p.responder.ToResponse(engine.Result{
			Outcome: engine.NotFound,
			Detail:  err.Error(),
		})
		p.speak(resp)
		return resp
	}

	resp := p.Dispatch(ctx, in)
	p.speak(resp)
	return resp
}

func (p *Pipeline) speak(resp respond.Response) {
	if p.speaker == nil {
		return
	}
	if err := p.speaker.Speak(resp.Text); err != nil {
		p.events.Report(sink.Event{
			Stage:    sink.StageTTS,
			Severity: sink.Error,
			Message:  "speech output failed",
			Detail:   err.Error(),
		})
	}
}

// classifyMappingError folds the mapping error taxonomy into outcome
// tags: unknown intents read as NotFound, ambiguity stays ambiguous,
// and everything else is a plain failure.
func classifyMappingError(err error) engine.Outcome {
	var unknown *command.UnknownIntentError
	if errors.As(err, &unknown) {
		return engine.NotFound
	}
	var ambiguous *command.AmbiguousIntentError
	if errors.As(err, &ambiguous) {
		return engine.AmbiguousIntent
	}
	return engine.Failure
}
