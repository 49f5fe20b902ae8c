package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"deskai/internal/assist"
	"deskai/internal/bus"
	"deskai/internal/command"
	"deskai/internal/config"
	"deskai/internal/engine"
	"deskai/internal/handlers"
	"deskai/internal/intent"
	"deskai/internal/ipc"
	"deskai/internal/nlu"
	"deskai/internal/proxy"
	"deskai/internal/respond"
	"deskai/internal/sink"
	"deskai/internal/tts"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// job is one utterance awaiting dispatch, with an optional reply path
// for bus-originated utterances.
type job struct {
	utt   intent.Utterance
	reply func(respond.Response)
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	offline := cli.BoolP("offline", "o", false, "Force the offline rule parser")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	events := sink.New(log.Default())
	defer events.Close()

	shutdown := make(chan struct{})

	registry := command.NewRegistry()
	if err := handlers.RegisterBuiltin(registry, handlers.Options{
		OnExit: func() { close(shutdown) },
	}); err != nil {
		// A registration failure is a programming error; abort boot.
		log.Error("Failed to register commands", "err", err)
		os.Exit(1)
	}
	registry.Freeze()

	log.Debug("Registered commands", "intents", registry.Intents())

	parser := buildParser(cfg, *offline)
	speaker := tts.NewSpeaker(cfg.Voice)

	pipeline := assist.NewPipeline(
		command.NewMapper(registry, cfg.ConfidenceThreshold, events),
		engine.New(cfg.ExecutionTimeout, events),
		respond.NewResponder(cfg.Phrases()),
		events,
		speaker,
	)

	jobs := make(chan job, 8)

	if err := ipc.StartServer(cfg.SocketPath, func(msg ipc.ControlMessage) {
		switch msg.Cmd {
		case "utter":
			jobs <- job{utt: intent.NewUtterance(msg.Text, msg.Confidence)}
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
		}
	}); err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}

	if cfg.BusURL != "" {
		go serveBus(cfg.BusURL, jobs)
	}

	log.Info("Boot up - successful")
	events.Report(sink.Event{Stage: sink.StageSystem, Severity: sink.Info, Message: "daemon ready"})

	// One utterance at a time, end to end.
	ctx := context.Background()
	for {
		select {
		case j := <-jobs:
			resp := pipeline.HandleUtterance(ctx, j.utt, parser)
			if j.reply != nil {
				j.reply(resp)
			}
		case <-shutdown:
			log.Info("Shutting down")
			os.Remove(cfg.SocketPath)
			return
		}
	}
}

func buildParser(cfg config.Config, offline bool) assist.Parser {
	if offline || cfg.OpenAIKey == "" {
		log.Info("Using offline rule parser")
		return nlu.NewRuleParser()
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.OpenAIKey)}
	if cfg.ProxyAddr != "" {
		httpClient, err := proxy.NewSocksClient(cfg.ProxyAddr, cfg.ProxyTimeout)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", cfg.ProxyAddr, "err", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return nlu.NewAnalyzer(openai.NewClient(opts...))
}

// serveBus feeds bus utterances into the dispatch loop and writes the
// response back to the sender.
func serveBus(busURL string, jobs chan<- job) {
	conn, err := bus.Dial(busURL)
	if err != nil {
		log.Error("Failed to connect to bus", "url", busURL, "err", err)
		return
	}
	defer conn.Close()

	for {
		msg, err := conn.Read()
		if err != nil {
			log.Error("Bus read failed", "err", err)
			return
		}
		if msg.Kind != "utterance" {
			continue
		}

		from := msg.From
		jobs <- job{
			utt: intent.NewUtterance(msg.Content, msg.Confidence),
			reply: func(resp respond.Response) {
				err := conn.Write(&bus.Message{
					From:    "deskai",
					To:      from,
					Kind:    "response",
					Content: resp.Text,
				})
				if err != nil {
					log.Error("Failed to send response", "err", err)
				}
			},
		}
	}
}
