package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"deskai/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Daemon socket path")
	confidence := cli.Float64P("confidence", "c", 1.0, "Recognition confidence to report")
	cli.Parse()

	text := strings.TrimSpace(strings.Join(cli.Args(), " "))
	if text == "" {
		fmt.Println("usage: deskai-ctl [flags] <utterance text>")
		os.Exit(2)
	}

	if err := ipc.SendUtterance(*socket, text, *confidence); err != nil {
		fmt.Println("deskai-daemon not running:", err)
		os.Exit(1)
	}
}
