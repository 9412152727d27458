// Command bot is the websocket transport adapter: dial the maze server
// and drive an internal/core.Bot off the decoded messages. Grounded on
// the teacher's cmd/bot/main.go dial/HELLO/read-loop shape, with the
// loop itself factored into internal/transport so cmd/controlpanel can
// reuse it.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"

	"mazebot.ai/internal/core"
	"mazebot.ai/internal/transport"
	"mazebot.ai/internal/tuning"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
	name := flag.String("name", "bot", "agent name")
	tuningFile := flag.String("tuning", "", "path to tuning.yaml (defaults used if empty)")
	traceDir := flag.String("trace-dir", "", "directory for the zstd/JSONL decision trace (disabled if empty)")
	t := tuning.Defaults()
	tuning.RegisterFlags(flag.CommandLine, &t)
	flag.Parse()

	if *tuningFile != "" {
		loaded, err := tuning.Load(*tuningFile)
		if err != nil {
			log.Fatalf("load tuning: %v", err)
		}
		// Flags given on the command line override the loaded file.
		set := map[string]string{}
		flag.Visit(func(f *flag.Flag) { set[f.Name] = f.Value.String() })
		t = loaded
		for name, value := range set {
			_ = flag.Set(name, value)
		}
	}

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	bot := core.New(t, *traceDir)
	defer bot.Close()

	client, err := transport.Dial(*url, *name, bot, logger)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	defer client.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	done := make(chan struct{})
	go func() {
		<-stop
		close(done)
		client.Close()
	}()

	if err := client.Run(done); err != nil {
		logger.Printf("run: %v", err)
	}
}
