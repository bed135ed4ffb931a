/*
main.go - Interactive quote client

PURPOSE:

	Terminal front end for the quote controller. Each input line is one UI
	event; pricing completions arrive on a channel and are handled on the
	same goroutine as input, so the controller is never touched
	concurrently.

COMMANDS:

	type <Exterior|Interior>   variant <name>     months <n>    qty <n>
	add                        remove <row>       clear
	discount <None|Agency 10%|PSA 10%>            upfront <yes|no>
	calc                       show               options       help    quit

COMMAND-LINE FLAGS:

	-server   Pricing service URL (default: http://localhost:8080)
	-catalog  CUE catalog file (default: embedded)
	-debug    Log controller diagnostics to stderr
*/
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rts-ads/quote-engine/api"
	"github.com/rts-ads/quote-engine/catalog"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "Pricing service URL")
	catalogPath := flag.String("catalog", "", "CUE catalog file (default: embedded)")
	debug := flag.Bool("debug", false, "Log diagnostics to stderr")
	flag.Parse()

	logger := zap.NewNop()
	if *debug {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
			os.Exit(1)
		}
		logger = l
	}
	defer logger.Sync()

	var (
		cat *catalog.Catalog
		err error
	)
	if *catalogPath == "" {
		cat, err = catalog.Default()
	} else {
		cat, err = catalog.LoadFile(*catalogPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load catalog: %v\n", err)
		os.Exit(1)
	}

	client := api.NewClient(*serverURL, api.WithClientLogger(logger))
	sess := newSession(cat, client, os.Stdout, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := client.HealthCheck(ctx); err != nil {
		fmt.Fprintf(os.Stdout, "warning: %v\n", err)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	sess.prompt()
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok || sess.exec(ctx, line) {
				return
			}
			sess.prompt()
		case comp := <-sess.ctrl.Completions():
			sess.complete(comp)
			sess.prompt()
		}
	}
}
