package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"mincc/internal/cli"
	"mincc/internal/initialization"
	"mincc/internal/logger"
)

func main() {
	// Create a cancellable context to manage shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := initialization.Initialize(ctx)
	if err != nil {
		logger.Errorf("Initialization error: %v", err)
		os.Exit(1)
	}

	// Ensure all log files are closed on exit
	defer func() {
		app.Transcript.Close()
		logger.CloseLogFile()
	}()

	// Setup signal handling for graceful shutdown
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigs
		logger.AgentDebugf("Shutdown signal received, exiting...")
		cancel()
	}()

	term := cli.NewTerminal(os.Stdout, cli.DefaultTheme(), app.Banner)
	session := cli.NewSession(app.Agent, nil, term, os.Stdin, app.Transcript)

	if err := session.Run(ctx); err != nil {
		logger.Errorf("Session error: %v", err)
	}
}
