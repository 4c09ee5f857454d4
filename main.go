package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stockdigest/cmd"
	"stockdigest/database"

	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	var err error
	switch {
	case len(os.Args) > 1 && os.Args[1] == "migrate":
		err = handleMigrationCommand()
	case len(os.Args) > 1 && os.Args[1] == "schedule":
		err = cmd.Schedule(ctx, len(os.Args) > 2 && os.Args[2] == "--now")
	case len(os.Args) > 1:
		err = fmt.Errorf("unknown command: %s (usage: stockdigest [migrate|schedule [--now]])", os.Args[1])
	default:
		// One digest run, intended for an external weekly trigger
		err = cmd.Run(ctx)
	}

	if err != nil {
		log.Fatalf("FATAL ERROR: %v", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: stockdigest migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}
