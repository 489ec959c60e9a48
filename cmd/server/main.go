// Command server runs the vocabulary tutor HTTP API.
//
// Configuration comes from environment variables or a YAML file pointed
// to by CONFIG_PATH. The server shuts down gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/lexloop/vocabtutor-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("run: %v", err)
	}
}
