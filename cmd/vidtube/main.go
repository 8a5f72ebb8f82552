package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vidfriends/client/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.SetFlags(0)
	log.SetPrefix("vidtube: ")
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		stop()
		log.Fatal(err)
	}
}
