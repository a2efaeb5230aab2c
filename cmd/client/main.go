package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/templui/loginapi/cmd/client/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Root().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
