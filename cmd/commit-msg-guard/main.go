package main

import (
	"context"
	"os"
	"os/signal"

	app "github.com/breml/commitguard/internal/hooks/commitguard"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	code := app.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr, app.WithVersion(version))

	stop()
	os.Exit(code)
}
