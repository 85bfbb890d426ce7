// envelope: buildable envelope and yield calculator for rectangular lots.
//
// Build:
//   go build -o envelope ./cmd/envelope
//
// Version information is injected at build time:
//   go build -ldflags "-X main.version=v1.0.0 -X main.commit=$(git rev-parse --short HEAD)" ./cmd/envelope
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o envelope.exe ./cmd/envelope
//   GOOS=darwin  GOARCH=arm64 go build -o envelope-darwin ./cmd/envelope

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/piwi3910/envelope/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.SetVersion(version, commit, date)
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
