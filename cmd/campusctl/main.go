// Command campusctl drives the campus API from a terminal. The session is kept
// in a local JSON file so that it survives between invocations.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/sethvargo/go-envconfig"

	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	log := logger.Init(logger.Options{
		Level:  level,
		Pretty: true,
		Output: os.Stderr,
		App:    "campusctl",
	})

	err := run(ctx, os.Args[1:], envconfig.OsLookuper(), os.Stdout, log)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		if kind := domain.KindOf(err); kind != "" {
			fmt.Fprintln(os.Stderr, "kind:", kind)
		}
		os.Exit(1)
	}
}
