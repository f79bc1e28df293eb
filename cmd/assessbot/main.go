package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/IT-Nick/assessment-bot/internal/app"
	"github.com/peterbourgon/ff/v3"
)

func main() {
	fs := flag.NewFlagSet("assessbot", flag.ExitOnError)
	configPath := fs.String("config", "configs/config.yaml", "path to the YAML config file")

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("ASSESSBOT")); err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse flags: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("app starting")

	application, err := app.NewApp(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}

	if err := application.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
