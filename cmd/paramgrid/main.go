package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/vk/paramgrid/internal/cli"
)

// main is the entrypoint for the paramgrid binary.
func main() {
	// Use a minimal logger until the App configures its own.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// Flag defaults read PARAMGRID_* variables; a .env file may supply them.
	_ = godotenv.Load()

	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run turns a startup panic into an error so main can exit cleanly.
func run(ctx context.Context, out, errW io.Writer, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("paramgrid panicked: %v", r)
		}
	}()
	return cli.Execute(ctx, args, out, errW)
}
