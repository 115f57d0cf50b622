package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/subcommands"

	app "github.com/rocketscienceinc/mnk-tictactoe/internal"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/cli"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/config"
)

// main - is the entry point of the application. It initializes the configuration, logger, and dispatches the subcommand.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&cli.AnalyzeCommand{Out: os.Stdout}, "")
	subcommands.Register(&cli.PlayCommand{In: os.Stdin, Out: os.Stdout}, "")
	subcommands.Register(&cli.SelfPlayCommand{Out: os.Stdout}, "")
	subcommands.Register(&cli.ReplayCommand{Out: os.Stdout}, "")

	configPath := flag.String("config", "", "path to config.yml (defaults to ./config.yml)")
	flag.Parse()

	conf := initConfig(*configPath)
	logger := initLogger(conf)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	// after the first signal a second one kills a search that is still running
	go func() {
		<-ctx.Done()
		stop()
	}()

	application, err := app.New(ctx, logger, conf)
	if err != nil {
		stop()
		panic(fmt.Errorf("app init failed: %w", err))
	}

	status := subcommands.Execute(ctx, application)

	if err = application.Close(); err != nil {
		logger.Error("could not close app", "error", err)
	}
	stop()

	os.Exit(int(status))
}

// initialize config.
func initConfig(path string) *config.Config {
	if path != "" {
		return config.MustLoad(path)
	}

	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	return config.MustLoad(filepath.Join(baseDir, "./config.yml"))
}

// initialize logger. Logs go to stderr so they do not mix with command output.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
