// medquery answers free-text questions about medicines from a local dataset.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"

	"github.com/0xcro3dile/medquery-go/internal/adapters/filewatcher"
	"github.com/0xcro3dile/medquery-go/internal/domain/usecases"
	"github.com/0xcro3dile/medquery-go/internal/infrastructure/config"
	httpserver "github.com/0xcro3dile/medquery-go/internal/infrastructure/http"
	"github.com/0xcro3dile/medquery-go/internal/infrastructure/logging"
	"github.com/0xcro3dile/medquery-go/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("medquery", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String())
		return 0
	}
	if *showHelp {
		printHelp(out)
		return 0
	}

	cmd, rest := "serve", fs.Args()
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	}

	cfg := config.Load()
	switch cmd {
	case "serve":
		return serve(cfg, logging.New(os.Stdout, cfg.LogLevel))
	case "ask":
		return ask(rest, cfg, logging.New(os.Stderr, cfg.LogLevel), out)
	}
	fmt.Fprintf(out, "unknown command %q\n\n", cmd)
	printHelp(out)
	return 2
}

func serve(cfg config.Config, logger *slog.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return 1
	}
	defer a.Close()

	if cfg.DatasetWatch {
		if err := watchDataset(ctx, a, cfg.DatasetPath, logger); err != nil {
			logger.Error("startup failed", "error", err)
			return 1
		}
	}

	if err := httpserver.NewServer(a.chat, cfg.Addr, logger).Start(ctx); err != nil {
		logger.Error("server failed", "error", err)
		return 1
	}
	logger.Info("server stopped")
	return 0
}

// watchDataset rebuilds the index in the background whenever the dataset
// file changes.
func watchDataset(ctx context.Context, a *app, path string, logger *slog.Logger) error {
	watcher, err := filewatcher.NewFSNotifyWatcher(logger)
	if err != nil {
		return fmt.Errorf("creating dataset watcher: %w", err)
	}
	a.closers = append(a.closers, watcher.Stop)

	reindexer := usecases.NewReindexUseCase(a.loader, a.vectors, a.chat, 500*time.Millisecond, logger)
	go func() {
		if err := reindexer.Watch(ctx, watcher, path); err != nil {
			logger.Error("dataset watch stopped", "error", err)
		}
	}()
	logger.Info("watching dataset", "path", path)
	return nil
}

func ask(args []string, cfg config.Config, logger *slog.Logger, out io.Writer) int {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	raw := fs.Bool("raw", false, "Print the reply markup without rendering")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fmt.Fprintln(out, "usage: medquery ask [--raw] <question>")
		return 2
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return 1
	}
	defer a.Close()

	answer := a.chat.Respond(ctx, query).Answer
	if *raw {
		fmt.Fprintln(out, answer)
		return 0
	}

	rendered, err := render(answer)
	if err != nil {
		logger.Warn("rendering failed, printing raw reply", "error", err)
		rendered = answer + "\n"
	}
	fmt.Fprint(out, rendered)
	return 0
}

func render(markup string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(markup)
}

func printHelp(out io.Writer) {
	helpText := `medquery - medicine question answering

Usage:
  medquery [options] [command]

Options:
  --version    Show version information
  --help       Show this help message

Commands:
  serve        Start the HTTP server (default)
  ask          Answer one question in the terminal
               --raw  print the reply markup without rendering

Environment:
  DATASET_PATH, MEDQUERY_ADDR, MATCH_TOP_K, MATCH_THRESHOLD, ENRICH_ENABLED,
  OPENFDA_BASE_URL, REDIS_ADDR, DATASET_WATCH, LOG_LEVEL (a .env file is read
  when present)

Examples:
  medquery --version
  medquery serve
  medquery ask "side effects of ibuprofen"`
	fmt.Fprintln(out, helpText)
}
