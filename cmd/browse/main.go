package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/metinatakli/movie-catalog/internal/client"
	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/metinatakli/movie-catalog/internal/tui"
)

func main() {
	apiURL := flag.String("api", "http://localhost:3000", "base URL of the movie catalog API")
	pageSize := flag.Int("page-size", domain.DefaultPageSize, "initial page size, 0 shows every movie")
	logPath := flag.String("log", "", "write logs to this file")
	flag.Parse()

	err := run(*apiURL, *pageSize, *logPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "browse:", err)
		os.Exit(1)
	}
}

func run(apiURL string, pageSize int, logPath string) error {
	var out io.Writer = io.Discard

	// The terminal belongs to the program, so logs only go to a file.
	if logPath != "" {
		f, err := tea.LogToFile(logPath, "browse")
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	logger := slog.New(slog.NewTextHandler(out, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model, err := tui.New(ctx, client.New(apiURL), pageSize, logger)
	if err != nil {
		return err
	}
	defer model.Close()

	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		logger.Error("browser stopped", "error", err)
	}

	return err
}
