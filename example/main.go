package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/discoveryboard"
	"github.com/jpalmerr/discoveryboard/example/mockapi"
)

func main() {
	// start the mock research API on a free port
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		slog.Error("failed to listen", "error", err)
		os.Exit(1)
	}
	api := mockapi.New(mockapi.Config{
		FailureRate: 0.15,
		MinLatency:  100 * time.Millisecond,
		MaxLatency:  800 * time.Millisecond,
	}, slog.Default())
	go func() {
		_ = http.Serve(ln, api.Handler())
	}()

	var lastCandidates int
	db, err := discoveryboard.New(
		discoveryboard.WithBaseURL("http://"+ln.Addr().String()),
		discoveryboard.WithTitle("Discovery Demo"),
		discoveryboard.WithPollingInterval(5*time.Second),
		discoveryboard.WithPort(8080),
		discoveryboard.WithViewCallback(func(s discoveryboard.ViewState) {
			if s.Loading || len(s.Candidates) == lastCandidates {
				return
			}
			lastCandidates = len(s.Candidates)
			slog.Info("candidates changed", "count", lastCandidates)
		}),
	)
	if err != nil {
		slog.Error("failed to create dashboard", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  Discovery Demo")
	fmt.Println()
	fmt.Println("  Open http://localhost:8080 in your browser")
	fmt.Println("  Mock API at http://" + ln.Addr().String())
	fmt.Println("  About 15% of requests fail so stale-data notices show up")
	fmt.Println()
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Start(ctx); err != nil {
		slog.Error("discoveryboard error", "error", err)
		os.Exit(1)
	}
}
