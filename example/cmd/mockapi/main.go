// Standalone mock research API for testing the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockapi
//
// Then in another terminal:
//
//	go run ./cmd/discoveryboard serve -c example/config.yaml
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jpalmerr/discoveryboard/example/mockapi"
)

func main() {
	addr := flag.String("addr", ":8000", "listen address")
	failureRate := flag.Float64("failure-rate", 0.1, "share of requests answered with 503")
	flag.Parse()

	fmt.Printf("Mock research API starting on %s\n", *addr)
	fmt.Println("Scores drift, enrollment grows, some requests fail")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	api := mockapi.New(mockapi.Config{
		FailureRate: *failureRate,
		MinLatency:  50 * time.Millisecond,
		MaxLatency:  400 * time.Millisecond,
	}, slog.Default())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
