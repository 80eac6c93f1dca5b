// Command verifyclient presents a token to a verifytoken server once,
// retrying while the server is unreachable.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mind-engage/verifytoken/internal/client"
	"github.com/mind-engage/verifytoken/internal/logging"
)

func main() {
	url := flag.String("url", "http://localhost:5000", "server base URL")
	token := flag.String("token", "secret_token", "token to present")
	id := flag.String("id", "", "caller id (random UUID when empty)")
	retries := flag.Uint("retries", client.DefaultMaxRetries, "maximum attempts while the server is unreachable")
	interval := flag.Duration("interval", client.DefaultInterval, "delay between attempts")
	level := flag.String("log-level", "warn", "log level")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := client.New(*url,
		client.WithMaxRetries(*retries),
		client.WithInterval(*interval),
		client.WithLogger(logging.NewWithWriter(os.Stderr, *level)),
	)

	os.Exit(report(os.Stdout, os.Stderr, c.Verify(ctx, *token, *id)))
}

// report prints the outcome of a verification and returns the exit code.
func report(stdout, stderr io.Writer, err error) int {
	switch {
	case err == nil:
		fmt.Fprintln(stdout, "Status: OK")
		return 0
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintln(stdout, "Status: Unauthorized")
		return 1
	case errors.Is(err, client.ErrMaxRetries):
		fmt.Fprintln(stdout, "Maximum retries reached")
		fmt.Fprintln(stderr, err)
		return 2
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
}
