package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/mind-engage/verifytoken/internal/client"
)

func TestReport(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"accepted", nil, 0, "Status: OK\n", ""},
		{"replayed", client.ErrUnauthorized, 1, "Status: Unauthorized\n", ""},
		{"unreachable", fmt.Errorf("%w: %w", client.ErrMaxRetries, errors.New("connection refused")), 2,
			"Maximum retries reached\n", "connection refused"},
		{"bad status", &client.StatusError{Code: http.StatusBadRequest, Body: `{"error":"bad json"}`}, 1,
			"", "Error: client: unexpected status 400"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if got := report(&stdout, &stderr, tc.err); got != tc.wantCode {
				t.Errorf("exit code = %d, want %d", got, tc.wantCode)
			}
			if stdout.String() != tc.wantStdout {
				t.Errorf("stdout = %q, want %q", stdout.String(), tc.wantStdout)
			}
			if tc.wantStderr == "" && stderr.Len() != 0 {
				t.Errorf("unexpected stderr %q", stderr.String())
			}
			if !strings.Contains(stderr.String(), tc.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tc.wantStderr)
			}
		})
	}
}
