package logger

import (
	"bytes"
	"os"
	"testing"
)

// capture redirects output to a buffer for the duration of the test.
func capture(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	if IsVerbose() {
		t.Fatal("expected verbose to be off")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Fatal("expected verbose to be on after SetVerbose(true)")
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		log     func(string, ...any)
		want    string
	}{
		{name: "debug verbose", verbose: true, log: Debug, want: "[DEBUG] osu: listening on 127.0.0.1:8080\n"},
		{name: "debug quiet", verbose: false, log: Debug, want: ""},
		{name: "info verbose", verbose: true, log: Info, want: "[INFO] osu: listening on 127.0.0.1:8080\n"},
		{name: "info quiet", verbose: false, log: Info, want: ""},
		{name: "warn verbose", verbose: true, log: Warn, want: "[WARN] osu: listening on 127.0.0.1:8080\n"},
		{name: "warn quiet", verbose: false, log: Warn, want: ""},
		{name: "error verbose", verbose: true, log: Error, want: "[ERROR] osu: listening on 127.0.0.1:8080\n"},
		{name: "error quiet", verbose: false, log: Error, want: "[ERROR] osu: listening on 127.0.0.1:8080\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, tt.verbose)

			tt.log("%s: listening on 127.0.0.1:%d", "osu", 8080)

			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConcurrentToggle(t *testing.T) {
	capture(t, false)
	SetOutput(nopWriter{})

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			SetVerbose(i%2 == 0)
			Debug("session %d", i)
			_ = IsVerbose()
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

// nopWriter discards output and is safe for concurrent use.
type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
