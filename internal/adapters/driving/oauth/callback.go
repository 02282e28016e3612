// Package oauth provides the loopback listener, the one-shot callback server
// and the browser launcher used by the authorization flow.
package oauth

import (
	"bufio"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cli/browser"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/logger"
)

const (
	// CallbackPath is the redirect path registered with every provider.
	CallbackPath = "/callback"

	// pollInterval bounds each accept so cancellation is noticed promptly.
	pollInterval = 100 * time.Millisecond

	// maxRequestBytes caps how much of the request is buffered.
	maxRequestBytes = 8 << 10

	// connTimeout bounds reading the request and writing the page.
	connTimeout = 5 * time.Second
)

// RedirectRequest is the request-target of the browser redirect.
type RedirectRequest struct {
	// Target is the raw path and query, e.g. "/callback?code=abc&state=xyz".
	Target string
	// Port is the loopback port the redirect arrived on.
	Port int
}

// URL reconstructs the full callback URL from the known host and port.
func (r *RedirectRequest) URL() (*url.URL, error) {
	return url.Parse(fmt.Sprintf("http://%s:%d%s", loopbackHost, r.Port, r.Target))
}

// AuthorizationCode validates the redirect and extracts the code.
// A provider error (e.g. the user denied access) wraps domain.ErrAccessDenied;
// an unexpected state wraps domain.ErrStateMismatch.
func (r *RedirectRequest) AuthorizationCode(expectedState string) (string, error) {
	u, err := r.URL()
	if err != nil {
		return "", &domain.CallbackError{Kind: domain.CallbackMalformed, Err: err}
	}
	if u.Path != CallbackPath {
		return "", &domain.CallbackError{
			Kind: domain.CallbackMalformed,
			Err:  fmt.Errorf("unexpected path %q", u.Path),
		}
	}

	q := u.Query()
	if errParam := q.Get("error"); errParam != "" {
		if desc := q.Get("error_description"); desc != "" {
			return "", fmt.Errorf("%w: %s - %s", domain.ErrAccessDenied, errParam, desc)
		}
		return "", fmt.Errorf("%w: %s", domain.ErrAccessDenied, errParam)
	}

	state := q.Get("state")
	if expectedState == "" || subtle.ConstantTimeCompare([]byte(state), []byte(expectedState)) != 1 {
		return "", domain.ErrStateMismatch
	}

	code := q.Get("code")
	if code == "" {
		return "", errors.New("no authorization code received")
	}
	return code, nil
}

// AcceptOnce waits for a single redirect on the manager's listener.
// It polls in short slices so that ctx cancellation or a concurrent Release
// ends the wait with domain.CallbackCancelled; after timeout it returns
// domain.CallbackTimedOut. Only the request line is parsed.
func AcceptOnce(ctx context.Context, m *ListenerManager, timeout time.Duration) (*RedirectRequest, error) {
	port := m.Port()
	deadline := time.Now().Add(timeout)

	for {
		if err := ctx.Err(); err != nil {
			return nil, &domain.CallbackError{Kind: domain.CallbackCancelled, Err: err}
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, &domain.CallbackError{Kind: domain.CallbackTimedOut}
		}

		conn, err := m.accept(min(pollInterval, remaining))
		switch {
		case err == nil:
			return serveRedirect(conn, port)
		case errors.Is(err, os.ErrDeadlineExceeded):
			continue
		case errors.Is(err, domain.ErrNotBound), errors.Is(err, net.ErrClosed):
			return nil, &domain.CallbackError{Kind: domain.CallbackCancelled, Err: err}
		default:
			return nil, &domain.CallbackError{Kind: domain.CallbackIO, Err: err}
		}
	}
}

// serveRedirect reads the request line, answers with a static page and closes the connection.
func serveRedirect(conn net.Conn, port int) (*RedirectRequest, error) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(connTimeout))

	reader := bufio.NewReaderSize(io.LimitReader(conn, maxRequestBytes), 1024)
	target, err := readRequestTarget(reader)
	if err != nil {
		_, _ = io.WriteString(conn, response("400 Bad Request", pageHTML("Authorization failed",
			"The callback request could not be read.")))
		return nil, &domain.CallbackError{Kind: domain.CallbackMalformed, Err: err}
	}

	// Drain the headers so closing does not reset the connection under the browser.
	drainHeaders(reader)

	if _, err := io.WriteString(conn, response("200 OK", pageHTML("Authorization received",
		"You can close this tab and return to Tunebridge."))); err != nil {
		logger.Warn("writing callback page: %v", err)
	}

	logger.Debug("callback received on port %d", port)
	return &RedirectRequest{Target: target, Port: port}, nil
}

func readRequestTarget(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if line == "" {
			return "", errors.New("empty request line")
		}
		return "", fmt.Errorf("incomplete request line: %w", err)
	}

	fields := strings.Fields(line)
	if len(fields) != 3 || !strings.HasPrefix(fields[2], "HTTP/") {
		return "", fmt.Errorf("invalid request line %q", strings.TrimSpace(line))
	}
	if !strings.HasPrefix(fields[1], "/") {
		return "", fmt.Errorf("invalid request target %q", fields[1])
	}
	return fields[1], nil
}

func drainHeaders(r *bufio.Reader) {
	for {
		line, err := r.ReadString('\n')
		if err != nil || strings.TrimRight(line, "\r\n") == "" {
			return
		}
	}
}

func response(status, body string) string {
	return fmt.Sprintf("HTTP/1.1 %s\r\nContent-Type: text/html; charset=utf-8\r\n"+
		"Content-Length: %d\r\nConnection: close\r\n\r\n%s", status, len(body), body)
}

//nolint:misspell // CSS properties use American spelling (center, color)
func pageHTML(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>Tunebridge - Authorization</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
               display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; }
        h1 { color: #333; margin-bottom: 10px; }
        p { color: #666; }
    </style>
</head>
<body>
    <div>
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, title, message)
}

// OpenBrowser opens the default browser to the given URL.
func OpenBrowser(u string) error {
	return browser.OpenURL(u)
}
