package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxProfileBytes caps how much of a profile response is decoded.
const maxProfileBytes = 1 << 20

// GetJSON issues an authenticated GET and decodes the JSON body into v.
// The client is expected to carry the bearer token.
func GetJSON(ctx context.Context, client *http.Client, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxProfileBytes)
	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(body)
		return fmt.Errorf("profile request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode profile: %w", err)
	}
	return nil
}
