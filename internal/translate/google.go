package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultGoogleURL is the public Google Translate web API host.
const DefaultGoogleURL = "https://translate.googleapis.com"

// maxErrorBody caps how much of an error response is kept for the message.
const maxErrorBody = 512

// Google translates through the keyless translate_a/single endpoint used by
// the Google Translate web client.
type Google struct {
	// BaseURL overrides DefaultGoogleURL, mainly for tests.
	BaseURL string

	// Client is the HTTP client to use. Nil means a client with a 30s timeout.
	Client *http.Client
}

// NewGoogle returns a Google translator for baseURL (empty = DefaultGoogleURL).
func NewGoogle(baseURL string) *Google {
	return &Google{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Translate implements Translator.
func (g *Google) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	base := g.BaseURL
	if base == "" {
		base = DefaultGoogleURL
	}
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+"/translate_a/single?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create translation request: %w", err)
	}

	client := g.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read translation response: %w", err)
	}
	return parseGoogleResponse(body)
}

// parseGoogleResponse extracts the translated text from a response shaped
// like [[["Hello","안녕",null,null,10],[" world","세계",...]],null,"ko",...].
// Long inputs come back split into sentences; they are joined in order.
func parseGoogleResponse(body []byte) (string, error) {
	var top []json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}
	if len(top) == 0 {
		return "", fmt.Errorf("empty translation response")
	}

	var segments []json.RawMessage
	if err := json.Unmarshal(top[0], &segments); err != nil {
		return "", fmt.Errorf("unexpected translation response: %w", err)
	}

	var sb strings.Builder
	for i, raw := range segments {
		var seg []json.RawMessage
		if err := json.Unmarshal(raw, &seg); err != nil || len(seg) == 0 {
			return "", fmt.Errorf("unexpected translation segment %d", i)
		}
		var s *string
		if err := json.Unmarshal(seg[0], &s); err != nil {
			return "", fmt.Errorf("unexpected translation segment %d: %w", i, err)
		}
		if s != nil {
			sb.WriteString(*s)
		}
	}
	return sb.String(), nil
}
