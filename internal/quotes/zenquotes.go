package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/motivationmailer/mailer/internal/config"
	"github.com/motivationmailer/mailer/internal/model"
)

// Fetcher returns a batch of quotes from an upstream source
type Fetcher interface {
	FetchQuotes(ctx context.Context) ([]model.Quote, error)
}

// zenQuote is one element of the ZenQuotes JSON array
type zenQuote struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// ZenQuotes fetches quotes from the ZenQuotes API (https://zenquotes.io/)
type ZenQuotes struct {
	url    string
	client *http.Client
}

// NewZenQuotes creates a new ZenQuotes client
func NewZenQuotes(cfg config.QuotesConfig) *ZenQuotes {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ZenQuotes{
		url:    cfg.URL,
		client: &http.Client{Timeout: timeout},
	}
}

// FetchQuotes requests a batch of quotes. Entries without text are dropped.
func (z *ZenQuotes) FetchQuotes(ctx context.Context) ([]model.Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, z.url, nil)
	if err != nil {
		return nil, fmt.Errorf("zenquotes: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := z.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zenquotes: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("zenquotes: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload []zenQuote
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("zenquotes: malformed response: %w", err)
	}

	quotes := make([]model.Quote, 0, len(payload))
	for _, q := range payload {
		if strings.TrimSpace(q.Q) == "" {
			continue
		}
		quotes = append(quotes, model.Quote{Text: q.Q, Author: q.A})
	}
	return quotes, nil
}
