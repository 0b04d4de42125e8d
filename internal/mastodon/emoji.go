package mastodon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/doyensec/safeurl"

	"github.com/fedimark/fedimark/internal/domain"
	"github.com/fedimark/fedimark/internal/logger"
)

// EmojiClient fetches an instance's public custom-emoji list.
//
// Unlike the bookmarks client, which only ever talks to the operator's
// configured home instance, the emoji client is pointed at arbitrary hosts
// extracted from federated content. Those hosts are untrusted input, so
// requests go through a safeurl client that refuses private, loopback and
// link-local targets (including after DNS resolution).
type EmojiClient struct {
	http   *http.Client
	logger logger.Logger
}

// NewEmojiClient creates an SSRF-guarded custom-emoji client.
func NewEmojiClient(timeout time.Duration, log logger.Logger) *EmojiClient {
	cfg := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("https").
		SetAllowedPorts(443).
		Build()

	wrapped := safeurl.Client(cfg)

	return &EmojiClient{
		http:   wrapped.Client,
		logger: log,
	}
}

// Fetch retrieves host's custom emoji list.
func (c *EmojiClient) Fetch(ctx context.Context, host string) ([]*domain.CustomEmoji, error) {
	endpoint := "https://" + host + "/api/v1/custom_emojis"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("custom emoji request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read custom emoji response: %w", err)
	}

	var emoji []*domain.CustomEmoji
	if err := json.Unmarshal(body, &emoji); err != nil {
		return nil, fmt.Errorf("failed to decode custom emoji list: %w", err)
	}

	c.logger.Debug("fetched custom emoji",
		logger.String("host", host),
		logger.Int("count", len(emoji)))

	return emoji, nil
}
