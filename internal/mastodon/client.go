package mastodon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/fedimark/fedimark/internal/domain"
	"github.com/fedimark/fedimark/internal/logger"
	"github.com/fedimark/fedimark/internal/sources/account"
)

const userAgent = "Fedimark/1.0 Bookmark Sync"

// maxBodySize caps a single page body. A bookmarks page is a few hundred KB
// at most; anything larger is a misbehaving server.
const maxBodySize = 8 << 20

// StatusError is returned when the instance answers with a non-200 status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status code %d", e.StatusCode)
}

// Page is one page of the bookmarks endpoint plus the link to the next one.
// NextURL is empty on the last page.
type Page struct {
	Statuses []*domain.Status
	NextURL  string
}

// Client fetches bookmark pages from the authenticated user's home instance.
// Page fetches are paced by a rate limiter so a full sync over a large
// collection does not hammer the server.
type Client struct {
	instance string
	token    string
	http     *http.Client
	limiter  *rate.Limiter
	logger   logger.Logger
}

// NewClient creates a bookmarks client for the given account.
func NewClient(creds *account.Credentials, timeout time.Duration, pageRate float64, burst int, log logger.Logger) *Client {
	return &Client{
		instance: creds.Instance,
		token:    creds.AccessToken,
		http:     &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Limit(pageRate), burst),
		logger:   log,
	}
}

// FirstPageURL returns the URL of the first bookmarks page.
func (c *Client) FirstPageURL() string {
	return c.instance + "/api/v1/bookmarks"
}

// FetchPage retrieves one page of bookmarks. An empty pageURL means the
// first page; otherwise pageURL is the rel="next" URL from a previous page.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	if pageURL == "" {
		pageURL = c.FirstPageURL()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bookmarks request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks response: %w", err)
	}

	var statuses []*domain.Status
	if err := json.Unmarshal(body, &statuses); err != nil {
		return nil, fmt.Errorf("failed to decode bookmarks page: %w", err)
	}

	page := &Page{
		Statuses: statuses,
		NextURL:  ParseNextLink(resp.Header.Get("Link")),
	}

	c.logger.Debug("fetched bookmarks page",
		logger.String("url", pageURL),
		logger.Int("statuses", len(statuses)),
		logger.String("next", page.NextURL),
		logger.Duration("duration", time.Since(start)))

	return page, nil
}
