package domain

// Status represents a federated post saved as a bookmark.
// Field names and JSON tags follow the Mastodon API; the same encoding is
// used for the persisted cache blob, so a cached collection round-trips
// without a separate storage schema.
type Status struct {
	// ID is the server-assigned identifier. It is treated as opaque and is
	// the sole deduplication key: two statuses with the same ID are the
	// same bookmark regardless of content differences.
	ID string `json:"id"`

	// Content is the raw HTML body as returned by the server.
	// It is stored untouched; sanitizing happens at the API boundary.
	Content string `json:"content"`

	// Account is a snapshot of the author at fetch time.
	Account Account `json:"account"`

	// MediaAttachments preserves the server's attachment order.
	MediaAttachments []MediaAttachment `json:"media_attachments"`

	// Mentions lists accounts referenced in the post, if any.
	Mentions []Mention `json:"mentions,omitempty"`

	// Reblog is the boosted status when this bookmark is a boost.
	// Nesting is finite: servers do not return boosts of boosts.
	Reblog *Status `json:"reblog,omitempty"`
}

// Account is the author snapshot embedded in a status.
type Account struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	Acct        string `json:"acct"`
	URL         string `json:"url"`
}

// Mention references an account mentioned in a status body.
type Mention struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	URL      string `json:"url"`
	Acct     string `json:"acct"`
}

// MediaAttachment describes one attached media item.
type MediaAttachment struct {
	ID         string `json:"id"`
	Type       string `json:"type"` // "image", "video", "gifv", "audio", ...
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url,omitempty"`
}
