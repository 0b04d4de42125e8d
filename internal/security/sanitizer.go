// Package security sanitizes federated HTML before it leaves the API.
package security

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/fedimark/fedimark/internal/domain"
)

// Sanitizer strips unsafe markup from status content. Mastodon statuses
// carry server-rendered HTML from arbitrary remote instances, so nothing
// beyond basic user-generated-content markup survives.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AllowAttrs("class").OnElements("span", "a")
	return &Sanitizer{policy: p}
}

// Content sanitizes a raw HTML fragment.
func (s *Sanitizer) Content(html string) string {
	return s.policy.Sanitize(html)
}

// Status returns a copy of the status with all HTML fields sanitized,
// including the reblogged status if present. The input is not modified.
func (s *Sanitizer) Status(status *domain.Status) *domain.Status {
	if status == nil {
		return nil
	}

	clean := *status
	clean.Content = s.policy.Sanitize(status.Content)
	clean.Account.DisplayName = s.policy.Sanitize(status.Account.DisplayName)
	clean.Reblog = s.Status(status.Reblog)
	return &clean
}
