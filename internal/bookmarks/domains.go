package bookmarks

import (
	"net/url"
	"sort"

	"github.com/fedimark/fedimark/internal/domain"
)

// ExtractOriginDomains returns the sorted set of unique hosts referenced by
// the given statuses: each author's profile URL, every mention URL, and the
// same fields of any boosted status, recursively. Unparseable or host-less
// URLs are skipped. The result drives per-instance emoji prefetching.
func ExtractOriginDomains(statuses []*domain.Status) []string {
	seen := make(map[string]struct{})
	for _, st := range statuses {
		collectDomains(st, seen)
	}

	domains := make([]string, 0, len(seen))
	for d := range seen {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}

func collectDomains(st *domain.Status, seen map[string]struct{}) {
	if st == nil {
		return
	}

	addHost(st.Account.URL, seen)
	for _, m := range st.Mentions {
		addHost(m.URL, seen)
	}
	collectDomains(st.Reblog, seen)
}

func addHost(rawURL string, seen map[string]struct{}) {
	if rawURL == "" {
		return
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return
	}
	if host := u.Hostname(); host != "" {
		seen[host] = struct{}{}
	}
}
