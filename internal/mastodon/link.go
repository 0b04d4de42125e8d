package mastodon

import "strings"

// ParseNextLink extracts the rel="next" URL from an RFC-5988 style Link
// header, as sent by Mastodon's paginated endpoints:
//
//	<https://x/api/v1/bookmarks?max_id=5>; rel="next", <https://x/...>; rel="prev"
//
// Returns "" when the header carries no next link. Mastodon embeds the full
// next-page URL, so the result is used as-is for the following request.
func ParseNextLink(header string) string {
	if header == "" {
		return ""
	}

	for _, link := range strings.Split(header, ",") {
		parts := strings.Split(link, ";")
		if len(parts) < 2 {
			continue
		}

		urlPart := strings.TrimSpace(parts[0])
		if !strings.HasPrefix(urlPart, "<") || !strings.HasSuffix(urlPart, ">") {
			continue
		}

		for _, attr := range parts[1:] {
			if strings.Contains(attr, "next") {
				return strings.Trim(urlPart, "<>")
			}
		}
	}

	return ""
}
