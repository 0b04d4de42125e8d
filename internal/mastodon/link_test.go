package mastodon

import "testing"

func TestParseNextLink(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "next and prev",
			header: `<https://x/api/v1/bookmarks?max_id=5>; rel="next", <https://x/api/v1/bookmarks?min_id=9>; rel="prev"`,
			want:   "https://x/api/v1/bookmarks?max_id=5",
		},
		{
			name:   "prev only",
			header: `<https://x/api/v1/bookmarks?min_id=9>; rel="prev"`,
			want:   "",
		},
		{
			name:   "next after prev",
			header: `<https://x/a>; rel="prev", <https://x/b>; rel="next"`,
			want:   "https://x/b",
		},
		{
			name:   "empty header",
			header: "",
			want:   "",
		},
		{
			name:   "malformed entry skipped",
			header: `garbage, <https://x/b>; rel="next"`,
			want:   "https://x/b",
		},
		{
			name:   "no angle brackets",
			header: `https://x/b; rel="next"`,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseNextLink(tt.header); got != tt.want {
				t.Errorf("ParseNextLink(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
