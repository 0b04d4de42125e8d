package security

import (
	"strings"
	"testing"

	"github.com/fedimark/fedimark/internal/domain"
)

func TestContentStripsScript(t *testing.T) {
	s := NewSanitizer()

	got := s.Content(`<p>hello</p><script>alert(1)</script>`)
	if strings.Contains(got, "script") {
		t.Errorf("script survived sanitization: %q", got)
	}
	if !strings.Contains(got, "<p>hello</p>") {
		t.Errorf("basic markup lost: %q", got)
	}
}

func TestContentKeepsMastodonSpans(t *testing.T) {
	s := NewSanitizer()

	in := `<p><span class="h-card"><a href="https://fosstodon.org/@alice" class="u-url mention">@alice</a></span></p>`
	got := s.Content(in)
	if !strings.Contains(got, `class="h-card"`) {
		t.Errorf("h-card span class lost: %q", got)
	}
	if !strings.Contains(got, `rel="nofollow"`) {
		t.Errorf("links should carry nofollow: %q", got)
	}
}

func TestStatusSanitizesCopyNotOriginal(t *testing.T) {
	s := NewSanitizer()

	original := &domain.Status{
		ID:      "101",
		Content: `<p>hi</p><img src=x onerror="alert(1)">`,
		Account: domain.Account{DisplayName: `Alice <script>x</script>`},
		Reblog: &domain.Status{
			ID:      "90",
			Content: `<iframe src="https://evil.example"></iframe><p>inner</p>`,
		},
	}

	clean := s.Status(original)
	if strings.Contains(clean.Content, "onerror") {
		t.Errorf("event handler survived: %q", clean.Content)
	}
	if strings.Contains(clean.Account.DisplayName, "script") {
		t.Errorf("display name script survived: %q", clean.Account.DisplayName)
	}
	if strings.Contains(clean.Reblog.Content, "iframe") {
		t.Errorf("reblog iframe survived: %q", clean.Reblog.Content)
	}
	if !strings.Contains(original.Content, "onerror") {
		t.Error("original status was mutated")
	}
}

func TestStatusNil(t *testing.T) {
	if got := NewSanitizer().Status(nil); got != nil {
		t.Fatalf("Status(nil) = %v, want nil", got)
	}
}
