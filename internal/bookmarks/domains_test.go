package bookmarks

import (
	"reflect"
	"testing"

	"github.com/fedimark/fedimark/internal/domain"
)

func TestExtractOriginDomains(t *testing.T) {
	statuses := []*domain.Status{
		{
			ID:      "1",
			Account: domain.Account{URL: "https://hachyderm.io/@ana"},
			Mentions: []domain.Mention{
				{URL: "https://fosstodon.org/@bob"},
				{URL: "https://hachyderm.io/@cleo"}, // duplicate host
			},
		},
		{
			ID:      "2",
			Account: domain.Account{URL: "https://mastodon.social/@dan"},
			Reblog: &domain.Status{
				ID:      "3",
				Account: domain.Account{URL: "https://chaos.social/@eve"},
			},
		},
	}

	got := ExtractOriginDomains(statuses)
	want := []string{"chaos.social", "fosstodon.org", "hachyderm.io", "mastodon.social"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractOriginDomains() = %v, want %v", got, want)
	}
}

func TestExtractOriginDomainsSkipsBadURLs(t *testing.T) {
	statuses := []*domain.Status{
		{ID: "1", Account: domain.Account{URL: ""}},
		{ID: "2", Account: domain.Account{URL: "::not a url::"}},
		{ID: "3", Account: domain.Account{URL: "/relative/path"}},
		{ID: "4", Account: domain.Account{URL: "https://ok.example/@x"}},
	}

	got := ExtractOriginDomains(statuses)
	want := []string{"ok.example"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractOriginDomains() = %v, want %v", got, want)
	}
}

func TestExtractOriginDomainsNestedReblogs(t *testing.T) {
	statuses := []*domain.Status{
		{
			ID:      "1",
			Account: domain.Account{URL: "https://outer.example/@a"},
			Reblog: &domain.Status{
				ID:      "2",
				Account: domain.Account{URL: "https://middle.example/@b"},
				Reblog: &domain.Status{
					ID:      "3",
					Account: domain.Account{URL: "https://inner.example/@c"},
				},
			},
		},
	}

	got := ExtractOriginDomains(statuses)
	want := []string{"inner.example", "middle.example", "outer.example"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractOriginDomains() = %v, want %v", got, want)
	}
}

func TestExtractOriginDomainsEmpty(t *testing.T) {
	if got := ExtractOriginDomains(nil); len(got) != 0 {
		t.Errorf("ExtractOriginDomains(nil) = %v, want empty", got)
	}
}
