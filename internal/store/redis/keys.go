package redis

const (
	// KeyBookmarks is the key holding the serialized bookmark collection.
	KeyBookmarks = "fedimark:bookmarks"
	// KeyBookmarksFetchedAt is the key holding the last successful fetch time.
	KeyBookmarksFetchedAt = "fedimark:bookmarks:fetched_at"
	// KeyFolders is the key holding the serialized folder list.
	KeyFolders = "fedimark:folders"
	// KeyEmojiDomains is the key for the set of domains with a cached emoji set.
	KeyEmojiDomains = "fedimark:emoji:domains"
	// KeyPrefixEmoji is the prefix for per-domain emoji keys.
	KeyPrefixEmoji = "fedimark:emoji:"
)

// EmojiKey returns the key for a domain's cached emoji set.
func EmojiKey(domain string) string {
	return KeyPrefixEmoji + domain
}

// EmojiRefreshedAtKey returns the key for a domain's last-refreshed timestamp.
func EmojiRefreshedAtKey(domain string) string {
	return KeyPrefixEmoji + domain + ":refreshed_at"
}
