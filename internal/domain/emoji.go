package domain

// CustomEmoji is one entry of an instance's custom emoji list,
// as served by /api/v1/custom_emojis.
type CustomEmoji struct {
	Shortcode       string `json:"shortcode"`
	URL             string `json:"url"`
	StaticURL       string `json:"static_url,omitempty"`
	VisibleInPicker *bool  `json:"visible_in_picker,omitempty"`
}
