// Package creators holds the static catalog of vendor-supported creators and
// their preview assets. The catalog is fixed configuration, not mutable state.
package creators

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Supported is the vendor allow-list. Job creation rejects any creator name
// outside this set.
var Supported = []string{
	"Alan-1", "Cam-1", "Carter-1", "Douglas-1", "Jason",
	"Leah-1", "Madison-1", "Monica-1", "Violet-1",
}

// Preview bundles the poster image and preview clip for one creator.
type Preview struct {
	ImageURL string `json:"image_url"`
	VideoURL string `json:"video_url"`
}

var previews = map[string]Preview{
	"Alan-1":    {ImageURL: "https://cdn.captions.ai/creators/alan-1.jpg", VideoURL: "https://cdn.captions.ai/creators/alan-1.mp4"},
	"Cam-1":     {ImageURL: "https://cdn.captions.ai/creators/cam-1.jpg", VideoURL: "https://cdn.captions.ai/creators/cam-1.mp4"},
	"Carter-1":  {ImageURL: "https://cdn.captions.ai/creators/carter-1.jpg", VideoURL: "https://cdn.captions.ai/creators/carter-1.mp4"},
	"Douglas-1": {ImageURL: "https://cdn.captions.ai/creators/douglas-1.jpg", VideoURL: "https://cdn.captions.ai/creators/douglas-1.mp4"},
	"Jason":     {ImageURL: "https://cdn.captions.ai/creators/jason.jpg", VideoURL: "https://cdn.captions.ai/creators/jason.mp4"},
	"Leah-1":    {ImageURL: "https://cdn.captions.ai/creators/leah-1.jpg", VideoURL: "https://cdn.captions.ai/creators/leah-1.mp4"},
	"Madison-1": {ImageURL: "https://cdn.captions.ai/creators/madison-1.jpg", VideoURL: "https://cdn.captions.ai/creators/madison-1.mp4"},
	"Monica-1":  {ImageURL: "https://cdn.captions.ai/creators/monica-1.jpg", VideoURL: "https://cdn.captions.ai/creators/monica-1.mp4"},
	"Violet-1":  {ImageURL: "https://cdn.captions.ai/creators/violet-1.jpg", VideoURL: "https://cdn.captions.ai/creators/violet-1.mp4"},
}

// IsSupported reports whether the exact creator name is in the allow-list.
func IsSupported(name string) bool {
	for _, c := range Supported {
		if c == name {
			return true
		}
	}
	return false
}

// PreviewFor returns the preview assets for a creator, if any.
func PreviewFor(name string) (Preview, bool) {
	p, ok := previews[name]
	return p, ok
}

// Creator is one allow-list entry with its display label and preview assets,
// shaped for the wizard's creator-selection step.
type Creator struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Preview
}

// Catalog lists every supported creator in allow-list order.
func Catalog() []Creator {
	out := make([]Creator, 0, len(Supported))
	for _, name := range Supported {
		out = append(out, Creator{Name: name, DisplayName: DisplayName(name), Preview: previews[name]})
	}
	return out
}

// DisplayName derives the human label from a canonical creator name,
// e.g. "Alan-1" becomes "Alan".
func DisplayName(name string) string {
	base, _, _ := strings.Cut(name, "-")
	return cases.Title(language.Und).String(strings.ToLower(base))
}

// Resolve picks the canonical creator name for a user's choice, so "alan"
// and "ALAN" both land on "Alan-1". Preference order: exact match,
// case-insensitive match, the "-1" variant, then any dash variant.
// Returns "" when nothing matches.
func Resolve(base string) string {
	name := strings.TrimSpace(base)
	if IsSupported(name) {
		return name
	}
	lower := strings.ToLower(name)
	if lower == "" {
		return ""
	}
	for _, c := range Supported {
		if strings.ToLower(c) == lower {
			return c
		}
	}
	for _, c := range Supported {
		if strings.ToLower(c) == lower+"-1" {
			return c
		}
	}
	for _, c := range Supported {
		if strings.HasPrefix(strings.ToLower(c), lower+"-") {
			return c
		}
	}
	return ""
}
