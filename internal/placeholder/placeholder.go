// Package placeholder renders abstract ("templated") versions of the script
// prompt and the vendor payload, with one of four bracket styles. Substitution
// is one-directional: there is no parser that fills a templated string back.
package placeholder

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Style selects the bracket syntax used for placeholder tokens.
type Style string

const (
	StyleCurly       Style = "curly"
	StyleDoubleCurly Style = "double-curly"
	StyleSquare      Style = "square"
	StyleAngle       Style = "angle"
)

// Config describes one placeholder style for presentation.
type Config struct {
	Style   Style  `json:"style"`
	Label   string `json:"label"`
	Example string `json:"example"`
}

// Styles is the fixed set of selectable placeholder styles.
var Styles = []Config{
	{Style: StyleCurly, Label: "Curly", Example: "{variable}"},
	{Style: StyleDoubleCurly, Label: "Double Curly", Example: "{{variable}}"},
	{Style: StyleSquare, Label: "Square", Example: "[variable]"},
	{Style: StyleAngle, Label: "Angle", Example: "<<variable>>"},
}

// Variables are the named slots a template can carry. Each maps to exactly
// one placeholder token.
var Variables = []string{
	"brand", "tone", "offer", "benefit", "audience", "pain", "outcome",
	"proof", "cta", "platform", "aspect_ratio", "seconds", "geo",
	"keywords", "avatar_gender", "avatar_age", "avatar_attire",
	"avatar_setting", "no_avatar", "script",
}

// ValidStyle reports whether s is one of the selectable styles.
func ValidStyle(s Style) bool {
	for _, c := range Styles {
		if c.Style == s {
			return true
		}
	}
	return false
}

// Format renders a variable name as a placeholder token in the given style.
// Unknown styles fall back to double-curly.
func Format(style Style, variable string) string {
	switch style {
	case StyleCurly:
		return fmt.Sprintf("{%s}", variable)
	case StyleSquare:
		return fmt.Sprintf("[%s]", variable)
	case StyleAngle:
		return fmt.Sprintf("<<%s>>", variable)
	default:
		return fmt.Sprintf("{{%s}}", variable)
	}
}

// TemplatePrompt renders the abstract version of the script prompt: every
// interpolated value is represented by its placeholder token. The prompt
// structure is fixed, so the output is canonical for the style regardless of
// the filled values, and templating is idempotent.
func TemplatePrompt(style Style) string {
	f := func(v string) string { return Format(style, v) }

	return fmt.Sprintf(`You are an expert direct-response copywriter creating a high-converting %s video ad script for %s.

TARGET: %s who are struggling with: %s
SOLUTION: %s that delivers: %s
TONE: %s
PROOF: %s
LOCATION: %s
KEYWORDS TO INCLUDE: %s
CALL TO ACTION: %s

Create a smooth, natural-flowing %s-second video script that feels conversational and authentic. The script should grab attention immediately, clearly present the problem and solution, include credibility elements, and end with a strong call to action.

CRITICAL TIMING: This must be exactly %s seconds when read at normal speaking pace (approximately 2.5 words per second, so %s * 2.5 words total). Count your words carefully.

Write as one continuous, engaging script without section labels or formatting. Make it sound like a real person talking directly to the viewer, not like marketing copy.`,
		f("seconds"), f("brand"),
		f("audience"), f("pain"),
		f("offer"), f("outcome"),
		f("tone"),
		f("proof"),
		f("geo"),
		f("keywords"),
		f("cta"),
		f("seconds"),
		f("seconds"), f("seconds"))
}

// TemplatePayload deep-copies a vendor payload and replaces its structural
// fields with placeholder tokens. The replacements are unconditional sets, so
// templating an already-templated payload changes nothing further.
func TemplatePayload(payload any, style Style) (map[string]any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("placeholder: encode payload: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("placeholder: decode payload: %w", err)
	}
	f := func(v string) string { return Format(style, v) }

	out["script"] = f("script")
	out["duration_sec"] = f("seconds")
	out["aspect_ratio"] = f("aspect_ratio")

	if avatar, ok := out["avatar"].(map[string]any); ok && avatar["enabled"] == true {
		avatar["gender"] = f("avatar_gender")
		avatar["age"] = f("avatar_age")
		avatar["attire"] = f("avatar_attire")
		avatar["setting"] = f("avatar_setting")
	} else {
		out["avatar"] = map[string]any{"enabled": f("no_avatar")}
	}

	if styleObj, ok := out["style"].(map[string]any); ok {
		styleObj["tone"] = f("tone")
	}

	if meta, ok := out["metadata"].(map[string]any); ok {
		meta["brand"] = f("brand")
		meta["cta"] = f("cta")
		meta["geo"] = f("geo")
		meta["keywords"] = f("keywords")
		meta["benefit"] = f("benefit")
		meta["platform"] = f("platform")
	}

	return out, nil
}

// looksLikeTemplate matches any bracketed placeholder syntax. This is the one
// hard guard before job creation: a script still carrying placeholders must
// never be rendered into a paid video.
var looksLikeTemplate = regexp.MustCompile(`(\{\{.*\}\}|\{.*\}|<<.*>>|\[.*\])`)

// LooksLikeTemplate reports whether the script still contains placeholder
// syntax in any of the supported styles.
func LooksLikeTemplate(script string) bool {
	return looksLikeTemplate.MatchString(script)
}
