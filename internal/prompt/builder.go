// Package prompt maps a completed wizard state to the two artifacts the
// orchestrator submits: the natural-language script prompt for the LLM and
// the typed payload for the video vendor.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/caspiansol/adspark/internal/domain"
)

// WordsPerSecond is the fixed speech-rate assumption behind the word-count
// target in the script prompt.
const WordsPerSecond = 2.5

// DefaultAspectRatio is the only aspect ratio the wizard produces.
const DefaultAspectRatio = "9:16"

// CaptionSettings controls caption rendering on the vendor side.
type CaptionSettings struct {
	Enabled bool `json:"enabled"`
	BurnIn  bool `json:"burn_in"`
}

// StyleSettings carries the delivery style derived from the brand voice.
type StyleSettings struct {
	Tone string `json:"tone"`
	Pace string `json:"pace"`
}

// MusicSettings selects the background track mood.
type MusicSettings struct {
	Mood string `json:"mood"`
}

// Avatar selects the on-camera creator, or disables the avatar entirely.
type Avatar struct {
	Enabled bool   `json:"enabled"`
	Creator string `json:"creator,omitempty"`
}

// Metadata echoes campaign fields alongside the render request.
type Metadata struct {
	Brand           string `json:"brand"`
	CTA             string `json:"cta"`
	Geo             string `json:"geo"`
	Keywords        string `json:"keywords"`
	Benefit         string `json:"benefit"`
	SelectedCreator string `json:"selectedCreator"`
}

// VideoPayload is the exact shape sent to the video vendor and persisted on
// the job row for replay.
type VideoPayload struct {
	Script      string          `json:"script"`
	DurationSec int             `json:"duration_sec"`
	AspectRatio string          `json:"aspect_ratio"`
	Captions    CaptionSettings `json:"captions"`
	Style       StyleSettings   `json:"style"`
	Music       MusicSettings   `json:"music"`
	Avatar      Avatar          `json:"avatar"`
	Metadata    Metadata        `json:"metadata"`
}

// DurationSeconds parses the wizard length choice ("15s", "30s", "60s") into
// whole seconds. Unparseable lengths yield zero.
func DurationSeconds(length string) int {
	n, _ := strconv.Atoi(strings.TrimSuffix(length, "s"))
	return n
}

// WordTarget is the word-count goal for a script of the given duration. The
// multiplication is deliberately unrounded: 15s yields 37.5.
func WordTarget(seconds int) float64 {
	return float64(seconds) * WordsPerSecond
}

// ToneSlug lowers the brand voice and joins ampersand pairs with an
// underscore, e.g. "Friendly & Empathetic" -> "friendly_empathetic".
func ToneSlug(brandVoice string) string {
	return strings.ReplaceAll(strings.ToLower(brandVoice), " & ", "_")
}

// Audience resolves the effective audience, substituting the free-text
// description when "Custom" is selected.
func Audience(s domain.WizardState) string {
	if s.Audience == domain.AudienceCustom {
		return s.CustomAudience
	}
	return s.Audience
}

// formatWords renders the word target without trailing zeros: 75, 37.5.
func formatWords(target float64) string {
	return strconv.FormatFloat(target, 'f', -1, 64)
}

// BuildScriptPrompt interpolates the wizard answers into the fixed
// copywriter instruction, including the duration-derived word target.
func BuildScriptPrompt(s domain.WizardState) string {
	seconds := DurationSeconds(s.Length)
	return fmt.Sprintf(`You are an expert direct-response copywriter creating a high-converting %s video ad script for %s.

TARGET: %s who are struggling with: %s
SOLUTION: %s that delivers: %s
TONE: %s
PROOF: %s
LOCATION: %s
KEYWORDS TO INCLUDE: %s
CALL TO ACTION: %s

Create a smooth, natural-flowing %d-second video script that feels conversational and authentic. The script should grab attention immediately, clearly present the problem and solution, include credibility elements, and end with a strong call to action.

CRITICAL TIMING: This must be exactly %d seconds when read at normal speaking pace (approximately 2.5 words per second, so %s words total). Count your words carefully.

Write as one continuous, engaging script without section labels or formatting. Make it sound like a real person talking directly to the viewer, not like marketing copy.`,
		s.Length, s.Brand,
		Audience(s), s.PainPoint,
		s.Offer, s.Outcome,
		s.BrandVoice,
		s.Proof,
		s.GeoTargeting,
		s.Keywords,
		s.CTA,
		seconds,
		seconds, formatWords(WordTarget(seconds)))
}

// BuildVideoPayload assembles the vendor payload from the wizard state and
// the final (edited) script. No value validation happens here; presence
// checks belong to the wizard steps.
func BuildVideoPayload(s domain.WizardState, script string) VideoPayload {
	avatar := Avatar{Enabled: false}
	creatorMeta := "no-avatar"
	if !s.NoAvatar {
		avatar = Avatar{Enabled: true, Creator: s.SelectedCreator}
		if s.SelectedCreator != "" {
			creatorMeta = s.SelectedCreator
		}
	}
	return VideoPayload{
		Script:      script,
		DurationSec: DurationSeconds(s.Length),
		AspectRatio: DefaultAspectRatio,
		Captions:    CaptionSettings{Enabled: true, BurnIn: true},
		Style:       StyleSettings{Tone: ToneSlug(s.BrandVoice), Pace: "medium"},
		Music:       MusicSettings{Mood: "uplifting"},
		Avatar:      avatar,
		Metadata: Metadata{
			Brand:           s.Brand,
			CTA:             s.CTA,
			Geo:             s.GeoTargeting,
			Keywords:        s.Keywords,
			Benefit:         s.PrimaryBenefit,
			SelectedCreator: creatorMeta,
		},
	}
}

// JobTitle derives the library title for a submitted job.
func JobTitle(s domain.WizardState) string {
	return fmt.Sprintf("%s - %s", s.Brand, s.Offer)
}
