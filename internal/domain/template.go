package domain

import "time"

// TemplatePayload is the reusable subset of wizard answers, steps 1-6 only.
// The creator selection is deliberately never part of a saved template.
type TemplatePayload struct {
	Brand          string `json:"brand"`
	BrandVoice     string `json:"brandVoice"`
	Offer          string `json:"offer"`
	PrimaryBenefit string `json:"primaryBenefit"`
	Audience       string `json:"audience"`
	CustomAudience string `json:"customAudience,omitempty"`
	PainPoint      string `json:"painPoint"`
	Outcome        string `json:"outcome"`
	Proof          string `json:"proof,omitempty"`
	CTA            string `json:"cta"`
	Length         string `json:"length"`
	GeoTargeting   string `json:"geoTargeting,omitempty"`
	Keywords       string `json:"keywords,omitempty"`
}

// ExtractTemplate snapshots the templatable fields of a wizard state.
func ExtractTemplate(s WizardState) TemplatePayload {
	return TemplatePayload{
		Brand:          s.Brand,
		BrandVoice:     s.BrandVoice,
		Offer:          s.Offer,
		PrimaryBenefit: s.PrimaryBenefit,
		Audience:       s.Audience,
		CustomAudience: s.CustomAudience,
		PainPoint:      s.PainPoint,
		Outcome:        s.Outcome,
		Proof:          s.Proof,
		CTA:            s.CTA,
		Length:         s.Length,
		GeoTargeting:   s.GeoTargeting,
		Keywords:       s.Keywords,
	}
}

// AdTemplate is a named, per-user saved template. Names are unique per user;
// saving an existing name overwrites the payload.
type AdTemplate struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Payload   TemplatePayload `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
