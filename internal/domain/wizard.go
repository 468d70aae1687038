package domain

// WizardState is the flat record of answers collected across the eight wizard
// steps. Steps 1-6 carry campaign fields, step 7 the creator choice, step 8 is
// review. All fields are scalars; validation is presence-based only.
type WizardState struct {
	// Step 1
	Brand      string `json:"brand"`
	Industry   string `json:"industry"`
	BrandVoice string `json:"brandVoice"`
	// Step 2
	Offer          string `json:"offer"`
	OfferType      string `json:"offerType"`
	PrimaryBenefit string `json:"primaryBenefit"`
	// Step 3
	Audience       string `json:"audience"`
	CustomAudience string `json:"customAudience"`
	PainPoint      string `json:"painPoint"`
	// Step 4
	Outcome   string `json:"outcome"`
	Proof     string `json:"proof"`
	ProofType string `json:"proofType"`
	// Step 5
	CTA    string `json:"cta"`
	Length string `json:"length"`
	// Step 6
	GeoTargeting string `json:"geoTargeting"`
	Keywords     string `json:"keywords"`
	// Step 7
	SelectedCreator string `json:"selectedCreator"`
	NoAvatar        bool   `json:"noAvatar"`
	// Template lock
	TemplateLocked bool   `json:"templateLocked"`
	TemplateName   string `json:"templateName"`
}

// TotalSteps is the number of wizard steps, review included.
const TotalSteps = 8

// AudienceCustom is the audience choice that requires a free-text description.
const AudienceCustom = "Custom"

// MissingFields returns the required fields of the given step that are still
// empty. Steps 6 and 8 have no required fields; backward navigation is never
// validated.
func (s WizardState) MissingFields(step int) []string {
	var missing []string
	require := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}
	switch step {
	case 1:
		require("brand", s.Brand)
		require("brandVoice", s.BrandVoice)
	case 2:
		require("offer", s.Offer)
		require("primaryBenefit", s.PrimaryBenefit)
	case 3:
		require("audience", s.Audience)
		require("painPoint", s.PainPoint)
		if s.Audience == AudienceCustom {
			require("customAudience", s.CustomAudience)
		}
	case 4:
		require("outcome", s.Outcome)
	case 5:
		require("cta", s.CTA)
		require("length", s.Length)
	case 7:
		if !s.NoAvatar && s.SelectedCreator == "" {
			missing = append(missing, "selectedCreator")
		}
	}
	return missing
}

// CanAdvance reports whether the wizard may move forward from the given step.
func (s WizardState) CanAdvance(step int) bool {
	return len(s.MissingFields(step)) == 0
}

// Validate checks all data-collection steps at once. It is the server-side
// gate before a video job is submitted.
func (s WizardState) Validate() error {
	for step := 1; step <= 7; step++ {
		if !s.CanAdvance(step) {
			return ErrStepIncomplete
		}
	}
	return nil
}

// ApplyTemplate overwrites the step 1-6 fields from the template payload,
// leaves the step 7 creator choice untouched, and locks the templated fields.
func (s WizardState) ApplyTemplate(t TemplatePayload, name string) WizardState {
	s.Brand = t.Brand
	s.BrandVoice = t.BrandVoice
	s.Offer = t.Offer
	s.PrimaryBenefit = t.PrimaryBenefit
	s.Audience = t.Audience
	s.CustomAudience = t.CustomAudience
	s.PainPoint = t.PainPoint
	s.Outcome = t.Outcome
	s.Proof = t.Proof
	s.CTA = t.CTA
	s.Length = t.Length
	s.GeoTargeting = t.GeoTargeting
	s.Keywords = t.Keywords
	s.TemplateLocked = true
	s.TemplateName = name
	return s
}

// Unlock clears the template lock and name, altering nothing else.
func (s WizardState) Unlock() WizardState {
	s.TemplateLocked = false
	s.TemplateName = ""
	return s
}

// WizardDraft is the persisted snapshot of an in-progress wizard session.
// One draft per user; last write wins.
type WizardDraft struct {
	State WizardState `json:"state"`
	Step  int         `json:"step"`
}
