package domain

import "strings"

// Bounds for submissions.
const (
	MinSlides        = 1
	MaxSlides        = 30
	DefaultMaxSlides = 10
	MaxPromptLength  = 4000
	MaxReferenceURLs = 10
)

// GenerationRequest holds the parameters of one slide generation request.
// It is captured at submission and never mutated afterwards; in particular
// AutoApprove records the decision in effect when the job was accepted, even
// if the owner later changes their default setting.
type GenerationRequest struct {
	Prompt        string   `json:"prompt"`
	ReferenceURLs []string `json:"reference_urls,omitempty"`
	TemplateID    string   `json:"template_id,omitempty"`
	ModelConfigID string   `json:"model_config_id,omitempty"`
	MaxSlides     int      `json:"max_slides"`
	AutoApprove   bool     `json:"auto_approval"`
	IncludeImages bool     `json:"include_images"`
	IncludeTables bool     `json:"include_tables"`
}

// Validate checks submission parameters and normalizes defaults in place.
func (r *GenerationRequest) Validate() error {
	r.Prompt = strings.TrimSpace(r.Prompt)
	if r.Prompt == "" {
		return ErrEmptyPrompt
	}
	if len(r.Prompt) > MaxPromptLength {
		return ErrPromptTooLong
	}
	if r.MaxSlides == 0 {
		r.MaxSlides = DefaultMaxSlides
	}
	if r.MaxSlides < MinSlides || r.MaxSlides > MaxSlides {
		return ErrSlideCountOutOfRange
	}
	if len(r.ReferenceURLs) > MaxReferenceURLs {
		return ErrTooManyReferences
	}
	for _, u := range r.ReferenceURLs {
		u = strings.TrimSpace(strings.ToLower(u))
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return ErrInvalidReferenceURL
		}
	}
	return nil
}

// Slide is one entry of a proposed agenda.
type Slide struct {
	PageNumber int      `json:"page_number"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Notes      string   `json:"notes,omitempty"`
	Images     []string `json:"images,omitempty"`
}

// Agenda is the structured proposal produced by the agenda stage. It is set
// once per pipeline pass and only replaced wholesale when the approver
// supplies an edited version.
type Agenda struct {
	Slides            []Slide `json:"slides"`
	TotalPages        int     `json:"total_pages"`
	EstimatedDuration int     `json:"estimated_duration,omitempty"`
}

// Validate checks internal consistency of an agenda against the request it
// belongs to.
func (a *Agenda) Validate(maxSlides int) error {
	if a == nil || len(a.Slides) == 0 {
		return ErrEmptyAgenda
	}
	if a.TotalPages == 0 {
		a.TotalPages = len(a.Slides)
	}
	if a.TotalPages != len(a.Slides) {
		return ErrAgendaPageMismatch
	}
	if maxSlides > 0 && a.TotalPages > maxSlides {
		return ErrAgendaTooLong
	}
	return nil
}

// Title returns the deck title, taken from the first slide.
func (a *Agenda) Title() string {
	if a == nil || len(a.Slides) == 0 {
		return ""
	}
	return a.Slides[0].Title
}
