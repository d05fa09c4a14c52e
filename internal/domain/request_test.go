package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerationRequestValidate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		req     GenerationRequest
		wantErr error
	}{
		{name: "minimal", req: GenerationRequest{Prompt: "quarterly sales review"}},
		{name: "empty_prompt", req: GenerationRequest{Prompt: "   "}, wantErr: ErrEmptyPrompt},
		{name: "prompt_too_long", req: GenerationRequest{Prompt: strings.Repeat("a", MaxPromptLength+1)}, wantErr: ErrPromptTooLong},
		{name: "slides_below_range", req: GenerationRequest{Prompt: "p", MaxSlides: -1}, wantErr: ErrSlideCountOutOfRange},
		{name: "slides_above_range", req: GenerationRequest{Prompt: "p", MaxSlides: MaxSlides + 1}, wantErr: ErrSlideCountOutOfRange},
		{name: "slides_at_max", req: GenerationRequest{Prompt: "p", MaxSlides: MaxSlides}},
		{name: "too_many_references", req: GenerationRequest{Prompt: "p", ReferenceURLs: make([]string, MaxReferenceURLs+1)}, wantErr: ErrTooManyReferences},
		{name: "bad_reference_scheme", req: GenerationRequest{Prompt: "p", ReferenceURLs: []string{"ftp://example.com/doc"}}, wantErr: ErrInvalidReferenceURL},
		{name: "good_references", req: GenerationRequest{Prompt: "p", ReferenceURLs: []string{"https://example.com", "http://example.org/page"}}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.req.Validate()
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestGenerationRequestValidateDefaultsSlides(t *testing.T) {
	t.Parallel()
	req := GenerationRequest{Prompt: "  trimmed  "}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	if req.MaxSlides != DefaultMaxSlides {
		t.Fatalf("MaxSlides = %d, want default %d", req.MaxSlides, DefaultMaxSlides)
	}
	if req.Prompt != "trimmed" {
		t.Fatalf("Prompt = %q, want trimmed", req.Prompt)
	}
}

func TestAgendaValidate(t *testing.T) {
	t.Parallel()
	slides := func(n int) []Slide {
		out := make([]Slide, n)
		for i := range out {
			out[i] = Slide{PageNumber: i + 1, Title: "s"}
		}
		return out
	}

	cases := []struct {
		name      string
		agenda    *Agenda
		maxSlides int
		wantErr   error
	}{
		{name: "nil", agenda: nil, wantErr: ErrEmptyAgenda},
		{name: "empty", agenda: &Agenda{}, wantErr: ErrEmptyAgenda},
		{name: "page_mismatch", agenda: &Agenda{Slides: slides(3), TotalPages: 5}, wantErr: ErrAgendaPageMismatch},
		{name: "over_budget", agenda: &Agenda{Slides: slides(8), TotalPages: 8}, maxSlides: 5, wantErr: ErrAgendaTooLong},
		{name: "within_budget", agenda: &Agenda{Slides: slides(5), TotalPages: 5}, maxSlides: 5},
		{name: "no_budget", agenda: &Agenda{Slides: slides(12), TotalPages: 12}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.agenda.Validate(tc.maxSlides)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Validate(%d) = %v, want %v", tc.maxSlides, err, tc.wantErr)
			}
		})
	}
}

func TestAgendaValidateFillsTotalPages(t *testing.T) {
	t.Parallel()
	agenda := &Agenda{Slides: []Slide{{Title: "intro"}, {Title: "body"}}}
	if err := agenda.Validate(0); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if agenda.TotalPages != 2 {
		t.Fatalf("TotalPages = %d, want 2", agenda.TotalPages)
	}
	if agenda.Title() != "intro" {
		t.Fatalf("Title() = %q, want %q", agenda.Title(), "intro")
	}
}
