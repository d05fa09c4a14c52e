// Package stage provides the client side of the stage processor contract:
// a registry of processor endpoints and a gateway that issues authenticated,
// deadline-bounded, retried invocations against them.
package stage

// Stage identifies one of the pipeline's remote processors.
type Stage string

const (
	Agenda      Stage = "agenda"
	Information Stage = "information"
	Slide       Stage = "slide"
	Review      Stage = "review"
)

// Known lists every stage the pipeline can invoke, in pipeline order.
var Known = []Stage{Agenda, Information, Slide, Review}

// Valid reports whether s names a known stage.
func (s Stage) Valid() bool {
	for _, known := range Known {
		if s == known {
			return true
		}
	}
	return false
}
