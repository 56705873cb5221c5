// Package tour defines the guided walkthrough of the map controls: a
// finite, linear sequence of callouts attached to the page's stable
// selectors. The page script renders the steps; this package owns their
// order and advancement rules.
package tour

import "fmt"

// Advance describes what moves the tour past a step: the Next button, or a
// specific interaction with the highlighted control.
type Advance string

const (
	AdvanceNext        Advance = "next"        // explicit Next click
	AdvanceLayersOpen  Advance = "layersOpen"  // opening the layers panel
	AdvancePopupOpen   Advance = "popupOpen"   // opening a real marker popup
	AdvanceControlUsed Advance = "controlUsed" // clicking the highlighted control
)

// Step is one callout.
type Step struct {
	ID       string  `json:"id"`
	Selector string  `json:"selector,omitempty"`
	Position string  `json:"position,omitempty"`
	Text     string  `json:"text"`
	Advance  Advance `json:"advance"`
}

// Steps is the tour in presentation order. Selectors name the DOM surface
// MapShell and the overlays render; the tour is a consumer of that surface,
// not part of it.
func Steps() []Step {
	return []Step{
		{
			ID:      "welcome",
			Text:    "Welcome! Let me show you how to explore this map.",
			Advance: AdvanceNext,
		},
		{
			ID:       "layers-toggle",
			Selector: ".leaflet-control-layers-toggle",
			Position: "left",
			Text:     "Tap or hover here to open the map layers menu.",
			Advance:  AdvanceLayersOpen,
		},
		{
			ID:       "layers-menu",
			Selector: ".leaflet-control-layers",
			Position: "left",
			Text:     "Use this menu to toggle which overlays are visible.",
			Advance:  AdvanceNext,
		},
		{
			ID:       "legend",
			Selector: "#map-legend",
			Position: "left",
			Text:     "The legend explains marker colors and route styles.",
			Advance:  AdvanceNext,
		},
		{
			ID:       "marker",
			Selector: ".tour-marker",
			Position: "right",
			Text:     "Click a marker to open its photos and notes.",
			Advance:  AdvancePopupOpen,
		},
		{
			ID:       "reset",
			Selector: ".reset-map-button",
			Position: "right",
			Text:     "This button returns the map to the global view.",
			Advance:  AdvanceControlUsed,
		},
		{
			ID:       "about",
			Selector: ".about-map-button",
			Position: "right",
			Text:     "About the map — and where to restart this tour.",
			Advance:  AdvanceNext,
		},
	}
}

// After returns the step following id. The sequence is strictly linear: the
// last step has no successor and unknown ids are an error.
func After(id string) (Step, error) {
	steps := Steps()
	for i, s := range steps {
		if s.ID != id {
			continue
		}
		if i+1 == len(steps) {
			return Step{}, fmt.Errorf("tour: %q is the final step", id)
		}
		return steps[i+1], nil
	}
	return Step{}, fmt.Errorf("tour: unknown step %q", id)
}
