// Package overlay builds the three map overlays — waypoints, activities and
// routes (plus the sparse locations layer) — from loaded records. Every
// feature is triplicated across the antimeridian, registered in the place
// index under its canonical key, and styled here so the page script stays a
// thin renderer.
package overlay

// Centralized colors, mirrored by the embedded stylesheet.
const (
	ColorDefaultMarker = "#4CAF50" // circle marker outline
	ColorAcademic      = "#FFB400" // school visits
	ColorHomeRing      = "#FF0000" // residence ring
	ColorPrimary       = "#008A51" // marker fill and waypoint popup border
	ColorActivity      = "#0085A1" // activity popup border
	ColorLocation      = "#FF8C00" // location popup border
)

// RouteStyle is the fixed legend triple for one transport mode.
type RouteStyle struct {
	Color     string  `json:"color"`
	Weight    float64 `json:"weight"`
	DashArray string  `json:"dashArray,omitempty"`
}

// TransportModes lists the route sublayers in legend order. Every mode gets
// a sublayer even when no route of that mode loads.
var TransportModes = []string{"plane", "train", "auto", "boat", "hike"}

// RouteStyles maps transport mode to its line style.
var RouteStyles = map[string]RouteStyle{
	"hike":  {Color: "#228B22", Weight: 4},                          // solid green
	"boat":  {Color: "#1E90FF", Weight: 4, DashArray: "1, 4"},       // dotted blue
	"train": {Color: "#8B0000", Weight: 4, DashArray: "1, 6"},       // dashed red
	"auto":  {Color: "#FF8C00", Weight: 2},                          // solid orange
	"plane": {Color: "#FFD700", Weight: 1.5, DashArray: "10, 5, 2, 5"}, // dash-dot yellow
}

// DefaultRouteStyle is the fallback for modes missing from RouteStyles.
var DefaultRouteStyle = RouteStyle{Color: "#000000", Weight: 2}

// StyleFor returns the line style for a transport mode.
func StyleFor(mode string) RouteStyle {
	if s, ok := RouteStyles[mode]; ok {
		return s
	}
	return DefaultRouteStyle
}

// ModeIcons map transport modes to the layers-control icons.
var ModeIcons = map[string]string{
	"plane": "fas fa-plane",
	"train": "fas fa-train",
	"auto":  "fas fa-car",
	"boat":  "fas fa-ship",
	"hike":  "fas fa-hiking",
}

// ActivityIcons maps lowercase activity types to icon classes; unknown types
// fall back to DefaultActivityIcon.
var ActivityIcons = map[string]string{
	"skiing":              "fas fa-skiing",
	"snorkeling":          "fas fa-swimmer",
	"whitewater rafting":  "mdi mdi-kayaking",
	"hiking":              "fas fa-hiking",
	"paragliding":         "fas fa-parachute-box",
	"kayaking":            "mdi mdi-kayaking",
	"tubing":              "fas fa-life-ring",
	"meditation":          "mdi mdi-meditation",
	"safari":              "fas fa-paw",
	"scenic flight":       "mdi mdi-airplane",
}

// DefaultActivityIcon is the pin used for unrecognized activity types.
const DefaultActivityIcon = "fas fa-map-marker"

// LocationIcons maps lowercase location types to icon classes.
var LocationIcons = map[string]string{
	"mountain":    "fas fa-mountain",
	"beach":       "fas fa-umbrella-beach",
	"city":        "fas fa-city",
	"town":        "fa-solid fa-house-chimney-window",
	"rural":       "fas fa-tractor",
	"desert":      "fas fa-sun",
	"jungle":      "fas fa-leaf",
	"volcano":     "fa-solid fa-volcano",
	"hot springs": "fas fa-hot-tub",
}

// DefaultLocationIcon marks location types missing from the table.
const DefaultLocationIcon = "fas fa-map-pin"

// LocationMinZoom hides the sparse locations layer until the map is zoomed
// in past level 5. The newest page variant gates the layer this way, and its
// behavior is authoritative.
const LocationMinZoom = 6
