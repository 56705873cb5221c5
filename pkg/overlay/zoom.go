package overlay

import (
	"errors"
	"fmt"

	"travel-map/pkg/geodata"
)

// DefaultPlaceZoom is the fallback level for zoom targets that declare no
// explicit level or bounds.
const DefaultPlaceZoom = 12

// ErrNoZoomTarget means a record has neither coordinates, bounds nor a zoom
// level to land on. The caller reports it; the map stays interactive.
var ErrNoZoomTarget = errors.New("no positional data to zoom to")

// ZoomTarget tells the page what a popup's zoom button should do after the
// popup closes: one setView or fitBounds, and whether the routes overlay
// must be made visible first.
type ZoomTarget struct {
	Action       string          `json:"action"` // "setView" or "fitBounds"
	Center       *geodata.LatLng `json:"center,omitempty"`
	Zoom         int             `json:"zoom,omitempty"`
	Bounds       *geodata.Bounds `json:"bounds,omitempty"`
	EnsureRoutes bool            `json:"ensureRoutes,omitempty"`
}

// ResolveZoom applies the zoom priority chain: route-linked activity first,
// then explicit bounds, then an explicit level, then the plain point at the
// default level. Records with no usable position resolve to ErrNoZoomTarget.
func ResolveZoom(e geodata.Entry) (ZoomTarget, error) {
	switch rec := e.(type) {
	case *geodata.Activity:
		if rec.RoutePath != "" {
			if lat, lng, ok := rec.Coord(); ok {
				return ZoomTarget{
					Action:       "setView",
					Center:       &geodata.LatLng{Lat: lat, Lng: lng},
					Zoom:         DefaultPlaceZoom,
					EnsureRoutes: true,
				}, nil
			}
		}
	case *geodata.Place:
		if rec.ZoomBounds != nil {
			b := *rec.ZoomBounds
			return ZoomTarget{Action: "fitBounds", Bounds: &b, EnsureRoutes: true}, nil
		}
		if rec.ZoomLevel != 0 {
			if lat, lng, ok := rec.Coord(); ok {
				return ZoomTarget{
					Action:       "setView",
					Center:       &geodata.LatLng{Lat: lat, Lng: lng},
					Zoom:         rec.ZoomLevel,
					EnsureRoutes: true,
				}, nil
			}
		}
	}

	if lat, lng, ok := e.Coord(); ok {
		return ZoomTarget{
			Action: "setView",
			Center: &geodata.LatLng{Lat: lat, Lng: lng},
			Zoom:   DefaultPlaceZoom,
		}, nil
	}
	return ZoomTarget{}, fmt.Errorf("%s: %w", e.Key(), ErrNoZoomTarget)
}
