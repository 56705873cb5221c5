package overlay

import (
	"strings"

	"travel-map/pkg/geodata"
	"travel-map/pkg/geowrap"
	"travel-map/pkg/placeindex"
)

// Marker is one renderable map point: a world copy of a waypoint, activity
// or location, already styled. Key is the canonical record id shared by all
// three copies, so every copy opens the same popup.
type Marker struct {
	Key       string  `json:"key"`
	Kind      string  `json:"kind"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Name      string  `json:"name"`
	Radius    float64 `json:"radius,omitempty"`
	Color     string  `json:"color,omitempty"`
	FillColor string  `json:"fillColor,omitempty"`
	HomeRing  bool    `json:"homeRing,omitempty"`
	IconClass string  `json:"iconClass,omitempty"`
}

// ClusterOptions tell the page how to group a marker set into proximity
// clusters with a numeric badge.
type ClusterOptions struct {
	MaxRadius int `json:"maxRadius"`
}

// MarkerSet is one overlay's worth of markers plus its layer policy.
type MarkerSet struct {
	Markers []Marker        `json:"markers"`
	Bounds  geodata.Bounds  `json:"bounds"`
	MinZoom int             `json:"minZoom,omitempty"`
	Cluster *ClusterOptions `json:"cluster,omitempty"`
}

// BuildWaypoints styles every place, registers the canonical record in the
// index, and triples the result across the antimeridian. Bounds cover the
// canonical copies only, so the initial view never spans phantom worlds.
func BuildWaypoints(places []*geodata.Place, idx *placeindex.Index) MarkerSet {
	set := MarkerSet{Markers: make([]Marker, 0, 3*len(places))}
	for _, p := range places {
		idx.Register(p)

		color := ColorDefaultMarker
		if p.VisitType == "school" {
			color = ColorAcademic
		}
		radius := float64(p.Importance) * 2

		lat, lng := float64(p.Lat), float64(p.Lng)
		set.Bounds.Extend(lat, lng)
		for _, pt := range geowrap.TriplePoint(lat, lng) {
			set.Markers = append(set.Markers, Marker{
				Key:       p.ID,
				Kind:      "waypoint",
				Lat:       pt.Lat,
				Lng:       pt.Lng,
				Name:      p.Name,
				Radius:    radius,
				Color:     color,
				FillColor: ColorPrimary,
				HomeRing:  p.Home,
			})
		}
	}
	return set
}

// BuildActivities produces the clustered activity overlay. Unknown activity
// types get the default pin icon.
func BuildActivities(acts []*geodata.Activity, idx *placeindex.Index) MarkerSet {
	set := MarkerSet{
		Markers: make([]Marker, 0, 3*len(acts)),
		Cluster: &ClusterOptions{MaxRadius: 20},
	}
	for _, a := range acts {
		idx.Register(a)

		icon, ok := ActivityIcons[strings.ToLower(a.ActivityType)]
		if !ok {
			icon = DefaultActivityIcon
		}

		lat, lng := float64(a.Lat), float64(a.Lng)
		set.Bounds.Extend(lat, lng)
		for _, pt := range geowrap.TriplePoint(lat, lng) {
			set.Markers = append(set.Markers, Marker{
				Key:       a.ActivityID,
				Kind:      "activity",
				Lat:       pt.Lat,
				Lng:       pt.Lng,
				Name:      titleCase(a.ActivityType),
				IconClass: icon,
			})
		}
	}
	return set
}

// BuildLocations produces the sparse low-zoom layer: small dots that only
// render once the map zooms in past LocationMinZoom.
func BuildLocations(locs []*geodata.Location, idx *placeindex.Index) MarkerSet {
	set := MarkerSet{
		Markers: make([]Marker, 0, 3*len(locs)),
		MinZoom: LocationMinZoom,
	}
	for _, l := range locs {
		idx.Register(l)

		icon, ok := LocationIcons[strings.ToLower(l.LocationType)]
		if !ok {
			icon = DefaultLocationIcon
		}

		lat, lng := float64(l.Lat), float64(l.Lng)
		set.Bounds.Extend(lat, lng)
		for _, pt := range geowrap.TriplePoint(lat, lng) {
			set.Markers = append(set.Markers, Marker{
				Key:       l.LocationID,
				Kind:      "location",
				Lat:       pt.Lat,
				Lng:       pt.Lng,
				Name:      l.Name,
				Radius:    3,
				Color:     ColorLocation,
				FillColor: ColorLocation,
				IconClass: icon,
			})
		}
	}
	return set
}

// titleCase uppercases the first letter of each word, matching how activity
// types are shown in popups.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
