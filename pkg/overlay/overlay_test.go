package overlay

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"travel-map/pkg/geodata"
	"travel-map/pkg/placeindex"
)

func TestWaypointsTripledAcrossDateLine(t *testing.T) {
	idx := placeindex.New()
	places := []*geodata.Place{
		{ID: "fiji", Name: "Fiji", Lat: 10, Lng: 179, Importance: 3},
	}
	set := BuildWaypoints(places, idx)

	if len(set.Markers) != 3 {
		t.Fatalf("marker count = %d, want 3", len(set.Markers))
	}
	wantLngs := map[float64]bool{179: true, 539: true, -181: true}
	for _, m := range set.Markers {
		if !wantLngs[m.Lng] {
			t.Errorf("unexpected copy longitude %v", m.Lng)
		}
		delete(wantLngs, m.Lng)
		if m.Key != "fiji" {
			t.Errorf("copy key = %q, want shared canonical key", m.Key)
		}
		if m.Lat != 10 {
			t.Errorf("copy latitude = %v, want 10", m.Lat)
		}
	}
	if len(wantLngs) != 0 {
		t.Errorf("missing copies at longitudes %v", wantLngs)
	}

	// Only the canonical record is registered, once.
	if idx.Len() != 1 {
		t.Errorf("index size = %d, want 1", idx.Len())
	}
	// Bounds cover the canonical copy only.
	if set.Bounds.NorthEast.Lng != 179 || set.Bounds.SouthWest.Lng != 179 {
		t.Errorf("bounds %+v include triplicated copies", set.Bounds)
	}
}

func TestWaypointStyling(t *testing.T) {
	idx := placeindex.New()
	set := BuildWaypoints([]*geodata.Place{
		{ID: "uni", VisitType: "school", Importance: 2, Lat: 1, Lng: 1},
		{ID: "home", Home: true, Importance: 4, Lat: 2, Lng: 2},
	}, idx)

	byKey := map[string]Marker{}
	for _, m := range set.Markers {
		byKey[m.Key] = m
	}
	if byKey["uni"].Color != ColorAcademic {
		t.Errorf("school marker color = %q, want academic", byKey["uni"].Color)
	}
	if byKey["uni"].Radius != 4 {
		t.Errorf("radius = %v, want importance*2", byKey["uni"].Radius)
	}
	if !byKey["home"].HomeRing {
		t.Error("residence marker missing home ring")
	}
}

func TestActivityIconFallback(t *testing.T) {
	idx := placeindex.New()
	set := BuildActivities([]*geodata.Activity{
		{ActivityID: "a1", ActivityType: "Skiing", Lat: 1, Lng: 1},
		{ActivityID: "a2", ActivityType: "spelunking", Lat: 2, Lng: 2},
	}, idx)

	if set.Cluster == nil {
		t.Fatal("activity set missing cluster options")
	}
	for _, m := range set.Markers {
		switch m.Key {
		case "a1":
			if m.IconClass != ActivityIcons["skiing"] {
				t.Errorf("known type icon = %q", m.IconClass)
			}
		case "a2":
			if m.IconClass != DefaultActivityIcon {
				t.Errorf("unknown type icon = %q, want default pin", m.IconClass)
			}
		}
	}
}

func TestLocationsCarryMinZoom(t *testing.T) {
	idx := placeindex.New()
	set := BuildLocations([]*geodata.Location{
		{LocationID: "l1", LocationType: "volcano", Lat: 1, Lng: 1, Name: "Etna"},
	}, idx)
	if set.MinZoom != LocationMinZoom {
		t.Errorf("MinZoom = %d, want %d", set.MinZoom, LocationMinZoom)
	}
}

const lineRoute = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {},
     "geometry": {"type": "LineString", "coordinates": [[179, 10], [-179, 11]]}},
    {"type": "Feature", "properties": {},
     "geometry": {"type": "Point", "coordinates": [179.5, 10.5]}}
  ]
}`

func TestLoadRoutesFailureIsolation(t *testing.T) {
	fsys := fstest.MapFS{
		"geojson/hike.geojson": {Data: []byte(lineRoute)},
	}
	specs := []geodata.RouteSpec{
		{Filename: "hike.geojson", TransportMode: "hike"},
		{Filename: "missing.geojson", TransportMode: "boat"},
	}

	store := NewRoutes()
	LoadRoutes(context.Background(), fsys, specs, store)

	byMode := map[string]Sublayer{}
	for _, sub := range store.Sublayers() {
		byMode[sub.Mode] = sub
	}

	// The boat sublayer exists but stays empty; the hike sublayer carries
	// its three world copies.
	if len(byMode) != len(TransportModes) {
		t.Fatalf("sublayer count = %d, want %d", len(byMode), len(TransportModes))
	}
	if got := len(byMode["boat"].Features); got != 0 {
		t.Errorf("boat features = %d, want 0 after failed load", got)
	}
	if got := len(byMode["hike"].Features); got != 3 {
		t.Fatalf("hike features = %d, want 3 world copies", got)
	}
}

func TestLoadRoutesDropsPointFeatures(t *testing.T) {
	fsys := fstest.MapFS{
		"geojson/train.geojson": {Data: []byte(lineRoute)},
	}
	store := NewRoutes()
	LoadRoutes(context.Background(), fsys,
		[]geodata.RouteSpec{{Filename: "train.geojson", TransportMode: "train"}}, store)

	for _, sub := range store.Sublayers() {
		for _, fc := range sub.Features {
			for _, f := range fc.Features {
				if f.Geometry.GeoJSONType() == "Point" {
					t.Fatalf("Point feature leaked into %s sublayer", sub.Mode)
				}
			}
		}
	}
}

func TestLoadRoutesUnknownMode(t *testing.T) {
	fsys := fstest.MapFS{
		"geojson/tele.geojson": {Data: []byte(lineRoute)},
	}
	store := NewRoutes()
	LoadRoutes(context.Background(), fsys,
		[]geodata.RouteSpec{{Filename: "tele.geojson", TransportMode: "teleport"}}, store)

	for _, sub := range store.Sublayers() {
		if len(sub.Features) != 0 {
			t.Errorf("unknown-mode route landed in %s sublayer", sub.Mode)
		}
	}
}

func TestResolveZoomPriority(t *testing.T) {
	bounds := &geodata.Bounds{
		SouthWest: geodata.LatLng{Lat: -18, Lng: 177},
		NorthEast: geodata.LatLng{Lat: -16, Lng: 180},
	}
	tests := []struct {
		name       string
		entry      geodata.Entry
		wantAction string
		wantZoom   int
		wantRoutes bool
	}{
		{
			name:       "route-linked activity centers and shows routes",
			entry:      &geodata.Activity{ActivityID: "a", Lat: 1, Lng: 2, RoutePath: "x.geojson"},
			wantAction: "setView",
			wantZoom:   DefaultPlaceZoom,
			wantRoutes: true,
		},
		{
			name:       "explicit bounds fit, not setView",
			entry:      &geodata.Place{ID: "fj", Lat: -17, Lng: 178, ZoomBounds: bounds},
			wantAction: "fitBounds",
			wantRoutes: true,
		},
		{
			name:       "explicit level",
			entry:      &geodata.Place{ID: "p", Lat: 3, Lng: 4, ZoomLevel: 8},
			wantAction: "setView",
			wantZoom:   8,
			wantRoutes: true,
		},
		{
			name:       "plain point falls back to default level",
			entry:      &geodata.Location{LocationID: "l", Lat: 5, Lng: 6},
			wantAction: "setView",
			wantZoom:   DefaultPlaceZoom,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveZoom(tc.entry)
			if err != nil {
				t.Fatalf("ResolveZoom: %v", err)
			}
			if got.Action != tc.wantAction {
				t.Errorf("action = %q, want %q", got.Action, tc.wantAction)
			}
			if tc.wantAction == "fitBounds" {
				if got.Bounds == nil || *got.Bounds != *bounds {
					t.Errorf("bounds = %+v, want the exact declared bounds", got.Bounds)
				}
				if got.Center != nil {
					t.Error("fitBounds target also carries a center")
				}
			} else if got.Zoom != tc.wantZoom {
				t.Errorf("zoom = %d, want %d", got.Zoom, tc.wantZoom)
			}
			if got.EnsureRoutes != tc.wantRoutes {
				t.Errorf("ensureRoutes = %v, want %v", got.EnsureRoutes, tc.wantRoutes)
			}
		})
	}
}

func TestResolveZoomNoPosition(t *testing.T) {
	_, err := ResolveZoom(&geodata.Place{ID: "ghost"})
	if err == nil {
		t.Fatal("ResolveZoom succeeded on a record with no position")
	}
}

func TestBuildPopupVariants(t *testing.T) {
	place := &geodata.Place{
		ID: "fj", Name: "Fiji", Home: true, VisitType: "school",
		Photos: geodata.PhotoList{"a.jpg", "b.mp4"}, PhotoAlbum: "fiji",
	}
	pop, err := BuildPopup(place)
	if err != nil {
		t.Fatalf("BuildPopup(place): %v", err)
	}
	if len(pop.Playlist) != 2 {
		t.Errorf("playlist len = %d, want 2", len(pop.Playlist))
	}
	for _, want := range []string{ColorPrimary, "fa-home", "fa-graduation-cap", `data-zoom-key="fj"`, "carousel-fj"} {
		if !strings.Contains(pop.HTML, want) {
			t.Errorf("place popup missing %q", want)
		}
	}

	act := &geodata.Activity{ActivityID: "a1", ActivityType: "safari"}
	pop, err = BuildPopup(act)
	if err != nil {
		t.Fatalf("BuildPopup(activity): %v", err)
	}
	if !strings.Contains(pop.HTML, ColorActivity) {
		t.Error("activity popup missing its border color")
	}
	if !strings.Contains(pop.HTML, "No photos available") {
		t.Error("photo-less popup missing placeholder")
	}
	if !strings.Contains(pop.HTML, "Safari") {
		t.Error("activity type not title-cased in popup")
	}
}
