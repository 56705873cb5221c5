package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"travel-map/pkg/geodata"
	"travel-map/pkg/mapshell"
	"travel-map/pkg/mediareel"
	"travel-map/pkg/overlay"
	"travel-map/pkg/placeindex"
)

func testHandler() *Handler {
	idx := placeindex.New()
	bounds := &geodata.Bounds{
		SouthWest: geodata.LatLng{Lat: -18, Lng: 177},
		NorthEast: geodata.LatLng{Lat: -16, Lng: 180},
	}
	places := []*geodata.Place{
		{ID: "fiji", Name: "Fiji", Lat: -17, Lng: 178, Importance: 3,
			Photos: geodata.PhotoList{"reef.jpg", "dive.mp4"}, PhotoAlbum: "fiji",
			ZoomBounds: bounds},
		{ID: "bare", Name: "Bare"},
	}
	wp := overlay.BuildWaypoints(places, idx)

	return &Handler{
		Shell:        mapshell.New(mapshell.Config{Title: "Travel Map"}),
		Index:        idx,
		Waypoints:    wp,
		Routes:       overlay.NewRoutes(),
		Reels:        mediareel.NewHub(),
		ReelInterval: time.Hour,
		ShareBase:    "https://maps.example.com/",
	}
}

func serve(t *testing.T, h *Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	h.Register(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestPopupKnownAndUnknown(t *testing.T) {
	h := testHandler()

	rec := serve(t, h, http.MethodGet, "/api/popup/fiji")
	if rec.Code != http.StatusOK {
		t.Fatalf("popup status = %d", rec.Code)
	}
	var pop overlay.Popup
	if err := json.Unmarshal(rec.Body.Bytes(), &pop); err != nil {
		t.Fatalf("popup decode: %v", err)
	}
	if len(pop.Playlist) != 2 {
		t.Errorf("playlist len = %d, want 2", len(pop.Playlist))
	}
	if !strings.Contains(pop.HTML, "Fiji") {
		t.Error("popup HTML missing place name")
	}

	if rec = serve(t, h, http.MethodGet, "/api/popup/nowhere"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown popup status = %d, want 404", rec.Code)
	}
}

func TestZoomResolvesBoundsNotSetView(t *testing.T) {
	h := testHandler()

	rec := serve(t, h, http.MethodGet, "/api/zoom/fiji")
	if rec.Code != http.StatusOK {
		t.Fatalf("zoom status = %d", rec.Code)
	}
	var target overlay.ZoomTarget
	if err := json.Unmarshal(rec.Body.Bytes(), &target); err != nil {
		t.Fatalf("zoom decode: %v", err)
	}
	if target.Action != "fitBounds" {
		t.Errorf("action = %q, want fitBounds for a bounds-typed place", target.Action)
	}
	if target.Bounds == nil || target.Bounds.NorthEast.Lng != 180 {
		t.Errorf("bounds = %+v, want the declared bounds", target.Bounds)
	}
}

func TestZoomFailureIsReportedNotFatal(t *testing.T) {
	h := testHandler()
	if rec := serve(t, h, http.MethodGet, "/api/zoom/bare"); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("no-position zoom status = %d, want 422", rec.Code)
	}
	if rec := serve(t, h, http.MethodGet, "/api/zoom/ghost"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown-key zoom status = %d, want 404", rec.Code)
	}
}

func TestOverlayEventKeepsControlsSymmetric(t *testing.T) {
	h := testHandler()

	rec := serve(t, h, http.MethodPost, "/api/overlay/Waypoints/remove")
	var removed mapshell.ControlChange
	if err := json.Unmarshal(rec.Body.Bytes(), &removed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(removed.Detach) != 1 || removed.Detach[0] != mapshell.ControlLegend {
		t.Fatalf("remove detached %v", removed.Detach)
	}

	rec = serve(t, h, http.MethodPost, "/api/overlay/Waypoints/add")
	var added mapshell.ControlChange
	if err := json.Unmarshal(rec.Body.Bytes(), &added); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(added.Attach) != 1 || added.Attach[0] != removed.Detach[0] {
		t.Errorf("add attached %v, want what remove detached", added.Attach)
	}

	if rec = serve(t, h, http.MethodGet, "/api/overlay/Waypoints/add"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET overlay event status = %d", rec.Code)
	}
}

func TestReelSessionLifecycle(t *testing.T) {
	h := testHandler()

	rec := serve(t, h, http.MethodPost, "/api/reel?place=fiji")
	if rec.Code != http.StatusOK {
		t.Fatalf("reel open status = %d", rec.Code)
	}
	var opened struct {
		Session     string `json:"session"`
		Placeholder bool   `json:"placeholder"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &opened); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if opened.Session == "" || opened.Placeholder {
		t.Fatalf("opened = %+v, want live session", opened)
	}

	rec = serve(t, h, http.MethodPost, "/api/reel/"+opened.Session+"/prev")
	var snap mediareel.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Index != 1 {
		t.Errorf("index after prev from 0 = %d, want wrap to 1", snap.Index)
	}

	serve(t, h, http.MethodPost, "/api/reel/"+opened.Session+"/close")
	if rec = serve(t, h, http.MethodPost, "/api/reel/"+opened.Session+"/next"); rec.Code != http.StatusNotFound {
		t.Errorf("closed session op status = %d, want 404", rec.Code)
	}
}

func TestRoutesAlwaysListEveryMode(t *testing.T) {
	h := testHandler()
	rec := serve(t, h, http.MethodGet, "/api/routes")
	var resp struct {
		Sublayers []overlay.Sublayer `json:"sublayers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Sublayers) != len(overlay.TransportModes) {
		t.Errorf("sublayers = %d, want %d", len(resp.Sublayers), len(overlay.TransportModes))
	}
}

func TestQR(t *testing.T) {
	h := testHandler()
	rec := serve(t, h, http.MethodGet, "/qr?place=fiji")
	if rec.Code != http.StatusOK {
		t.Fatalf("qr status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if rec = serve(t, h, http.MethodGet, "/qr?place=ghost"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown qr status = %d", rec.Code)
	}
}
