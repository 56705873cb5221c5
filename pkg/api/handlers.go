// Package api exposes the map model over HTTP for the embedded page:
// configuration, marker overlays, routes, popup fragments, zoom resolution,
// reel sessions and the guided tour.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"travel-map/pkg/mapshell"
	"travel-map/pkg/mediareel"
	"travel-map/pkg/overlay"
	"travel-map/pkg/placeindex"
	"travel-map/pkg/qrshare"
	"travel-map/pkg/tour"
)

// Handler wires the built overlays, the place index, the shell and the reel
// hub together so routes stay small translations from URL to component.
type Handler struct {
	Shell      *mapshell.Shell
	Index      *placeindex.Index
	Waypoints  overlay.MarkerSet
	Activities overlay.MarkerSet
	Locations  overlay.MarkerSet
	Routes     *overlay.Routes
	Reels      *mediareel.Hub

	// ReelInterval overrides the autoplay period; zero means the default.
	ReelInterval time.Duration
	// ShareBase is the public URL share links point at.
	ShareBase string
	Logf      func(string, ...any)
}

// Register attaches the API routes to mux. Kept tiny and declarative: URLs
// map straight to helpers.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/config", h.handleConfig)
	mux.HandleFunc("/api/waypoints", h.handleWaypoints)
	mux.HandleFunc("/api/activities", h.handleActivities)
	mux.HandleFunc("/api/locations", h.handleLocations)
	mux.HandleFunc("/api/routes", h.handleRoutes)
	mux.HandleFunc("/api/popup/", h.handlePopup)
	mux.HandleFunc("/api/zoom/", h.handleZoom)
	mux.HandleFunc("/api/overlay/", h.handleOverlayEvent)
	mux.HandleFunc("/api/reel", h.handleReelOpen)
	mux.HandleFunc("/api/reel/", h.handleReel)
	mux.HandleFunc("/api/tour", h.handleTour)
	mux.HandleFunc("/qr", h.handleQR)
}

func (h *Handler) logf(format string, v ...any) {
	if h.Logf != nil {
		h.Logf(format, v...)
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logf("encode response: %v", err)
	}
}

func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, h.Shell.Config())
}

func (h *Handler) handleWaypoints(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, h.Waypoints)
}

func (h *Handler) handleActivities(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, h.Activities)
}

func (h *Handler) handleLocations(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, h.Locations)
}

func (h *Handler) handleRoutes(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, struct {
		Sublayers []overlay.Sublayer `json:"sublayers"`
	}{h.Routes.Sublayers()})
}

// handlePopup serves the rendered popup fragment and its reel playlist for
// one record key.
func (h *Handler) handlePopup(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/api/popup/")
	entry, ok := h.Index.Lookup(key)
	if !ok {
		http.Error(w, "unknown place", http.StatusNotFound)
		return
	}
	pop, err := overlay.BuildPopup(entry)
	if err != nil {
		h.logf("popup %s: %v", key, err)
		http.Error(w, "popup render failed", http.StatusInternalServerError)
		return
	}
	h.respondJSON(w, pop)
}

// handleZoom resolves a popup zoom click. Failures are reported, never
// fatal: the page logs them and the map stays interactive.
func (h *Handler) handleZoom(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/api/zoom/")
	entry, ok := h.Index.Lookup(key)
	if !ok {
		h.logf("zoom: place not found for id %q", key)
		http.Error(w, "unknown place", http.StatusNotFound)
		return
	}
	target, err := overlay.ResolveZoom(entry)
	if err != nil {
		h.logf("zoom %s: %v", key, err)
		http.Error(w, "no valid data to zoom to", http.StatusUnprocessableEntity)
		return
	}
	h.respondJSON(w, target)
}

// handleOverlayEvent records an overlay toggle from the page and answers
// with the control changes keeping the legend/route-mode invariant.
func (h *Handler) handleOverlayEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/overlay/")
	name, event, ok := strings.Cut(rest, "/")
	if !ok {
		http.Error(w, "want /api/overlay/{name}/{add|remove}", http.StatusBadRequest)
		return
	}
	var change mapshell.ControlChange
	switch event {
	case "add":
		change = h.Shell.OverlayAdded(name)
	case "remove":
		change = h.Shell.OverlayRemoved(name)
	default:
		http.Error(w, "unknown overlay event", http.StatusBadRequest)
		return
	}
	h.respondJSON(w, change)
}

// handleReelOpen starts an independent reel session for one popup.
func (h *Handler) handleReelOpen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	key := r.URL.Query().Get("place")
	entry, ok := h.Index.Lookup(key)
	if !ok {
		http.Error(w, "unknown place", http.StatusNotFound)
		return
	}
	pop, err := overlay.BuildPopup(entry)
	if err != nil {
		http.Error(w, "playlist build failed", http.StatusInternalServerError)
		return
	}
	id, reel := h.Reels.Open(pop.Playlist, h.ReelInterval)
	snap := reel.Snapshot()
	h.respondJSON(w, struct {
		Session     string           `json:"session"`
		Items       []mediareel.Item `json:"items"`
		Placeholder bool             `json:"placeholder"`
	}{Session: id, Items: reel.Items(), Placeholder: snap.Placeholder})
}

// handleReel dispatches /api/reel/{session}/{events|next|prev|toggle|ended|close}.
func (h *Handler) handleReel(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/reel/")
	session, op, ok := strings.Cut(rest, "/")
	if !ok {
		http.Error(w, "want /api/reel/{session}/{op}", http.StatusBadRequest)
		return
	}
	reel := h.Reels.Get(session)
	if reel == nil {
		http.Error(w, "unknown reel session", http.StatusNotFound)
		return
	}

	switch op {
	case "events":
		h.streamReel(w, r, session, reel)
		return
	case "next":
		reel.Next()
	case "prev":
		reel.Prev()
	case "toggle":
		reel.TogglePlayPause()
	case "ended":
		reel.VideoEnded()
	case "close":
		h.Reels.Close(session)
	default:
		http.Error(w, "unknown reel op", http.StatusBadRequest)
		return
	}
	h.respondJSON(w, reel.Snapshot())
}

// streamReel pushes Show events over Server-Sent Events until the popup
// goes away. The session dies with the stream: a closed popup must never
// leave a ticking timer behind.
func (h *Handler) streamReel(w http.ResponseWriter, r *http.Request, session string, reel *mediareel.Reel) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	events := reel.Events()
	for {
		select {
		case <-ctx.Done():
			h.Reels.Close(session)
			return
		case show, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(show)
			if err != nil {
				h.logf("reel %s: %v", session, err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func (h *Handler) handleTour(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, struct {
		Steps []tour.Step `json:"steps"`
	}{tour.Steps()})
}

// handleQR renders a share QR pointing back at the map focused on a place.
func (h *Handler) handleQR(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("place")
	if _, ok := h.Index.Lookup(key); !ok {
		http.Error(w, "unknown place", http.StatusNotFound)
		return
	}
	link, err := qrshare.PlaceURL(h.ShareBase, key)
	if err != nil {
		http.Error(w, "bad share base", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := qrshare.EncodePNG(w, link); err != nil {
		h.logf("qr %s: %v", key, err)
	}
}
