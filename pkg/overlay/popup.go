package overlay

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"travel-map/pkg/geodata"
	"travel-map/pkg/mediareel"
)

// PopupKind tags the one popup template by record variant; each variant
// carries its own icon and border-color policy, so nothing downstream
// branches on "does this record have an activity_type field".
type PopupKind int

const (
	WaypointPopup PopupKind = iota
	ActivityPopup
	LocationPopup
)

// Popup is everything one marker popup needs: the rendered HTML fragment and
// the reel playlist for its carousel.
type Popup struct {
	Key      string           `json:"key"`
	HTML     string           `json:"html"`
	Playlist []mediareel.Item `json:"playlist"`
}

type popupData struct {
	Kind        PopupKind
	Key         string
	Title       string
	Subtitle    string
	Description string
	Notes       string
	Icons       []string
	BorderColor string
	HasMedia    bool
}

// One template serves all three variants. Earlier page generations each
// hand-assembled nearly identical HTML; this collapses them.
var popupTmpl = template.Must(template.New("popup").Parse(`<style>
.leaflet-popup-content-wrapper { border-color: {{.BorderColor}} !important; }
.leaflet-popup-tip { background-color: {{.BorderColor}} !important; }
</style>
{{if .HasMedia}}<div class="carousel-container" id="carousel-{{.Key}}" data-key="{{.Key}}">
  <div class="carousel-photos"></div>
  <div class="carousel-controls">
    <button class="carousel-button" data-reel="prev"><i class="fas fa-backward"></i></button>
    <button class="carousel-button" data-reel="toggle"><i class="fas fa-pause"></i></button>
    <button class="carousel-button" data-reel="next"><i class="fas fa-forward"></i></button>
  </div>
</div>{{else}}<div class="no-photos"><p><i class="fas fa-camera"></i> No photos available</p></div>{{end}}
<div class="popup-content">
  <h3>{{range .Icons}}<i class="{{.}}"></i> {{end}}{{.Title}}</h3>
  <button class="zoom-button" data-zoom-key="{{.Key}}"><i class="fas fa-search-plus"></i> Zoom</button>
  {{if .Subtitle}}<h4>{{.Subtitle}}</h4>{{end}}
  {{if .Description}}<p>{{.Description}}</p>{{end}}
  {{if .Notes}}<p>{{.Notes}}</p>{{end}}
</div>`))

// BuildPopup renders the popup for any indexed record.
func BuildPopup(e geodata.Entry) (Popup, error) {
	var data popupData
	var playlist []mediareel.Item

	switch rec := e.(type) {
	case *geodata.Place:
		playlist = mediareel.Playlist(rec.PhotoAlbum, rec.Photos)
		data = popupData{
			Kind:        WaypointPopup,
			Key:         rec.ID,
			Title:       rec.Name,
			Description: rec.Description,
			Notes:       rec.Notes,
			BorderColor: ColorPrimary,
			Icons:       waypointIcons(rec),
			HasMedia:    len(playlist) > 0,
		}
	case *geodata.Activity:
		playlist = mediareel.Playlist(rec.PhotoAlbum, rec.Photos)
		icon, ok := ActivityIcons[strings.ToLower(rec.ActivityType)]
		if !ok {
			icon = DefaultActivityIcon
		}
		data = popupData{
			Kind:        ActivityPopup,
			Key:         rec.ActivityID,
			Title:       titleCase(rec.ActivityType),
			Subtitle:    rec.Description,
			Notes:       rec.Notes,
			BorderColor: ColorActivity,
			Icons:       []string{icon + " activity-icon-stack"},
			HasMedia:    len(playlist) > 0,
		}
	case *geodata.Location:
		icon, ok := LocationIcons[strings.ToLower(rec.LocationType)]
		if !ok {
			icon = DefaultLocationIcon
		}
		data = popupData{
			Kind:        LocationPopup,
			Key:         rec.LocationID,
			Title:       rec.Name,
			Subtitle:    titleCase(rec.LocationType),
			BorderColor: ColorLocation,
			Icons:       []string{icon},
		}
	default:
		return Popup{}, fmt.Errorf("popup: unsupported record %T", e)
	}

	var buf bytes.Buffer
	if err := popupTmpl.Execute(&buf, data); err != nil {
		return Popup{}, fmt.Errorf("popup %s: %w", data.Key, err)
	}
	return Popup{Key: data.Key, HTML: buf.String(), Playlist: playlist}, nil
}

func waypointIcons(p *geodata.Place) []string {
	icons := []string{"fas fa-globe globe-icon"}
	if p.Home {
		icons = append(icons, "fas fa-home home-icon")
	}
	if p.VisitType == "school" {
		icons = append(icons, "fas fa-graduation-cap school-icon")
	}
	return icons
}
