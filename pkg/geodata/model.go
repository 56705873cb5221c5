package geodata

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ==========================
// Shared travel data records
// ==========================

// Coord is a longitude or latitude that may arrive as a JSON number or as a
// quoted string. Spreadsheet exports flip between the two, and "10"+360 must
// become 370, never "10360", so everything funnels through ParseFloat.
type Coord float64

func (c *Coord) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*c = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("coord %q: %w", s, err)
	}
	*c = Coord(v)
	return nil
}

// PhotoList accepts either a single filename or an array of filenames.
// Older overview exports carry bare strings for one-photo places.
type PhotoList []string

func (p *PhotoList) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*p = nil
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*p = list
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	if one == "" {
		*p = nil
		return nil
	}
	*p = []string{one}
	return nil
}

// LatLng is a map point in Leaflet order.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is a rectangle in Leaflet's [[southLat,westLng],[northLat,eastLng]]
// wire shape.
type Bounds struct {
	SouthWest LatLng
	NorthEast LatLng
}

func (b *Bounds) UnmarshalJSON(data []byte) error {
	var raw [2][2]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("bounds: %w", err)
	}
	b.SouthWest = LatLng{Lat: raw[0][0], Lng: raw[0][1]}
	b.NorthEast = LatLng{Lat: raw[1][0], Lng: raw[1][1]}
	return nil
}

func (b Bounds) MarshalJSON() ([]byte, error) {
	raw := [2][2]float64{
		{b.SouthWest.Lat, b.SouthWest.Lng},
		{b.NorthEast.Lat, b.NorthEast.Lng},
	}
	return json.Marshal(raw)
}

// Extend grows the rectangle to cover the given point.
func (b *Bounds) Extend(lat, lng float64) {
	if b.SouthWest == (LatLng{}) && b.NorthEast == (LatLng{}) {
		b.SouthWest = LatLng{Lat: lat, Lng: lng}
		b.NorthEast = LatLng{Lat: lat, Lng: lng}
		return
	}
	if lat < b.SouthWest.Lat {
		b.SouthWest.Lat = lat
	}
	if lng < b.SouthWest.Lng {
		b.SouthWest.Lng = lng
	}
	if lat > b.NorthEast.Lat {
		b.NorthEast.Lat = lat
	}
	if lng > b.NorthEast.Lng {
		b.NorthEast.Lng = lng
	}
}

// Place is one visited place from overview.json. Records never change after
// load; a page refresh is the only reset.
type Place struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Lat         Coord     `json:"lat"`
	Lng         Coord     `json:"lng"`
	VisitType   string    `json:"visit_type"`
	Importance  Coord     `json:"importance"`
	Home        bool      `json:"home"`
	Description string    `json:"description"`
	Notes       string    `json:"notes"`
	Photos      PhotoList `json:"photos"`
	PhotoAlbum  string    `json:"photo_album"`
	ZoomLevel   int       `json:"zoomLevel,omitempty"`
	ZoomBounds  *Bounds   `json:"zoomBounds,omitempty"`
}

// Activity is one row of activity.csv.
type Activity struct {
	ActivityID   string
	ActivityType string
	Lat          Coord
	Lng          Coord
	Description  string
	Notes        string
	Photos       PhotoList
	PhotoAlbum   string
	RoutePath    string
}

// Location is one row of locations.csv; a sparse layer shown only when the
// map is zoomed in past the location threshold.
type Location struct {
	LocationID   string
	LocationType string
	Lat          Coord
	Lng          Coord
	Name         string
}

// RouteSpec is one row of routes.csv: a pointer to a GeoJSON line file and
// the transport mode that picks its line style.
type RouteSpec struct {
	Filename      string
	TransportMode string
}

// Entry is what the place index stores: any record a popup zoom button can
// target by its one logical id.
type Entry interface {
	// Key returns the record's logical identity.
	Key() string
	// Coord reports the record's point, if it has one.
	Coord() (lat, lng float64, ok bool)
}

func (p *Place) Key() string { return p.ID }
func (p *Place) Coord() (float64, float64, bool) {
	if p.Lat == 0 && p.Lng == 0 {
		return 0, 0, false
	}
	return float64(p.Lat), float64(p.Lng), true
}

func (a *Activity) Key() string { return a.ActivityID }
func (a *Activity) Coord() (float64, float64, bool) {
	if a.Lat == 0 && a.Lng == 0 {
		return 0, 0, false
	}
	return float64(a.Lat), float64(a.Lng), true
}

func (l *Location) Key() string { return l.LocationID }
func (l *Location) Coord() (float64, float64, bool) {
	if l.Lat == 0 && l.Lng == 0 {
		return 0, 0, false
	}
	return float64(l.Lat), float64(l.Lng), true
}
