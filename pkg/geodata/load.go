package geodata

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Filenames of the three bootstrap datasets plus the optional locations
// layer, resolved relative to the data directory.
const (
	OverviewFile  = "data/overview.json"
	ActivityFile  = "data/activity.csv"
	LocationsFile = "data/locations.csv"
	RoutesFile    = "data/routes.csv"

	// GeoJSONDir holds the per-route line geometry files named by routes.csv.
	GeoJSONDir = "geojson"
)

// Dataset bundles everything the bootstrap load produces. The map is not
// built until the whole bundle is here; a single failed file aborts the lot.
type Dataset struct {
	Places     []*Place
	Activities []*Activity
	Locations  []*Location
	Routes     []RouteSpec
}

// LoadAll reads the bootstrap datasets concurrently from fsys and fails
// atomically: any parse or read error aborts with one wrapped error and no
// partial dataset. locations.csv is the one optional file; when it is absent
// the layer is simply empty.
func LoadAll(ctx context.Context, fsys fs.FS) (*Dataset, error) {
	ds := &Dataset{}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		places, err := loadOverview(fsys, OverviewFile)
		if err != nil {
			return fmt.Errorf("overview: %w", err)
		}
		ds.Places = places
		return nil
	})
	g.Go(func() error {
		acts, err := loadActivities(fsys, ActivityFile)
		if err != nil {
			return fmt.Errorf("activities: %w", err)
		}
		ds.Activities = acts
		return nil
	})
	g.Go(func() error {
		routes, err := loadRoutes(fsys, RoutesFile)
		if err != nil {
			return fmt.Errorf("routes: %w", err)
		}
		ds.Routes = routes
		return nil
	})
	g.Go(func() error {
		locs, err := loadLocations(fsys, LocationsFile)
		if err != nil {
			if isNotExist(err) {
				return nil
			}
			return fmt.Errorf("locations: %w", err)
		}
		ds.Locations = locs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ds, nil
}

// DirFS opens the data directory as an fs.FS, verifying it exists up front so
// the failure is reported once at startup rather than per file.
func DirFS(dir string) (fs.FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", abs)
	}
	return os.DirFS(abs), nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func loadOverview(fsys fs.FS, name string) ([]*Place, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	var places []*Place
	if err := json.Unmarshal(raw, &places); err != nil {
		return nil, err
	}
	return places, nil
}

// readCSVRows parses a header-keyed CSV into one map per data row. A file
// with a trailing newline and one without must yield the same row count, so
// rows whose cells are all empty are skipped.
func readCSVRows(fsys fs.FS, name string) ([]map[string]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		empty := true
		for _, cell := range record {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		row := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(record) {
				row[key] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func loadActivities(fsys fs.FS, name string) ([]*Activity, error) {
	rows, err := readCSVRows(fsys, name)
	if err != nil {
		return nil, err
	}
	acts := make([]*Activity, 0, len(rows))
	for i, row := range rows {
		lat, err := parseCoord(row["lat"])
		if err != nil {
			return nil, fmt.Errorf("row %d: lat: %w", i+1, err)
		}
		lng, err := parseCoord(row["lng"])
		if err != nil {
			return nil, fmt.Errorf("row %d: lng: %w", i+1, err)
		}
		acts = append(acts, &Activity{
			ActivityID:   row["activity_id"],
			ActivityType: row["activity_type"],
			Lat:          lat,
			Lng:          lng,
			Description:  row["description"],
			Notes:        row["notes"],
			Photos:       splitPhotos(row["photos"]),
			PhotoAlbum:   row["photo_album"],
			RoutePath:    row["route_path"],
		})
	}
	return acts, nil
}

func loadLocations(fsys fs.FS, name string) ([]*Location, error) {
	rows, err := readCSVRows(fsys, name)
	if err != nil {
		return nil, err
	}
	locs := make([]*Location, 0, len(rows))
	for i, row := range rows {
		lat, err := parseCoord(row["lat"])
		if err != nil {
			return nil, fmt.Errorf("row %d: lat: %w", i+1, err)
		}
		lng, err := parseCoord(row["lng"])
		if err != nil {
			return nil, fmt.Errorf("row %d: lng: %w", i+1, err)
		}
		locs = append(locs, &Location{
			LocationID:   row["location_id"],
			LocationType: row["location_type"],
			Lat:          lat,
			Lng:          lng,
			Name:         row["name"],
		})
	}
	return locs, nil
}

func loadRoutes(fsys fs.FS, name string) ([]RouteSpec, error) {
	rows, err := readCSVRows(fsys, name)
	if err != nil {
		return nil, err
	}
	routes := make([]RouteSpec, 0, len(rows))
	for _, row := range rows {
		if row["filename"] == "" {
			continue
		}
		routes = append(routes, RouteSpec{
			Filename:      row["filename"],
			TransportMode: strings.ToLower(row["transport_mode"]),
		})
	}
	return routes, nil
}

func parseCoord(s string) (Coord, error) {
	if s == "" {
		return 0, nil
	}
	var c Coord
	if err := c.UnmarshalJSON([]byte(s)); err != nil {
		return 0, err
	}
	return c, nil
}

// splitPhotos turns a CSV photos cell into a list. Cells hold either one
// filename or a semicolon-separated set.
func splitPhotos(cell string) PhotoList {
	if cell == "" {
		return nil
	}
	parts := strings.Split(cell, ";")
	out := make(PhotoList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
