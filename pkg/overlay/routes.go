package overlay

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"travel-map/pkg/geodata"
	"travel-map/pkg/geowrap"
	"travel-map/pkg/logger"
)

// Sublayer is one transport mode's slice of the routes overlay: a fixed line
// style plus every loaded, triplicated line collection of that mode.
type Sublayer struct {
	Mode     string                       `json:"mode"`
	Icon     string                       `json:"icon"`
	Style    RouteStyle                   `json:"style"`
	Features []*geojson.FeatureCollection `json:"features"`
}

// Routes stores the route sublayers. Geometry files load independently and
// in no particular order, so a goroutine owns the sublayer map and additions
// arrive over a channel; snapshots are deep enough for concurrent encoding.
type Routes struct {
	add      chan addedRoute
	snapshot chan chan []Sublayer
}

type addedRoute struct {
	mode   string
	copies [3]*geojson.FeatureCollection
}

// NewRoutes creates the store with every transport mode present from the
// start. A mode whose files all fail to load stays present and empty.
func NewRoutes() *Routes {
	r := &Routes{
		add:      make(chan addedRoute),
		snapshot: make(chan chan []Sublayer),
	}
	go r.run()
	return r
}

// Add appends one route's three world copies to its mode sublayer.
func (r *Routes) Add(mode string, copies [3]*geojson.FeatureCollection) {
	r.add <- addedRoute{mode: mode, copies: copies}
}

// Sublayers returns the current sublayers in legend order.
func (r *Routes) Sublayers() []Sublayer {
	reply := make(chan []Sublayer, 1)
	r.snapshot <- reply
	return <-reply
}

func (r *Routes) run() {
	byMode := make(map[string][]*geojson.FeatureCollection, len(TransportModes))
	for _, mode := range TransportModes {
		byMode[mode] = nil
	}

	for {
		select {
		case added := <-r.add:
			byMode[added.mode] = append(byMode[added.mode], added.copies[:]...)
		case reply := <-r.snapshot:
			out := make([]Sublayer, 0, len(TransportModes))
			for _, mode := range TransportModes {
				out = append(out, Sublayer{
					Mode:     mode,
					Icon:     ModeIcons[mode],
					Style:    StyleFor(mode),
					Features: append([]*geojson.FeatureCollection(nil), byMode[mode]...),
				})
			}
			reply <- out
		}
	}
}

// LoadRoutes reads every route geometry file concurrently and fills the
// store. Each route is failure-isolated: a file that cannot be read or
// parsed is logged and dropped without touching its siblings. A route naming
// an unknown transport mode is dropped the same way. Returns once every
// route has either loaded or failed.
func LoadRoutes(ctx context.Context, fsys fs.FS, specs []geodata.RouteSpec, store *Routes) {
	var wg sync.WaitGroup
	for _, spec := range specs {
		wg.Add(1)
		go func(spec geodata.RouteSpec) {
			defer wg.Done()
			if err := loadOneRoute(ctx, fsys, spec, store); err != nil {
				logger.FlushError(spec.Filename, err)
			}
		}(spec)
	}
	wg.Wait()
}

func loadOneRoute(ctx context.Context, fsys fs.FS, spec geodata.RouteSpec, store *Routes) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Begin(spec.Filename)
	logger.Append(spec.Filename, fmt.Sprintf("[%s] reading %s route", spec.Filename, spec.TransportMode))

	if _, known := RouteStyles[spec.TransportMode]; !known {
		return fmt.Errorf("unknown transport mode %q", spec.TransportMode)
	}

	raw, err := fs.ReadFile(fsys, path.Join(geodata.GeoJSONDir, spec.Filename))
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	lines := dropPoints(fc)
	logger.Append(spec.Filename,
		fmt.Sprintf("[%s] %d line features (%d dropped)", spec.Filename,
			len(lines.Features), len(fc.Features)-len(lines.Features)))

	store.Add(spec.TransportMode, geowrap.Triple(lines))
	logger.Success(spec.Filename, spec.Filename)
	return nil
}

// dropPoints filters Point features out of a route file. Some train routes
// carry a station marker alongside the line; only lines are rendered.
func dropPoints(fc *geojson.FeatureCollection) *geojson.FeatureCollection {
	out := geojson.NewFeatureCollection()
	for _, f := range fc.Features {
		switch f.Geometry.(type) {
		case orb.Point, orb.MultiPoint:
			continue
		default:
			out.Append(f)
		}
	}
	return out
}
