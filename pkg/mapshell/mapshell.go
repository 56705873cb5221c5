// Package mapshell owns the composed map model: base layers, overlays,
// default view, legend, attribution, and the rule that the legend and
// route-mode controls are attached exactly while their overlay is enabled.
// The embedded page is a thin renderer of this model; it reports overlay
// toggles back and applies whatever control changes the shell answers with.
package mapshell

import "travel-map/pkg/geodata"

// Overlay and control names shared with the page script.
const (
	OverlayWaypoints  = "Waypoints"
	OverlayActivities = "Activities"
	OverlayLocations  = "Locations"
	OverlayRoutes     = "Routes"

	ControlLegend     = "legend"
	ControlRouteModes = "route-modes"
)

// BaseLayer is one background tile layer; base layers are mutually
// exclusive siblings.
type BaseLayer struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	MaxZoom     int    `json:"maxZoom"`
}

// LegendRow is one line of the legend control.
type LegendRow struct {
	Label     string `json:"label"`
	Color     string `json:"color"`
	DashArray string `json:"dashArray,omitempty"`
}

// Config is the full map model served to the page at startup.
type Config struct {
	Title           string         `json:"title"`
	Attribution     string         `json:"attribution"`
	BaseLayers      []BaseLayer    `json:"baseLayers"`
	DefaultLayer    string         `json:"defaultLayer"`
	Bounds          geodata.Bounds `json:"bounds"`
	LocationMinZoom int            `json:"locationMinZoom"`
	Legend          []LegendRow    `json:"legend"`
	AboutHTML       string         `json:"aboutHTML"`
}

// ControlChange is the shell's answer to one overlay toggle: the controls to
// attach and detach so the page matches the invariant.
type ControlChange struct {
	Attach []string `json:"attach"`
	Detach []string `json:"detach"`
}

// Shell tracks which overlays are enabled and keeps bound controls in step.
// One goroutine owns the state; overlay events and queries arrive over
// channels, so concurrent page sessions cannot corrupt it.
type Shell struct {
	cfg      Config
	events   chan overlayEvent
	attached chan chan []string
	handlers chan handlerReg
}

type overlayEvent struct {
	name  string
	added bool
	reply chan ControlChange
}

type handlerReg struct {
	name  string
	added bool
	fn    func(name string)
}

type binding struct {
	overlay string
	control string
}

// bindings pin each conditional control to its overlay. Whatever an add
// attaches, the matching remove detaches; nothing else touches them.
var bindings = []binding{
	{overlay: OverlayWaypoints, control: ControlLegend},
	{overlay: OverlayRoutes, control: ControlRouteModes},
}

// New starts a shell. Both bound overlays start enabled, matching the page,
// so both controls begin attached.
func New(cfg Config) *Shell {
	s := &Shell{
		cfg:      cfg,
		events:   make(chan overlayEvent),
		attached: make(chan chan []string),
		handlers: make(chan handlerReg),
	}
	go s.run()
	return s
}

// Config returns the served map model.
func (s *Shell) Config() Config { return s.cfg }

// OnOverlayAdd registers fn to run whenever the named overlay is enabled.
func (s *Shell) OnOverlayAdd(name string, fn func(name string)) {
	s.handlers <- handlerReg{name: name, added: true, fn: fn}
}

// OnOverlayRemove registers fn to run whenever the named overlay is disabled.
func (s *Shell) OnOverlayRemove(name string, fn func(name string)) {
	s.handlers <- handlerReg{name: name, added: false, fn: fn}
}

// OverlayAdded records that the page enabled an overlay and returns the
// control changes to apply.
func (s *Shell) OverlayAdded(name string) ControlChange {
	reply := make(chan ControlChange, 1)
	s.events <- overlayEvent{name: name, added: true, reply: reply}
	return <-reply
}

// OverlayRemoved records that the page disabled an overlay and returns the
// control changes to apply.
func (s *Shell) OverlayRemoved(name string) ControlChange {
	reply := make(chan ControlChange, 1)
	s.events <- overlayEvent{name: name, added: false, reply: reply}
	return <-reply
}

// AttachedControls lists the controls currently attached, in binding order.
func (s *Shell) AttachedControls() []string {
	reply := make(chan []string, 1)
	s.attached <- reply
	return <-reply
}

func (s *Shell) run() {
	enabled := map[string]bool{
		OverlayWaypoints:  true,
		OverlayActivities: true,
		OverlayLocations:  true,
		OverlayRoutes:     true,
	}
	attached := map[string]bool{}
	for _, b := range bindings {
		attached[b.control] = enabled[b.overlay]
	}
	onAdd := map[string][]func(string){}
	onRemove := map[string][]func(string){}

	for {
		select {
		case reg := <-s.handlers:
			if reg.added {
				onAdd[reg.name] = append(onAdd[reg.name], reg.fn)
			} else {
				onRemove[reg.name] = append(onRemove[reg.name], reg.fn)
			}

		case ev := <-s.events:
			enabled[ev.name] = ev.added
			var change ControlChange
			for _, b := range bindings {
				if b.overlay != ev.name {
					continue
				}
				if ev.added && !attached[b.control] {
					attached[b.control] = true
					change.Attach = append(change.Attach, b.control)
				}
				if !ev.added && attached[b.control] {
					attached[b.control] = false
					change.Detach = append(change.Detach, b.control)
				}
			}
			fns := onAdd[ev.name]
			if !ev.added {
				fns = onRemove[ev.name]
			}
			for _, fn := range fns {
				fn(ev.name)
			}
			ev.reply <- change

		case reply := <-s.attached:
			var out []string
			for _, b := range bindings {
				if attached[b.control] {
					out = append(out, b.control)
				}
			}
			reply <- out
		}
	}
}
