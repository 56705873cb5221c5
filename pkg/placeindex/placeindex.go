// Package placeindex resolves "zoom to this place" requests. It maps the one
// logical id of every place, activity and location to its source record.
// Triplicated render copies are never registered; the canonical record is
// enough no matter how many world copies are on screen.
package placeindex

import "travel-map/pkg/geodata"

// Index is built once per dataset load, before any layer is served, so a
// popup opened right after startup can always resolve. A dedicated goroutine
// owns the map and requests travel over channels; no mutexes.
type Index struct {
	register chan geodata.Entry
	lookup   chan lookupReq
	size     chan chan int
}

type lookupReq struct {
	key   string
	reply chan geodata.Entry
}

// New starts an empty index. Its goroutine lives for the process lifetime,
// matching the records it serves.
func New() *Index {
	idx := &Index{
		register: make(chan geodata.Entry),
		lookup:   make(chan lookupReq),
		size:     make(chan chan int),
	}
	go idx.run()
	return idx
}

// Register inserts the record under its logical key, overwriting any earlier
// record with the same key.
func (idx *Index) Register(e geodata.Entry) {
	idx.register <- e
}

// RegisterAll registers every record of a freshly loaded dataset exactly once.
func (idx *Index) RegisterAll(ds *geodata.Dataset) {
	for _, p := range ds.Places {
		idx.Register(p)
	}
	for _, a := range ds.Activities {
		idx.Register(a)
	}
	for _, l := range ds.Locations {
		idx.Register(l)
	}
}

// Lookup returns the record registered under key, or ok=false when the key
// is unknown.
func (idx *Index) Lookup(key string) (geodata.Entry, bool) {
	reply := make(chan geodata.Entry, 1)
	idx.lookup <- lookupReq{key: key, reply: reply}
	e := <-reply
	return e, e != nil
}

// Len reports how many records are registered.
func (idx *Index) Len() int {
	reply := make(chan int, 1)
	idx.size <- reply
	return <-reply
}

func (idx *Index) run() {
	records := make(map[string]geodata.Entry)
	for {
		select {
		case e := <-idx.register:
			records[e.Key()] = e
		case req := <-idx.lookup:
			req.reply <- records[req.key]
		case reply := <-idx.size:
			reply <- len(records)
		}
	}
}
