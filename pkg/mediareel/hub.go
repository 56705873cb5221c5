package mediareel

import (
	"math/rand"
	"time"
)

// Hub hands out reel sessions to popups. Every popup opens its own reel
// under a fresh session id, so pausing one never touches another's timer.
// A goroutine owns the session table; requests travel over channels.
type Hub struct {
	open  chan openReq
	get   chan getReq
	close chan string
}

type openReq struct {
	items    []Item
	interval time.Duration
	reply    chan openReply
}

type openReply struct {
	id   string
	reel *Reel
}

type getReq struct {
	id    string
	reply chan *Reel
}

// NewHub starts an empty session table.
func NewHub() *Hub {
	h := &Hub{
		open:  make(chan openReq),
		get:   make(chan getReq),
		close: make(chan string),
	}
	go h.run()
	return h
}

// Open starts a reel for the playlist and returns its session id.
func (h *Hub) Open(items []Item, interval time.Duration) (string, *Reel) {
	reply := make(chan openReply, 1)
	h.open <- openReq{items: items, interval: interval, reply: reply}
	res := <-reply
	return res.id, res.reel
}

// Get returns the live reel for a session id, or nil when the session is
// unknown or already closed.
func (h *Hub) Get(id string) *Reel {
	reply := make(chan *Reel, 1)
	h.get <- getReq{id: id, reply: reply}
	return <-reply
}

// Close stops the session's reel and forgets the id. Closing an unknown id
// is a no-op.
func (h *Hub) Close(id string) { h.close <- id }

func (h *Hub) run() {
	const idChars = "0123456789abcdefghijklmnopqrstuvwxyz"
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sessions := make(map[string]*Reel)

	newID := func() string {
		for {
			b := make([]byte, 8)
			for i := range b {
				b[i] = idChars[rng.Intn(len(idChars))]
			}
			id := string(b)
			if _, taken := sessions[id]; !taken {
				return id
			}
		}
	}

	for {
		select {
		case req := <-h.open:
			id := newID()
			reel := Open(req.items, req.interval)
			sessions[id] = reel
			req.reply <- openReply{id: id, reel: reel}
		case req := <-h.get:
			req.reply <- sessions[req.id]
		case id := <-h.close:
			if reel, ok := sessions[id]; ok {
				reel.Close()
				delete(sessions, id)
			}
		}
	}
}
