package mediareel

import "time"

// Show is emitted whenever the reel lands on an item: on open, on every
// advance (button, timer or video end) and on play/pause flips, so the
// listener can mirror the reel without polling.
type Show struct {
	Index   int  `json:"index"`
	Item    Item `json:"item"`
	Playing bool `json:"playing"`
}

// Snapshot is the reel state at one instant, used by tests and by clients
// reconnecting to a live reel.
type Snapshot struct {
	Len         int
	Index       int
	Playing     bool
	TimerArmed  bool
	Placeholder bool
}

type op int

const (
	opNext op = iota
	opPrev
	opToggle
	opVideoEnded
	opSnapshot
	opClose
)

type command struct {
	op    op
	reply chan Snapshot
}

// Reel is one live carousel. Open it with a playlist, drive it with Next,
// Prev, TogglePlayPause and VideoEnded, and read Show events from Events.
type Reel struct {
	cmds     chan command
	events   chan Show
	interval time.Duration
	items    []Item
}

// Open starts a reel over items. An empty playlist yields a placeholder
// reel: nothing plays, no timer is armed, and the page shows the "no media"
// note instead. Otherwise item 0 is shown and autoplay starts immediately.
func Open(items []Item, interval time.Duration) *Reel {
	if interval <= 0 {
		interval = DefaultInterval
	}
	r := &Reel{
		cmds:     make(chan command),
		events:   make(chan Show, 16),
		interval: interval,
		items:    items,
	}
	go r.run()
	return r
}

// Events delivers Show notifications. Sends never block the reel; a slow
// listener misses intermediate frames, not the reel itself.
func (r *Reel) Events() <-chan Show { return r.events }

// Items returns the playlist the reel was opened with.
func (r *Reel) Items() []Item { return r.items }

// Next advances to the following item, wrapping past the end. The autoplay
// timer is cancelled and, while playing, re-armed from zero.
func (r *Reel) Next() { r.send(opNext) }

// Prev steps back one item; from index 0 it wraps to the last item, never to
// a negative index.
func (r *Reel) Prev() { r.send(opPrev) }

// TogglePlayPause flips the playing state. Pausing an already-paused reel is
// a no-op; resuming re-arms the timer with the same period.
func (r *Reel) TogglePlayPause() { r.send(opToggle) }

// VideoEnded reports that the current video finished. While a video is
// current this signal, not the timer, is what advances the reel.
func (r *Reel) VideoEnded() { r.send(opVideoEnded) }

// Snapshot returns the current state. A closed reel reports the zero value.
func (r *Reel) Snapshot() (snap Snapshot) {
	defer func() { _ = recover() }()
	reply := make(chan Snapshot, 1)
	r.cmds <- command{op: opSnapshot, reply: reply}
	return <-reply
}

// Close stops the reel goroutine and its timer and closes Events.
func (r *Reel) Close() { r.send(opClose) }

func (r *Reel) send(o op) {
	defer func() {
		// A command racing Close finds the goroutine gone; dropping the
		// command is the right outcome for a dead popup.
		_ = recover()
	}()
	r.cmds <- command{op: o}
}

func (r *Reel) run() {
	index := 0
	playing := len(r.items) > 0

	var timer *time.Timer
	var tick <-chan time.Time

	// rearm arms the autoplay timer only while playing an image. Videos
	// advance on VideoEnded instead; the two triggers are never armed
	// together.
	rearm := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
			tick = nil
		}
		if playing && len(r.items) > 0 && r.items[index].Kind == Image {
			timer = time.NewTimer(r.interval)
			tick = timer.C
		}
	}

	emit := func() {
		if len(r.items) == 0 {
			return
		}
		show := Show{Index: index, Item: r.items[index], Playing: playing}
		select {
		case r.events <- show:
		default:
		}
	}

	rearm()
	emit()

	for {
		select {
		case <-tick:
			index = (index + 1) % len(r.items)
			rearm()
			emit()

		case cmd := <-r.cmds:
			switch cmd.op {
			case opNext:
				if len(r.items) > 0 {
					index = (index + 1) % len(r.items)
				}
				rearm()
				emit()
			case opPrev:
				if len(r.items) > 0 {
					index = (index - 1 + len(r.items)) % len(r.items)
				}
				rearm()
				emit()
			case opToggle:
				if len(r.items) > 0 {
					playing = !playing
				}
				rearm()
				emit()
			case opVideoEnded:
				// One-shot advance, then back to normal policy.
				if playing && len(r.items) > 0 {
					index = (index + 1) % len(r.items)
				}
				rearm()
				emit()
			case opSnapshot:
				cmd.reply <- Snapshot{
					Len:         len(r.items),
					Index:       index,
					Playing:     playing,
					TimerArmed:  tick != nil,
					Placeholder: len(r.items) == 0,
				}
			case opClose:
				if timer != nil {
					timer.Stop()
				}
				close(r.events)
				close(r.cmds)
				return
			}
		}
	}
}
