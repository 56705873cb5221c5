// Package logger implements a per-load in-memory log buffer.
//
// Details are buffered while a dataset or route file is being loaded.
// On failure the buffer is replayed followed by the final error; on success
// the buffer is dropped and one short line is written instead. A dedicated
// goroutine owns the buffers and receives commands over a channel, so there
// are no mutexes.
package logger

import (
	"bytes"
	"log"
	"strings"
	"time"
)

type action int

const (
	actBegin action = iota
	actAppend
	actSuccess
	actFlushErr
)

type cmd struct {
	act     action
	loadID  string
	message string    // for Append
	name    string    // for Success
	err     error     // for FlushError
	when    time.Time // timestamp, kept for ordering
}

var ch = make(chan cmd, 128) // buffered for load bursts

// Begin starts buffering for loadID.
func Begin(loadID string) { ch <- cmd{act: actBegin, loadID: loadID, when: time.Now()} }

// Append adds one detailed line to the load's buffer. Lines for unknown
// loads are written straight through.
func Append(loadID, msg string) {
	ch <- cmd{act: actAppend, loadID: loadID, message: msg, when: time.Now()}
}

// Success drops the buffer and writes one short confirmation line.
func Success(loadID, name string) {
	ch <- cmd{act: actSuccess, loadID: loadID, name: name, when: time.Now()}
}

// FlushError replays the buffered lines and then logs the final error.
func FlushError(loadID string, err error) {
	ch <- cmd{act: actFlushErr, loadID: loadID, err: err, when: time.Now()}
}

func init() { go runloop() }

func runloop() {
	buffers := make(map[string]*bytes.Buffer)

	for c := range ch {
		switch c.act {
		case actBegin:
			buffers[c.loadID] = &bytes.Buffer{}

		case actAppend:
			if b := buffers[c.loadID]; b != nil {
				_, _ = b.WriteString(c.message + "\n")
			} else {
				log.Print(c.message)
			}

		case actSuccess:
			log.Printf("[%-10s][load] ✔ %q", c.loadID, c.name)
			delete(buffers, c.loadID)

		case actFlushErr:
			if b := buffers[c.loadID]; b != nil {
				lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
				for _, ln := range lines {
					if ln != "" {
						log.Print(ln)
					}
				}
				delete(buffers, c.loadID)
			}
			log.Printf("[%-10s][ERROR] %v", c.loadID, c.err)
		}
	}
}
