// Package mediareel drives the photo/video carousel shown inside marker
// popups. Each popup owns an independent reel: a looping, pausable slideshow
// over an ordered playlist. A reel is a goroutine owning its state; buttons
// and timers are just messages, so no locks are involved.
package mediareel

import (
	"path"
	"strings"
	"time"
)

// DefaultInterval is how long an image stays on screen while autoplay runs.
const DefaultInterval = 5 * time.Second

// Kind tags a playlist item by what advances it: images advance on the
// autoplay timer, videos advance on their own end-of-playback signal.
type Kind int

const (
	Image Kind = iota
	Video
)

func (k Kind) String() string {
	if k == Video {
		return "video"
	}
	return "image"
}

// Item is one playlist entry.
type Item struct {
	Kind Kind   `json:"kind"`
	Path string `json:"path"`
}

// videoSuffixes are the filename endings treated as video. Everything else
// is an image.
var videoSuffixes = []string{".mp4", ".mov", ".webm"}

// Playlist resolves photo filenames into carousel items under the album's
// image directory, tagging each by suffix.
func Playlist(album string, photos []string) []Item {
	items := make([]Item, 0, len(photos))
	for _, photo := range photos {
		if photo == "" {
			continue
		}
		items = append(items, Item{
			Kind: kindOf(photo),
			Path: path.Join("static/images", album, photo),
		})
	}
	return items
}

func kindOf(filename string) Kind {
	lower := strings.ToLower(filename)
	for _, suffix := range videoSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return Video
		}
	}
	return Image
}

// MarshalJSON renders the kind as its lowercase name so the page script can
// switch on "image"/"video" directly.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}
