// Package qrshare renders share links as QR PNGs using
// github.com/skip2/go-qrcode. Popups offer a QR so a place can be reopened
// on a phone by scanning instead of typing the URL.
package qrshare

import (
	"fmt"
	"image/color"
	"io"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
)

// accent matches the map's primary marker color so the code looks like part
// of the site.
var accent = color.RGBA{R: 0x00, G: 0x8A, B: 0x51, A: 0xFF}

const targetPx = 512

// PlaceURL builds the shareable link that reopens the map focused on one
// place id.
func PlaceURL(base, placeID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("share base %q: %w", base, err)
	}
	q := u.Query()
	q.Set("place", placeID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// EncodePNG writes the QR for link as a PNG. Medium error correction keeps
// the code small while surviving screen glare.
func EncodePNG(w io.Writer, link string) error {
	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("qr encode: %w", err)
	}
	q.ForegroundColor = accent
	q.BackgroundColor = color.White
	png, err := q.PNG(targetPx)
	if err != nil {
		return fmt.Errorf("qr render: %w", err)
	}
	_, err = w.Write(png)
	return err
}
