// Package qr renders attendance links as QR code images.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the rendered PNG edge length in pixels.
const DefaultSize = 256

// EncodePNG renders the given URL as a PNG QR code.
func EncodePNG(url string, size int) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("qr: empty url")
	}
	if size <= 0 {
		size = DefaultSize
	}

	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr: failed to encode %q: %w", url, err)
	}
	return png, nil
}
