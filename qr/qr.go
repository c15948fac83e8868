// Package qr renders check-in payloads as QR code images.
package qr

import qrcode "github.com/skip2/go-qrcode"

const (
	DefaultSize = 300
	MaxSize     = 1024
)

// PNG encodes the payload (the validation URL with the token embedded) as a
// QR code PNG of the given pixel size. Sizes outside [64, MaxSize] are
// clamped.
func PNG(payload string, size int) ([]byte, error) {
	if size < 64 {
		size = 64
	}
	if size > MaxSize {
		size = MaxSize
	}
	return qrcode.Encode(payload, qrcode.Medium, size)
}
