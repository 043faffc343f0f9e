// Package qr renders item recovery links as printable QR codes.
package qr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Size is the edge length in pixels of generated PNGs.
const Size = 512

// MIME is the content type of generated codes.
const MIME = "image/png"

var errEmpty = errors.New("empty QR content")

// PNG encodes content as a QR code PNG with medium error correction.
func PNG(content string) ([]byte, error) {
	if content == "" {
		return nil, errEmpty
	}
	png, err := qrcode.Encode(content, qrcode.Medium, Size)
	if err != nil {
		return nil, fmt.Errorf("encoding QR code: %w", err)
	}
	return png, nil
}

// PNGContext is PNG bounded by ctx.
func PNGContext(ctx context.Context, content string) ([]byte, error) {
	type outcome struct {
		png []byte
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		png, err := PNG(content)
		done <- outcome{png, err}
	}()

	select {
	case o := <-done:
		return o.png, o.err
	case <-ctx.Done():
		return nil, fmt.Errorf("encoding QR code: %w", ctx.Err())
	}
}

// RecoveryURL is the public report page a code points at.
func RecoveryURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/found/" + token
}
