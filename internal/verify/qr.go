package verify

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// PNG renders a verification URL as a QR code PNG at size pixels square.
func PNG(url string, size int) ([]byte, error) {
	code, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("verify: encode qr: %w", err)
	}
	png, err := code.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("verify: render qr png: %w", err)
	}
	return png, nil
}

// ANSI renders a verification URL as a QR code using half-block characters,
// for terminals that can't display a PNG (an operator SSHed into a headless
// node checking their own signal before trusting the phone-side scan).
func ANSI(url string) (string, error) {
	code, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("verify: encode qr: %w", err)
	}
	bitmap := code.Bitmap()

	var b strings.Builder
	for y := 0; y < len(bitmap); y += 2 {
		for x := range bitmap[y] {
			top := bitmap[y][x]
			bottom := false
			if y+1 < len(bitmap) {
				bottom = bitmap[y+1][x]
			}
			b.WriteRune(halfBlock(top, bottom))
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// halfBlock picks the Unicode block element representing a pair of stacked
// pixels, so one printed character encodes two bitmap rows.
func halfBlock(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top && !bottom:
		return '▀'
	case !top && bottom:
		return '▄'
	default:
		return ' '
	}
}
