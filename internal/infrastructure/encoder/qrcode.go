package encoder

import (
	"fmt"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/AzizDev404/Qr/internal/domain/provider"
)

type QRCodeEncoder struct{}

// NewQRCodeEncoder creates the go-qrcode backed image encoder.
func NewQRCodeEncoder() provider.Encoder {
	return &QRCodeEncoder{}
}

// Encode renders text as a PNG QR code.
func (e *QRCodeEncoder) Encode(text string, opts provider.EncodeOptions) ([]byte, error) {
	code, err := qrcode.New(text, recoveryLevel(opts.Level))
	if err != nil {
		return nil, fmt.Errorf("failed to build qr code: %w", err)
	}

	if opts.Foreground != "" {
		fg, err := parseHexColor(opts.Foreground)
		if err != nil {
			return nil, err
		}
		code.ForegroundColor = fg
	}
	if opts.Background != "" {
		bg, err := parseHexColor(opts.Background)
		if err != nil {
			return nil, err
		}
		code.BackgroundColor = bg
	}
	code.DisableBorder = opts.DisableBorder

	size := opts.Size
	if size <= 0 {
		size = 512
	}

	png, err := code.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr png: %w", err)
	}
	return png, nil
}

func recoveryLevel(level string) qrcode.RecoveryLevel {
	switch level {
	case "low":
		return qrcode.Low
	case "high":
		return qrcode.High
	case "highest":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

func parseHexColor(s string) (color.Color, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return nil, fmt.Errorf("invalid hex color %q", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
