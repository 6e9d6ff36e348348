package encoder

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AzizDev404/Qr/internal/domain/provider"
)

func TestQRCodeEncoder_Encode(t *testing.T) {
	enc := NewQRCodeEncoder()

	t.Run("produces a png at the requested size", func(t *testing.T) {
		data, err := enc.Encode("https://qr.example.com/scan/abc1234", provider.EncodeOptions{Size: 256})

		assert.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(data))
		assert.NoError(t, err)
		assert.Equal(t, 256, img.Bounds().Dx())
		assert.Equal(t, 256, img.Bounds().Dy())
	})

	t.Run("defaults the size", func(t *testing.T) {
		data, err := enc.Encode("https://qr.example.com/scan/abc1234", provider.EncodeOptions{})

		assert.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(data))
		assert.NoError(t, err)
		assert.Equal(t, 512, img.Bounds().Dx())
	})

	t.Run("rejects malformed colors", func(t *testing.T) {
		_, err := enc.Encode("text", provider.EncodeOptions{Foreground: "red"})
		assert.Error(t, err)
	})

	t.Run("accepts hex colors", func(t *testing.T) {
		_, err := enc.Encode("text", provider.EncodeOptions{
			Foreground: "#1a2b3c",
			Background: "#ffffff",
			Level:      "high",
		})
		assert.NoError(t, err)
	})
}
