package provider

// EncodeOptions configures scannable-image generation.
type EncodeOptions struct {
	// Size is the output image width and height in pixels.
	Size int
	// Level is the error correction level: low, medium, high or highest.
	Level string
	// Foreground and Background are hex colors like "#000000". Empty values
	// fall back to black on white.
	Foreground string
	Background string
	// DisableBorder drops the quiet-zone margin around the code.
	DisableBorder bool
}

// Encoder turns text into a scannable raster image.
type Encoder interface {
	Encode(text string, opts EncodeOptions) ([]byte, error)
}
