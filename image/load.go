package image

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Load decodes the png, jpeg, gif, webp or bmp image at path.
func Load(path string) (image.Image, error) {
	f, e := os.Open(path)
	if e != nil {
		return nil, e
	}
	defer f.Close()

	i, _, e := image.Decode(f)
	if e != nil {
		return nil, fmt.Errorf("decode %s: %w", path, e)
	}

	return i, nil
}

// LoadBuffer loads the image at path into a Buffer.
func LoadBuffer(path string) (*Buffer, error) {
	i, e := Load(path)
	if e != nil {
		return nil, e
	}
	return FromImage(i), nil
}

// Save encodes img as png at path.
func Save(path string, img image.Image) error {
	f, e := os.Create(path)
	if e != nil {
		return e
	}

	if e = png.Encode(f, img); e != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, e)
	}

	return f.Close()
}
