package pickups

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/disintegration/imaging"
)

// PhotoNormalizer re-encodes proof photos to bounded JPEG so stored
// rows stay small and uniform regardless of what the device uploaded.
type PhotoNormalizer struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// Normalize decodes the upload, downsizes it to fit the configured
// bounds and re-encodes as JPEG. ok is false when the bytes cannot be
// decoded at all; the caller decides whether to skip the photo.
func (n PhotoNormalizer) Normalize(data []byte, contentType string) (out []byte, outType string, ok bool) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", false
	}

	bounds := img.Bounds()
	if n.MaxWidth > 0 && n.MaxHeight > 0 &&
		(bounds.Dx() > n.MaxWidth || bounds.Dy() > n.MaxHeight) {
		img = imaging.Fit(img, n.MaxWidth, n.MaxHeight, imaging.Lanczos)
	}

	quality := n.Quality
	if quality <= 0 || quality > 100 {
		quality = 80
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		// decoded fine but re-encode failed, keep the original bytes
		return data, contentType, true
	}
	return buf.Bytes(), "image/jpeg", true
}

// dimensions reports the pixel size of an encoded image, or ok=false
// if the bytes cannot be decoded.
func dimensions(data []byte) (w, h int, ok bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}
