package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// FrameResult contains an encoded surface frame
type FrameResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
}

// EncodeFrame encodes a rendered frame as a base64 PNG, optionally cropped to
// region and scaled.
func EncodeFrame(img image.Image, region *image.Rectangle, scale float64) (*FrameResult, error) {
	out := img
	if region != nil {
		bounds := img.Bounds()
		if !region.In(bounds) {
			return nil, fmt.Errorf("frame region %v outside image bounds %v", *region, bounds)
		}
		if region.Empty() {
			return nil, fmt.Errorf("invalid frame region %v: empty", *region)
		}
		out = imaging.Crop(img, *region)
	}

	if scale != 1.0 && scale > 0 {
		w := float64(out.Bounds().Dx()) * scale
		h := float64(out.Bounds().Dy()) * scale
		if w*h > MaxPixels {
			return nil, fmt.Errorf("%w: frame scaled by %g would be %.0fx%.0f", ErrTooLarge, scale, w, h)
		}
		out = imaging.Resize(out, max(int(w), 1), max(int(h), 1), imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}

	return &FrameResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
