package imaging

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

var (
	// ErrNotInitialized is returned when an operation needs data that has not
	// been loaded yet, such as pixelating before a background exists.
	ErrNotInitialized = errors.New("not initialized")

	// ErrInvalidBuffer is returned when a pixel buffer's declared dimensions
	// do not match its byte length.
	ErrInvalidBuffer = errors.New("invalid pixel buffer")

	// ErrTooLarge is returned for surfaces and frames whose area exceeds
	// MaxPixels.
	ErrTooLarge = errors.New("image too large")
)

const (
	// BytesPerPixel is the size of one RGBA8888 pixel.
	BytesPerPixel = 4

	// MaxPixels bounds the area of rasters allocated from requested sizes
	// (surfaces and scaled frames), 256 MiB of RGBA.
	MaxPixels = 1 << 26
)

// Size is a pair of pixel dimensions.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns Width*Height. Negative dimensions are ErrInvalidBuffer and an
// area above MaxPixels is ErrTooLarge; the product is never overflowed.
func (s Size) Area() (int, error) {
	if s.Width < 0 || s.Height < 0 {
		return 0, fmt.Errorf("%w: dimensions %dx%d must not be negative", ErrInvalidBuffer, s.Width, s.Height)
	}
	if s.Height > 0 && s.Width > MaxPixels/s.Height {
		return 0, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, s.Width, s.Height, MaxPixels)
	}
	return s.Width * s.Height, nil
}

// PixelBuffer holds raw RGBA8888 pixels in row-major order.
//
// Channel values are not premultiplied by alpha, the same layout a canvas
// ImageData uses. A PixelBuffer is immutable once constructed: operations
// that transform pixels return a new buffer, and loading a new image
// replaces the buffer wholesale rather than mutating it.
//
// The invariant len(Pix) == Width*Height*4 holds for every buffer returned by
// NewPixelBuffer and FromImage.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// NewPixelBuffer wraps pix as a width x height buffer.
//
// The slice is adopted, not copied; ownership moves to the returned buffer
// and the caller must not modify pix afterwards.
//
// Returns ErrInvalidBuffer (wrapped) if either dimension is not positive or
// the byte length differs from width*height*4.
func NewPixelBuffer(width, height int, pix []byte) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidBuffer, width, height)
	}
	if width > math.MaxInt/BytesPerPixel/height {
		return nil, fmt.Errorf("%w: %dx%d overflows the buffer length", ErrInvalidBuffer, width, height)
	}
	if want := width * height * BytesPerPixel; len(pix) != want {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes, got %d", ErrInvalidBuffer, width, height, want, len(pix))
	}
	return &PixelBuffer{Width: width, Height: height, Pix: pix}, nil
}

// FromImage copies any image.Image into a new PixelBuffer.
//
// The image is converted to non-premultiplied RGBA and re-anchored so that
// its top-left pixel is (0,0).
func FromImage(img image.Image) *PixelBuffer {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	return &PixelBuffer{Width: b.Dx(), Height: b.Dy(), Pix: nrgba.Pix}
}

// Size returns the buffer dimensions.
func (b *PixelBuffer) Size() Size {
	return Size{Width: b.Width, Height: b.Height}
}

// Bounds returns the rectangle (0,0)-(Width,Height).
func (b *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// NRGBA returns an *image.NRGBA view sharing the buffer's pixels.
// The view must be treated as read-only.
func (b *PixelBuffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * BytesPerPixel,
		Rect:   b.Bounds(),
	}
}

// Resized returns the buffer scaled to width x height with a linear filter.
// When the size already matches, the zero-copy NRGBA view is returned.
func (b *PixelBuffer) Resized(width, height int) image.Image {
	if width == b.Width && height == b.Height {
		return b.NRGBA()
	}
	return imaging.Resize(b.NRGBA(), width, height, imaging.Linear)
}

// offset returns the byte index of pixel (x, y). The caller checks bounds.
func (b *PixelBuffer) offset(x, y int) int {
	return (y*b.Width + x) * BytesPerPixel
}
