package lens

import (
	"errors"
	"image"
	"sync"
)

// ErrSurfaceUnavailable is returned when drawing through a handle that does
// not own its surface.
var ErrSurfaceUnavailable = errors.New("surface unavailable")

// canvas is the raster shared by every handle of one surface.
type canvas struct {
	mu    sync.RWMutex
	img   *image.RGBA
	owner *Surface
}

// Surface is a handle to a drawable RGBA raster.
//
// Exactly one handle owns the raster at a time. Ownership moves with
// Transfer: the receiving handle can draw, the old handle is detached for
// good. Every handle, detached or not, may take a Snapshot, which is how the
// side that gave the surface away still displays it.
type Surface struct {
	c *canvas
}

// NewSurface creates a transparent width x height surface. A zero size is
// allowed; the renderer then sizes the surface to the background image.
func NewSurface(width, height int) *Surface {
	c := &canvas{img: image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))}
	s := &Surface{c: c}
	c.owner = s
	return s
}

// Transfer moves ownership to a new handle and detaches s. Transferring
// from a handle that does not own the surface returns nil.
func (s *Surface) Transfer() *Surface {
	if s == nil || s.c == nil {
		return nil
	}
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	if s.c.owner != s {
		return nil
	}
	next := &Surface{c: s.c}
	s.c.owner = next
	return next
}

// Available reports whether s owns its surface and can draw.
func (s *Surface) Available() bool {
	if s == nil || s.c == nil {
		return false
	}
	s.c.mu.RLock()
	defer s.c.mu.RUnlock()
	return s.c.owner == s
}

// Draw runs fn with exclusive access to the raster.
func (s *Surface) Draw(fn func(dst *image.RGBA)) error {
	if s == nil || s.c == nil {
		return ErrSurfaceUnavailable
	}
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	if s.c.owner != s {
		return ErrSurfaceUnavailable
	}
	fn(s.c.img)
	return nil
}

// Snapshot returns a copy of the current raster, or nil for a nil handle.
func (s *Surface) Snapshot() *image.RGBA {
	if s == nil || s.c == nil {
		return nil
	}
	s.c.mu.RLock()
	defer s.c.mu.RUnlock()
	out := image.NewRGBA(s.c.img.Rect)
	copy(out.Pix, s.c.img.Pix)
	return out
}

// Size returns the raster dimensions.
func (s *Surface) Size() image.Point {
	if s == nil || s.c == nil {
		return image.Point{}
	}
	s.c.mu.RLock()
	defer s.c.mu.RUnlock()
	return s.c.img.Rect.Size()
}

// resize replaces the raster with a transparent one of the given size.
func (s *Surface) resize(width, height int) error {
	if s == nil || s.c == nil {
		return ErrSurfaceUnavailable
	}
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	if s.c.owner != s {
		return ErrSurfaceUnavailable
	}
	s.c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	return nil
}
