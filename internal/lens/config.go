package lens

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid lens config")

// Config holds the lens geometry and behaviour.
type Config struct {
	// Radius of the lens circle in surface pixels.
	Radius int

	// Zoom is the magnification applied to the pixelated image inside the lens.
	Zoom float64

	// BlockSize is the pixelation block edge length in image pixels.
	BlockSize int

	// BorderWidth is the stroke width of the lens border. The stroke is
	// centered on the lens circle.
	BorderWidth int

	// RestoreMargin is added to Radius when the previous lens position is
	// repainted from the background frame.
	RestoreMargin int

	// LabelFontSize is the hex label size in points at 72 DPI.
	LabelFontSize float64

	// EnabledOnStart reports whether the lens follows the pointer before any
	// toggle command arrives.
	EnabledOnStart bool
}

// DefaultConfig returns the stock lens: an 80px radius, 3x zoom over 3px
// blocks, and a 13px border.
func DefaultConfig() Config {
	return Config{
		Radius:        80,
		Zoom:          3,
		BlockSize:     3,
		BorderWidth:   13,
		RestoreMargin: 10,
		LabelFontSize: 16,
	}
}

// Diameter returns twice the radius.
func (c Config) Diameter() int {
	return 2 * c.Radius
}

// Validate checks the configuration for values the renderer cannot draw.
func (c Config) Validate() error {
	switch {
	case c.Radius <= 0:
		return fmt.Errorf("%w: radius %d must be positive", ErrInvalidConfig, c.Radius)
	case c.Zoom <= 0:
		return fmt.Errorf("%w: zoom %v must be positive", ErrInvalidConfig, c.Zoom)
	case c.BlockSize < 1:
		return fmt.Errorf("%w: block size %d must be at least 1", ErrInvalidConfig, c.BlockSize)
	case c.BorderWidth < 0:
		return fmt.Errorf("%w: border width %d must not be negative", ErrInvalidConfig, c.BorderWidth)
	case 2*c.RestoreMargin < c.BorderWidth:
		// The outer half of the border must lie inside the restore square.
		return fmt.Errorf("%w: restore margin %d is smaller than half the border width %d",
			ErrInvalidConfig, c.RestoreMargin, c.BorderWidth)
	case c.LabelFontSize <= 0:
		return fmt.Errorf("%w: label font size %v must be positive", ErrInvalidConfig, c.LabelFontSize)
	}
	return nil
}
