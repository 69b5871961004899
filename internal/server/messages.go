package server

import (
	"image"

	"github.com/ironsheep/pixel-lens/internal/imaging"
)

// Message is one inbound JSON line.
//
// Which fields apply depends on Type:
//
//	init         background + backgroundSize, or backgroundPath;
//	             optional overlay + overlaySize, surfaceSize
//	pointerMove  position
//	toggleLens   enabled
//	snapshot     optional region and scale
type Message struct {
	Type string `json:"type"`

	// Background is base64 RGBA8888, row-major, backgroundSize.width*height*4
	// bytes once decoded.
	Background     string        `json:"background,omitempty"`
	BackgroundSize *imaging.Size `json:"backgroundSize,omitempty"`

	// BackgroundPath loads the background from an image file instead.
	BackgroundPath string `json:"backgroundPath,omitempty"`

	Overlay     string        `json:"overlay,omitempty"`
	OverlaySize *imaging.Size `json:"overlaySize,omitempty"`

	// SurfaceSize defaults to the background size.
	SurfaceSize *imaging.Size `json:"surfaceSize,omitempty"`

	Position *Point `json:"position,omitempty"`
	Enabled  *bool  `json:"enabled,omitempty"`

	Region *Region  `json:"region,omitempty"`
	Scale  *float64 `json:"scale,omitempty"`
}

// Point is a surface position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Region is a rectangle given by its top-left corner and its size.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Outbound message types.
const (
	TypeBackgroundReady = "backgroundReady"
	TypeColorChanged    = "colorChanged"
	TypeInitFailed      = "initFailed"
	TypeSnapshot        = "snapshot"
)

// Reply is one outbound JSON line.
type Reply struct {
	Type string `json:"type"`

	// Size is the surface size, sent with backgroundReady.
	Size *imaging.Size `json:"size,omitempty"`

	HexColor string                `json:"hexColor,omitempty"`
	Color    *imaging.SampledColor `json:"color,omitempty"`
	Position *Point                `json:"position,omitempty"`

	Error string `json:"error,omitempty"`

	// Frame fields are inlined into snapshot replies.
	*imaging.FrameResult
}
