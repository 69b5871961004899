package session

import (
	"image"

	"github.com/ironsheep/pixel-lens/internal/imaging"
	"github.com/ironsheep/pixel-lens/internal/lens"
)

// Kind names a command or event on the wire.
type Kind string

// Command kinds.
const (
	KindInit        Kind = "init"
	KindPointerMove Kind = "pointerMove"
	KindToggleLens  Kind = "toggleLens"
	KindSnapshot    Kind = "snapshot"
)

// Event kinds.
const (
	KindBackgroundReady Kind = "backgroundReady"
	KindColorChanged    Kind = "colorChanged"
	KindInitFailed      Kind = "initFailed"
	KindFrame           Kind = "frame"
)

// Command is a message to the render goroutine.
type Command interface {
	Kind() Kind
}

// Event is a message from the render goroutine.
type Event interface {
	Kind() Kind
}

// Init starts a session.
//
// Surface, Background and Overlay move to the coordinator: after Post the
// caller must not draw through Surface or touch the byte slices again.
type Init struct {
	Surface        *lens.Surface
	Background     []byte
	BackgroundSize imaging.Size

	// Overlay is an optional glyph drawn at the lens center.
	Overlay     []byte
	OverlaySize imaging.Size
}

// PointerMove reports the pointer position in surface coordinates.
type PointerMove struct {
	Position image.Point
}

// ToggleLens turns the lens on or off.
type ToggleLens struct {
	Enabled bool
}

// Snapshot asks for a copy of the surface once every earlier command has
// been processed.
type Snapshot struct{}

// Unsupported carries a command kind the coordinator does not handle.
type Unsupported struct {
	Name string
}

func (Init) Kind() Kind          { return KindInit }
func (PointerMove) Kind() Kind   { return KindPointerMove }
func (ToggleLens) Kind() Kind    { return KindToggleLens }
func (Snapshot) Kind() Kind      { return KindSnapshot }
func (u Unsupported) Kind() Kind { return Kind(u.Name) }

// BackgroundReady is emitted once the first background frame is drawn.
type BackgroundReady struct {
	Width  int
	Height int
}

// ColorChanged carries the pixelated color under the lens.
type ColorChanged struct {
	HexColor string
	Color    imaging.SampledColor
	Position image.Point
}

// InitFailed is emitted when an Init is rejected. The session stays
// uninitialized and accepts another Init.
type InitFailed struct {
	Err error
}

// Frame answers a Snapshot command.
type Frame struct {
	Image *image.RGBA
}

func (BackgroundReady) Kind() Kind { return KindBackgroundReady }
func (ColorChanged) Kind() Kind    { return KindColorChanged }
func (InitFailed) Kind() Kind      { return KindInitFailed }
func (Frame) Kind() Kind           { return KindFrame }
