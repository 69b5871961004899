package lens

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/ironsheep/pixel-lens/internal/imaging"
)

// State is the renderer's position in the lens lifecycle.
type State int

const (
	// StateUninitialized: no background has been drawn yet.
	StateUninitialized State = iota
	// StateIdle: the background is on the surface and no lens has been drawn.
	StateIdle
	// StateTracking: the lens follows the pointer.
	StateTracking
	// StateDisabled: the lens was toggled off and the plain background shows.
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIdle:
		return "idle"
	case StateTracking:
		return "tracking"
	case StateDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// LensState is the mutable lens position and mode.
type LensState struct {
	Radius     int
	ZoomFactor float64
	Enabled    bool

	// PreviousPosition is where the lens was last drawn. It is only valid
	// when HasPrevious is set.
	PreviousPosition image.Point
	HasPrevious      bool

	// CurrentPosition is the last pointer position seen, drawn or not.
	CurrentPosition image.Point
}

// Renderer draws the background and the magnifier lens onto a Surface.
//
// A Renderer is not safe for concurrent use; the session goroutine that owns
// the surface is its only caller.
type Renderer struct {
	cfg     Config
	surface *Surface

	background *imaging.PixelBuffer
	overlay    *imaging.PixelBuffer
	pixelated  *imaging.PixelBuffer
	fit        imaging.AspectFit

	// frame is the full background render. Restores and toggle-off repaints
	// copy from it, so they match a fresh render exactly.
	frame *image.RGBA

	scratch *image.RGBA
	crop    *image.NRGBA
	clip    *image.Alpha
	ring    *image.Alpha
	ringPad int
	label   *label

	state State
	lens  LensState
}

// NewRenderer creates a renderer that draws through surface.
func NewRenderer(surface *Surface, cfg Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lbl, err := newLabel(cfg.Radius, cfg.LabelFontSize)
	if err != nil {
		return nil, err
	}
	d := cfg.Diameter()
	ring, pad := ringMask(cfg.Radius, cfg.BorderWidth)
	return &Renderer{
		cfg:     cfg,
		surface: surface,
		scratch: image.NewRGBA(image.Rect(0, 0, d, d)),
		clip:    circleMask(cfg.Radius),
		ring:    ring,
		ringPad: pad,
		label:   lbl,
		lens: LensState{
			Radius:     cfg.Radius,
			ZoomFactor: cfg.Zoom,
			Enabled:    cfg.EnabledOnStart,
		},
	}, nil
}

// LoadBackground stores the background and optional overlay glyph and
// prepares the full background frame. It does not draw; call
// RenderBackground for that.
//
// A surface with zero area is first resized to the background dimensions.
// Any previously computed pixelated image is discarded.
func (r *Renderer) LoadBackground(background, overlay *imaging.PixelBuffer) error {
	if background == nil {
		return fmt.Errorf("load background: %w", imaging.ErrNotInitialized)
	}

	size := r.surface.Size()
	if size.X == 0 || size.Y == 0 {
		if err := r.surface.resize(background.Width, background.Height); err != nil {
			return err
		}
		size = image.Pt(background.Width, background.Height)
	}

	r.background = background
	r.overlay = overlay
	r.pixelated = nil
	r.fit = imaging.FitAspect(size.X, size.Y, background.Width, background.Height)
	r.frame = r.composeFrame(size)

	side := max(int(math.Round(float64(r.cfg.Diameter())/r.cfg.Zoom/r.fit.Scale)), 1)
	r.crop = image.NewNRGBA(image.Rect(0, 0, side, side))
	r.lens.HasPrevious = false
	return nil
}

// composeFrame renders the background aspect-fitted onto a transparent
// raster of the given size.
func (r *Renderer) composeFrame(size image.Point) *image.RGBA {
	frame := image.NewRGBA(image.Rectangle{Max: size})
	dr := r.fit.Rect()
	src := r.background.Resized(dr.Dx(), dr.Dy())
	draw.Draw(frame, dr, src, src.Bounds().Min, draw.Src)
	return frame
}

// RenderBackground repaints the whole surface with the plain background.
func (r *Renderer) RenderBackground() error {
	if r.frame == nil {
		return fmt.Errorf("render background: %w", imaging.ErrNotInitialized)
	}
	err := r.surface.Draw(func(dst *image.RGBA) {
		draw.Draw(dst, dst.Bounds(), r.frame, image.Point{}, draw.Src)
	})
	if err != nil {
		return err
	}
	r.lens.HasPrevious = false
	if r.state == StateUninitialized {
		r.state = StateIdle
	}
	return nil
}

// Pixelate computes the pixelated image the lens samples and magnifies.
func (r *Renderer) Pixelate() error {
	px, err := imaging.Pixelate(r.background, r.cfg.BlockSize)
	if err != nil {
		return fmt.Errorf("pixelate background: %w", err)
	}
	r.pixelated = px
	return nil
}

// Pixelated returns the current pixelated image, or nil before Pixelate.
func (r *Renderer) Pixelated() *imaging.PixelBuffer {
	return r.pixelated
}

// Move records a pointer position and draws the lens there when it is
// enabled. drawn is false when nothing was drawn, in which case sampled is
// the zero value.
func (r *Renderer) Move(pos image.Point) (sampled imaging.SampledColor, drawn bool, err error) {
	r.lens.CurrentPosition = pos
	if !r.lens.Enabled || r.state == StateUninitialized {
		return imaging.SampledColor{}, false, nil
	}
	return r.RenderLens(pos)
}

// RenderLens draws the lens centered on pos, a point in surface
// coordinates, and returns the pixelated color under it.
//
// The previous lens square is restored from the background frame first, so
// only the area around the old and new positions changes. Before the
// pixelated image exists RenderLens does nothing and reports drawn=false.
func (r *Renderer) RenderLens(pos image.Point) (sampled imaging.SampledColor, drawn bool, err error) {
	if r.pixelated == nil {
		return imaging.SampledColor{}, false, nil
	}

	p := r.fit.ToImage(pos)
	sampled = imaging.Sample(r.pixelated, p.X, p.Y)
	stroke := color.RGBA{sampled.RGB.R, sampled.RGB.G, sampled.RGB.B, 255}

	r.buildPatch(pos)
	r.label.draw(r.scratch, sampled.Hex, stroke)

	rad := r.cfg.Radius
	err = r.surface.Draw(func(dst *image.RGBA) {
		if r.lens.HasPrevious {
			reach := rad + r.cfg.RestoreMargin
			prev := r.lens.PreviousPosition
			dirty := image.Rect(prev.X-reach, prev.Y-reach, prev.X+reach, prev.Y+reach)
			draw.Draw(dst, dirty, r.frame, dirty.Min, draw.Src)
		}

		lensRect := image.Rect(pos.X-rad, pos.Y-rad, pos.X+rad, pos.Y+rad)
		draw.DrawMask(dst, lensRect, r.scratch, image.Point{}, r.clip, image.Point{}, draw.Over)

		if r.cfg.BorderWidth > 0 {
			reach := rad + r.ringPad
			ringRect := image.Rect(pos.X-reach, pos.Y-reach, pos.X+reach, pos.Y+reach)
			draw.DrawMask(dst, ringRect, image.NewUniform(stroke), image.Point{}, r.ring, image.Point{}, draw.Over)
		}
	})
	if err != nil {
		return sampled, false, err
	}

	r.lens.PreviousPosition = pos
	r.lens.HasPrevious = true
	r.state = StateTracking
	return sampled, true, nil
}

// buildPatch fills the scratch image with the magnified pixelated area
// around pos, followed by the overlay glyph.
func (r *Renderer) buildPatch(pos image.Point) {
	cx, cy := r.fit.ToImageF(pos)
	side := r.crop.Rect.Dx()
	x0 := int(math.Floor(cx - float64(side)/2))
	y0 := int(math.Floor(cy - float64(side)/2))

	// Pixels outside the image stay transparent.
	draw.Draw(r.crop, r.crop.Rect, image.Transparent, image.Point{}, draw.Src)
	draw.Draw(r.crop, r.crop.Rect, r.pixelated.NRGBA(), image.Pt(x0, y0), draw.Src)
	draw.NearestNeighbor.Scale(r.scratch, r.scratch.Rect, r.crop, r.crop.Rect, draw.Src, nil)

	if r.overlay != nil {
		ob := r.overlay.Bounds()
		at := r.scratch.Rect.Size().Sub(ob.Size()).Div(2)
		draw.Draw(r.scratch, ob.Add(at), r.overlay.NRGBA(), image.Point{}, draw.Over)
	}
}

// ToggleLens enables or disables the lens. Disabling repaints the plain
// background over any lens still on the surface.
func (r *Renderer) ToggleLens(enabled bool) error {
	if !enabled && r.state != StateUninitialized {
		if err := r.RenderBackground(); err != nil {
			return err
		}
		r.state = StateDisabled
	}
	r.lens.Enabled = enabled
	return nil
}

// State returns the lifecycle state.
func (r *Renderer) State() State {
	return r.state
}

// Lens returns a copy of the lens state.
func (r *Renderer) Lens() LensState {
	return r.lens
}

// Fit returns the current background-to-surface transform.
func (r *Renderer) Fit() imaging.AspectFit {
	return r.fit
}

// Surface returns the surface the renderer draws through.
func (r *Renderer) Surface() *Surface {
	return r.surface
}
