package lens

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Label box geometry relative to the text origin, in scratch pixels.
const (
	labelOffsetX = -30 // text x relative to the lens center
	labelOffsetY = 20  // baseline y relative to the lens center
	labelPadX    = 5
	labelPadY    = 15
	labelWidth   = 75
	labelHeight  = 20
	labelRadius  = 5
)

var labelFill = color.RGBA{128, 128, 128, 255}

var (
	regularOnce sync.Once
	regularFont *opentype.Font
	regularErr  error
)

// newLabelFace parses the embedded Go Regular font once and returns a face of
// the given size.
func newLabelFace(size float64) (font.Face, error) {
	regularOnce.Do(func() {
		regularFont, regularErr = opentype.Parse(goregular.TTF)
	})
	if regularErr != nil {
		return nil, fmt.Errorf("failed to parse label font: %w", regularErr)
	}
	face, err := opentype.NewFace(regularFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create label face: %w", err)
	}
	return face, nil
}

// label draws the hex readout onto the lens scratch image.
type label struct {
	face  font.Face
	box   *image.Alpha
	textX int
	textY int
}

func newLabel(radius int, fontSize float64) (*label, error) {
	face, err := newLabelFace(fontSize)
	if err != nil {
		return nil, err
	}
	return &label{
		face:  face,
		box:   roundedRectMask(labelWidth, labelHeight, labelRadius),
		textX: radius + labelOffsetX,
		textY: radius + labelOffsetY,
	}, nil
}

// draw fills the grey box and writes text in c.
func (l *label) draw(dst draw.Image, text string, c color.Color) {
	r := image.Rect(0, 0, labelWidth, labelHeight).Add(image.Pt(l.textX-labelPadX, l.textY-labelPadY))
	draw.DrawMask(dst, r, image.NewUniform(labelFill), image.Point{}, l.box, image.Point{}, draw.Over)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: l.face,
		Dot:  fixed.P(l.textX, l.textY),
	}
	d.DrawString(text)
}
