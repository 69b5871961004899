package imaging

import (
	"image"
	"math"
)

// AspectFit maps an image onto a surface, scaled uniformly so the whole image
// is visible and centered, with letterbox or pillarbox margins on the unused
// axis.
//
// Surface coordinates relate to image coordinates by:
//
//	surfaceX = OffsetX + imageX*Scale
//	surfaceY = OffsetY + imageY*Scale
//
// An AspectFit is cheap to compute and is recomputed whenever the surface or
// image size changes; it is never persisted.
type AspectFit struct {
	Scale   float64 // Uniform image-to-surface scale factor
	OffsetX float64 // Left margin on the surface
	OffsetY float64 // Top margin on the surface
	Width   float64 // Rendered image width on the surface
	Height  float64 // Rendered image height on the surface
}

// FitAspect computes the transform that fits an imageW x imageH image inside
// a surfaceW x surfaceH surface.
//
// When the aspect ratios match the image fills the surface exactly. A wider
// image is fitted to the surface width and centered vertically; a taller
// image is fitted to the surface height and centered horizontally. Degenerate
// (non-positive) sizes return the identity transform.
func FitAspect(surfaceW, surfaceH, imageW, imageH int) AspectFit {
	if surfaceW <= 0 || surfaceH <= 0 || imageW <= 0 || imageH <= 0 {
		return AspectFit{Scale: 1, Width: float64(imageW), Height: float64(imageH)}
	}

	sw, sh := float64(surfaceW), float64(surfaceH)
	iw, ih := float64(imageW), float64(imageH)

	surfaceAR := sw / sh
	imageAR := iw / ih

	var fit AspectFit
	switch {
	case surfaceAR > imageAR:
		// Surface is wider than the image: pillarbox.
		fit.Scale = sh / ih
		fit.Width = iw * fit.Scale
		fit.Height = sh
		fit.OffsetX = (sw - fit.Width) / 2
	case surfaceAR < imageAR:
		// Surface is taller than the image: letterbox.
		fit.Scale = sw / iw
		fit.Width = sw
		fit.Height = ih * fit.Scale
		fit.OffsetY = (sh - fit.Height) / 2
	default:
		fit.Scale = sw / iw
		fit.Width = sw
		fit.Height = sh
	}
	return fit
}

// Rect returns the destination rectangle of the image on the surface, rounded
// to whole pixels. The rectangle is at least 1x1.
func (f AspectFit) Rect() image.Rectangle {
	x0 := int(math.Round(f.OffsetX))
	y0 := int(math.Round(f.OffsetY))
	w := max(int(math.Round(f.Width)), 1)
	h := max(int(math.Round(f.Height)), 1)
	return image.Rect(x0, y0, x0+w, y0+h)
}

// ToImageF maps a surface point to fractional image coordinates.
func (f AspectFit) ToImageF(p image.Point) (float64, float64) {
	scale := f.Scale
	if scale == 0 {
		scale = 1
	}
	return (float64(p.X) - f.OffsetX) / scale, (float64(p.Y) - f.OffsetY) / scale
}

// ToImage maps a surface point to the image pixel that covers it. Points in
// the margins map outside the image bounds.
func (f AspectFit) ToImage(p image.Point) image.Point {
	x, y := f.ToImageF(p)
	return image.Pt(int(math.Floor(x)), int(math.Floor(y)))
}
