package lens

import (
	"image"

	"golang.org/x/image/vector"
)

// kappa places cubic Bézier control points so that four curves approximate
// a circle.
const kappa = 0.5522847498

// unitQuarter holds the control points and end point of each quarter arc of
// a unit circle, starting from (1, 0).
var unitQuarter = [4][3][2]float32{
	{{1, kappa}, {kappa, 1}, {0, 1}},
	{{-kappa, 1}, {-1, kappa}, {-1, 0}},
	{{-1, -kappa}, {-kappa, -1}, {0, -1}},
	{{kappa, -1}, {1, -kappa}, {1, 0}},
}

// addCircle appends a closed circle to z. A reversed circle winds the other
// way, which cuts a hole when nested inside a forward one.
func addCircle(z *vector.Rasterizer, cx, cy, r float32, reversed bool) {
	sy := float32(1)
	if reversed {
		sy = -1
	}
	z.MoveTo(cx+r, cy)
	for _, q := range unitQuarter {
		z.CubeTo(
			cx+r*q[0][0], cy+sy*r*q[0][1],
			cx+r*q[1][0], cy+sy*r*q[1][1],
			cx+r*q[2][0], cy+sy*r*q[2][1],
		)
	}
	z.ClosePath()
}

// rasterize fills the paths in z into a new alpha mask of the rasterizer's
// size.
func rasterize(z *vector.Rasterizer) *image.Alpha {
	mask := image.NewAlpha(image.Rectangle{Max: z.Size()})
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// circleMask returns a 2r x 2r mask of a disc of radius r centered in it.
func circleMask(r int) *image.Alpha {
	side := 2 * r
	z := vector.NewRasterizer(side, side)
	c := float32(r)
	addCircle(z, c, c, c, false)
	return rasterize(z)
}

// ringMask returns the mask of a stroke of the given width centered on a
// circle of radius r. The mask is square; pad is the distance from the
// circle's bounding box to the mask edge on each side.
func ringMask(r, width int) (mask *image.Alpha, pad int) {
	pad = (width + 1) / 2
	side := 2 * (r + pad)
	z := vector.NewRasterizer(side, side)
	c := float32(r + pad)
	half := float32(width) / 2
	addCircle(z, c, c, float32(r)+half, false)
	if inner := float32(r) - half; inner > 0 {
		addCircle(z, c, c, inner, true)
	}
	return rasterize(z), pad
}

// roundedRectMask returns a w x h mask of a rectangle with corners of radius r.
func roundedRectMask(w, h, r int) *image.Alpha {
	z := vector.NewRasterizer(w, h)
	fw, fh := float32(w), float32(h)
	fr := float32(min(r, w/2, h/2))
	k := fr * (1 - kappa)

	z.MoveTo(fr, 0)
	z.LineTo(fw-fr, 0)
	z.CubeTo(fw-k, 0, fw, k, fw, fr)
	z.LineTo(fw, fh-fr)
	z.CubeTo(fw, fh-k, fw-k, fh, fw-fr, fh)
	z.LineTo(fr, fh)
	z.CubeTo(k, fh, 0, fh-k, 0, fh-fr)
	z.LineTo(0, fr)
	z.CubeTo(0, k, k, 0, fr, 0)
	z.ClosePath()
	return rasterize(z)
}
