package imaging

import (
	"errors"
	"fmt"

	"github.com/anthonynsimon/bild/parallel"
)

// ErrInvalidBlockSize is returned by Pixelate for block sizes below 1.
var ErrInvalidBlockSize = errors.New("invalid block size")

// Pixelate replaces every blockSize x blockSize block of src with the mean
// color of that block.
//
// Parameters:
//   - src: The source buffer. Returns ErrNotInitialized if nil.
//   - blockSize: Edge length of a block in pixels. Must be >= 1; a block size
//     of 1 returns an identical copy.
//
// Returns a new buffer with the same dimensions as src. src is not modified.
//
// # Edge Blocks
//
// Blocks on the right and bottom edges may be partial. A partial block
// averages only the pixels that exist inside the image; it never wraps into
// the next row and never pads with zeros.
//
// # Rounding
//
// Each channel mean is the channel sum divided by the pixel count using
// integer division, i.e. truncated toward zero. All four channels, alpha
// included, are averaged independently.
//
// # Performance
//
// Every source pixel is read once and every output pixel written once, so the
// cost is linear in image area. Block rows are distributed over all CPUs; each
// worker writes a disjoint band of output rows.
func Pixelate(src *PixelBuffer, blockSize int) (*PixelBuffer, error) {
	if src == nil {
		return nil, ErrNotInitialized
	}
	if blockSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}

	out := make([]byte, len(src.Pix))
	if blockSize == 1 {
		copy(out, src.Pix)
		return &PixelBuffer{Width: src.Width, Height: src.Height, Pix: out}, nil
	}

	w, h := src.Width, src.Height
	stride := w * BytesPerPixel
	blockRows := (h + blockSize - 1) / blockSize

	parallel.Line(blockRows, func(start, end int) {
		for by := start; by < end; by++ {
			y0 := by * blockSize
			y1 := min(y0+blockSize, h)

			for x0 := 0; x0 < w; x0 += blockSize {
				x1 := min(x0+blockSize, w)

				var sum [4]int
				for y := y0; y < y1; y++ {
					i := y*stride + x0*BytesPerPixel
					for x := x0; x < x1; x++ {
						sum[0] += int(src.Pix[i])
						sum[1] += int(src.Pix[i+1])
						sum[2] += int(src.Pix[i+2])
						sum[3] += int(src.Pix[i+3])
						i += BytesPerPixel
					}
				}

				n := (x1 - x0) * (y1 - y0)
				r := byte(sum[0] / n)
				g := byte(sum[1] / n)
				b := byte(sum[2] / n)
				a := byte(sum[3] / n)

				for y := y0; y < y1; y++ {
					i := y*stride + x0*BytesPerPixel
					for x := x0; x < x1; x++ {
						out[i] = r
						out[i+1] = g
						out[i+2] = b
						out[i+3] = a
						i += BytesPerPixel
					}
				}
			}
		}
	})

	return &PixelBuffer{Width: w, Height: h, Pix: out}, nil
}
