// Package imaging provides the pixel-level building blocks of the lens:
// raw RGBA buffers, block-average pixelation, color sampling and hex
// conversion, aspect-fit geometry, file loading, and frame encoding.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive (top-left) and Max is exclusive
//     (bottom-right), following image.Rectangle
//
// Surface coordinates (where a pointer is) and image coordinates (where a
// pixel is) differ whenever the image is aspect-fitted onto a surface of
// another size; AspectFit converts between them.
//
// # Pixel Format
//
// PixelBuffer stores RGBA8888, row-major, 4 bytes per pixel, channels not
// premultiplied by alpha. Its byte length is exactly width*height*4; any
// other length is rejected with ErrInvalidBuffer.
//
// # Thread Safety
//
// PixelBuffer values are immutable after construction and may be read from
// any goroutine. ImageCache is safe for concurrent use. Pixelate splits its
// work across goroutines internally but is otherwise a pure function.
//
// # Color Representation
//
// Hex strings are always "#rrggbb" with lowercase digits and no alpha. Sampling
// outside an image returns the sentinel (0,0,0,0), reported as "#000000".
//
// # Error Handling
//
// Sentinel errors are wrapped with context and compared with errors.Is:
//   - ErrNotInitialized: an operation ran before its input existed
//   - ErrInvalidBuffer: declared dimensions do not match the byte length
//   - ErrInvalidBlockSize: pixelation block size below 1
//   - ErrInvalidHex: hex string not of the form "#rrggbb"
package imaging
