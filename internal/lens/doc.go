// Package lens draws a circular magnifier over a background image.
//
// A Renderer owns a Surface, keeps the background frame and the pixelated
// derivative, and on every pointer move:
//
//  1. samples the pixelated color under the pointer
//  2. restores the square around the previous lens from the background frame
//  3. magnifies the pixelated area around the pointer into a scratch image
//     and labels it with the hex color
//  4. clips the scratch image to the lens circle on the surface and strokes
//     a border in the sampled color
//
// Only the squares around the old and new lens positions change, so the
// rest of the surface stays identical to the first background render.
//
// Surfaces have a single owner. Transfer hands the raster to a new handle
// and the old one can no longer draw; Draw through a detached handle returns
// ErrSurfaceUnavailable.
package lens
