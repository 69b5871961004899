// Package server exposes a lens session over line-delimited JSON.
//
// # Protocol
//
// The server communicates over stdio:
//   - Input: one JSON message per line on stdin
//   - Output: one JSON reply per line on stdout
//
// Inbound message types:
//   - init: start a session from a base64 RGBA background (with
//     backgroundSize) or from backgroundPath; optional overlay glyph and
//     surfaceSize
//   - pointerMove: move the pointer to position {x, y} in surface pixels
//   - toggleLens: enable or disable the lens
//   - snapshot: return the current surface as a base64 PNG, optionally
//     cropped to region and scaled
//
// Outbound reply types:
//   - backgroundReady: the first frame is drawn
//   - colorChanged: hexColor under the lens, plus rgb, rgba and hsl
//   - initFailed: the init was rejected; send another
//   - snapshot: width, height, imageBase64 and mimeType, or error
//
// Unknown message types are logged and ignored, as are lines that are not
// valid JSON.
//
// # Example Session
//
//	→ {"type":"init","backgroundPath":"/tmp/photo.png","surfaceSize":{"width":800,"height":600}}
//	← {"type":"backgroundReady","size":{"width":800,"height":600}}
//	→ {"type":"toggleLens","enabled":true}
//	→ {"type":"pointerMove","position":{"x":120,"y":80}}
//	← {"type":"colorChanged","hexColor":"#3a6e2f",...}
//
// # Image Caching
//
// Backgrounds loaded by path are cached for the lifetime of the server, so
// re-initializing with the same file skips the decode.
package server
