// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package imagecodec

import (
	"image"
	"io"

	"github.com/gen2brain/heic"
)

// WASMDecoder decodes HEIC in-process using libheif compiled to WebAssembly.
// It needs no system libraries.
type WASMDecoder struct{}

// Name returns "wasm".
func (WASMDecoder) Name() string { return "wasm" }

// Decode decodes the primary image of a HEIC container.
func (WASMDecoder) Decode(r io.Reader) (image.Image, error) {
	return heic.Decode(r)
}
