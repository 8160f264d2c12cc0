// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package imagecodec

import (
	"image"

	"github.com/disintegration/imaging"
)

// Flatten converts img to opaque RGB. Color values are taken un-premultiplied
// and the alpha channel is discarded rather than blended against a
// background. Grayscale input is expanded to three equal channels. The
// result's bounds start at (0,0) and keep img's size.
func Flatten(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
