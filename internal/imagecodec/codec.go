// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imagecodec decodes HEIC images and encodes JPEGs at maximum
// quality.
//
// Decoding is pluggable: the default backend runs libheif compiled to
// WebAssembly in-process; the libheif backend shells out to libheif's
// command-line decoder when it is installed. Encoding always uses jpegli
// with quality 100, 4:4:4 chroma and optimized Huffman coding.
package imagecodec

import (
	"fmt"
	"image"
	"io"

	"github.com/gen2brain/jpegli"

	"github.com/pdiddy/heic-converter/pkg/types"
)

// Decoder turns an encoded source image into pixels.
type Decoder interface {
	// Name identifies the backend in messages.
	Name() string

	// Decode reads one image from r.
	Decode(r io.Reader) (image.Image, error)
}

// EncodeOptions are the JPEG encoder settings.
type EncodeOptions struct {
	// Quality on a 0-100 scale.
	Quality int

	// Subsampling is the chroma subsampling ratio.
	Subsampling image.YCbCrSubsampleRatio

	// OptimizeCoding computes optimal Huffman tables. It shrinks the file
	// without changing decoded pixels.
	OptimizeCoding bool
}

// DefaultEncodeOptions returns the fixed conversion policy: quality 100,
// no chroma subsampling, optimized coding.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		Quality:        100,
		Subsampling:    image.YCbCrSubsampleRatio444,
		OptimizeCoding: true,
	}
}

// Codec pairs a Decoder with the JPEG encoder. It is safe for concurrent
// use when its Decoder is.
type Codec struct {
	decoder Decoder
	opts    EncodeOptions
}

// New returns a Codec for the given decoder backend.
func New(backend types.DecoderBackend) (*Codec, error) {
	switch backend {
	case types.DecoderWASM, "":
		return NewWithDecoder(WASMDecoder{}), nil
	case types.DecoderLibheif:
		d, err := DetectLibheif()
		if err != nil {
			return nil, err
		}
		return NewWithDecoder(d), nil
	default:
		return nil, fmt.Errorf("unknown decoder backend %q", backend)
	}
}

// NewWithDecoder returns a Codec using d and DefaultEncodeOptions.
func NewWithDecoder(d Decoder) *Codec {
	return &Codec{decoder: d, opts: DefaultEncodeOptions()}
}

// DecoderName reports which backend decodes images.
func (c *Codec) DecoderName() string {
	return c.decoder.Name()
}

// Decode reads a source image with the configured backend.
func (c *Codec) Decode(r io.Reader) (image.Image, error) {
	img, err := c.decoder.Decode(r)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%s decoder returned an empty image", c.decoder.Name())
	}
	return img, nil
}

// Flatten implements the three-channel normalization; see Flatten.
func (c *Codec) Flatten(img image.Image) image.Image {
	return Flatten(img)
}

// Encode writes img as JPEG with the codec's EncodeOptions.
func (c *Codec) Encode(w io.Writer, img image.Image) error {
	return jpegli.Encode(w, img, &jpegli.EncodingOptions{
		Quality:           c.opts.Quality,
		ChromaSubsampling: c.opts.Subsampling,
		OptimizeCoding:    c.opts.OptimizeCoding,
	})
}
