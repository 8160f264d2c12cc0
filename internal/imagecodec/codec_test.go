// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package imagecodec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/heic-converter/pkg/types"
)

func TestFlatten(t *testing.T) {
	translucent := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			translucent.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 10})
		}
	}

	gray := image.NewGray(image.Rect(10, 10, 15, 12))
	for i := range gray.Pix {
		gray.Pix[i] = 77
	}

	tests := []struct {
		name string
		img  image.Image
		want color.NRGBA
		w, h int
	}{
		{
			name: "alpha discarded without blending",
			img:  translucent,
			want: color.NRGBA{R: 200, G: 100, B: 50, A: 0xff},
			w:    4,
			h:    3,
		},
		{
			name: "grayscale expanded to three channels",
			img:  gray,
			want: color.NRGBA{R: 77, G: 77, B: 77, A: 0xff},
			w:    5,
			h:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flatten(tt.img)
			assert.Equal(t, image.Rect(0, 0, tt.w, tt.h), got.Bounds())
			for y := 0; y < tt.h; y++ {
				for x := 0; x < tt.w; x++ {
					require.Equal(t, tt.want, got.NRGBAAt(x, y), "pixel (%d,%d)", x, y)
				}
			}
		})
	}
}

func TestFlatten_DoesNotModifySource(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 4})

	Flatten(src)

	assert.Equal(t, uint8(4), src.NRGBAAt(0, 0).A)
}

func TestEncode_MaximumQuality(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 32; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 8), G: uint8(y * 16), B: 128, A: 0xff})
		}
	}

	c := NewWithDecoder(WASMDecoder{})
	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf, img))

	decoded, err := jpeg.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	ycc, ok := decoded.(*image.YCbCr)
	require.True(t, ok, "expected color JPEG, got %T", decoded)
	assert.Equal(t, image.YCbCrSubsampleRatio444, ycc.SubsampleRatio)
}

func TestDefaultEncodeOptions(t *testing.T) {
	opts := DefaultEncodeOptions()
	assert.Equal(t, 100, opts.Quality)
	assert.Equal(t, image.YCbCrSubsampleRatio444, opts.Subsampling)
	assert.True(t, opts.OptimizeCoding)
}

func TestWASMDecoder_CorruptData(t *testing.T) {
	_, err := WASMDecoder{}.Decode(strings.NewReader("this is not a heic file"))
	assert.Error(t, err)
}

func TestWASMDecoder_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{name: "color", file: "test8.heic"},
		{name: "grayscale", file: "gray.heic"},
	}

	c := NewWithDecoder(WASMDecoder{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := os.Open(filepath.Join("testdata", tt.file))
			require.NoError(t, err)
			defer f.Close()

			src, err := c.Decode(f)
			require.NoError(t, err)
			require.False(t, src.Bounds().Empty())

			var buf bytes.Buffer
			require.NoError(t, c.Encode(&buf, c.Flatten(src)))

			decoded, err := jpeg.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, src.Bounds().Size(), decoded.Bounds().Size())

			ycc, ok := decoded.(*image.YCbCr)
			require.True(t, ok, "expected three-channel JPEG, got %T", decoded)
			assert.Equal(t, image.YCbCrSubsampleRatio444, ycc.SubsampleRatio)
		})
	}
}

type stubDecoder struct {
	img image.Image
	err error
}

func (s stubDecoder) Name() string { return "stub" }

func (s stubDecoder) Decode(io.Reader) (image.Image, error) { return s.img, s.err }

func TestCodecDecode(t *testing.T) {
	tests := []struct {
		name    string
		dec     stubDecoder
		wantErr string
	}{
		{
			name: "passes image through",
			dec:  stubDecoder{img: image.NewNRGBA(image.Rect(0, 0, 2, 2))},
		},
		{
			name:    "propagates decoder error",
			dec:     stubDecoder{err: errors.New("bad box")},
			wantErr: "bad box",
		},
		{
			name:    "rejects empty image",
			dec:     stubDecoder{img: image.NewNRGBA(image.Rectangle{})},
			wantErr: "empty image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewWithDecoder(tt.dec)
			img, err := c.Decode(strings.NewReader(""))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
		})
	}
}

func TestNew(t *testing.T) {
	c, err := New(types.DecoderWASM)
	require.NoError(t, err)
	assert.Equal(t, "wasm", c.DecoderName())

	c, err = New("")
	require.NoError(t, err)
	assert.Equal(t, "wasm", c.DecoderName())

	_, err = New("imagemagick")
	assert.Error(t, err)
}
