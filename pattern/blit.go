// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pattern

import (
	"image"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/compositor/buffer"
)

// Blit composites the buffer into rectangle r of dst, scaling with
// approximate bilinear filtering when the sizes differ.
func Blit(dst xdraw.Image, r image.Rectangle, src *buffer.Buffer) error {
	img, err := View(src)
	if err != nil {
		return err
	}
	var srcImg image.Image = img
	if src.Storage().Format() == gputypes.TextureFormatBGRA8Unorm {
		srcImg = swapRB(img)
	}

	if r.Size() == img.Bounds().Size() {
		xdraw.Draw(dst, r, srcImg, image.Point{}, xdraw.Src)
		return nil
	}
	xdraw.ApproxBiLinear.Scale(dst, r, srcImg, img.Bounds(), xdraw.Src, nil)
	return nil
}

// swapRB returns a copy of img with the R and B channels exchanged.
func swapRB(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	w := img.Bounds().Dx() * 4
	for y := 0; y < img.Bounds().Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w]
		dst := out.Pix[y*out.Stride : y*out.Stride+w]
		for i := 0; i < w; i += 4 {
			dst[i], dst[i+1], dst[i+2], dst[i+3] = src[i+2], src[i+1], src[i], src[i+3]
		}
	}
	return out
}
