package timelapse

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const labelMargin = 16

var (
	labelFill   = image.NewUniform(color.RGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff})
	labelStroke = image.NewUniform(color.RGBA{R: 0x14, G: 0x14, B: 0x14, A: 0xff})
)

// DrawLabel renders text into the top-left corner of dst: a dark stroke
// offset in the four diagonal directions beneath a light fill, so the
// label stays legible against any background.
func DrawLabel(dst draw.Image, text string) {
	mask := textMask(text)
	scale := labelScale(dst.Bounds().Dy())
	scaled := image.NewAlpha(image.Rect(0, 0, mask.Bounds().Dx()*scale, mask.Bounds().Dy()*scale))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), mask, mask.Bounds(), xdraw.Src, nil)

	origin := dst.Bounds().Min.Add(image.Pt(labelMargin, labelMargin))
	for _, offset := range []image.Point{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
		at := origin.Add(offset.Mul(scale))
		draw.DrawMask(dst, scaled.Bounds().Add(at), labelStroke, image.Point{}, scaled, image.Point{}, draw.Over)
	}
	draw.DrawMask(dst, scaled.Bounds().Add(origin), labelFill, image.Point{}, scaled, image.Point{}, draw.Over)
}

// textMask rasterizes text at the bitmap font's native size.
func textMask(text string) *image.Alpha {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	mask := image.NewAlpha(image.Rect(0, 0, width, face.Ascent+face.Descent))
	drawer := &font.Drawer{
		Dst:  mask,
		Src:  image.NewUniform(color.Opaque),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	drawer.DrawString(text)
	return mask
}

// labelScale picks an integer upscale factor for the bitmap font so the
// label stays readable at typical render resolutions.
func labelScale(frameHeight int) int {
	scale := frameHeight / 360
	if scale < 2 {
		scale = 2
	}
	return scale
}

// FitToHeight downscales img to maxHeight when it is taller, preserving
// aspect ratio. Shorter frames pass through untouched. The computed width
// is rounded down to even; the 4:2:0 pixel formats the encoder uses reject
// odd frame dimensions.
func FitToHeight(img image.Image, maxHeight int) image.Image {
	bounds := img.Bounds()
	if maxHeight <= 0 || bounds.Dy() <= maxHeight {
		return img
	}
	width := bounds.Dx() * maxHeight / bounds.Dy()
	width &^= 1
	return resizeTo(img, width, maxHeight)
}

func resizeTo(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}
