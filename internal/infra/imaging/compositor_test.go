// File: internal/infra/imaging/compositor_test.go
package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestMergeCanvas_Geometry(t *testing.T) {
	t.Parallel()

	left := image.NewRGBA(image.Rect(0, 0, 400, 600))
	right := image.NewRGBA(image.Rect(0, 0, 300, 800))

	canvas := mergeCanvas(left, right)
	b := canvas.Bounds()

	if want := 400 + comboGap + 300; b.Dx() != want {
		t.Fatalf("canvas width = %d, want %d", b.Dx(), want)
	}
	if b.Dy() != 800 {
		t.Fatalf("canvas height = %d, want the taller input", b.Dy())
	}
}

func TestMergeCanvas_GapStaysWhite(t *testing.T) {
	t.Parallel()

	// Solid black inputs make the white separator easy to spot.
	left := newFilledRGBA(100, 100, color.RGBA{A: 255})
	right := newFilledRGBA(100, 100, color.RGBA{A: 255})

	canvas := mergeCanvas(left, right)

	r, g, b, _ := canvas.At(100+comboGap/2, 50).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Fatalf("gap pixel = (%d, %d, %d), want white", r, g, b)
	}

	if r, _, _, _ := canvas.At(50, 50).RGBA(); r != 0 {
		t.Fatal("left image not drawn onto the canvas")
	}
	if r, _, _, _ := canvas.At(100+comboGap+50, 50).RGBA(); r != 0 {
		t.Fatal("right image not drawn onto the canvas")
	}
}

func newFilledRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
