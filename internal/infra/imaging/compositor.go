// File: internal/infra/imaging/compositor.go
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/model"
	"tryon-studio/internal/domain/ports/adapter"
)

// comboGap separates the two products on the merged canvas so the
// generation model can tell them apart.
const comboGap = 50

var _ adapter.ImageCompositor = (*Compositor)(nil)

// Compositor merges two product images side by side on a white canvas,
// producing the reference image for a custom necklace and earring set.
type Compositor struct {
	normalizer *Normalizer
}

func NewCompositor(normalizer *Normalizer) *Compositor {
	return &Compositor{normalizer: normalizer}
}

func (c *Compositor) Composite(ctx context.Context, a, b model.ImageRef) (*model.NormalizedImage, error) {
	left, err := c.decode(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("%w: left image: %v", domain.ErrComposite, err)
	}
	right, err := c.decode(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("%w: right image: %v", domain.ErrComposite, err)
	}

	canvas := mergeCanvas(left, right)
	out, err := encodeWebP(canvas)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrComposite, err)
	}
	b := canvas.Bounds()
	return &model.NormalizedImage{
		Bytes:  out,
		MIME:   "image/webp",
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// mergeCanvas lays the two products side by side on a white background,
// separated by comboGap and top-aligned.
func mergeCanvas(left, right image.Image) *image.RGBA {
	lb, rb := left.Bounds(), right.Bounds()
	width := lb.Dx() + comboGap + rb.Dx()
	height := lb.Dy()
	if rb.Dy() > height {
		height = rb.Dy()
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, 0, lb.Dx(), lb.Dy()), left, lb.Min, draw.Over)
	draw.Draw(canvas, image.Rect(lb.Dx()+comboGap, 0, width, rb.Dy()), right, rb.Min, draw.Over)
	return canvas
}

func (c *Compositor) decode(ctx context.Context, ref model.ImageRef) (image.Image, error) {
	raw, err := c.normalizer.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	return img, err
}
