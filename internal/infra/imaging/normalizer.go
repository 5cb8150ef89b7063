// File: internal/infra/imaging/normalizer.go
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/rs/zerolog"
	xdraw "golang.org/x/image/draw"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/model"
	"tryon-studio/internal/domain/ports/adapter"
)

const (
	// maxDimension bounds the longest side of a normalized image. The
	// generation API charges by pixels and rejects oversized references.
	maxDimension = 1536

	// lossyQuality matches the WebP quality used for reference uploads.
	lossyQuality = 95
)

var _ adapter.ImageNormalizer = (*Normalizer)(nil)

// Normalizer loads an image from raw bytes, a remote URL or a local asset
// path, scales it down to maxDimension and re-encodes it as lossy WebP.
type Normalizer struct {
	assetsDir string
	httpc     *http.Client
	log       *zerolog.Logger
}

func NewNormalizer(assetsDir string, logger *zerolog.Logger) *Normalizer {
	return &Normalizer{
		assetsDir: assetsDir,
		httpc:     &http.Client{Timeout: 30 * time.Second},
		log:       logger,
	}
}

func (n *Normalizer) Normalize(ctx context.Context, ref model.ImageRef) (*model.NormalizedImage, error) {
	raw, err := n.load(ctx, ref)
	if err != nil {
		return nil, err
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageLoad, err)
	}

	scaled := downscale(src, maxDimension)
	out, err := encodeWebP(scaled)
	if err != nil {
		return nil, err
	}

	b := scaled.Bounds()
	return &model.NormalizedImage{
		Bytes:  out,
		MIME:   "image/webp",
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

func (n *Normalizer) load(ctx context.Context, ref model.ImageRef) ([]byte, error) {
	switch {
	case len(ref.Data) > 0:
		return ref.Data, nil
	case strings.HasPrefix(ref.URL, "http://"), strings.HasPrefix(ref.URL, "https://"):
		return n.fetch(ctx, ref.URL)
	case ref.URL != "":
		return os.ReadFile(filepath.Join(n.assetsDir, filepath.Clean("/"+ref.URL)))
	default:
		return nil, domain.ErrInvalidArgument
	}
}

// fetch downloads a remote image with a cache-busting query parameter, since
// some CDNs serve stale bytes for recently replaced product shots.
func (n *Normalizer) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageLoad, err)
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(time.Now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := n.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageLoad, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: status %d", domain.ErrImageLoad, rawURL, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 32<<20))
}

// downscale shrinks src so its longest side fits within limit, preserving
// aspect ratio. Images already within the limit pass through untouched.
func downscale(src image.Image, limit int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return src
	}

	scale := float64(limit) / float64(w)
	if h > w {
		scale = float64(limit) / float64(h)
	}
	dw := int(float64(w)*scale + 0.5)
	dh := int(float64(h)*scale + 0.5)

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image) ([]byte, error) {
	opts, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, lossyQuality)
	if err != nil {
		return nil, fmt.Errorf("webp options: %w", err)
	}
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, opts); err != nil {
		return nil, fmt.Errorf("webp encode: %w", err)
	}
	return buf.Bytes(), nil
}
