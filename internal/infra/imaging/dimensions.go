// File: internal/infra/imaging/dimensions.go
package imaging

import (
	"bytes"
	"fmt"
	"image"

	"tryon-studio/internal/domain"
)

// Dimensions reads the pixel size from an encoded image without decoding
// the full frame. Upload handlers use it to record portrait geometry.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", domain.ErrImageLoad, err)
	}
	return cfg.Width, cfg.Height, nil
}
