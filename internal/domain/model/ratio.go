package model

// AspectRatio is one of the fixed output sizes the generation model accepts.
type AspectRatio string

const (
	RatioLandscape AspectRatio = "1344:768"
	RatioPortrait  AspectRatio = "768:1344"
	RatioSquare    AspectRatio = "1024:1024"
)

// SelectRatio maps portrait dimensions to the closest supported output ratio.
// Exactly 1.25 is not "strictly greater" and resolves to Square.
func SelectRatio(width, height int) AspectRatio {
	aspect := float64(width) / float64(height)
	switch {
	case aspect > 1.25:
		return RatioLandscape
	case aspect < 0.8:
		return RatioPortrait
	default:
		return RatioSquare
	}
}
