package asset

// FitFraction is the share of the viewport a newly added image may cover.
const FitFraction = 0.8

// FitScale returns the uniform scale that makes a w×h image fit inside
// FitFraction of a vw×vh viewport. Images that already fit keep scale 1.
func FitScale(w, h, vw, vh float64) float64 {
	maxW, maxH := vw*FitFraction, vh*FitFraction
	if w <= 0 || h <= 0 || (w <= maxW && h <= maxH) {
		return 1
	}
	return min(maxW/w, maxH/h)
}
