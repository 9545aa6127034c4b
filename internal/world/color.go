package world

// RGBf is a colour with channels in [0, 1].
type RGBf [3]float32

func (c RGB) float() RGBf {
	return RGBf{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255}
}

// ColorAt returns the colour for a height normalised to [0, 1]. The first
// band reaching the height wins and blends in from the previous band.
// ok is false, and the colour black, when no band covers the height.
func ColorAt(bands []ColorBand, height float32) (RGBf, bool) {
	for i, band := range bands {
		if height > band.MaxHeight {
			continue
		}
		cur := band.Color.float()
		if i == 0 {
			return cur, true
		}
		prevBand := bands[i-1]
		prev := prevBand.Color.float()
		blend := (height - prevBand.MaxHeight) / ((band.MaxHeight - prevBand.MaxHeight) * band.Blend)
		blend = min(max(blend, 0), 1)
		return RGBf{
			prev[0] + (cur[0]-prev[0])*blend,
			prev[1] + (cur[1]-prev[1])*blend,
			prev[2] + (cur[2]-prev[2])*blend,
		}, true
	}
	return RGBf{}, false
}
