package world

import "testing"

// TestColorBandsCoverUnitRange verifies the default bands colour every height in [0, 1]
func TestColorBandsCoverUnitRange(t *testing.T) {
	bands := DefaultGenerationParameters().ColorBands
	for i := 0; i <= 1000; i++ {
		h := float32(i) / 1000
		col, ok := ColorAt(bands, h)
		if !ok {
			t.Fatalf("height %v has no band", h)
		}
		for ch, v := range col {
			if v < 0 || v > 1 {
				t.Fatalf("height %v channel %d = %v, outside [0, 1]", h, ch, v)
			}
		}
	}
}

// TestColorAtBlend verifies colours fade in from the previous band and then hold
func TestColorAtBlend(t *testing.T) {
	bands := []ColorBand{
		{MaxHeight: 0.5, Color: RGB{0, 0, 0}, Blend: 1},
		{MaxHeight: 1, Color: RGB{255, 255, 255}, Blend: 0.5},
	}
	cases := []struct {
		height float32
		want   float32
	}{
		{0.2, 0},
		{0.5, 0},
		{0.625, 0.5},
		{0.75, 1},
		{0.9, 1},
		{1, 1},
	}
	for _, c := range cases {
		col, ok := ColorAt(bands, c.height)
		if !ok {
			t.Fatalf("height %v has no band", c.height)
		}
		if d := col[0] - c.want; d > 1e-6 || d < -1e-6 {
			t.Errorf("ColorAt(%v) = %v, want %v", c.height, col[0], c.want)
		}
	}
}

// TestColorAtAboveTopBand verifies uncovered heights are black and reported
func TestColorAtAboveTopBand(t *testing.T) {
	bands := []ColorBand{{MaxHeight: 1, Color: RGB{10, 20, 30}, Blend: 1}}
	col, ok := ColorAt(bands, 1.01)
	if ok {
		t.Error("height above the top band reported as coloured")
	}
	if col != (RGBf{}) {
		t.Errorf("uncovered colour = %v, want black", col)
	}
}
