package world

import (
	"math"
	"testing"
)

func rampHeightMap(w, d int) *HeightMap {
	hm := NewHeightMap(w, d)
	for z := 0; z <= d; z++ {
		for x := 0; x <= w; x++ {
			hm.Set(x, z, float32(x*10+z))
		}
	}
	return hm
}

// TestInterpolatedAtGridPoints verifies integer positions return stored heights
func TestInterpolatedAtGridPoints(t *testing.T) {
	hm := rampHeightMap(4, 3)
	for z := 0; z < 3; z++ {
		for x := 0; x < 4; x++ {
			if got, want := hm.Interpolated(float64(x), float64(z)), float64(hm.At(x, z)); got != want {
				t.Errorf("Interpolated(%d, %d) = %v, want %v", x, z, got, want)
			}
		}
	}
}

// TestInterpolatedBilinear verifies fractional positions blend linearly on a ramp
func TestInterpolatedBilinear(t *testing.T) {
	hm := rampHeightMap(4, 4)
	if got := hm.Interpolated(1.5, 2.25); math.Abs(got-17.25) > 1e-9 {
		t.Errorf("Interpolated(1.5, 2.25) = %v, want 17.25", got)
	}
}

// TestInterpolatedOutside verifies positions whose cell is outside the chunk read 0
func TestInterpolatedOutside(t *testing.T) {
	hm := rampHeightMap(4, 4)
	cases := [][2]float64{{-0.01, 1}, {1, -0.01}, {4, 1}, {1, 4}, {100, 100}}
	for _, c := range cases {
		if got := hm.Interpolated(c[0], c[1]); got != 0 {
			t.Errorf("Interpolated(%v, %v) = %v, want 0", c[0], c[1], got)
		}
	}
}

// TestSplatConservesAmount verifies the four bilinear weights sum to the amount
func TestSplatConservesAmount(t *testing.T) {
	hm := NewHeightMap(4, 4)
	hm.splat(1.3, 2.6, 2)
	sum := 0.0
	for _, v := range hm.Data {
		sum += float64(v)
	}
	if math.Abs(sum-2) > 1e-5 {
		t.Errorf("splat total = %v, want 2", sum)
	}
	if got := hm.At(1, 3); math.Abs(float64(got)-0.7*0.6*2) > 1e-5 {
		t.Errorf("weight at (1, 3) = %v, want %v", got, 0.7*0.6*2)
	}

	before := hm.Clone()
	hm.splat(-1, 1, 5)
	hm.splat(4.5, 1, 5)
	for i := range hm.Data {
		if hm.Data[i] != before.Data[i] {
			t.Fatalf("out of range splat changed index %d", i)
		}
	}
}

// TestCloneIsDeep verifies a clone does not share storage
func TestCloneIsDeep(t *testing.T) {
	hm := rampHeightMap(2, 2)
	c := hm.Clone()
	c.Set(1, 1, -5)
	if hm.At(1, 1) == -5 {
		t.Error("Clone shares data with the original")
	}
}
