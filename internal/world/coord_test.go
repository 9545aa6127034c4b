package world

import "testing"

// TestChunkCoordAt verifies world positions map to chunks with floor division
func TestChunkCoordAt(t *testing.T) {
	cases := []struct {
		x, z float64
		want ChunkCoord
	}{
		{0, 0, ChunkCoord{0, 0}},
		{15.9, 15.9, ChunkCoord{0, 0}},
		{16, 0, ChunkCoord{1, 0}},
		{-0.1, 0, ChunkCoord{-1, 0}},
		{-16, -16.5, ChunkCoord{-1, -2}},
		{-17, 33, ChunkCoord{-2, 2}},
	}
	for _, c := range cases {
		if got := ChunkCoordAt(c.x, c.z, 16, 16); got != c.want {
			t.Errorf("ChunkCoordAt(%v, %v) = %v, want %v", c.x, c.z, got, c.want)
		}
	}
}

// TestChunkCoordHelpers verifies ordering, distance and formatting
func TestChunkCoordHelpers(t *testing.T) {
	a, b := ChunkCoord{X: 1, Z: -2}, ChunkCoord{X: -2, Z: 2}
	if got := a.DistanceSq(b); got != 25 {
		t.Errorf("DistanceSq = %d, want 25", got)
	}
	if !b.Less(a) || a.Less(b) {
		t.Error("Less should order by X first")
	}
	if !(ChunkCoord{X: 1, Z: -3}).Less(a) {
		t.Error("Less should order by Z within a column")
	}
	if got := a.String(); got != "1,-2" {
		t.Errorf("String = %q, want \"1,-2\"", got)
	}
}
