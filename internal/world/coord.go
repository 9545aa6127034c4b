package world

import (
	"math"
	"strconv"
)

// ChunkCoord identifies a chunk on the infinite XZ grid.
type ChunkCoord struct {
	X, Z int
}

func (c ChunkCoord) String() string {
	return strconv.Itoa(c.X) + "," + strconv.Itoa(c.Z)
}

// Less orders coordinates by X, then Z.
func (c ChunkCoord) Less(o ChunkCoord) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Z < o.Z
}

// DistanceSq returns the squared euclidean distance in chunk units.
func (c ChunkCoord) DistanceSq(o ChunkCoord) int {
	dx := c.X - o.X
	dz := c.Z - o.Z
	return dx*dx + dz*dz
}

// ChunkCoordAt returns the chunk containing the world position.
func ChunkCoordAt(worldX, worldZ float64, width, depth int) ChunkCoord {
	return ChunkCoord{
		X: floorDiv(int(math.Floor(worldX)), width),
		Z: floorDiv(int(math.Floor(worldZ)), depth),
	}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
