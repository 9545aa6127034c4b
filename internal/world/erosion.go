package world

import (
	"encoding/binary"
	"math"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// Raindrop hydraulic erosion. Each drop walks downhill, picking up material
// on slopes and dropping it where the surface flattens.

// ErosionSeed derives the per-chunk simulation seed from the world seed.
func ErosionSeed(worldSeed uint32, c ChunkCoord) uint64 {
	var buf [20]byte
	binary.LittleEndian.PutUint32(buf[0:], worldSeed)
	binary.LittleEndian.PutUint64(buf[4:], uint64(int64(c.X)))
	binary.LittleEndian.PutUint64(buf[12:], uint64(int64(c.Z)))
	return xxhash.Sum64(buf[:])
}

// NewErosionRand returns the random source used to erode chunk c.
func NewErosionRand(worldSeed uint32, c ChunkCoord) *rand.Rand {
	s := ErosionSeed(worldSeed, c)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// DropCount is the number of raindrops simulated for a chunk.
func DropCount(p ErosionParameters, width, depth int) int {
	return int(math.Ceil(p.DropsPerCell * float64(width) * float64(depth)))
}

// Erode runs the raindrop simulation over hm in place.
func Erode(hm *HeightMap, p ErosionParameters, rng *rand.Rand) {
	drops := DropCount(p, hm.Width, hm.Depth)
	for range drops {
		x := rng.Float64() * float64(hm.Width+1)
		z := rng.Float64() * float64(hm.Depth+1)
		traceDrop(hm, p, rng, x, z)
	}
}

// traceDrop runs one drop from (x, z) and returns the sediment it still
// carries when it stops.
func traceDrop(hm *HeightMap, p ErosionParameters, rng *rand.Rand, x, z float64) float64 {
	offset := mgl64.Vec2{
		(rng.Float64()*2 - 1) * p.Radius,
		(rng.Float64()*2 - 1) * p.Radius,
	}
	pos := mgl64.Vec2{x, z}
	prev := pos
	var velocity mgl64.Vec2
	sediment := 0.0

	for i := range p.MaxIterations {
		n := surfaceNormal(hm, pos.Add(offset))
		if n.Y() == 1 {
			return sediment
		}

		deposit := sediment * p.DepositionRate * n.Y()
		erosion := p.ErosionRate * (1 - n.Y()) * math.Min(1, float64(i)*p.IterationScale)

		// Material moves at the previous position; the drop has already left it.
		hm.splat(prev.X(), prev.Y(), deposit-erosion)
		sediment += erosion - deposit

		velocity = velocity.Mul(p.Friction).Add(mgl64.Vec2{n.X(), n.Z()}.Mul(p.Speed))
		prev = pos
		pos = pos.Add(velocity)
	}
	return sediment
}

// surfaceNormal estimates the normal at a fractional grid position from
// the four axis neighbours one cell away.
func surfaceNormal(hm *HeightMap, at mgl64.Vec2) mgl64.Vec3 {
	x, z := at.X(), at.Y()
	left := hm.Interpolated(x-1, z)
	top := hm.Interpolated(x, z-1)
	right := hm.Interpolated(x+1, z)
	bottom := hm.Interpolated(x, z+1)
	return mgl64.Vec3{left - right, 2, top - bottom}.Normalize()
}

// Blur applies a 3x3 weighted kernel to interior points. The border rows
// and columns are shared with neighbouring chunks and stay as they are.
func Blur(hm *HeightMap) {
	w, d := hm.Width, hm.Depth
	if w < 2 || d < 2 {
		return
	}
	blurred := make([]float32, (w-1)*(d-1))
	for z := 1; z < d; z++ {
		for x := 1; x < w; x++ {
			edges := hm.At(x-1, z) + hm.At(x, z-1) + hm.At(x+1, z) + hm.At(x, z+1)
			corners := hm.At(x-1, z-1) + hm.At(x+1, z-1) + hm.At(x-1, z+1) + hm.At(x+1, z+1)
			blurred[(z-1)*(w-1)+(x-1)] = edges*0.125 + corners*0.0625 + hm.At(x, z)*0.25
		}
	}
	for z := 1; z < d; z++ {
		for x := 1; x < w; x++ {
			hm.Set(x, z, blurred[(z-1)*(w-1)+(x-1)])
		}
	}
}
