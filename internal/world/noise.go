package world

import (
	"math"
)

// Seeded 2D simplex noise. Every NoiseField owns its tables, so fields
// with different seeds can be sampled concurrently.

type grad2 struct {
	x, y float64
}

func (g grad2) dot(x, y float64) float64 {
	return g.x*x + g.y*y
}

var gradients = [12]grad2{
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	{1, 0}, {-1, 0}, {1, 0}, {-1, 0},
	{0, 1}, {0, -1}, {0, 1}, {0, -1},
}

// referencePermutation is Ken Perlin's original table.
var referencePermutation = [256]uint8{
	151, 160, 137, 91, 90, 15, 131, 13, 201, 95, 96, 53, 194, 233, 7, 225,
	140, 36, 103, 30, 69, 142, 8, 99, 37, 240, 21, 10, 23, 190, 6, 148,
	247, 120, 234, 75, 0, 26, 197, 62, 94, 252, 219, 203, 117, 35, 11, 32,
	57, 177, 33, 88, 237, 149, 56, 87, 174, 20, 125, 136, 171, 168, 68, 175,
	74, 165, 71, 134, 139, 48, 27, 166, 77, 146, 158, 231, 83, 111, 229, 122,
	60, 211, 133, 230, 220, 105, 92, 41, 55, 46, 245, 40, 244, 102, 143, 54,
	65, 25, 63, 161, 1, 216, 80, 73, 209, 76, 132, 187, 208, 89, 18, 169,
	200, 196, 135, 130, 116, 188, 159, 86, 164, 100, 109, 198, 173, 186, 3, 64,
	52, 217, 226, 250, 124, 123, 5, 202, 38, 147, 118, 126, 255, 82, 85, 212,
	207, 206, 59, 227, 47, 16, 58, 17, 182, 189, 28, 42, 223, 183, 170, 213,
	119, 248, 152, 2, 44, 154, 163, 70, 221, 153, 101, 155, 167, 43, 172, 9,
	129, 22, 39, 253, 19, 98, 108, 110, 79, 113, 224, 232, 178, 185, 112, 104,
	218, 246, 97, 228, 251, 34, 242, 193, 238, 210, 144, 12, 191, 179, 162, 241,
	81, 51, 145, 235, 249, 14, 239, 107, 49, 192, 214, 31, 181, 199, 106, 157,
	184, 84, 204, 176, 115, 121, 50, 45, 127, 4, 150, 254, 138, 236, 205, 93,
	222, 114, 67, 29, 24, 72, 243, 141, 128, 195, 78, 66, 215, 61, 156, 180,
}

var (
	skewF2   = 0.5 * (math.Sqrt(3) - 1)
	unskewG2 = (3 - math.Sqrt(3)) / 6
)

// NoiseField samples seeded gradient noise.
type NoiseField struct {
	seed  uint32
	perm  [512]int
	gradP [512]grad2
}

// NewNoiseField derives the permutation tables for seed. Seeds below 256
// are widened so both table bytes vary.
func NewNoiseField(seed uint32) *NoiseField {
	f := &NoiseField{seed: seed}
	if seed < 256 {
		seed |= seed << 8
	}
	hi := int((seed >> 8) & 0xff)
	lo := int(seed & 0xff)
	for i := 0; i < 256; i++ {
		v := int(referencePermutation[i])
		if i&1 == 1 {
			v ^= lo
		} else {
			v ^= hi
		}
		f.perm[i], f.perm[i+256] = v, v
		g := gradients[v%12]
		f.gradP[i], f.gradP[i+256] = g, g
	}
	return f
}

// Seed returns the seed the field was built from.
func (f *NoiseField) Seed() uint32 { return f.seed }

// Sample returns simplex noise at (x, z) in [-1, 1].
func (f *NoiseField) Sample(xin, zin float64) float64 {
	s := (xin + zin) * skewF2
	i := int(math.Floor(xin + s))
	j := int(math.Floor(zin + s))
	t := float64(i+j) * unskewG2
	x0 := xin - float64(i) + t
	y0 := zin - float64(j) + t

	i1, j1 := 0, 1
	if x0 > y0 {
		i1, j1 = 1, 0
	}

	x1 := x0 - float64(i1) + unskewG2
	y1 := y0 - float64(j1) + unskewG2
	x2 := x0 - 1 + 2*unskewG2
	y2 := y0 - 1 + 2*unskewG2

	i &= 255
	j &= 255
	g0 := f.gradP[i+f.perm[j]]
	g1 := f.gradP[i+i1+f.perm[j+j1]]
	g2 := f.gradP[i+1+f.perm[j+1]]

	return 70 * (corner(g0, x0, y0) + corner(g1, x1, y1) + corner(g2, x2, y2))
}

func corner(g grad2, x, y float64) float64 {
	t := 0.5 - x*x - y*y
	if t < 0 {
		return 0
	}
	t *= t
	return t * t * g.dot(x, y)
}

// Fractal accumulates p.Octaves layers of noise at world position (x, z)
// and returns an elevation in [0, p.MaxHeight].
func (f *NoiseField) Fractal(x, z float64, p *GenerationParameters) float64 {
	nx := x / p.Fineness
	nz := z / p.Fineness
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for range p.Octaves {
		v := (1 + f.Sample(nx*frequency, nz*frequency)) / 2
		if p.NoiseSlope > 0 && p.NoiseSlope != 1 {
			v = math.Pow(math.Max(v, 0), p.NoiseSlope)
		}
		sum += v * amplitude
		norm += amplitude
		amplitude *= p.Persistence
		frequency *= p.Lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm * p.MaxHeight
}
