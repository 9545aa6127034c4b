package world

import "math"

// HeightMap is a (Width+1)x(Depth+1) elevation grid, row-major by z.
// The extra row and column overlap the neighbouring chunks.
type HeightMap struct {
	Width, Depth int
	Data         []float32
}

// NewHeightMap allocates a zeroed grid for a width x depth chunk.
func NewHeightMap(width, depth int) *HeightMap {
	return &HeightMap{
		Width: width,
		Depth: depth,
		Data:  make([]float32, (width+1)*(depth+1)),
	}
}

// Index returns the flat offset of grid point (x, z).
func (h *HeightMap) Index(x, z int) int {
	return z*(h.Width+1) + x
}

func (h *HeightMap) At(x, z int) float32 {
	return h.Data[h.Index(x, z)]
}

func (h *HeightMap) Set(x, z int, v float32) {
	h.Data[h.Index(x, z)] = v
}

// Clone returns a deep copy.
func (h *HeightMap) Clone() *HeightMap {
	data := make([]float32, len(h.Data))
	copy(data, h.Data)
	return &HeightMap{Width: h.Width, Depth: h.Depth, Data: data}
}

// Interpolated bilinearly samples the grid at a fractional position.
// Positions whose cell lies outside the chunk read as 0.
func (h *HeightMap) Interpolated(x, z float64) float64 {
	if x < 0 || z < 0 {
		return 0
	}
	fx := math.Floor(x)
	fz := math.Floor(z)
	if fx >= float64(h.Width) || fz >= float64(h.Depth) {
		return 0
	}
	ix, iz := int(fx), int(fz)
	ox := x - fx
	oz := z - fz

	topLeft := float64(h.At(ix, iz))
	topRight := float64(h.At(ix+1, iz))
	bottomLeft := float64(h.At(ix, iz+1))
	bottomRight := float64(h.At(ix+1, iz+1))

	left := topLeft + (bottomLeft-topLeft)*oz
	right := topRight + (bottomRight-topRight)*oz
	return left + (right-left)*ox
}

// splat adds amount at a fractional position, spread over the four
// surrounding grid points by bilinear weight. Out of range is a no-op.
func (h *HeightMap) splat(x, z, amount float64) {
	if x < 0 || z < 0 {
		return
	}
	fx := math.Floor(x)
	fz := math.Floor(z)
	if fx >= float64(h.Width) || fz >= float64(h.Depth) {
		return
	}
	ix, iz := int(fx), int(fz)
	ox := x - fx
	oz := z - fz

	h.Data[h.Index(ix, iz)] += float32((1 - ox) * (1 - oz) * amount)
	h.Data[h.Index(ix+1, iz)] += float32(ox * (1 - oz) * amount)
	h.Data[h.Index(ix, iz+1)] += float32((1 - ox) * oz * amount)
	h.Data[h.Index(ix+1, iz+1)] += float32(ox * oz * amount)
}
