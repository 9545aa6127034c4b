package world

import (
	"fmt"

	"terrain-streamer/internal/profiling"
)

// ChunkData is everything produced for one chunk.
type ChunkData struct {
	Coord     ChunkCoord
	HeightMap *HeightMap
	ChunkMesh
	// Uncolored counts vertices no colour band covered. They are black.
	Uncolored int
}

// HeightAt bilinearly samples the chunk at a local offset. Offsets outside
// the chunk read as 0.
func (c *ChunkData) HeightAt(localX, localZ float64) float64 {
	return c.HeightMap.Interpolated(localX, localZ)
}

// Generator produces chunks for one world seed. It is read-only after
// construction and may be shared while params stays unmodified.
type Generator struct {
	field  *NoiseField
	params *GenerationParameters
}

// NewGenerator validates params and prepares the noise tables for seed.
func NewGenerator(seed uint32, params *GenerationParameters) (*Generator, error) {
	if params == nil {
		return nil, &ConfigError{Field: "generation", Reason: "parameters are required"}
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	return &Generator{field: NewNoiseField(seed), params: params}, nil
}

// Seed returns the world seed.
func (g *Generator) Seed() uint32 { return g.field.Seed() }

// Params returns the shared generation parameters.
func (g *Generator) Params() *GenerationParameters { return g.params }

// HeightMap samples raw fractal noise for chunk c. Neighbouring chunks
// agree exactly on their shared border.
func (g *Generator) HeightMap(c ChunkCoord) *HeightMap {
	defer profiling.Track("world.noise")()
	p := g.params
	hm := NewHeightMap(p.Width, p.Depth)
	baseX := c.X * p.Width
	baseZ := c.Z * p.Depth
	for z := 0; z <= p.Depth; z++ {
		for x := 0; x <= p.Width; x++ {
			h := g.field.Fractal(float64(baseX+x), float64(baseZ+z), p)
			hm.Set(x, z, float32(h))
		}
	}
	return hm
}

// ErodedHeightMap returns the noise height map after erosion and blur.
func (g *Generator) ErodedHeightMap(c ChunkCoord) *HeightMap {
	hm := g.HeightMap(c)
	func() {
		defer profiling.Track("world.erode")()
		Erode(hm, g.params.Erosion, NewErosionRand(g.Seed(), c))
	}()
	func() {
		defer profiling.Track("world.blur")()
		Blur(hm)
	}()
	return hm
}

// Generate builds the full dataset for chunk c. The result depends only on
// c, the parameters and the seed.
func (g *Generator) Generate(c ChunkCoord) *ChunkData {
	hm := g.ErodedHeightMap(c)
	defer profiling.Track("world.mesh")()
	mesh, uncolored := buildMesh(hm, c, g.params)
	return &ChunkData{
		Coord:     c,
		HeightMap: hm,
		ChunkMesh: *mesh,
		Uncolored: uncolored,
	}
}
