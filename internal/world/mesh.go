package world

import "github.com/go-gl/mathgl/mgl32"

// ChunkMesh holds flat GPU-ready buffers, three floats per vertex.
type ChunkMesh struct {
	Vertices []float32
	Normals  []float32
	Colors   []float32
	Indices  []uint32
}

// VertexCount returns the number of grid vertices in the mesh.
func (m *ChunkMesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// buildMesh derives positions, normals and colours from the final height
// map. Positions are in world space. It reports the number of vertices
// that fell outside every colour band.
func buildMesh(hm *HeightMap, c ChunkCoord, p *GenerationParameters) (*ChunkMesh, int) {
	w, d := hm.Width, hm.Depth
	n := (w + 1) * (d + 1)
	m := &ChunkMesh{
		Vertices: make([]float32, 0, n*3),
		Normals:  make([]float32, 0, n*3),
		Colors:   make([]float32, 0, n*3),
		Indices:  buildIndices(w, d),
	}
	offsetX := c.X * w
	offsetZ := c.Z * d
	uncolored := 0

	for z := 0; z <= d; z++ {
		for x := 0; x <= w; x++ {
			h := hm.At(x, z)
			normal := vertexNormal(hm, x, z)
			m.Vertices = append(m.Vertices, float32(offsetX+x), h, float32(offsetZ+z))
			m.Normals = append(m.Normals, normal[0], normal[1], normal[2])

			col, ok := ColorAt(p.ColorBands, h/float32(p.MaxHeight))
			if !ok {
				uncolored++
			}
			m.Colors = append(m.Colors, col[0], col[1], col[2])
		}
	}
	return m, uncolored
}

// vertexNormal uses central differences, substituting the vertex's own
// height where a neighbour lies outside the chunk.
func vertexNormal(hm *HeightMap, x, z int) mgl32.Vec3 {
	h := hm.At(x, z)
	left, right, top, bottom := h, h, h, h
	if x > 0 {
		left = hm.At(x-1, z)
	}
	if x < hm.Width {
		right = hm.At(x+1, z)
	}
	if z > 0 {
		top = hm.At(x, z-1)
	}
	if z < hm.Depth {
		bottom = hm.At(x, z+1)
	}
	return mgl32.Vec3{left - right, 2, top - bottom}.Normalize()
}

// buildIndices triangulates the grid, two triangles per cell with the same
// winding, row-major vertex numbering.
func buildIndices(w, d int) []uint32 {
	indices := make([]uint32, 0, w*d*6)
	row := uint32(w + 1)
	for z := 0; z < d; z++ {
		for x := 0; x < w; x++ {
			i := uint32(z)*row + uint32(x)
			indices = append(indices,
				i, i+row, i+1,
				i+row, i+row+1, i+1,
			)
		}
	}
	return indices
}
