package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"terrain-streamer/internal/streaming"
	"terrain-streamer/internal/world"
)

// countingSink stands in for a renderer that uploads chunk meshes.
type countingSink struct {
	loaded   int
	unloaded int
}

func (s *countingSink) ChunkLoaded(chunk *world.ChunkData) {
	s.loaded++
}

func (s *countingSink) ChunkUnloaded(c world.ChunkCoord) {
	s.unloaded++
}

// walk moves the viewer along +x, waiting at each stop until every chunk
// in range has settled.
func walk(terrain *streaming.Terrain, steps int, stride float64, timeout time.Duration, logger *log.Logger) error {
	x, z := 0.0, 0.0
	for i := 0; i <= steps; i++ {
		start := time.Now()
		terrain.Update(x, z)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		_, err := terrain.Wait(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d at (%.0f, %.0f): %w", i, x, z, err)
		}

		logger.Printf("step %d: viewer %v height %.1f, %d loaded, %d failed in %v",
			i, terrain.ViewerChunk(x, z), terrain.HeightAt(x, z),
			len(terrain.Loaded()), len(terrain.Failed()), time.Since(start).Round(time.Millisecond))
		x += stride
	}
	return nil
}
