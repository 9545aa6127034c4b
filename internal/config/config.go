package config

import "sync"

// RenderSettings holds settings that may change while streaming.
type RenderSettings struct {
	mu             sync.RWMutex
	renderDistance int // in chunks
}

const (
	MinRenderDistance = 0
	MaxRenderDistance = 32
)

var globalRenderSettings = &RenderSettings{
	renderDistance: 3,
}

// GetRenderDistance returns the current render distance in chunks.
func GetRenderDistance() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.renderDistance
}

// SetRenderDistance sets the render distance in chunks, clamped to
// [MinRenderDistance, MaxRenderDistance].
func SetRenderDistance(distance int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.renderDistance = min(max(distance, MinRenderDistance), MaxRenderDistance)
}

// GetChunkCount returns how many chunks a full square at the current
// render distance holds.
func GetChunkCount() int {
	side := GetRenderDistance()*2 + 1
	return side * side
}
