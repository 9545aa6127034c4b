package streaming

import (
	"sort"

	"terrain-streamer/internal/profiling"
	"terrain-streamer/internal/world"
)

// Subscription is an active chunk load. Cancel releases it.
type Subscription interface {
	Cancel()
}

// SubscriptionFunc adapts a function to Subscription.
type SubscriptionFunc func()

func (f SubscriptionFunc) Cancel() { f() }

// LoaderActions is implemented by whatever actually loads chunks.
type LoaderActions interface {
	// LoadChunk starts loading c. Lower priority values are closer to the viewer.
	LoadChunk(c world.ChunkCoord, priority int) Subscription
	// SetChunkLoadingPriority refreshes the priority of an active load.
	SetChunkLoadingPriority(c world.ChunkCoord, priority int)
}

// LazyChunkLoader keeps the chunks within render distance of the viewer
// loaded. It is owned by a single goroutine and is not safe for concurrent use.
type LazyChunkLoader struct {
	actions        LoaderActions
	renderDistance int
	active         map[world.ChunkCoord]Subscription
	closed         bool
}

// NewLazyChunkLoader returns a loader with nothing active.
func NewLazyChunkLoader(actions LoaderActions, renderDistance int) *LazyChunkLoader {
	return &LazyChunkLoader{
		actions:        actions,
		renderDistance: max(renderDistance, 0),
		active:         make(map[world.ChunkCoord]Subscription),
	}
}

// RenderDistance returns the loading radius in chunks.
func (l *LazyChunkLoader) RenderDistance() int { return l.renderDistance }

// SetRenderDistance changes the loading radius from the next Update on.
func (l *LazyChunkLoader) SetRenderDistance(r int) {
	l.renderDistance = max(r, 0)
}

// Update releases chunks outside the square of radius RenderDistance around
// viewer, then loads or re-prioritises every chunk inside it, nearest ring first.
func (l *LazyChunkLoader) Update(viewer world.ChunkCoord) {
	if l.closed {
		return
	}
	defer profiling.Track("streaming.LazyChunkLoader.Update")()
	r := l.renderDistance

	for c, sub := range l.active {
		if abs(c.X-viewer.X) > r || abs(c.Z-viewer.Z) > r {
			delete(l.active, c)
			sub.Cancel()
		}
	}

	Spiral(viewer, r, func(c world.ChunkCoord) {
		priority := c.DistanceSq(viewer)
		if _, ok := l.active[c]; ok {
			l.actions.SetChunkLoadingPriority(c, priority)
			return
		}
		l.active[c] = l.actions.LoadChunk(c, priority)
	})
}

// Active returns the coordinates currently subscribed, sorted.
func (l *LazyChunkLoader) Active() []world.ChunkCoord {
	out := make([]world.ChunkCoord, 0, len(l.active))
	for c := range l.active {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// IsActive reports whether c is subscribed.
func (l *LazyChunkLoader) IsActive(c world.ChunkCoord) bool {
	_, ok := l.active[c]
	return ok
}

// Close cancels every active subscription. Later Updates are ignored.
func (l *LazyChunkLoader) Close() {
	if l.closed {
		return
	}
	l.closed = true
	for c, sub := range l.active {
		delete(l.active, c)
		sub.Cancel()
	}
}

// Spiral visits the centre, then each square ring out to radius r. Ring n
// starts at its top-left corner and walks clockwise: the top row left to
// right, the right column top to bottom, the bottom row right to left and
// the left column bottom to top, 2n cells per leg.
func Spiral(center world.ChunkCoord, r int, fn func(world.ChunkCoord)) {
	fn(center)
	for n := 1; n <= r; n++ {
		x0 := center.X - n
		z0 := center.Z - n
		side := n * 2
		for i := 0; i < side; i++ {
			fn(world.ChunkCoord{X: x0 + i, Z: z0})
		}
		for i := 0; i < side; i++ {
			fn(world.ChunkCoord{X: x0 + side, Z: z0 + i})
		}
		for i := side; i > 0; i-- {
			fn(world.ChunkCoord{X: x0 + i, Z: z0 + side})
		}
		for i := side; i > 0; i-- {
			fn(world.ChunkCoord{X: x0, Z: z0 + i})
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
