package streaming

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"terrain-streamer/internal/worker"
	"terrain-streamer/internal/world"
)

// ChunkSink receives chunks as they become available and are released,
// typically to create and free GPU resources.
type ChunkSink interface {
	ChunkLoaded(chunk *world.ChunkData)
	ChunkUnloaded(c world.ChunkCoord)
}

// TerrainOptions configures a Terrain.
type TerrainOptions struct {
	RenderDistance int
	Sink           ChunkSink
	Logger         *log.Logger
}

type chunkEntry struct {
	token    *worker.Token
	future   *worker.Future[Response]
	priority int
	chunk    *world.ChunkData
	failed   bool
}

// Terrain streams chunks around a moving viewer. It is driven from one
// goroutine: Update submits and cancels work and installs finished chunks.
type Terrain struct {
	service *ChunkService
	params  *world.GenerationParameters
	loader  *LazyChunkLoader
	sink    ChunkSink
	logger  *log.Logger

	chunks  map[world.ChunkCoord]*chunkEntry
	pending map[world.ChunkCoord]*chunkEntry
	closed  bool
}

// NewTerrain wires a loader to service. params must stay unmodified for the
// Terrain's lifetime.
func NewTerrain(service *ChunkService, params *world.GenerationParameters, opts TerrainOptions) (*Terrain, error) {
	if service == nil {
		return nil, errors.New("terrain: chunk service is required")
	}
	if params == nil {
		return nil, &world.ConfigError{Field: "generation", Reason: "parameters are required"}
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}
	t := &Terrain{
		service: service,
		params:  params,
		sink:    opts.Sink,
		logger:  opts.Logger,
		chunks:  make(map[world.ChunkCoord]*chunkEntry),
		pending: make(map[world.ChunkCoord]*chunkEntry),
	}
	if t.logger == nil {
		t.logger = log.Default()
	}
	t.loader = NewLazyChunkLoader(t, opts.RenderDistance)
	return t, nil
}

// Loader exposes the underlying chunk loader.
func (t *Terrain) Loader() *LazyChunkLoader { return t.loader }

// ViewerChunk returns the chunk containing a world position.
func (t *Terrain) ViewerChunk(x, z float64) world.ChunkCoord {
	return world.ChunkCoordAt(x, z, t.params.Width, t.params.Depth)
}

// Update moves the viewer to world position (x, z) and installs any chunks
// that finished since the last call. It returns the number installed.
func (t *Terrain) Update(x, z float64) int {
	if t.closed {
		return 0
	}
	t.loader.Update(t.ViewerChunk(x, z))
	return t.Collect()
}

// Collect installs finished generations without blocking. Results arrive
// in no particular order.
func (t *Terrain) Collect() int {
	installed := 0
	for c, e := range t.pending {
		if !e.future.Ready() {
			continue
		}
		delete(t.pending, c)
		if t.install(c, e) {
			installed++
		}
	}
	return installed
}

// Wait blocks until every pending generation settles or ctx is done, then
// installs the results.
func (t *Terrain) Wait(ctx context.Context) (int, error) {
	for _, e := range t.pending {
		select {
		case <-e.future.Done():
		case <-ctx.Done():
			return t.Collect(), ctx.Err()
		}
	}
	return t.Collect(), nil
}

func (t *Terrain) install(c world.ChunkCoord, e *chunkEntry) bool {
	res, err := e.future.Result()
	switch {
	case errors.Is(err, worker.ErrCanceled):
		e.failed = true
		return false
	case err != nil:
		t.logger.Printf("terrain: chunk %v failed: %v", c, err)
		e.failed = true
		return false
	}
	if res.Chunk.Uncolored > 0 {
		t.logger.Printf("terrain: chunk %v has %d vertices outside every colour band", c, res.Chunk.Uncolored)
	}
	e.chunk = res.Chunk
	if t.sink != nil {
		t.sink.ChunkLoaded(res.Chunk)
	}
	return true
}

// LoadChunk implements LoaderActions.
func (t *Terrain) LoadChunk(c world.ChunkCoord, priority int) Subscription {
	token := worker.NewToken()
	e := &chunkEntry{token: token, priority: priority}
	t.service.SetPriority(c, priority)
	e.future = t.service.SubmitGeneration(c, t.params, token)
	t.chunks[c] = e
	t.pending[c] = e
	return SubscriptionFunc(func() { t.unload(c, e) })
}

// SetChunkLoadingPriority implements LoaderActions.
func (t *Terrain) SetChunkLoadingPriority(c world.ChunkCoord, priority int) {
	if e, ok := t.chunks[c]; ok {
		e.priority = priority
	}
	t.service.SetPriority(c, priority)
}

func (t *Terrain) unload(c world.ChunkCoord, e *chunkEntry) {
	e.token.Cancel()
	t.service.ForgetPriority(c)
	if t.chunks[c] != e {
		return
	}
	delete(t.chunks, c)
	delete(t.pending, c)
	if e.chunk != nil && t.sink != nil {
		t.sink.ChunkUnloaded(c)
	}
}

// Chunk returns the loaded chunk at c.
func (t *Terrain) Chunk(c world.ChunkCoord) (*world.ChunkData, bool) {
	e, ok := t.chunks[c]
	if !ok || e.chunk == nil {
		return nil, false
	}
	return e.chunk, true
}

// Loaded returns the coordinates of installed chunks, sorted.
func (t *Terrain) Loaded() []world.ChunkCoord {
	out := make([]world.ChunkCoord, 0, len(t.chunks))
	for c, e := range t.chunks {
		if e.chunk != nil {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// LoadedChunks returns the installed chunks ordered by coordinate.
func (t *Terrain) LoadedChunks() []*world.ChunkData {
	coords := t.Loaded()
	out := make([]*world.ChunkData, len(coords))
	for i, c := range coords {
		out[i] = t.chunks[c].chunk
	}
	return out
}

// Pending returns the coordinates still generating, nearest first.
func (t *Terrain) Pending() []world.ChunkCoord {
	out := make([]world.ChunkCoord, 0, len(t.pending))
	for c := range t.pending {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := t.pending[out[i]].priority, t.pending[out[j]].priority
		if pi != pj {
			return pi < pj
		}
		return out[i].Less(out[j])
	})
	return out
}

// Failed returns the coordinates whose generation did not produce a chunk.
func (t *Terrain) Failed() []world.ChunkCoord {
	var out []world.ChunkCoord
	for c, e := range t.chunks {
		if e.failed {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// HeightAt returns the terrain height at a world position, or 0 where no
// chunk is loaded.
func (t *Terrain) HeightAt(x, z float64) float64 {
	c := t.ViewerChunk(x, z)
	chunk, ok := t.Chunk(c)
	if !ok {
		return 0
	}
	return chunk.HeightAt(x-float64(c.X*t.params.Width), z-float64(c.Z*t.params.Depth))
}

// Close releases every chunk. The chunk service stays running.
func (t *Terrain) Close() {
	if t.closed {
		return
	}
	t.loader.Close()
	t.closed = true
}
