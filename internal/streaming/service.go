package streaming

import (
	"fmt"
	"sync"

	"terrain-streamer/internal/worker"
	"terrain-streamer/internal/world"
)

// ChunkService is the submission surface for chunk generation.
type ChunkService struct {
	pool *worker.Pool[Request, Response]
	seed uint32

	mu         sync.Mutex
	priorities map[world.ChunkCoord]int
}

// NewChunkService starts a pool of workers execution units generating
// terrain for seed.
func NewChunkService(seed uint32, workers int, opts ...worker.Option) (*ChunkService, error) {
	return newChunkService(seed, workers, func(int) worker.Executor[Request, Response] {
		return NewChunkExecutor()
	}, opts...)
}

func newChunkService(seed uint32, workers int, factory func(unit int) worker.Executor[Request, Response], opts ...worker.Option) (*ChunkService, error) {
	pool, err := worker.New(workers, factory, opts...)
	if err != nil {
		return nil, fmt.Errorf("chunk service: %w", err)
	}
	return &ChunkService{
		pool:       pool,
		seed:       seed,
		priorities: make(map[world.ChunkCoord]int),
	}, nil
}

// Seed returns the world seed every request is generated with.
func (s *ChunkService) Seed() uint32 { return s.seed }

// SubmitGeneration queues the full chunk dataset for c.
func (s *ChunkService) SubmitGeneration(c world.ChunkCoord, params *world.GenerationParameters, token *worker.Token) *worker.Future[Response] {
	return s.pool.Submit(Request{Kind: KindGenerateChunk, Coord: c, Seed: s.seed, Params: params}, token)
}

// SubmitHeightMap queues only the eroded height map for c.
func (s *ChunkService) SubmitHeightMap(c world.ChunkCoord, params *world.GenerationParameters, token *worker.Token) *worker.Future[Response] {
	return s.pool.Submit(Request{Kind: KindGenerateHeightMap, Coord: c, Seed: s.seed, Params: params}, token)
}

// SetPriority records a loading priority hint for c. Lower is sooner.
// The pool queue is FIFO; the hint is not used for ordering.
func (s *ChunkService) SetPriority(c world.ChunkCoord, priority int) {
	s.mu.Lock()
	s.priorities[c] = priority
	s.mu.Unlock()
}

// Priority returns the last hint recorded for c.
func (s *ChunkService) Priority(c world.ChunkCoord) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.priorities[c]
	return p, ok
}

// ForgetPriority drops the hint for c.
func (s *ChunkService) ForgetPriority(c world.ChunkCoord) {
	s.mu.Lock()
	delete(s.priorities, c)
	s.mu.Unlock()
}

// Stats reports worker occupancy.
func (s *ChunkService) Stats() worker.Stats { return s.pool.Stats() }

// Shutdown stops the pool. Safe to call more than once.
func (s *ChunkService) Shutdown() { s.pool.Shutdown() }

// Wait blocks until every execution unit has exited after Shutdown.
func (s *ChunkService) Wait() { s.pool.Wait() }
