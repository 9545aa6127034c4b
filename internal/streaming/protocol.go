package streaming

import (
	"fmt"

	"terrain-streamer/internal/world"
)

// RequestKind selects the work an execution unit performs.
type RequestKind uint8

const (
	KindGenerateChunk RequestKind = iota + 1
	KindGenerateHeightMap
)

func (k RequestKind) String() string {
	switch k {
	case KindGenerateChunk:
		return "generate-chunk"
	case KindGenerateHeightMap:
		return "generate-height-map"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Request is the message sent to an execution unit.
type Request struct {
	Kind   RequestKind
	Coord  world.ChunkCoord
	Seed   uint32
	Params *world.GenerationParameters
}

// Response carries the result back. Chunk is set for KindGenerateChunk,
// HeightMap for both kinds.
type Response struct {
	Kind      RequestKind
	Coord     world.ChunkCoord
	HeightMap *world.HeightMap
	Chunk     *world.ChunkData
}

// ChunkExecutor runs generation requests on one execution unit. It keeps
// the generator for the last seen seed and parameter set.
type ChunkExecutor struct {
	gen *world.Generator
}

// NewChunkExecutor returns an executor with no cached generator.
func NewChunkExecutor() *ChunkExecutor {
	return &ChunkExecutor{}
}

// Execute implements worker.Executor.
func (e *ChunkExecutor) Execute(req Request) (Response, error) {
	gen, err := e.generator(req.Seed, req.Params)
	if err != nil {
		return Response{}, err
	}
	switch req.Kind {
	case KindGenerateChunk:
		chunk := gen.Generate(req.Coord)
		return Response{Kind: req.Kind, Coord: req.Coord, HeightMap: chunk.HeightMap, Chunk: chunk}, nil
	case KindGenerateHeightMap:
		return Response{Kind: req.Kind, Coord: req.Coord, HeightMap: gen.ErodedHeightMap(req.Coord)}, nil
	default:
		return Response{}, fmt.Errorf("no such request kind: %v", req.Kind)
	}
}

func (e *ChunkExecutor) generator(seed uint32, params *world.GenerationParameters) (*world.Generator, error) {
	if e.gen != nil && e.gen.Seed() == seed && e.gen.Params() == params {
		return e.gen, nil
	}
	gen, err := world.NewGenerator(seed, params)
	if err != nil {
		return nil, err
	}
	e.gen = gen
	return gen, nil
}
