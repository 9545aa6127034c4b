package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"

	"terrain-streamer/internal/config"
	"terrain-streamer/internal/preview"
	"terrain-streamer/internal/profiling"
	"terrain-streamer/internal/streaming"
	"terrain-streamer/internal/worker"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file (defaults when empty)")
		output     = flag.String("out", "terrain.png", "preview image path")
		steps      = flag.Int("steps", 4, "number of viewer moves")
		stride     = flag.Float64("stride", 0, "world units per move (one chunk width when zero)")
		distance   = flag.Int("distance", -1, "render distance override in chunks")
		scale      = flag.Float64("scale", 1, "preview pixels per height map cell")
		timeout    = flag.Duration("timeout", 2*time.Minute, "time allowed per move")
		seed       = flag.Uint64("seed", 0, "world seed override (config seed when unset)")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "terrain-preview: ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	seedSet := false
	flag.Visit(func(f *flag.Flag) { seedSet = seedSet || f.Name == "seed" })
	if cfg.Seed, err = resolveSeed(cfg.Seed, *seed, seedSet); err != nil {
		logger.Fatalf("seed: %v", err)
	}
	config.SetRenderDistance(cfg.RenderDistance)
	if *distance >= 0 {
		config.SetRenderDistance(*distance)
	}

	service, err := streaming.NewChunkService(cfg.Seed, cfg.Workers, worker.WithLogger(logger))
	if err != nil {
		logger.Fatalf("start chunk service: %v", err)
	}
	closer.Bind(func() {
		service.Shutdown()
		service.Wait()
		logger.Printf("timings: %s", profiling.Summary(8))
	})

	sink := &countingSink{}
	terrain, err := streaming.NewTerrain(service, &cfg.Generation, streaming.TerrainOptions{
		RenderDistance: config.GetRenderDistance(),
		Sink:           sink,
		Logger:         logger,
	})
	if err != nil {
		closer.Fatalln("create terrain:", err)
	}
	closer.Bind(terrain.Close)

	logger.Printf("seed %d, %d workers, render distance %d (%d chunks), chunk %dx%d",
		cfg.Seed, cfg.Workers, config.GetRenderDistance(), config.GetChunkCount(),
		cfg.Generation.Width, cfg.Generation.Depth)

	step := *stride
	if step <= 0 {
		step = float64(cfg.Generation.Width)
	}
	if err := walk(terrain, *steps, step, *timeout, logger); err != nil {
		closer.Fatalln("walk:", err)
	}

	opts := preview.Options{
		Scale:   *scale,
		Shade:   true,
		Light:   mgl32.Vec3{-1, 2, -1},
		Caption: fmt.Sprintf("seed %d", cfg.Seed),
	}
	if err := preview.Save(*output, terrain.LoadedChunks(), opts); err != nil {
		closer.Fatalln("write preview:", err)
	}
	logger.Printf("wrote %s (%d chunks, %d loaded over the walk, %d released)",
		*output, len(terrain.Loaded()), sink.loaded, sink.unloaded)
	closer.Close()
}

// resolveSeed applies a -seed override. World seeds are 32 bits wide.
func resolveSeed(configured uint32, override uint64, set bool) (uint32, error) {
	if !set {
		return configured, nil
	}
	if override > math.MaxUint32 {
		return 0, fmt.Errorf("%d does not fit in 32 bits", override)
	}
	return uint32(override), nil
}
