package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"terrain-streamer/internal/world"
)

// File is the on-disk configuration of a terrain stream.
type File struct {
	Seed           uint32                     `yaml:"seed"`
	Workers        int                        `yaml:"workers"`
	RenderDistance int                        `yaml:"render_distance"`
	Generation     world.GenerationParameters `yaml:"generation"`
}

//go:embed schema.json
var schemaSource string

const schemaURL = "schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString(schemaURL, schemaSource)
	})
	return schema, schemaErr
}

// Defaults returns the configuration used when no file is given.
func Defaults() File {
	return File{
		Seed:           0,
		Workers:        runtime.NumCPU(),
		RenderDistance: 3,
		Generation:     world.DefaultGenerationParameters(),
	}
}

// Load reads a YAML configuration. Keys missing from the file keep their
// defaults. An empty path returns Defaults.
func Load(path string) (File, error) {
	if path == "" {
		return Defaults(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config: %w", err)
	}
	f, err := Parse(raw)
	if err != nil {
		return File{}, fmt.Errorf("config %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a YAML configuration document.
func Parse(raw []byte) (File, error) {
	f := Defaults()
	if len(bytes.TrimSpace(raw)) == 0 {
		return f, nil
	}
	if err := validateDocument(raw); err != nil {
		return File{}, err
	}
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("decode: %w", err)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate checks the settings the schema cannot express.
func (f *File) Validate() error {
	if f.Workers <= 0 {
		return &world.ConfigError{Field: "workers", Reason: fmt.Sprintf("must be positive, got %d", f.Workers)}
	}
	if f.RenderDistance < MinRenderDistance || f.RenderDistance > MaxRenderDistance {
		return &world.ConfigError{Field: "render_distance", Reason: fmt.Sprintf("must be within [%d, %d], got %d", MinRenderDistance, MaxRenderDistance, f.RenderDistance)}
	}
	return f.Generation.Validate()
}

// validateDocument checks raw against the embedded schema. The YAML tree is
// round-tripped through JSON so the validator sees plain JSON values.
func validateDocument(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if doc == nil {
		return nil
	}
	buf, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config is not representable as JSON (NaN/Inf or non-string keys): %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
