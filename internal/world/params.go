package world

import "fmt"

// RGB is a colour with 0..255 channels.
type RGB [3]uint8

// ColorBand colours every height up to MaxHeight (normalised to [0,1]).
// Blend is the fraction of the band over which the previous band's
// colour fades into this one.
type ColorBand struct {
	MaxHeight float32 `yaml:"max_height" json:"max_height"`
	Color     RGB     `yaml:"color" json:"color"`
	Blend     float32 `yaml:"blend" json:"blend"`
}

// ErosionParameters tunes the raindrop simulation.
type ErosionParameters struct {
	DropsPerCell   float64 `yaml:"drops_per_cell" json:"drops_per_cell"`
	ErosionRate    float64 `yaml:"erosion_rate" json:"erosion_rate"`
	DepositionRate float64 `yaml:"deposition_rate" json:"deposition_rate"`
	Speed          float64 `yaml:"speed" json:"speed"`
	Friction       float64 `yaml:"friction" json:"friction"`
	Radius         float64 `yaml:"radius" json:"radius"`
	MaxIterations  int     `yaml:"max_iterations" json:"max_iterations"`
	IterationScale float64 `yaml:"iteration_scale" json:"iteration_scale"`
}

// GenerationParameters is shared read-only by every chunk generation.
type GenerationParameters struct {
	Width       int     `yaml:"width" json:"width"`
	Depth       int     `yaml:"depth" json:"depth"`
	MaxHeight   float64 `yaml:"max_height" json:"max_height"`
	Octaves     int     `yaml:"octaves" json:"octaves"`
	Persistence float64 `yaml:"persistence" json:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity" json:"lacunarity"`
	Fineness    float64 `yaml:"fineness" json:"fineness"`
	// NoiseSlope raises each octave sample to this power. 0 and 1 leave samples untouched.
	NoiseSlope float64 `yaml:"noise_slope" json:"noise_slope"`

	Erosion    ErosionParameters `yaml:"erosion" json:"erosion"`
	ColorBands []ColorBand       `yaml:"color_bands" json:"color_bands"`
}

// ConfigError reports a parameter set that cannot produce terrain.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DefaultGenerationParameters mirrors the tuned desktop values at a
// chunk size small enough for quick previews.
func DefaultGenerationParameters() GenerationParameters {
	const blend = 0.6
	return GenerationParameters{
		Width:       128,
		Depth:       128,
		MaxHeight:   1024,
		Octaves:     5,
		Persistence: 0.25,
		Lacunarity:  2.5,
		Fineness:    1024,
		NoiseSlope:  1,
		Erosion: ErosionParameters{
			DropsPerCell:   0.75,
			ErosionRate:    0.1,
			DepositionRate: 0.075,
			Speed:          0.15,
			Friction:       0.7,
			Radius:         0.8,
			MaxIterations:  800,
			IterationScale: 0.04,
		},
		ColorBands: []ColorBand{
			{MaxHeight: 0.65 / 7, Color: RGB{201, 178, 99}, Blend: blend},
			{MaxHeight: 1.15 / 7, Color: RGB{164, 155, 98}, Blend: blend},
			{MaxHeight: 1.7 / 7, Color: RGB{164, 155, 98}, Blend: blend},
			{MaxHeight: 2.6 / 7, Color: RGB{229, 219, 164}, Blend: blend},
			{MaxHeight: 4.0 / 7, Color: RGB{135, 184, 82}, Blend: blend},
			{MaxHeight: 5.5 / 7, Color: RGB{120, 120, 120}, Blend: blend},
			{MaxHeight: 1, Color: RGB{200, 200, 210}, Blend: blend},
		},
	}
}

// Validate rejects parameters that cannot produce a well-formed chunk.
func (p *GenerationParameters) Validate() error {
	switch {
	case p.Width <= 0:
		return &ConfigError{Field: "width", Reason: "must be positive"}
	case p.Depth <= 0:
		return &ConfigError{Field: "depth", Reason: "must be positive"}
	case p.MaxHeight <= 0:
		return &ConfigError{Field: "max_height", Reason: "must be positive"}
	case p.Octaves <= 0:
		return &ConfigError{Field: "octaves", Reason: "must be positive"}
	case p.Fineness <= 0:
		return &ConfigError{Field: "fineness", Reason: "must be positive"}
	case p.NoiseSlope < 0:
		return &ConfigError{Field: "noise_slope", Reason: "must not be negative"}
	case p.Erosion.DropsPerCell < 0:
		return &ConfigError{Field: "erosion.drops_per_cell", Reason: "must not be negative"}
	case p.Erosion.MaxIterations < 0:
		return &ConfigError{Field: "erosion.max_iterations", Reason: "must not be negative"}
	}
	return validateBands(p.ColorBands)
}

func validateBands(bands []ColorBand) error {
	if len(bands) == 0 {
		return &ConfigError{Field: "color_bands", Reason: "at least one band is required"}
	}
	for i, b := range bands {
		if b.Blend <= 0 {
			return &ConfigError{Field: fmt.Sprintf("color_bands[%d].blend", i), Reason: "must be positive"}
		}
		if i > 0 && b.MaxHeight <= bands[i-1].MaxHeight {
			return &ConfigError{Field: fmt.Sprintf("color_bands[%d].max_height", i), Reason: "must be strictly ascending"}
		}
	}
	if last := bands[len(bands)-1]; last.MaxHeight < 1 {
		return &ConfigError{
			Field:  "color_bands",
			Reason: fmt.Sprintf("last band ends at %.3f, heights up to 1.0 would have no colour", last.MaxHeight),
		}
	}
	return nil
}
