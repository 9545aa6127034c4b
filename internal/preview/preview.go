package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"terrain-streamer/internal/world"
)

// ErrNoChunks is returned when there is nothing to draw.
var ErrNoChunks = errors.New("preview: no chunks")

// Options controls how a top-down preview is rendered.
type Options struct {
	// Scale is output pixels per height map cell. Zero means 1.
	Scale float64
	// Shade darkens cells facing away from Light.
	Shade bool
	// Light points towards the light source. Zero means straight up.
	Light mgl32.Vec3
	// Caption is drawn in the top-left corner when set.
	Caption string
}

// Compose paints one pixel per height map cell of every chunk, laid out by
// chunk coordinate. Cells no chunk covers stay transparent.
func Compose(chunks []*world.ChunkData, shade bool, light mgl32.Vec3) (*image.RGBA, error) {
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	w, d := chunks[0].HeightMap.Width, chunks[0].HeightMap.Depth
	minC, maxC := chunks[0].Coord, chunks[0].Coord
	for _, c := range chunks[1:] {
		if c.HeightMap.Width != w || c.HeightMap.Depth != d {
			return nil, fmt.Errorf("preview: chunk %v is %dx%d, want %dx%d", c.Coord, c.HeightMap.Width, c.HeightMap.Depth, w, d)
		}
		minC.X, minC.Z = min(minC.X, c.Coord.X), min(minC.Z, c.Coord.Z)
		maxC.X, maxC.Z = max(maxC.X, c.Coord.X), max(maxC.Z, c.Coord.Z)
	}

	if light == (mgl32.Vec3{}) {
		light = mgl32.Vec3{0, 1, 0}
	}
	light = light.Normalize()

	img := image.NewRGBA(image.Rect(0, 0, (maxC.X-minC.X+1)*w, (maxC.Z-minC.Z+1)*d))
	row := w + 1
	for _, c := range chunks {
		ox := (c.Coord.X - minC.X) * w
		oz := (c.Coord.Z - minC.Z) * d
		for z := 0; z < d; z++ {
			for x := 0; x < w; x++ {
				v := (z*row + x) * 3
				r, g, b := c.Colors[v], c.Colors[v+1], c.Colors[v+2]
				if shade {
					n := mgl32.Vec3{c.Normals[v], c.Normals[v+1], c.Normals[v+2]}
					k := min(0.35+0.65*max(n.Dot(light), 0), 1)
					r, g, b = r*k, g*k, b*k
				}
				img.SetRGBA(ox+x, oz+z, color.RGBA{R: channel(r), G: channel(g), B: channel(b), A: 0xff})
			}
		}
	}
	return img, nil
}

func channel(v float32) uint8 {
	return uint8(math.Round(float64(min(max(v, 0), 1)) * 255))
}

// Render composes chunks and scales the result.
func Render(chunks []*world.ChunkData, opts Options) (image.Image, error) {
	src, err := Compose(chunks, opts.Shade, opts.Light)
	if err != nil {
		return nil, err
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	out := src
	if scale != 1 {
		b := src.Bounds()
		out = image.NewRGBA(image.Rect(0, 0,
			max(1, int(math.Round(float64(b.Dx())*scale))),
			max(1, int(math.Round(float64(b.Dy())*scale)))))
		var interp draw.Interpolator = draw.CatmullRom
		if scale < 1 {
			interp = draw.ApproxBiLinear
		}
		interp.Scale(out, out.Bounds(), src, b, draw.Src, nil)
	}
	if opts.Caption != "" {
		drawCaption(out, opts.Caption)
	}
	return out, nil
}

func drawCaption(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	dr := &font.Drawer{Dst: img, Face: face}
	width := dr.MeasureString(text).Ceil()
	height := (metrics.Ascent + metrics.Descent).Ceil()

	box := image.Rect(0, 0, width+8, height+6).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(color.RGBA{A: 0xa0}), image.Point{}, draw.Over)

	dr.Src = image.White
	dr.Dot = fixed.Point26_6{X: fixed.I(4), Y: fixed.I(3) + metrics.Ascent}
	dr.DrawString(text)
}

// Encode writes img as PNG.
func Encode(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}

// Save renders chunks to a PNG file at path, creating parent directories.
func Save(path string, chunks []*world.ChunkData, opts Options) error {
	img, err := Render(chunks, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create preview dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	if err := Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
