// Package terrain builds a blocky heightmap out of static boxes for the car to drive over.
package terrain

import (
	"time"

	"raycast-car/internal/physics"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl64"
)

// Options controls heightmap generation.
// Width/Depth are in tiles; TileSize is the world size of one tile on X/Z.
// HeightScale is the tallest block. Blocks stand on BaseY.
// Seed == 0 uses a time-based seed.
type Options struct {
	Width       int
	Depth       int
	TileSize    float32
	HeightScale float32
	BaseY       float32

	Seed       int64
	Octaves    int
	Frequency  float32
	Lacunarity float32
	Gain       float32
}

// DefaultOptions returns a gentle 24x24 field of 4 m tiles.
func DefaultOptions() Options {
	return Options{
		Width:       24,
		Depth:       24,
		TileSize:    4,
		HeightScale: 1.5,
		BaseY:       -1,
		Octaves:     4,
		Frequency:   0.08,
		Lacunarity:  2,
		Gain:        0.5,
	}
}

// Block is one terrain tile: an axis-aligned box.
type Block struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
}

// Top is the world height of the block's upper face.
func (b Block) Top() float64 {
	return b.Center.Y() + b.HalfExtents.Y()
}

const minHeight = float32(0.15)

// Generate lays out Width*Depth blocks centred on the origin in XZ. Each block's
// height comes from fractal value noise, so the same non-zero seed always gives
// the same field.
func Generate(opts Options) []Block {
	if opts.Width <= 0 || opts.Depth <= 0 {
		return nil
	}
	if opts.TileSize <= 0 {
		opts.TileSize = 1
	}
	if opts.HeightScale <= minHeight {
		opts.HeightScale = 1
	}
	if opts.Octaves <= 0 {
		opts.Octaves = 1
	}
	if opts.Frequency <= 0 {
		opts.Frequency = 0.05
	}
	if opts.Lacunarity <= 0 {
		opts.Lacunarity = 2
	}
	if opts.Gain <= 0 {
		opts.Gain = 0.5
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	half := opts.TileSize * 0.5
	startX := -float32(opts.Width)*half + half
	startZ := -float32(opts.Depth)*half + half

	blocks := make([]Block, 0, opts.Width*opts.Depth)
	for z := 0; z < opts.Depth; z++ {
		for x := 0; x < opts.Width; x++ {
			h := fractalValueNoise2D(float32(x)*opts.Frequency, float32(z)*opts.Frequency, seed, opts.Octaves, opts.Lacunarity, opts.Gain)
			height := minHeight + h*(opts.HeightScale-minHeight)
			if !isFinite(height) || height <= 0 {
				height = minHeight
			}
			blocks = append(blocks, Block{
				Center: mgl64.Vec3{
					float64(startX + float32(x)*opts.TileSize),
					float64(opts.BaseY + height*0.5),
					float64(startZ + float32(z)*opts.TileSize),
				},
				HalfExtents: mgl64.Vec3{float64(half), float64(height * 0.5), float64(half)},
			})
		}
	}
	return blocks
}

// AddToWorld adds one static box body per block, all sharing material, and returns them.
func AddToWorld(w *physics.World, blocks []Block, material *physics.Material) []*physics.Body {
	bodies := make([]*physics.Body, 0, len(blocks))
	for _, b := range blocks {
		body := physics.NewBody(0, physics.Box{HalfExtents: b.HalfExtents})
		body.Position = b.Center
		body.Material = material
		w.AddBody(body)
		bodies = append(bodies, body)
	}
	return bodies
}

// fractalValueNoise2D layers octaves of value noise. Output is in [0,1].
func fractalValueNoise2D(x, y float32, seed int64, octaves int, lacunarity, gain float32) float32 {
	var sum, maxAmp float32
	amplitude := float32(1)
	freq := float32(1)
	for i := 0; i < octaves; i++ {
		sum += valueNoise2D(x*freq, y*freq, int32(seed)+int32(i)) * amplitude
		maxAmp += amplitude
		amplitude *= gain
		freq *= lacunarity
	}
	if maxAmp == 0 {
		return 0
	}
	return sum / maxAmp
}

// valueNoise2D is smooth lattice noise in [0,1].
func valueNoise2D(x, y float32, seed int32) float32 {
	fx, fy := math32.Floor(x), math32.Floor(y)
	x0, y0 := int32(fx), int32(fy)
	sx, sy := smoothStep(x-fx), smoothStep(y-fy)

	ix0 := lerp(hash2D(x0, y0, seed), hash2D(x0+1, y0, seed), sx)
	ix1 := lerp(hash2D(x0, y0+1, seed), hash2D(x0+1, y0+1, seed), sx)
	return lerp(ix0, ix1, sy)
}

// hash2D maps lattice coordinates to a deterministic value in [0,1].
func hash2D(x, y, seed int32) float32 {
	n := x*374761393 + y*668265263 + seed*362437
	n = (n ^ (n >> 13)) * 1274126177
	n = n ^ (n >> 16)
	return float32(n&0x7fffffff) / 2147483647.0
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// smoothStep is 3t^2 - 2t^3 on [0,1].
func smoothStep(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
