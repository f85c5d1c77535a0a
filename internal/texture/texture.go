// Package texture resolves body textures: files first, then a procedural
// fallback, then a flat colour. Resolution never fails.
package texture

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // decoders for texture files
	_ "image/png"
	"io"
	"math"
	"math/rand"
	"os"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/logging"
)

// Default procedural texture dimensions (equirectangular, 2:1).
const (
	DefaultWidth  = 64
	DefaultHeight = 32
)

// Source records where a texture came from.
type Source string

const (
	SourceFile       Source = "file"
	SourceProcedural Source = "procedural"
	SourceFlat       Source = "flat"
)

// Texture is a decoded or generated surface image.
type Texture struct {
	Image  image.Image
	Source Source
	Ref    string // file path for SourceFile
}

// At samples the texture at normalized coordinates u, v in [0,1).
func (t *Texture) At(u, v float64) colorful.Color {
	if t == nil || t.Image == nil {
		return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	b := t.Image.Bounds()
	x := b.Min.X + wrap(u, b.Dx())
	y := b.Min.Y + clampIndex(v, b.Dy())
	c, _ := colorful.MakeColor(t.Image.At(x, y))
	return c
}

// Mean returns the average colour, used for single-cell bodies.
func (t *Texture) Mean() colorful.Color {
	if t == nil || t.Image == nil {
		return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	b := t.Image.Bounds()
	var r, g, bl float64
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, ok := colorful.MakeColor(t.Image.At(x, y))
			if !ok {
				continue
			}
			r += c.R
			g += c.G
			bl += c.B
			n++
		}
	}
	if n == 0 {
		return colorful.Color{}
	}
	return colorful.Color{R: r / float64(n), G: g / float64(n), B: bl / float64(n)}
}

func wrap(u float64, n int) int {
	u -= math.Floor(u)
	i := int(u * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

func clampIndex(v float64, n int) int {
	i := int(v * float64(n))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// ParseColor parses a hex colour hint, falling back to mid grey.
func ParseColor(hint string) colorful.Color {
	c, err := colorful.Hex(hint)
	if err != nil {
		return colorful.Color{R: 0.6, G: 0.6, B: 0.6}
	}
	return c
}

// Generate draws a procedural texture. Gassy styles get horizontal bands with
// per-band hue jitter; rocky styles get a solid base with darker circular
// blemishes. The same seed gives the same image.
func Generate(style catalog.MaterialStyle, base colorful.Color, seed int64, w, h int) *image.RGBA {
	if w <= 0 || h <= 0 {
		w, h = DefaultWidth, DefaultHeight
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	rng := rand.New(rand.NewSource(seed))

	switch style {
	case catalog.StyleGassy:
		drawBands(img, base, rng)
	default:
		drawBlemishes(img, base, rng)
	}
	return img
}

func drawBands(img *image.RGBA, base colorful.Color, rng *rand.Rand) {
	b := img.Bounds()
	hue, chroma, light := base.Hcl()

	y := 0
	for y < b.Dy() {
		bandH := 1 + rng.Intn(max(1, b.Dy()/6))
		jitter := (rng.Float64() - 0.5) * 24
		lightJitter := 0.85 + rng.Float64()*0.25
		band := colorful.Hcl(math.Mod(hue+jitter+360, 360), chroma, light*lightJitter).Clamped()
		for dy := 0; dy < bandH && y < b.Dy(); dy++ {
			for x := 0; x < b.Dx(); x++ {
				img.Set(x, y, band)
			}
			y++
		}
	}
}

func drawBlemishes(img *image.RGBA, base colorful.Color, rng *rand.Rand) {
	b := img.Bounds()
	fill(img, base)

	dark := base.BlendLab(colorful.Color{}, 0.35).Clamped()
	count := 4 + rng.Intn(8)
	for i := 0; i < count; i++ {
		cx := rng.Float64() * float64(b.Dx())
		cy := rng.Float64() * float64(b.Dy())
		r := 1 + rng.Float64()*float64(b.Dy())/6
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				dx := float64(x) + 0.5 - cx
				dy := float64(y) + 0.5 - cy
				if dx*dx+dy*dy <= r*r {
					img.Set(x, y, dark)
				}
			}
		}
	}
}

func fill(img *image.RGBA, c color.Color) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

// Flat returns a 1x1 texture of the given colour.
func Flat(c colorful.Color) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, c.Clamped())
	return &Texture{Image: img, Source: SourceFlat}
}

// Opener opens a texture reference.
type Opener func(ref string) (io.ReadCloser, error)

// Loader resolves textures through an ordered fallback chain.
type Loader struct {
	open          Opener
	log           *logging.Logger
	width, height int
	noProcedural  bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithOpener replaces file access, mainly for tests.
func WithOpener(open Opener) LoaderOption {
	return func(l *Loader) {
		l.open = open
	}
}

// WithSize sets the procedural texture size.
func WithSize(w, h int) LoaderOption {
	return func(l *Loader) {
		l.width, l.height = w, h
	}
}

// WithoutProcedural skips procedural generation and falls straight to flat
// colour, for headless runs that never sample surfaces.
func WithoutProcedural() LoaderOption {
	return func(l *Loader) {
		l.noProcedural = true
	}
}

// NewLoader creates a loader reading from the filesystem.
func NewLoader(log *logging.Logger, opts ...LoaderOption) *Loader {
	l := &Loader{
		open:   func(ref string) (io.ReadCloser, error) { return os.Open(ref) },
		log:    log,
		width:  DefaultWidth,
		height: DefaultHeight,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logging.Discard()
	}
	return l
}

// Request describes the texture wanted for one body.
type Request struct {
	Refs  []string
	Style catalog.MaterialStyle
	Color string
	Seed  int64
}

// Resolve tries each reference in order, then the procedural style, then a
// flat colour.
func (l *Loader) Resolve(req Request) *Texture {
	for _, ref := range req.Refs {
		img, err := l.decode(ref)
		if err != nil {
			l.log.Debug("texture %q unavailable: %v", ref, err)
			continue
		}
		return &Texture{Image: img, Source: SourceFile, Ref: ref}
	}

	base := ParseColor(req.Color)
	if l.noProcedural {
		return Flat(base)
	}
	img := Generate(req.Style, base, req.Seed, l.width, l.height)
	return &Texture{Image: img, Source: SourceProcedural}
}

func (l *Loader) decode(ref string) (image.Image, error) {
	rc, err := l.open(ref)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image")
	}
	return img, nil
}
