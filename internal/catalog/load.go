package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyDataset is returned when a dataset file contains no bodies.
	ErrEmptyDataset = errors.New("dataset contains no bodies")

	// ErrUnknownFormat is returned when a dataset has neither bodies nor KOI rows.
	ErrUnknownFormat = errors.New("dataset has no bodies or koi section")
)

// Dataset is a loaded set of descriptors plus the optional subject of
// interest.
type Dataset struct {
	Subject string
	Bodies  []Descriptor
}

// fileBody is the on-disk shape of a descriptor. YAML is a superset of JSON,
// so JSON datasets decode through the same path.
type fileBody struct {
	Name          string    `yaml:"name"`
	Kind          string    `yaml:"kind"`
	Radius        float64   `yaml:"radius"`
	Color         string    `yaml:"color"`
	Texture       string    `yaml:"texture"`
	Position      []float64 `yaml:"position"`
	Distance      float64   `yaml:"distance"`
	Period        float64   `yaml:"period"`
	Parent        string    `yaml:"parent"`
	Normal        []float64 `yaml:"normal"`
	Trajectory    []float64 `yaml:"trajectory"`
	Light         float64   `yaml:"light"`
	ViewOrbitPath *bool     `yaml:"view_orbit_path"`
	ViewRing      *bool     `yaml:"view_ring"`
	Style         string    `yaml:"style"`
}

type fileDataset struct {
	Subject string     `yaml:"subject"`
	Bodies  []fileBody `yaml:"bodies"`
	KOI     []KOI      `yaml:"koi"`
}

// LoadFile reads a dataset from a YAML or JSON file.
func LoadFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Load(f)
	if err != nil {
		return Dataset{}, fmt.Errorf("load %s: %w", path, err)
	}
	return ds, nil
}

// Load decodes a dataset. Bodies are kept in file order; KOI rows are
// converted with SystemFromKOI and appended after explicit bodies.
func Load(r io.Reader) (Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Dataset{}, ErrEmptyDataset
	}

	var fd fileDataset
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	if fd.Bodies == nil && fd.KOI == nil {
		return Dataset{}, ErrUnknownFormat
	}

	ds := Dataset{Subject: fd.Subject}
	for _, fb := range fd.Bodies {
		ds.Bodies = append(ds.Bodies, fb.descriptor())
	}
	if len(fd.KOI) > 0 {
		ds.Bodies = append(ds.Bodies, SystemsFromKOI(fd.KOI)...)
	}
	if len(ds.Bodies) == 0 {
		return Dataset{}, ErrEmptyDataset
	}
	return ds, nil
}

func (fb fileBody) descriptor() Descriptor {
	d := Descriptor{
		Name:           fb.Name,
		Kind:           ParseKind(fb.Kind),
		PhysicalRadius: fb.Radius,
		Color:          fb.Color,
		OrbitDistance:  fb.Distance,
		OrbitPeriod:    fb.Period,
		ParentName:     fb.Parent,
		LightEmission:  fb.Light,
		ViewOrbitPath:  fb.ViewOrbitPath,
		ViewRing:       fb.ViewRing,
		Style:          ParseMaterialStyle(fb.Style),
		Position:       vecOf(fb.Position),
		OrbitNormal:    vecOf(fb.Normal),
		Trajectory:     vecOf(fb.Trajectory),
	}
	for _, ref := range strings.Split(fb.Texture, ",") {
		if ref = strings.TrimSpace(ref); ref != "" {
			d.TextureRef = append(d.TextureRef, ref)
		}
	}
	return d
}

// vecOf converts a 3-element list; anything else is treated as absent.
func vecOf(v []float64) *mgl64.Vec3 {
	if len(v) != 3 {
		return nil
	}
	return &mgl64.Vec3{v[0], v[1], v[2]}
}
