package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Physical constants used when converting catalog rows.
const (
	AUKm          = 149597870.7
	EarthRadiusKm = 6371.0
	SolarRadiusKm = 695700.0

	// neighborDistance places catalog-adjacent systems around the first one,
	// in scene units before root normalization.
	neighborDistance = 600.0
)

// KOI is one row of the Kepler Objects of Interest cumulative table. Only the
// columns the scene needs are kept.
type KOI struct {
	KepID       int     `yaml:"kepid"`
	KOIName     string  `yaml:"kepoi_name"`
	KeplerName  string  `yaml:"kepler_name"`
	Disposition string  `yaml:"koi_disposition"`
	PlanetRad   float64 `yaml:"koi_prad"`   // Earth radii
	Period      float64 `yaml:"koi_period"` // days
	SemiMajor   float64 `yaml:"koi_sma"`    // AU
	StarRad     float64 `yaml:"koi_srad"`   // solar radii
	StarTemp    float64 `yaml:"koi_steff"`  // K
	RA          float64 `yaml:"ra"`         // degrees
	Dec         float64 `yaml:"dec"`        // degrees
}

// HostName returns the display name of the host star.
func (k KOI) HostName() string {
	if name := strings.TrimSpace(k.KeplerName); name != "" {
		if i := strings.LastIndex(name, " "); i > 0 {
			return name[:i]
		}
		return name
	}
	return fmt.Sprintf("KIC %d", k.KepID)
}

// PlanetName returns the display name of the candidate planet.
func (k KOI) PlanetName() string {
	if name := strings.TrimSpace(k.KeplerName); name != "" {
		return name
	}
	if k.KOIName != "" {
		return k.KOIName
	}
	return fmt.Sprintf("KIC %d ?", k.KepID)
}

// SemiMajorAU returns koi_sma, or estimates it from the period with
// Kepler's third law for a solar-mass host when missing.
func (k KOI) SemiMajorAU() float64 {
	if k.SemiMajor > 0 {
		return k.SemiMajor
	}
	if k.Period <= 0 {
		return 0
	}
	return math.Cbrt(math.Pow(k.Period/365.25, 2))
}

// SystemsFromKOI groups rows by host star (first appearance order) and
// returns one star descriptor followed by its planets for each system. The
// first system sits at the origin; later ones are placed around it by sky
// direction so multi-system views keep their relative layout.
func SystemsFromKOI(rows []KOI) []Descriptor {
	var order []int
	groups := make(map[int][]KOI)
	for _, r := range rows {
		if _, ok := groups[r.KepID]; !ok {
			order = append(order, r.KepID)
		}
		groups[r.KepID] = append(groups[r.KepID], r)
	}

	var out []Descriptor
	for i, id := range order {
		planets := groups[id]
		host := planets[0]

		starRadius := host.StarRad * SolarRadiusKm
		if starRadius <= 0 {
			starRadius = SolarRadiusKm
		}
		star := Descriptor{
			Name:           host.HostName(),
			Kind:           KindStar,
			PhysicalRadius: starRadius,
			Color:          starColor(host.StarTemp),
			LightEmission:  1,
			Position:       systemPosition(i, host),
			Style:          StyleGassy,
		}
		out = append(out, star)

		for _, p := range planets {
			if strings.EqualFold(p.Disposition, "FALSE POSITIVE") {
				continue
			}
			radius := p.PlanetRad * EarthRadiusKm
			out = append(out, Descriptor{
				Name:           p.PlanetName(),
				Kind:           KindPlanet,
				PhysicalRadius: radius,
				Color:          planetColor(p.PlanetRad),
				OrbitDistance:  p.SemiMajorAU() * AUKm,
				OrbitPeriod:    p.Period,
				ParentName:     star.Name,
			})
		}
	}
	return out
}

// systemPosition returns the origin for the first system and a point on a
// shell in the sky direction of the host for the others.
func systemPosition(index int, host KOI) *mgl64.Vec3 {
	if index == 0 {
		return Vec(0, 0, 0)
	}
	ra := host.RA * math.Pi / 180
	dec := host.Dec * math.Pi / 180
	if host.RA == 0 && host.Dec == 0 {
		// No sky position: spread along X.
		return Vec(neighborDistance*float64(index), 0, 0)
	}
	return Vec(
		neighborDistance*math.Cos(dec)*math.Cos(ra),
		neighborDistance*math.Sin(dec),
		-neighborDistance*math.Cos(dec)*math.Sin(ra),
	)
}

// starColor maps effective temperature to a rough spectral colour.
func starColor(teff float64) string {
	switch {
	case teff <= 0:
		return "#FFF4D6"
	case teff >= 7500:
		return "#AFC8FF"
	case teff >= 6000:
		return "#F8F7FF"
	case teff >= 5200:
		return "#FFF4D6"
	case teff >= 3700:
		return "#FFD29B"
	default:
		return "#FF9E6B"
	}
}

// planetColor picks a colour by size class.
func planetColor(earthRadii float64) string {
	switch {
	case earthRadii >= 6:
		return "#D8A16A" // giant
	case earthRadii >= 2:
		return "#7FB3D5" // sub-Neptune
	default:
		return "#A89F91" // rocky
	}
}
