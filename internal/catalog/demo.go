package catalog

import "sort"

// demos holds the built-in datasets, keyed by name.
var demos = map[string]func() Dataset{
	"sol":       SolarSystem,
	"kepler-22": Kepler22,
}

// Demo returns a built-in dataset by name.
func Demo(name string) (Dataset, bool) {
	fn, ok := demos[name]
	if !ok {
		return Dataset{}, false
	}
	return fn(), true
}

// DemoNames lists the built-in datasets.
func DemoNames() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SolarSystem returns the Sun, the inner planets, the two largest giants with
// their major moons, and a drifting interstellar object.
func SolarSystem() Dataset {
	return Dataset{
		Subject: "Earth",
		Bodies: []Descriptor{
			{Name: "Sun", Kind: KindStar, PhysicalRadius: 696000, Color: "#FDB813", LightEmission: 1.5, Position: Vec(0, 0, 0), Style: StyleGassy},
			{Name: "Mercury", Kind: KindPlanet, PhysicalRadius: 2439.7, Color: "#B5B5B5", OrbitDistance: 0.387 * AUKm, OrbitPeriod: 87.97, ParentName: "Sun"},
			{Name: "Venus", Kind: KindPlanet, PhysicalRadius: 6051.8, Color: "#E8CDA2", OrbitDistance: 0.723 * AUKm, OrbitPeriod: 224.70, ParentName: "Sun", Style: StyleGassy},
			{Name: "Earth", Kind: KindPlanet, PhysicalRadius: 6371, Color: "#2E86AB", OrbitDistance: AUKm, OrbitPeriod: 365.25, ParentName: "Sun"},
			{Name: "Moon", Kind: KindMoon, PhysicalRadius: 1737.4, Color: "#C8C8C8", OrbitDistance: 384400, OrbitPeriod: 27.32, ParentName: "Earth", OrbitNormal: Vec(0.089, 0.996, 0)},
			{Name: "Mars", Kind: KindPlanet, PhysicalRadius: 3389.5, Color: "#C1440E", OrbitDistance: 1.524 * AUKm, OrbitPeriod: 686.98, ParentName: "Sun"},
			{Name: "Jupiter", Kind: KindPlanet, PhysicalRadius: 69911, Color: "#D8CA9D", OrbitDistance: 5.203 * AUKm, OrbitPeriod: 4332.59, ParentName: "Sun"},
			{Name: "Io", Kind: KindMoon, PhysicalRadius: 1821.6, Color: "#E6D36B", OrbitDistance: 421700, OrbitPeriod: 1.77, ParentName: "Jupiter"},
			{Name: "Europa", Kind: KindMoon, PhysicalRadius: 1560.8, Color: "#B8A68A", OrbitDistance: 671034, OrbitPeriod: 3.55, ParentName: "Jupiter"},
			{Name: "Ganymede", Kind: KindMoon, PhysicalRadius: 2634.1, Color: "#8C8479", OrbitDistance: 1070412, OrbitPeriod: 7.15, ParentName: "Jupiter"},
			{Name: "Callisto", Kind: KindMoon, PhysicalRadius: 2410.3, Color: "#6B6259", OrbitDistance: 1882709, OrbitPeriod: 16.69, ParentName: "Jupiter"},
			{Name: "Saturn", Kind: KindPlanet, PhysicalRadius: 58232, Color: "#F4D59E", OrbitDistance: 9.537 * AUKm, OrbitPeriod: 10759.22, ParentName: "Sun", OrbitNormal: Vec(0.043, 0.999, 0)},
			{Name: "Titan", Kind: KindMoon, PhysicalRadius: 2574.7, Color: "#E3A857", OrbitDistance: 1221870, OrbitPeriod: 15.95, ParentName: "Saturn"},
			{Name: "Ceres", Kind: KindAsteroid, PhysicalRadius: 469.7, Color: "#8E8E8E", OrbitDistance: 2.77 * AUKm, OrbitPeriod: 1680, ParentName: "Sun", ViewRing: Bool(false)},
			{Name: "'Oumuamua", Kind: KindAsteroid, PhysicalRadius: 0.1, Color: "#9B6B4B", Position: Vec(260, 30, -40), Trajectory: Vec(-0.8, -0.1, 0.2), ViewOrbitPath: Bool(false)},
		},
	}
}

// Kepler22 returns Kepler-22 with two catalog-adjacent systems, built through
// the KOI conversion path.
func Kepler22() Dataset {
	rows := []KOI{
		{KepID: 10593626, KOIName: "K00087.01", KeplerName: "Kepler-22 b", Disposition: "CONFIRMED", PlanetRad: 2.38, Period: 289.86, SemiMajor: 0.849, StarRad: 0.98, StarTemp: 5642, RA: 289.217, Dec: 47.884},
		{KepID: 10593626, KOIName: "K00087.02", Disposition: "CANDIDATE", PlanetRad: 1.1, Period: 48.2, StarRad: 0.98, StarTemp: 5642, RA: 289.217, Dec: 47.884},
		{KepID: 10601284, KOIName: "K00088.01", KeplerName: "Kepler-23 b", Disposition: "CONFIRMED", PlanetRad: 1.9, Period: 7.107, SemiMajor: 0.075, StarRad: 1.55, StarTemp: 5760, RA: 284.66, Dec: 49.31},
		{KepID: 10601284, KOIName: "K00088.02", KeplerName: "Kepler-23 c", Disposition: "CONFIRMED", PlanetRad: 3.2, Period: 10.742, SemiMajor: 0.099, StarRad: 1.55, StarTemp: 5760, RA: 284.66, Dec: 49.31},
		{KepID: 10666592, KOIName: "K00002.01", KeplerName: "Kepler-2 b", Disposition: "CONFIRMED", PlanetRad: 16.4, Period: 2.2047, SemiMajor: 0.038, StarRad: 1.99, StarTemp: 6350, RA: 292.25, Dec: 47.97},
	}
	return Dataset{
		Subject: "Kepler-22 b",
		Bodies:  SystemsFromKOI(rows),
	}
}
