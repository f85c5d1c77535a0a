package astro

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Obliquity is the Earth's axial tilt (J2000 epoch) in radians.
const Obliquity = 23.439291 * math.Pi / 180

// RADecToVector converts J2000 right ascension and declination in degrees to
// an equatorial unit vector: x toward the vernal equinox, z toward the
// celestial north pole.
func RADecToVector(raDeg, decDeg float64) mgl64.Vec3 {
	ra := mgl64.DegToRad(raDeg)
	dec := mgl64.DegToRad(decDeg)
	return mgl64.Vec3{
		math.Cos(dec) * math.Cos(ra),
		math.Cos(dec) * math.Sin(ra),
		math.Sin(dec),
	}
}

// EquatorialToEcliptic converts equatorial XYZ to ecliptic XYZ.
// Input is in any units (km, AU, etc); output is in the same units.
func EquatorialToEcliptic(eq mgl64.Vec3) mgl64.Vec3 {
	// Rotation around X by the obliquity
	return mgl64.QuatRotate(-Obliquity, mgl64.Vec3{1, 0, 0}).Rotate(eq)
}

// EclipticToEquatorial converts ecliptic XYZ to equatorial XYZ.
func EclipticToEquatorial(ecl mgl64.Vec3) mgl64.Vec3 {
	return mgl64.QuatRotate(Obliquity, mgl64.Vec3{1, 0, 0}).Rotate(ecl)
}

// EclipticToScene maps ecliptic XYZ to scene axes. Orbits lie in the scene's
// XZ plane, so ecliptic north becomes +Y and ecliptic +Y becomes -Z.
func EclipticToScene(ecl mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{ecl.X(), ecl.Z(), -ecl.Y()}
}
