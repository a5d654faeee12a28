package propagation

import "math"

// Centered-dipole geomagnetic pole location, spec.md §4.C's minimum
// precision bar (a degree-10 IGRF model is the upper bar; this
// centered dipole is the floor the engine implements).
const (
	geomagPoleLatDeg = 78.5
	geomagPoleLonDeg = -71.0 // 289 deg E == -71 deg W
	// equatorialFieldGauss is the dipole-model equatorial surface
	// field strength used to derive |B| at a given geomagnetic
	// latitude.
	equatorialFieldGauss = 0.312
)

// GeomagneticContext computes geomagnetic latitude, dip angle, and
// electron gyro-frequency at p, spec.md §4.C.
func GeomagneticContext(p GeoPoint) GeomagContext {
	poleLat := geomagPoleLatDeg * math.Pi / 180
	poleLon := geomagPoleLonDeg * math.Pi / 180

	sinLatM := math.Sin(p.LatRad)*math.Sin(poleLat) + math.Cos(p.LatRad)*math.Cos(poleLat)*math.Cos(p.LonRad-poleLon)
	sinLatM = math.Min(1, math.Max(-1, sinLatM))
	latM := math.Asin(sinLatM)

	// Dipole-field dip: tan(I) = 2*tan(lat_m).
	dip := math.Atan(2 * math.Tan(latM))

	b := equatorialFieldGauss * math.Sqrt(1+3*sinLatM*sinLatM)
	gyro := 2.8 * b // MHz, spec.md §4.C

	return GeomagContext{
		LatRad:      latM,
		DipRad:      dip,
		GyroFreqMHz: gyro,
	}
}
