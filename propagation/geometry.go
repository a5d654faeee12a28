package propagation

import "math"

// EarthRadiusKm is the spherical-earth radius used throughout the
// engine, spec.md §6.
const EarthRadiusKm = 6370.0

// VelocityOfLightMmPerMs is the speed of light, 299.79246 megameters
// per second, which is the same number in km per millisecond, so
// path_length_km / this constant yields milliseconds, spec.md §6.
const VelocityOfLightMmPerMs = 299.79246

// colocatedOffsetRad is the minimum separation (~1 m on the earth's
// surface) used to break the degenerate azimuth computation when tx
// and rx coincide, spec.md §4.B edge case.
const colocatedOffsetRad = 1.0 / (EarthRadiusKm * 1000)

// NewGeoPointDeg constructs a GeoPoint from degrees, validating the
// spec.md §3 invariant.
func NewGeoPointDeg(latDeg, lonDeg float64) (GeoPoint, error) {
	if latDeg < -90 || latDeg > 90 {
		return GeoPoint{}, &ConfigError{Field: "lat_deg", Reason: "must be in [-90,90]"}
	}
	lon := math.Mod(lonDeg+180, 360)
	if lon < 0 {
		lon += 360
	}
	lon -= 180
	if lon == -180 {
		lon = 180
	}
	return GeoPoint{
		LatRad: latDeg * math.Pi / 180,
		LonRad: lon * math.Pi / 180,
	}, nil
}

// Distance computes the great-circle angular distance between p and q
// in radians, using the haversine formula.
func Distance(p, q GeoPoint) float64 {
	dLat := q.LatRad - p.LatRad
	dLon := q.LonRad - p.LonRad
	sinDLat2 := math.Sin(dLat / 2)
	sinDLon2 := math.Sin(dLon / 2)
	a := sinDLat2*sinDLat2 + math.Cos(p.LatRad)*math.Cos(q.LatRad)*sinDLon2*sinDLon2
	a = math.Min(1, math.Max(0, a))
	return 2 * math.Asin(math.Sqrt(a))
}

// Azimuth computes the initial bearing from p to q in radians,
// [0, 2pi). When p and q are colocated (distance below
// colocatedOffsetRad), q is nudged east by colocatedOffsetRad to keep
// the result finite, per spec.md §4.B.
func Azimuth(p, q GeoPoint) float64 {
	if Distance(p, q) < colocatedOffsetRad {
		q = GeoPoint{LatRad: q.LatRad, LonRad: q.LonRad + colocatedOffsetRad}
	}
	dLon := q.LonRad - p.LonRad
	y := math.Sin(dLon) * math.Cos(q.LatRad)
	x := math.Cos(p.LatRad)*math.Sin(q.LatRad) - math.Sin(p.LatRad)*math.Cos(q.LatRad)*math.Cos(dLon)
	az := math.Atan2(y, x)
	if az < 0 {
		az += 2 * math.Pi
	}
	return az
}

// Waypoint returns the point reached from p travelling azimuth radians
// a great-circle distance of dRad radians.
func Waypoint(p GeoPoint, azimuthRad, dRad float64) GeoPoint {
	lat2 := math.Asin(math.Sin(p.LatRad)*math.Cos(dRad) + math.Cos(p.LatRad)*math.Sin(dRad)*math.Cos(azimuthRad))
	lon2 := p.LonRad + math.Atan2(
		math.Sin(azimuthRad)*math.Sin(dRad)*math.Cos(p.LatRad),
		math.Cos(dRad)-math.Sin(p.LatRad)*math.Sin(lat2),
	)
	lon2 = math.Mod(lon2+3*math.Pi, 2*math.Pi) - math.Pi
	return GeoPoint{LatRad: lat2, LonRad: lon2}
}

// km1000Rad is 1000 km expressed as a great-circle angle in radians.
func km1000Rad() float64 { return 1000.0 / EarthRadiusKm }

// BuildPathGeometry computes the full great-circle relationship
// between tx and rx, selecting the long path when requested.
func BuildPathGeometry(tx, rx GeoPoint, longPath bool) PathGeometry {
	short := Distance(tx, rx)
	azTx := Azimuth(tx, rx)
	azRx := Azimuth(rx, tx)

	g := PathGeometry{
		Tx: tx, Rx: rx,
		AzimuthTx:   azTx,
		AzimuthRx:   azRx,
		DistanceRad: short,
		LongPath:    longPath,
	}
	if longPath {
		g.DistanceRad = 2*math.Pi - short
		g.AzimuthTx = math.Mod(azTx+math.Pi, 2*math.Pi)
		g.AzimuthRx = math.Mod(azRx+math.Pi, 2*math.Pi)
	}
	return g
}

// ControlPointBase is a located, but not yet solar/geomag/profile
// enriched, control point.
type ControlPointBase struct {
	Role  ControlPointRole
	Point GeoPoint
}

// ControlPoints returns the base control point locations for a path,
// per spec.md §4.B:
//   - distance <= 2000 km: just midpoint.
//   - 2000 km < distance <= 7000 km: midpoint plus T+1000, R-1000.
//   - distance > 7000 km: the above plus both endpoints.
func ControlPoints(g PathGeometry) []ControlPointBase {
	distKm := g.DistanceRad * EarthRadiusKm
	mid := Waypoint(g.Tx, g.AzimuthTx, g.DistanceRad/2)

	pts := []ControlPointBase{{Role: RoleMidpoint, Point: mid}}
	if distKm <= 2000 {
		return pts
	}

	inward := km1000Rad()
	txPlus := Waypoint(g.Tx, g.AzimuthTx, inward)
	// R-1000: 1000km inward from rx back toward tx, along the rx->tx
	// azimuth already carried by the geometry.
	rxMinus := Waypoint(g.Rx, g.AzimuthRx, inward)

	pts = []ControlPointBase{
		{Role: RoleTxPlus1000, Point: txPlus},
		{Role: RoleMidpoint, Point: mid},
		{Role: RoleRxMinus1000, Point: rxMinus},
	}
	if distKm <= 7000 {
		return pts
	}

	return []ControlPointBase{
		{Role: RoleTx, Point: g.Tx},
		{Role: RoleTxPlus1000, Point: txPlus},
		{Role: RoleMidpoint, Point: mid},
		{Role: RoleRxMinus1000, Point: rxMinus},
		{Role: RoleRx, Point: g.Rx},
	}
}
