package propagation

import "math"

// dayOfYearForMonth approximates the day-of-year of the 15th of each
// month (no day-of-month is part of the predict() signature, spec.md
// §6, so a representative mid-month day is used throughout).
var dayOfYearForMonth = [13]int{
	0,   // unused, months are 1-indexed
	15, 46, 74, 105, 135, 166,
	196, 227, 258, 288, 319, 349,
}

// SolarDeclinationRad returns the solar declination for the given
// day-of-year using the Cooper approximation, accurate to within
// about 1 degree.
func SolarDeclinationRad(dayOfYear int) float64 {
	n := float64(dayOfYear)
	return 23.45 * math.Pi / 180 * math.Sin(2*math.Pi/365*(284+n))
}

// EquationOfTimeHours returns the equation of time in hours for the
// given day-of-year, from the common approximation
// 9.87*sin(2B) - 7.53*cos(B) - 1.5*sin(B) minutes with
// B = 2*pi*(n-81)/364.
func EquationOfTimeHours(dayOfYear int) float64 {
	n := float64(dayOfYear)
	b := 2 * math.Pi * (n - 81) / 364
	minutes := 9.87*math.Sin(2*b) - 7.53*math.Cos(b) - 1.5*math.Sin(b)
	return minutes / 60
}

// LocalTimeHour returns local (mean solar) time in hours [0,24) given
// UTC hour and longitude in degrees, spec.md §4.C.
func LocalTimeHour(utcHour, lonDeg float64) float64 {
	lt := math.Mod(utcHour+lonDeg/15, 24)
	if lt < 0 {
		lt += 24
	}
	return lt
}

// SolarZenithRad computes the solar zenith angle chi at a point for a
// given month and UTC hour, via the standard spherical formula,
// spec.md §4.C.
func SolarZenithRad(p GeoPoint, month int, utcHour float64) SolarContext {
	doy := dayOfYearForMonth[month]
	decl := SolarDeclinationRad(doy)
	eot := EquationOfTimeHours(doy)
	lonDeg := p.LonRad * 180 / math.Pi
	localTime := LocalTimeHour(utcHour, lonDeg)
	apparentSolarTime := math.Mod(localTime+eot+24, 24)
	hourAngle := (apparentSolarTime - 12) * 15 * math.Pi / 180

	cosChi := math.Sin(p.LatRad)*math.Sin(decl) + math.Cos(p.LatRad)*math.Cos(decl)*math.Cos(hourAngle)
	cosChi = math.Min(1, math.Max(-1, cosChi))
	chi := math.Acos(cosChi)

	return SolarContext{
		DeclinationRad: decl,
		ZenithRad:      chi,
		LocalTimeHour:  localTime,
		EquationOfTime: eot,
	}
}
