package ionosphere

import (
	"math"

	"github.com/sa6mwa/hfprop/internal/coeff"
	"github.com/sa6mwa/hfprop/internal/model"
)

// nightFloorCosChi keeps a small residual E-layer ionization at night
// rather than letting foE collapse to zero, matching the soft-layer
// convention spec.md §3 describes ("violated foF1 means no F1 layer
// ... elided" - E itself is never elided).
const nightFloorCosChi = 0.02

// f1ChiMaxDeg returns the solar-zenith threshold beyond which the F1
// layer is elided (spec.md §4.E: "Present only if chi <= chi_max(lat)
// (daytime)"), with a mild latitude dependence.
func f1ChiMaxDeg(latRad float64) float64 {
	latDeg := math.Abs(latRad * 180 / math.Pi)
	return 100 - 5*latDeg/90
}

// BuildProfile assembles the E/F1/F2 layer parameters and derived
// ionogram for one control point, spec.md §4.E.
func BuildProfile(store *coeff.Store, latRad, lonRad, localTimeHour, zenithRad, ssn float64, month int) (model.IonosphericProfile, error) {
	cosChi := math.Max(math.Cos(zenithRad), nightFloorCosChi)

	foE := math.Pow((1+0.0015*ssn)*cosChi, 0.25) * 3.3
	e := model.LayerParams{
		Present:    true,
		Critical:   foE,
		PeakHeight: 110,
		SemiThick:  20,
		DevLoss:    0.2,
	}

	foF2Median, foF2Sigma, err := store.VarMap(coeff.VarFoF2, latRad, lonRad, localTimeHour, ssn, month)
	if err != nil {
		return model.IonosphericProfile{}, err
	}
	m3000Median, _, err := store.VarMap(coeff.VarM3000, latRad, lonRad, localTimeHour, ssn, month)
	if err != nil {
		return model.IonosphericProfile{}, err
	}
	// The raw coefficient evaluation can, for pathological
	// lat/lon/time combinations, produce a non-physical value; floor
	// both quantities rather than let downstream sqrt/log calls emit
	// NaN.
	foF2 := math.Max(1.0, foF2Median)
	m3000 := math.Max(2.0, m3000Median)

	ratio := math.Max(foF2/foE, 1.7)
	deltaM := 0.253/(ratio-1.215) - 0.012
	hmF2 := 1490/(m3000+deltaM) - 176
	if hmF2 < e.PeakHeight+e.SemiThick+20 {
		hmF2 = e.PeakHeight + e.SemiThick + 20
	}
	ymF2 := clamp(hmF2*0.18, 50, 120)

	f2Triple := model.NewTriple(foF2, foF2Sigma)
	f2 := model.LayerParams{
		Present:    true,
		Critical:   foF2,
		PeakHeight: hmF2,
		SemiThick:  ymF2,
		DevLoss:    0.5,
		M3000:      m3000,
		SigLo:      f2Triple.Lower,
		SigHi:      f2Triple.Upper,
	}

	var f1 model.LayerParams
	chiMax := f1ChiMaxDeg(latRad) * math.Pi / 180
	if zenithRad <= chiMax {
		foF1 := 1.4 * foE
		if foF1 > foF2*0.85 {
			foF1 = foF2 * 0.85
		}
		hmF1 := 200.0
		if hmF1 > hmF2-30 {
			hmF1 = hmF2 - 30
		}
		ymF1 := clamp((hmF2-hmF1)*0.5, 15, 60)
		f1 = model.LayerParams{
			Present:    true,
			Critical:   foF1,
			PeakHeight: hmF1,
			SemiThick:  ymF1,
			DevLoss:    0.3,
		}
	}

	absorptionIdx := math.Max(0.1, (1+0.008*ssn)*cosChi)

	profile := model.IonosphericProfile{
		E:             e,
		F1:            f1,
		F2:            f2,
		GyroFreqMHz:   0, // filled by caller from geomagnetic context
		AbsorptionIdx: absorptionIdx,
	}
	profile.Ionogram = BuildIonogram(profile)
	return profile, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
