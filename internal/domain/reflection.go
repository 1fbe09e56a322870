package domain

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// grazingEpsilon bounds cos θi below which incidence is treated as grazing.
const grazingEpsilon = 1e-12

// Refraction is the result of applying Snell's law at a planar interface.
type Refraction struct {
	IncidentAngle           float64 // θi in radians.
	TransmittedAngle        float64 // θt in radians (zero under total internal reflection).
	TotalInternalReflection bool
	CriticalAngle           float64 // asin(n2/n1) in radians, valid when HasCriticalAngle.
	HasCriticalAngle        bool    // True only for n1 > n2.
}

// FresnelCoefficients holds amplitude and power coefficients for both polarizations.
// TE is s-polarization, TM is p-polarization.
type FresnelCoefficients struct {
	RTE float64
	TTE float64
	RTM float64
	TTM float64

	ReflectanceTE   float64
	TransmittanceTE float64
	ReflectanceTM   float64
	TransmittanceTM float64
}

// Refract applies Snell's law n1 sin θi = n2 sin θt.
func Refract(n1, n2, thetaI float64) Refraction {
	r := Refraction{IncidentAngle: thetaI}
	if n1 > n2 {
		r.HasCriticalAngle = true
		r.CriticalAngle = math.Asin(n2 / n1)
	}

	sinT := n1 * math.Sin(thetaI) / n2
	if sinT > 1.0 {
		r.TotalInternalReflection = true
		return r
	}
	r.TransmittedAngle = math.Asin(sinT)
	return r
}

// Fresnel evaluates the Fresnel equations for lossless, non-magnetic media.
// Under total internal reflection all power is reflected and the
// transmission coefficients are zero.
func Fresnel(n1, n2, thetaI float64) (FresnelCoefficients, Refraction) {
	refr := Refract(n1, n2, thetaI)
	if refr.TotalInternalReflection {
		return FresnelCoefficients{
			RTE:           1.0,
			RTM:           1.0,
			ReflectanceTE: 1.0,
			ReflectanceTM: 1.0,
		}, refr
	}

	cosI := math.Cos(thetaI)
	cosT := math.Cos(refr.TransmittedAngle)

	if cosI < grazingEpsilon {
		// Grazing incidence: the wave skims the surface and nothing is transmitted.
		return FresnelCoefficients{
			RTE:           -1.0,
			RTM:           -1.0,
			ReflectanceTE: 1.0,
			ReflectanceTM: 1.0,
		}, refr
	}

	rTE := (n1*cosI - n2*cosT) / (n1*cosI + n2*cosT)
	tTE := (2 * n1 * cosI) / (n1*cosI + n2*cosT)
	rTM := (n2*cosI - n1*cosT) / (n2*cosI + n1*cosT)
	tTM := (2 * n1 * cosI) / (n2*cosI + n1*cosT)

	powerRatio := (n2 * cosT) / (n1 * cosI)

	return FresnelCoefficients{
		RTE:             rTE,
		TTE:             tTE,
		RTM:             rTM,
		TTM:             tTM,
		ReflectanceTE:   rTE * rTE,
		TransmittanceTE: powerRatio * tTE * tTE,
		ReflectanceTM:   rTM * rTM,
		TransmittanceTM: powerRatio * tTM * tTM,
	}, refr
}

// BrewsterAngle returns the TM zero-reflection angle atan(n2/n1) in radians.
func BrewsterAngle(n1, n2 float64) float64 {
	return math.Atan2(n2, n1)
}

// EvanescentDecay returns the field decay constant (1/m) in the second
// medium under total internal reflection, or zero when light is transmitted.
// k0 is the free-space wave number.
func EvanescentDecay(k0, n1, n2, thetaI float64) float64 {
	s := n1 * math.Sin(thetaI) / n2
	if s <= 1.0 {
		return 0
	}
	return k0 * n2 * math.Sqrt(s*s-1)
}

// ReflectancePoint is one sample of a reflectance-versus-angle curve.
type ReflectancePoint struct {
	AngleDeg float64
	TE       float64
	TM       float64
}

// ReflectanceCurve samples R_TE and R_TM from 0° to 90°.
func ReflectanceCurve(n1, n2 float64, samples int) []ReflectancePoint {
	if samples < 2 {
		samples = 2
	}
	angles := make([]float64, samples)
	floats.Span(angles, 0, 90)

	curve := make([]ReflectancePoint, samples)
	for i, deg := range angles {
		f, _ := Fresnel(n1, n2, Deg2Rad(deg))
		curve[i] = ReflectancePoint{
			AngleDeg: deg,
			TE:       f.ReflectanceTE,
			TM:       f.ReflectanceTM,
		}
	}
	return curve
}
