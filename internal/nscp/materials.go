package nscp

import "math"

// Concrete and reinforcement constants, NSCP 2015.
const (
	// Stress block depth factor limits (410.2.7.3).
	Beta1Max = 0.85
	Beta1Min = 0.65

	// EpsilonCU is the crushing strain of concrete (410.2.2.1).
	EpsilonCU = 0.003

	// Strength reduction factors (409.3.2). PhiCompression is for tied
	// members; spiral members are not designed here.
	PhiFlexure     = 0.90
	PhiCompression = 0.65

	Es = 200000.0 // steel modulus, MPa (420.2.2)

	// TiedAxialFactor caps the axial strength of tied columns (422.4.2.1).
	TiedAxialFactor = 0.80
)

// tensionLimit is the net tensile strain above εy at which a section
// becomes tension-controlled.
const tensionLimit = 0.003

// YieldStrain is fy / Es.
func YieldStrain(fy float64) float64 {
	return fy / Es
}

// Beta1 returns the stress block factor for f'c in MPa: 0.85 up to
// 28 MPa, then 0.05 less per 7 MPa, never below 0.65.
func Beta1(fc float64) float64 {
	if fc <= 28 {
		return Beta1Max
	}
	return math.Max(Beta1Max-0.05*(fc-28)/7, Beta1Min)
}

// Phi interpolates the strength reduction factor between the compression
// and tension-controlled limits for a net tensile strain epsilonT.
func Phi(epsilonT, fy float64) float64 {
	ey := YieldStrain(fy)
	switch {
	case epsilonT >= ey+tensionLimit:
		return PhiFlexure
	case epsilonT <= ey:
		return PhiCompression
	}
	return PhiCompression + (PhiFlexure-PhiCompression)*(epsilonT-ey)/tensionLimit
}

// RhoMin is max(√f'c / 4fy, 1.4/fy) (409.6.1.2).
func RhoMin(fc, fy float64) float64 {
	return math.Max(math.Sqrt(fc)/(4*fy), 1.4/fy)
}

// RhoMax is the steel ratio that puts the extreme tension layer at
// εt = 0.005.
func RhoMax(fc, fy float64) float64 {
	return 0.85 * Beta1(fc) * (fc / fy) * (EpsilonCU / (EpsilonCU + 0.005))
}

// RhoBalanced is the steel ratio at which concrete crushes as the steel
// yields.
func RhoBalanced(fc, fy float64) float64 {
	cb := EpsilonCU / (EpsilonCU + YieldStrain(fy))
	return 0.85 * Beta1(fc) * (fc / fy) * cb
}

// TiedColumnCapacity returns φPn,max = 0.80 φ [0.85 f'c (Ag − Ast) + fy Ast]
// in kN, with areas in mm² and strengths in MPa (422.4.2.1).
func TiedColumnCapacity(ag, ast, fc, fy float64) float64 {
	po := 0.85*fc*math.Max(0, ag-ast) + fy*ast
	return TiedAxialFactor * PhiCompression * po / 1000
}
