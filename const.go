package geoforward

import "math"

const (
	// SeriesTerms is the truncation index of every image sum. Each sum holds
	// SeriesTerms+1 reflections.
	SeriesTerms = 100

	TwoPi = 2 * math.Pi

	GravitationalConstant = 6.67430e-11 // m³ kg⁻¹ s⁻²
	SIToMilliGal          = 1e5         // m/s² -> mGal
	DefaultDensity        = 2700.0      // kg/m³, mean crustal rock
)

// electrode spacings in metres
const (
	poleSpacing = 0.1
	dipoleAM    = 0.4
	dipoleMN    = 0.1
)

// tolerances for coincident electrodes
const (
	isCloseAbsTol = 1e-8
	isCloseRelTol = 1e-5
)
