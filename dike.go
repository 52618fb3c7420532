package geoforward

import (
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
)

// Dike is a vertical slab of resistivity Rho2 between y = 0 and
// y = Thickness, embedded in a medium of resistivity Rho1.
type Dike struct {
	Rho1      float64 `json:"rho1" yaml:"rho1"`
	Rho2      float64 `json:"rho2" yaml:"rho2"`
	Thickness float64 `json:"thickness" yaml:"thickness"`
	// Terms is the truncation index of the image sums. Zero selects
	// SeriesTerms.
	Terms int `json:"terms" yaml:"terms"`
}

func NewDike(rho1, rho2, thickness float64) *Dike {
	return &Dike{Rho1: rho1, Rho2: rho2, Thickness: thickness, Terms: SeriesTerms}
}

func (d *Dike) Validate() error {
	params := []struct {
		name  string
		value float64
	}{
		{"rho1", d.Rho1},
		{"rho2", d.Rho2},
		{"thickness", d.Thickness},
	}
	for _, p := range params {
		if !finitePositive(p.value) {
			return &ParameterError{Field: p.name, Value: p.value, Wrapped: ErrInvalidGeometry}
		}
	}
	if d.Terms < 0 {
		return &ParameterError{Field: "terms", Value: float64(d.Terms), Wrapped: ErrInvalidGeometry}
	}
	return nil
}

// ReflectionCoefficient is (rho2-rho1)/(rho2+rho1). Its magnitude is below
// one for positive resistivities.
func (d *Dike) ReflectionCoefficient() float64 {
	return (d.Rho2 - d.Rho1) / (d.Rho2 + d.Rho1)
}

// WithTolerance returns a copy of d whose series stop once k^(2n) drops
// below tol.
func (d *Dike) WithTolerance(tol float64) *Dike {
	c := *d
	c.Terms = AdaptiveTerms(c.ReflectionCoefficient(), tol)
	return &c
}

// AdaptiveTerms returns the smallest n in [1, SeriesTerms] with k^(2n) <= tol.
func AdaptiveTerms(k, tol float64) int {
	k2 := pow2(k)
	switch {
	case k2 == 0 || tol >= 1:
		return 1
	case tol <= 0 || k2 >= 1 || math.IsNaN(k2):
		return SeriesTerms
	}
	n := int(math.Ceil(math.Log(tol) / math.Log(k2)))
	if n < 1 {
		return 1
	}
	if n > SeriesTerms {
		return SeriesTerms
	}
	return n
}

// Potential returns the voltage at the potential electrode for a unit
// current injected at the current electrode. Both points are {x, y} with y
// measured across the dike. Coincident electrodes give 0.
func (d *Dike) Potential(current, potential vec2d.T) float64 {
	if isClose(current[0], potential[0]) && isClose(current[1], potential[1]) {
		return 0.0
	}

	s := d.series(potential[0] - current[0])
	yc, yp := current[1], potential[1]
	branch := branches[Classify(yc, d.Thickness)][Classify(yp, d.Thickness)]
	return branch(s, yc, yp)
}

// DikeResponse is the pole-pole potential of a unit source at (xc, yc)
// measured at (xp, yp).
func DikeResponse(rho1, rho2, thickness, yc, yp, xc, xp float64) float64 {
	return NewDike(rho1, rho2, thickness).Potential(vec2d.T{xc, yc}, vec2d.T{xp, yp})
}

type imageSeries struct {
	rho1, rho2 float64
	thick      float64
	thick2     float64
	x2         float64
	k, k2      float64
	cc         float64 // 1+k
	dd         float64 // 1-k²
	aa         float64 // -k(1-k²)
	bb         float64 // -k(1+k)
	terms      int
}

func (d *Dike) series(x float64) *imageSeries {
	k := d.ReflectionCoefficient()
	s := &imageSeries{
		rho1:   d.Rho1,
		rho2:   d.Rho2,
		thick:  d.Thickness,
		thick2: d.Thickness + d.Thickness,
		x2:     x * x,
		k:      k,
		k2:     k * k,
		terms:  d.Terms,
	}
	if s.terms == 0 {
		s.terms = SeriesTerms
	}
	s.cc = 1.0 + s.k
	s.dd = 1.0 - s.k2
	s.aa = -s.k * s.dd
	s.bb = -s.k * s.cc
	return s
}

func (s *imageSeries) dist(y float64) float64 {
	return math.Sqrt(s.x2 + y*y)
}

// sum evaluates the image sum over m = 0..terms of
//
//	k^(2m) / sqrt(x² + ((first+m)·2t + p + q)²)
//
// starting from the most decayed reflection.
func (s *imageSeries) sum(first int, p, q float64) float64 {
	acc := 1.0 / s.dist(float64(first+s.terms)*s.thick2+p+q)
	for m := s.terms - 1; m >= 0; m-- {
		acc = 1.0/s.dist(float64(first+m)*s.thick2+p+q) + s.k2*acc
	}
	return acc
}

func (s *imageSeries) left(v float64) float64 {
	return s.rho1 / TwoPi * v
}

type branchFunc func(s *imageSeries, yc, yp float64) float64

// branches is indexed by the regions of the current and the potential
// electrode.
var branches = [3][3]branchFunc{
	LeftHalfSpace:  {LeftHalfSpace: leftLeft, InsideDike: leftInside, RightHalfSpace: leftRight},
	InsideDike:     {LeftHalfSpace: insideLeft, InsideDike: insideInside, RightHalfSpace: insideRight},
	RightHalfSpace: {LeftHalfSpace: rightLeft, InsideDike: rightInside, RightHalfSpace: rightRight},
}

func leftLeft(s *imageSeries, yc, yp float64) float64 {
	s2 := 2 * math.Abs(yc)
	a := yp - yc
	sum := s.sum(1, s2, -a)
	v := 1.0/s.dist(a) + s.k/s.dist(s2-a) + s.aa*sum
	return s.left(v)
}

func leftInside(s *imageSeries, yc, yp float64) float64 {
	s2 := 2 * math.Abs(yc)
	a := math.Abs(yp) + math.Abs(yc)
	sum1 := s.sum(1, s2, -a)
	sum2 := s.sum(0, a, 0)
	return s.left(s.bb*sum1 + s.cc*sum2)
}

func leftRight(s *imageSeries, yc, yp float64) float64 {
	a := math.Abs(yp) + math.Abs(yc)
	return s.left(s.dd * s.sum(0, a, 0))
}

func insideLeft(s *imageSeries, yc, yp float64) float64 {
	s2 := yc + yc
	a := math.Abs(yp) + yc
	sum1 := s.sum(0, a, 0)
	sum2 := s.sum(1, -s2, a)
	return s.left((1.0 + s.k) * (sum1 - s.k*sum2))
}

func insideInside(s *imageSeries, yc, yp float64) float64 {
	s2 := yc + yc
	a := yp - yc
	sum1 := s.sum(1, -a, 0)
	sum2 := s.sum(1, a, 0)
	sum3 := s.sum(0, s2, a)
	sum4 := s.sum(1, -s2, -a)
	v := 1.0/s.dist(a) + s.k2*(sum1+sum2) - s.k*(sum3+sum4)
	return s.rho2 / TwoPi * v
}

func insideRight(s *imageSeries, yc, yp float64) float64 {
	s2 := yc + yc
	a := yp - yc
	sum1 := s.sum(0, a, 0)
	sum2 := s.sum(0, s2, a)
	return s.left((1.0 + s.k) * (sum1 - s.k*sum2))
}

func rightLeft(s *imageSeries, yc, yp float64) float64 {
	a := math.Abs(yp) + yc
	return s.left(s.dd * s.sum(0, a, 0))
}

func rightInside(s *imageSeries, yc, yp float64) float64 {
	s2 := 2 * (yc - s.thick)
	a := math.Abs(yp - yc)
	sum1 := s.sum(0, a, 0)
	sum2 := s.sum(1, s2, -a)
	return s.left(s.cc * (sum1 - s.k*sum2))
}

func rightRight(s *imageSeries, yc, yp float64) float64 {
	s2 := 2 * (yc - s.thick)
	a := yp - yc
	sum := s.sum(1, s2, a)
	v := 1.0/s.dist(a) + s.k/s.dist(s2+a) + s.aa*sum
	return s.left(v)
}
