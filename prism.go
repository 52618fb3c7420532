package geoforward

import (
	"math"

	vec3d "github.com/flywave/go3d/float64/vec3"
)

// Prism is an axis aligned rectangular body of uniform density contrast.
// z is positive downward and shares its reference level with the
// observation points.
type Prism struct {
	Bounds  vec3d.Box `json:"bounds" yaml:"bounds"`
	Density float64   `json:"density" yaml:"density"`
}

func NewPrism(x1, x2, y1, y2, z1, z2, density float64) *Prism {
	return &Prism{
		Bounds:  vec3d.Box{Min: vec3d.T{x1, y1, z1}, Max: vec3d.T{x2, y2, z2}},
		Density: density,
	}
}

func (p *Prism) Validate() error {
	axes := [3]string{"x", "y", "z"}
	for i, name := range axes {
		if ext := p.Bounds.Max[i] - p.Bounds.Min[i]; !finitePositive(ext) {
			return &ParameterError{Field: name + " extent", Value: ext, Wrapped: ErrInvalidPrism}
		}
	}
	if math.IsNaN(p.Density) || math.IsInf(p.Density, 0) {
		return &ParameterError{Field: "density", Value: p.Density, Wrapped: ErrInvalidPrism}
	}
	return nil
}

func (p *Prism) Volume() float64 {
	return (p.Bounds.Max[0] - p.Bounds.Min[0]) *
		(p.Bounds.Max[1] - p.Bounds.Min[1]) *
		(p.Bounds.Max[2] - p.Bounds.Min[2])
}

func (p *Prism) Mass() float64 {
	return p.Volume() * p.Density
}

func (p *Prism) Centroid() vec3d.T {
	return vec3d.T{
		0.5 * (p.Bounds.Min[0] + p.Bounds.Max[0]),
		0.5 * (p.Bounds.Min[1] + p.Bounds.Max[1]),
		0.5 * (p.Bounds.Min[2] + p.Bounds.Max[2]),
	}
}

// Gz returns the vertical attraction in mGal at obs after Nagy (1966).
// An observation point on a corner of the prism gives NaN.
func (p *Prism) Gz(obs vec3d.T) float64 {
	xs := [2]float64{p.Bounds.Min[0] - obs[0], p.Bounds.Max[0] - obs[0]}
	ys := [2]float64{p.Bounds.Min[1] - obs[1], p.Bounds.Max[1] - obs[1]}
	zs := [2]float64{p.Bounds.Min[2] - obs[2], p.Bounds.Max[2] - obs[2]}

	var gz float64
	for i, xi := range xs {
		for j, yj := range ys {
			for k, zk := range zs {
				sgn := 1.0
				if (i+j+k)%2 == 1 {
					sgn = -1.0
				}
				r := math.Sqrt(pow2(xi) + pow2(yj) + pow2(zk))
				gz += sgn * (xi*math.Log(yj+r) +
					yj*math.Log(xi+r) -
					zk*math.Atan((xi*yj)/(zk*r)))
			}
		}
	}

	return GravitationalConstant * p.Density * gz * SIToMilliGal
}

// GzPrism evaluates a prism given as x1, x2, y1, y2, z1, z2.
func GzPrism(obs vec3d.T, bounds [6]float64, density float64) float64 {
	return NewPrism(bounds[0], bounds[1], bounds[2], bounds[3], bounds[4], bounds[5], density).Gz(obs)
}

// PrismModel is a set of prisms whose attractions superpose.
type PrismModel []Prism

func (m PrismModel) Validate() error {
	if len(m) == 0 {
		return ErrInvalidPrism
	}
	for i := range m {
		if err := m[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (m PrismModel) Gz(obs vec3d.T) float64 {
	var gz float64
	for i := range m {
		gz += m[i].Gz(obs)
	}
	return gz
}
