package geoforward

import (
	"context"
	"fmt"
	"runtime"

	vec2d "github.com/flywave/go3d/float64/vec2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// ArrayConfiguration holds the electrode half spacings of one array type.
// Electrodes are laid out along the profile, across the dike strike.
type ArrayConfiguration struct {
	Type ArrayType `json:"type" yaml:"type"`
	AM   float64   `json:"am" yaml:"am"`
	MN   float64   `json:"mn,omitempty" yaml:"mn,omitempty"`
}

func NewArrayConfiguration(t ArrayType) ArrayConfiguration {
	if t == PolePole {
		return ArrayConfiguration{Type: t, AM: poleSpacing}
	}
	return ArrayConfiguration{Type: t, AM: dipoleAM, MN: dipoleMN}
}

// GeometricFactor converts a potential (difference) into an apparent
// resistivity.
func (c ArrayConfiguration) GeometricFactor() float64 {
	if c.Type == PolePole {
		return TwoPi / (1.0 / c.AM)
	}
	return TwoPi / (1.0/c.AM - 1.0/(c.AM+c.MN))
}

func measure(d *Dike, current, potential float64) float64 {
	return d.Potential(vec2d.T{0, current}, vec2d.T{0, potential})
}

// ApparentResistivity evaluates the array centred at y, given relative to
// the left face of the dike.
func (c ArrayConfiguration) ApparentResistivity(d *Dike, y float64) float64 {
	am, mn := c.AM, c.MN
	switch c.Type {
	case PolePole:
		um := measure(d, y+am/2, y-am/2)
		return um * c.GeometricFactor()
	case Schlumberger:
		uam := measure(d, y+(am+mn/2), y+mn/2)
		uan := measure(d, y+(am+mn/2), y-mn/2)
		ubm := measure(d, y-(am+mn/2), y-mn/2)
		ubn := measure(d, y-(am+mn/2), y+mn/2)
		factor := c.GeometricFactor()
		return 0.5 * ((uam-uan)*factor + (ubm-ubn)*factor)
	case PoleDipoleForward:
		um := measure(d, y+(am+mn/2), y+mn/2)
		un := measure(d, y+(am+mn/2), y-mn/2)
		return (um - un) * c.GeometricFactor()
	case PoleDipoleReverse:
		um := measure(d, y-(am+mn/2), y-mn/2)
		un := measure(d, y-(am+mn/2), y+mn/2)
		return (um - un) * c.GeometricFactor()
	}
	return 0
}

// Profile holds apparent resistivities aligned with Positions.
type Profile struct {
	Positions []float64 `json:"positions" yaml:"positions"`
	KN        []float64 `json:"kn" yaml:"kn"`
	SL        []float64 `json:"sl" yaml:"sl"`
	OK        []float64 `json:"ok" yaml:"ok"`
	UK        []float64 `json:"uk" yaml:"uk"`
}

func newProfile(positions []float64) *Profile {
	n := len(positions)
	p := &Profile{
		Positions: make([]float64, n),
		KN:        make([]float64, n),
		SL:        make([]float64, n),
		OK:        make([]float64, n),
		UK:        make([]float64, n),
	}
	copy(p.Positions, positions)
	return p
}

func (p *Profile) Len() int {
	return len(p.Positions)
}

// Values returns the slice of the given array type.
func (p *Profile) Values(t ArrayType) []float64 {
	switch t {
	case PolePole:
		return p.KN
	case Schlumberger:
		return p.SL
	case PoleDipoleForward:
		return p.OK
	case PoleDipoleReverse:
		return p.UK
	}
	return nil
}

// ModelProfile computes KN, SL, OK and UK apparent resistivities over a
// profile. dikeStart is the profile coordinate of the left face of the dike.
func ModelProfile(rho1, rho2 float64, positions []float64, thickness, dikeStart float64) *Profile {
	d := NewDike(rho1, rho2, thickness)
	p := newProfile(positions)

	y := make([]float64, len(positions))
	copy(y, positions)
	floats.AddConst(-dikeStart, y)

	for _, t := range AllArrays {
		cfg := NewArrayConfiguration(t)
		out := p.Values(t)
		for i := range y {
			out[i] = cfg.ApparentResistivity(d, y[i])
		}
	}
	return p
}

type Options struct {
	// Workers bounds concurrent stations. Zero uses GOMAXPROCS.
	Workers int
	// Arrays restricts the computed array types. Nil computes all four.
	Arrays []ArrayType
	Logger *zerolog.Logger
}

func (o *Options) workers() int {
	if o == nil || o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

func (o *Options) arrays() []ArrayType {
	if o == nil || len(o.Arrays) == 0 {
		return AllArrays
	}
	return o.Arrays
}

func (o *Options) logger() *zerolog.Logger {
	if o == nil || o.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return o.Logger
}

// ModelProfileContext is ModelProfile with validation, cancellation and
// concurrent evaluation of stations. The result is identical to the
// sequential one.
func ModelProfileContext(ctx context.Context, d *Dike, positions []float64, dikeStart float64, opts *Options) (*Profile, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, ErrEmptyProfile
	}

	arrays := opts.arrays()
	configs := make([]ArrayConfiguration, 0, len(arrays))
	for _, t := range arrays {
		if _, ok := ParseArrayType(string(t)); !ok {
			return nil, fmt.Errorf("geoforward: unknown array type %q", t)
		}
		configs = append(configs, NewArrayConfiguration(t))
	}

	log := opts.logger()
	log.Debug().
		Float64("rho1", d.Rho1).
		Float64("rho2", d.Rho2).
		Float64("thickness", d.Thickness).
		Int("stations", len(positions)).
		Int("terms", d.Terms).
		Msg("modelling dike profile")

	p := newProfile(positions)
	y := make([]float64, len(positions))
	copy(y, positions)
	floats.AddConst(-dikeStart, y)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i := range y {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for _, cfg := range configs {
				p.Values(cfg.Type)[i] = cfg.ApparentResistivity(d, y[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("geoforward: profile: %w", err)
	}

	log.Debug().Int("stations", p.Len()).Msg("dike profile done")
	return p, nil
}

// Positions returns n evenly spaced stations from from to to inclusive.
func Positions(from, to float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{from}
	}
	return floats.Span(make([]float64, n), from, to)
}
