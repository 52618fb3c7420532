package geoforward

import (
	"errors"
	"math"
	"testing"

	vec2d "github.com/flywave/go3d/float64/vec2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	a := assert.New(t)

	a.Equal(LeftHalfSpace, Classify(-1, 2))
	a.Equal(LeftHalfSpace, Classify(0, 2))
	a.Equal(InsideDike, Classify(1e-12, 2))
	a.Equal(InsideDike, Classify(2, 2))
	a.Equal(RightHalfSpace, Classify(2.0000001, 2))
	a.Equal("dike", InsideDike.String())
}

func TestCoincidentElectrodes(t *testing.T) {
	a := assert.New(t)

	a.Equal(0.0, DikeResponse(100, 10, 2, 5, 5, 2, 2))
	a.Equal(0.0, DikeResponse(100, 10, 2, 0, 0, 0, 0))
	a.Equal(0.0, DikeResponse(100, 10, 2, 1, 1+1e-9, 0, 0))
}

func TestUnguardedZeroDistance(t *testing.T) {
	s := NewDike(100, 10, 2).series(0)
	assert.True(t, math.IsInf(leftLeft(s, -1, -1), 1))
}

func TestHomogeneousCollapse(t *testing.T) {
	const rho = 50.0
	points := []float64{-3, -0.5, 0, 0.4, 1, 1.7, 2, 2.5, 6}
	for _, yc := range points {
		for _, yp := range points {
			if yc == yp {
				continue
			}
			x := 0.25
			want := rho / TwoPi / math.Hypot(x, yp-yc)
			got := DikeResponse(rho, rho, 2, yc, yp, 0, x)
			assert.InEpsilon(t, want, got, 1e-12, "yc=%g yp=%g", yc, yp)
		}
	}
}

func TestBranchRegression(t *testing.T) {
	cases := []struct {
		rho1, rho2 float64
		yc, yp     float64
		want       float64
	}{
		{100, 10, -1, -0.4, 16.047173984633638},
		{100, 10, -1, 1.2, 2.892753099736101},
		{100, 10, -1, 3, 2.170861034780864},
		{100, 10, 0.5, -2, 2.471491756620875},
		{100, 10, 0.5, 1.5, 4.259605816816561},
		{100, 10, 0.5, 2.5, 3.2330129144500606},
		{100, 10, 3, -0.5, 2.4005875865879007},
		{100, 10, 3, 0.7, 2.8507267241651784},
		{100, 10, 3, 4.5, 7.800848503798447},
		{10, 250, -1, -0.4, 3.2974849295637445},
		{10, 250, -1, 1.2, 0.8600714186417862},
		{10, 250, -1, 3, 0.1318189797736583},
		{10, 250, 0.5, -2, 0.997749523212617},
		{10, 250, 0.5, 1.5, 13.732239199865312},
		{10, 250, 0.5, 2.5, 0.7595740327761756},
		{10, 250, 3, -0.5, 0.14316654031365705},
		{10, 250, 3, 0.7, 0.7630267776850864},
		{10, 250, 3, 4.5, 1.376154045741019},
	}

	for _, c := range cases {
		got := DikeResponse(c.rho1, c.rho2, 2, c.yc, c.yp, 0, 0.3)
		assert.InEpsilon(t, c.want, got, 1e-12, "rho2=%g yc=%g yp=%g", c.rho2, c.yc, c.yp)
	}

	assert.InEpsilon(t, 5.004664667936442, DikeResponse(100, 10, 2, -1, -3, 0, 1), 1e-12)
	assert.InEpsilon(t, 4.336484569605369, DikeResponse(10, 250, 0.5, -0.25, 0.25, 0, 0), 1e-12)
}

func TestReciprocity(t *testing.T) {
	d := NewDike(100, 10, 2)
	points := []vec2d.T{{0, -1.5}, {0.3, -0.2}, {0, 0.5}, {-0.4, 1.5}, {0.2, 2}, {0, 2.6}, {1, 5}}
	for _, c := range points {
		for _, p := range points {
			if c == p {
				continue
			}
			assert.InEpsilon(t, d.Potential(c, p), d.Potential(p, c), 1e-10, "%v <-> %v", c, p)
		}
	}
}

func TestContinuityAcrossBoundaries(t *testing.T) {
	const eps = 1e-9
	d := NewDike(100, 10, 2)

	for _, fixed := range []float64{-1, 1, 3} {
		for _, boundary := range []float64{0, d.Thickness} {
			below := d.Potential(vec2d.T{0, fixed}, vec2d.T{0.5, boundary - eps})
			above := d.Potential(vec2d.T{0, fixed}, vec2d.T{0.5, boundary + eps})
			assert.InDelta(t, below, above, 1e-6, "receiver yc=%g boundary=%g", fixed, boundary)

			below = d.Potential(vec2d.T{0.5, boundary - eps}, vec2d.T{0, fixed})
			above = d.Potential(vec2d.T{0.5, boundary + eps}, vec2d.T{0, fixed})
			assert.InDelta(t, below, above, 1e-6, "source yp=%g boundary=%g", fixed, boundary)
		}
	}
}

func TestAllBranchesReachable(t *testing.T) {
	d := NewDike(100, 10, 2)
	ys := map[Region]float64{LeftHalfSpace: -1, InsideDike: 1, RightHalfSpace: 3}
	for src, yc := range ys {
		for rcv, yp := range ys {
			s := d.series(0.7)
			v := branches[src][rcv](s, yc, yp)
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s -> %s", src, rcv)
			assert.Greater(t, v, 0.0, "%s -> %s", src, rcv)
			assert.Equal(t, v, d.Potential(vec2d.T{0, yc}, vec2d.T{0.7, yp}))
		}
	}
}

func TestAdaptiveTerms(t *testing.T) {
	a := assert.New(t)

	a.Equal(1, AdaptiveTerms(0, 1e-12))
	a.Equal(5, AdaptiveTerms(0.5, 1e-3))
	a.Equal(69, AdaptiveTerms(-90.0/110.0, 1e-12))
	a.Equal(SeriesTerms, AdaptiveTerms(0.99, 1e-12))
	a.Equal(SeriesTerms, AdaptiveTerms(0.5, 0))
	a.Equal(1, AdaptiveTerms(0.5, 2))
}

func TestAdaptiveMatchesFixed(t *testing.T) {
	fixed := NewDike(100, 10, 2)
	adaptive := fixed.WithTolerance(1e-12)
	require.Equal(t, 69, adaptive.Terms)
	require.Equal(t, SeriesTerms, fixed.Terms)

	for _, yc := range []float64{-1, 0.5, 3} {
		for _, yp := range []float64{-0.4, 1.2, 4.5} {
			want := fixed.Potential(vec2d.T{0, yc}, vec2d.T{0.3, yp})
			got := adaptive.Potential(vec2d.T{0, yc}, vec2d.T{0.3, yp})
			assert.InEpsilon(t, want, got, 1e-9)
		}
	}
}

func TestZeroTermsUsesDefault(t *testing.T) {
	d := &Dike{Rho1: 100, Rho2: 10, Thickness: 2}
	assert.Equal(t, DikeResponse(100, 10, 2, -1, 1.2, 0, 0.3), d.Potential(vec2d.T{0, -1}, vec2d.T{0.3, 1.2}))
}

func TestDikeValidate(t *testing.T) {
	a := assert.New(t)

	a.NoError(NewDike(100, 10, 2).Validate())

	for _, d := range []*Dike{
		NewDike(0, 10, 2),
		NewDike(100, -1, 2),
		NewDike(100, 10, 0),
		NewDike(100, math.NaN(), 2),
		NewDike(math.Inf(1), 10, 2),
		{Rho1: 1, Rho2: 1, Thickness: 1, Terms: -1},
	} {
		err := d.Validate()
		a.ErrorIs(err, ErrInvalidGeometry)

		var perr *ParameterError
		a.True(errors.As(err, &perr))
	}

	err := NewDike(100, 10, -3).Validate()
	a.EqualError(err, "geoforward: invalid dike geometry: thickness = -3")
}
