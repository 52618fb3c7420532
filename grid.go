package geoforward

import (
	"context"
	"fmt"
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
	vec3d "github.com/flywave/go3d/float64/vec3"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Coordinates are stations {x, y, gz}, row major from the grid minimum.
type Coordinates []vec3d.T

// GravityGrid is a regular grid of stations at a common elevation.
type GravityGrid struct {
	Width       int
	Height      int
	Elevation   float64
	Coordinates Coordinates
	Count       int
	Minimum     float64
	Maximum     float64
}

// NewGravityGrid lays out width x height stations over bounds, row major
// from Min. Width and height must be at least 2.
func NewGravityGrid(width, height int, bounds vec2d.Rect, elevation float64) (*GravityGrid, error) {
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("geoforward: grid needs at least 2x2 stations, got %dx%d", width, height)
	}
	grid := &GravityGrid{
		Width:     width,
		Height:    height,
		Elevation: elevation,
		Count:     width * height,
		Minimum:   math.Inf(1),
		Maximum:   math.Inf(-1),
	}

	xs := floats.Span(make([]float64, width), bounds.Min[0], bounds.Max[0])
	ys := floats.Span(make([]float64, height), bounds.Min[1], bounds.Max[1])

	coords := make(Coordinates, 0, grid.Count)
	for _, y := range ys {
		for _, x := range xs {
			coords = append(coords, vec3d.T{x, y, 0})
		}
	}
	grid.Coordinates = coords
	return grid, nil
}

func (h *GravityGrid) Station(i int) vec3d.T {
	c := h.Coordinates[i]
	return vec3d.T{c[0], c[1], h.Elevation}
}

func (h *GravityGrid) Value(row, column int) float64 {
	return h.Coordinates[row*h.Width+column][2]
}

func (h *GravityGrid) GetRange() float64 {
	return h.Maximum - h.Minimum
}

func (h *GravityGrid) GetRect() vec2d.Rect {
	r := vec2d.Rect{Min: vec2d.MaxVal, Max: vec2d.MinVal}
	for i := range h.Coordinates {
		p := vec2d.T{h.Coordinates[i][0], h.Coordinates[i][1]}
		r.Extend(&p)
	}
	return r
}

// Values returns gz row major.
func (h *GravityGrid) Values() []float64 {
	data := make([]float64, h.Width*h.Height)
	for row := 0; row < h.Height; row++ {
		for col := 0; col < h.Width; col++ {
			data[row*h.Width+col] = h.Value(row, col)
		}
	}
	return data
}

// Survey fills the grid with the attraction of the model. On error the
// grid is left untouched.
func (m PrismModel) Survey(ctx context.Context, grid *GravityGrid, opts *Options) error {
	if err := m.Validate(); err != nil {
		return err
	}

	log := opts.logger()
	log.Debug().Int("prisms", len(m)).Int("stations", grid.Count).Msg("gravity survey")

	gz := make([]float64, len(grid.Coordinates))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i := range gz {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			gz[i] = m.Gz(grid.Station(i))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("geoforward: survey: %w", err)
	}

	for i := range gz {
		grid.Coordinates[i][2] = gz[i]
	}
	grid.Minimum = floats.Min(gz)
	grid.Maximum = floats.Max(gz)
	return nil
}
