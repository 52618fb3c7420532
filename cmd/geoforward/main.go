package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	vec2d "github.com/flywave/go3d/float64/vec2"
	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	geoforward "github.com/flywave/go-geoforward"
	"github.com/flywave/go-geoforward/internal/config"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(viper.New(), os.Stdout).ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("geoforward failed")
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "geoforward",
		Short:         "Synthetic DC resistivity and gravity responses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (yaml, json or toml)")
	pf.String("format", "json", "output format: json or yaml")
	pf.Int("workers", 0, "concurrent stations, 0 for GOMAXPROCS")
	pf.String("log-level", "info", "log level")

	root.AddCommand(
		newDikeCmd(v, out),
		newPrismCmd(v, out),
		newGridCmd(v, out),
	)
	return root
}

// load binds the flags of cmd to their config keys and reads the
// configuration. Binding happens per command since dike, prism and grid
// share keys.
func load(v *viper.Viper, cmd *cobra.Command, keys map[string]string) (*config.Config, error) {
	keys["config"] = "config"
	keys["format"] = "format"
	keys["workers"] = "workers"
	keys["log-level"] = "log_level"
	for name, key := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			return nil, fmt.Errorf("no flag %q", name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
	return cfg, nil
}

func newDikeCmd(v *viper.Viper, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dike",
		Short: "Apparent resistivity profile across a vertical dike",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(v, cmd, map[string]string{
				"rho1": "dike.rho1", "rho2": "dike.rho2", "thickness": "dike.thickness",
				"start": "dike.start", "tolerance": "dike.tolerance",
				"from": "profile.from", "to": "profile.to", "points": "profile.points", "arrays": "profile.arrays",
			})
			if err != nil {
				return err
			}
			d := geoforward.NewDike(c.Dike.Rho1, c.Dike.Rho2, c.Dike.Thickness)
			if c.Dike.Tolerance > 0 {
				d = d.WithTolerance(c.Dike.Tolerance)
			}

			arrays := make([]geoforward.ArrayType, 0, len(c.Profile.Arrays))
			for _, name := range c.Profile.Arrays {
				a, ok := geoforward.ParseArrayType(name)
				if !ok {
					return fmt.Errorf("unknown array %q", name)
				}
				arrays = append(arrays, a)
			}

			logger := log.With().Str("cmd", "dike").Logger()
			positions := geoforward.Positions(c.Profile.From, c.Profile.To, c.Profile.Points)
			profile, err := geoforward.ModelProfileContext(cmd.Context(), d, positions, c.Dike.Start, &geoforward.Options{
				Workers: c.Workers,
				Arrays:  arrays,
				Logger:  &logger,
			})
			if err != nil {
				return err
			}
			logger.Info().Int("stations", profile.Len()).Int("terms", d.Terms).Msg("profile computed")
			return encode(out, c.Format, struct {
				Dike    *geoforward.Dike    `json:"dike" yaml:"dike"`
				Start   float64             `json:"start" yaml:"start"`
				Profile *geoforward.Profile `json:"profile" yaml:"profile"`
			}{d, c.Dike.Start, profile})
		},
	}

	f := cmd.Flags()
	f.Float64("rho1", 100, "resistivity of the host (ohm m)")
	f.Float64("rho2", 10, "resistivity of the dike (ohm m)")
	f.Float64("thickness", 1, "dike thickness (m)")
	f.Float64("start", 0, "profile coordinate of the left dike face (m)")
	f.Float64("tolerance", 0, "truncate image sums once k^2n falls below this, 0 keeps 100 terms")
	f.Float64("from", -5, "first station (m)")
	f.Float64("to", 5, "last station (m)")
	f.Int("points", 101, "number of stations")
	f.String("arrays", "KN,SL,OK,UK", "arrays to compute")
	return cmd
}

func newPrismCmd(v *viper.Viper, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prism",
		Short: "Vertical gravity of a rectangular prism at one point",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(v, cmd, map[string]string{
				"bounds": "prism.bounds", "density": "prism.density", "obs": "prism.observation",
			})
			if err != nil {
				return err
			}
			b := c.Prism.Bounds
			p := geoforward.NewPrism(b[0], b[1], b[2], b[3], b[4], b[5], c.Prism.Density)
			if err := p.Validate(); err != nil {
				return err
			}
			obs := vec3d.T(c.Prism.Observation)
			gz := p.Gz(obs)
			log.Info().Float64("gz_mgal", gz).Float64("mass_kg", p.Mass()).Msg("prism evaluated")
			return encode(out, c.Format, struct {
				Prism       *geoforward.Prism `json:"prism" yaml:"prism"`
				Centroid    vec3d.T           `json:"centroid" yaml:"centroid"`
				Observation [3]float64        `json:"observation" yaml:"observation"`
				Gz          float64           `json:"gz" yaml:"gz"`
			}{p, p.Centroid(), c.Prism.Observation, gz})
		},
	}

	f := cmd.Flags()
	f.String("bounds", "-0.5,0.5,-0.5,0.5,10,11", "x1,x2,y1,y2,z1,z2 (m, z down)")
	f.Float64("density", geoforward.DefaultDensity, "density contrast (kg/m^3)")
	f.String("obs", "0,0,0", "observation point x,y,z (m)")
	return cmd
}

func newGridCmd(v *viper.Viper, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Vertical gravity of a prism over a grid of stations",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(v, cmd, map[string]string{
				"bounds": "prism.bounds", "density": "prism.density",
				"width": "grid.width", "height": "grid.height", "extent": "grid.extent", "elevation": "grid.elevation",
			})
			if err != nil {
				return err
			}
			b := c.Prism.Bounds
			model := geoforward.PrismModel{*geoforward.NewPrism(b[0], b[1], b[2], b[3], b[4], b[5], c.Prism.Density)}

			e := c.Grid.Extent
			grid, err := geoforward.NewGravityGrid(c.Grid.Width, c.Grid.Height,
				vec2d.Rect{Min: vec2d.T{e[0], e[2]}, Max: vec2d.T{e[1], e[3]}}, c.Grid.Elevation)
			if err != nil {
				return err
			}

			logger := log.With().Str("cmd", "grid").Logger()
			if err := model.Survey(cmd.Context(), grid, &geoforward.Options{Workers: c.Workers, Logger: &logger}); err != nil {
				return err
			}
			logger.Info().Float64("min", grid.Minimum).Float64("max", grid.Maximum).Msg("survey computed")
			r := grid.GetRect()
			return encode(out, c.Format, struct {
				Width   int       `json:"width" yaml:"width"`
				Height  int       `json:"height" yaml:"height"`
				Extent  []float64 `json:"extent" yaml:"extent"`
				Minimum float64   `json:"min" yaml:"min"`
				Maximum float64   `json:"max" yaml:"max"`
				Gz      []float64 `json:"gz" yaml:"gz"`
			}{grid.Width, grid.Height, []float64{r.Min[0], r.Max[0], r.Min[1], r.Max[1]}, grid.Minimum, grid.Maximum, grid.Values()})
		},
	}

	f := cmd.Flags()
	f.String("bounds", "-0.5,0.5,-0.5,0.5,10,11", "x1,x2,y1,y2,z1,z2 (m, z down)")
	f.Float64("density", geoforward.DefaultDensity, "density contrast (kg/m^3)")
	f.Int("width", 21, "stations along x")
	f.Int("height", 21, "stations along y")
	f.String("extent", "-50,50,-50,50", "xmin,xmax,ymin,ymax (m)")
	f.Float64("elevation", 0, "station z (m, z down)")
	return cmd
}

func encode(w io.Writer, format string, value any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(value)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	}
}
