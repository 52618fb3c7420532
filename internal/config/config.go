package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const EnvPrefix = "GEOFORWARD"

// Config holds all settings of the geoforward command
type Config struct {
	Format   string
	Workers  int
	LogLevel zerolog.Level
	Dike     DikeConfig
	Profile  ProfileConfig
	Prism    PrismConfig
	Grid     GridConfig
}

// DikeConfig holds the dike model
type DikeConfig struct {
	Rho1      float64
	Rho2      float64
	Thickness float64
	Start     float64
	Tolerance float64
}

// ProfileConfig holds the station layout of a dike profile
type ProfileConfig struct {
	From   float64
	To     float64
	Points int
	Arrays []string
}

// PrismConfig holds the prism model and a single observation point
type PrismConfig struct {
	Bounds      [6]float64
	Density     float64
	Observation [3]float64
}

// GridConfig holds the station grid of a gravity survey
type GridConfig struct {
	Width     int
	Height    int
	Extent    [4]float64
	Elevation float64
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("format", "json")
	v.SetDefault("workers", 0)
	v.SetDefault("log_level", "info")

	v.SetDefault("dike.rho1", 100.0)
	v.SetDefault("dike.rho2", 10.0)
	v.SetDefault("dike.thickness", 1.0)
	v.SetDefault("dike.start", 0.0)
	v.SetDefault("dike.tolerance", 0.0)

	v.SetDefault("profile.from", -5.0)
	v.SetDefault("profile.to", 5.0)
	v.SetDefault("profile.points", 101)
	v.SetDefault("profile.arrays", "KN,SL,OK,UK")

	v.SetDefault("prism.bounds", "-0.5,0.5,-0.5,0.5,10,11")
	v.SetDefault("prism.density", 2700.0)
	v.SetDefault("prism.observation", "0,0,0")

	v.SetDefault("grid.width", 21)
	v.SetDefault("grid.height", 21)
	v.SetDefault("grid.extent", "-50,50,-50,50")
	v.SetDefault("grid.elevation", 0.0)
}

// Load reads configuration from v. A config file named by the "config" key is
// optional; environment variables prefixed with GEOFORWARD_ override it.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	var cfg Config
	cfg.Format = v.GetString("format")
	cfg.Workers = v.GetInt("workers")
	level, err := zerolog.ParseLevel(v.GetString("log_level"))
	if err != nil {
		return nil, fmt.Errorf("config: log_level: %w", err)
	}
	cfg.LogLevel = level

	cfg.Dike.Rho1 = v.GetFloat64("dike.rho1")
	cfg.Dike.Rho2 = v.GetFloat64("dike.rho2")
	cfg.Dike.Thickness = v.GetFloat64("dike.thickness")
	cfg.Dike.Start = v.GetFloat64("dike.start")
	cfg.Dike.Tolerance = v.GetFloat64("dike.tolerance")

	cfg.Profile.From = v.GetFloat64("profile.from")
	cfg.Profile.To = v.GetFloat64("profile.to")
	cfg.Profile.Points = v.GetInt("profile.points")
	arrays, err := stringList(v.Get("profile.arrays"))
	if err != nil {
		return nil, fmt.Errorf("config: profile.arrays: %w", err)
	}
	cfg.Profile.Arrays = arrays

	if err := parseInto(cfg.Prism.Bounds[:], v.Get("prism.bounds")); err != nil {
		return nil, fmt.Errorf("config: prism.bounds: %w", err)
	}
	cfg.Prism.Density = v.GetFloat64("prism.density")
	if err := parseInto(cfg.Prism.Observation[:], v.Get("prism.observation")); err != nil {
		return nil, fmt.Errorf("config: prism.observation: %w", err)
	}

	cfg.Grid.Width = v.GetInt("grid.width")
	cfg.Grid.Height = v.GetInt("grid.height")
	if err := parseInto(cfg.Grid.Extent[:], v.Get("grid.extent")); err != nil {
		return nil, fmt.Errorf("config: grid.extent: %w", err)
	}
	cfg.Grid.Elevation = v.GetFloat64("grid.elevation")

	switch cfg.Format {
	case "json", "yaml":
	default:
		return nil, fmt.Errorf("config: unknown format %q", cfg.Format)
	}

	return &cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// stringList accepts a comma separated string or a native list.
func stringList(raw any) ([]string, error) {
	if s, ok := raw.(string); ok {
		return splitList(s), nil
	}
	list, err := cast.ToStringSliceE(raw)
	if err != nil {
		return nil, err
	}
	return splitList(strings.Join(list, ",")), nil
}

// parseInto fills dst from exactly len(dst) numbers, given either as a comma
// separated string (flags, env) or as a native list (config files).
func parseInto(dst []float64, raw any) error {
	var values []float64
	if s, ok := raw.(string); ok {
		for _, f := range splitList(s) {
			val, err := cast.ToFloat64E(f)
			if err != nil {
				return err
			}
			values = append(values, val)
		}
	} else {
		list, err := cast.ToFloat64SliceE(raw)
		if err != nil {
			return err
		}
		values = list
	}
	if len(values) != len(dst) {
		return fmt.Errorf("expected %d values, got %d", len(dst), len(values))
	}
	copy(dst, values)
	return nil
}
