package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"efield/internal/mathutil"
)

// Config holds everything a run needs. It is built once by Load and not
// changed afterwards.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Geometry GeometryConfig `mapstructure:"geometry" yaml:"geometry"`
	Run      RunConfig      `mapstructure:"run" yaml:"run"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Render   RenderConfig   `mapstructure:"render" yaml:"render"`

	// BaseDir is where relative paths resolve, the config file's directory
	// when there is one.
	BaseDir string `mapstructure:"-" yaml:"-"`
}

type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// GeometryConfig selects exactly one geometry source: an XML file, an inline
// shape list, or an anode/cathode STL pair.
type GeometryConfig struct {
	File      string           `mapstructure:"file" yaml:"file"`
	Shapes    []map[string]any `mapstructure:"shapes" yaml:"shapes"`
	Anode     string           `mapstructure:"anode" yaml:"anode"`
	Cathode   string           `mapstructure:"cathode" yaml:"cathode"`
	MeshScale float64          `mapstructure:"mesh_scale" yaml:"mesh_scale"`
}

type RunConfig struct {
	Particles  int     `mapstructure:"particles" yaml:"particles"`
	Sweeps     int     `mapstructure:"sweeps" yaml:"sweeps"` // -1 runs until interrupted
	Batch      int     `mapstructure:"batch" yaml:"batch"`
	Seed       int64   `mapstructure:"seed" yaml:"seed"` // -1 derives one from the clock
	Cutoff     float64 `mapstructure:"cutoff" yaml:"cutoff"`
	Normalized bool    `mapstructure:"normalized" yaml:"normalized"`

	// SeedFromClock is set by Resolve when Seed was derived.
	SeedFromClock bool `mapstructure:"-" yaml:"-"`
}

type OutputConfig struct {
	Report   string `mapstructure:"report" yaml:"report"`
	Charges  string `mapstructure:"charges" yaml:"charges"`
	Image    string `mapstructure:"image" yaml:"image"`
	Manifest string `mapstructure:"manifest" yaml:"manifest"`
	Scan     string `mapstructure:"scan" yaml:"scan"`
}

type RenderConfig struct {
	Size        int     `mapstructure:"size" yaml:"size"`
	Supersample int     `mapstructure:"supersample" yaml:"supersample"`
	Yaw         float64 `mapstructure:"yaw" yaml:"yaw"`
	Pitch       float64 `mapstructure:"pitch" yaml:"pitch"`
	DotRadius   float64 `mapstructure:"dot_radius" yaml:"dot_radius"`
	ShowMesh    bool    `mapstructure:"show_mesh" yaml:"show_mesh"`
}

// SetDefaults registers every key so environment variables can reach it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "efield")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)

	v.SetDefault("geometry.file", "")
	v.SetDefault("geometry.anode", "")
	v.SetDefault("geometry.cathode", "")
	v.SetDefault("geometry.mesh_scale", 0.001)

	v.SetDefault("run.particles", 100)
	v.SetDefault("run.sweeps", 100)
	v.SetDefault("run.batch", 10)
	v.SetDefault("run.seed", -1)
	v.SetDefault("run.cutoff", 0.0)
	v.SetDefault("run.normalized", false)

	v.SetDefault("output.report", "")
	v.SetDefault("output.charges", "")
	v.SetDefault("output.image", "")
	v.SetDefault("output.manifest", "")
	v.SetDefault("output.scan", "")

	v.SetDefault("render.size", 512)
	v.SetDefault("render.supersample", 2)
	v.SetDefault("render.yaw", 30.0)
	v.SetDefault("render.pitch", 20.0)
	v.SetDefault("render.dot_radius", 2.0)
	v.SetDefault("render.show_mesh", true)
}

// Load decodes v, resolves derived values and validates the result.
func Load(v *viper.Viper, now func() time.Time) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if f := v.ConfigFileUsed(); f != "" {
		cfg.BaseDir = filepath.Dir(f)
	}
	cfg.Resolve(now)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid: %w", err)
	}
	return &cfg, nil
}

// Resolve fills derived values: the seed when none was given, and absolute
// paths for files named relative to BaseDir.
func (c *Config) Resolve(now func() time.Time) {
	if c.Run.Seed < 0 {
		if now == nil {
			now = time.Now
		}
		c.Run.Seed = int64(uint32(now().UnixNano()))
		c.Run.SeedFromClock = true
	}
	if c.Run.Batch <= 0 {
		c.Run.Batch = 10
	}
	if c.Geometry.MeshScale <= 0 {
		c.Geometry.MeshScale = 0.001
	}
	if c.Render.Supersample <= 0 {
		c.Render.Supersample = 1
	}

	for _, p := range []*string{&c.Geometry.File, &c.Geometry.Anode, &c.Geometry.Cathode} {
		*p = c.path(*p)
	}
}

func (c *Config) path(p string) string {
	if p == "" || filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

var (
	ErrGeometrySource = errors.New("exactly one of geometry.file, geometry.shapes or geometry.anode/cathode must be set")
	ErrSeedRange      = errors.New("run.seed must fit in 32 bits")
)

func (c *Config) Validate() error {
	sources := 0
	if c.Geometry.File != "" {
		sources++
	}
	if len(c.Geometry.Shapes) > 0 {
		sources++
	}
	if c.Geometry.Anode != "" || c.Geometry.Cathode != "" {
		if c.Geometry.Anode == "" || c.Geometry.Cathode == "" {
			return fmt.Errorf("geometry.anode and geometry.cathode must be given together")
		}
		sources++
	}
	if sources != 1 {
		return ErrGeometrySource
	}
	if c.Run.Particles < 1 {
		return fmt.Errorf("run.particles must be at least 1, got %d", c.Run.Particles)
	}
	if c.Run.Sweeps < -1 {
		return fmt.Errorf("run.sweeps must be -1 or more, got %d", c.Run.Sweeps)
	}
	if c.Run.Seed > 0xFFFFFFFF {
		return ErrSeedRange
	}
	if c.Run.Cutoff < 0 {
		return fmt.Errorf("run.cutoff must not be negative")
	}
	if c.Output.Scan != "" {
		if _, err := ParseScan(c.Output.Scan); err != nil {
			return err
		}
	}
	if c.Render.Size < 16 {
		return fmt.Errorf("render.size must be at least 16, got %d", c.Render.Size)
	}
	return nil
}

// Scan is a straight line of sample points.
type Scan struct {
	From, To mathutil.Vec3
	Points   int
}

// ParseScan reads "x0,y0,z0:x1,y1,z1:N".
func ParseScan(s string) (Scan, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Scan{}, fmt.Errorf("scan %q: want x0,y0,z0:x1,y1,z1:N", s)
	}
	from, err := parseVec(parts[0])
	if err != nil {
		return Scan{}, fmt.Errorf("scan %q: %w", s, err)
	}
	to, err := parseVec(parts[1])
	if err != nil {
		return Scan{}, fmt.Errorf("scan %q: %w", s, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || n < 2 {
		return Scan{}, fmt.Errorf("scan %q: point count must be an integer of at least 2", s)
	}
	return Scan{From: from, To: to, Points: n}, nil
}

func parseVec(s string) (mathutil.Vec3, error) {
	var v mathutil.Vec3
	f := strings.Split(s, ",")
	if len(f) != 3 {
		return v, fmt.Errorf("%q is not x,y,z", s)
	}
	for i := range f {
		x, err := strconv.ParseFloat(strings.TrimSpace(f[i]), 64)
		if err != nil {
			return v, err
		}
		v[i] = x
	}
	return v, nil
}

// EnvKeyReplacer maps nested keys to EFIELD_SECTION_KEY variable names.
func EnvKeyReplacer() *strings.Replacer { return strings.NewReplacer(".", "_") }
