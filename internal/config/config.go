package config

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"linkmap/internal/geom"
)

// Config holds the full application configuration.
type Config struct {
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Scale  ScaleConfig  `yaml:"scale" mapstructure:"scale"`
	Map    MapConfig    `yaml:"map" mapstructure:"map"`
	Export ExportConfig `yaml:"export" mapstructure:"export"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the two input collections. Either may be a local path or
// an http(s) URL.
type DataConfig struct {
	Records     string `yaml:"records" mapstructure:"records"`
	Features    string `yaml:"features" mapstructure:"features"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ScaleConfig is the threshold color scale shared by both panels.
type ScaleConfig struct {
	Breakpoints []float64 `yaml:"breakpoints" mapstructure:"breakpoints"`
	Palette     []string  `yaml:"palette" mapstructure:"palette"`
	Cleared     string    `yaml:"cleared" mapstructure:"cleared"`
}

// MapConfig configures the choropleth.
type MapConfig struct {
	Projection string `yaml:"projection" mapstructure:"projection"`
}

// ExportConfig sizes the SVG/PNG export of both panels.
type ExportConfig struct {
	Width  int    `yaml:"width" mapstructure:"width"`
	Height int    `yaml:"height" mapstructure:"height"`
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Format string `yaml:"format" mapstructure:"format"`
}

// LogConfig configures logging. The terminal belongs to the UI, so logs are
// written to File and discarded when it is empty.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	File   string `yaml:"file" mapstructure:"file"`
}

// New returns a viper instance with defaults and environment binding set up.
// Callers may bind flags to it before passing it to Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("LINKMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data.records", "datasets/data.csv")
	v.SetDefault("data.features", "datasets/us-states.json")
	v.SetDefault("data.timeout_secs", 30)
	v.SetDefault("scale.breakpoints", []float64{0.24, 0.28, 0.32})
	v.SetDefault("scale.palette", []string{"#fbb4b9", "#f768a1", "#c51b8a", "#7a0177"})
	v.SetDefault("scale.cleared", "#ffffff")
	v.SetDefault("map.projection", geom.ProjectionAlbersUSA)
	v.SetDefault("export.width", 480)
	v.SetDefault("export.height", 350)
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.format", "svg")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	return v
}

// Load reads configuration from v. When path is empty, linkmap.yaml in the
// working directory is used if present.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = New()
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("linkmap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the cross-field constraints viper cannot express.
func (c *Config) Validate() error {
	if len(c.Scale.Palette) != len(c.Scale.Breakpoints)+1 {
		return eris.Errorf("config: scale.palette needs %d colors for %d breakpoints, got %d",
			len(c.Scale.Breakpoints)+1, len(c.Scale.Breakpoints), len(c.Scale.Palette))
	}
	if !sort.Float64sAreSorted(c.Scale.Breakpoints) {
		return eris.New("config: scale.breakpoints must be ascending")
	}
	if _, err := geom.NewProjection(c.Map.Projection); err != nil {
		return eris.Wrap(err, "config: map.projection")
	}
	switch c.Export.Format {
	case "svg", "png":
	default:
		return eris.Errorf("config: export.format %q is not svg or png", c.Export.Format)
	}
	if c.Export.Width <= 0 || c.Export.Height <= 0 {
		return eris.New("config: export size must be positive")
	}
	return nil
}

// InitLogger initializes the global zap logger and returns a function that
// flushes it.
func InitLogger(cfg LogConfig) (func(), error) {
	if cfg.File == "" {
		zap.ReplaceGlobals(zap.NewNop())
		return func() {}, nil
	}

	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.OutputPaths = []string{cfg.File}
	zapCfg.ErrorOutputPaths = []string{cfg.File}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	undo := zap.ReplaceGlobals(logger)

	return func() {
		_ = logger.Sync()
		undo()
	}, nil
}
