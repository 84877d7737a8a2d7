package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Sources   []SourceConfig  `yaml:"sources" mapstructure:"sources"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Quality   QualityConfig   `yaml:"quality" mapstructure:"quality"`
	Reconcile ReconcileConfig `yaml:"reconcile" mapstructure:"reconcile"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SourceConfig describes one input file and its adapter.
type SourceConfig struct {
	Type     string `yaml:"type" mapstructure:"type"` // telegram | table | json
	Path     string `yaml:"path" mapstructure:"path"`
	Required bool   `yaml:"required" mapstructure:"required"`
}

// OutputConfig configures the catalog and skip-report artifacts.
type OutputConfig struct {
	CatalogPath string `yaml:"catalog_path" mapstructure:"catalog_path"`
	SkipsPath   string `yaml:"skips_path" mapstructure:"skips_path"`
	SourceLabel string `yaml:"source_label" mapstructure:"source_label"`
	Country     string `yaml:"country" mapstructure:"country"`
}

// StoreConfig configures the local run-history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ExtractConfig configures the field extractor.
type ExtractConfig struct {
	DefaultCity   string `yaml:"default_city" mapstructure:"default_city"`
	MinTitleRunes int    `yaml:"min_title_runes" mapstructure:"min_title_runes"`
}

// QualityConfig configures the quality scorer gate.
type QualityConfig struct {
	AcceptThreshold int `yaml:"accept_threshold" mapstructure:"accept_threshold"`
}

// ReconcileConfig centralizes every fallback constant consulted by the
// metric reconciler. Nothing outside the reconciler reads these.
type ReconcileConfig struct {
	FallbackAnnualYield  float64 `yaml:"fallback_annual_yield" mapstructure:"fallback_annual_yield"`
	DefaultOccupancyPct  float64 `yaml:"default_occupancy_pct" mapstructure:"default_occupancy_pct"`
	PaybackCapYears      float64 `yaml:"payback_cap_years" mapstructure:"payback_cap_years"`
	PaybackFloorYears    float64 `yaml:"payback_floor_years" mapstructure:"payback_floor_years"`
	ConsistencyTolerance float64 `yaml:"consistency_tolerance" mapstructure:"consistency_tolerance"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("output.catalog_path", "data/objects.json")
	v.SetDefault("output.skips_path", "data/skips.json")
	v.SetDefault("output.source_label", "batch-import")
	v.SetDefault("output.country", "Россия")
	v.SetDefault("store.path", "data/catalog.db")
	v.SetDefault("extract.default_city", "Сочи")
	v.SetDefault("extract.min_title_runes", 3)
	v.SetDefault("quality.accept_threshold", 40)
	v.SetDefault("reconcile.fallback_annual_yield", 0.08)
	v.SetDefault("reconcile.default_occupancy_pct", 70)
	v.SetDefault("reconcile.payback_cap_years", 99)
	v.SetDefault("reconcile.payback_floor_years", 0.5)
	v.SetDefault("reconcile.consistency_tolerance", 0.01)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
