// The application's root configuration: logging and persistence settings plus
// the distribution tables the generator samples from, one section per domain
// area of the generated topology.
package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

var (
	instance *Config
	once     sync.Once
)

// Config is the root configuration structure for the entire application.
type Config struct {
	Logger            LoggerConfig            `mapstructure:"logger"`
	Postgres          PostgresConfig          `mapstructure:"postgres"`
	Generator         GeneratorConfig         `mapstructure:"generator"`
	Collection        CollectionConfig        `mapstructure:"collection"`
	DatasetCollection DatasetCollectionConfig `mapstructure:"dataset_collection"`
	SystemCollection  SystemCollectionConfig  `mapstructure:"system_collection"`
	Dataset           DatasetConfig           `mapstructure:"dataset"`
	System            SystemConfig            `mapstructure:"system"`
	DataProcessing    DataProcessingConfig    `mapstructure:"data_processing"`
	DataIntegrity     DataIntegrityConfig     `mapstructure:"data_integrity"`
}

// ColorConfig defines the color settings for different log levels.
// These are used for console output to make logs more readable.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" json:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" json:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" json:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" json:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" json:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" json:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" json:"fatal" yaml:"fatal"`
}

// LoggerConfig holds all the configuration for the logger.
// This is the single source of truth for this struct.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" json:"level" yaml:"level"`
	Format      string      `mapstructure:"format" json:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" json:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" json:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" json:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" json:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" json:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" json:"colors" yaml:"colors"`
}

// PostgresConfig holds settings for the optional graph persistence sink.
// An empty URL disables the sink.
type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

// GeneratorConfig holds run-level settings for the generation engine.
// A zero seed means "pick one and log it" so ad-hoc runs still record how to
// reproduce themselves.
type GeneratorConfig struct {
	Seed int64 `mapstructure:"seed"`
}

// RangeConfig is an inclusive [min, max] integer range. All ranged fields in
// the generated topology are expressed in seconds.
type RangeConfig struct {
	Min int64 `mapstructure:"min"`
	Max int64 `mapstructure:"max"`
}

// CollectionConfig sizes the top-level collection layer and carries the
// histograms deciding how many dataset/system collections each collection
// owns.
type CollectionConfig struct {
	Count                     int    `mapstructure:"collection_count"`
	DatasetCollectionCountMap string `mapstructure:"dataset_collection_count_map"`
	SystemCollectionCountMap  string `mapstructure:"system_collection_count_map"`
}

// DatasetCollectionConfig sizes the dataset-collection layer and carries the
// datasets-per-collection histogram.
type DatasetCollectionConfig struct {
	Count           int    `mapstructure:"dataset_collection_count"`
	DatasetCountMap string `mapstructure:"dataset_count_map"`
}

// SystemCollectionConfig sizes the system-collection layer and carries the
// systems-per-collection histogram.
type SystemCollectionConfig struct {
	Count          int    `mapstructure:"system_collection_count"`
	SystemCountMap string `mapstructure:"system_count_map"`
}

// DatasetConfig sizes the dataset population and carries its attribute
// distributions. The env map weights each environment by observed occurrence
// counts.
type DatasetConfig struct {
	Count       int         `mapstructure:"dataset_count"`
	EnvCountMap string      `mapstructure:"dataset_env_count_map"`
	SLORange    RangeConfig `mapstructure:"dataset_slo_range_seconds"`
}

// SystemConfig sizes the system population and carries its attribute
// distributions, including the per-system input/output fan-out histograms the
// processing-edge phase consumes.
type SystemConfig struct {
	Count               int    `mapstructure:"system_count"`
	EnvCountMap         string `mapstructure:"system_env_count_map"`
	CriticalityProbaMap string `mapstructure:"system_criticality_proba_map"`
	InputsCountMap      string `mapstructure:"system_inputs_count_map"`
	OutputsCountMap     string `mapstructure:"system_outputs_count_map"`
}

// DataProcessingConfig carries the per-edge attribute distributions.
type DataProcessingConfig struct {
	ImpactProbaMap    string `mapstructure:"dataset_impact_proba_map"`
	FreshnessProbaMap string `mapstructure:"dataset_freshness_proba_map"`
}

// DataIntegrityConfig carries the recovery-characteristics distributions
// sampled once per dataset collection.
type DataIntegrityConfig struct {
	VolatilityProbaMap  string      `mapstructure:"volatility_proba_map"`
	RestorationRange    RangeConfig `mapstructure:"restoration_range_seconds"`
	RegenerationRange   RangeConfig `mapstructure:"regeneration_range_seconds"`
	ReconstructionRange RangeConfig `mapstructure:"reconstruction_range_seconds"`
}

// Validate performs shallow structural checks and reports the first offending
// field. Encoding-level checks (bracket maps, probability sums, range bounds)
// happen when the distribution tables are built, before any entity exists.
func (c *Config) Validate() error {
	if c.Collection.Count < 0 {
		return fmt.Errorf("collection.collection_count must not be negative")
	}
	if c.DatasetCollection.Count < 0 {
		return fmt.Errorf("dataset_collection.dataset_collection_count must not be negative")
	}
	if c.SystemCollection.Count < 0 {
		return fmt.Errorf("system_collection.system_collection_count must not be negative")
	}
	if c.Dataset.Count < 0 {
		return fmt.Errorf("dataset.dataset_count must not be negative")
	}
	if c.System.Count < 0 {
		return fmt.Errorf("system.system_count must not be negative")
	}

	// Children require parents to attach to.
	if c.DatasetCollection.Count > 0 && c.Collection.Count == 0 {
		return fmt.Errorf("dataset_collection.dataset_collection_count is positive but collection.collection_count is zero")
	}
	if c.SystemCollection.Count > 0 && c.Collection.Count == 0 {
		return fmt.Errorf("system_collection.system_collection_count is positive but collection.collection_count is zero")
	}
	if c.Dataset.Count > 0 && c.DatasetCollection.Count == 0 {
		return fmt.Errorf("dataset.dataset_count is positive but dataset_collection.dataset_collection_count is zero")
	}
	if c.System.Count > 0 && c.SystemCollection.Count == 0 {
		return fmt.Errorf("system.system_count is positive but system_collection.system_collection_count is zero")
	}

	// Maps are required once the population that samples them is non-empty.
	if c.DatasetCollection.Count > 0 && c.Collection.DatasetCollectionCountMap == "" {
		return fmt.Errorf("collection.dataset_collection_count_map is a required configuration field")
	}
	if c.SystemCollection.Count > 0 && c.Collection.SystemCollectionCountMap == "" {
		return fmt.Errorf("collection.system_collection_count_map is a required configuration field")
	}
	if c.Dataset.Count > 0 {
		if c.DatasetCollection.DatasetCountMap == "" {
			return fmt.Errorf("dataset_collection.dataset_count_map is a required configuration field")
		}
		if c.Dataset.EnvCountMap == "" {
			return fmt.Errorf("dataset.dataset_env_count_map is a required configuration field")
		}
	}
	if c.System.Count > 0 {
		if c.SystemCollection.SystemCountMap == "" {
			return fmt.Errorf("system_collection.system_count_map is a required configuration field")
		}
		if c.System.EnvCountMap == "" {
			return fmt.Errorf("system.system_env_count_map is a required configuration field")
		}
		if c.System.CriticalityProbaMap == "" {
			return fmt.Errorf("system.system_criticality_proba_map is a required configuration field")
		}
		if c.System.InputsCountMap == "" {
			return fmt.Errorf("system.system_inputs_count_map is a required configuration field")
		}
		if c.System.OutputsCountMap == "" {
			return fmt.Errorf("system.system_outputs_count_map is a required configuration field")
		}
		if c.DataProcessing.ImpactProbaMap == "" {
			return fmt.Errorf("data_processing.dataset_impact_proba_map is a required configuration field")
		}
		if c.DataProcessing.FreshnessProbaMap == "" {
			return fmt.Errorf("data_processing.dataset_freshness_proba_map is a required configuration field")
		}
	}
	if c.DatasetCollection.Count > 0 && c.DataIntegrity.VolatilityProbaMap == "" {
		return fmt.Errorf("data_integrity.volatility_proba_map is a required configuration field")
	}
	return nil
}

// Load initializes the configuration singleton from Viper. The first call
// wins; later calls are no-ops so parallel tests cannot swap the instance
// under each other.
func Load(v *viper.Viper) error {
	var loadErr error
	once.Do(func() {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			loadErr = fmt.Errorf("error unmarshaling config: %w", err)
			return
		}
		if err := cfg.Validate(); err != nil {
			loadErr = fmt.Errorf("invalid configuration: %w", err)
			return
		}
		instance = &cfg
	})
	return loadErr
}

// Set stores a configuration instance directly, bypassing Load. Intended for
// tests and for callers that already unmarshaled and validated a Config.
func Set(cfg *Config) {
	instance = cfg
}

// Get returns the loaded configuration instance.
func Get() *Config {
	if instance == nil {
		panic("Configuration not initialized. Call config.Load() in the root command.")
	}
	return instance
}
