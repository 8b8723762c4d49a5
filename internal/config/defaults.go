package config

import "github.com/spf13/viper"

// SetDefaults registers a complete default topology so the tool produces a
// sensible graph with no config file at all. The shipped distributions are
// small but exercise every attribute domain.
func SetDefaults(v *viper.Viper) {
	// Logger
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "topoforge")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "red")
	v.SetDefault("logger.colors.panic", "red")
	v.SetDefault("logger.colors.fatal", "red")

	// Persistence (disabled until a URL is configured)
	v.SetDefault("postgres.url", "")

	// Generation engine
	v.SetDefault("generator.seed", 0)

	// Topology layers
	v.SetDefault("collection.collection_count", 3)
	v.SetDefault("collection.dataset_collection_count_map", "[1:1 2:1 3:1]")
	v.SetDefault("collection.system_collection_count_map", "[1:2 2:1]")

	v.SetDefault("dataset_collection.dataset_collection_count", 6)
	v.SetDefault("dataset_collection.dataset_count_map", "[0:1 5:2 10:2 20:1]")

	v.SetDefault("system_collection.system_collection_count", 4)
	v.SetDefault("system_collection.system_count_map", "[2:2 5:1 8:1]")

	v.SetDefault("dataset.dataset_count", 60)
	v.SetDefault("dataset.dataset_env_count_map",
		"[PRODUCTION_ENV:40 STAGING_ENV:10 DEVELOPMENT_ENV:8 TESTING_ENV:2]")
	v.SetDefault("dataset.dataset_slo_range_seconds.min", 60)
	v.SetDefault("dataset.dataset_slo_range_seconds.max", 2592000)

	v.SetDefault("system.system_count", 25)
	v.SetDefault("system.system_env_count_map",
		"[PRODUCTION_ENV:18 STAGING_ENV:4 DEVELOPMENT_ENV:3]")
	v.SetDefault("system.system_criticality_proba_map",
		"[NOT_CRITICAL:0.55 CRITICAL_CAN_CAUSE_S0_OUTAGE:0.1 CRITICAL_SIGNIFICANT_RUN_RATE:0.15 CRITICAL_OTHER:0.2]")
	v.SetDefault("system.system_inputs_count_map", "[0:3 1:8 2:6 3:4 5:3 8:1]")
	v.SetDefault("system.system_outputs_count_map", "[0:5 1:10 2:6 4:3 6:1]")

	// Per-edge attributes
	v.SetDefault("data_processing.dataset_impact_proba_map",
		"[DOWN:0.1 SEVERELY_DEGRADED:0.15 DEGRADED:0.3 OPPORTUNITY_LOSS:0.2 NONE:0.25]")
	v.SetDefault("data_processing.dataset_freshness_proba_map",
		"[IMMEDIATE:0.1 DAY:0.35 WEEK:0.25 EVENTUALLY:0.25 NEVER:0.05]")

	// Recovery characteristics per dataset collection
	v.SetDefault("data_integrity.volatility_proba_map", "[0:0.57 1:0.43]")
	v.SetDefault("data_integrity.restoration_range_seconds.min", 60)
	v.SetDefault("data_integrity.restoration_range_seconds.max", 86400)
	v.SetDefault("data_integrity.regeneration_range_seconds.min", 300)
	v.SetDefault("data_integrity.regeneration_range_seconds.max", 604800)
	v.SetDefault("data_integrity.reconstruction_range_seconds.min", 3600)
	v.SetDefault("data_integrity.reconstruction_range_seconds.max", 2592000)
}
