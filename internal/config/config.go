// Package config provides configuration management for the strikeout-edge pipeline.
package config

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Data     DataConfig     `mapstructure:"data" validate:"required"`
	Features FeaturesConfig `mapstructure:"features" validate:"required"`
	Matching MatchingConfig `mapstructure:"matching" validate:"required"`
	Model    ModelConfig    `mapstructure:"model" validate:"required"`
	Scoring  ScoringConfig  `mapstructure:"scoring" validate:"required"`
	Store    StoreConfig    `mapstructure:"store" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DataConfig holds the paths of the scraped input tables. The scrapers
// themselves live outside this repository; we only consume their CSV output.
type DataConfig struct {
	PitcherGameLog       string  `mapstructure:"pitcher_game_log" validate:"required"`
	OpponentBatting      string  `mapstructure:"opponent_batting" validate:"required"`
	TeamPitching         string  `mapstructure:"team_pitching" validate:"required"`
	Props                string  `mapstructure:"props" validate:"required"`
	MaxMalformedFraction float64 `mapstructure:"max_malformed_fraction" validate:"gte=0,lte=1"`
}

// FeaturesConfig controls temporal feature construction.
type FeaturesConfig struct {
	// WindowSize is the trailing-game count for rolling means.
	WindowSize int `mapstructure:"window_size" validate:"required,gt=0"`
	// MinInnings is the single training-eligibility threshold on innings
	// pitched. Historical variants used 1.0 and 4.0; this is the one knob.
	MinInnings float64 `mapstructure:"min_innings" validate:"gte=0"`
}

// MatchingConfig controls entity name resolution.
type MatchingConfig struct {
	// FuzzyThreshold is the minimum normalized edit similarity for an
	// approximate name match to be accepted.
	FuzzyThreshold  float64 `mapstructure:"fuzzy_threshold" validate:"required,gte=0.5,lte=1"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// ModelConfig holds estimator hyperparameters and artifact locations.
type ModelConfig struct {
	Trees         int    `mapstructure:"trees" validate:"required,gt=0"`
	MaxDepth      int    `mapstructure:"max_depth" validate:"required,gt=0"`
	MinLeafSize   int    `mapstructure:"min_leaf_size" validate:"required,gt=0"`
	Seed          int64  `mapstructure:"seed"`
	ArtifactDir   string `mapstructure:"artifact_dir" validate:"required"`
	EstimatorFile string `mapstructure:"estimator_file" validate:"required"`
	SchemaFile    string `mapstructure:"schema_file" validate:"required"`
}

// ScoringConfig controls edge classification.
type ScoringConfig struct {
	// EdgeThreshold is the strict cutoff on |prediction - line| for a
	// favor-over / favor-under recommendation.
	EdgeThreshold float64 `mapstructure:"edge_threshold" validate:"required,gt=0"`
}

// StoreConfig selects where scored predictions are persisted.
type StoreConfig struct {
	Driver     string         `mapstructure:"driver" validate:"required,storedriver"`
	SQLitePath string         `mapstructure:"sqlite_path"`
	Postgres   DatabaseConfig `mapstructure:"postgres"`
}

// DatabaseConfig represents Postgres connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// MetricsConfig represents Prometheus exposure configuration
type MetricsConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ListenAddress string `mapstructure:"listen_address"`
}
