// Package config provides configuration management for the strikeout-edge pipeline.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// Environment variable placeholders in the YAML file (${VAR_NAME}) are expanded
// before parsing.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration populated with the reference pipeline
// constants. Used when no config file is supplied.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "strikeout-edge",
			Environment: "development",
			LogLevel:    "info",
		},
		Data: DataConfig{
			PitcherGameLog:       "new_data/stathead_player_pitching_game_data.csv",
			OpponentBatting:      "new_data/stathead_batting_game_data.csv",
			TeamPitching:         "new_data/stathead_team_pitching_game_data.csv",
			Props:                "data/betonline_pitcher_props.csv",
			MaxMalformedFraction: 0.25,
		},
		Features: FeaturesConfig{
			WindowSize: 3,
			MinInnings: 1.0,
		},
		Matching: MatchingConfig{
			FuzzyThreshold:  0.82,
			CacheTTLSeconds: 3600,
		},
		Model: ModelConfig{
			Trees:         150,
			MaxDepth:      6,
			MinLeafSize:   2,
			Seed:          42,
			ArtifactDir:   "models",
			EstimatorFile: "strikeout_model.json",
			SchemaFile:    "feature_order.json",
		},
		Scoring: ScoringConfig{
			EdgeThreshold: 0.75,
		},
		Store: StoreConfig{
			Driver:     "sqlite",
			SQLitePath: "strikeout_predictions.db",
		},
		Metrics: MetricsConfig{
			Enabled:       false,
			ListenAddress: ":9190",
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("STRIKEOUT_EDGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}
