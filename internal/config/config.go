package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvEpochs overrides training.epochs when set to an integer.
const EnvEpochs = "DMMONA_EPOCHS"

// #region config-types

// Config is the full recognized configuration surface. Unrecognized keys in
// the file are ignored.
type Config struct {
	Training     TrainingConfig     `mapstructure:"training"`
	Architecture ArchitectureConfig `mapstructure:"architecture"`
	Precision    PrecisionConfig    `mapstructure:"precision"`
	Logger       LoggerConfig       `mapstructure:"logger"`
	Store        StoreConfig        `mapstructure:"store"`
}

// TrainingConfig drives the control loop.
type TrainingConfig struct {
	Epochs         int           `mapstructure:"epochs"`
	BatchSize      int           `mapstructure:"batch_size"`
	LearningRate   float64       `mapstructure:"learning_rate"`
	LogInterval    int           `mapstructure:"log_interval"` // forecast moving-average window
	AdaptInterval  int           `mapstructure:"adapt_interval"`
	SampleInterval time.Duration `mapstructure:"sample_interval"`
}

// ArchitectureConfig drives model initialization and adaptation thresholds.
type ArchitectureConfig struct {
	InitialModel    string  `mapstructure:"initial_model"`
	PruneThreshold  float64 `mapstructure:"prune_threshold"`
	ExpandThreshold float64 `mapstructure:"expand_threshold"`
}

// PrecisionConfig holds the memory thresholds (GB) for tier selection.
type PrecisionConfig struct {
	HighThresholdGB float64 `mapstructure:"high_threshold_gb"`
	LowThresholdGB  float64 `mapstructure:"low_threshold_gb"`
}

// LoggerConfig configures the zap logger.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"` // empty = console only
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// StoreConfig configures the optional SQLite persistence.
type StoreConfig struct {
	Path string `mapstructure:"path"` // empty = persistence disabled
}

// #endregion config-types

// #region load

// Load reads configuration from the given YAML file. An empty path falls
// back to ./config.yaml; with no path and no file, defaults apply. An
// explicit path that cannot be read or parsed is an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("training.epochs", 10)
	v.SetDefault("training.batch_size", 32)
	v.SetDefault("training.learning_rate", 0.001)
	v.SetDefault("training.log_interval", 3)
	v.SetDefault("training.adapt_interval", 5)
	v.SetDefault("training.sample_interval", time.Second)
	v.SetDefault("architecture.initial_model", "baseline_cnn")
	v.SetDefault("architecture.prune_threshold", -0.2)
	v.SetDefault("architecture.expand_threshold", 0.2)
	v.SetDefault("precision.high_threshold_gb", 10.0)
	v.SetDefault("precision.low_threshold_gb", 6.0)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.max_size_mb", 10)
	v.SetDefault("logger.max_backups", 3)
}

func (c Config) validate() error {
	if c.Training.Epochs < 0 {
		return fmt.Errorf("training.epochs must not be negative")
	}
	if c.Training.LogInterval < 1 {
		return fmt.Errorf("training.log_interval must be at least 1")
	}
	if c.Training.AdaptInterval < 1 {
		return fmt.Errorf("training.adapt_interval must be at least 1")
	}
	if c.Architecture.InitialModel == "" {
		return fmt.Errorf("architecture.initial_model must not be empty")
	}
	return nil
}

// #endregion load

// #region env-override

// ApplyEnvOverrides applies the single supported environment override:
// EnvEpochs replaces training.epochs when it parses as an integer. A
// non-integer value is ignored with a warning.
func ApplyEnvOverrides(cfg *Config, logger *zap.Logger) {
	raw := os.Getenv(EnvEpochs)
	if raw == "" {
		return
	}
	epochs, err := strconv.Atoi(raw)
	if err != nil {
		logger.Warn("invalid epochs override; using configured value",
			zap.String("env", EnvEpochs),
			zap.String("value", raw))
		return
	}
	cfg.Training.Epochs = epochs
}

// #endregion env-override
