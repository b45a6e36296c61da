package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TrainingConfig describes a training run for the vision classifier.
// Unrecognized optimizer/scheduler values fail at load time, not
// mid-training.
type TrainingConfig struct {
	DataDir        string  `yaml:"data_dir"`
	BatchSize      int     `yaml:"batch_size"`
	LearningRate   float64 `yaml:"learning_rate"`
	Epochs         int     `yaml:"epochs"`
	Optimizer      string  `yaml:"optimizer"`
	Scheduler      string  `yaml:"scheduler"`
	DropoutRate    float64 `yaml:"dropout_rate"`
	NumClasses     int     `yaml:"num_classes"`
	PretrainedPath string  `yaml:"pretrained_path,omitempty"`
}

var (
	validOptimizers = map[string]bool{"adam": true, "sgd": true}
	validSchedulers = map[string]bool{"step": true, "cosine": true, "plateau": true}
)

// DefaultTrainingConfig mirrors the defaults the model was originally
// trained with.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		DataDir:      "data",
		BatchSize:    32,
		LearningRate: 0.001,
		Epochs:       50,
		Optimizer:    "adam",
		Scheduler:    "plateau",
		DropoutRate:  0.5,
		NumClasses:   2,
	}
}

func (c *TrainingConfig) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning_rate must be > 0 (got %g)", c.LearningRate)
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be > 0 (got %d)", c.Epochs)
	}
	if !validOptimizers[c.Optimizer] {
		return fmt.Errorf("unrecognized optimizer: %q (want adam or sgd)", c.Optimizer)
	}
	if !validSchedulers[c.Scheduler] {
		return fmt.Errorf("unrecognized scheduler: %q (want step, cosine or plateau)", c.Scheduler)
	}
	if c.DropoutRate < 0 || c.DropoutRate >= 1 {
		return fmt.Errorf("dropout_rate must be in [0,1) (got %g)", c.DropoutRate)
	}
	if c.NumClasses < 2 {
		return fmt.Errorf("num_classes must be >= 2 (got %d)", c.NumClasses)
	}
	return nil
}

// LoadTrainingConfig reads and validates a YAML training config file.
func LoadTrainingConfig(path string) (*TrainingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read training config: %w", err)
	}
	cfg := DefaultTrainingConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse training config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
