package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quarryml/quarry/trainer"
)

// RunConfig is the YAML shape of a training-run config file. Fields are
// pointers so "not set" is distinguishable from a zero value.
type RunConfig struct {
	EnableCheckpointing *bool                `yaml:"enable_checkpointing"`
	EnableProgressBar   *bool                `yaml:"enable_progress_bar"`
	ProgressRefreshRate *int                 `yaml:"progress_refresh_rate"`
	StochasticWeightAvg *bool                `yaml:"stochastic_weight_avg"`
	AccumGradBatches    *trainer.GradBatches `yaml:"accumulate_grad_batches"`
	WeightsSummary      *string              `yaml:"weights_summary"`
	MaxTime             *trainer.MaxTime     `yaml:"max_time"`
	DefaultRootDir      string               `yaml:"default_root_dir"`
	WeightsSavePath     string               `yaml:"weights_save_path"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// LoadRunConfig reads and decodes a run config file.
func LoadRunConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("read run config: %w", err)
	}
	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("decode run config %s: %w", path, err)
	}
	return cfg, nil
}

// Options maps the config onto trainer options, applying the defaults for
// anything unset.
func (c RunConfig) Options() trainer.Options {
	opts := trainer.DefaultOptions()
	if c.EnableCheckpointing != nil {
		opts.EnableCheckpointing = *c.EnableCheckpointing
	}
	if c.EnableProgressBar != nil {
		opts.EnableProgressBar = *c.EnableProgressBar
	}
	opts.ProgressRefreshRate = c.ProgressRefreshRate
	if c.StochasticWeightAvg != nil {
		opts.StochasticWeightAvg = *c.StochasticWeightAvg
	}
	opts.AccumulateGradBatches = c.AccumGradBatches
	opts.WeightsSummary = c.WeightsSummary
	opts.MaxTime = c.MaxTime
	opts.DefaultRootDir = c.DefaultRootDir
	opts.WeightsSavePath = c.WeightsSavePath
	return opts
}
