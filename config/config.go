/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package config assembles healthviz settings from built-in defaults, an
// optional YAML file, .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ilhamster/healthviz/chart"
	"github.com/ilhamster/healthviz/color"
)

// Environment variables overriding file settings.
const (
	EnvAddr            = "HEALTHVIZ_ADDR"
	EnvDataPath        = "HEALTHVIZ_DATA"
	EnvDataset         = "HEALTHVIZ_DATASET"
	EnvCacheSize       = "HEALTHVIZ_CACHE_SIZE"
	EnvMinSurfaceWidth = "HEALTHVIZ_MIN_SURFACE_WIDTH"
	EnvTransitionMs    = "HEALTHVIZ_TRANSITION_MS"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds every healthviz setting.
type Config struct {
	Addr string `yaml:"addr"`
	// DataPath is the CSV backing the default dataset.
	DataPath string `yaml:"data_path"`
	// Dataset names the default dataset.
	Dataset string `yaml:"dataset"`
	// Datasets maps further dataset names to CSV paths.
	Datasets        map[string]string `yaml:"datasets"`
	CacheSize       int               `yaml:"cache_size"`
	MinSurfaceWidth float64           `yaml:"min_surface_width"`
	TransitionMs    int               `yaml:"transition_ms"`
	Palette         color.Palette     `yaml:"palette"`
	LogLevel        string            `yaml:"log_level"`
	LogFormat       string            `yaml:"log_format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:            ":8080",
		DataPath:        "assets/data/data.csv",
		Dataset:         "states",
		CacheSize:       10,
		MinSurfaceWidth: chart.DefaultMinSurfaceWidth,
		TransitionMs:    int(chart.DefaultTransition / time.Millisecond),
		Palette:         color.DefaultPalette,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load returns the default configuration overlaid with the YAML file at path
// (if path is non-empty), then with the environment.  Each of envFiles that
// exists is loaded into the environment first; variables already set win.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
		cfg.Palette = cfg.Palette.WithDefaults()
	}
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	str(EnvAddr, &cfg.Addr)
	str(EnvDataPath, &cfg.DataPath)
	str(EnvDataset, &cfg.Dataset)
	str(EnvLogLevel, &cfg.LogLevel)
	str(EnvLogFormat, &cfg.LogFormat)
	if v, ok := os.LookupEnv(EnvCacheSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCacheSize, err)
		}
		cfg.CacheSize = n
	}
	if v, ok := os.LookupEnv(EnvMinSurfaceWidth); ok && v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMinSurfaceWidth, err)
		}
		cfg.MinSurfaceWidth = w
	}
	if v, ok := os.LookupEnv(EnvTransitionMs); ok && v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTransitionMs, err)
		}
		cfg.TransitionMs = ms
	}
	return nil
}

// Validate reports the first unusable setting.
func (cfg *Config) Validate() error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: empty address", ErrInvalid)
	case cfg.DataPath == "":
		return fmt.Errorf("%w: empty data path", ErrInvalid)
	case cfg.Dataset == "":
		return fmt.Errorf("%w: empty dataset name", ErrInvalid)
	case cfg.CacheSize <= 0:
		return fmt.Errorf("%w: cache size %d must be positive", ErrInvalid, cfg.CacheSize)
	case cfg.MinSurfaceWidth <= 0:
		return fmt.Errorf("%w: minimum surface width %v must be positive", ErrInvalid, cfg.MinSurfaceWidth)
	case cfg.TransitionMs < 0:
		return fmt.Errorf("%w: transition %dms is negative", ErrInvalid, cfg.TransitionMs)
	}
	if _, ok := cfg.Datasets[cfg.Dataset]; ok {
		return fmt.Errorf("%w: dataset %q is both the default and listed in datasets", ErrInvalid, cfg.Dataset)
	}
	if err := cfg.Palette.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// DatasetPaths returns every dataset name mapped to its CSV path, the
// default dataset included.
func (cfg *Config) DatasetPaths() map[string]string {
	ret := make(map[string]string, len(cfg.Datasets)+1)
	for name, path := range cfg.Datasets {
		ret[name] = path
	}
	ret[cfg.Dataset] = cfg.DataPath
	return ret
}

// ChartOptions returns the chart options the configuration implies.
func (cfg *Config) ChartOptions() []chart.Option {
	return []chart.Option{
		chart.WithMinSurfaceWidth(cfg.MinSurfaceWidth),
		chart.WithTransition(time.Duration(cfg.TransitionMs) * time.Millisecond),
		chart.WithPalette(cfg.Palette),
	}
}
