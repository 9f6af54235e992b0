// worldink - stroke rendering for layered world maps
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


// Package config reads the environment configuration of the worldink
// commands.
package config

import (
	"fmt"
	"log/slog"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to all variable names.
const Prefix = "INKREPLAY"

// Config holds the settings of cmd/inkreplay.
type Config struct {
	GridSize     int     `envconfig:"GRID_SIZE" default:"4"`
	History      int     `envconfig:"HISTORY" default:"30"`
	Format       string  `envconfig:"FORMAT" default:"png"`
	OutDir       string  `envconfig:"OUT_DIR" default:"out"`
	ViewWidth    float64 `envconfig:"VIEW_WIDTH" default:"1200"`
	ViewHeight   float64 `envconfig:"VIEW_HEIGHT" default:"600"`
	DPR          float64 `envconfig:"DPR" default:"1"`
	LiveSimplify bool    `envconfig:"LIVE_SIMPLIFY" default:"false"`
	Worker       bool    `envconfig:"WORKER" default:"false"`
	LogLevel     string  `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	if cfg.GridSize <= 0 {
		return nil, fmt.Errorf("config: %s_GRID_SIZE must be positive, got %d", Prefix, cfg.GridSize)
	}
	if cfg.ViewWidth <= 0 || cfg.ViewHeight <= 0 || cfg.DPR <= 0 {
		return nil, fmt.Errorf("config: invalid view %gx%g at ratio %g", cfg.ViewWidth, cfg.ViewHeight, cfg.DPR)
	}
	return &cfg, nil
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: %s_LOG_LEVEL: %w", Prefix, err)
	}
	return l, nil
}
