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


package config

import (
	"log/slog"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GridSize != 4 || cfg.History != 30 || cfg.Format != "png" || cfg.DPR != 1 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if l, err := cfg.Level(); err != nil || l != slog.LevelInfo {
		t.Errorf("Level() = %v, %v", l, err)
	}
}

func TestEnvironment(t *testing.T) {
	t.Setenv("INKREPLAY_GRID_SIZE", "4")
	t.Setenv("INKREPLAY_FORMAT", "tiff")
	t.Setenv("INKREPLAY_LIVE_SIMPLIFY", "true")
	t.Setenv("INKREPLAY_DPR", "2")
	t.Setenv("INKREPLAY_LOG_LEVEL", "debug")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GridSize != 4 || cfg.Format != "tiff" || !cfg.LiveSimplify || cfg.DPR != 2 {
		t.Errorf("environment not applied: %+v", cfg)
	}
	if l, _ := cfg.Level(); l != slog.LevelDebug {
		t.Errorf("level %v", l)
	}
}

func TestInvalid(t *testing.T) {
	t.Setenv("INKREPLAY_GRID_SIZE", "0")
	if _, err := Load(); err == nil {
		t.Error("zero grid size accepted")
	}
	t.Setenv("INKREPLAY_GRID_SIZE", "many")
	if _, err := Load(); err == nil {
		t.Error("non-numeric grid size accepted")
	}

	cfg := Config{LogLevel: "loud"}
	if _, err := cfg.Level(); err == nil {
		t.Error("bad log level accepted")
	}
}
