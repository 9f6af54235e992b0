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


// Command inkreplay replays the built-in drawing scenarios and writes the
// resulting layer rasters and screen images to a directory.
//
// The command is configured through INKREPLAY_* environment variables, see
// package internal/config.
package main

import (
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/worldink/worldink"
	"github.com/worldink/worldink/cache"
	"github.com/worldink/worldink/internal/config"
	"github.com/worldink/worldink/testcases"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "inkreplay:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	worldink.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	format, err := cache.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return err
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, sc := range testcases.All[category] {
			name := category + "_" + sc.Name
			if err := replay(ctx, cfg, format, name, sc); err != nil {
				return err
			}
		}
	}
	return nil
}

func replay(ctx context.Context, cfg *config.Config, format cache.Format, name string, sc testcases.Scenario) error {
	opts := worldink.DefaultOptions()
	opts.GridSize = cfg.GridSize
	opts.HistoryCapacity = cfg.History
	opts.Worker = cfg.Worker

	e, err := worldink.New(ctx, opts)
	if err != nil {
		return err
	}
	defer e.Close()
	e.SetLiveSimplify(cfg.LiveSimplify)
	e.Attach(cfg.ViewWidth, cfg.ViewHeight, cfg.DPR)

	if err := testcases.Replay(e, sc, cfg.GridSize); err != nil {
		return err
	}
	if n := e.HistoryCount(); n != sc.WantHistory {
		worldink.Logger().Warn("unexpected history length",
			"scenario", name, "got", n, "want", sc.WantHistory)
	}

	// walk the history back and forth so that every snapshot is used once
	undone := 0
	for e.CanUndo() {
		e.Undo()
		undone++
	}
	for range undone {
		e.Redo()
	}
	e.Frame()

	rasters, err := e.ExportAll(ctx, format)
	if err != nil {
		return err
	}
	for id, data := range rasters {
		fname := filepath.Join(cfg.OutDir, fmt.Sprintf("%s-%s.%s", name, id, format))
		if err := os.WriteFile(fname, data, 0o644); err != nil {
			return err
		}
	}

	f, err := os.Create(filepath.Join(cfg.OutDir, name+"-screen.png"))
	if err != nil {
		return err
	}
	if err := png.Encode(f, e.Screen()); err != nil {
		f.Close()
		return err
	}
	worldink.Logger().Info("scenario replayed", "scenario", name, "history", e.HistoryCount(), "layers", len(rasters))
	return f.Close()
}
