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


package worldink_test

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"testing"

	"github.com/worldink/worldink"
	"github.com/worldink/worldink/testcases"
)

func TestScenarios(t *testing.T) {
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, sc := range testcases.All[category] {
			t.Run(category+"_"+sc.Name, func(t *testing.T) {
				opts := worldink.DefaultOptions()
				opts.GridSize = 1
				e, err := worldink.New(context.Background(), opts)
				if err != nil {
					t.Fatal(err)
				}
				defer e.Close()
				e.Attach(360, 180, 1)

				if err := testcases.Replay(e, sc, 1); err != nil {
					t.Fatal(err)
				}
				if got := e.HistoryCount(); got != sc.WantHistory {
					t.Errorf("history count = %d, want %d", got, sc.WantHistory)
				}
				if e.Drawing() {
					t.Error("stroke still active after replay")
				}

				before := layerPixels(e, opts.DrawingLayers)
				n := 0
				for e.CanUndo() {
					if _, ok := e.Undo(); !ok {
						t.Fatal("Undo failed although CanUndo")
					}
					n++
				}
				for range n {
					if _, ok := e.Redo(); !ok {
						t.Fatal("Redo failed")
					}
				}
				after := layerPixels(e, opts.DrawingLayers)
				for id, pix := range before {
					if !bytes.Equal(pix, after[id]) {
						t.Errorf("layer %q differs after undo/redo round trip", id)
					}
				}
			})
		}
	}
}

func layerPixels(e *worldink.Engine, ids []string) map[string][]byte {
	res := make(map[string][]byte, len(ids))
	for _, id := range ids {
		res[id] = bytes.Clone(e.Cache(id).Image().Pix)
	}
	return res
}
