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


package worldink

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"slices"
	"testing"

	"seehuhn.de/go/geom/vec"

	"github.com/worldink/worldink/cache"
	"github.com/worldink/worldink/history"
	"github.com/worldink/worldink/stroke"
)

// newTestEngine returns an engine for a 360×180 map shown at scale 1, so
// that screen and map coordinates coincide.
func newTestEngine(t *testing.T, modify func(*Options)) *Engine {
	t.Helper()
	opts := DefaultOptions()
	opts.GridSize = 1
	if modify != nil {
		modify(&opts)
	}
	e, err := New(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)
	e.Attach(360, 180, 1)
	return e
}

func ev(x, y float64) stroke.PointerEvent {
	return stroke.PointerEvent{Sample: stroke.Sample{ScreenX: x, ScreenY: y, Pressure: 0.5}}
}

// draw feeds a complete stroke through pts, flushing a frame after every
// move.
func draw(t *testing.T, e *Engine, pts [][2]float64) history.Item {
	t.Helper()
	if err := e.PointerDown(ev(pts[0][0], pts[0][1])); err != nil {
		t.Fatal(err)
	}
	for _, p := range pts[1 : len(pts)-1] {
		e.PointerMove(ev(p[0], p[1]))
		e.Frame()
	}
	last := pts[len(pts)-1]
	it, err := e.PointerUp(ev(last[0], last[1]))
	if err != nil {
		t.Fatal(err)
	}
	return it
}

var scenario = [][2]float64{{10, 10}, {15, 11}, {20, 10}, {25, 11}, {30, 10}}

func TestSimpleStroke(t *testing.T) {
	e := newTestEngine(t, nil)
	it := draw(t, e, scenario)

	if n := e.HistoryCount(); n != 1 {
		t.Fatalf("history has %d items, want 1", n)
	}
	if n := len(it.Points); n < 2 || n > 5 {
		t.Errorf("stored stroke has %d points", n)
	}
	if it.Kind != history.KindStroke || it.LayerID != LayerTerrain {
		t.Errorf("item %v on %q", it.Kind, it.LayerID)
	}
	if !e.CanUndo() {
		t.Error("CanUndo is false")
	}
	img := e.Cache(LayerTerrain).Image()
	for _, p := range scenario {
		if a := img.RGBAAt(int(p[0]), int(p[1])).A; a == 0 {
			t.Errorf("point %v not painted", p)
		}
	}
	if d := e.Debug(); d.StrokeState != "idle" || d.Caches[0].Live {
		t.Errorf("engine not idle after stroke: %+v", d)
	}
}

func TestEraserOverPen(t *testing.T) {
	e := newTestEngine(t, nil)
	draw(t, e, scenario)
	pen := slices.Clone(e.Cache(LayerTerrain).Image().Pix)

	e.SetTool(stroke.Eraser)
	draw(t, e, scenario)
	for i := 3; i < len(e.Cache(LayerTerrain).Image().Pix); i += 4 {
		if a := e.Cache(LayerTerrain).Image().Pix[i]; a != 0 {
			t.Fatalf("pixel %d has alpha %d after erasing", i/4, a)
		}
	}

	if _, ok := e.Undo(); !ok {
		t.Fatal("undo failed")
	}
	if !slices.Equal(pen, e.Cache(LayerTerrain).Image().Pix) {
		t.Error("undo did not restore the pen stroke")
	}
}

func TestUndoRedo(t *testing.T) {
	e := newTestEngine(t, nil)
	draw(t, e, scenario)
	if err := e.SetActiveLayer(LayerDrawing); err != nil {
		t.Fatal(err)
	}
	e.SetStyle(stroke.Style{LineWidth: 6, Color: color.NRGBA{R: 200, A: 128}, Tension: 0.5})
	draw(t, e, [][2]float64{{50, 50}, {60, 70}, {80, 60}, {90, 90}, {120, 95}})

	terrain := slices.Clone(e.Cache(LayerTerrain).Image().Pix)
	drawing := slices.Clone(e.Cache(LayerDrawing).Image().Pix)

	it, ok := e.Undo()
	if !ok || it.LayerID != LayerDrawing {
		t.Fatalf("undo returned %+v, %t", it, ok)
	}
	if !slices.Equal(terrain, e.Cache(LayerTerrain).Image().Pix) {
		t.Error("undo on the drawing layer changed the terrain")
	}
	for _, v := range e.Cache(LayerDrawing).Image().Pix {
		if v != 0 {
			t.Fatal("drawing layer not empty after undo")
		}
	}
	if !e.CanRedo() {
		t.Error("CanRedo false after undo")
	}
	if _, ok := e.Redo(); !ok {
		t.Fatal("redo failed")
	}
	if !slices.Equal(drawing, e.Cache(LayerDrawing).Image().Pix) {
		t.Error("redo is not bit-identical")
	}

	e.Undo()
	e.Undo()
	if _, ok := e.Undo(); ok {
		t.Error("undo beyond the history succeeded")
	}
	for _, v := range e.Cache(LayerTerrain).Image().Pix {
		if v != 0 {
			t.Fatal("terrain not empty after undoing everything")
		}
	}
}

func TestResizeMidSession(t *testing.T) {
	opts := DefaultOptions()
	e, err := New(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	e.Attach(400, 200, 2)

	e.Resize(300, 250)
	if w, h := e.Cache(LayerTerrain).Size(); w != 5400 || h != 2700 {
		t.Errorf("cache size %dx%d after resize", w, h)
	}
	v := e.View()
	if v.Width != 300 || v.Height != 250 {
		t.Errorf("view size %gx%g", v.Width, v.Height)
	}
	for _, l := range e.Debug().Layers {
		if l.Width != 600 || l.Height != 500 {
			t.Errorf("layer %s is %dx%d, want 600x500", l.ID, l.Width, l.Height)
		}
	}
	for _, p := range []vec.Vec2{{}, {X: 123.5, Y: 77}, {X: 599, Y: 499}} {
		got := v.MapToCanvas(v.CanvasToMap(p))
		if math.Abs(got.X-p.X) > 1e-9 || math.Abs(got.Y-p.Y) > 1e-9 {
			t.Errorf("round trip %v -> %v", p, got)
		}
	}
}

func TestFrameCoalescing(t *testing.T) {
	e := newTestEngine(t, nil)
	if err := e.PointerDown(ev(10, 10)); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 10; i++ {
		e.PointerMove(ev(10+float64(i)*3, 10+float64(i%2)))
	}
	d := e.Debug()
	if d.FramesCancelled == 0 || d.FramesFlushed != 0 {
		t.Errorf("frames before flush: %+v", d)
	}
	if e.Cache(LayerTerrain).Image().RGBAAt(20, 10).A != 0 {
		t.Error("stroke drawn before the frame")
	}
	e.Frame()
	if e.Cache(LayerTerrain).Image().RGBAAt(20, 10).A == 0 {
		t.Error("live stroke not drawn by the frame")
	}
	if _, err := e.PointerUp(ev(45, 10)); err != nil {
		t.Fatal(err)
	}
	if e.HistoryCount() != 1 {
		t.Errorf("history count %d", e.HistoryCount())
	}
}

func TestStrayPointerEvents(t *testing.T) {
	e := newTestEngine(t, nil)
	e.PointerMove(ev(5, 5))
	if _, err := e.PointerUp(ev(5, 5)); !errors.Is(err, ErrNotActive) {
		t.Errorf("stray pointer up: %v", err)
	}
	if e.HistoryCount() != 0 {
		t.Error("stray events created history")
	}

	// a second pointer down abandons the first stroke
	e.PointerDown(ev(10, 10))
	e.PointerMove(ev(20, 20))
	draw(t, e, scenario)
	if e.HistoryCount() != 1 {
		t.Errorf("history count %d, want 1", e.HistoryCount())
	}
	if u, _ := e.Cache(LayerTerrain).Depth(); u != 1 {
		t.Errorf("cache undo depth %d, want 1", u)
	}
}

func TestCancelStroke(t *testing.T) {
	e := newTestEngine(t, nil)
	e.PointerDown(ev(10, 10))
	for _, p := range scenario[1:] {
		e.PointerMove(ev(p[0], p[1]))
	}
	e.Frame()
	e.CancelStroke()
	for _, v := range e.Cache(LayerTerrain).Image().Pix {
		if v != 0 {
			t.Fatal("cancelled stroke left pixels")
		}
	}
	if e.CanUndo() || e.Drawing() {
		t.Error("cancelled stroke recorded")
	}
}

func TestCancelAfterUndo(t *testing.T) {
	e := newTestEngine(t, nil)
	draw(t, e, scenario)
	drawn := slices.Clone(e.Cache(LayerTerrain).Image().Pix)
	if _, ok := e.Undo(); !ok {
		t.Fatal("undo failed")
	}

	// strokes abandoned by an explicit cancel and by a second pointer down
	e.PointerDown(ev(50, 50))
	e.PointerMove(ev(60, 55))
	e.Frame()
	e.CancelStroke()
	e.PointerDown(ev(70, 70))
	e.PointerDown(ev(80, 70))
	e.CancelStroke()

	if !e.CanRedo() {
		t.Fatal("redo lost after cancelled strokes")
	}
	if _, r := e.Cache(LayerTerrain).Depth(); r != 1 {
		t.Fatalf("cache redo depth %d, want 1", r)
	}
	if _, ok := e.Redo(); !ok {
		t.Fatal("redo failed")
	}
	if !slices.Equal(drawn, e.Cache(LayerTerrain).Image().Pix) {
		t.Error("redone stroke differs from the original raster")
	}
}

func TestWorkerMatchesSync(t *testing.T) {
	sync := newTestEngine(t, nil)
	async := newTestEngine(t, func(o *Options) { o.Worker = true })
	pts := [][2]float64{{20, 20}, {40, 30}, {60, 25}, {80, 50}, {100, 45}, {120, 80}, {140, 60}}
	draw(t, sync, pts)
	draw(t, async, pts)
	if !slices.Equal(sync.Cache(LayerTerrain).Image().Pix, async.Cache(LayerTerrain).Image().Pix) {
		t.Error("worker engine produced a different raster")
	}
}

func TestLiveSimplify(t *testing.T) {
	e := newTestEngine(t, func(o *Options) { o.Stroke.LiveSimplify = true })
	var pts [][2]float64
	for i := range 60 {
		pts = append(pts, [2]float64{10 + float64(i)*2, 40 + 10*math.Sin(float64(i)/6)})
	}
	it := draw(t, e, pts)
	if len(it.Points) >= len(pts) {
		t.Errorf("%d points stored for %d samples", len(it.Points), len(pts))
	}
	if e.Cache(LayerTerrain).Image().RGBAAt(10, 40).A == 0 {
		t.Error("stroke start not painted")
	}
}

func TestBaseImageAndClear(t *testing.T) {
	e := newTestEngine(t, nil)
	src := image.NewRGBA(image.Rect(0, 0, 100, 50))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	if err := e.LoadBaseImage(LayerTerrain, buf.Bytes()); err != nil {
		t.Fatal(err)
	}
	c := e.Cache(LayerTerrain)
	if !c.HasBaseImage() {
		t.Fatal("no base image")
	}
	// centered: 100×50 inside 360×180 starts at (130, 65)
	if a := c.Image().RGBAAt(180, 90).A; a != 255 {
		t.Errorf("centre alpha %d", a)
	}
	if a := c.Image().RGBAAt(129, 90).A; a != 0 {
		t.Errorf("outside alpha %d", a)
	}
	base := slices.Clone(c.Image().Pix)

	draw(t, e, scenario)
	if err := e.Clear(LayerTerrain); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(base, c.Image().Pix) {
		t.Error("clear did not restore the base image")
	}
	if n := e.HistoryCount(); n != 3 {
		t.Errorf("history count %d, want 3", n)
	}

	if err := e.LoadBaseImage(LayerTerrain, []byte("not an image")); err == nil {
		t.Error("garbage accepted")
	}
	if err := e.LoadBaseImage("nope", buf.Bytes()); !errors.Is(err, ErrUnknownLayer) {
		t.Errorf("unknown layer: %v", err)
	}
}

func TestRebuild(t *testing.T) {
	e := newTestEngine(t, nil)
	draw(t, e, scenario)
	e.SetTool(stroke.Eraser)
	draw(t, e, [][2]float64{{12, 5}, {12, 9}, {12, 13}, {12, 17}})
	e.SetTool(stroke.Pen)
	draw(t, e, [][2]float64{{40, 40}, {50, 60}, {70, 50}, {90, 70}})
	want := slices.Clone(e.Cache(LayerTerrain).Image().Pix)

	if err := e.Rebuild(LayerTerrain); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(want, e.Cache(LayerTerrain).Image().Pix) {
		t.Error("rebuild differs")
	}
	if it, ok := e.hist.Current(); !ok || it.Kind != history.KindRepaint {
		t.Errorf("last item %+v", it)
	}
	e.Undo()
	if !slices.Equal(want, e.Cache(LayerTerrain).Image().Pix) {
		t.Error("undo of rebuild changed the raster")
	}
}

func TestExport(t *testing.T) {
	e := newTestEngine(t, nil)
	draw(t, e, scenario)

	data, err := e.ExportLayer(LayerTerrain, cache.PNG)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 360 || b.Dy() != 180 {
		t.Errorf("exported size %v", b)
	}
	if _, err := e.ExportLayer("nope", cache.PNG); !errors.Is(err, ErrUnknownLayer) {
		t.Errorf("unknown layer: %v", err)
	}

	all, err := e.ExportAll(context.Background(), cache.BMP)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || len(all[LayerTerrain]) == 0 || len(all[LayerDrawing]) == 0 {
		t.Errorf("ExportAll returned %d layers", len(all))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.ExportAll(ctx, cache.PNG); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled export: %v", err)
	}
}

func TestScreen(t *testing.T) {
	e := newTestEngine(t, nil)
	e.SetMapData(MapData{})
	draw(t, e, scenario)
	e.Frame()
	s := e.Screen()
	if b := s.Bounds(); b.Dx() != 360 || b.Dy() != 180 {
		t.Fatalf("screen %v", b)
	}
	if c := s.RGBAAt(200, 150); c.A != 255 {
		t.Errorf("screen pixel %v not opaque", c)
	}

	terrain := e.Layers().Surface(LayerTerrain)
	land := DefaultOptions().Land
	if c := terrain.RGBAAt(200, 150); c != (color.RGBA{R: land.R, G: land.G, B: land.B, A: 255}) {
		t.Errorf("terrain pixel %v", c)
	}
	// the pen is black
	if c := terrain.RGBAAt(20, 10); c.R > 100 {
		t.Errorf("stroke pixel %v", c)
	}
	for _, l := range e.Debug().Layers {
		if l.Failures != 0 {
			t.Errorf("layer %s failed: %s", l.ID, l.LastError)
		}
	}
}
