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


// Package worldink renders a layered, pannable and zoomable world map and
// lets the user paint onto its drawing surfaces with a pen or an eraser.
//
// An [Engine] owns all state of one map view. The host feeds it
// normalized pointer events, calls [Engine.Frame] once per display
// refresh, and shows the image returned by [Engine.Screen]. All methods
// must be called from a single goroutine.
package worldink

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/worldink/worldink/cache"
	"github.com/worldink/worldink/curve"
	"github.com/worldink/worldink/frame"
	"github.com/worldink/worldink/history"
	"github.com/worldink/worldink/internal/logging"
	"github.com/worldink/worldink/layer"
	"github.com/worldink/worldink/mapview"
	"github.com/worldink/worldink/stroke"
	"github.com/worldink/worldink/viewport"
)

// Layer ids registered by [New].
const (
	LayerTerrain     = "terrain"
	LayerTerritories = "territories"
	LayerGrid        = "grid"
	LayerConnections = "connections"
	LayerMarkers     = "markers"
	LayerDrawing     = "drawing"
	LayerLabels      = "labels"
	LayerCoordinates = "coordinates"
)

var (
	ErrUnknownLayer = errors.New("worldink: unknown drawing layer")
	ErrNotActive    = errors.New("worldink: no active stroke")
)

// Options configures an [Engine].
type Options struct {
	// GridSize is the size of a grid cell in map units. The map is 360 by
	// 180 cells.
	GridSize int

	// HistoryCapacity bounds both the operation history and the raster
	// snapshots of every drawing layer.
	HistoryCapacity int

	// DrawingLayers lists the ids of the layers that can be painted on.
	// The first one is the terrain layer; the others are drawn above the
	// map markers.
	DrawingLayers []string

	Stroke stroke.Options
	Style  stroke.Style
	Limits viewport.Limits

	// Worker moves the curve arithmetic of live strokes to a background
	// goroutine.
	Worker bool

	Land, Water color.NRGBA
}

// DefaultOptions returns the configuration of a 5400×2700 map with a
// terrain layer and one extra drawing layer.
func DefaultOptions() Options {
	return Options{
		GridSize:        15,
		HistoryCapacity: history.DefaultCapacity,
		DrawingLayers:   []string{LayerTerrain, LayerDrawing},
		Stroke:          stroke.DefaultOptions(),
		Style:           stroke.DefaultStyle(),
		Limits:          viewport.DefaultLimits,
		Land:            color.NRGBA{R: 226, G: 218, B: 190, A: 255},
		Water:           color.NRGBA{R: 158, G: 190, B: 214, A: 255},
	}
}

// MapData holds the entities drawn by the map layers.
type MapData struct {
	Locations   []mapview.Location
	Connections []mapview.Connection
	Territories []mapview.Territory
	Labels      []mapview.Label
}

// Engine is one interactive map view.
type Engine struct {
	opts   Options
	extent viewport.Extent
	view   viewport.State

	layers *layer.Manager
	caches map[string]*cache.Cache
	store  *stroke.Store
	hist   *history.History
	frames frame.Scheduler
	screen *image.RGBA

	worker     *curve.Worker
	renderer   *curve.Renderer
	generation uint64

	tool        stroke.Tool
	style       stroke.Style
	activeLayer string

	// live stroke state
	drawing     string // layer of the live stroke, "" if none
	pendingFrom int    // first point not yet drawn, -1 if up to date

	territories *mapview.Territories
	connections *mapview.Connections
	markers     *mapview.Markers
	labels      *mapview.Labels
	coords      *mapview.Coordinates
}

// New returns an engine with all map layers and drawing caches set up.
// The layers are initialized when the engine is attached to a host with
// [Engine.Attach]. If opts.Worker is set, the background worker runs until
// ctx is cancelled or the engine is closed.
func New(ctx context.Context, opts Options) (*Engine, error) {
	if opts.GridSize <= 0 {
		return nil, fmt.Errorf("worldink: invalid grid size %d", opts.GridSize)
	}
	if len(opts.DrawingLayers) == 0 {
		return nil, errors.New("worldink: no drawing layers")
	}
	if opts.HistoryCapacity < 1 {
		opts.HistoryCapacity = history.DefaultCapacity
	}

	e := &Engine{
		opts:        opts,
		extent:      viewport.MapExtent(opts.GridSize),
		layers:      layer.NewManager(),
		caches:      make(map[string]*cache.Cache),
		store:       stroke.NewStore(opts.Stroke),
		hist:        history.New(opts.HistoryCapacity),
		renderer:    curve.NewRenderer(),
		tool:        stroke.Pen,
		style:       opts.Style,
		activeLayer: opts.DrawingLayers[0],
		pendingFrom: -1,
	}
	e.view = viewport.Fit(e.extent, float64(e.extent.Width), float64(e.extent.Height), 1)

	copts := cache.Options{Capacity: opts.HistoryCapacity}
	for _, id := range opts.DrawingLayers {
		if _, dup := e.caches[id]; dup {
			return nil, fmt.Errorf("worldink: duplicate drawing layer %q", id)
		}
		c := cache.New(id, copts)
		if err := c.Initialize(e.extent.Width, e.extent.Height); err != nil {
			return nil, err
		}
		e.caches[id] = c
	}

	if err := e.addLayers(); err != nil {
		return nil, err
	}

	if opts.Worker {
		e.worker = curve.NewWorker(ctx)
	}
	return e, nil
}

func (e *Engine) addLayers() error {
	density := mapview.DefaultGridDensity()
	terrain := &mapview.Terrain{Extent: e.extent, Land: e.opts.Land, Water: e.opts.Water}
	base := &mapview.Surface{Source: e.caches[e.opts.DrawingLayers[0]]}
	e.territories = &mapview.Territories{}
	e.connections = &mapview.Connections{}
	e.markers = &mapview.Markers{Outline: color.NRGBA{A: 160}}
	e.labels = &mapview.Labels{Density: mapview.DefaultLabelDensity()}
	e.coords = &mapview.Coordinates{
		Extent:   e.extent,
		GridSize: e.opts.GridSize,
		Density:  density,
		Color:    color.NRGBA{R: 30, G: 30, B: 30, A: 220},
	}

	ls := []layer.Layer{
		{ID: e.opts.DrawingLayers[0], ZIndex: 0, Visible: true, Renderer: layer.RendererFunc(func(ctx *layer.Context) error {
			if err := terrain.Render(ctx); err != nil {
				return err
			}
			return base.Render(ctx)
		})},
		{ID: LayerTerritories, ZIndex: 10, Visible: true, Renderer: e.territories},
		{ID: LayerGrid, ZIndex: 20, Visible: true, Renderer: &mapview.Grid{Extent: e.extent, GridSize: e.opts.GridSize, Density: density}},
		{ID: LayerConnections, ZIndex: 30, Visible: true, Renderer: e.connections},
		{ID: LayerMarkers, ZIndex: 40, Visible: true, Renderer: e.markers},
	}
	for i, id := range e.opts.DrawingLayers[1:] {
		ls = append(ls, layer.Layer{
			ID:       id,
			ZIndex:   50 + i,
			Visible:  true,
			Renderer: &mapview.Surface{Source: e.caches[id]},
		})
	}
	ls = append(ls,
		layer.Layer{ID: LayerLabels, ZIndex: 80, Visible: true, Renderer: e.labels},
		layer.Layer{ID: LayerCoordinates, ZIndex: 90, Visible: true, Renderer: e.coords},
	)
	return e.layers.AddLayers(ls...)
}

// Close stops the background worker, if any.
func (e *Engine) Close() {
	if e.worker != nil {
		e.worker.Close()
	}
}

// Attach connects the engine to a host surface of the given size in screen
// pixels. The view is reset to show the whole map.
func (e *Engine) Attach(width, height, dpr float64) {
	e.view = viewport.Fit(e.extent, width, height, dpr)
	e.layers.Attach(e.view)
}

// Extent returns the logical map size.
func (e *Engine) Extent() viewport.Extent {
	return e.extent
}

// View returns the current view.
func (e *Engine) View() viewport.State {
	return e.view
}

// Layers returns the layer manager, for hosts that add layers of their own.
func (e *Engine) Layers() *layer.Manager {
	return e.layers
}

// Cache returns the raster cache of a drawing layer, or nil.
func (e *Engine) Cache(id string) *cache.Cache {
	return e.caches[id]
}

// SetMapData replaces the map entities and schedules the affected layers
// for rendering.
func (e *Engine) SetMapData(d MapData) {
	e.territories.Items = d.Territories
	e.connections.Items = d.Connections
	e.markers.Items = d.Locations
	e.labels.Items = d.Labels
	for _, id := range []string{LayerTerritories, LayerConnections, LayerMarkers, LayerLabels} {
		e.invalidate(id)
	}
}

// Resize adapts the view to a new host size. The map coordinates of all
// content are unchanged.
func (e *Engine) Resize(width, height float64) {
	e.layers.ResizeAll(width, height)
	e.view = e.layers.View()
}

// Pan moves the view by (dx, dy) screen pixels.
func (e *Engine) Pan(dx, dy float64) {
	e.setView(e.view.Pan(dx, dy))
}

// ZoomAt scales the view by factor, keeping the map point under the screen
// position (x, y) in place.
func (e *Engine) ZoomAt(x, y, factor float64) {
	e.setView(e.view.ZoomAt(vecOf(x, y), factor, e.opts.Limits))
}

func (e *Engine) setView(v viewport.State) {
	e.view = v
	e.layers.SetView(v)
}

// SetTool selects the tool for the next stroke.
func (e *Engine) SetTool(t stroke.Tool) {
	e.tool = t
}

// Tool returns the selected tool.
func (e *Engine) Tool() stroke.Tool {
	return e.tool
}

// SetStyle sets the brush style for the next stroke.
func (e *Engine) SetStyle(st stroke.Style) {
	e.style = st
}

// Style returns the brush style.
func (e *Engine) Style() stroke.Style {
	return e.style
}

// SetActiveLayer selects the drawing layer the next stroke paints on.
func (e *Engine) SetActiveLayer(id string) error {
	if _, ok := e.caches[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayer, id)
	}
	e.activeLayer = id
	return nil
}

// ActiveLayer returns the id of the selected drawing layer.
func (e *Engine) ActiveLayer() string {
	return e.activeLayer
}

// SetLiveSimplify switches live simplification, starting with the next
// stroke.
func (e *Engine) SetLiveSimplify(on bool) {
	e.store.SetLiveSimplify(on)
}

func (e *Engine) invalidate(id string) {
	if err := e.layers.Invalidate(id); err != nil {
		logging.Logger().Warn("worldink: invalidate failed", "layer", id, "err", err)
	}
}

// Frame runs the pending draw request and renders the layers that
// changed. It reports whether anything was drawn. Hosts call Frame once
// per display refresh.
func (e *Engine) Frame() bool {
	flushed := e.frames.Flush()
	n := e.layers.RenderDirty()
	return flushed || n > 0
}

// Screen composites all visible layers and returns the result, in canvas
// pixels. The image is reused by the next call.
func (e *Engine) Screen() *image.RGBA {
	w, h := e.view.CanvasSize()
	if e.screen == nil || e.screen.Rect.Dx() != w || e.screen.Rect.Dy() != h {
		e.screen = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		clear(e.screen.Pix)
	}
	e.layers.Composite(e.screen)
	return e.screen
}
