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


// Package layer manages the ordered stack of map rendering surfaces.
//
// Layers are peers. Each has its own surface, sized to the host canvas in
// device pixels, and a [Renderer] that draws into it. The only state layers
// share is the view they all read. The manager renders layers in z-order
// and composites their surfaces onto the screen.
package layer

import (
	"errors"
	"fmt"
	"image"
	"runtime/debug"
	"slices"

	"golang.org/x/image/draw"
	"seehuhn.de/go/geom/matrix"

	"github.com/worldink/worldink/internal/logging"
	"github.com/worldink/worldink/viewport"
)

var (
	ErrUnknownLayer   = errors.New("layer: unknown layer")
	ErrDuplicateLayer = errors.New("layer: duplicate layer id")
)

// Context is passed to a [Renderer].
type Context struct {
	Layer   string
	Surface *image.RGBA // cleared before each call
	View    viewport.State
}

// Transform returns the map to canvas transformation for this render.
func (c *Context) Transform() matrix.Matrix {
	return c.View.TransformParams()
}

// Renderer draws a layer.
type Renderer interface {
	Render(ctx *Context) error
}

// RendererFunc adapts a function to the [Renderer] interface.
type RendererFunc func(ctx *Context) error

func (f RendererFunc) Render(ctx *Context) error {
	return f(ctx)
}

// Destroyer is implemented by renderers that hold resources to release
// when their layer is removed.
type Destroyer interface {
	Destroy()
}

// Layer describes a surface to register.
type Layer struct {
	ID       string
	ZIndex   int
	Visible  bool
	Renderer Renderer
}

type entry struct {
	Layer
	seq      int // insertion order, for stable sorting
	surface  *image.RGBA
	dirty    bool
	renders  int
	failures int
	lastErr  error
}

// Manager is the layer stack. It is not safe for concurrent use.
type Manager struct {
	layers   []*entry // sorted by ZIndex, then insertion order
	byID     map[string]*entry
	seq      int
	attached bool
	view     viewport.State
}

// NewManager returns an empty, detached manager.
func NewManager() *Manager {
	return &Manager{byID: make(map[string]*entry)}
}

// Attach connects the manager to a host canvas described by view and
// initializes all layers added so far.
func (m *Manager) Attach(view viewport.State) {
	m.attached = true
	m.view = view
	for _, e := range m.layers {
		m.init(e)
	}
	logging.Logger().Info("layer: attached", "layers", len(m.layers), "width", view.Width, "height", view.Height)
}

// Detach releases all surfaces. The layers stay registered and are
// initialized again by the next Attach.
func (m *Manager) Detach() {
	for _, e := range m.layers {
		e.surface = nil
	}
	m.attached = false
}

// Attached reports whether the manager is attached to a host.
func (m *Manager) Attached() bool {
	return m.attached
}

// View returns the current view.
func (m *Manager) View() viewport.State {
	return m.view
}

func (m *Manager) init(e *entry) {
	w, h := m.view.CanvasSize()
	if w <= 0 || h <= 0 {
		e.surface = nil
		return
	}
	if e.surface == nil || e.surface.Rect.Dx() != w || e.surface.Rect.Dy() != h {
		e.surface = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	e.dirty = true
}

// AddLayer registers l. If the manager is attached, the layer's surface is
// allocated immediately, otherwise on Attach.
func (m *Manager) AddLayer(l Layer) error {
	if l.ID == "" {
		return fmt.Errorf("layer: empty id")
	}
	if _, ok := m.byID[l.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateLayer, l.ID)
	}
	e := &entry{Layer: l, seq: m.seq}
	m.seq++
	m.byID[l.ID] = e
	m.layers = append(m.layers, e)
	m.sort()
	if m.attached {
		m.init(e)
	}
	logging.Logger().Info("layer: added", "layer", l.ID, "z", l.ZIndex, "deferred", !m.attached)
	return nil
}

// AddLayers registers several layers. Layers that cannot be added are
// skipped and reported in the returned error.
func (m *Manager) AddLayers(ls ...Layer) error {
	var errs []error
	for _, l := range ls {
		if err := m.AddLayer(l); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RemoveLayer destroys and unregisters the layer id.
func (m *Manager) RemoveLayer(id string) error {
	e, err := m.get(id)
	if err != nil {
		return err
	}
	delete(m.byID, id)
	m.layers = slices.DeleteFunc(m.layers, func(x *entry) bool { return x == e })
	e.surface = nil
	if d, ok := e.Renderer.(Destroyer); ok {
		d.Destroy()
	}
	logging.Logger().Info("layer: removed", "layer", id)
	return nil
}

func (m *Manager) get(id string) (*entry, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayer, id)
	}
	return e, nil
}

func (m *Manager) sort() {
	slices.SortStableFunc(m.layers, func(a, b *entry) int {
		if a.ZIndex != b.ZIndex {
			return a.ZIndex - b.ZIndex
		}
		return a.seq - b.seq
	})
}

// SetVisible shows or hides a layer. Hidden layers keep their state.
func (m *Manager) SetVisible(id string, visible bool) error {
	e, err := m.get(id)
	if err != nil {
		return err
	}
	if visible && !e.Visible {
		e.dirty = true
	}
	e.Visible = visible
	return nil
}

// SetZIndex moves a layer in the stack.
func (m *Manager) SetZIndex(id string, z int) error {
	e, err := m.get(id)
	if err != nil {
		return err
	}
	e.ZIndex = z
	m.sort()
	return nil
}

// Layers returns the layer ids in z-order, lowest first.
func (m *Manager) Layers() []string {
	ids := make([]string, len(m.layers))
	for i, e := range m.layers {
		ids[i] = e.ID
	}
	return ids
}

// Surface returns the surface of a layer, or nil if it is not initialized.
func (m *Manager) Surface(id string) *image.RGBA {
	if e, ok := m.byID[id]; ok {
		return e.surface
	}
	return nil
}

// SetView changes the view, for example after panning or zooming, and
// marks all layers dirty. Surfaces are reallocated if the canvas size
// changed.
func (m *Manager) SetView(view viewport.State) {
	m.view = view
	if m.attached {
		for _, e := range m.layers {
			m.init(e)
		}
	}
}

// ResizeAll adapts all surfaces to a new host size, in CSS pixels, and
// renders all layers.
func (m *Manager) ResizeAll(width, height float64) {
	m.SetView(m.view.Resize(width, height))
	logging.Logger().Info("layer: resized", "width", width, "height", height)
	m.RenderAll()
}

// Invalidate marks a layer for rendering by RenderDirty.
func (m *Manager) Invalidate(id string) error {
	e, err := m.get(id)
	if err != nil {
		return err
	}
	e.dirty = true
	return nil
}

// InvalidateAll marks all layers dirty.
func (m *Manager) InvalidateAll() {
	for _, e := range m.layers {
		e.dirty = true
	}
}

// RenderAll renders every visible layer in z-order and returns the number
// of layers that failed. Failures are logged and do not stop the other
// layers.
func (m *Manager) RenderAll() int {
	failed := 0
	for _, e := range m.layers {
		if e.Visible && !m.render(e) {
			failed++
		}
	}
	return failed
}

// RenderDirty renders the visible layers marked dirty and returns how many
// were rendered successfully. Layers without a surface are skipped; they
// are rendered once the manager is attached.
func (m *Manager) RenderDirty() int {
	n := 0
	for _, e := range m.layers {
		if !e.Visible || !e.dirty || e.surface == nil {
			continue
		}
		if m.render(e) {
			n++
		}
	}
	return n
}

// render runs the renderer of e and reports whether it succeeded.
func (m *Manager) render(e *entry) bool {
	if e.surface == nil {
		logging.Logger().Warn("layer: render without surface skipped", "layer", e.ID, "attached", m.attached)
		return false
	}
	clear(e.surface.Pix)
	e.dirty = false
	e.renders++

	err := safeRender(e.Renderer, &Context{Layer: e.ID, Surface: e.surface, View: m.view})
	if err != nil {
		e.failures++
		e.lastErr = err
		logging.Logger().Warn("layer: render failed", "layer", e.ID, "err", err)
		return false
	}
	e.lastErr = nil
	return true
}

// safeRender calls r, converting a panic into an error.
func safeRender(r Renderer, ctx *Context) (err error) {
	if r == nil {
		return nil
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
			logging.Logger().Debug("layer: renderer panic", "layer", ctx.Layer, "stack", string(debug.Stack()))
		}
	}()
	return r.Render(ctx)
}

// Composite draws the visible layer surfaces onto dst, lowest first.
func (m *Manager) Composite(dst *image.RGBA) {
	for _, e := range m.layers {
		if !e.Visible || e.surface == nil {
			continue
		}
		draw.Draw(dst, dst.Bounds(), e.surface, image.Point{}, draw.Over)
	}
}

// LayerInfo describes a layer for debugging.
type LayerInfo struct {
	ID          string
	ZIndex      int
	Visible     bool
	Initialized bool
	Dirty       bool
	Width       int
	Height      int
	Renders     int
	Failures    int
	LastError   string
}

// Debug returns the state of all layers in z-order.
func (m *Manager) Debug() []LayerInfo {
	out := make([]LayerInfo, 0, len(m.layers))
	for _, e := range m.layers {
		info := LayerInfo{
			ID:          e.ID,
			ZIndex:      e.ZIndex,
			Visible:     e.Visible,
			Initialized: e.surface != nil,
			Dirty:       e.dirty,
			Renders:     e.renders,
			Failures:    e.failures,
		}
		if e.surface != nil {
			info.Width, info.Height = e.surface.Rect.Dx(), e.surface.Rect.Dy()
		}
		if e.lastErr != nil {
			info.LastError = e.lastErr.Error()
		}
		out = append(out, info)
	}
	return out
}
