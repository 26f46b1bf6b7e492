package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/chazu/quadmodel/pkg/engine"
	"github.com/chazu/quadmodel/pkg/kernel"
	"github.com/chazu/quadmodel/pkg/kernel/sdfx"
	"github.com/chazu/quadmodel/pkg/quadmesh"
	"github.com/chazu/quadmodel/pkg/tessellate"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// ErrMeshChanged is reported when a script finishes after the mesh was
// edited through another binding. The script result is dropped.
var ErrMeshChanged = errors.New("mesh changed during evaluation, run the script again")

// MeshChangedEvent is emitted to the frontend with fresh MeshData whenever
// the mesh is edited.
const MeshChangedEvent = "mesh:changed"

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx      context.Context
	mu       sync.Mutex
	engine   *engine.Engine
	exporter kernel.Exporter
	mesh     *quadmesh.Mesh
	adapter  *tessellate.Adapter
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Edges    []uint32  `json:"edges"`

	Quads       int    `json:"quads"`
	VertexCount int    `json:"vertexCount"`
	Triangles   int    `json:"triangles"`
	EdgeCount   int    `json:"edgeCount"`
	Version     uint64 `json:"version"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Mesh     MeshData        `json:"mesh"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// EditResult reports the outcome of a single edit operator.
type EditResult struct {
	Mesh  MeshData `json:"mesh"`
	Error string   `json:"error,omitempty"`
}

// PickResult is returned by Pick. Quad is -1 on a miss.
type PickResult struct {
	Quad     int        `json:"quad"`
	Point    [3]float64 `json:"point"`
	Distance float64    `json:"distance"`
}

// BoundsData is an axis-aligned bounding box.
type BoundsData struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// NewApp creates a new App holding the default cube, an engine and the sdfx
// exporter.
func NewApp() *App {
	a := &App{
		engine:   engine.NewEngine(),
		exporter: sdfx.New(),
		mesh:     quadmesh.New(),
	}
	a.adapter = tessellate.NewAdapter(a.emit, func(err error) {
		log.Printf("Tessellate error: %v", err)
	})
	a.adapter.Attach(a.mesh)
	a.mesh.CreateCube()
	return a
}

// startup is called by Wails on app startup. The context is saved
// so mesh change events can be emitted through the Wails runtime.
func (a *App) startup(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()
}

// emit pushes fresh buffers to the frontend. It runs inside mesh
// notifications, so a.mu is already held by the editing binding.
func (a *App) emit(m *kernel.Mesh) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, MeshChangedEvent, toMeshData(m, a.mesh.QuadCount()))
}

// toMeshData converts render buffers for the frontend. Empty buffers are
// sent as [] rather than null.
func toMeshData(m *kernel.Mesh, quads int) MeshData {
	data := MeshData{
		Vertices: []float32{},
		Normals:  []float32{},
		Indices:  []uint32{},
		Edges:    []uint32{},
		Quads:    quads,
	}
	if m == nil {
		return data
	}
	data.Version = m.Version
	if m.IsEmpty() {
		return data
	}
	data.Vertices = m.Vertices
	data.Normals = m.Normals
	data.Indices = m.Indices
	data.Edges = m.Edges
	data.VertexCount = m.VertexCount()
	data.Triangles = m.TriangleCount()
	data.EdgeCount = m.EdgeCount()
	return data
}

// snapshot returns the current render buffers. a.mu must be held.
func (a *App) snapshot() MeshData {
	return toMeshData(a.adapter.Last(), a.mesh.QuadCount())
}

// Mesh returns the current render buffers.
func (a *App) Mesh() MeshData {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot()
}

// CreateCube resets the mesh to the default cube.
func (a *App) CreateCube() MeshData {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mesh.CreateCube()
	return a.snapshot()
}

// Pick casts a ray from origin along dir and returns the nearest quad hit.
func (a *App) Pick(origin, dir [3]float64) PickResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	hit, ok := a.mesh.Pick(quadmesh.Ray{Origin: mgl64.Vec3(origin), Direction: mgl64.Vec3(dir)})
	if !ok {
		return PickResult{Quad: quadmesh.NoQuad}
	}
	return PickResult{Quad: hit.Quad, Point: [3]float64(hit.Point), Distance: hit.Distance}
}

// edit runs one operator under the lock and packages the result.
func (a *App) edit(name string, q int, op func() error) EditResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := op(); err != nil {
		log.Printf("%s quad %d: %v", name, q, err)
		return EditResult{Mesh: a.snapshot(), Error: err.Error()}
	}
	return EditResult{Mesh: a.snapshot()}
}

// Extrude extrudes quad q along its normal.
func (a *App) Extrude(q int) EditResult {
	return a.edit("Extrude", q, func() error { return a.mesh.Extrude(q) })
}

// Offset moves quad q along its normal by distance*sqrt(area).
func (a *App) Offset(q int, distance float64) EditResult {
	return a.edit("Offset", q, func() error { return a.mesh.Offset(q, distance) })
}

// Shrink scales quad q about its centroid.
func (a *App) Shrink(q int, factor float64) EditResult {
	return a.edit("Shrink", q, func() error { return a.mesh.Shrink(q, factor) })
}

// Rotate turns quad q about its normal by angle radians.
func (a *App) Rotate(q int, angle float64) EditResult {
	return a.edit("Rotate", q, func() error { return a.mesh.Rotate(q, angle) })
}

// Evaluate runs a Lisp script against the current mesh. On success the
// edited mesh replaces the current one; on any error, or when the mesh
// was edited while the script ran, the mesh is kept.
// This is the primary binding called by the frontend console.
func (a *App) Evaluate(source string) EvalResult {
	a.mu.Lock()
	base := a.mesh.Clone()
	rev := a.mesh.Revision()
	a.mu.Unlock()

	result := EvalResult{
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the script on a private copy.
	edited, evalErrs, err := a.engine.Evaluate(source, base)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		result.Mesh = a.Mesh()
		return result
	}

	// Step 2: Convert eval errors to the frontend format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Message: e.Message,
			})
		}
		result.Mesh = a.Mesh()
		return result
	}

	// Step 3: Validate the edited mesh. Structural errors block the commit.
	vr := quadmesh.Validate(edited)
	for _, w := range vr.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Error()})
	}
	if !vr.OK() {
		for _, e := range vr.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Message: e.Error()})
		}
		result.Mesh = a.Mesh()
		return result
	}

	// Step 4: Commit. Assign notifies the adapter, which re-tessellates.
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.commit(edited, rev); err != nil {
		log.Printf("Evaluate: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
	}
	result.Mesh = a.snapshot()
	return result
}

// commit replaces the mesh with edited unless the mesh moved past
// revision rev in the meantime. a.mu must be held.
func (a *App) commit(edited *quadmesh.Mesh, rev uint64) error {
	if cur := a.mesh.Revision(); cur != rev {
		return fmt.Errorf("revision %d, script started at %d: %w", cur, rev, ErrMeshChanged)
	}
	a.mesh.Assign(edited)
	return nil
}

// Bounds returns the bounding box of the referenced vertices.
func (a *App) Bounds() BoundsData {
	a.mu.Lock()
	defer a.mu.Unlock()
	lo, hi := a.exporter.BoundingBox(a.mesh)
	return BoundsData{Min: lo, Max: hi}
}

// ExportSTL writes the current mesh to path as STL.
func (a *App) ExportSTL(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.exporter.SaveSTL(a.mesh, path); err != nil {
		log.Printf("ExportSTL error: %v", err)
		return fmt.Errorf("export %s: %w", path, err)
	}
	log.Printf("Exported %d triangles to %s", a.exporter.TriangleCount(a.mesh), path)
	return nil
}
