package tessellate_test

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/quadmodel/pkg/kernel"
	"github.com/chazu/quadmodel/pkg/quadmesh"
	"github.com/chazu/quadmodel/pkg/tessellate"
	"github.com/go-gl/mathgl/mgl64"
)

func newCube() *quadmesh.Mesh {
	m := quadmesh.New()
	m.CreateCube()
	return m
}

func TestNilMesh(t *testing.T) {
	buf, err := tessellate.Tessellate(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !buf.IsEmpty() {
		t.Error("expected empty buffers for nil mesh")
	}
}

func TestCube(t *testing.T) {
	buf, err := tessellate.Tessellate(newCube())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.VertexCount() != 8 {
		t.Errorf("VertexCount() = %d, want 8", buf.VertexCount())
	}
	if buf.TriangleCount() != 12 {
		t.Errorf("TriangleCount() = %d, want 12", buf.TriangleCount())
	}
	if buf.EdgeCount() != 12 {
		t.Errorf("EdgeCount() = %d, want 12", buf.EdgeCount())
	}
	if len(buf.Normals) != len(buf.Vertices) {
		t.Fatalf("normals length %d != vertices length %d", len(buf.Normals), len(buf.Vertices))
	}

	// Each cube corner normal is the normalized diagonal through it.
	for i := 0; i < buf.VertexCount(); i++ {
		p := mgl64.Vec3{float64(buf.Vertices[i*3]), float64(buf.Vertices[i*3+1]), float64(buf.Vertices[i*3+2])}
		n := mgl64.Vec3{float64(buf.Normals[i*3]), float64(buf.Normals[i*3+1]), float64(buf.Normals[i*3+2])}
		if !n.ApproxEqualThreshold(p.Normalize(), 1e-6) {
			t.Errorf("vertex %d normal = %v, want %v", i, n, p.Normalize())
		}
	}
}

func TestOrphanVertexHasZeroNormal(t *testing.T) {
	m := newCube()
	m.AddVertex(mgl64.Vec3{5, 5, 5})
	buf, err := tessellate.Tessellate(m)
	if err != nil {
		t.Fatal(err)
	}
	last := buf.Normals[len(buf.Normals)-3:]
	for _, c := range last {
		if c != 0 {
			t.Fatalf("orphan normal = %v, want zero", last)
		}
	}
}

func TestMissingVertex(t *testing.T) {
	m := newCube()
	m.AddQuad(0, 1, 2, 30)
	if _, err := tessellate.Tessellate(m); !errors.Is(err, quadmesh.ErrVertexIndex) {
		t.Fatalf("error = %v, want ErrVertexIndex", err)
	}
}

func TestIndicesMatchCore(t *testing.T) {
	m := newCube()
	if err := m.Extrude(2); err != nil {
		t.Fatal(err)
	}
	buf, err := tessellate.Tessellate(m)
	if err != nil {
		t.Fatal(err)
	}
	tris := m.Triangles()
	if len(buf.Indices) != len(tris) {
		t.Fatalf("indices length %d, want %d", len(buf.Indices), len(tris))
	}
	for i := range tris {
		if int(buf.Indices[i]) != tris[i] {
			t.Fatalf("index %d = %d, want %d", i, buf.Indices[i], tris[i])
		}
	}
	if buf.EdgeCount() != len(m.Edges())/2 {
		t.Errorf("EdgeCount() = %d, want %d", buf.EdgeCount(), len(m.Edges())/2)
	}
}

func TestAdapterPushesOnEveryChange(t *testing.T) {
	m := newCube()
	var pushed []*kernel.Mesh
	a := tessellate.NewAdapter(func(b *kernel.Mesh) { pushed = append(pushed, b) }, nil)

	detach := a.Attach(m)
	if len(pushed) != 1 {
		t.Fatalf("Attach pushed %d snapshots, want 1", len(pushed))
	}

	if err := m.Extrude(0); err != nil {
		t.Fatal(err)
	}
	if err := m.Shrink(0, -0.5); err != nil {
		t.Fatal(err)
	}
	if len(pushed) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(pushed))
	}
	if pushed[1].VertexCount() != 12 {
		t.Errorf("snapshot after extrude has %d vertices, want 12", pushed[1].VertexCount())
	}
	for i, b := range pushed {
		if b.Version != uint64(i+1) {
			t.Errorf("snapshot %d version = %d, want %d", i, b.Version, i+1)
		}
	}
	if a.Last() != pushed[2] {
		t.Error("Last() is not the latest snapshot")
	}

	// Snapshots are independent copies.
	z := pushed[1].Vertices[2]
	if err := m.Offset(0, 1); err != nil {
		t.Fatal(err)
	}
	if pushed[1].Vertices[2] != z {
		t.Error("earlier snapshot changed after a later edit")
	}

	detach()
	if err := m.Rotate(0, math.Pi); err != nil {
		t.Fatal(err)
	}
	if len(pushed) != 4 {
		t.Errorf("got %d snapshots after detach, want 4", len(pushed))
	}
}

func TestAdapterReportsErrors(t *testing.T) {
	m := quadmesh.New()
	m.AddQuad(0, 1, 2, 3)

	var gotErr error
	pushed := 0
	a := tessellate.NewAdapter(func(*kernel.Mesh) { pushed++ }, func(err error) { gotErr = err })
	a.Attach(m)

	if !errors.Is(gotErr, quadmesh.ErrVertexIndex) {
		t.Errorf("onError got %v, want ErrVertexIndex", gotErr)
	}
	if pushed != 0 || a.Last() != nil {
		t.Error("broken mesh should not be pushed")
	}
}
