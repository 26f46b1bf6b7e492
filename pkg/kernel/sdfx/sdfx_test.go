package sdfx

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/quadmodel/pkg/quadmesh"
	"github.com/go-gl/mathgl/mgl64"
)

func cube(t *testing.T) *quadmesh.Mesh {
	t.Helper()
	m := quadmesh.New()
	m.CreateCube()
	return m
}

func TestToTriangles(t *testing.T) {
	k := New()
	tris, err := k.ToTriangles(cube(t))
	if err != nil {
		t.Fatalf("ToTriangles failed: %v", err)
	}
	// A cube should produce exactly 12 triangles (2 per face, 6 faces).
	if len(tris) != 12 {
		t.Fatalf("cube triangle count: %d (expected 12)", len(tris))
	}
	// Triangle normals point away from the cube center like the quads do.
	for i, tri := range tris {
		n := tri.Normal()
		c := tri[0].Add(tri[1]).Add(tri[2]).MulScalar(1.0 / 3)
		if n.Dot(c) <= 0 {
			t.Errorf("triangle %d normal %v points inward", i, n)
		}
	}
}

func TestToTrianglesMissingVertex(t *testing.T) {
	m := cube(t)
	m.AddQuad(0, 1, 2, 99)
	if _, err := New().ToTriangles(m); !errors.Is(err, quadmesh.ErrVertexIndex) {
		t.Fatalf("ToTriangles error = %v, want ErrVertexIndex", err)
	}
}

func TestBoundingBox(t *testing.T) {
	k := New()
	m := cube(t)
	// Orphaned vertices do not count.
	m.AddVertex(mgl64.Vec3{50, 50, 50})

	min, max := k.BoundingBox(m)
	const tol = 1e-9
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]+1) > tol {
			t.Errorf("min[%d] = %f, expected -1", i, min[i])
		}
		if math.Abs(max[i]-1) > tol {
			t.Errorf("max[%d] = %f, expected 1", i, max[i])
		}
	}
}

func TestBoundingBoxEmpty(t *testing.T) {
	min, max := New().BoundingBox(quadmesh.New())
	if min != [3]float64{} || max != [3]float64{} {
		t.Errorf("empty mesh bounds = %v %v, want zero box", min, max)
	}
}

func TestZUp(t *testing.T) {
	m := cube(t)
	// Quad 1 is the +Y face; extruding it makes the mesh 4 units tall in Y.
	if err := m.Extrude(1); err != nil {
		t.Fatal(err)
	}
	_, max := New().BoundingBox(m)
	if math.Abs(max[1]-3) > 1e-9 {
		t.Errorf("Y-up max y = %f, expected 3", max[1])
	}
	min, max := NewZUp().BoundingBox(m)
	if math.Abs(max[2]-3) > 1e-9 || math.Abs(min[2]+1) > 1e-9 {
		t.Errorf("Z-up z range = [%f, %f], expected [-1, 3]", min[2], max[2])
	}
}

func TestSaveSTL(t *testing.T) {
	k := New()
	m := cube(t)
	if err := m.Extrude(4); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "mesh.stl")
	if err := k.SaveSTL(m, path); err != nil {
		t.Fatalf("SaveSTL failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("STL file is empty")
	}
	if k.TriangleCount(m) != 20 {
		t.Errorf("TriangleCount() = %d, want 20", k.TriangleCount(m))
	}
}

func TestSaveSTLEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.stl")
	if err := New().SaveSTL(quadmesh.New(), path); err == nil {
		t.Fatal("expected error exporting an empty mesh")
	}
}
