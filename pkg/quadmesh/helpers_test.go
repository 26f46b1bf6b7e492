package quadmesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const tol = 1e-9

var (
	sqA = mgl64.Vec3{0, 0, 0}
	sqB = mgl64.Vec3{1, 0, 0}
	sqC = mgl64.Vec3{1, 1, 0}
	sqD = mgl64.Vec3{0, 1, 0}
)

// unitSquare returns a mesh holding the unit square in the z=0 plane,
// facing +Z.
func unitSquare() *Mesh {
	m := New()
	a := m.AddVertex(sqA)
	b := m.AddVertex(sqB)
	c := m.AddVertex(sqC)
	d := m.AddVertex(sqD)
	m.AddQuad(a, b, c, d)
	return m
}

func cube() *Mesh {
	m := New()
	m.CreateCube()
	return m
}

func assertVecNear(t *testing.T, what string, got, want mgl64.Vec3) {
	t.Helper()
	if !got.ApproxEqualThreshold(want, 1e-6) {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

// countingListener counts change notifications.
type countingListener struct {
	calls int
}

func (c *countingListener) MeshChanged(*Mesh) { c.calls++ }
