package quadmesh

import (
	"reflect"
	"testing"
)

// naiveEdges is the quadratic reference: each edge of a quad is compared
// against every edge emitted for earlier quads.
func naiveEdges(quads []int) []int {
	var edges []int
	for i := 0; i+3 < len(quads); i += 4 {
		var keep [4]bool
		for k := 0; k < 4; k++ {
			from, to := quads[i+k], quads[i+(k+1)%4]
			keep[k] = true
			for j := 0; j < len(edges); j += 2 {
				if (edges[j] == from && edges[j+1] == to) || (edges[j] == to && edges[j+1] == from) {
					keep[k] = false
				}
			}
		}
		for k := 0; k < 4; k++ {
			if keep[k] {
				edges = append(edges, quads[i+k], quads[i+(k+1)%4])
			}
		}
	}
	return edges
}

func TestQuadsToTriangles(t *testing.T) {
	tests := []struct {
		name  string
		quads []int
		want  []int
	}{
		{"empty", nil, []int{}},
		{"one quad", []int{0, 1, 2, 3}, []int{0, 1, 3, 1, 2, 3}},
		{"two quads", []int{0, 1, 2, 3, 1, 4, 5, 2}, []int{0, 1, 3, 1, 2, 3, 1, 4, 2, 4, 5, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuadsToTriangles(tt.quads)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("QuadsToTriangles(%v) = %v, want %v", tt.quads, got, tt.want)
			}
			if len(got) != len(tt.quads)*3/2 {
				t.Errorf("len = %d, want 1.5 * %d", len(got), len(tt.quads))
			}
		})
	}
}

func TestQuadsToEdgesSharedEdge(t *testing.T) {
	// Two quads sharing edge 1-2 (traversed 1->2 by the first, 2->1 by the
	// second).
	quads := []int{0, 1, 2, 3, 1, 4, 5, 2}
	edges := QuadsToEdges(quads)
	if len(edges)/2 != 7 {
		t.Fatalf("got %d edges, want 7: %v", len(edges)/2, edges)
	}
	want := []int{0, 1, 1, 2, 2, 3, 3, 0, 1, 4, 4, 5, 5, 2}
	if !reflect.DeepEqual(edges, want) {
		t.Errorf("QuadsToEdges() = %v, want %v", edges, want)
	}
}

func TestQuadsToEdgesMatchesReference(t *testing.T) {
	m := cube()
	for _, q := range []int{0, 4, 1} {
		if err := m.Extrude(q); err != nil {
			t.Fatalf("Extrude(%d): %v", q, err)
		}
	}
	quads := m.QuadIndices()
	got := QuadsToEdges(quads)
	want := naiveEdges(quads)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("QuadsToEdges() differs from reference\n got  %v\n want %v", got, want)
	}

	seen := map[edgeKey]bool{}
	for i := 0; i < len(got); i += 2 {
		k := makeEdgeKey(got[i], got[i+1])
		if seen[k] {
			t.Errorf("edge %v emitted twice", k)
		}
		seen[k] = true
	}
}

func TestCubeRoundTrip(t *testing.T) {
	m := cube()
	if n := len(m.Triangles()) / 3; n != 12 {
		t.Errorf("cube triangles = %d, want 12", n)
	}
	if n := len(m.Edges()) / 2; n != 12 {
		t.Errorf("cube edges = %d, want 12", n)
	}
}

func TestExtrudedCubeEdgeCount(t *testing.T) {
	// Extruding one face of a closed cube adds 4 top edges and 4 vertical
	// edges; the original face edges stay (now shared by the side quads).
	m := cube()
	if err := m.Extrude(4); err != nil {
		t.Fatal(err)
	}
	if n := len(m.Edges()) / 2; n != 20 {
		t.Errorf("edges after extrude = %d, want 20", n)
	}
}
