package quadmesh

//	a------b
//	|      |
//	|      |
//	d------c

// QuadsToTriangles splits every quad (a,b,c,d) of a flat quad index slice
// into the triangles (a,b,d) and (b,c,d). Both keep the quad's winding.
// The result holds 6 indices per quad.
func QuadsToTriangles(quads []int) []int {
	tris := make([]int, 0, len(quads)/4*6)
	for i := 0; i+3 < len(quads); i += 4 {
		a, b, c, d := quads[i], quads[i+1], quads[i+2], quads[i+3]
		tris = append(tris,
			a, b, d,
			b, c, d,
		)
	}
	return tris
}

// edgeKey identifies an undirected edge.
type edgeKey struct {
	lo, hi int
}

func makeEdgeKey(i, j int) edgeKey {
	if i > j {
		i, j = j, i
	}
	return edgeKey{lo: i, hi: j}
}

// QuadsToEdges returns the boundary edges AB, BC, CD, DA of every quad as
// index pairs, keeping each undirected edge once. An edge keeps the
// direction of its first occurrence and edges appear in the order they are
// first met.
func QuadsToEdges(quads []int) []int {
	edges := make([]int, 0, len(quads))
	seen := make(map[edgeKey]struct{}, len(quads))

	for i := 0; i+3 < len(quads); i += 4 {
		// Edges of the same quad are only checked against earlier quads,
		// never against each other.
		var fresh [4]bool
		for k := 0; k < 4; k++ {
			from, to := quads[i+k], quads[i+(k+1)%4]
			_, dup := seen[makeEdgeKey(from, to)]
			fresh[k] = !dup
		}
		for k := 0; k < 4; k++ {
			if !fresh[k] {
				continue
			}
			from, to := quads[i+k], quads[i+(k+1)%4]
			edges = append(edges, from, to)
			seen[makeEdgeKey(from, to)] = struct{}{}
		}
	}
	return edges
}

// Triangles returns the triangle index list of the mesh.
func (m *Mesh) Triangles() []int {
	return QuadsToTriangles(m.quads)
}

// Edges returns the unique edge index list of the mesh.
func (m *Mesh) Edges() []int {
	return QuadsToEdges(m.quads)
}
