package quadmesh

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ValidationSeverity indicates whether a finding makes the mesh unusable
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // quad cannot be evaluated
	SeverityWarning                           // quad evaluates but may misbehave
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding. Quad is NoQuad
// for findings about the mesh as a whole or about a vertex.
type ValidationError struct {
	Quad     int
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Quad == NoQuad {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] quad %d: %s", e.Severity, e.Quad, e.Message)
}

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no blocking errors were found.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate checks every quad of m. Structural findings (indices out of
// range) are errors; geometric findings (degenerate, non-planar or
// non-convex quads, unreferenced vertices) are warnings. Validate is
// read-only.
func Validate(m *Mesh) ValidationResult {
	var res ValidationResult
	used := make([]bool, m.VertexCount())

	for q := 0; q < m.QuadCount(); q++ {
		c, err := m.Corners(q)
		if err != nil {
			res.Errors = append(res.Errors, ValidationError{
				Quad: q, Message: err.Error(), Severity: SeverityError,
			})
			continue
		}
		idx, _ := m.Quad(q)
		for _, i := range idx {
			used[i] = true
		}
		if msg := checkQuadGeometry(c); msg != "" {
			res.Warnings = append(res.Warnings, ValidationError{
				Quad: q, Message: msg, Severity: SeverityWarning,
			})
		}
	}

	orphans := 0
	for _, u := range used {
		if !u {
			orphans++
		}
	}
	if orphans > 0 {
		res.Warnings = append(res.Warnings, ValidationError{
			Quad:     NoQuad,
			Message:  fmt.Sprintf("%d vertices are not used by any quad", orphans),
			Severity: SeverityWarning,
		})
	}
	return res
}

// checkQuadGeometry returns a description of the first geometric problem
// of quad c, or "".
func checkQuadGeometry(c [4]mgl64.Vec3) string {
	n, err := Normal(c[0], c[1], c[2], c[3])
	if err != nil {
		return "degenerate quad (zero normal)"
	}

	// Planarity: every corner within tolerance of the centroid plane.
	center := Centroid(c[0], c[1], c[2], c[3])
	scale := 1.0
	for _, p := range c {
		scale = math.Max(scale, p.Sub(center).Len())
	}
	for k, p := range c {
		if d := math.Abs(n.Dot(p.Sub(center))); d > PlaneTolerance*scale {
			return fmt.Sprintf("non-planar quad (corner %d is %.3g off the plane)", k, d)
		}
	}

	// Convexity: every corner turns the same way around n.
	for k := 0; k < 4; k++ {
		prev, cur, next := c[(k+3)%4], c[k], c[(k+1)%4]
		if cur.Sub(prev).Cross(next.Sub(cur)).Dot(n) <= 0 {
			return fmt.Sprintf("non-convex quad at corner %d", k)
		}
	}
	return ""
}
