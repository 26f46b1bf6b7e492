package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/quadmodel/pkg/quadmesh"
	"github.com/go-gl/mathgl/mgl64"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites mesh script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: add-quad -> add_quad
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a point or direction.
type sexpVec3 struct {
	vec mgl64.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X(), v.vec.Y(), v.vec.Z())
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: a flag.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer index. Floats are accepted when integral.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a vector from a sexpVec3.
func toVec3(s zygo.Sexp) (mgl64.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toVec3Args accepts either one vec3 or three numbers.
func toVec3Args(args []zygo.Sexp) (mgl64.Vec3, error) {
	switch len(args) {
	case 1:
		return toVec3(args[0])
	case 3:
		var out mgl64.Vec3
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return mgl64.Vec3{}, fmt.Errorf("component %d: %w", i, err)
			}
			out[i] = f
		}
		return out, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("expected a vec3 or 3 numbers, got %d arguments", len(args))
}

func sexpInt(i int) zygo.Sexp {
	return &zygo.SexpInt{Val: int64(i)}
}

// quadAndNumber parses the (op quad value) argument shape shared by the
// parametric edit builtins.
func quadAndNumber(op string, args []zygo.Sexp) (int, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%s requires a quad index and a number, got %d arguments", op, len(args))
	}
	q, err := toInt(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%s: quad: %w", op, err)
	}
	f, err := toFloat64(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return q, f, nil
}

// quadOnly parses the (op quad) argument shape.
func quadOnly(op string, args []zygo.Sexp) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s requires a quad index, got %d arguments", op, len(args))
	}
	q, err := toInt(args[0])
	if err != nil {
		return 0, fmt.Errorf("%s: quad: %w", op, err)
	}
	return q, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the mesh editing builtins into a zygomys
// environment. The builtins read and edit m during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens and kebab-case names are recognized.
func registerBuiltins(env *zygo.Zlisp, m *quadmesh.Mesh) {

	// -----------------------------------------------------------------------
	// (create-cube) (clear-mesh)
	// -----------------------------------------------------------------------
	env.AddFunction("create_cube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		m.CreateCube()
		return sexpInt(m.QuadCount()), nil
	})

	env.AddFunction("clear_mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		m.Clear()
		m.Changed()
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		v, err := toVec3Args(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
		}
		return &sexpVec3{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (add-vertex 1 2 3) or (add-vertex (vec3 1 2 3)) -> vertex index
	// -----------------------------------------------------------------------
	env.AddFunction("add_vertex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := toVec3Args(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-vertex: %w", err)
		}
		return sexpInt(m.AddVertex(v)), nil
	})

	// -----------------------------------------------------------------------
	// (add-quad a b c d) -> quad index
	// -----------------------------------------------------------------------
	env.AddFunction("add_quad", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("add-quad requires 4 vertex indices, got %d", len(args))
		}
		var idx [4]int
		for i, a := range args {
			v, err := toInt(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("add-quad: corner %d: %w", i, err)
			}
			if v < 0 || v >= m.VertexCount() {
				return zygo.SexpNull, fmt.Errorf("add-quad: corner %d: vertex %d of %d: %w",
					i, v, m.VertexCount(), quadmesh.ErrVertexIndex)
			}
			idx[i] = v
		}
		m.AddQuad(idx[0], idx[1], idx[2], idx[3])
		m.Changed()
		return sexpInt(m.QuadCount() - 1), nil
	})

	// -----------------------------------------------------------------------
	// (extrude q) (offset q d) (shrink q f) (rotate q angle [:degrees])
	// -----------------------------------------------------------------------
	env.AddFunction("extrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		q, err := quadOnly("extrude", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := m.Extrude(q); err != nil {
			return zygo.SexpNull, err
		}
		return sexpInt(q), nil
	})

	env.AddFunction("offset", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		q, d, err := quadAndNumber("offset", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := m.Offset(q, d); err != nil {
			return zygo.SexpNull, err
		}
		return sexpInt(q), nil
	})

	env.AddFunction("shrink", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		q, f, err := quadAndNumber("shrink", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := m.Shrink(q, f); err != nil {
			return zygo.SexpNull, err
		}
		return sexpInt(q), nil
	})

	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		q, angle, err := quadAndNumber("rotate", pa.positional)
		if err != nil {
			return zygo.SexpNull, err
		}
		if _, ok := pa.kw["degrees"]; ok {
			angle = angle * math.Pi / 180
		}
		if err := m.Rotate(q, angle); err != nil {
			return zygo.SexpNull, err
		}
		return sexpInt(q), nil
	})

	// -----------------------------------------------------------------------
	// (radians 90)
	// -----------------------------------------------------------------------
	env.AddFunction("radians", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("radians requires exactly 1 argument, got %d", len(args))
		}
		deg, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("radians: %w", err)
		}
		return &zygo.SexpFloat{Val: deg * math.Pi / 180}, nil
	})

	// -----------------------------------------------------------------------
	// (pick (vec3 0 0 5) (vec3 0 0 -1)) -> quad index or -1
	// -----------------------------------------------------------------------
	env.AddFunction("pick", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("pick requires an origin and a direction, got %d arguments", len(args))
		}
		origin, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pick: origin: %w", err)
		}
		dir, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pick: direction: %w", err)
		}
		return sexpInt(m.NearestQuad(quadmesh.Ray{Origin: origin, Direction: dir})), nil
	})

	// -----------------------------------------------------------------------
	// (quad-count) (vertex-count) (area q)
	// -----------------------------------------------------------------------
	env.AddFunction("quad_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return sexpInt(m.QuadCount()), nil
	})

	env.AddFunction("vertex_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return sexpInt(m.VertexCount()), nil
	})

	env.AddFunction("area", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		q, err := quadOnly("area", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		a, err := m.QuadArea(q)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("area: %w", err)
		}
		return &zygo.SexpFloat{Val: a}, nil
	})
}
