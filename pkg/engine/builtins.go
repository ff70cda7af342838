package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/darrendavidhumphrey/fsg/pkg/geom"
	"github.com/darrendavidhumphrey/fsg/pkg/kernel"
	"github.com/darrendavidhumphrey/fsg/pkg/mesh"
	"github.com/darrendavidhumphrey/fsg/pkg/scene"
	"github.com/darrendavidhumphrey/fsg/pkg/solid"
	"github.com/darrendavidhumphrey/fsg/pkg/tessellate"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene-script source before it reaches
// zygomys: :keyword tokens become "__kw_keyword" string literals (so
// keywords need no registered globals), and traditional ; line
// comments become the // comments zygomys expects. Both respect
// string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Copy double-quoted string literals untouched.
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
		// Copy backtick-quoted string literals untouched.
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
		// Convert ; line comments (and ;; style) to //.
		if b[i] == ';' {
			result = append(result, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert :keyword to "__kw_keyword", preserving := assignment.
		if b[i] == ':' && i+1 < len(b) && b[i+1] != '=' && isLetter(b[i+1]) {
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			result = append(result, '"')
			result = append(result, kwPrefix...)
			result = append(result, b[i+1:j]...)
			result = append(result, '"')
			i = j
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
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing geometry through the environment
// ---------------------------------------------------------------------------

// sexpVec2 wraps a geom.Vec2.
type sexpVec2 struct {
	vec geom.Vec2
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %.2f %.2f)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a geom.Vec3.
type sexpVec3 struct {
	vec geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.2f %.2f %.2f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpPolygon wraps a polygon so it can flow between clip, faces, and
// extrude forms.
type sexpPolygon struct {
	poly *geom.Polygon
}

func (p *sexpPolygon) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(polygon %d vertices)", p.poly.Len())
}
func (p *sexpPolygon) Type() *zygo.RegisteredType { return nil }

// sexpMesh wraps a tessellated mesh, ready to be named as a part.
type sexpMesh struct {
	mesh *mesh.TriangleMesh
}

func (m *sexpMesh) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(mesh %d triangles)", m.mesh.TriangleCount())
}
func (m *sexpMesh) Type() *zygo.RegisteredType { return nil }

// sexpSolid wraps a kernel solid so boolean chains compose before
// meshing.
type sexpSolid struct {
	solid kernel.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	lo, hi := s.solid.BoundingBox()
	return fmt.Sprintf("(solid %.1fx%.1fx%.1f)", hi.X-lo.X, hi.Y-lo.Y, hi.Z-lo.Z)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks whether a Sexp is a preprocessed keyword string and
// returns the bare keyword name.
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

// kwArgs holds a parsed mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
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

// toFloat64 extracts a float64 from a SexpInt or SexpFloat.
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toPolygon extracts a polygon from a sexpPolygon.
func toPolygon(s zygo.Sexp) (*geom.Polygon, error) {
	if p, ok := s.(*sexpPolygon); ok {
		return p.poly, nil
	}
	return nil, fmt.Errorf("expected polygon, got %T (%s)", s, s.SexpString(nil))
}

// toSolid extracts a kernel solid from a sexpSolid.
func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.solid, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// toPolygons extracts a homogeneous polygon list from positional args.
func toPolygons(args []zygo.Sexp) ([]*geom.Polygon, error) {
	polys := make([]*geom.Polygon, 0, len(args))
	for i, a := range args {
		p, err := toPolygon(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		polys = append(polys, p)
	}
	return polys, nil
}

// colorPalette assigns distinct default colors to parts in creation
// order.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene DSL into a zygomys environment.
// The builtins populate sc during evaluation; k provides solid
// primitives and booleans.
func registerBuiltins(env *zygo.Zlisp, sc *scene.Scene, k kernel.Kernel) {

	// -----------------------------------------------------------------------
	// (vec2 x y)
	// -----------------------------------------------------------------------
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
		}
		v := geom.Vec2{X: x, Y: y}
		if err := geom.ValidateVec2(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: %w", err)
		}
		return &sexpVec2{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 x y z)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}
		v := geom.Vec3{X: x, Y: y, Z: z}
		if err := geom.ValidateVec3(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
		}
		return &sexpVec3{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (polygon (vec2 0 0) (vec2 10 0) (vec2 10 10) ...)
	// (polygon (vec3 ...) ...) for non-planar-frame outlines
	// -----------------------------------------------------------------------
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return zygo.SexpNull, fmt.Errorf("polygon requires at least one vertex")
		}
		var poly *geom.Polygon
		switch args[0].(type) {
		case *sexpVec2:
			pts := make([]geom.Vec2, len(args))
			for i, a := range args {
				v, ok := a.(*sexpVec2)
				if !ok {
					return zygo.SexpNull, fmt.Errorf("polygon: vertex %d: expected vec2, got %T", i+1, a)
				}
				pts[i] = v.vec
			}
			poly = geom.NewPolygon2D(pts)
		case *sexpVec3:
			pts := make([]geom.Vec3, len(args))
			for i, a := range args {
				v, ok := a.(*sexpVec3)
				if !ok {
					return zygo.SexpNull, fmt.Errorf("polygon: vertex %d: expected vec3, got %T", i+1, a)
				}
				pts[i] = v.vec
			}
			poly = geom.NewPolygon3D(pts)
		default:
			return zygo.SexpNull, fmt.Errorf("polygon: expected vec2 or vec3 vertices, got %T", args[0])
		}
		if err := geom.ValidatePolygon(poly); err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
		}
		return &sexpPolygon{poly: poly}, nil
	})

	// -----------------------------------------------------------------------
	// (rect w h)
	// -----------------------------------------------------------------------
	env.AddFunction("rect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("rect requires width and height, got %d arguments", len(args))
		}
		w, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect: width: %w", err)
		}
		h, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect: height: %w", err)
		}
		return &sexpPolygon{poly: solid.Rect(w, h)}, nil
	})

	// -----------------------------------------------------------------------
	// (ngon sides radius)
	// -----------------------------------------------------------------------
	env.AddFunction("ngon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("ngon requires sides and radius, got %d arguments", len(args))
		}
		n, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("ngon: sides: %w", err)
		}
		r, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("ngon: radius: %w", err)
		}
		return &sexpPolygon{poly: solid.RegularPolygon(n, r)}, nil
	})

	// -----------------------------------------------------------------------
	// (clip :left 0 :bottom 0 :right 100 :top 100 poly)
	// Returns nil when nothing survives the window.
	// -----------------------------------------------------------------------
	env.AddFunction("clip", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("clip requires exactly one polygon argument")
		}
		poly, err := toPolygon(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clip: %w", err)
		}

		bounds := map[string]float64{"left": 0, "bottom": 0, "right": 0, "top": 0}
		for key := range bounds {
			v, ok := pa.kw[key]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("clip: missing :%s", key)
			}
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("clip: %s: %w", key, err)
			}
			bounds[key] = f
		}
		if bounds["right"] <= bounds["left"] || bounds["top"] <= bounds["bottom"] {
			return zygo.SexpNull, fmt.Errorf("clip: empty window (left %v right %v bottom %v top %v)",
				bounds["left"], bounds["right"], bounds["bottom"], bounds["top"])
		}

		clipper := geom.NewRectClipper(bounds["left"], bounds["bottom"], bounds["right"], bounds["top"])
		clipped := clipper.Clip(poly)
		if clipped == nil {
			return zygo.SexpNull, nil
		}
		return &sexpPolygon{poly: clipped}, nil
	})

	// -----------------------------------------------------------------------
	// (boxfaces w h d) -> list of the six face polygons
	// -----------------------------------------------------------------------
	env.AddFunction("boxfaces", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("boxfaces requires w h d, got %d arguments", len(args))
		}
		var dims [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("boxfaces: dimension %d: %w", i+1, err)
			}
			dims[i] = f
		}
		faces := solid.BoxFaces(dims[0], dims[1], dims[2])
		wrapped := make([]zygo.Sexp, len(faces))
		for i, f := range faces {
			wrapped[i] = &sexpPolygon{poly: f}
		}
		return &zygo.SexpArray{Val: wrapped, Env: env}, nil
	})

	// -----------------------------------------------------------------------
	// (faces p1 p2 ...) -> mesh via fan triangulation
	// Accepts polygons and arrays of polygons (so boxfaces composes).
	// -----------------------------------------------------------------------
	env.AddFunction("faces", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		polys, err := flattenPolygons(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("faces: %w", err)
		}
		if len(polys) == 0 {
			return zygo.SexpNull, fmt.Errorf("faces requires at least one polygon")
		}
		return &sexpMesh{mesh: tessellate.FromFaces(polys)}, nil
	})

	// -----------------------------------------------------------------------
	// (extrude (vec3 0 0 -20) p1 p2 ...) -> closed solid mesh
	// -----------------------------------------------------------------------
	env.AddFunction("extrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("extrude requires a depth vec3 and at least one polygon")
		}
		depth, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extrude: depth: %w", err)
		}
		polys, err := flattenPolygons(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extrude: %w", err)
		}
		return &sexpMesh{mesh: tessellate.Extrude(polys, depth)}, nil
	})

	// -----------------------------------------------------------------------
	// (box w h d) / (cylinder height radius) -> kernel solids
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("box requires w h d, got %d arguments", len(args))
		}
		var dims [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: dimension %d: %w", i+1, err)
			}
			if f <= 0 {
				return zygo.SexpNull, fmt.Errorf("box: dimension %d is %v, must be positive", i+1, f)
			}
			dims[i] = f
		}
		return &sexpSolid{solid: k.Box(dims[0], dims[1], dims[2])}, nil
	})

	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("cylinder requires height and radius, got %d arguments", len(args))
		}
		h, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
		}
		r, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
		}
		if h <= 0 || r <= 0 {
			return zygo.SexpNull, fmt.Errorf("cylinder: height %v and radius %v must be positive", h, r)
		}
		return &sexpSolid{solid: k.Cylinder(h, r)}, nil
	})

	// -----------------------------------------------------------------------
	// Boolean operations and transforms over solids
	// -----------------------------------------------------------------------
	binop := func(opName string, op func(a, b kernel.Solid) kernel.Solid) {
		env.AddFunction(opName, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 solids, got %d arguments", opName, len(args))
			}
			a, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", opName, err)
			}
			b, err := toSolid(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", opName, err)
			}
			return &sexpSolid{solid: op(a, b)}, nil
		})
	}
	binop("union", k.Union)
	binop("difference", k.Difference)
	binop("intersection", k.Intersection)

	xyzOp := func(opName string, op func(s kernel.Solid, x, y, z float64) kernel.Solid) {
		env.AddFunction(opName, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 4 {
				return zygo.SexpNull, fmt.Errorf("%s requires a solid and x y z, got %d arguments", opName, len(args))
			}
			s, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", opName, err)
			}
			var v [3]float64
			for i, a := range args[1:] {
				f, err := toFloat64(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: component %d: %w", opName, i+1, err)
				}
				v[i] = f
			}
			return &sexpSolid{solid: op(s, v[0], v[1], v[2])}, nil
		})
	}
	xyzOp("translate", k.Translate)
	xyzOp("rotate", k.Rotate)

	// -----------------------------------------------------------------------
	// (part "name" meshOrSolid :color "#e67e22")
	// Adds the mesh to the scene; solids are meshed first.
	// -----------------------------------------------------------------------
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("part requires a name and a mesh or solid")
		}
		partName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}

		var m *mesh.TriangleMesh
		switch body := pa.positional[1].(type) {
		case *sexpMesh:
			m = body.mesh
		case *sexpSolid:
			m, err = k.ToMesh(body.solid)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: meshing solid: %w", partName, err)
			}
		default:
			return zygo.SexpNull, fmt.Errorf("part: expected mesh or solid, got %T", pa.positional[1])
		}

		color := colorPalette[sc.PartCount()%len(colorPalette)]
		if v, ok := pa.kw["color"]; ok {
			c, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part: color: %w", err)
			}
			color = c
		}

		sc.Add(partName, m, color)
		return &zygo.SexpStr{S: partName}, nil
	})
}

// flattenPolygons accepts a mix of polygon values and arrays/lists of
// polygon values (as produced by boxfaces) and returns a flat slice.
func flattenPolygons(args []zygo.Sexp) ([]*geom.Polygon, error) {
	var polys []*geom.Polygon
	for i, a := range args {
		switch v := a.(type) {
		case *sexpPolygon:
			polys = append(polys, v.poly)
		case *zygo.SexpArray:
			nested, err := toPolygons(v.Val)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i+1, err)
			}
			polys = append(polys, nested...)
		case *zygo.SexpPair:
			items, err := zygo.ListToArray(v)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i+1, err)
			}
			nested, err := toPolygons(items)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i+1, err)
			}
			polys = append(polys, nested...)
		default:
			return nil, fmt.Errorf("argument %d: expected polygon or polygon list, got %T", i+1, a)
		}
	}
	return polys, nil
}
