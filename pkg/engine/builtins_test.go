package engine

import (
	"testing"

	"github.com/darrendavidhumphrey/fsg/pkg/scene"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(part "top" body :color "#fff")`,
			expect: `(part "top" body "__kw_color" "#fff")`,
		},
		{
			name:   "multiple keywords",
			input:  `(clip :left 0 :right 100 poly)`,
			expect: `(clip "__kw_left" 0 "__kw_right" 100 poly)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "backtick string preserved",
			input:  "`raw :color text`",
			expect: "`raw :color text`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Script evaluation tests
// ---------------------------------------------------------------------------

// mustEval evaluates source and fails the test on any error.
func mustEval(t *testing.T, src string) *sceneResult {
	t.Helper()
	eng := NewEngine()
	sc, evalErrs, err := eng.Evaluate(src)
	if err != nil {
		t.Fatalf("Evaluate fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("Evaluate errors: %v", evalErrs)
	}
	if sc == nil {
		t.Fatal("Evaluate returned nil scene")
	}
	return &sceneResult{t: t, sc: sc}
}

// mustFail evaluates source and fails the test unless eval errors
// come back.
func mustFail(t *testing.T, src string) []EvalError {
	t.Helper()
	eng := NewEngine()
	_, evalErrs, err := eng.Evaluate(src)
	if err != nil {
		t.Fatalf("Evaluate fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatalf("Evaluate(%q) succeeded, want eval errors", src)
	}
	return evalErrs
}

type sceneResult struct {
	t  *testing.T
	sc *scene.Scene
}

func (r *sceneResult) part(name string, wantTriangles int) {
	r.t.Helper()
	p := r.sc.Lookup(name)
	if p == nil {
		r.t.Fatalf("part %q not found", name)
	}
	if wantTriangles >= 0 && p.Mesh.TriangleCount() != wantTriangles {
		r.t.Errorf("part %q has %d triangles, want %d", name, p.Mesh.TriangleCount(), wantTriangles)
	}
}

func TestFacesPart(t *testing.T) {
	r := mustEval(t, `(part "top" (faces (rect 100 50)))`)
	if r.sc.PartCount() != 1 {
		t.Fatalf("PartCount() = %d, want 1", r.sc.PartCount())
	}
	r.part("top", 2)

	// First part without :color gets the first palette entry.
	if got := r.sc.Lookup("top").Color; got != colorPalette[0] {
		t.Errorf("default color = %q, want %q", got, colorPalette[0])
	}
}

func TestPartExplicitColor(t *testing.T) {
	r := mustEval(t, `(part "x" (faces (rect 10 10)) :color "#123456")`)
	if got := r.sc.Lookup("x").Color; got != "#123456" {
		t.Errorf("color = %q, want #123456", got)
	}
}

func TestPolygonBuiltin(t *testing.T) {
	r := mustEval(t, `(part "tri" (faces (polygon (vec2 0 0) (vec2 10 0) (vec2 10 10))))`)
	r.part("tri", 1)
}

func TestBoxfacesComposesWithFaces(t *testing.T) {
	r := mustEval(t, `(part "box" (faces (boxfaces 10 20 30)))`)
	// Six quads, two fan triangles each.
	r.part("box", 12)
}

func TestExtrudeBuiltin(t *testing.T) {
	r := mustEval(t, `(part "slab" (extrude (vec3 0 0 -20) (ngon 6 30)))`)
	// Hexagon: 2*(6-2) cap triangles plus 2*6 side triangles.
	r.part("slab", 20)
}

func TestClipBuiltin(t *testing.T) {
	t.Run("partial overlap", func(t *testing.T) {
		src := `(part "clipped"
  (faces (clip :left 0 :bottom 0 :right 100 :top 100
    (polygon (vec2 50 50) (vec2 150 50) (vec2 150 150) (vec2 50 150)))))`
		r := mustEval(t, src)
		// The surviving quad fans into two triangles.
		r.part("clipped", 2)
	})

	t.Run("fully inside", func(t *testing.T) {
		src := `(part "kept" (faces (clip :left 0 :bottom 0 :right 100 :top 100 (rect 50 50))))`
		r := mustEval(t, src)
		r.part("kept", 2)
	})

	t.Run("clipped away yields null", func(t *testing.T) {
		// faces rejects the null, so the script reports an error.
		src := `(faces (clip :left 0 :bottom 0 :right 10 :top 10
  (polygon (vec2 100 100) (vec2 200 100) (vec2 200 200))))`
		mustFail(t, src)
	})

	t.Run("missing window keyword", func(t *testing.T) {
		mustFail(t, `(clip :left 0 :bottom 0 :right 100 (rect 5 5))`)
	})

	t.Run("inverted window", func(t *testing.T) {
		mustFail(t, `(clip :left 100 :bottom 0 :right 0 :top 100 (rect 5 5))`)
	})
}

func TestSolidPart(t *testing.T) {
	r := mustEval(t, `(part "cube" (box 40 40 40))`)
	p := r.sc.Lookup("cube")
	if p == nil {
		t.Fatal("part cube not found")
	}
	if p.Mesh.IsEmpty() {
		t.Error("meshed solid is empty")
	}
}

func TestSolidBooleans(t *testing.T) {
	src := `(part "joined"
  (union (box 40 40 40) (translate (box 40 40 40) 60 0 0)))`
	r := mustEval(t, src)
	p := r.sc.Lookup("joined")
	if p == nil {
		t.Fatal("part joined not found")
	}
	b := p.Mesh.Bounds()
	if b.Max.X-b.Min.X < 80 {
		t.Errorf("union x extent = %v, want near 100", b.Max.X-b.Min.X)
	}
}

func TestBuiltinArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"vec2 arity", `(vec2 1)`},
		{"vec3 non-number", `(vec3 1 2 "three")`},
		{"polygon empty", `(polygon)`},
		{"polygon mixed vertices", `(polygon (vec2 0 0) (vec3 1 1 1) (vec2 2 0))`},
		{"box zero dimension", `(box 0 10 10)`},
		{"cylinder negative radius", `(cylinder 10 -5)`},
		{"part missing body", `(part "solo")`},
		{"union non-solid", `(union (box 10 10 10) 5)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustFail(t, tt.src)
		})
	}
}

func TestNaNRejected(t *testing.T) {
	// Division producing Inf/NaN is caught at the vec boundary.
	mustFail(t, `(vec2 (/ 1.0 0.0) 0)`)
}
