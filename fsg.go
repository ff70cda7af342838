// Package fsg ties the pieces together for embedders: it evaluates
// scene scripts into render-ready mesh data and answers pick queries
// against the most recent result.
package fsg

import (
	"log"
	"sync"

	"github.com/darrendavidhumphrey/fsg/pkg/engine"
	"github.com/darrendavidhumphrey/fsg/pkg/geom"
	"github.com/darrendavidhumphrey/fsg/pkg/scene"
)

// EvalErrorData is a JSON-serializable evaluation error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult carries everything a frontend needs after one evaluation.
type EvalResult struct {
	Meshes []scene.PartData `json:"meshes"`
	Errors []EvalErrorData  `json:"errors"`
}

// PickResult describes the part under a query ray.
type PickResult struct {
	PartName string    `json:"partName"`
	Point    geom.Vec3 `json:"point"`
	Normal   geom.Vec3 `json:"normal"`
	Distance float64   `json:"distance"`
}

// App owns an engine and the scene produced by the latest successful
// evaluation. Safe for concurrent use.
type App struct {
	engine *engine.Engine

	mu    sync.Mutex
	scene *scene.Scene
}

// NewApp creates an App backed by a fresh engine.
func NewApp() *App {
	return &App{engine: engine.NewEngine()}
}

// Evaluate runs source through the engine and returns exported mesh
// data plus any errors. A successful run replaces the pick scene; a
// failed run leaves the previous scene in place.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes: []scene.PartData{},
		Errors: []EvalErrorData{},
	}

	sc, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, superseded).
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	a.mu.Lock()
	a.scene = sc
	a.mu.Unlock()

	result.Meshes = sc.Export()
	return result
}

// Pick casts the segment from origin along dir into the current scene
// and returns the nearest part hit, or nil.
func (a *App) Pick(origin, dir geom.Vec3) *PickResult {
	a.mu.Lock()
	sc := a.scene
	a.mu.Unlock()
	if sc == nil {
		return nil
	}

	hit := sc.Pick(geom.Ray{Origin: origin, Dir: dir})
	if hit == nil {
		return nil
	}
	return &PickResult{
		PartName: hit.Part.Name,
		Point:    hit.Hit.Point,
		Normal:   hit.Hit.Normal,
		Distance: hit.Hit.Distance,
	}
}
