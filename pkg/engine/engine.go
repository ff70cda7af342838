// Package engine provides the Lisp scene-scripting engine. It wraps
// zygomys in a sandboxed environment and evaluates user source into a
// scene of named triangle meshes built from polygons, clipping,
// tessellation, and solid-kernel primitives.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/darrendavidhumphrey/fsg/pkg/kernel"
	"github.com/darrendavidhumphrey/fsg/pkg/kernel/sdfx"
	"github.com/darrendavidhumphrey/fsg/pkg/scene"
)

// EvalError represents a non-fatal error encountered during
// evaluation, such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter. It is safe for concurrent
// use; each call to Evaluate creates a fresh sandboxed environment
// for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	kernel     kernel.Kernel
}

// NewEngine creates an Engine backed by the sdfx solid kernel.
func NewEngine() *Engine {
	return &Engine{kernel: sdfx.New()}
}

// Evaluate takes Lisp source code and produces a scene of meshes.
// Each call creates a fresh zygomys sandbox.
//
// Return semantics:
//   - On success: returns scene + nil errors + nil error
//   - On parse/eval failure: returns nil scene + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*scene.Scene, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		sc, evalErrs, err := e.evaluate(source)
		ch <- evalResult{scene: sc, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*scene.Scene, []EvalError, error) {
	// Empty source is a valid program that produces an empty scene.
	if strings.TrimSpace(source) == "" {
		return scene.New(), nil, nil
	}

	// Sandbox mode prevents user code from reaching the filesystem or
	// syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	sc := scene.New()
	registerBuiltins(env, sc, e.kernel)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return sc, nil, nil
}

// linePattern matches zygomys error messages of the form
// "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." messages.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values,
// extracting a line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
