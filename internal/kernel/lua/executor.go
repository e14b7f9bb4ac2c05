// Package lua evaluates notebook cells in an embedded Lua interpreter.
//
// One interpreter lives for the life of the executor, so globals defined by
// one cell are visible to the next. Only the base, table, string and math
// libraries are opened. print writes to the cell output, and a cell that is
// a single expression yields its value.
package lua

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inkwell/internal/kernel"
)

// Name is the executor name used in configuration.
const Name = "lua"

// Executor is a kernel.Executor backed by gopher-lua. gopher-lua states
// are not goroutine-safe; Execute serializes access.
type Executor struct {
	mu     sync.Mutex
	L      *lua.LState
	out    strings.Builder
	closed bool
}

// New creates an executor with a fresh sandboxed interpreter.
func New() *Executor {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath} {
		open(L)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "collectgarbage"} {
		L.SetGlobal(name, lua.LNil)
	}

	e := &Executor{L: L}
	L.SetGlobal("print", L.NewFunction(e.print))
	return e
}

// Name returns "lua".
func (e *Executor) Name() string { return Name }

// Execute runs one cell. Cancelling ctx stops the interpreter between
// instructions.
func (e *Executor) Execute(ctx context.Context, req kernel.Request) kernel.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := kernel.Result{ID: req.ID, Cell: req.Cell}
	if e.closed {
		res.Err = kernel.ErrClosed
		return res
	}

	start := time.Now()
	e.out.Reset()
	e.L.SetContext(ctx)
	defer e.L.RemoveContext()

	values, err := e.run(req.Source)
	res.Duration = time.Since(start)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		res.Err = err
	}
	for _, v := range values {
		e.out.WriteString(v.String())
		e.out.WriteByte('\n')
	}
	res.Output = strings.TrimSuffix(e.out.String(), "\n")
	return res
}

// run evaluates src as an expression first and as a chunk otherwise.
func (e *Executor) run(src string) (values []lua.LValue, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	fn, compileErr := e.L.LoadString("return " + src)
	if compileErr != nil {
		if fn, err = e.L.LoadString(src); err != nil {
			return nil, err
		}
	}

	top := e.L.GetTop()
	e.L.Push(fn)
	if err := e.L.PCall(0, lua.MultRet, nil); err != nil {
		return nil, err
	}
	n := e.L.GetTop() - top
	for i := 1; i <= n; i++ {
		values = append(values, e.L.Get(top+i))
	}
	e.L.Pop(n)
	return values, nil
}

func (e *Executor) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	e.out.WriteString(strings.Join(parts, "\t"))
	e.out.WriteByte('\n')
	return 0
}

// Close releases the interpreter.
func (e *Executor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		e.L.Close()
	}
	return nil
}
