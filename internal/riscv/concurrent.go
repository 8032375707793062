package riscv

import (
	"fmt"
	"sync"

	"sysyc/internal/emit"
	"sysyc/internal/koopair"
	"sysyc/internal/util"
)

// ---------------------
// ----- Functions -----
// ---------------------

// GenConcurrent is Gen's parallel counterpart: once lowered, every defined function is an independent
// compilation unit (frame planning and emission never look past one function's own blocks), so threads workers
// can plan and emit functions in any order. Mirrors the teacher compiler's backend/riscv/riscv.go
// opt.Threads > 1 fan-out: a shared work stack of remaining functions, one Perror aggregating whatever errors
// the workers hit. Assembly order is still the program's declaration order, restored from the per-function
// results map after every worker has drained the stack.
func GenConcurrent(prog *koopair.Program, threads int) (string, error) {
	if threads < 2 {
		return Gen(prog)
	}

	work := &util.Stack{}
	for _, fn := range prog.Funcs {
		if !fn.IsDeclaration() {
			work.Push(fn)
		}
	}
	if work.Empty() {
		return Gen(prog)
	}

	perr := util.NewPerror(threads)
	results := struct {
		m  map[string]string
		mx sync.Mutex
	}{m: make(map[string]string, work.Size())}

	if threads > work.Size() {
		threads = work.Size()
	}
	wg := sync.WaitGroup{}
	for t := 0; t < threads; t++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				e1 := work.Pop()
				if e1 == nil {
					return
				}
				fn := e1.(*koopair.Function)
				out, err := genOneFunc(fn)
				if err != nil {
					perr.Append(fmt.Errorf("function %s: %w", fn.Name, err))
					continue
				}

				results.mx.Lock()
				results.m[fn.Name] = out
				results.mx.Unlock()
			}
		}()
	}
	wg.Wait()
	perr.Stop()

	if perr.Len() > 0 {
		errs := perr.Errors()
		return "", fmt.Errorf("%d error(s) during parallel RISC-V generation: %v", len(errs), errs[0])
	}

	w := emit.New()
	if len(prog.Globals) > 0 {
		w.WriteString("  .data\n")
		for _, g1 := range prog.Globals {
			gg := &gen{w: w}
			gg.emitGlobal(g1)
		}
		w.WriteString("\n")
	}
	w.WriteString("  .text\n")
	for _, fn := range prog.Funcs {
		if fn.IsDeclaration() {
			continue
		}
		w.WriteString(results.m[fn.Name])
	}
	return w.String(), nil
}

// genOneFunc plans and emits a single function, recovering from any panic so that one malformed function
// can't take down the whole parallel build; a panicking function is reported through Perror like any other
// codegen failure instead.
func genOneFunc(fn *koopair.Function) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during codegen: %v", r)
		}
	}()
	frame := PlanFrame(fn)
	gg := &gen{w: emit.New(), frame: frame, funcName: fn.Name}
	gg.emitFunction(fn)
	return gg.w.String(), nil
}
