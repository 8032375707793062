// Command sysyc compiles a SysY source file to Koopa IR text or RISC-V 32I assembly, following the pipeline
// stages the teacher compiler's main.go runs one after another: read source, parse, lower, optionally
// generate RISC-V, write output.
package main

import (
	"fmt"
	"os"

	"sysyc/internal/driver"
	"sysyc/internal/frontend"
	"sysyc/internal/koopair"
	"sysyc/internal/koopair/lldump"
	"sysyc/internal/lower"
	"sysyc/internal/riscv"
)

func run(opt driver.Options) error {
	src, err := driver.ReadSource(opt)
	if err != nil {
		return fmt.Errorf("could not read source: %w", err)
	}

	cu, err := frontend.Parse(src)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	koopaText, err := lower.Lower(cu)
	if err != nil {
		return fmt.Errorf("lowering error: %w", err)
	}

	if opt.DumpLL {
		if err := dumpLL(koopaText, opt); err != nil {
			return fmt.Errorf("ll dump error: %w", err)
		}
	}

	if opt.Koopa {
		return driver.WriteOutput(opt, koopaText)
	}

	prog, err := koopair.Parse(koopaText)
	if err != nil {
		return fmt.Errorf("internal error re-parsing lowered IR: %w", err)
	}
	asm, err := riscv.GenConcurrent(prog, opt.Threads)
	if err != nil {
		return fmt.Errorf("codegen error: %w", err)
	}
	return driver.WriteOutput(opt, asm)
}

// dumpLL writes an LLVM IR rendering of koopaText next to the requested output, purely as a debug aid; it
// never feeds back into the RISC-V path.
func dumpLL(koopaText string, opt driver.Options) error {
	prog, err := koopair.Parse(koopaText)
	if err != nil {
		return err
	}
	ll, err := lldump.Dump(prog, "sysy")
	if err != nil {
		return err
	}
	llOpt := opt
	llOpt.Out = opt.Out + ".ll"
	if opt.Out == "" {
		fmt.Fprintln(os.Stderr, ll)
		return nil
	}
	return driver.WriteOutput(llOpt, ll)
}

func main() {
	opt, err := driver.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "sysyc: %s\n", err)
		os.Exit(1)
	}
	if err := run(opt); err != nil {
		fmt.Fprintf(os.Stderr, "sysyc: %s\n", err)
		os.Exit(1)
	}
}
