// Package driver parses the sysyc command line and reads the source file, the way the teacher compiler's
// util/args.go does for its own flag set, pared down to the flags this compiler actually needs.
package driver

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const maxThreads = 64

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Options holds one parsed command line.
type Options struct {
	Src     string // Path to the SysY source file; empty means read stdin.
	Out     string // Path to the output file; empty means stdout.
	Koopa   bool   // -koopa: stop after emitting Koopa IR text, skip RISC-V codegen.
	RISCV   bool   // -riscv: emit RISC-V 32I assembly (the default if neither flag is given).
	DumpLL  bool   // -ll: additionally dump an LLVM IR module alongside the requested output, via internal/koopair/lldump.
	Threads int    // -j: number of worker goroutines for RISC-V generation; 1 (the default) means sequential.
}

// ---------------------
// ----- Functions -----
// ---------------------

// ParseArgs parses os.Args[1:] into an Options.
func ParseArgs(args []string) (Options, error) {
	opt := Options{}
	for i1 := 0; i1 < len(args); i1++ {
		switch args[i1] {
		case "-h", "-help", "--help":
			printHelp()
			os.Exit(0)
		case "-koopa":
			opt.Koopa = true
		case "-riscv":
			opt.RISCV = true
		case "-ll":
			opt.DumpLL = true
		case "-j":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag -j but no argument")
			}
			i1++
			n, err := strconv.Atoi(args[i1])
			if err != nil || n < 1 || n > maxThreads {
				return opt, fmt.Errorf("-j expects an integer thread count in range [1, %d], got %s", maxThreads, args[i1])
			}
			opt.Threads = n
		case "-o":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag -o but no argument")
			}
			if strings.HasPrefix(args[i1+1], "-") {
				return opt, fmt.Errorf("expected path after -o, got new flag %s", args[i1+1])
			}
			i1++
			opt.Out = args[i1]
		default:
			if strings.HasPrefix(args[i1], "-") {
				return opt, fmt.Errorf("unexpected flag: %s", args[i1])
			}
			opt.Src = args[i1]
		}
	}
	if opt.Koopa && opt.RISCV {
		return opt, fmt.Errorf("-koopa and -riscv are mutually exclusive")
	}
	if !opt.Koopa && !opt.RISCV {
		opt.RISCV = true
	}
	if opt.Threads < 1 {
		opt.Threads = 1
	}
	return opt, nil
}

// ReadSource reads the source file named by opt.Src, or stdin if it is empty.
func ReadSource(opt Options) (string, error) {
	if opt.Src == "" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(opt.Src)
	return string(b), err
}

// WriteOutput writes s to opt.Out, or stdout if it is empty.
func WriteOutput(opt Options, s string) error {
	if opt.Out == "" {
		_, err := os.Stdout.WriteString(s)
		return err
	}
	return os.WriteFile(opt.Out, []byte(s), 0644)
}

func printHelp() {
	fmt.Println("sysyc [-koopa | -riscv] [-ll] [-o output] [source]")
	fmt.Println("  -koopa   emit Koopa IR text and stop")
	fmt.Println("  -riscv   emit RISC-V 32I assembly (default)")
	fmt.Println("  -ll      additionally dump an LLVM IR module next to the requested output")
	fmt.Println("  -j       worker goroutines for RISC-V generation; defaults to 1 (sequential)")
	fmt.Println("  -o       output path; defaults to stdout")
}
