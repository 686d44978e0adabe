// Copyright (c) 2024 The Toyc Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Command toyc compiles a single source file to AArch64 assembly text,
// printed to stdout alongside its IR dump (and, with --dump-ast, its
// AST dump first).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brandonxin/toyc/compile"
	"github.com/brandonxin/toyc/internal/diag"
)

func main() {
	os.Exit(run())
}

// openError marks a failure to open the source file, the one case
// that exits 2 rather than 1.
type openError struct{ err error }

func (e openError) Error() string { return e.err.Error() }
func (e openError) Unwrap() error { return e.err }

// silentError marks a failure already fully reported (one diagnostic
// line per parse error, via internal/diag); run must not print it
// again.
type silentError struct{}

func (silentError) Error() string { return "" }

func run() int {
	var dumpAST bool

	cmd := &cobra.Command{
		Use:           "toyc <source>",
		Short:         "Compile a toyc source file to AArch64 assembly",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return compileFile(cmd, args[0], dumpAST)
		},
	}
	cmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the AST dump before the IR and assembly dumps")

	switch err := cmd.Execute(); {
	case err == nil:
		return 0
	case isSilent(err):
		return 1
	case isOpenError(err):
		fmt.Fprintf(os.Stderr, "toyc: %s\n", err)
		return 2
	default:
		fmt.Fprintf(os.Stderr, "toyc: %s\n", err)
		return 1
	}
}

func isSilent(err error) bool {
	_, ok := err.(silentError)
	return ok
}

func isOpenError(err error) bool {
	_, ok := err.(openError)
	return ok
}

// compileFile opens path, runs it through the pipeline, and writes the
// requested dumps to stdout. A parse-diagnostics failure is reported
// here, one line per diagnostic, then returned as silentError so run
// does not print it a second time.
func compileFile(cmd *cobra.Command, path string, dumpAST bool) error {
	f, err := os.Open(path)
	if err != nil {
		return openError{err}
	}
	defer f.Close()

	result, err := compile.Compile(f, path, dumpAST)
	if err != nil {
		if diags, ok := err.(compile.Diagnostics); ok {
			reporter := diag.NewReporter(cmd.ErrOrStderr())
			for _, d := range diags.Diagnostics {
				reporter.Report(d)
			}
			return silentError{}
		}
		return err
	}

	out := cmd.OutOrStdout()
	if dumpAST {
		fmt.Fprint(out, result.AST)
	}
	fmt.Fprint(out, result.IR)
	fmt.Fprint(out, result.ASM)
	return nil
}
