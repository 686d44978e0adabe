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

// Package compile is the pipeline driver: it wires the lexer, parser,
// IR builder, instruction selector, register allocator, and dumpers
// together into one pure, in-memory transformation from source text to
// the dump strings a caller prints.
package compile

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/brandonxin/toyc/ast"
	"github.com/brandonxin/toyc/codegen"
	"github.com/brandonxin/toyc/internal/diag"
	"github.com/brandonxin/toyc/ir"
)

// Result holds every textual dump the pipeline produced, in the order
// the CLI prints them. AST is only populated when the caller asked
// for it.
type Result struct {
	AST string
	IR  string
	ASM string
}

// Diagnostics reports every parse error Compile recovered, in the
// order the parser found them. A non-empty Diagnostics means Compile
// returned before attempting IR construction: there is no meaningful
// IR to build over a source file the parser could not fully make
// sense of, so the pipeline stops at the parser instead of pressing on
// with a partial AST.
type Diagnostics struct {
	Diagnostics []diag.Diagnostic
}

func (e Diagnostics) Error() string {
	return fmt.Sprintf("%d parse error(s)", len(e.Diagnostics))
}

// Compile runs source through the whole pipeline. Parse errors are
// recovered locally by the parser and returned together as a
// Diagnostics error; semantic errors (ir.Build) and internal errors
// (a broken pipeline invariant, recovered here as an ICE) abort the
// pipeline and are returned as a plain error, per spec's fatal policy
// for those two kinds.
func Compile(source io.Reader, fileName string, dumpAST bool) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("internal compiler error: %v", r)
		}
	}()

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, source); copyErr != nil {
		return Result{}, errors.Wrap(copyErr, "reading source")
	}

	lexer := ast.NewLexer(&buf, fileName)
	parser := ast.NewParser(lexer)
	unit, diags := parser.Parse()
	if len(diags) > 0 {
		return Result{}, Diagnostics{Diagnostics: diags}
	}

	if dumpAST {
		result.AST = ast.Dump(unit)
	}

	built, buildErr := ir.Build(unit)
	if buildErr != nil {
		return Result{}, buildErr
	}
	if verifyErr := ir.Verify(built); verifyErr != nil {
		return Result{}, errors.Wrap(verifyErr, "internal compiler error: ill-formed IR")
	}
	result.IR = ir.Dump(built)

	asm := codegen.Select(built)
	codegen.Allocate(asm)
	result.ASM = codegen.Dump(asm)

	return result, nil
}
