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
package ir_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brandonxin/toyc/ast"
	"github.com/brandonxin/toyc/ir"
)

func build(t *testing.T, src string) *ir.CompilationUnit {
	t.Helper()
	p := ast.NewParser(ast.NewLexer(strings.NewReader(src), "test.t"))
	cu, diags := p.Parse()
	require.Empty(t, diags)
	unit, err := ir.Build(cu)
	require.NoError(t, err)
	require.NoError(t, ir.Verify(unit))
	return unit
}

func TestBuildIdentityFunction(t *testing.T) {
	unit := build(t, `func id(a: int) : int { return a; }`)
	require.Equal(t, "define @id(a)\n"+
		"entry_0:\n"+
		"    %0 = alloca\n"+
		"    store a, %0\n"+
		"    %1 = load %0\n"+
		"    return %1\n", ir.Dump(unit))
}

func TestBuildAddition(t *testing.T) {
	unit := build(t, `func add(a: int, b: int) : int { return a + b; }`)
	require.Contains(t, ir.Dump(unit), "= add ")
}

func TestBuildIfWithoutElseLeavesDeadJump(t *testing.T) {
	unit := build(t, `func f(x: int) : int { if x { return 1; } return 0; }`)
	fn, ok := unit.FindFunction("f")
	require.True(t, ok)
	// entry (param alloca/store + cjump), then_bb, final_bb; no else_bb.
	require.Len(t, fn.Blocks, 3, "no else branch: else_bb is elided")

	thenBB := fn.Blocks[1]
	require.Len(t, thenBB.Instrs, 2)
	_, isReturn := thenBB.Instrs[0].(*ir.ReturnInstr)
	require.True(t, isReturn)
	_, isJump := thenBB.Instrs[1].(*ir.JumpInstr)
	require.True(t, isJump, "a dead Jump after the early return is left in place")

	finalBB := fn.Blocks[2]
	_, isFinalReturn := finalBB.Instrs[len(finalBB.Instrs)-1].(*ir.ReturnInstr)
	require.True(t, isFinalReturn)
}

func TestBuildWhileLoop(t *testing.T) {
	unit := build(t, `func g(n: int) : int {
		var i: int = n;
		while i { i = i - 1; }
		return i;
	}`)
	fn, ok := unit.FindFunction("g")
	require.True(t, ok)

	var loopBB *ir.BasicBlock
	for _, bb := range fn.Blocks {
		if strings.HasPrefix(bb.Name, "loop_") {
			loopBB = bb
		}
	}
	require.NotNil(t, loopBB)
	last, ok := loopBB.Instrs[len(loopBB.Instrs)-1].(*ir.JumpInstr)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(last.Target.Name, "cond_"))
}

func TestBuildScopedShadowing(t *testing.T) {
	unit := build(t, `func s() : int { var x: int = 1; { var x: int = 2; } return x; }`)
	fn, ok := unit.FindFunction("s")
	require.True(t, ok)

	var allocas int
	for _, bb := range fn.Blocks {
		for _, instr := range bb.Instrs {
			if _, ok := instr.(*ir.AllocaInstr); ok {
				allocas++
			}
		}
	}
	require.Equal(t, 2, allocas)

	dump := ir.Dump(unit)
	require.Contains(t, dump, "= load %0", "the final read loads the outer x's alloca, not the shadowed one")
}

func TestBuildExternAndCall(t *testing.T) {
	unit := build(t, `extern print(x: int);
func main() : int { print(7); return 0; }`)
	dump := ir.Dump(unit)
	require.True(t, strings.HasPrefix(dump, "extern @print(x);\n"))
	require.Contains(t, dump, "call @print($7)")
	require.Contains(t, dump, "return $0")
}

func TestBuildRejectsUnknownCallee(t *testing.T) {
	p := ast.NewParser(ast.NewLexer(strings.NewReader(`func f() : int { return g(); }`), "test.t"))
	cu, diags := p.Parse()
	require.Empty(t, diags)
	_, err := ir.Build(cu)
	require.Error(t, err)
}

func TestBuildRejectsNonMinusUnary(t *testing.T) {
	p := ast.NewParser(ast.NewLexer(strings.NewReader(`func f() : int { return ~1; }`), "test.t"))
	cu, diags := p.Parse()
	require.Empty(t, diags)
	_, err := ir.Build(cu)
	require.Error(t, err)
}

func TestBuildIsDeterministic(t *testing.T) {
	src := `func add(a: int, b: int) : int { return a + b; }`
	p1 := ast.NewParser(ast.NewLexer(strings.NewReader(src), "test.t"))
	cu1, _ := p1.Parse()
	unit1, err := ir.Build(cu1)
	require.NoError(t, err)

	p2 := ast.NewParser(ast.NewLexer(strings.NewReader(src), "test.t"))
	cu2, _ := p2.Parse()
	unit2, err := ir.Build(cu2)
	require.NoError(t, err)

	require.Equal(t, ir.Dump(unit1), ir.Dump(unit2))
}
