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
package codegen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brandonxin/toyc/ast"
	"github.com/brandonxin/toyc/codegen"
	"github.com/brandonxin/toyc/ir"
)

func compileToAsm(t *testing.T, src string) *codegen.AssemblyUnit {
	t.Helper()
	p := ast.NewParser(ast.NewLexer(strings.NewReader(src), "test.t"))
	cu, diags := p.Parse()
	require.Empty(t, diags)
	unit, err := ir.Build(cu)
	require.NoError(t, err)
	require.NoError(t, ir.Verify(unit))

	asm := codegen.Select(unit)
	codegen.Allocate(asm)
	return asm
}

// allInstructions walks every label of every procedure, in prologue,
// body, epilogue order.
func allInstructions(asm *codegen.AssemblyUnit) []codegen.Instruction {
	var out []codegen.Instruction
	for _, proc := range asm.Procedures {
		out = append(out, proc.Prologue.Instrs...)
		for _, l := range proc.Labels {
			out = append(out, l.Instrs...)
		}
		out = append(out, proc.Epilogue.Instrs...)
	}
	return out
}

func TestAllocationTotality(t *testing.T) {
	asm := compileToAsm(t, `func add(a: int, b: int) : int { return a + b; }`)
	for _, instr := range allInstructions(asm) {
		for _, ptr := range instr.Reads() {
			_, isVirtual := (*ptr).(codegen.VirtualRegister)
			require.False(t, isVirtual, "no operand should remain a virtual register after allocation")
		}
		for _, ptr := range instr.Writes() {
			_, isVirtual := (*ptr).(codegen.VirtualRegister)
			require.False(t, isVirtual, "no operand should remain a virtual register after allocation")
		}
	}
}

func TestParameterStorePairing(t *testing.T) {
	asm := compileToAsm(t, `func add(a: int, b: int) : int { return a + b; }`)
	proc := asm.Procedures[0]

	seenSrc := map[string]int{}
	seenSlot := map[int64]int{}
	for _, instr := range proc.Prologue.Instrs {
		str, ok := instr.(*codegen.StrInstr)
		if !ok {
			continue
		}
		reg, ok := str.Src.(codegen.PhysicalRegister)
		if !ok || !strings.HasPrefix(reg.Name, "x") {
			continue
		}
		slot, ok := str.Dst.(codegen.StackSlot)
		require.True(t, ok)
		seenSrc[reg.Name]++
		seenSlot[slot.Offset]++
	}
	require.Equal(t, 1, seenSrc["x0"])
	require.Equal(t, 1, seenSrc["x1"])
	for reg, count := range seenSrc {
		require.Equal(t, 1, count, "parameter register %s stored more than once", reg)
	}
	for slot, count := range seenSlot {
		require.Equal(t, 1, count, "slot %d reused by more than one parameter", slot)
	}
}

func TestIdentityFunctionAssemblyShape(t *testing.T) {
	asm := compileToAsm(t, `func id(a: int) : int { return a; }`)
	text := codegen.Dump(asm)

	require.Contains(t, text, "_id:")
	require.Contains(t, text, "str x0, [sp, #-8]")
	require.Contains(t, text, "mov x0, x8")
	require.Contains(t, text, ".Lid_epilogue:")
	require.Contains(t, text, "ret")
}

func TestCallEmitsBl(t *testing.T) {
	asm := compileToAsm(t, `extern print(x: int);
func main() : int { print(7); return 0; }`)
	text := codegen.Dump(asm)
	require.Contains(t, text, "bl _print")
	// no directive or section lines.
	require.False(t, strings.Contains(text, ".section"))
	require.False(t, strings.Contains(text, ".global"))
}

func TestAllocateCoalescesPlainLoads(t *testing.T) {
	asm := compileToAsm(t, `func id(a: int) : int { return a; }`)
	proc := asm.Procedures[0]
	for _, l := range proc.Labels {
		for _, instr := range l.Instrs {
			ldr, ok := instr.(*codegen.LdrInstr)
			if !ok {
				continue
			}
			_, stillVirtual := ldr.Dst.(codegen.VirtualRegister)
			require.False(t, stillVirtual)
		}
	}
}
