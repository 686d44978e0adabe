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
package ir

import (
	"fmt"
	"strings"
)

// Dump renders every function in the unit: "define @name(params)" (or
// "extern @name(params);" for a bodyless one) followed by its blocks,
// each instruction indented four spaces.
func Dump(unit *CompilationUnit) string {
	var b strings.Builder
	for _, fn := range unit.Functions {
		dumpFunction(&b, fn)
	}
	return b.String()
}

func dumpFunction(b *strings.Builder, fn *Function) {
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.Name
	}
	params := strings.Join(names, ", ")

	if fn.IsExtern() {
		fmt.Fprintf(b, "extern @%s(%s);\n", fn.Name, params)
		return
	}

	fmt.Fprintf(b, "define @%s(%s)\n", fn.Name, params)
	for _, bb := range fn.Blocks {
		fmt.Fprintf(b, "%s:\n", bb.Name)
		for _, instr := range bb.Instrs {
			fmt.Fprintf(b, "    %s\n", dumpInstr(fn, instr))
		}
	}
}

// operand renders v as it appears on the right-hand side of an
// instruction: "$k" for a constant, otherwise its assigned name.
func operand(fn *Function, v Value) string {
	if c, ok := v.(*Constant); ok {
		return fmt.Sprintf("$%d", c.Value)
	}
	return fn.NameOf(v)
}

func dumpInstr(fn *Function, i Instruction) string {
	switch i := i.(type) {
	case *AllocaInstr:
		return fmt.Sprintf("%s = alloca", fn.NameOf(i))
	case *LoadInstr:
		return fmt.Sprintf("%s = load %s", fn.NameOf(i), operand(fn, i.Ptr))
	case *StoreInstr:
		return fmt.Sprintf("store %s, %s", operand(fn, i.Val), operand(fn, i.Ptr))
	case *ArithInstr:
		return fmt.Sprintf("%s = %s %s, %s", fn.NameOf(i), i.Op, operand(fn, i.LHS), operand(fn, i.RHS))
	case *CallInstr:
		args := make([]string, len(i.Args))
		for idx, a := range i.Args {
			args[idx] = operand(fn, a)
		}
		return fmt.Sprintf("%s = call @%s(%s)", fn.NameOf(i), i.Callee.Name, strings.Join(args, ", "))
	case *JumpInstr:
		return fmt.Sprintf("jump %s", i.Target.Name)
	case *CJumpInstr:
		return fmt.Sprintf("cjump %s, %s, %s", operand(fn, i.Cond), i.True.Name, i.False.Name)
	case *ReturnInstr:
		if i.Value == nil {
			return "return"
		}
		return fmt.Sprintf("return %s", operand(fn, i.Value))
	default:
		panic(fmt.Sprintf("ir.Dump: unhandled instruction %T", i))
	}
}
