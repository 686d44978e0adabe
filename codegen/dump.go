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
package codegen

import (
	"fmt"
	"strings"
)

// Dump renders an allocated assembly unit as plain AArch64 text: one
// label per line, each instruction beneath it indented by a tab. There
// are no directives or sections; the output is exactly the procedures
// the unit defines.
func Dump(asm *AssemblyUnit) string {
	var b strings.Builder
	for _, proc := range asm.Procedures {
		dumpLabel(&b, proc.Prologue)
		for _, l := range proc.Labels {
			dumpLabel(&b, l)
		}
		dumpLabel(&b, proc.Epilogue)
	}
	return b.String()
}

func dumpLabel(b *strings.Builder, l *Label) {
	fmt.Fprintf(b, "%s:\n", l.Name)
	for _, instr := range l.Instrs {
		fmt.Fprintf(b, "\t%s\n", instrString(instr))
	}
}

func instrString(i Instruction) string {
	switch i := i.(type) {
	case *MovInstr:
		return fmt.Sprintf("mov %s, %s", operandString(i.Dst), operandString(i.Src))
	case *LdrInstr:
		return fmt.Sprintf("ldr %s, %s", operandString(i.Dst), operandString(i.Src))
	case *StrInstr:
		return fmt.Sprintf("str %s, %s", operandString(i.Src), operandString(i.Dst))
	case *BInstr:
		return fmt.Sprintf("b %s", i.Target.Name)
	case *CbnzInstr:
		return fmt.Sprintf("cbnz %s, %s", operandString(i.Cond), i.Target.Name)
	case *BlInstr:
		return fmt.Sprintf("bl %s", i.Target.Name)
	case *RetInstr:
		return "ret"
	case *AddInstr:
		return fmt.Sprintf("add %s, %s, %s", operandString(i.Dst), operandString(i.LHS), operandString(i.RHS))
	case *SubInstr:
		return fmt.Sprintf("sub %s, %s, %s", operandString(i.Dst), operandString(i.LHS), operandString(i.RHS))
	case *MulInstr:
		return fmt.Sprintf("mul %s, %s, %s", operandString(i.Dst), operandString(i.LHS), operandString(i.RHS))
	default:
		panic(fmt.Sprintf("codegen.Dump: unhandled instruction %T", i))
	}
}

func operandString(o Operand) string {
	switch o := o.(type) {
	case PhysicalRegister:
		return o.Name
	case VirtualRegister:
		return o.String()
	case StackSlot:
		return o.String()
	case Memory:
		return fmt.Sprintf("[%s, #%d]", operandString(o.Base), o.Offset)
	case Immediate:
		return o.String()
	case *Label:
		return o.Name
	default:
		panic(fmt.Sprintf("codegen.Dump: unhandled operand %T", o))
	}
}
