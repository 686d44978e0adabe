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

import "github.com/brandonxin/toyc/utils"

// Allocate eliminates every virtual register in asm, one procedure at
// a time. There is no liveness analysis: each use reloads from the
// virtual register's stack slot into a fresh scratch register (x8...)
// immediately before the instruction, and each def spills back to its
// slot immediately after. A plain LDR whose destination is itself a
// virtual register is coalesced away instead: the register's "slot" is
// simply recorded as the LDR's own source memory operand, so the next
// use reloads straight from there.
func Allocate(asm *AssemblyUnit) {
	for _, proc := range asm.Procedures {
		allocateProcedure(proc)
	}
}

func allocateProcedure(proc *Procedure) {
	slots := make(map[VirtualRegister]StackSlot)

	labels := make([]*Label, 0, len(proc.Labels)+2)
	labels = append(labels, proc.Prologue)
	labels = append(labels, proc.Labels...)
	labels = append(labels, proc.Epilogue)

	for _, label := range labels {
		label.Instrs = allocateLabel(proc, label.Instrs, slots)
	}
}

func allocateLabel(proc *Procedure, instrs []Instruction, slots map[VirtualRegister]StackSlot) []Instruction {
	out := make([]Instruction, 0, len(instrs))

	for _, instr := range instrs {
		if coalesceLoad(instr, slots) {
			continue
		}

		srcs := virtualOperands(instr.Reads())
		dsts := virtualOperands(instr.Writes())

		for i, ptr := range srcs {
			vreg := (*ptr).(VirtualRegister)
			slot, ok := slots[vreg]
			utils.Assert(ok, "codegen: %v read before being defined", vreg)
			reg := proc.asm.Reg(8 + i)
			out = append(out, &LdrInstr{Dst: reg, Src: slot})
			*ptr = reg
		}

		out = append(out, instr)

		for i, ptr := range dsts {
			vreg := (*ptr).(VirtualRegister)
			slot, ok := slots[vreg]
			if !ok {
				slot = proc.NewStackSlot()
				slots[vreg] = slot
			}
			reg := proc.asm.Reg(8 + len(srcs) + i)
			*ptr = reg
			out = append(out, &StrInstr{Src: reg, Dst: slot})
		}
	}

	return out
}

// coalesceLoad recognizes "vreg = load memory" and records memory as
// vreg's slot directly, dropping the instruction instead of emitting
// it and then immediately spilling its result back to a fresh slot.
func coalesceLoad(instr Instruction, slots map[VirtualRegister]StackSlot) bool {
	ldr, ok := instr.(*LdrInstr)
	if !ok {
		return false
	}
	vreg, ok := ldr.Dst.(VirtualRegister)
	if !ok {
		return false
	}
	slot, ok := ldr.Src.(StackSlot)
	utils.Assert(ok, "codegen: load coalescing expects a stack-slot source")
	slots[vreg] = slot
	return true
}

// virtualOperands filters ptrs down to those currently holding a
// VirtualRegister, preserving order.
func virtualOperands(ptrs []*Operand) []*Operand {
	var out []*Operand
	for _, ptr := range ptrs {
		if _, ok := (*ptr).(VirtualRegister); ok {
			out = append(out, ptr)
		}
	}
	return out
}
