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

// Package codegen is the AArch64 backend: a virtual-register machine
// IR, an instruction selector from ir to that machine IR, and a naive
// register allocator that replaces virtual registers with physical
// ones via stack spills.
package codegen

import "fmt"

// Operand is any value an instruction can read or write: a register
// (physical or still-virtual), a memory reference, a stack slot, an
// immediate, or a label. Exactly one of these concrete types is ever
// stored behind the interface; callers switch on it exhaustively.
type Operand interface {
	operandNode()
}

// PhysicalRegister is one of the 31 general AArch64 registers or sp.
type PhysicalRegister struct {
	Name string
}

func (PhysicalRegister) operandNode() {}

func (r PhysicalRegister) String() string { return r.Name }

// VirtualRegister stands for "some register yet to be chosen"; the
// allocator eliminates every one of these.
type VirtualRegister struct {
	ID int
}

func (VirtualRegister) operandNode() {}

func (v VirtualRegister) String() string { return fmt.Sprintf("v%d", v.ID) }

// Memory is a general base-plus-offset reference. The selector never
// constructs one with a virtual base (every pointer in this language
// is a stack slot), but the type is kept distinct from StackSlot to
// match the data model: a StackSlot is the base=sp special case.
type Memory struct {
	Base   Operand
	Offset int64
}

func (Memory) operandNode() {}

// StackSlot is a spill location: a Memory whose base is implicitly
// sp. Offsets are negative, growing downward from the frame's top.
type StackSlot struct {
	Offset int64
}

func (StackSlot) operandNode() {}

func (s StackSlot) String() string { return fmt.Sprintf("[sp, #%d]", s.Offset) }

// Immediate is a constant operand, encoded directly where the target
// instruction allows it.
type Immediate struct {
	Value int64
}

func (Immediate) operandNode() {}

func (i Immediate) String() string { return fmt.Sprintf("#%d", i.Value) }

// Label names a branch target: a basic block, a procedure's prologue
// or epilogue, or an unresolved extern symbol. As a branch target it
// is an Operand; it also owns the ordered instruction sequence
// beneath it.
type Label struct {
	Name   string
	Instrs []Instruction
}

func (*Label) operandNode() {}

func (l *Label) String() string { return l.Name }
