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

	"github.com/brandonxin/toyc/ir"
	"github.com/brandonxin/toyc/utils"
)

// Select translates a unit's IR into an AArch64 assembly unit: one
// Procedure per defined function, one ExternLabel per declaration
// without a body. Every non-extern Procedure is created up front so a
// call to a function defined later in the unit still resolves.
func Select(unit *ir.CompilationUnit) *AssemblyUnit {
	asm := NewAssemblyUnit()
	procs := make(map[*ir.Function]*Procedure, len(unit.Functions))
	for _, fn := range unit.Functions {
		if fn.IsExtern() {
			asm.ExternLabel(fn.Name)
			continue
		}
		procs[fn] = asm.NewProcedure(fn.Name)
	}
	for _, fn := range unit.Functions {
		if fn.IsExtern() {
			continue
		}
		selectFunction(asm, procs, fn)
	}
	return asm
}

type selector struct {
	asm    *AssemblyUnit
	procs  map[*ir.Function]*Procedure
	proc   *Procedure
	values map[ir.Value]Operand
	blocks map[*ir.BasicBlock]*Label
}

// selectFunction lays down a machine Label per IR basic block, then
// selects each block's instructions in order. A parameter carries no
// operand of its own until the entry block's builder-emitted Store
// spills its incoming register to its alloca slot; see selectInstr.
func selectFunction(asm *AssemblyUnit, procs map[*ir.Function]*Procedure, fn *ir.Function) {
	utils.Assert(len(fn.Params) <= 8, "function %q takes more than eight parameters", fn.Name)

	s := &selector{
		asm:    asm,
		procs:  procs,
		proc:   procs[fn],
		values: make(map[ir.Value]Operand),
		blocks: make(map[*ir.BasicBlock]*Label),
	}

	for _, bb := range fn.Blocks {
		s.blocks[bb] = s.proc.NewLabel(bb.Name)
	}

	for _, bb := range fn.Blocks {
		label := s.blocks[bb]
		for _, instr := range bb.Instrs {
			s.selectInstr(label, instr)
		}
	}
}

func (s *selector) selectInstr(label *Label, instr ir.Instruction) {
	emit := func(mi Instruction) { label.Instrs = append(label.Instrs, mi) }

	switch i := instr.(type) {
	case *ir.AllocaInstr:
		s.values[i] = s.proc.NewStackSlot()

	case *ir.StoreInstr:
		// A parameter's very first store (the builder always emits one,
		// right after its alloca) is the prologue spill of its incoming
		// argument register: it belongs in the prologue, straight from
		// that register, never through an intermediate operand lookup.
		if p, ok := i.Val.(*ir.Parameter); ok {
			s.proc.Prologue.Instrs = append(s.proc.Prologue.Instrs, &StrInstr{
				Src: s.asm.Reg(p.Index),
				Dst: s.operand(i.Ptr),
			})
			return
		}
		emit(&StrInstr{Src: s.operand(i.Val), Dst: s.operand(i.Ptr)})

	case *ir.LoadInstr:
		v := s.proc.NewVirtual()
		emit(&LdrInstr{Dst: v, Src: s.operand(i.Ptr)})
		s.values[i] = v

	case *ir.ArithInstr:
		v := s.proc.NewVirtual()
		emit(s.arith(i.Op, v, s.operand(i.LHS), s.operand(i.RHS)))
		s.values[i] = v

	case *ir.JumpInstr:
		emit(&BInstr{Target: s.blocks[i.Target]})

	case *ir.CJumpInstr:
		emit(&CbnzInstr{Cond: s.operand(i.Cond), Target: s.blocks[i.True]})
		emit(&BInstr{Target: s.blocks[i.False]})

	case *ir.CallInstr:
		utils.Assert(len(i.Args) <= 8, "call to %q passes more than eight arguments", i.Callee.Name)
		for idx, a := range i.Args {
			emit(&MovInstr{Dst: s.asm.Reg(idx), Src: s.operand(a)})
		}
		emit(&BlInstr{Target: s.calleeLabel(i.Callee)})
		v := s.proc.NewVirtual()
		emit(&MovInstr{Dst: v, Src: s.asm.Reg(0)})
		s.values[i] = v

	case *ir.ReturnInstr:
		if i.Value != nil {
			emit(&MovInstr{Dst: s.asm.Reg(0), Src: s.operand(i.Value)})
		}
		emit(&BInstr{Target: s.proc.Epilogue})

	default:
		panic(fmt.Sprintf("codegen: unhandled IR instruction %T", instr))
	}
}

func (s *selector) arith(op ir.ArithOp, dst Operand, lhs, rhs Operand) Instruction {
	switch op {
	case ir.ArithAdd:
		return &AddInstr{Dst: dst, LHS: lhs, RHS: rhs}
	case ir.ArithSub:
		return &SubInstr{Dst: dst, LHS: lhs, RHS: rhs}
	case ir.ArithMul:
		return &MulInstr{Dst: dst, LHS: lhs, RHS: rhs}
	default:
		panic(fmt.Sprintf("codegen: unhandled arithmetic operator %v", op))
	}
}

// operand resolves v to the operand selected for it: a constant
// materializes directly as an Immediate, everything else was recorded
// by an earlier selectInstr call (an alloca's slot, or a prior
// instruction's result). A bare Parameter never reaches here — its
// only use is consumed directly in the StoreInstr case above.
func (s *selector) operand(v ir.Value) Operand {
	if c, ok := v.(*ir.Constant); ok {
		return Immediate{Value: c.Value}
	}
	opr, ok := s.values[v]
	utils.Assert(ok, "codegen: value selected for use before its definition")
	return opr
}

func (s *selector) calleeLabel(fn *ir.Function) *Label {
	if fn.IsExtern() {
		return s.asm.ExternLabel(fn.Name)
	}
	proc, ok := s.procs[fn]
	utils.Assert(ok, "codegen: call to %q outside its compilation unit", fn.Name)
	return proc.Prologue
}
