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

	"github.com/brandonxin/toyc/utils"
)

// Verify checks a built unit against the universal invariants: every
// block ends with exactly one terminator as its last instruction,
// every operand belongs to its own function (or, for callees, to the
// same unit), every call's argument count matches its callee, and no
// two result-producing instructions in the same function dump to the
// same name. It returns the first violation found, or nil for a
// well-formed unit.
func Verify(unit *CompilationUnit) error {
	funcs := make(map[*Function]bool, len(unit.Functions))
	for _, fn := range unit.Functions {
		funcs[fn] = true
	}
	for _, fn := range unit.Functions {
		if err := verifyFunction(fn, funcs); err != nil {
			return fmt.Errorf("function %q: %w", fn.Name, err)
		}
	}
	return nil
}

func verifyFunction(fn *Function, funcs map[*Function]bool) error {
	if fn.IsExtern() {
		return nil
	}
	if len(fn.Blocks) == 0 {
		return fmt.Errorf("has a body but no blocks")
	}
	owned := ownedValues(fn)
	names := utils.NewSet[string]()
	for _, bb := range fn.Blocks {
		if !bb.Terminated() {
			return fmt.Errorf("block %q does not end with a terminator", bb.Name)
		}
		for _, instr := range bb.Instrs {
			if err := verifyOperands(instr, owned, funcs); err != nil {
				return fmt.Errorf("block %q: %w", bb.Name, err)
			}
			if hasResult(instr) {
				name := fn.NameOf(instr)
				if !names.Add(name) {
					return fmt.Errorf("block %q: duplicate result name %s", bb.Name, name)
				}
			}
		}
	}
	return nil
}

// hasResult reports whether instr produces a value other instructions
// can reference, i.e. whether it gets a dumped name at all.
func hasResult(instr Instruction) bool {
	switch instr.(type) {
	case *StoreInstr, *JumpInstr, *CJumpInstr, *ReturnInstr:
		return false
	default:
		return true
	}
}

// ownedValues collects every Value that belongs to fn: its
// parameters, its materialized constants, its blocks, and every
// instruction in them.
func ownedValues(fn *Function) map[Value]bool {
	owned := make(map[Value]bool)
	for _, p := range fn.Params {
		owned[p] = true
	}
	for _, c := range fn.constants {
		owned[c] = true
	}
	for _, bb := range fn.Blocks {
		owned[bb] = true
		for _, instr := range bb.Instrs {
			owned[instr] = true
		}
	}
	return owned
}

func verifyOperands(instr Instruction, owned map[Value]bool, funcs map[*Function]bool) error {
	local := func(v Value) error {
		if v == nil {
			return nil
		}
		if !owned[v] {
			return fmt.Errorf("operand escapes its owning function")
		}
		return nil
	}

	switch i := instr.(type) {
	case *AllocaInstr:
		return nil
	case *LoadInstr:
		return local(i.Ptr)
	case *StoreInstr:
		if err := local(i.Val); err != nil {
			return err
		}
		return local(i.Ptr)
	case *ArithInstr:
		if err := local(i.LHS); err != nil {
			return err
		}
		return local(i.RHS)
	case *CallInstr:
		if !funcs[i.Callee] {
			return fmt.Errorf("calls a function outside its compilation unit")
		}
		if len(i.Args) != len(i.Callee.Params) {
			return fmt.Errorf("calls %q with %d argument(s), want %d", i.Callee.Name, len(i.Args), len(i.Callee.Params))
		}
		for _, a := range i.Args {
			if err := local(a); err != nil {
				return err
			}
		}
		return nil
	case *JumpInstr:
		return local(i.Target)
	case *CJumpInstr:
		if err := local(i.Cond); err != nil {
			return err
		}
		if err := local(i.True); err != nil {
			return err
		}
		return local(i.False)
	case *ReturnInstr:
		return local(i.Value)
	default:
		return fmt.Errorf("unhandled instruction %T", instr)
	}
}
