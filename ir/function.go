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

import "fmt"

// Function owns its parameters, its basic blocks (the first inserted
// is the entry block), and arenas for the constants and instructions
// it emits. A Function with no blocks is an extern declaration.
type Function struct {
	Name       string
	ReturnType string
	Params     []*Parameter

	Blocks    []*BasicBlock
	constants []*Constant

	insertAt *BasicBlock

	blockSeq  int
	names     map[Value]string
	nameSeq   int
}

// IsExtern reports whether this function has no body.
func (f *Function) IsExtern() bool {
	return len(f.Blocks) == 0
}

// NewBlock appends a fresh basic block named "<hint>_<n>" (or
// "BB_<n>" when hint is empty), unique within this function, and
// returns it without changing the insertion point.
func (f *Function) NewBlock(hint string) *BasicBlock {
	if hint == "" {
		hint = "BB"
	}
	bb := &BasicBlock{Name: fmt.Sprintf("%s_%d", hint, f.blockSeq)}
	f.blockSeq++
	f.Blocks = append(f.Blocks, bb)
	return bb
}

// SetInsertPoint advances the current insertion point. bb must belong
// to this function.
func (f *Function) SetInsertPoint(bb *BasicBlock) {
	f.insertAt = bb
}

// Current returns the basic block instructions are currently appended
// to.
func (f *Function) Current() *BasicBlock {
	return f.insertAt
}

// Emit appends i to the current insertion point and returns it, so
// callers can use a result-producing instruction as a Value in the
// same expression that created it.
func (f *Function) Emit(i Instruction) Instruction {
	f.insertAt.Instrs = append(f.insertAt.Instrs, i)
	return i
}

// Const materializes a fresh Constant in this function's arena.
func (f *Function) Const(v int64) *Constant {
	c := &Constant{Value: v}
	f.constants = append(f.constants, c)
	return c
}

// NameOf returns v's dump name, assigning one on first use for
// result-producing instructions that don't already have one.
// Parameters and basic blocks carry their own name; constants are
// rendered at the call site as "$k", not through NameOf.
func (f *Function) NameOf(v Value) string {
	switch v := v.(type) {
	case *Parameter:
		return v.Name
	case *BasicBlock:
		return v.Name
	}
	if name, ok := f.names[v]; ok {
		return name
	}
	name := fmt.Sprintf("%%%d", f.nameSeq)
	f.nameSeq++
	if f.names == nil {
		f.names = make(map[Value]string)
	}
	f.names[v] = name
	return name
}
