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

	"github.com/pkg/errors"

	"github.com/brandonxin/toyc/ast"
)

// semanticError marks a panic raised by fail as a recoverable
// semantic error rather than an unrelated programming bug.
type semanticError string

func fail(format string, args ...interface{}) {
	panic(semanticError(fmt.Sprintf(format, args...)))
}

// Build lowers a parsed compilation unit into IR. Expression and
// statement lowering thread a scope stack of name→Value frames; an
// unrecoverable semantic problem (unknown callee, unknown operator,
// wrong argument count) aborts the whole build and is reported as an
// error rather than a partial unit, since (unlike parse errors) there
// is no meaningful partial IR to continue with.
func Build(cu *ast.CompilationUnit) (unit *CompilationUnit, err error) {
	b := &builder{unit: NewCompilationUnit()}
	defer func() {
		if r := recover(); r != nil {
			if msg, ok := r.(semanticError); ok {
				err = errors.New(string(msg))
				return
			}
			panic(r)
		}
	}()
	b.build(cu)
	return b.unit, nil
}

type builder struct {
	unit  *CompilationUnit
	fn    *Function
	scope []map[string]Value
}

func (b *builder) build(cu *ast.CompilationUnit) {
	for _, proto := range cu.Prototypes {
		b.declare(proto)
	}
	for _, fn := range cu.Functions {
		b.declare(fn.Proto)
	}
	for _, fnDecl := range cu.Functions {
		b.buildFunction(fnDecl)
	}
}

// declare ensures a Function object exists for proto. First
// declaration wins: a repeat declaration (e.g. an extern restating a
// prototype that's also defined) returns the existing function
// untouched.
func (b *builder) declare(proto *ast.Prototype) *Function {
	fn, created := b.unit.GetOrDeclare(proto.Name)
	if created {
		fn.ReturnType = proto.ReturnType
		for i, p := range proto.Params {
			fn.Params = append(fn.Params, &Parameter{Name: p.Name, Index: i})
		}
	}
	return fn
}

func (b *builder) buildFunction(fnDecl *ast.FunctionDecl) {
	if fnDecl.Body == nil {
		return
	}
	fn, _ := b.unit.GetOrDeclare(fnDecl.Proto.Name)
	b.fn = fn

	entry := fn.NewBlock("entry")
	fn.SetInsertPoint(entry)

	b.pushScope()
	for _, p := range fn.Params {
		alloca := fn.Emit(&AllocaInstr{})
		fn.Emit(&StoreInstr{Val: p, Ptr: alloca})
		b.bind(p.Name, alloca)
	}
	b.lowerStmt(fnDecl.Body)
	b.popScope()

	if !fn.Current().Terminated() {
		fn.Emit(&ReturnInstr{})
	}
	b.fn = nil
}

// -----------------------------------------------------------------------------
// Scope: a stack of name -> Value frames.

func (b *builder) pushScope() {
	b.scope = append(b.scope, map[string]Value{})
}

func (b *builder) popScope() {
	b.scope = b.scope[:len(b.scope)-1]
}

// bind records name in the innermost frame, silently overwriting a
// same-frame redeclaration (shadowing across frames is unaffected).
func (b *builder) bind(name string, v Value) {
	b.scope[len(b.scope)-1][name] = v
}

func (b *builder) lookup(name string) (Value, bool) {
	for i := len(b.scope) - 1; i >= 0; i-- {
		if v, ok := b.scope[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// -----------------------------------------------------------------------------
// Statements

func (b *builder) lowerStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.BlockStmt:
		b.pushScope()
		for _, stmt := range s.Stmts {
			b.lowerStmt(stmt)
		}
		b.popScope()
	case *ast.IfStmt:
		b.lowerIf(s)
	case *ast.WhileStmt:
		b.lowerWhile(s)
	case *ast.VarStmt:
		b.lowerVar(s)
	case *ast.ReturnStmt:
		b.lowerReturn(s)
	case *ast.ExprStmt:
		b.lowerExpr(s.Expr)
	default:
		panic(fmt.Sprintf("ir: unhandled statement %T", s))
	}
}

// lowerIf creates then/final blocks (plus an else block only when the
// statement has an else branch) and wires them per the CJump laid out
// below. The Jump into final_bb after each arm is emitted
// unconditionally, even when that arm already returned — this leaves
// dead code behind on purpose (there is no optimization pass to
// remove it) rather than special-casing already-terminated blocks.
func (b *builder) lowerIf(s *ast.IfStmt) {
	cond := b.loadIfLValue(b.lowerExpr(s.Cond))
	thenBB := b.fn.NewBlock("then")
	finalBB := b.fn.NewBlock("final")

	if s.Else != nil {
		elseBB := b.fn.NewBlock("else")
		b.fn.Emit(&CJumpInstr{Cond: cond, True: thenBB, False: elseBB})

		b.fn.SetInsertPoint(thenBB)
		b.lowerStmt(s.Then)
		b.fn.Emit(&JumpInstr{Target: finalBB})

		b.fn.SetInsertPoint(elseBB)
		b.lowerStmt(s.Else)
		b.fn.Emit(&JumpInstr{Target: finalBB})
	} else {
		b.fn.Emit(&CJumpInstr{Cond: cond, True: thenBB, False: finalBB})

		b.fn.SetInsertPoint(thenBB)
		b.lowerStmt(s.Then)
		b.fn.Emit(&JumpInstr{Target: finalBB})
	}

	b.fn.SetInsertPoint(finalBB)
}

func (b *builder) lowerWhile(s *ast.WhileStmt) {
	condBB := b.fn.NewBlock("cond")
	loopBB := b.fn.NewBlock("loop")
	finalBB := b.fn.NewBlock("final")

	b.fn.Emit(&JumpInstr{Target: condBB})

	b.fn.SetInsertPoint(condBB)
	cond := b.loadIfLValue(b.lowerExpr(s.Cond))
	b.fn.Emit(&CJumpInstr{Cond: cond, True: loopBB, False: finalBB})

	b.fn.SetInsertPoint(loopBB)
	b.lowerStmt(s.Body)
	b.fn.Emit(&JumpInstr{Target: condBB})

	b.fn.SetInsertPoint(finalBB)
}

func (b *builder) lowerVar(s *ast.VarStmt) {
	alloca := b.fn.Emit(&AllocaInstr{})
	b.bind(s.Name, alloca)
	if s.Init != nil {
		v := b.loadIfLValue(b.lowerExpr(s.Init))
		b.fn.Emit(&StoreInstr{Val: v, Ptr: alloca})
	}
}

func (b *builder) lowerReturn(s *ast.ReturnStmt) {
	if s.Expr == nil {
		b.fn.Emit(&ReturnInstr{})
		return
	}
	v := b.loadIfLValue(b.lowerExpr(s.Expr))
	b.fn.Emit(&ReturnInstr{Value: v})
}

// -----------------------------------------------------------------------------
// Expressions

// loadIfLValue promotes an l-value (an alloca or parameter slot) to
// an r-value with an explicit Load; an r-value passes through.
func (b *builder) loadIfLValue(v Value) Value {
	if IsLValue(v) {
		return b.fn.Emit(&LoadInstr{Ptr: v})
	}
	return v
}

func (b *builder) lowerExpr(e ast.Expr) Value {
	switch e := e.(type) {
	case *ast.NumberExpr:
		return b.fn.Const(e.Value)
	case *ast.VariableExpr:
		v, ok := b.lookup(e.Name)
		if !ok {
			fail("reference to undeclared variable %q", e.Name)
		}
		return v
	case *ast.UnaryExpr:
		return b.lowerUnary(e)
	case *ast.BinaryExpr:
		return b.lowerBinary(e)
	case *ast.CallExpr:
		return b.lowerCall(e)
	default:
		panic(fmt.Sprintf("ir: unhandled expression %T", e))
	}
}

// Only '-' has a lowering (negation via 0 - operand); every other
// unary operator the parser grammatically accepted is rejected here,
// by policy (spec's unary production is deliberately permissive).
func (b *builder) lowerUnary(e *ast.UnaryExpr) Value {
	if e.Op != '-' {
		fail("unsupported unary operator %q", string(e.Op))
	}
	operand := b.loadIfLValue(b.lowerExpr(e.Operand))
	return b.fn.Emit(&ArithInstr{Op: ArithSub, LHS: b.fn.Const(0), RHS: operand})
}

func (b *builder) lowerBinary(e *ast.BinaryExpr) Value {
	if e.Op == '=' {
		lhs := b.lowerExpr(e.Left)
		if !IsLValue(lhs) {
			fail("left-hand side of assignment is not assignable")
		}
		rhs := b.loadIfLValue(b.lowerExpr(e.Right))
		b.fn.Emit(&StoreInstr{Val: rhs, Ptr: lhs})
		return rhs
	}

	lhs := b.loadIfLValue(b.lowerExpr(e.Left))
	rhs := b.loadIfLValue(b.lowerExpr(e.Right))
	switch e.Op {
	case '+':
		return b.fn.Emit(&ArithInstr{Op: ArithAdd, LHS: lhs, RHS: rhs})
	case '-':
		return b.fn.Emit(&ArithInstr{Op: ArithSub, LHS: lhs, RHS: rhs})
	case '*':
		return b.fn.Emit(&ArithInstr{Op: ArithMul, LHS: lhs, RHS: rhs})
	default:
		fail("unsupported binary operator %q", string(e.Op))
		panic("unreachable")
	}
}

func (b *builder) lowerCall(e *ast.CallExpr) Value {
	callee, ok := b.unit.FindFunction(e.Callee)
	if !ok {
		fail("call to undeclared function %q", e.Callee)
	}
	if len(e.Args) != len(callee.Params) {
		fail("call to %q passes %d argument(s), want %d", e.Callee, len(e.Args), len(callee.Params))
	}
	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		args[i] = b.loadIfLValue(b.lowerExpr(a))
	}
	return b.fn.Emit(&CallInstr{Callee: callee, Args: args})
}
