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
package ast

import "fmt"

// -----------------------------------------------------------------------------
// Root interfaces
//
// The language has exactly two categories of node: expressions, which
// produce a value, and statements, which don't. Both are closed sets of
// structs tagged by their own type (a sum type expressed with Go
// interfaces), so a reader of the IR builder switches over concrete
// types exhaustively instead of double-dispatching through a visitor.

type Expr interface {
	fmt.Stringer
	exprNode()
}

type Stmt interface {
	fmt.Stringer
	stmtNode()
}

// -----------------------------------------------------------------------------
// Expressions

type NumberExpr struct {
	Value int64
}

type VariableExpr struct {
	Name string
}

// UnaryExpr is parsed for any single-character token other than '('
// and ',' (Op is that operator's byte), but only '-'
// has a lowering; anything else is a fatal error at IR-construction
// time, not at parse time.
type UnaryExpr struct {
	Op      byte
	Operand Expr
}

type BinaryExpr struct {
	Op    byte
	Left  Expr
	Right Expr
}

type CallExpr struct {
	Callee string
	Args   []Expr
}

func (*NumberExpr) exprNode()   {}
func (*VariableExpr) exprNode() {}
func (*UnaryExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*CallExpr) exprNode()     {}

func (e *NumberExpr) String() string   { return fmt.Sprintf("Number (%d)", e.Value) }
func (e *VariableExpr) String() string { return fmt.Sprintf("Variable (%s)", e.Name) }
func (e *UnaryExpr) String() string    { return fmt.Sprintf("UnaryExpr (%c)", e.Op) }
func (e *BinaryExpr) String() string   { return fmt.Sprintf("BinaryExpr (%c)", e.Op) }
func (e *CallExpr) String() string     { return fmt.Sprintf("Call (%s)", e.Callee) }

// -----------------------------------------------------------------------------
// Statements

type BlockStmt struct {
	Stmts []Stmt
}

type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil when there is no else branch
}

type WhileStmt struct {
	Cond Expr
	Body Stmt
}

// VarStmt declares a local variable. Init is nil when the declaration
// has no initializer.
type VarStmt struct {
	Name string
	Type string
	Init Expr
}

// ReturnStmt's Expr is nil for a bare "return;".
type ReturnStmt struct {
	Expr Expr
}

type ExprStmt struct {
	Expr Expr
}

func (*BlockStmt) stmtNode()  {}
func (*IfStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()  {}
func (*VarStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode() {}
func (*ExprStmt) stmtNode()   {}

func (s *BlockStmt) String() string  { return "Block" }
func (s *IfStmt) String() string     { return "IfStmt" }
func (s *WhileStmt) String() string  { return "WhileStmt" }
func (s *VarStmt) String() string    { return fmt.Sprintf("VarStmt (%s : %s)", s.Name, s.Type) }
func (s *ReturnStmt) String() string { return "ReturnStmt" }
func (s *ExprStmt) String() string   { return "ExprStmt" }

// -----------------------------------------------------------------------------
// Prototypes, functions, and the compilation unit

type Param struct {
	Name string
	Type string
}

// Prototype is a function's declared signature. ReturnType defaults to
// "void" when the source omits it.
type Prototype struct {
	Name       string
	Params     []Param
	ReturnType string
}

func (p *Prototype) String() string {
	return fmt.Sprintf("Prototype (%s) : %s", p.Name, p.ReturnType)
}

// FunctionDecl pairs a prototype with its body. Body is nil for an
// extern declaration.
type FunctionDecl struct {
	Proto *Prototype
	Body  *BlockStmt
}

func (f *FunctionDecl) String() string { return fmt.Sprintf("Function (%s)", f.Proto.Name) }

// IsExtern reports whether this is a bodyless external declaration.
func (f *FunctionDecl) IsExtern() bool { return f.Body == nil }

// CompilationUnit is the parse result for one source file: externs
// (prototypes with no body) and defined functions, each in source
// order.
type CompilationUnit struct {
	Prototypes []*Prototype
	Functions  []*FunctionDecl
}

func (c *CompilationUnit) String() string { return "CompilationUnit" }
