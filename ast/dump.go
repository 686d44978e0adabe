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

import (
	"fmt"
	"strings"
)

// Dump renders the compilation unit as an indented tree: one node per
// line, each nested node four spaces deeper than its parent.
// Prototypes are listed before Functions, both in source order.
func Dump(unit *CompilationUnit) string {
	var b strings.Builder
	b.WriteString(unit.String())
	b.WriteByte('\n')
	for _, proto := range unit.Prototypes {
		dumpLine(&b, 1, proto.String())
	}
	for _, fn := range unit.Functions {
		dumpFunction(&b, 1, fn)
	}
	return b.String()
}

func dumpLine(b *strings.Builder, depth int, s string) {
	b.WriteString(strings.Repeat("    ", depth))
	b.WriteString(s)
	b.WriteByte('\n')
}

func dumpFunction(b *strings.Builder, depth int, fn *FunctionDecl) {
	dumpLine(b, depth, fn.String())
	dumpLine(b, depth+1, fn.Proto.String())
	if fn.Body != nil {
		dumpStmt(b, depth+1, fn.Body)
	}
}

func dumpStmt(b *strings.Builder, depth int, s Stmt) {
	dumpLine(b, depth, s.String())
	switch s := s.(type) {
	case *BlockStmt:
		for _, child := range s.Stmts {
			dumpStmt(b, depth+1, child)
		}
	case *IfStmt:
		dumpExpr(b, depth+1, s.Cond)
		dumpStmt(b, depth+1, s.Then)
		if s.Else != nil {
			dumpStmt(b, depth+1, s.Else)
		}
	case *WhileStmt:
		dumpExpr(b, depth+1, s.Cond)
		dumpStmt(b, depth+1, s.Body)
	case *VarStmt:
		if s.Init != nil {
			dumpExpr(b, depth+1, s.Init)
		}
	case *ReturnStmt:
		if s.Expr != nil {
			dumpExpr(b, depth+1, s.Expr)
		}
	case *ExprStmt:
		dumpExpr(b, depth+1, s.Expr)
	default:
		panic(fmt.Sprintf("ast.Dump: unhandled statement %T", s))
	}
}

func dumpExpr(b *strings.Builder, depth int, e Expr) {
	dumpLine(b, depth, e.String())
	switch e := e.(type) {
	case *NumberExpr, *VariableExpr:
		// leaves
	case *UnaryExpr:
		dumpExpr(b, depth+1, e.Operand)
	case *BinaryExpr:
		dumpExpr(b, depth+1, e.Left)
		dumpExpr(b, depth+1, e.Right)
	case *CallExpr:
		for _, arg := range e.Args {
			dumpExpr(b, depth+1, arg)
		}
	default:
		panic(fmt.Sprintf("ast.Dump: unhandled expression %T", e))
	}
}
