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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (*CompilationUnit, []string) {
	t.Helper()
	p := NewParser(NewLexer(strings.NewReader(src), "test.t"))
	unit, diags := p.Parse()
	msgs := make([]string, len(diags))
	for i, d := range diags {
		msgs[i] = d.Message
	}
	return unit, msgs
}

func TestParsePrototypeAndBody(t *testing.T) {
	unit, diags := parse(t, `func id(a: int) : int { return a; }`)
	require.Empty(t, diags)
	require.Len(t, unit.Functions, 1)

	fn := unit.Functions[0]
	require.Equal(t, "id", fn.Proto.Name)
	require.Equal(t, "int", fn.Proto.ReturnType)
	require.Equal(t, []Param{{Name: "a", Type: "int"}}, fn.Proto.Params)
	require.False(t, fn.IsExtern())

	ret, ok := fn.Body.Stmts[0].(*ReturnStmt)
	require.True(t, ok)
	v, ok := ret.Expr.(*VariableExpr)
	require.True(t, ok)
	require.Equal(t, "a", v.Name)
}

func TestParseExternHasNoBody(t *testing.T) {
	unit, diags := parse(t, `extern print(x: int);`)
	require.Empty(t, diags)
	require.Len(t, unit.Prototypes, 1)
	require.Equal(t, "print", unit.Prototypes[0].Name)
	require.Equal(t, "void", unit.Prototypes[0].ReturnType)
}

func TestParsePrecedenceClimbing(t *testing.T) {
	unit, diags := parse(t, `func f() : int { return 1 + 2 * 3 - 4; }`)
	require.Empty(t, diags)

	ret := unit.Functions[0].Body.Stmts[0].(*ReturnStmt)
	outer, ok := ret.Expr.(*BinaryExpr)
	require.True(t, ok)
	require.Equal(t, byte('-'), outer.Op)

	inner, ok := outer.Left.(*BinaryExpr)
	require.True(t, ok)
	require.Equal(t, byte('+'), inner.Op)

	mul, ok := inner.Right.(*BinaryExpr)
	require.True(t, ok)
	require.Equal(t, byte('*'), mul.Op)
}

func TestParseAssignIsRightAssociative(t *testing.T) {
	unit, diags := parse(t, `func f() : int {
		var a: int = 0;
		var b: int = 0;
		a = b = 1;
		return a;
	}`)
	require.Empty(t, diags)

	stmts := unit.Functions[0].Body.Stmts
	assign := stmts[2].(*ExprStmt).Expr.(*BinaryExpr)
	require.Equal(t, byte('='), assign.Op)
	_, ok := assign.Right.(*BinaryExpr)
	require.True(t, ok, "rhs of an assignment chain should itself be an assignment")
}

func TestParseCallArguments(t *testing.T) {
	unit, diags := parse(t, `func f() : int { return g(1, 2, 3); }`)
	require.Empty(t, diags)

	ret := unit.Functions[0].Body.Stmts[0].(*ReturnStmt)
	call, ok := ret.Expr.(*CallExpr)
	require.True(t, ok)
	require.Equal(t, "g", call.Callee)
	require.Len(t, call.Args, 3)
}

func TestParseRecoversAtStatementBoundary(t *testing.T) {
	// The malformed second statement aborts at '='; the parser skips that
	// one token, the ';' after it parses as an empty statement, and the
	// third statement is still recovered.
	unit, diags := parse(t, `func f() : int {
		var a: int = 1;
		var b: = ;
		return a;
	}`)
	require.NotEmpty(t, diags)
	require.Len(t, unit.Functions, 1)

	stmts := unit.Functions[0].Body.Stmts
	last, ok := stmts[len(stmts)-1].(*ReturnStmt)
	require.True(t, ok)
	require.NotNil(t, last.Expr)
}

func TestParseRecoversAtTopLevelBoundary(t *testing.T) {
	unit, diags := parse(t, `func ??? bogus
func g() : int { return 1; }`)
	require.NotEmpty(t, diags)
	require.Len(t, unit.Functions, 1)
	require.Equal(t, "g", unit.Functions[0].Proto.Name)
}

func TestParseUnaryAcceptsAnyOperatorGrammatically(t *testing.T) {
	// Only '-' has a lowering; IR construction (not the parser) is
	// where anything else becomes a fatal error.
	unit, diags := parse(t, `func f() : int { return ~1; }`)
	require.Empty(t, diags)
	ret := unit.Functions[0].Body.Stmts[0].(*ReturnStmt)
	u, ok := ret.Expr.(*UnaryExpr)
	require.True(t, ok)
	require.Equal(t, byte('~'), u.Op)
}
