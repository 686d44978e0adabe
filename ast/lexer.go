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
	"bufio"
	"io"

	"github.com/brandonxin/toyc/utils"
)

// Lexer turns a byte stream into a Token stream. It has no error
// cases of its own: every byte is lexable, either as part of a
// recognized lexeme or, failing that, as itself (a single-character
// token in the ASCII range 1-127). Malformed programs only surface as
// unexpected tokens once the parser looks at them.
type Lexer struct {
	fileName string
	reader   *bufio.Reader
	row      int
	col      int
}

// NewLexer creates a Lexer reading from r. fileName is used only for
// diagnostics.
func NewLexer(r io.Reader, fileName string) *Lexer {
	return &Lexer{
		fileName: fileName,
		reader:   bufio.NewReader(r),
		row:      1,
		col:      0,
	}
}

const eof = -1

func (l *Lexer) next() int {
	b, err := l.reader.ReadByte()
	if err != nil {
		return eof
	}
	if b == '\n' {
		l.row++
		l.col = 0
	} else {
		l.col++
	}
	return int(b)
}

func (l *Lexer) peek() int {
	b, err := l.reader.Peek(1)
	if err != nil {
		return eof
	}
	return int(b[0])
}

func isSpace(c int) bool {
	return utils.Any(c, ' ', '\t', '\r', '\n')
}

func isDigit(c int) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c int) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentCont(c int) bool {
	return isIdentStart(c) || isDigit(c)
}

// Next consumes and returns the next token. Once Eof has been
// produced, every subsequent call returns Eof again.
func (l *Lexer) Next() Token {
	c := l.next()

	for {
		for isSpace(c) {
			c = l.next()
		}
		if c == '#' {
			for c != '\n' && c != eof {
				c = l.next()
			}
			continue
		}
		break
	}

	row, col := l.row, l.col

	if c == eof {
		return Token{Kind: Eof, Row: row, Col: col}
	}

	if isDigit(c) {
		lexeme := []byte{byte(c)}
		for isDigit(l.peek()) {
			c = l.next()
			lexeme = append(lexeme, byte(c))
		}
		var value int64
		for _, b := range lexeme {
			value = value*10 + int64(b-'0')
		}
		return Token{Kind: Number, Lexeme: string(lexeme), Value: value, Row: row, Col: col}
	}

	if isIdentStart(c) {
		lexeme := []byte{byte(c)}
		for isIdentCont(l.peek()) {
			c = l.next()
			lexeme = append(lexeme, byte(c))
		}
		name := string(lexeme)
		if kind, ok := keywords[name]; ok {
			return Token{Kind: kind, Lexeme: name, Row: row, Col: col}
		}
		return Token{Kind: Ident, Lexeme: name, Row: row, Col: col}
	}

	// Anything else is returned as itself: a single-character token
	// in the ASCII range. The parser decides what, if anything, it
	// means.
	return Token{Kind: Kind(c), Lexeme: string(rune(c)), Row: row, Col: col}
}

// FileName reports the name this lexer was constructed with, used by
// the parser to stamp diagnostics.
func (l *Lexer) FileName() string {
	return l.fileName
}
