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

// Package diag formats and reports user-facing parse diagnostics.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Diagnostic is one parse error tied to a source position.
type Diagnostic struct {
	File    string
	Row     int
	Col     int
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.File, d.Row, d.Col, d.Message)
}

// Reporter writes diagnostics to an io.Writer in the form
// "toyc: error: <file>:<row>:<col>: <message>". The "error:" label is
// bold red when the writer is a terminal.
type Reporter struct {
	w     io.Writer
	label *color.Color
}

// NewReporter builds a Reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	label := color.New(color.FgRed, color.Bold)
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		label.EnableColor()
	} else {
		label.DisableColor()
	}
	return &Reporter{w: w, label: label}
}

// Report writes one diagnostic line.
func (r *Reporter) Report(d Diagnostic) {
	fmt.Fprintf(r.w, "toyc: %s %s\n", r.label.Sprint("error:"), d.Error())
}
