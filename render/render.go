// Copyright 2024 The sudokusat Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package render formats exploration results for the console.
package render

import (
	"fmt"
	"io"

	"github.com/rao107/sudokusat/explore"
	"github.com/rao107/sudokusat/sudoku"
)

// Board writes a completed grid with box-drawing borders around the nonets.
func Board(w io.Writer, b sudoku.Board) {
	fmt.Fprintln(w, "╔═══════╤═══════╤═══════╗")
	for i := 0; i < sudoku.GridSize; i++ {
		fmt.Fprint(w, "║")
		for j := 0; j < sudoku.BoxSize; j++ {
			fmt.Fprintf(w, " %d %d %d ", b[i][3*j], b[i][3*j+1], b[i][3*j+2])
			if j != sudoku.BoxSize-1 {
				fmt.Fprint(w, "│")
			}
		}
		fmt.Fprintln(w, "║")
		if i%sudoku.BoxSize == sudoku.BoxSize-1 && i != sudoku.GridSize-1 {
			fmt.Fprintln(w, "╟───────┼───────┼───────╢")
		}
	}
	fmt.Fprintln(w, "╚═══════╧═══════╧═══════╝")
}

// Candidates writes one line per cell listing its feasible digits.
func Candidates(w io.Writer, c explore.Candidates) {
	for i := 0; i < sudoku.GridSize; i++ {
		for j := 0; j < sudoku.GridSize; j++ {
			fmt.Fprintf(w, "Row %d Column %d:", i, j)
			for _, d := range c[i][j].Digits() {
				fmt.Fprintf(w, " %d", d)
			}
			fmt.Fprintln(w)
		}
	}
}
