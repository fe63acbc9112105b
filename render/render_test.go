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

package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rao107/sudokusat/explore"
	"github.com/rao107/sudokusat/sudoku"
)

func TestBoard(t *testing.T) {
	var b sudoku.Board
	for i := 0; i < sudoku.GridSize; i++ {
		for j := 0; j < sudoku.GridSize; j++ {
			b[i][j] = int64((i*3+i/3+j)%9 + 1)
		}
	}

	var sb strings.Builder
	Board(&sb, b)

	want := strings.Join([]string{
		"╔═══════╤═══════╤═══════╗",
		"║ 1 2 3 │ 4 5 6 │ 7 8 9 ║",
		"║ 4 5 6 │ 7 8 9 │ 1 2 3 ║",
		"║ 7 8 9 │ 1 2 3 │ 4 5 6 ║",
		"╟───────┼───────┼───────╢",
		"║ 2 3 4 │ 5 6 7 │ 8 9 1 ║",
		"║ 5 6 7 │ 8 9 1 │ 2 3 4 ║",
		"║ 8 9 1 │ 2 3 4 │ 5 6 7 ║",
		"╟───────┼───────┼───────╢",
		"║ 3 4 5 │ 6 7 8 │ 9 1 2 ║",
		"║ 6 7 8 │ 9 1 2 │ 3 4 5 ║",
		"║ 9 1 2 │ 3 4 5 │ 6 7 8 ║",
		"╚═══════╧═══════╧═══════╝",
		"",
	}, "\n")
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Errorf("Board() returned with unexpected diff (-want+got);\n%s", diff)
	}
}

func TestCandidates(t *testing.T) {
	var c explore.Candidates
	c[0][0] = c[0][0].Add(1).Add(5).Add(9)
	c[8][8] = c[8][8].Add(4)

	var sb strings.Builder
	Candidates(&sb, c)
	out := sb.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if got, want := len(lines), sudoku.GridSize*sudoku.GridSize; got != want {
		t.Fatalf("Candidates() wrote %v lines, want %v", got, want)
	}
	if got, want := lines[0], "Row 0 Column 0: 1 5 9"; got != want {
		t.Errorf("first line = %q, want %q", got, want)
	}
	if got, want := lines[80], "Row 8 Column 8: 4"; got != want {
		t.Errorf("last line = %q, want %q", got, want)
	}
	if got, want := lines[1], "Row 0 Column 1:"; got != want {
		t.Errorf("empty-cell line = %q, want %q", got, want)
	}
}
