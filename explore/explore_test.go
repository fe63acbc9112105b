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

package explore

import (
	"testing"

	"github.com/rao107/sudokusat/csp"
	"github.com/rao107/sudokusat/sudoku"
)

// solvedBoard is a complete grid satisfying the row, column and nonet rules.
var solvedBoard = [9][9]int{
	{1, 2, 3, 4, 5, 6, 7, 8, 9},
	{4, 5, 6, 7, 8, 9, 1, 2, 3},
	{7, 8, 9, 1, 2, 3, 4, 5, 6},
	{2, 3, 4, 5, 6, 7, 8, 9, 1},
	{5, 6, 7, 8, 9, 1, 2, 3, 4},
	{8, 9, 1, 2, 3, 4, 5, 6, 7},
	{3, 4, 5, 6, 7, 8, 9, 1, 2},
	{6, 7, 8, 9, 1, 2, 3, 4, 5},
	{9, 1, 2, 3, 4, 5, 6, 7, 8},
}

func solvedPuzzle() *sudoku.Puzzle {
	p := &sudoku.Puzzle{Given: make([][]int, sudoku.GridSize)}
	for i := range p.Given {
		p.Given[i] = make([]int, sudoku.GridSize)
		copy(p.Given[i], solvedBoard[i][:])
	}
	return p
}

func newSolver(t *testing.T, p *sudoku.Puzzle) (*csp.Solver, sudoku.Grid) {
	t.Helper()
	cpb := csp.NewBuilder()
	g := sudoku.NewGrid(cpb)
	if err := sudoku.Compile(cpb, g, p); err != nil {
		t.Fatalf("Compile() returned error %v", err)
	}
	s, err := csp.NewSolver(cpb)
	if err != nil {
		t.Fatalf("NewSolver() returned error %v", err)
	}
	return s, g
}

func newOptimizer(t *testing.T, p *sudoku.Puzzle) (*csp.Optimizer, sudoku.Grid) {
	t.Helper()
	cpb := csp.NewBuilder()
	g := sudoku.NewGrid(cpb)
	if err := sudoku.Compile(cpb, g, p); err != nil {
		t.Fatalf("Compile() returned error %v", err)
	}
	o, err := csp.NewOptimizer(cpb)
	if err != nil {
		t.Fatalf("NewOptimizer() returned error %v", err)
	}
	return o, g
}

func TestFindSolution(t *testing.T) {
	p := solvedPuzzle()
	p.HorizontalRule = true
	p.VerticalRule = true
	p.NonetRule = true

	s, g := newSolver(t, p)
	board, ok, err := FindSolution(s, g)
	if err != nil {
		t.Fatalf("FindSolution() returned error %v", err)
	}
	if !ok {
		t.Fatal("FindSolution() found no solution, want one")
	}
	for i := 0; i < sudoku.GridSize; i++ {
		for j := 0; j < sudoku.GridSize; j++ {
			if got, want := board[i][j], int64(solvedBoard[i][j]); got != want {
				t.Errorf("board[%d][%d] = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestFindSolution_Unsat(t *testing.T) {
	p := solvedPuzzle()
	p.HorizontalRule = true
	p.Given[0][0] = p.Given[0][1]

	s, g := newSolver(t, p)
	_, ok, err := FindSolution(s, g)
	if err != nil {
		t.Fatalf("FindSolution() returned error %v", err)
	}
	if ok {
		t.Error("FindSolution() found a solution, want none")
	}
}

func TestCountSolutions_Unique(t *testing.T) {
	p := solvedPuzzle()
	p.HorizontalRule = true
	p.VerticalRule = true
	p.NonetRule = true

	s, g := newSolver(t, p)
	count, err := CountSolutions(s, g, 10)
	if err != nil {
		t.Fatalf("CountSolutions() returned error %v", err)
	}
	if count.Solutions != 1 || !count.Exact {
		t.Errorf("CountSolutions() = %+v, want {Solutions:1 Exact:true}", count)
	}
}

func TestCountSolutions_OneFreeCell(t *testing.T) {
	// With no uniqueness rules and one blank cell, the solutions are exactly
	// the 9 values of that cell.
	p := solvedPuzzle()
	p.Given[4][4] = 0

	s, g := newSolver(t, p)
	count, err := CountSolutions(s, g, 20)
	if err != nil {
		t.Fatalf("CountSolutions() returned error %v", err)
	}
	if count.Solutions != 9 || !count.Exact {
		t.Errorf("CountSolutions() = %+v, want {Solutions:9 Exact:true}", count)
	}
}

func TestCountSolutions_CapReached(t *testing.T) {
	p := solvedPuzzle()
	p.Given[4][4] = 0

	s, g := newSolver(t, p)
	count, err := CountSolutions(s, g, 5)
	if err != nil {
		t.Fatalf("CountSolutions() returned error %v", err)
	}
	if count.Solutions != 5 || count.Exact {
		t.Errorf("CountSolutions() = %+v, want {Solutions:5 Exact:false}", count)
	}
}

func TestCountSolutions_Unsat(t *testing.T) {
	p := solvedPuzzle()
	p.HorizontalRule = true
	p.Given[0][0] = p.Given[0][1]

	s, g := newSolver(t, p)
	count, err := CountSolutions(s, g, 10)
	if err != nil {
		t.Fatalf("CountSolutions() returned error %v", err)
	}
	if count.Solutions != 0 || !count.Exact {
		t.Errorf("CountSolutions() = %+v, want {Solutions:0 Exact:true}", count)
	}
}

func TestRefineCandidates_UniqueSolution(t *testing.T) {
	p := solvedPuzzle()
	p.HorizontalRule = true
	p.VerticalRule = true
	p.NonetRule = true

	o, g := newOptimizer(t, p)
	ref, err := RefineCandidates(o, g, 10)
	if err != nil {
		t.Fatalf("RefineCandidates() returned error %v", err)
	}
	if !ref.Feasible || !ref.Complete {
		t.Fatalf("RefineCandidates() = %+v, want Feasible and Complete", ref)
	}
	for i := 0; i < sudoku.GridSize; i++ {
		for j := 0; j < sudoku.GridSize; j++ {
			if got := ref.Cands[i][j]; got.Size() != 1 || !got.Has(solvedBoard[i][j]) {
				t.Errorf("Cands[%d][%d] = %v, want {%d}", i, j, got, solvedBoard[i][j])
			}
		}
	}
}

func TestRefineCandidates_OneFreeCell(t *testing.T) {
	p := solvedPuzzle()
	p.Given[4][4] = 0

	o, g := newOptimizer(t, p)
	ref, err := RefineCandidates(o, g, 20)
	if err != nil {
		t.Fatalf("RefineCandidates() returned error %v", err)
	}
	if !ref.Feasible || !ref.Complete {
		t.Fatalf("RefineCandidates() = %+v, want Feasible and Complete", ref)
	}
	if got := ref.Cands[4][4]; got.Size() != 9 {
		t.Errorf("Cands[4][4] = %v, want all 9 digits", got)
	}
	if got := ref.Cands[0][0]; got.Size() != 1 || !got.Has(solvedBoard[0][0]) {
		t.Errorf("Cands[0][0] = %v, want {%d}", got, solvedBoard[0][0])
	}
}

func TestRefineCandidates_Infeasible(t *testing.T) {
	p := solvedPuzzle()
	p.HorizontalRule = true
	p.Given[0][0] = p.Given[0][1]

	o, g := newOptimizer(t, p)
	ref, err := RefineCandidates(o, g, 10)
	if err != nil {
		t.Fatalf("RefineCandidates() returned error %v", err)
	}
	if ref.Feasible {
		t.Errorf("RefineCandidates() = %+v, want not Feasible", ref)
	}
}

func TestProbeSquare(t *testing.T) {
	// Row 0 holds every digit but 1; with only the row rule the blank cell can
	// hold exactly 1.
	p := solvedPuzzle()
	p.HorizontalRule = true
	p.Given[0][0] = 0

	s, g := newSolver(t, p)
	probe, err := ProbeSquare(s, g, 0, 0)
	if err != nil {
		t.Fatalf("ProbeSquare() returned error %v", err)
	}
	for d := 1; d <= 9; d++ {
		want := csp.Unsat
		if d == 1 {
			want = csp.Sat
		}
		if got := probe[d-1]; got != want {
			t.Errorf("probe[%d] = %v, want %v", d-1, got, want)
		}
	}
}

func TestProbeSquare_GivenCell(t *testing.T) {
	p := solvedPuzzle()

	s, g := newSolver(t, p)
	probe, err := ProbeSquare(s, g, 3, 7)
	if err != nil {
		t.Fatalf("ProbeSquare() returned error %v", err)
	}
	for d := 1; d <= 9; d++ {
		want := csp.Unsat
		if d == solvedBoard[3][7] {
			want = csp.Sat
		}
		if got := probe[d-1]; got != want {
			t.Errorf("probe[%d] = %v, want %v", d-1, got, want)
		}
	}
}

func TestProbeSquare_LeavesSolverUsable(t *testing.T) {
	p := solvedPuzzle()
	p.Given[0][0] = 0

	s, g := newSolver(t, p)
	if _, err := ProbeSquare(s, g, 0, 0); err != nil {
		t.Fatalf("ProbeSquare() returned error %v", err)
	}
	// All probe scopes must be unwound; the base problem stays satisfiable.
	st, err := s.Check()
	if err != nil {
		t.Fatalf("Check() returned error %v", err)
	}
	if st != csp.Sat {
		t.Errorf("Check() after probing = %v, want %v", st, csp.Sat)
	}
}

func TestProbeSquare_InvalidCoordinates(t *testing.T) {
	p := solvedPuzzle()
	s, g := newSolver(t, p)

	testCases := []struct {
		row, col int
	}{
		{-1, 0},
		{0, -1},
		{9, 0},
		{0, 9},
	}
	for _, test := range testCases {
		if _, err := ProbeSquare(s, g, test.row, test.col); err == nil {
			t.Errorf("ProbeSquare(%d, %d) returned nil error, want one", test.row, test.col)
		}
	}
}
