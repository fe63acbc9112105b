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

// Package explore drives a compiled constraint set toward four different
// kinds of answers: one solution, a solution count, per-cell candidate sets,
// and single-cell feasibility.
package explore

import (
	"errors"
	"fmt"

	log "github.com/golang/glog"

	"github.com/rao107/sudokusat/csp"
	"github.com/rao107/sudokusat/sudoku"
)

// ErrUndecided is returned when the engine reports an indeterminate result.
// It is never conflated with unsatisfiability, which every strategy reports as
// a first-class outcome.
var ErrUndecided = errors.New("engine could not decide the puzzle")

func readBoard(g sudoku.Grid, value func(csp.IntVar) int64) sudoku.Board {
	var b sudoku.Board
	for i := 0; i < sudoku.GridSize; i++ {
		for j := 0; j < sudoku.GridSize; j++ {
			b[i][j] = value(g[i][j])
		}
	}
	return b
}

// FindSolution issues a single satisfiability check. It returns a full
// assignment and true when one exists, and false when the puzzle is
// unsatisfiable.
func FindSolution(s *csp.Solver, g sudoku.Grid) (sudoku.Board, bool, error) {
	st, err := s.Check()
	if err != nil {
		return sudoku.Board{}, false, err
	}
	switch st {
	case csp.Sat:
		return readBoard(g, s.Value), true, nil
	case csp.Unsat:
		return sudoku.Board{}, false, nil
	}
	return sudoku.Board{}, false, ErrUndecided
}

// Count is the result of a bounded solution count.
type Count struct {
	// Solutions is the number of solutions found.
	Solutions int
	// Exact is true when Solutions is the exact count; false means the
	// enumeration stopped at the cap and Solutions is a lower bound.
	Exact bool
}

// CountSolutions enumerates solutions up to `limit` by blocking each found
// assignment: after every satisfiable check, a constraint forbidding that
// exact 81-cell assignment is asserted permanently before checking again.
func CountSolutions(s *csp.Solver, g sudoku.Grid, limit int) (Count, error) {
	cells := g.Cells()
	for n := 0; n < limit; n++ {
		st, err := s.Check()
		if err != nil {
			return Count{}, err
		}
		switch st {
		case csp.Unsat:
			return Count{Solutions: n, Exact: true}, nil
		case csp.Unknown:
			return Count{}, ErrUndecided
		}
		found := make([]int64, len(cells))
		for i, c := range cells {
			found[i] = s.Value(c)
		}
		s.Context().Assert(csp.NewForbiddenAssignment(cells, found))
	}
	return Count{Solutions: limit, Exact: false}, nil
}

// Candidates maps every cell to the digits seen in at least one solution.
type Candidates [sudoku.GridSize][sudoku.GridSize]DigitSet

// Refinement is the result of candidate refinement.
type Refinement struct {
	Cands Candidates
	// Iterations is the number of optimization passes run.
	Iterations int
	// Complete is true when a fixpoint was reached: Cands then holds, for
	// every cell, exactly the digits appearing in at least one solution.
	// False means the iteration cap cut the refinement short and Cands may
	// be under-complete.
	Complete bool
	// Feasible is false when the puzzle has no solution at all.
	Feasible bool
}

// RefineCandidates derives per-cell candidate sets by iterated optimization.
// Each pass finds an assignment maximally different, cell by cell, from all
// previously found ones: after every pass, a weight-1 soft constraint per cell
// discourages repeating the value just seen there. A pass that marks no new
// (cell, value) pair is a fixpoint and ends the refinement.
func RefineCandidates(o *csp.Optimizer, g sudoku.Grid, limit int) (Refinement, error) {
	r := Refinement{Feasible: true}
	for it := 1; it <= limit; it++ {
		r.Iterations = it
		st, err := o.Check()
		if err != nil {
			return Refinement{}, err
		}
		switch st {
		case csp.Unsat:
			// Soft constraints never remove solutions, so this means the
			// hard constraints admit no completion at all.
			r.Feasible = false
			return r, nil
		case csp.Unknown:
			return Refinement{}, ErrUndecided
		}
		var found sudoku.Board
		newMarks := 0
		for i := 0; i < sudoku.GridSize; i++ {
			for j := 0; j < sudoku.GridSize; j++ {
				found[i][j] = o.Value(g[i][j])
				if !r.Cands[i][j].Has(int(found[i][j])) {
					r.Cands[i][j] = r.Cands[i][j].Add(int(found[i][j]))
					newMarks++
				}
			}
		}
		log.Infof("refine iteration %d: %d new candidates (%d soft constraints)", it, newMarks, o.SoftCount())
		if newMarks == 0 {
			r.Complete = true
			return r, nil
		}
		for i := 0; i < sudoku.GridSize; i++ {
			for j := 0; j < sudoku.GridSize; j++ {
				if err := o.AddSoft(csp.NewNotEqual(g[i][j], csp.NewConstant(found[i][j])), 1); err != nil {
					return Refinement{}, err
				}
			}
		}
	}
	return r, nil
}

// Probe holds the per-digit feasibility of one cell; index d-1 answers
// whether digit d can appear there.
type Probe [9]csp.Status

// ProbeSquare determines, for one cell, which digits appear in at least one
// solution. Each digit is tried inside a nested assertion scope that is
// unwound on every exit path, so a failed probe cannot leak into the next.
func ProbeSquare(s *csp.Solver, g sudoku.Grid, row, col int) (Probe, error) {
	if row < 0 || row >= sudoku.GridSize || col < 0 || col >= sudoku.GridSize {
		return Probe{}, fmt.Errorf("invalid square (%d,%d): coordinates must be in [0,%d)", row, col, sudoku.GridSize)
	}
	var p Probe
	for d := 1; d <= 9; d++ {
		st, err := probeDigit(s, g[row][col], int64(d))
		if err != nil {
			return Probe{}, err
		}
		p[d-1] = st
	}
	return p, nil
}

func probeDigit(s *csp.Solver, cell csp.IntVar, d int64) (csp.Status, error) {
	if err := s.Push(); err != nil {
		return csp.Unknown, err
	}
	defer s.Pop()
	s.Context().AddEquality(cell, csp.NewConstant(d))
	return s.Check()
}
