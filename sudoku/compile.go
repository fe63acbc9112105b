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

package sudoku

import (
	"fmt"
	"math"

	"github.com/rao107/sudokusat/csp"
)

// Grid is the 81-cell array of decision variables, one per puzzle cell, each
// with domain [1,9]. It is created once per run and shared by every constraint
// and every exploration strategy.
type Grid [GridSize][GridSize]csp.IntVar

// NewGrid creates the grid variables on the builder. The [1,9] variable
// domains carry the unconditional domain constraints.
func NewGrid(cpb *csp.Builder) Grid {
	var g Grid
	for i := 0; i < GridSize; i++ {
		for j := 0; j < GridSize; j++ {
			g[i][j] = cpb.NewIntVar(1, 9).WithName(fmt.Sprintf("r%dc%d", i, j))
		}
	}
	return g
}

// Cells returns the grid variables in row-major order.
func (g Grid) Cells() []csp.IntVar {
	cells := make([]csp.IntVar, 0, GridSize*GridSize)
	for i := 0; i < GridSize; i++ {
		for j := 0; j < GridSize; j++ {
			cells = append(cells, g[i][j])
		}
	}
	return cells
}

// Board is a fully assigned grid.
type Board [GridSize][GridSize]int64

// Compile asserts every enabled rule of the puzzle onto the builder. The only
// failure mode is a configuration error (an arrow group without summands);
// everything else tolerates degenerate input (short chains, off-grid offset
// targets, out-of-range givens).
//
// Compiling the same puzzle twice onto one builder double-asserts: wasteful,
// but the constraint set stays equivalent.
func Compile(cpb *csp.Builder, g Grid, p *Puzzle) error {
	compileGivens(cpb, g, p.Given)
	if p.HorizontalRule {
		compileRows(cpb, g)
	}
	if p.VerticalRule {
		compileColumns(cpb, g)
	}
	if p.NonetRule {
		compileNonets(cpb, g)
	}
	compileOffsets(cpb, g, p.Offsets)
	for _, chain := range p.Thermo {
		compileIncreasing(cpb, g, chain)
	}
	for i, group := range p.Arrow {
		if err := compileArrow(cpb, g, group); err != nil {
			return fmt.Errorf("arrow group %d: %w", i, err)
		}
	}
	for _, pair := range p.KropkiAdjacent {
		compileExactDiff(cpb, g, pair, 1)
	}
	for _, pair := range p.KropkiDouble {
		compileKropkiDouble(cpb, g, pair)
	}
	for _, chain := range p.GermanWhispers {
		for i := 0; i+1 < len(chain); i++ {
			compileMinDiff(cpb, g, chain[i], chain[i+1], 5)
		}
	}
	return nil
}

// compileGivens pins every in-range clue. Values outside [1,9], including the
// empty sentinel 0, leave the cell unconstrained.
func compileGivens(cpb *csp.Builder, g Grid, given [][]int) {
	for i := 0; i < GridSize; i++ {
		for j := 0; j < GridSize; j++ {
			v := given[i][j]
			if v < 1 || v > 9 {
				continue
			}
			cpb.AddEquality(g[i][j], csp.NewConstant(int64(v)))
		}
	}
}

func compileRows(cpb *csp.Builder, g Grid) {
	for i := 0; i < GridSize; i++ {
		cpb.AddAllDifferent(g[i][:]...)
	}
}

func compileColumns(cpb *csp.Builder, g Grid) {
	for j := 0; j < GridSize; j++ {
		col := make([]csp.IntVar, GridSize)
		for i := 0; i < GridSize; i++ {
			col[i] = g[i][j]
		}
		cpb.AddAllDifferent(col...)
	}
}

// compileNonets uses the standard box tiling: the k-th cell of the n-th nonet
// is row (n/3)*3 + k/3, column (n%3)*3 + k%3.
func compileNonets(cpb *csp.Builder, g Grid) {
	for n := 0; n < GridSize; n++ {
		box := make([]csp.IntVar, GridSize)
		for k := 0; k < GridSize; k++ {
			box[k] = g[(n/BoxSize)*BoxSize+k/BoxSize][(n%BoxSize)*BoxSize+k%BoxSize]
		}
		cpb.AddAllDifferent(box...)
	}
}

// compileOffsets forbids equality between each cell and each in-bounds offset
// target. Off-grid targets are skipped; there is no wraparound.
func compileOffsets(cpb *csp.Builder, g Grid, offsets []Offset) {
	for i := 0; i < GridSize; i++ {
		for j := 0; j < GridSize; j++ {
			for _, off := range offsets {
				t := Coord{Row: i + off.DRow, Col: j + off.DCol}
				if !t.InBounds() {
					continue
				}
				cpb.AddNotEqual(g[i][j], g[t.Row][t.Col])
			}
		}
	}
}

// compileIncreasing asserts a strict increase along the chain. Chains shorter
// than two cells yield no constraints.
func compileIncreasing(cpb *csp.Builder, g Grid, chain []Coord) {
	for i := 0; i+1 < len(chain); i++ {
		cpb.AddLessThan(g[chain[i].Row][chain[i].Col], g[chain[i+1].Row][chain[i+1].Col])
	}
}

// compileArrow asserts that the first cell of the group equals the sum of the
// rest. A group without summand cells is a configuration error.
func compileArrow(cpb *csp.Builder, g Grid, group []Coord) error {
	if len(group) < 2 {
		return fmt.Errorf("no summand cells")
	}
	sum := csp.NewLinearExpr()
	for _, c := range group[1:] {
		sum.Add(g[c.Row][c.Col])
	}
	cpb.AddEquality(g[group[0].Row][group[0].Col], sum)
	return nil
}

// compileExactDiff asserts |a-b| == diff as the two-valued domain {-diff, diff}
// of the ordered difference.
func compileExactDiff(cpb *csp.Builder, g Grid, pair []Coord, diff int64) {
	a := g[pair[0].Row][pair[0].Col]
	b := g[pair[1].Row][pair[1].Col]
	cpb.AddLinearConstraintForDomain(
		csp.NewLinearExpr().Add(a).AddTerm(b, -1),
		csp.FromValues([]int64{-diff, diff}),
	)
}

// kropkiDoublePairs enumerates the 1:2 ratio over [1,9]. The relation is
// hard-coded rather than computed symbolically; the fixed domain keeps the
// table complete.
var kropkiDoublePairs = [][2]int64{
	{1, 2}, {2, 1}, {2, 4}, {3, 6}, {4, 2}, {4, 8}, {6, 3}, {8, 4},
}

func compileKropkiDouble(cpb *csp.Builder, g Grid, pair []Coord) {
	a := g[pair[0].Row][pair[0].Col]
	b := g[pair[1].Row][pair[1].Col]
	tc := cpb.AddAllowedAssignments(a, b)
	for _, t := range kropkiDoublePairs {
		tc.AddTuple(t[0], t[1])
	}
}

// compileMinDiff asserts |a-b| >= diff as the ordered difference lying in
// (-inf,-diff] or [diff,+inf).
func compileMinDiff(cpb *csp.Builder, g Grid, a, b Coord, diff int64) {
	cpb.AddLinearConstraintForDomain(
		csp.NewLinearExpr().Add(g[a.Row][a.Col]).AddTerm(g[b.Row][b.Col], -1),
		csp.FromIntervals([]csp.ClosedInterval{
			{Start: math.MinInt64, End: -diff},
			{Start: diff, End: math.MaxInt64},
		}),
	)
}
