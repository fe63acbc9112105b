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

// The sudokusat command compiles a variant sudoku puzzle into a constraint
// satisfaction problem and explores its solution space.
package main

import (
	goflag "flag"
	"fmt"
	"os"
	"time"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/rao107/sudokusat/csp"
	"github.com/rao107/sudokusat/explore"
	"github.com/rao107/sudokusat/render"
	"github.com/rao107/sudokusat/sudoku"
)

var (
	filePath  string
	maxSudoku int
	timeout   time.Duration
	probeRow  int
	probeCol  int
)

// compile loads the puzzle file and compiles it onto a fresh context.
func compile() (*csp.Builder, sudoku.Grid, error) {
	p, err := sudoku.Load(filePath)
	if err != nil {
		return nil, sudoku.Grid{}, err
	}
	cpb := csp.NewBuilder()
	g := sudoku.NewGrid(cpb)
	if err := sudoku.Compile(cpb, g, p); err != nil {
		return nil, sudoku.Grid{}, fmt.Errorf("compiling %s: %w", filePath, err)
	}
	return cpb, g, nil
}

func newSolver() (*csp.Solver, sudoku.Grid, error) {
	cpb, g, err := compile()
	if err != nil {
		return nil, sudoku.Grid{}, err
	}
	s, err := csp.NewSolver(cpb)
	if err != nil {
		return nil, sudoku.Grid{}, err
	}
	s.SetTimeout(timeout)
	log.Info("constraints added, solver ready")
	return s, g, nil
}

func newSolutionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "solution",
		Short: "Find a solution of the sudoku",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, g, err := newSolver()
			if err != nil {
				return err
			}
			board, ok, err := explore.FindSolution(s, g)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Could not find a satisfying sudoku.")
				return nil
			}
			fmt.Println("Possible solution found!")
			render.Board(os.Stdout, board)
			return nil
		},
	}
}

func newCountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Find the number of solutions of the sudoku (up to --max-sudoku)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, g, err := newSolver()
			if err != nil {
				return err
			}
			count, err := explore.CountSolutions(s, g, maxSudoku)
			if err != nil {
				return err
			}
			if count.Exact {
				fmt.Printf("Found %d possible sudokus!\n", count.Solutions)
			} else {
				fmt.Printf("Found >%d possible sudokus!\n", count.Solutions)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxSudoku, "max-sudoku", 1000, "maximum number of sudokus to search")
	return cmd
}

func newHintCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hint",
		Short: "Find the possible answers in each square",
		RunE: func(cmd *cobra.Command, args []string) error {
			cpb, g, err := compile()
			if err != nil {
				return err
			}
			o, err := csp.NewOptimizer(cpb)
			if err != nil {
				return err
			}
			log.Info("constraints added, optimizer ready")
			ref, err := explore.RefineCandidates(o, g, maxSudoku)
			if err != nil {
				return err
			}
			if !ref.Feasible {
				fmt.Println("Could not find a satisfying sudoku.")
				return nil
			}
			if !ref.Complete {
				fmt.Printf("Reached maximum iterations (%d). The candidate sets below may be incomplete; try increasing --max-sudoku.\n", maxSudoku)
			}
			render.Candidates(os.Stdout, ref.Cands)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxSudoku, "max-sudoku", 1000, "maximum number of refinement iterations")
	return cmd
}

func newSquareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "square",
		Short: "Find the possible answers in a single square",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, g, err := newSolver()
			if err != nil {
				return err
			}
			probe, err := explore.ProbeSquare(s, g, probeRow, probeCol)
			if err != nil {
				return err
			}
			fmt.Printf("Row %d Column %d:\n", probeRow, probeCol)
			for d := 1; d <= 9; d++ {
				switch probe[d-1] {
				case csp.Sat:
					fmt.Printf("%d: True!\n", d)
				case csp.Unsat:
					fmt.Printf("%d: False!\n", d)
				default:
					fmt.Printf("%d: Unknown!\n", d)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&probeRow, "row", "r", 0, "row of the square to probe")
	cmd.Flags().IntVarP(&probeCol, "col", "c", 0, "column of the square to probe")
	_ = cmd.MarkFlagRequired("row")
	_ = cmd.MarkFlagRequired("col")
	return cmd
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "sudokusat",
		Short:         "Explore the solution space of variant sudoku puzzles",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&filePath, "file", "f", "", "path of the JSON puzzle file")
	_ = root.MarkPersistentFlagRequired("file")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-check time limit; 0 means none")
	// Expose glog's flags (-v, -logtostderr, ...) alongside our own.
	root.PersistentFlags().AddGoFlagSet(goflag.CommandLine)
	root.AddCommand(newSolutionCommand(), newCountCommand(), newHintCommand(), newSquareCommand())
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Exitf("sudokusat: %v", err)
	}
}
