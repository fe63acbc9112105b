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

// Package sudoku holds the puzzle specification, its JSON file format, and the
// compiler that turns a specification into constraints over a variable grid.
package sudoku

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

const (
	// GridSize is the side length of the puzzle grid.
	GridSize = 9
	// BoxSize is the side length of one nonet.
	BoxSize = 3
)

// Coord addresses one grid cell. It decodes from the JSON form `[row, col]`.
type Coord struct {
	Row int
	Col int
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Coord) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("coordinate must have exactly 2 components, got %d", len(pair))
	}
	c.Row, c.Col = pair[0], pair[1]
	return nil
}

// InBounds reports whether the coordinate lies on the grid.
func (c Coord) InBounds() bool {
	return c.Row >= 0 && c.Row < GridSize && c.Col >= 0 && c.Col < GridSize
}

// Offset is a relative (Δrow, Δcol) vector. It decodes from the JSON form
// `[drow, dcol]`.
type Offset struct {
	DRow int
	DCol int
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Offset) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("offset must have exactly 2 components, got %d", len(pair))
	}
	o.DRow, o.DCol = pair[0], pair[1]
	return nil
}

// Puzzle is the parsed specification of one puzzle instance: given digits,
// rule toggles, and the geometric constraint groups. The JSON field names are
// the puzzle file format.
type Puzzle struct {
	// Given holds the clue digits; values outside [1,9] mean "no clue here".
	Given [][]int `json:"given"`
	// HorizontalRule, VerticalRule and NonetRule independently toggle
	// row, column and 3x3-box uniqueness.
	HorizontalRule bool `json:"1-9horiz"`
	VerticalRule   bool `json:"1-9vert"`
	NonetRule      bool `json:"1-9nonet"`
	// Offsets lists vectors; every cell must differ from each in-bounds
	// offset target.
	Offsets []Offset `json:"offsets"`
	// Thermo chains are strictly increasing along the chain.
	Thermo [][]Coord `json:"thermo"`
	// Arrow groups: the first cell equals the sum of the remaining cells.
	Arrow [][]Coord `json:"arrow"`
	// KropkiAdjacent pairs differ by exactly 1.
	KropkiAdjacent [][]Coord `json:"kropkiAdjacent"`
	// KropkiDouble pairs stand in a 1:2 ratio.
	KropkiDouble [][]Coord `json:"kropkiDouble"`
	// GermanWhispers chains: consecutive cells differ by at least 5.
	GermanWhispers [][]Coord `json:"germanWhispers"`
}

// Parse decodes and validates a puzzle file.
func Parse(r io.Reader) (*Puzzle, error) {
	var p Puzzle
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding puzzle: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads a puzzle file from disk.
func Load(path string) (*Puzzle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Validate checks the shape of the specification: the given grid is 9x9, every
// referenced coordinate is on the grid, and kropki groups are pairs. Out-of-
// range given values and off-grid offset targets are tolerated; the compiler
// skips them.
func (p *Puzzle) Validate() error {
	if len(p.Given) != GridSize {
		return fmt.Errorf("given grid must have %d rows, got %d", GridSize, len(p.Given))
	}
	for i, row := range p.Given {
		if len(row) != GridSize {
			return fmt.Errorf("given row %d must have %d columns, got %d", i, GridSize, len(row))
		}
	}
	groups := []struct {
		name    string
		chains  [][]Coord
		pairLen bool
	}{
		{"thermo", p.Thermo, false},
		{"arrow", p.Arrow, false},
		{"kropkiAdjacent", p.KropkiAdjacent, true},
		{"kropkiDouble", p.KropkiDouble, true},
		{"germanWhispers", p.GermanWhispers, false},
	}
	for _, grp := range groups {
		for i, chain := range grp.chains {
			if grp.pairLen && len(chain) != 2 {
				return fmt.Errorf("%s group %d must have exactly 2 cells, got %d", grp.name, i, len(chain))
			}
			for _, c := range chain {
				if !c.InBounds() {
					return fmt.Errorf("%s group %d references off-grid cell (%d,%d)", grp.name, i, c.Row, c.Col)
				}
			}
		}
	}
	return nil
}
