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

package csp

import (
	"fmt"
)

// A clause is a disjunction of DIMACS-style literals: a positive int is a
// Boolean variable, its negation the complemented literal. An empty clause is
// unsatisfiable.
type clause []int

// encoder lowers finite-domain constraints to CNF over a one-hot digit
// encoding: each model variable owns one Boolean per value of its domain, and
// exactly one of them is true. Both engines share the encoder; they only
// differ in how abstract literal ids are mapped onto their backend.
type encoder struct {
	cpb *Builder
	// vals[v] lists variable v's domain values; base[v] is the Boolean id of
	// its first value, with subsequent values numbered consecutively.
	vals [][]int64
	base []int
	next int
}

// newEncoder freezes the builder's variables into a one-hot layout. Variables
// created after this point cannot be encoded.
func newEncoder(cpb *Builder) (*encoder, error) {
	e := &encoder{cpb: cpb, next: 1}
	for i, vd := range cpb.vars {
		vals, ok := vd.dom.Values()
		if !ok {
			return nil, fmt.Errorf("variable %v has an unbounded domain", i)
		}
		e.vals = append(e.vals, vals)
		e.base = append(e.base, e.next)
		e.next += len(vals)
	}
	return e, nil
}

// numLits returns the highest Boolean id handed out so far.
func (e *encoder) numLits() int {
	return e.next - 1
}

// fresh allocates an auxiliary Boolean.
func (e *encoder) fresh() int {
	id := e.next
	e.next++
	return id
}

// lit returns the Boolean standing for `var == val`, or false when val is not
// in the variable's domain.
func (e *encoder) lit(v VarIndex, val int64) (int, bool) {
	for k, dv := range e.vals[v] {
		if dv == val {
			return e.base[v] + k, true
		}
	}
	return 0, false
}

// value reads back the integer value of v from a Boolean assignment.
func (e *encoder) value(v VarIndex, truth func(id int) bool) int64 {
	for k, dv := range e.vals[v] {
		if truth(e.base[v] + k) {
			return dv
		}
	}
	// Unreachable when the one-hot clauses were asserted.
	return 0
}

// variableClauses returns the one-hot clauses for every variable: at least one
// value holds, and no two hold at once.
func (e *encoder) variableClauses() []clause {
	var out []clause
	for v := range e.vals {
		alo := make(clause, len(e.vals[v]))
		for k := range e.vals[v] {
			alo[k] = e.base[v] + k
		}
		out = append(out, alo)
		for a := 0; a < len(e.vals[v]); a++ {
			for b := a + 1; b < len(e.vals[v]); b++ {
				out = append(out, clause{-(e.base[v] + a), -(e.base[v] + b)})
			}
		}
	}
	return out
}

// constraintClauses lowers one constraint. Auxiliary Booleans may be allocated
// for table rows and wide linear constraints.
func (e *encoder) constraintClauses(c Constraint) ([]clause, error) {
	for _, v := range c.vars {
		if int(v) >= len(e.vals) {
			return nil, fmt.Errorf("constraint references variable %v created after the engine attached", v)
		}
	}
	switch c.kind {
	case 0:
		return nil, nil
	case kindLinear:
		return e.linearClauses(c), nil
	case kindAllDiff:
		return e.allDifferentClauses(c), nil
	case kindTable:
		if c.negated {
			return e.forbiddenClauses(c), nil
		}
		return e.allowedClauses(c), nil
	}
	return nil, fmt.Errorf("unknown constraint kind %v", c.kind)
}

func (e *encoder) linearClauses(c Constraint) []clause {
	switch len(c.vars) {
	case 0:
		if !c.dom.Contains(0) {
			return []clause{{}}
		}
		return nil
	case 1:
		var out []clause
		for k, a := range e.vals[c.vars[0]] {
			if !c.dom.Contains(c.coeffs[0] * a) {
				out = append(out, clause{-(e.base[c.vars[0]] + k)})
			}
		}
		return out
	case 2:
		// Forbid every violating pair.
		var out []clause
		v0, v1 := c.vars[0], c.vars[1]
		for k0, a := range e.vals[v0] {
			for k1, b := range e.vals[v1] {
				if !c.dom.Contains(c.coeffs[0]*a + c.coeffs[1]*b) {
					out = append(out, clause{-(e.base[v0] + k0), -(e.base[v1] + k1)})
				}
			}
		}
		return out
	}
	return e.selectorClauses(c.vars, e.linearTuples(c))
}

// linearTuples enumerates the assignments of the constraint's scope whose
// weighted sum lies in the domain, pruning with suffix bounds.
func (e *encoder) linearTuples(c Constraint) [][]int64 {
	n := len(c.vars)
	// minRest[i]/maxRest[i] bound the contribution of positions i..n-1.
	minRest := make([]int64, n+1)
	maxRest := make([]int64, n+1)
	for i := n - 1; i >= 0; i-- {
		vals := e.vals[c.vars[i]]
		if len(vals) == 0 {
			return nil
		}
		lo := c.coeffs[i] * vals[0]
		hi := c.coeffs[i] * vals[len(vals)-1]
		if lo > hi {
			lo, hi = hi, lo
		}
		minRest[i] = minRest[i+1] + lo
		maxRest[i] = maxRest[i+1] + hi
	}
	domMin, okMin := c.dom.Min()
	domMax, okMax := c.dom.Max()
	if !okMin || !okMax {
		return nil
	}

	var tuples [][]int64
	cur := make([]int64, n)
	var walk func(i int, partial int64)
	walk = func(i int, partial int64) {
		if i == n {
			if c.dom.Contains(partial) {
				row := make([]int64, n)
				copy(row, cur)
				tuples = append(tuples, row)
			}
			return
		}
		if partial+maxRest[i] < domMin || partial+minRest[i] > domMax {
			return
		}
		for _, a := range e.vals[c.vars[i]] {
			cur[i] = a
			walk(i+1, partial+c.coeffs[i]*a)
		}
	}
	walk(0, 0)
	return tuples
}

func (e *encoder) allDifferentClauses(c Constraint) []clause {
	var out []clause
	for i := 0; i < len(c.vars); i++ {
		for j := i + 1; j < len(c.vars); j++ {
			vi, vj := c.vars[i], c.vars[j]
			for ki, a := range e.vals[vi] {
				for kj, b := range e.vals[vj] {
					if a == b {
						out = append(out, clause{-(e.base[vi] + ki), -(e.base[vj] + kj)})
					}
				}
			}
		}
	}
	return out
}

// forbiddenClauses emits one no-good clause per tuple: at least one variable
// differs from its tuple value. Tuples containing a value outside a variable's
// domain can never occur and yield no clause.
func (e *encoder) forbiddenClauses(c Constraint) []clause {
	var out []clause
	for _, row := range c.tuples {
		nogood := make(clause, 0, len(row))
		occurs := true
		for i, val := range row {
			id, ok := e.lit(c.vars[i], val)
			if !ok {
				occurs = false
				break
			}
			nogood = append(nogood, -id)
		}
		if occurs {
			out = append(out, nogood)
		}
	}
	return out
}

func (e *encoder) allowedClauses(c Constraint) []clause {
	var rows [][]int64
	for _, row := range c.tuples {
		feasible := true
		for i, val := range row {
			if _, ok := e.lit(c.vars[i], val); !ok {
				feasible = false
				break
			}
		}
		if feasible {
			rows = append(rows, row)
		}
	}
	return e.selectorClauses(c.vars, rows)
}

// selectorClauses encodes "the scope takes one of these tuples": a fresh
// selector Boolean per tuple, at least one selector holds, and each selector
// forces its tuple's values. No feasible tuple at all collapses to the empty
// clause.
func (e *encoder) selectorClauses(vars []VarIndex, tuples [][]int64) []clause {
	if len(tuples) == 0 {
		return []clause{{}}
	}
	var out []clause
	alo := make(clause, 0, len(tuples))
	for _, row := range tuples {
		sel := e.fresh()
		alo = append(alo, sel)
		for i, val := range row {
			id, _ := e.lit(vars[i], val)
			out = append(out, clause{-sel, id})
		}
	}
	return append(out, alo)
}
