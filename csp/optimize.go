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
	"strconv"

	"github.com/crillab/gophersat/maxsat"
)

// Optimizer is an optimizing engine attached to a Builder. Hard constraints
// come from the builder like with Solver; additionally, weighted soft
// constraints can be asserted, and each Check finds an assignment that
// satisfies every hard constraint while maximizing the total weight of
// satisfied soft constraints. Optimization is delegated to gophersat's
// weighted partial MaxSAT solver.
//
// The soft set only ever grows; callers that add soft constraints in a loop
// can watch SoftCount for the resource-growth bound.
type Optimizer struct {
	cpb    *Builder
	enc    *encoder
	synced int
	hard   []maxsat.Constr
	soft   []maxsat.Constr
	// unsat is set when an asserted constraint lowered to the empty clause.
	unsat bool
	model maxsat.Model
}

// NewOptimizer attaches a new Optimizer to the builder and encodes the
// constraints asserted so far. Variables must all be created before attaching.
func NewOptimizer(cpb *Builder) (*Optimizer, error) {
	if err := cpb.Validate(); err != nil {
		return nil, err
	}
	enc, err := newEncoder(cpb)
	if err != nil {
		return nil, err
	}
	o := &Optimizer{cpb: cpb, enc: enc}
	o.addHard(enc.variableClauses())
	if err := o.sync(); err != nil {
		return nil, err
	}
	return o, nil
}

// Context returns the builder the optimizer is attached to.
func (o *Optimizer) Context() *Builder {
	return o.cpb
}

func litName(id int) string {
	return "x" + strconv.Itoa(id)
}

func maxsatClause(cl clause) []maxsat.Lit {
	lits := make([]maxsat.Lit, len(cl))
	for i, l := range cl {
		if l < 0 {
			lits[i] = maxsat.Var(litName(-l)).Negation()
		} else {
			lits[i] = maxsat.Var(litName(l))
		}
	}
	return lits
}

func (o *Optimizer) addHard(cls []clause) {
	for _, cl := range cls {
		if len(cl) == 0 {
			o.unsat = true
			continue
		}
		o.hard = append(o.hard, maxsat.HardClause(maxsatClause(cl)...))
	}
}

func (o *Optimizer) sync() error {
	for ; o.synced < len(o.cpb.constraints); o.synced++ {
		cls, err := o.enc.constraintClauses(o.cpb.constraints[o.synced])
		if err != nil {
			return err
		}
		o.addHard(cls)
	}
	return nil
}

// AddSoft asserts `c` as a soft constraint with the given positive weight.
// Satisfying it is worth `weight` to the objective; violating it is allowed.
func (o *Optimizer) AddSoft(c Constraint, weight int) error {
	cls, err := o.enc.constraintClauses(c)
	if err != nil {
		return err
	}
	switch len(cls) {
	case 0:
		// Trivially true, nothing to reward.
	case 1:
		o.soft = append(o.soft, maxsat.WeightedClause(maxsatClause(cls[0]), weight))
	default:
		// Multi-clause constraints are relayed through one auxiliary literal so
		// a violation costs the weight exactly once.
		relay := o.enc.fresh()
		for _, cl := range cls {
			guarded := append(clause{-relay}, cl...)
			o.hard = append(o.hard, maxsat.HardClause(maxsatClause(guarded)...))
		}
		o.soft = append(o.soft, maxsat.WeightedClause(maxsatClause(clause{relay}), weight))
	}
	return nil
}

// SoftCount returns the number of soft constraints asserted so far.
func (o *Optimizer) SoftCount() int {
	return len(o.soft)
}

// Check finds an assignment satisfying every hard constraint with maximum
// total satisfied soft weight. The accumulated constraint set is sealed into a
// fresh MaxSAT problem on every call; incremental reuse across checks is a
// solver capability gophersat does not expose. Solving runs to completion, so
// Check never returns Unknown.
func (o *Optimizer) Check() (Status, error) {
	if err := o.sync(); err != nil {
		return Unknown, err
	}
	if o.unsat {
		return Unsat, nil
	}
	constrs := make([]maxsat.Constr, 0, len(o.hard)+len(o.soft))
	constrs = append(constrs, o.hard...)
	constrs = append(constrs, o.soft...)
	pb := maxsat.New(constrs...)
	model, _ := pb.Solve()
	if model == nil {
		return Unsat, nil
	}
	o.model = model
	return Sat, nil
}

// Value returns the value of `v` in the model found by the last satisfiable
// Check. Undefined when the last Check was not Sat.
func (o *Optimizer) Value(v IntVar) int64 {
	return o.enc.value(v.ind, func(id int) bool {
		return o.model[litName(id)]
	})
}
