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
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	log "github.com/golang/glog"
)

// Status is the three-valued result of a satisfiability check.
type Status int8

const (
	// Unknown means the engine could not decide within its limits.
	Unknown Status = iota
	// Sat means an assignment satisfying every asserted constraint exists.
	Sat
	// Unsat means no assignment satisfies the asserted constraints.
	Unsat
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Sat:
		return "SAT"
	case Unsat:
		return "UNSAT"
	}
	return "UNKNOWN"
}

type scope struct {
	// mark is the length of the builder's constraint arena at Push.
	mark int
	// act is the activation literal guarding clauses asserted inside the scope.
	act z.Lit
}

// Solver is a pure-satisfiability engine attached to a Builder. Constraints
// appended to the builder are picked up incrementally at the next Check, so
// the builder acts as the live solving context. Satisfiability itself is
// delegated to gini.
//
// Push opens a nested assertion scope and Pop retracts everything asserted
// since the matching Push; scopes nest as a stack. While a Solver has open
// scopes it must be the only engine attached to its builder.
type Solver struct {
	cpb     *Builder
	enc     *encoder
	g       *gini.Gini
	synced  int
	scopes  []scope
	timeout time.Duration
}

// NewSolver attaches a new Solver to the builder and encodes the constraints
// asserted so far. Variables must all be created before attaching.
func NewSolver(cpb *Builder) (*Solver, error) {
	if err := cpb.Validate(); err != nil {
		return nil, err
	}
	enc, err := newEncoder(cpb)
	if err != nil {
		return nil, err
	}
	s := &Solver{cpb: cpb, enc: enc, g: gini.New()}
	s.addClauses(enc.variableClauses())
	if err := s.sync(); err != nil {
		return nil, err
	}
	return s, nil
}

// Context returns the builder the solver is attached to.
func (s *Solver) Context() *Builder {
	return s.cpb
}

// SetTimeout bounds each Check. A check that does not finish within `d`
// returns Unknown. Zero means no bound.
func (s *Solver) SetTimeout(d time.Duration) {
	s.timeout = d
}

func toGini(l int) z.Lit {
	if l < 0 {
		return z.Var(-l).Neg()
	}
	return z.Var(l).Pos()
}

// addClauses asserts clauses into gini. Inside an open scope each clause is
// guarded by the scope's activation literal so Pop can retract it.
func (s *Solver) addClauses(cls []clause) {
	for _, cl := range cls {
		if len(s.scopes) > 0 {
			s.g.Add(s.scopes[len(s.scopes)-1].act.Not())
		}
		for _, l := range cl {
			s.g.Add(toGini(l))
		}
		s.g.Add(0)
	}
}

// sync encodes every builder constraint not yet seen by the engine.
func (s *Solver) sync() error {
	for ; s.synced < len(s.cpb.constraints); s.synced++ {
		cls, err := s.enc.constraintClauses(s.cpb.constraints[s.synced])
		if err != nil {
			return err
		}
		s.addClauses(cls)
	}
	return nil
}

// Check decides satisfiability of everything asserted so far.
func (s *Solver) Check() (Status, error) {
	if err := s.sync(); err != nil {
		return Unknown, err
	}
	for _, sc := range s.scopes {
		// gini consumes assumptions at each Solve.
		s.g.Assume(sc.act)
	}
	var res int
	if s.timeout > 0 {
		res = s.g.GoSolve().Try(s.timeout)
	} else {
		res = s.g.Solve()
	}
	switch res {
	case 1:
		return Sat, nil
	case -1:
		return Unsat, nil
	}
	return Unknown, nil
}

// Value returns the value of `v` in the model found by the last satisfiable
// Check. Undefined when the last Check was not Sat.
func (s *Solver) Value(v IntVar) int64 {
	return s.enc.value(v.ind, func(id int) bool {
		return s.g.Value(z.Var(id).Pos())
	})
}

// Push opens a nested assertion scope. Constraints asserted on the context
// until the matching Pop are retracted by it. Constraints already on the
// context are synced first so they stay asserted across the Pop.
func (s *Solver) Push() error {
	if err := s.sync(); err != nil {
		return err
	}
	act := z.Var(s.enc.fresh()).Pos()
	s.scopes = append(s.scopes, scope{mark: len(s.cpb.constraints), act: act})
	return nil
}

// Pop closes the innermost scope, retracting every constraint asserted since
// its Push. Unsynced scope constraints are dropped from the context; synced
// ones are retired by disabling the scope's activation literal for good.
func (s *Solver) Pop() {
	if len(s.scopes) == 0 {
		log.Fatal("Pop called without a matching Push")
	}
	sc := s.scopes[len(s.scopes)-1]
	s.scopes = s.scopes[:len(s.scopes)-1]
	s.g.Add(sc.act.Not())
	s.g.Add(0)
	s.cpb.constraints = s.cpb.constraints[:sc.mark]
	if s.synced > sc.mark {
		s.synced = sc.mark
	}
}
