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

// Package csp offers an engine-agnostic API to build finite-domain constraint
// models and solve them.
//
// The `Builder` struct is the shared solving context: it holds the decision
// variables and an arena of constraints addressed by index. `IntVar` values are
// references to variables in the arena, and `LinearExpr` provides helper
// methods for building expressions over many variables and coefficients.
// `Constraint` is a standalone value, so the same constraint can be placed in
// the arena at build time or asserted into a running engine afterwards.
//
// Two engines consume a Builder: `Solver` answers pure satisfiability queries
// and supports nested assertion scopes, while `Optimizer` additionally accepts
// weighted soft constraints and maximizes the total satisfied soft weight.
package csp

import (
	"errors"
	"fmt"
	"math"

	log "github.com/golang/glog"
)

// ErrMixedModels holds the error when elements added to a model belong to different builders.
var ErrMixedModels = errors.New("elements are not part of the same model")

type (
	// VarIndex is the index of a variable in the builder's arena.
	VarIndex int32
	// ConstrIndex is the index of a constraint in the builder's arena.
	ConstrIndex int32
)

// LinearArgument provides an interface for IntVar and LinearExpr.
type LinearArgument interface {
	addToLinearExpr(e *LinearExpr, c int64)
	// Evaluate returns the value of the argument under the assignment `values`,
	// indexed by VarIndex.
	Evaluate(values []int64) int64
}

// LinearExpr is a container for a linear expression.
type LinearExpr struct {
	varCoeffs []varCoeff
	offset    int64
}

type varCoeff struct {
	ind   VarIndex
	coeff int64
}

// NewLinearExpr creates a new empty LinearExpr.
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{}
}

// NewConstant creates and returns a LinearExpr containing the constant `c`.
func NewConstant(c int64) *LinearExpr {
	return &LinearExpr{offset: c}
}

// Add adds the linear argument term to the LinearExpr and returns itself.
func (l *LinearExpr) Add(la LinearArgument) *LinearExpr {
	l.AddTerm(la, 1)
	return l
}

// AddConstant adds the constant to the LinearExpr and returns itself.
func (l *LinearExpr) AddConstant(c int64) *LinearExpr {
	l.offset += c
	return l
}

// AddTerm adds the linear argument term with the given coefficient to the LinearExpr
// and returns itself.
func (l *LinearExpr) AddTerm(la LinearArgument, coeff int64) *LinearExpr {
	la.addToLinearExpr(l, coeff)
	return l
}

// AddSum adds the sum of the linear arguments to the LinearExpr and returns itself.
func (l *LinearExpr) AddSum(las ...LinearArgument) *LinearExpr {
	for _, la := range las {
		l.Add(la)
	}
	return l
}

// AddWeightedSum adds the linear arguments with the corresponding coefficients to the
// LinearExpr and returns itself.
func (l *LinearExpr) AddWeightedSum(las []LinearArgument, coeffs []int64) *LinearExpr {
	if len(coeffs) != len(las) {
		log.Fatalf("las and coeffs must be the same length: %v != %v", len(las), len(coeffs))
	}
	for i, la := range las {
		l.AddTerm(la, coeffs[i])
	}
	return l
}

func (l *LinearExpr) addToLinearExpr(e *LinearExpr, c int64) {
	for _, vc := range l.varCoeffs {
		e.varCoeffs = append(e.varCoeffs, varCoeff{ind: vc.ind, coeff: vc.coeff * c})
	}
	e.offset += l.offset * c
}

// Evaluate implements LinearArgument.
func (l *LinearExpr) Evaluate(values []int64) int64 {
	result := l.offset
	for _, vc := range l.varCoeffs {
		result += values[vc.ind] * vc.coeff
	}
	return result
}

// IntVar is a reference to an integer variable in the model.
type IntVar struct {
	ind VarIndex
	cpb *Builder
}

// Name returns the name of the variable.
func (i IntVar) Name() string {
	return i.cpb.vars[i.ind].name
}

// Domain returns the domain of the variable.
func (i IntVar) Domain() Domain {
	return i.cpb.vars[i.ind].dom
}

// Index returns the index of the variable.
func (i IntVar) Index() VarIndex {
	return i.ind
}

// WithName sets the name of the variable.
func (i IntVar) WithName(s string) IntVar {
	i.cpb.vars[i.ind].name = s
	return i
}

func (i IntVar) addToLinearExpr(e *LinearExpr, c int64) {
	e.varCoeffs = append(e.varCoeffs, varCoeff{ind: i.ind, coeff: c})
}

// Evaluate implements LinearArgument.
func (i IntVar) Evaluate(values []int64) int64 {
	return values[i.ind]
}

type constrKind uint8

const (
	kindLinear constrKind = iota + 1
	kindAllDiff
	kindTable
)

// Constraint is a constraint expression over variables of one builder. The
// zero value is an empty, always-true constraint. Constraints built by the
// `New*` functions are standalone values; the Builder's `Add*` methods build
// the same values and additionally append them to the model arena.
type Constraint struct {
	kind constrKind
	vars []VarIndex
	// coeffs is parallel to vars for linear constraints.
	coeffs []int64
	// dom restricts the value of the linear expression.
	dom Domain
	// tuples holds the rows of a table constraint.
	tuples [][]int64
	// negated flips a table constraint from allowed to forbidden assignments.
	negated bool
}

// NewLinearConstraintForDomain builds the constraint `expr in domain`. The
// constant offset of `expr` is folded into the domain.
func NewLinearConstraintForDomain(expr LinearArgument, domain Domain) Constraint {
	le := NewLinearExpr().Add(expr)
	var vars []VarIndex
	var coeffs []int64
	for _, vc := range le.varCoeffs {
		vars = append(vars, vc.ind)
		coeffs = append(coeffs, vc.coeff)
	}
	var itvs []ClosedInterval
	for _, itv := range domain.intervals {
		itvs = append(itvs, itv.Offset(-le.offset))
	}
	return Constraint{kind: kindLinear, vars: vars, coeffs: coeffs, dom: FromIntervals(itvs)}
}

// NewLinearConstraint builds the constraint `lb <= expr <= ub`.
func NewLinearConstraint(expr LinearArgument, lb, ub int64) Constraint {
	return NewLinearConstraintForDomain(expr, NewDomain(lb, ub))
}

// NewEquality builds the constraint `lhs == rhs`.
func NewEquality(lhs, rhs LinearArgument) Constraint {
	return NewLinearConstraint(diffExpr(lhs, rhs), 0, 0)
}

// NewNotEqual builds the constraint `lhs != rhs`.
func NewNotEqual(lhs, rhs LinearArgument) Constraint {
	return NewLinearConstraintForDomain(diffExpr(lhs, rhs), FromIntervals([]ClosedInterval{
		{math.MinInt64, -1},
		{1, math.MaxInt64},
	}))
}

// NewLessThan builds the constraint `lhs < rhs`.
func NewLessThan(lhs, rhs LinearArgument) Constraint {
	return NewLinearConstraint(diffExpr(lhs, rhs), math.MinInt64, -1)
}

// NewLessOrEqual builds the constraint `lhs <= rhs`.
func NewLessOrEqual(lhs, rhs LinearArgument) Constraint {
	return NewLinearConstraint(diffExpr(lhs, rhs), math.MinInt64, 0)
}

// NewGreaterOrEqual builds the constraint `lhs >= rhs`.
func NewGreaterOrEqual(lhs, rhs LinearArgument) Constraint {
	return NewLinearConstraint(diffExpr(lhs, rhs), 0, math.MaxInt64)
}

// NewGreaterThan builds the constraint `lhs > rhs`.
func NewGreaterThan(lhs, rhs LinearArgument) Constraint {
	return NewLinearConstraint(diffExpr(lhs, rhs), 1, math.MaxInt64)
}

// NewForbiddenAssignment builds the constraint that the variables must not all
// simultaneously take the values of `tuple`.
func NewForbiddenAssignment(vars []IntVar, tuple []int64) Constraint {
	if len(vars) != len(tuple) {
		log.Fatalf("vars and tuple must be the same length: %v != %v", len(vars), len(tuple))
	}
	inds := make([]VarIndex, len(vars))
	for i, v := range vars {
		inds[i] = v.ind
	}
	row := make([]int64, len(tuple))
	copy(row, tuple)
	return Constraint{kind: kindTable, vars: inds, tuples: [][]int64{row}, negated: true}
}

func diffExpr(lhs, rhs LinearArgument) *LinearExpr {
	return NewLinearExpr().Add(lhs).AddTerm(rhs, -1)
}

type intVarData struct {
	name string
	dom  Domain
}

// Builder accumulates the variables and constraints of one model. It is the
// solving context shared by the constraint compiler and the engines: the
// compiler appends constraints, and an attached engine picks them up at its
// next Check.
type Builder struct {
	vars        []intVarData
	constraints []Constraint
	// The first and only the first error is reported by Validate.
	err error
}

// NewBuilder creates and returns a new model Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// NewIntVar creates a new integer variable with domain `[lb,ub]`.
func (cp *Builder) NewIntVar(lb, ub int64) IntVar {
	return cp.NewIntVarFromDomain(NewDomain(lb, ub))
}

// NewIntVarFromDomain creates a new integer variable with the given domain.
func (cp *Builder) NewIntVarFromDomain(d Domain) IntVar {
	iv := IntVar{cpb: cp, ind: VarIndex(len(cp.vars))}
	cp.vars = append(cp.vars, intVarData{dom: d})
	return iv
}

// checkSameModelAndSetErrorf returns true if `cp` and `cp2` point to the same Builder.
// If false, an error with the error message `format` is set on `cp` if `cp.err` is nil.
func (cp *Builder) checkSameModelAndSetErrorf(cp2 *Builder, format string, a ...any) bool {
	if cp == cp2 {
		return true
	}
	args := make([]any, len(a)+1)
	copy(args, a)
	args[len(a)] = ErrMixedModels
	err := fmt.Errorf(format+": %w", args...)
	log.Errorf("%v", err)
	if cp.err == nil {
		cp.err = err
	}
	return false
}

func (cp *Builder) appendConstraint(c Constraint) ConstrIndex {
	i := ConstrIndex(len(cp.constraints))
	cp.constraints = append(cp.constraints, c)
	return i
}

// AddLinearConstraintForDomain adds the linear constraint `expr in domain`.
func (cp *Builder) AddLinearConstraintForDomain(expr LinearArgument, domain Domain) ConstrIndex {
	return cp.appendConstraint(NewLinearConstraintForDomain(expr, domain))
}

// AddLinearConstraint adds the linear constraint `lb <= expr <= ub`.
func (cp *Builder) AddLinearConstraint(expr LinearArgument, lb, ub int64) ConstrIndex {
	return cp.appendConstraint(NewLinearConstraint(expr, lb, ub))
}

// AddEquality adds the linear constraint `lhs == rhs`.
func (cp *Builder) AddEquality(lhs, rhs LinearArgument) ConstrIndex {
	return cp.appendConstraint(NewEquality(lhs, rhs))
}

// AddNotEqual adds the linear constraint `lhs != rhs`.
func (cp *Builder) AddNotEqual(lhs, rhs LinearArgument) ConstrIndex {
	return cp.appendConstraint(NewNotEqual(lhs, rhs))
}

// AddLessThan adds the linear constraint `lhs < rhs`.
func (cp *Builder) AddLessThan(lhs, rhs LinearArgument) ConstrIndex {
	return cp.appendConstraint(NewLessThan(lhs, rhs))
}

// AddLessOrEqual adds the linear constraint `lhs <= rhs`.
func (cp *Builder) AddLessOrEqual(lhs, rhs LinearArgument) ConstrIndex {
	return cp.appendConstraint(NewLessOrEqual(lhs, rhs))
}

// AddGreaterOrEqual adds the linear constraint `lhs >= rhs`.
func (cp *Builder) AddGreaterOrEqual(lhs, rhs LinearArgument) ConstrIndex {
	return cp.appendConstraint(NewGreaterOrEqual(lhs, rhs))
}

// AddGreaterThan adds the linear constraint `lhs > rhs`.
func (cp *Builder) AddGreaterThan(lhs, rhs LinearArgument) ConstrIndex {
	return cp.appendConstraint(NewGreaterThan(lhs, rhs))
}

// AddAllDifferent adds a constraint that forces all variables to take different values.
func (cp *Builder) AddAllDifferent(vars ...IntVar) ConstrIndex {
	inds := make([]VarIndex, len(vars))
	for i, v := range vars {
		cp.checkSameModelAndSetErrorf(v.cpb, "IntVar %v added to AllDifferent constraint %v", v.Index(), len(cp.constraints))
		inds[i] = v.ind
	}
	return cp.appendConstraint(Constraint{kind: kindAllDiff, vars: inds})
}

// TableConstraint is a reference to an assignment-table constraint that allows
// adding tuples incrementally.
type TableConstraint struct {
	ind ConstrIndex
	cpb *Builder
}

// AddTuple adds a tuple of values to the table constraint.
func (tc TableConstraint) AddTuple(tuple ...int64) {
	ct := &tc.cpb.constraints[tc.ind]
	if len(ct.vars) != len(tuple) {
		log.Fatalf("length of vars in the constraint must be the same length as the input tuple: %v != %v", len(ct.vars), len(tuple))
	}
	row := make([]int64, len(tuple))
	copy(row, tuple)
	ct.tuples = append(ct.tuples, row)
}

// AddAllowedAssignments adds an allowed assignments constraint to the model. When all
// variables are fixed to a single value, it forces the corresponding list of values to
// be equal to one of the tuples added to the constraint.
func (cp *Builder) AddAllowedAssignments(vars ...IntVar) TableConstraint {
	inds := make([]VarIndex, len(vars))
	for i, v := range vars {
		cp.checkSameModelAndSetErrorf(v.cpb, "IntVar %v added to table constraint %v", v.Index(), len(cp.constraints))
		inds[i] = v.ind
	}
	return TableConstraint{cp.appendConstraint(Constraint{kind: kindTable, vars: inds}), cp}
}

// AddForbiddenAssignments adds a forbidden assignments constraint to the model. The
// list of variable values must be different from all the tuples added to the constraint.
func (cp *Builder) AddForbiddenAssignments(vars ...IntVar) TableConstraint {
	inds := make([]VarIndex, len(vars))
	for i, v := range vars {
		cp.checkSameModelAndSetErrorf(v.cpb, "IntVar %v added to table constraint %v", v.Index(), len(cp.constraints))
		inds[i] = v.ind
	}
	return TableConstraint{cp.appendConstraint(Constraint{kind: kindTable, vars: inds, negated: true}), cp}
}

// Assert appends an already-built constraint value to the model.
func (cp *Builder) Assert(c Constraint) ConstrIndex {
	return cp.appendConstraint(c)
}

// NumVariables returns the number of variables in the model.
func (cp *Builder) NumVariables() int {
	return len(cp.vars)
}

// Validate returns an error when invalid parameters have been used during model
// building (e.g. passing variables from other builders). Engines call it before
// their first check.
func (cp *Builder) Validate() error {
	return cp.err
}
