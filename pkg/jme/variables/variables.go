package variables

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/parser"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

// Definition is one compiled variable.
type Definition struct {
	Name   string
	Source string
	// Tree is nil for a blank definition.
	Tree *token.Tree
	// Vars are the free names of Tree, the variables it depends on.
	Vars []string
}

// Set is a compiled collection of variable definitions, an optional
// condition on their values and custom functions. A Set is read-only after
// Compile and may be shared.
type Set struct {
	defs      map[string]*Definition
	condition *token.Tree
	functions []*jme.FunctionDef
}

// Compile parses every definition of doc. Syntax errors in all
// definitions are reported together.
//
// s supplies the functions whose binding forms (map, let, ...) decide which
// names are free; it may be nil.
func Compile(doc Document, s *jme.Scope) (*Set, error) {
	set := &Set{defs: make(map[string]*Definition, len(doc.Variables))}
	var errs []error

	for _, src := range doc.Functions {
		def, err := MakeFunction(src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		set.functions = append(set.functions, &def)
	}
	lookup := s
	if len(set.functions) > 0 {
		lookup = set.Scope(s)
	}

	for _, name := range slices.Sorted(maps.Keys(doc.Variables)) {
		src := doc.Variables[name]
		tree, err := parser.Compile(src)
		if err != nil {
			errs = append(errs, fmt.Errorf("variable %s: %w", name, err))
			continue
		}
		key := strings.ToLower(name)
		set.defs[key] = &Definition{
			Name:   key,
			Source: src,
			Tree:   tree,
			Vars:   jme.FindVars(tree, nil, lookup),
		}
	}

	if strings.TrimSpace(doc.Condition) != "" {
		cond, err := parser.Compile(doc.Condition)
		if err != nil {
			errs = append(errs, fmt.Errorf("condition: %w", err))
		}
		set.condition = cond
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return set, nil
}

// Names returns the defined variable names, sorted.
func (set *Set) Names() []string {
	return slices.Sorted(maps.Keys(set.defs))
}

// Definition returns the compiled definition of name.
func (set *Set) Definition(name string) (*Definition, bool) {
	d, ok := set.defs[strings.ToLower(name)]
	return d, ok
}

// Condition returns the compiled condition, or nil.
func (set *Set) Condition() *token.Tree {
	return set.condition
}

// Scope returns a child of parent holding the set's custom functions. The
// caller owns the returned layer; Compute stores values in it.
func (set *Set) Scope(parent *jme.Scope) *jme.Scope {
	s := jme.NewScope(parent)
	for _, fn := range set.functions {
		s.AddFunction(fn)
	}
	return s
}

// Compute evaluates the variable name in s, computing its dependencies
// first. Every computed value is stored in s, so s must be a layer the
// caller owns. A name already bound in s is returned as is.
func (set *Set) Compute(ev *jme.Evaluator, s *jme.Scope, name string) (token.Token, error) {
	return set.compute(ev, s, strings.ToLower(name), nil)
}

// compute carries path, the variables being computed, outermost first.
func (set *Set) compute(ev *jme.Evaluator, s *jme.Scope, name string, path []string) (token.Token, error) {
	if v, ok := s.Variable(name); ok {
		return v, nil
	}
	if slices.Contains(path, name) {
		return nil, &jme.CircularDependencyError{Name: name, Path: path}
	}
	def, ok := set.defs[name]
	if !ok {
		return nil, &UndefinedVariableError{Name: name}
	}

	next := append(slices.Clone(path), name)
	for _, dep := range def.Vars {
		if _, ok := s.Variable(dep); ok {
			continue
		}
		if _, err := set.compute(ev, s, dep, next); err != nil {
			if errors.Is(err, jme.ErrCircularDependency) || errors.Is(err, ErrUndefinedVariable) {
				return nil, err
			}
			return nil, &DependencyError{Name: name, Dependency: dep, Err: err}
		}
	}

	if def.Tree == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDefinition, name)
	}
	v, err := ev.Evaluate(def.Tree, s)
	if err != nil {
		return nil, &EvaluationError{Name: name, Err: err}
	}
	s.SetVariable(name, v)
	return v, nil
}

// Result is the outcome of MakeAll.
type Result struct {
	// Scope binds every computed variable, over the scope given to MakeAll.
	Scope *jme.Scope
	// Values holds the set's variables. It is empty when the condition
	// failed.
	Values map[string]token.Token
	// ConditionSatisfied is true when there is no condition or it
	// evaluated to true.
	ConditionSatisfied bool
}

// MakeAll computes the set's variables in a new child of s.
//
// With a condition, the variables it uses are computed first and the
// condition is evaluated; the remaining variables are only computed when
// it holds. A condition that does not evaluate to a boolean is an error.
func (set *Set) MakeAll(ev *jme.Evaluator, s *jme.Scope) (*Result, error) {
	scope := set.Scope(s)
	for _, name := range set.Names() {
		if _, ok := s.Variable(name); ok {
			slog.Warn("variable definition shadowed by scope value", "variable", name)
		}
	}

	res := &Result{Scope: scope, Values: make(map[string]token.Token), ConditionSatisfied: true}
	if set.condition != nil {
		for _, name := range jme.FindVars(set.condition, nil, scope) {
			if _, err := set.Compute(ev, scope, name); err != nil {
				return nil, err
			}
		}
		v, err := ev.Evaluate(set.condition, scope)
		if err != nil {
			return nil, fmt.Errorf("condition: %w", err)
		}
		b, ok := v.(token.Bool)
		if !ok {
			return nil, jme.NewTypeError("condition", "evaluated to %s, not a boolean", v.Kind())
		}
		res.ConditionSatisfied = b.Value
	}
	if !res.ConditionSatisfied {
		return res, nil
	}

	for _, name := range set.Names() {
		v, err := set.Compute(ev, scope, name)
		if err != nil {
			return nil, err
		}
		res.Values[name] = v
	}
	return res, nil
}

// Generate calls MakeAll until the condition holds, at most maxRuns times.
// Definitions that draw random values give a fresh draw on every run.
func (set *Set) Generate(ev *jme.Evaluator, s *jme.Scope, maxRuns int) (*Result, error) {
	maxRuns = max(maxRuns, 1)
	for range maxRuns {
		res, err := set.MakeAll(ev, s)
		if err != nil {
			return nil, err
		}
		if res.ConditionSatisfied {
			return res, nil
		}
	}
	return nil, fmt.Errorf("%w after %d runs", ErrConditionNotSatisfied, maxRuns)
}

// Dependants returns the variables that depend, directly or through other
// variables, on any of names. The result is sorted.
func (set *Set) Dependants(names ...string) []string {
	targets := make(map[string]bool, len(names))
	for _, n := range names {
		targets[strings.ToLower(n)] = true
	}

	memo := make(map[string][]string)
	var deps func(name string, visiting map[string]bool) []string
	deps = func(name string, visiting map[string]bool) []string {
		if d, ok := memo[name]; ok {
			return d
		}
		def, ok := set.defs[name]
		if !ok || visiting[name] {
			return nil
		}
		visiting[name] = true
		var out []string
		for _, v := range def.Vars {
			out = jme.MergeVars(out, append([]string{v}, deps(v, visiting)...))
		}
		delete(visiting, name)
		memo[name] = out
		return out
	}

	var out []string
	for _, name := range set.Names() {
		if slices.ContainsFunc(deps(name, make(map[string]bool)), func(d string) bool { return targets[d] }) {
			out = append(out, name)
		}
	}
	return out
}
