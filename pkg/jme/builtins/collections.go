package builtins

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

// maxCombinatoricItems bounds the output of product, combinations and
// permutations.
const maxCombinatoricItems = 100000

func listOf(t token.Token) []token.Token { return t.(token.List).Items }
func setOf(t token.Token) []token.Token  { return t.(token.Set).Items }

func rangeItems(r token.Range) []token.Token {
	return lo.Map(r.Members, func(f float64, _ int) token.Token { return realNum(f) })
}

// itemsOf reads the elements of a list, a set or a discrete range.
func itemsOf(t token.Token) ([]token.Token, bool) {
	switch v := t.(type) {
	case token.List:
		return v.Items, true
	case token.Set:
		return v.Items, true
	case token.Range:
		if v.Step == 0 {
			return nil, false
		}
		return rangeItems(v), true
	default:
		return nil, false
	}
}

func contains(items []token.Token, t token.Token) bool {
	return slices.ContainsFunc(items, func(o token.Token) bool { return token.TokenEqual(o, t) })
}

func distinct(items []token.Token) []token.Token {
	out := make([]token.Token, 0, len(items))
	for _, item := range items {
		if !contains(out, item) {
			out = append(out, item)
		}
	}
	return out
}

// inRange reports whether x is a member of a discrete range or lies inside
// a continuous one.
func inRange(x float64, r token.Range) bool {
	if r.Step == 0 {
		return x >= r.Start && x <= r.End
	}
	return slices.ContainsFunc(r.Members, func(m float64) bool { return math.Abs(m-x) < 1e-12 })
}

// numberIn reports whether t is a real number inside r.
func numberIn(t token.Token, r token.Range) bool {
	n, ok := t.(token.Number)
	return ok && !token.IsComplex(n.Value) && inRange(token.RealPart(n.Value), r)
}

func keep(items []token.Token, drop func(token.Token) bool) token.List {
	return token.NewList(lo.Reject(items, func(t token.Token, _ int) bool { return drop(t) })...)
}

func registerCollections(c catalog) {
	registerRanges(c)
	registerLists(c)
	registerSets(c)
	registerCombinatorics(c)
	registerIndexing(c)
}

func registerRanges(c catalog) {
	c.fn("in", []string{tNum, tRange}, token.KindBool, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.Bool{Value: numberIn(args[0], args[1].(token.Range))}, nil
	})
	c.fn("list", []string{tRange}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		r := args[0].(token.Range)
		if r.Step == 0 {
			return nil, jme.NewTypeError("list", "cannot list a continuous range")
		}
		return token.NewList(rangeItems(r)...), nil
	})

	c.fn("except", []string{tRange, tRange}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		other := args[1].(token.Range)
		return keep(rangeItems(args[0].(token.Range)), func(t token.Token) bool { return numberIn(t, other) }), nil
	})
	c.fn("except", []string{tRange, tList}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		drop := listOf(args[1])
		return keep(rangeItems(args[0].(token.Range)), func(t token.Token) bool { return contains(drop, t) }), nil
	})
	c.fn("except", []string{tRange, tNum}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return keep(rangeItems(args[0].(token.Range)), func(t token.Token) bool { return token.TokenEqual(t, args[1]) }), nil
	})
	c.fn("except", []string{tList, tRange}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		r := args[1].(token.Range)
		return keep(listOf(args[0]), func(t token.Token) bool { return numberIn(t, r) }), nil
	})
	c.fn("except", []string{tList, tList}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		drop := listOf(args[1])
		return keep(listOf(args[0]), func(t token.Token) bool { return contains(drop, t) }), nil
	})
	c.fn("except", []string{tList, tAny}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return keep(listOf(args[0]), func(t token.Token) bool { return token.TokenEqual(t, args[1]) }), nil
	})
}

func registerLists(c catalog) {
	c.fn("distinct", []string{tList}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.NewList(distinct(listOf(args[0]))...), nil
	})
	c.fn("in", []string{tAny, tList}, token.KindBool, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.Bool{Value: contains(listOf(args[1]), args[0])}, nil
	})
	c.fn("sort", []string{tList}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		items := slices.Clone(listOf(args[0]))
		cmpFn, err := ordering(items)
		if err != nil {
			return nil, err
		}
		slices.SortStableFunc(items, cmpFn)
		return token.NewList(items...), nil
	})
	c.fn("reverse", []string{tList}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		items := slices.Clone(listOf(args[0]))
		slices.Reverse(items)
		return token.NewList(items...), nil
	})
	c.fn("indices", []string{tList, tAny}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		var out []token.Token
		for i, item := range listOf(args[0]) {
			if token.TokenEqual(item, args[1]) {
				out = append(out, realNum(float64(i)))
			}
		}
		return token.NewList(out...), nil
	})
}

// ordering returns the comparison for sorting items: numbers compare by
// value and strings lexically. Other kinds, or a mix, cannot be sorted.
func ordering(items []token.Token) (func(a, b token.Token) int, error) {
	if len(items) == 0 {
		return func(token.Token, token.Token) int { return 0 }, nil
	}
	kind := items[0].Kind()
	for _, item := range items {
		if item.Kind() != kind {
			return nil, jme.NewTypeError("sort", "cannot sort a list of mixed %s and %s", kind, item.Kind())
		}
	}
	switch kind {
	case token.KindNumber:
		return func(a, b token.Token) int { return cmp.Compare(re(a), re(b)) }, nil
	case token.KindString:
		return func(a, b token.Token) int { return strings.Compare(str(a), str(b)) }, nil
	default:
		return nil, jme.NewTypeError("sort", "cannot sort a list of %s", kind)
	}
}

func registerSets(c catalog) {
	c.fn("set", []string{tList}, token.KindSet, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.Set{Items: distinct(listOf(args[0]))}, nil
	})
	c.fn("set", []string{tRange}, token.KindSet, func(_ jme.Env, args []token.Token) (token.Token, error) {
		items, ok := itemsOf(args[0])
		if !ok {
			return nil, jme.NewTypeError("set", "cannot make a set from a continuous range")
		}
		return token.Set{Items: distinct(items)}, nil
	})
	c.check("set", func([]token.Token) bool { return true }, token.KindSet, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.Set{Items: distinct(args)}, nil
	})
	c.fn("list", []string{tSet}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.NewList(slices.Clone(setOf(args[0]))...), nil
	})

	union := func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.Set{Items: distinct(append(slices.Clone(setOf(args[0])), setOf(args[1])...))}, nil
	}
	intersection := func(_ jme.Env, args []token.Token) (token.Token, error) {
		b := setOf(args[1])
		return token.Set{Items: lo.Filter(setOf(args[0]), func(t token.Token, _ int) bool { return contains(b, t) })}, nil
	}
	c.fn("union", []string{tSet, tSet}, token.KindSet, union)
	c.fn("intersection", []string{tSet, tSet}, token.KindSet, intersection)
	c.fn("or", []string{tSet, tSet}, token.KindSet, union)
	c.fn("and", []string{tSet, tSet}, token.KindSet, intersection)
	c.fn("-", []string{tSet, tSet}, token.KindSet, func(_ jme.Env, args []token.Token) (token.Token, error) {
		b := setOf(args[1])
		return token.Set{Items: lo.Reject(setOf(args[0]), func(t token.Token, _ int) bool { return contains(b, t) })}, nil
	})
	c.fn("abs", []string{tSet}, token.KindNumber, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return realNum(float64(len(setOf(args[0])))), nil
	})
	c.fn("in", []string{tAny, tSet}, token.KindBool, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.Bool{Value: contains(setOf(args[1]), args[0])}, nil
	})
}

func allCollections(args []token.Token) bool {
	return lo.EveryBy(args, func(t token.Token) bool {
		k := t.Kind()
		return k == token.KindList || k == token.KindSet
	})
}

func collectionAndCount(args []token.Token) bool {
	if len(args) != 2 || args[1].Kind() != token.KindNumber {
		return false
	}
	_, ok := itemsOf(args[0])
	return ok
}

func registerCombinatorics(c catalog) {
	c.check("product", allCollections, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		out := [][]token.Token{{}}
		for _, arg := range args {
			items, _ := itemsOf(arg)
			if len(out)*len(items) > maxCombinatoricItems {
				return nil, tooMany("product")
			}
			next := make([][]token.Token, 0, len(out)*len(items))
			for _, prefix := range out {
				for _, item := range items {
					next = append(next, append(slices.Clone(prefix), item))
				}
			}
			out = next
		}
		return tuples(out), nil
	})
	c.check("zip", allCollections, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		if len(args) == 0 {
			return token.NewList(), nil
		}
		lists := lo.Map(args, func(t token.Token, _ int) []token.Token {
			items, _ := itemsOf(t)
			return items
		})
		n := lo.Min(lo.Map(lists, func(l []token.Token, _ int) int { return len(l) }))
		out := make([][]token.Token, n)
		for i := range out {
			out[i] = lo.Map(lists, func(l []token.Token, _ int) token.Token { return l[i] })
		}
		return tuples(out), nil
	})

	selection := func(name string, gen func(items []token.Token, k int) ([][]token.Token, error)) {
		c.check(name, collectionAndCount, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
			items, _ := itemsOf(args[0])
			k, err := toInt(name, args[1])
			if err != nil {
				return nil, err
			}
			if k < 0 {
				return nil, jme.NewRuntimeError(name, "cannot choose %d items", k)
			}
			out, err := gen(items, k)
			if err != nil {
				return nil, err
			}
			return tuples(out), nil
		})
	}
	selection("combinations", func(items []token.Token, k int) ([][]token.Token, error) {
		return combinations(items, k, false)
	})
	selection("combinations_with_replacement", func(items []token.Token, k int) ([][]token.Token, error) {
		return combinations(items, k, true)
	})
	selection("permutations", permutations)
}

func tooMany(fn string) error {
	return jme.NewRuntimeError(fn, "more than %d results", maxCombinatoricItems)
}

func tuples(rows [][]token.Token) token.List {
	return token.NewList(lo.Map(rows, func(row []token.Token, _ int) token.Token { return token.NewList(row...) })...)
}

// combinations lists the k-element selections of items in index order.
func combinations(items []token.Token, k int, replace bool) ([][]token.Token, error) {
	var out [][]token.Token
	var walk func(start int, acc []token.Token) error
	walk = func(start int, acc []token.Token) error {
		if len(acc) == k {
			if len(out) == maxCombinatoricItems {
				return tooMany("combinations")
			}
			out = append(out, slices.Clone(acc))
			return nil
		}
		for i := start; i < len(items); i++ {
			next := i + 1
			if replace {
				next = i
			}
			if err := walk(next, append(acc, items[i])); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0, make([]token.Token, 0, k)); err != nil {
		return nil, err
	}
	return out, nil
}

// permutations lists the ordered k-element selections of items.
func permutations(items []token.Token, k int) ([][]token.Token, error) {
	var out [][]token.Token
	used := make([]bool, len(items))
	var walk func(acc []token.Token) error
	walk = func(acc []token.Token) error {
		if len(acc) == k {
			if len(out) == maxCombinatoricItems {
				return tooMany("permutations")
			}
			out = append(out, slices.Clone(acc))
			return nil
		}
		for i, item := range items {
			if used[i] {
				continue
			}
			used[i] = true
			err := walk(append(acc, item))
			used[i] = false
			if err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(make([]token.Token, 0, k)); err != nil {
		return nil, err
	}
	return out, nil
}

// index resolves i against a collection of size n; negative indices count
// from the end.
func index(fn string, t token.Token, n int) (int, error) {
	i, err := toInt(fn, t)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, jme.NewRuntimeError(fn, "index %s out of bounds", token.RenderToken(t))
	}
	return i, nil
}

// slice resolves a range against a collection of size n and returns the
// selected positions. The range end is exclusive.
func slice(r token.Range, n int) []int {
	start, end := int(r.Start), int(r.End)
	if start < 0 {
		start += n
	}
	if end < 0 {
		end += n
	}
	start, end = max(start, 0), min(end, n)
	step := max(int(r.Step), 1)
	var out []int
	for i := start; i < end; i += step {
		out = append(out, i)
	}
	return out
}

func registerIndexing(c catalog) {
	c.fn("listval", []string{tList, tNum}, jme.Any, func(_ jme.Env, args []token.Token) (token.Token, error) {
		items := listOf(args[0])
		i, err := index("listval", args[1], len(items))
		if err != nil {
			return nil, err
		}
		return items[i], nil
	})
	c.fn("listval", []string{tList, tRange}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		items := listOf(args[0])
		return token.NewList(lo.Map(slice(args[1].(token.Range), len(items)), func(i int, _ int) token.Token { return items[i] })...), nil
	})
	c.fn("listval", []string{tVec, tNum}, token.KindNumber, func(_ jme.Env, args []token.Token) (token.Token, error) {
		v := vectorOf(args[0])
		i, err := index("listval", args[1], len(v))
		if err != nil {
			return nil, err
		}
		return realNum(v[i]), nil
	})
	c.fn("listval", []string{tVec, tRange}, token.KindVector, func(_ jme.Env, args []token.Token) (token.Token, error) {
		v := vectorOf(args[0])
		return token.Vector{Values: lo.Map(slice(args[1].(token.Range), len(v)), func(i int, _ int) float64 { return v[i] })}, nil
	})
	c.fn("listval", []string{tMat, tNum}, token.KindVector, func(_ jme.Env, args []token.Token) (token.Token, error) {
		m := matrixOf(args[0])
		i, err := index("listval", args[1], m.Rows)
		if err != nil {
			return nil, err
		}
		return token.Vector{Values: slices.Clone(m.Values[i])}, nil
	})
	c.fn("listval", []string{tMat, tRange}, token.KindMatrix, func(_ jme.Env, args []token.Token) (token.Token, error) {
		m := matrixOf(args[0])
		return token.NewMatrix(lo.Map(slice(args[1].(token.Range), m.Rows), func(i int, _ int) []float64 { return m.Values[i] })), nil
	})
}
