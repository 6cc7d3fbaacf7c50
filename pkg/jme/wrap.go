package jme

import (
	"fmt"
	"reflect"

	"github.com/samber/lo"

	"github.com/randalmurphal/jme/pkg/jme/token"
)

// WrapValue converts a Go value into a token.
//
// Numbers, complex numbers, strings and booleans map to the obvious
// kinds. Slices become lists unless hint asks for a vector, a matrix, a
// set or a range; a range is read from [start, end, step]. A value that is
// already a token is returned as is.
func WrapValue(v any, hint token.Kind) (token.Token, error) {
	if tok, ok := v.(token.Token); ok {
		return tok, nil
	}
	if v == nil {
		return nil, fmt.Errorf("jme: cannot wrap nil")
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return token.Bool{Value: rv.Bool()}, nil
	case reflect.String:
		return token.String{Value: rv.String()}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return token.NewReal(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return token.NewReal(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return token.NewReal(rv.Float()), nil
	case reflect.Complex64, reflect.Complex128:
		return token.NewComplexNumber(rv.Complex()), nil
	case reflect.Slice, reflect.Array:
		return wrapSlice(rv, hint)
	default:
		return nil, fmt.Errorf("jme: cannot wrap value of type %T", v)
	}
}

func wrapSlice(rv reflect.Value, hint token.Kind) (token.Token, error) {
	items := make([]token.Token, rv.Len())
	for i := range items {
		tok, err := WrapValue(rv.Index(i).Interface(), "")
		if err != nil {
			return nil, err
		}
		items[i] = tok
	}

	switch hint {
	case token.KindVector:
		values, err := reals(items)
		if err != nil {
			return nil, err
		}
		return token.Vector{Values: values}, nil
	case token.KindMatrix:
		rows := make([][]float64, len(items))
		for i, item := range items {
			row, ok := item.(token.List)
			if !ok {
				return nil, fmt.Errorf("jme: matrix row %d is a %s", i, item.Kind())
			}
			values, err := reals(row.Items)
			if err != nil {
				return nil, err
			}
			rows[i] = values
		}
		return token.NewMatrix(rows), nil
	case token.KindRange:
		values, err := reals(items)
		if err != nil {
			return nil, err
		}
		if len(values) != 3 {
			return nil, fmt.Errorf("jme: a range needs start, end and step, got %d values", len(values))
		}
		r, err := token.NewRange(values[0], values[1], values[2])
		if err != nil {
			return nil, fmt.Errorf("jme: %w", err)
		}
		return r, nil
	case token.KindSet:
		return token.Set{Items: items}, nil
	default:
		return token.NewList(items...), nil
	}
}

func reals(items []token.Token) ([]float64, error) {
	out := make([]float64, len(items))
	for i, item := range items {
		n, ok := item.(token.Number)
		if !ok || token.IsComplex(n.Value) {
			return nil, fmt.Errorf("jme: expected a real number, got %s", token.RenderToken(item))
		}
		out[i] = token.RealPart(n.Value)
	}
	return out, nil
}

// UnwrapValue converts a token into a plain Go value. Lists and sets
// become []any, vectors []float64, matrices [][]float64 and ranges
// []float64{start, end, step}.
func UnwrapValue(tok token.Token) any {
	switch t := tok.(type) {
	case token.Number:
		switch n := t.Value.(type) {
		case token.Real:
			return float64(n)
		case token.Complex:
			return complex128(n)
		default:
			return nil
		}
	case token.String:
		return t.Value
	case token.Bool:
		return t.Value
	case token.List:
		return lo.Map(t.Items, func(item token.Token, _ int) any { return UnwrapValue(item) })
	case token.Set:
		return lo.Map(t.Items, func(item token.Token, _ int) any { return UnwrapValue(item) })
	case token.Vector:
		return append([]float64(nil), t.Values...)
	case token.Matrix:
		return lo.Map(t.Values, func(row []float64, _ int) []float64 { return append([]float64(nil), row...) })
	case token.Range:
		return []float64{t.Start, t.End, t.Step}
	case token.Name:
		return t.Name
	case token.Function:
		return t.Name
	case token.Op:
		return t.Name
	case token.Punc:
		return t.Value
	default:
		return nil
	}
}

// HostFunc adapts a Go function over plain values into an overload.
// Arguments are converted with UnwrapValue and the result with WrapValue,
// using out as the hint.
func HostFunc(name string, params []Param, out token.Kind, fn func(args ...any) (any, error)) FunctionDef {
	return FunctionDef{
		Name:   name,
		Params: params,
		Out:    out,
		Fn: func(_ Env, args []token.Token) (token.Token, error) {
			res, err := fn(lo.Map(args, func(a token.Token, _ int) any { return UnwrapValue(a) })...)
			if err != nil {
				return nil, &RuntimeError{Func: name, Msg: err.Error()}
			}
			return WrapValue(res, out)
		},
	}
}
