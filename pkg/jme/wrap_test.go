package jme_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

func TestWrapValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		hint token.Kind
		want token.Token
	}{
		{name: "int", in: 3, want: token.NewReal(3)},
		{name: "uint", in: uint8(7), want: token.NewReal(7)},
		{name: "float", in: 1.5, want: token.NewReal(1.5)},
		{name: "complex", in: 2i, want: token.NewComplexNumber(2i)},
		{name: "string", in: "hi", want: token.String{Value: "hi"}},
		{name: "bool", in: true, want: token.Bool{Value: true}},
		{name: "token", in: token.String{Value: "as is"}, want: token.String{Value: "as is"}},
		{name: "list", in: []any{1, "a"}, want: token.NewList(token.NewReal(1), token.String{Value: "a"})},
		{name: "vector", in: []float64{1, 2}, hint: token.KindVector, want: token.Vector{Values: []float64{1, 2}}},
		{name: "matrix", in: [][]int{{1, 2}, {3, 4}}, hint: token.KindMatrix, want: token.NewMatrix([][]float64{{1, 2}, {3, 4}})},
		{name: "range", in: []int{1, 5, 2}, hint: token.KindRange, want: token.Range{Start: 1, End: 5, Step: 2, Members: []float64{1, 3, 5}}},
		{name: "set", in: []string{"a"}, hint: token.KindSet, want: token.Set{Items: []token.Token{token.String{Value: "a"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jme.WrapValue(tt.in, tt.hint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrapValue_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   any
		hint token.Kind
	}{
		{name: "nil", in: nil},
		{name: "map", in: map[string]int{}},
		{name: "vector of strings", in: []string{"a"}, hint: token.KindVector},
		{name: "matrix row not a list", in: []int{1}, hint: token.KindMatrix},
		{name: "short range", in: []int{1, 2}, hint: token.KindRange},
		{name: "oversized range", in: []float64{0, 1e12, 1}, hint: token.KindRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := jme.WrapValue(tt.in, tt.hint)
			assert.Error(t, err)
		})
	}
}

func TestUnwrapValue(t *testing.T) {
	tests := []struct {
		name string
		in   token.Token
		want any
	}{
		{name: "real", in: token.NewReal(2), want: 2.0},
		{name: "complex", in: token.NewComplexNumber(1 + 2i), want: 1 + 2i},
		{name: "string", in: token.String{Value: "s"}, want: "s"},
		{name: "bool", in: token.Bool{Value: false}, want: false},
		{name: "list", in: token.NewList(token.NewReal(1), token.Bool{Value: true}), want: []any{1.0, true}},
		{name: "vector", in: token.Vector{Values: []float64{1, 2}}, want: []float64{1, 2}},
		{name: "matrix", in: token.NewMatrix([][]float64{{1}, {2}}), want: [][]float64{{1}, {2}}},
		{name: "range", in: token.Range{Start: 0, End: 10, Step: 5, Members: []float64{0, 5, 10}}, want: []float64{0, 10, 5}},
		{name: "name", in: token.Name{Name: "x"}, want: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jme.UnwrapValue(tt.in))
		})
	}
}

func TestHostFunc(t *testing.T) {
	reg := testRegistry()
	reg.Register(jme.HostFunc("hypot2", jme.Params("number", "number"), token.KindNumber, func(args ...any) (any, error) {
		a, b := args[0].(float64), args[1].(float64)
		return a*a + b*b, nil
	}))
	reg.Register(jme.HostFunc("pair", jme.Params("?"), token.KindVector, func(args ...any) (any, error) {
		return []any{args[0], args[0]}, nil
	}))
	reg.Register(jme.HostFunc("fail", nil, jme.Any, func(...any) (any, error) {
		return nil, errors.New("boom")
	}))
	s := reg.Scope()

	got, err := s.Evaluate("hypot2(3, 4)", nil)
	require.NoError(t, err)
	assert.Equal(t, token.NewReal(25), got)

	got, err = s.Evaluate("pair(2)", nil)
	require.NoError(t, err)
	assert.Equal(t, token.Vector{Values: []float64{2, 2}}, got)

	_, err = s.Evaluate("fail()", nil)
	var rerr *jme.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "fail", rerr.Func)
	assert.Equal(t, "boom", rerr.Msg)
}
