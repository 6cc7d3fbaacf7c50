package builtins

import (
	"math"

	"github.com/samber/lo"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

// Vectors and matrices hold real numbers. Element-wise operations on
// operands of different sizes pad the smaller one with zeroes.

func vectorOf(t token.Token) []float64 { return t.(token.Vector).Values }
func matrixOf(t token.Token) token.Matrix { return t.(token.Matrix) }

func padded(v []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, v)
	return out
}

func vecZip(a, b []float64, f func(x, y float64) float64) token.Vector {
	n := max(len(a), len(b))
	a, b = padded(a, n), padded(b, n)
	out := make([]float64, n)
	for i := range out {
		out[i] = f(a[i], b[i])
	}
	return token.Vector{Values: out}
}

func vecMap(v []float64, f func(float64) float64) token.Vector {
	return token.Vector{Values: lo.Map(v, func(x float64, _ int) float64 { return f(x) })}
}

func matZip(a, b token.Matrix, f func(x, y float64) float64) token.Matrix {
	rows, cols := max(a.Rows, b.Rows), max(a.Cols, b.Cols)
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		for j := range out[i] {
			out[i][j] = f(cell(a, i, j), cell(b, i, j))
		}
	}
	return token.NewMatrix(out)
}

func cell(m token.Matrix, i, j int) float64 {
	if i < len(m.Values) && j < len(m.Values[i]) {
		return m.Values[i][j]
	}
	return 0
}

func matMap(m token.Matrix, f func(float64) float64) token.Matrix {
	return token.NewMatrix(lo.Map(m.Values, func(row []float64, _ int) []float64 {
		return lo.Map(row, func(x float64, _ int) float64 { return f(x) })
	}))
}

func matMul(a, b token.Matrix) (token.Matrix, error) {
	if a.Cols != b.Rows {
		return token.Matrix{}, jme.NewTypeError("*", "cannot multiply a %dx%d matrix by a %dx%d matrix", a.Rows, a.Cols, b.Rows, b.Cols)
	}
	out := make([][]float64, a.Rows)
	for i := range out {
		out[i] = make([]float64, b.Cols)
		for j := range out[i] {
			for k := 0; k < a.Cols; k++ {
				out[i][j] += a.Values[i][k] * b.Values[k][j]
			}
		}
	}
	return token.NewMatrix(out), nil
}

func matVec(m token.Matrix, v []float64) (token.Vector, error) {
	if m.Cols != len(v) {
		return token.Vector{}, jme.NewTypeError("*", "cannot multiply a %dx%d matrix by a vector of length %d", m.Rows, m.Cols, len(v))
	}
	out := make([]float64, m.Rows)
	for i := range out {
		for j, x := range v {
			out[i] += m.Values[i][j] * x
		}
	}
	return token.Vector{Values: out}, nil
}

// asVector reads a vector, or a matrix with a single row or column.
func asVector(fn string, t token.Token) ([]float64, error) {
	switch v := t.(type) {
	case token.Vector:
		return v.Values, nil
	case token.Matrix:
		switch {
		case v.Rows == 1:
			return v.Values[0], nil
		case v.Cols == 1:
			return lo.Map(v.Values, func(row []float64, _ int) float64 { return row[0] }), nil
		}
		return nil, jme.NewTypeError(fn, "a %dx%d matrix is not a vector", v.Rows, v.Cols)
	default:
		return nil, jme.NewTypeError(fn, "%s is not a vector", t.Kind())
	}
}

func dot(a, b []float64) float64 {
	n := max(len(a), len(b))
	a, b = padded(a, n), padded(b, n)
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func cross(a, b []float64) ([]float64, error) {
	if len(a) != 3 || len(b) != 3 {
		return nil, jme.NewTypeError("cross", "cross product needs two vectors of length 3")
	}
	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}, nil
}

// det computes the determinant by Gaussian elimination with partial
// pivoting.
func det(m token.Matrix) (float64, error) {
	if m.Rows != m.Cols {
		return 0, jme.NewTypeError("det", "determinant of a non-square %dx%d matrix", m.Rows, m.Cols)
	}
	n := m.Rows
	a := make([][]float64, n)
	for i := range a {
		a[i] = append([]float64(nil), m.Values[i]...)
	}
	d := 1.0
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if a[pivot][col] == 0 {
			return 0, nil
		}
		if pivot != col {
			a[pivot], a[col] = a[col], a[pivot]
			d = -d
		}
		d *= a[col][col]
		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}
	return d, nil
}

func transpose(m token.Matrix) token.Matrix {
	out := make([][]float64, m.Cols)
	for j := range out {
		out[j] = make([]float64, m.Rows)
		for i := range m.Values {
			out[j][i] = m.Values[i][j]
		}
	}
	return token.Matrix{Rows: m.Cols, Cols: m.Rows, Values: out}
}

func identity(n int) token.Matrix {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		rows[i][i] = 1
	}
	return token.NewMatrix(rows)
}

// matrixRows reads the rows of a matrix literal: each item is a number (a
// one-element row), a vector or a list of numbers.
func matrixRows(items []token.Token) ([][]float64, error) {
	rows := make([][]float64, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case token.Number:
			f, err := realOnly("matrix", v)
			if err != nil {
				return nil, err
			}
			rows[i] = []float64{f}
		case token.Vector:
			rows[i] = append([]float64(nil), v.Values...)
		case token.List:
			row, err := reals("matrix", v.Items)
			if err != nil {
				return nil, err
			}
			rows[i] = row
		default:
			return nil, jme.NewTypeError("matrix", "a row cannot be a %s", item.Kind())
		}
	}
	return rows, nil
}

// reals reads a list of real numbers.
func reals(fn string, items []token.Token) ([]float64, error) {
	out := make([]float64, len(items))
	for i, item := range items {
		if _, ok := item.(token.Number); !ok {
			return nil, jme.NewTypeError(fn, "%s is not a number", token.RenderToken(item))
		}
		f, err := realOnly(fn, item)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func registerLinearAlgebra(c catalog) {
	c.fn("vector", []string{"*" + tNum}, token.KindVector, func(_ jme.Env, args []token.Token) (token.Token, error) {
		v, err := reals("vector", args)
		return token.Vector{Values: v}, err
	})
	c.fn("vector", []string{tList}, token.KindVector, func(_ jme.Env, args []token.Token) (token.Token, error) {
		v, err := reals("vector", args[0].(token.List).Items)
		return token.Vector{Values: v}, err
	})
	c.fn("matrix", []string{tList}, token.KindMatrix, func(_ jme.Env, args []token.Token) (token.Token, error) {
		items := args[0].(token.List).Items
		if len(items) > 0 {
			if _, ok := items[0].(token.Number); ok {
				row, err := reals("matrix", items)
				if err != nil {
					return nil, err
				}
				return token.NewMatrix([][]float64{row}), nil
			}
		}
		rows, err := matrixRows(items)
		if err != nil {
			return nil, err
		}
		return token.NewMatrix(rows), nil
	})
	c.fn("matrix", []string{"*" + tList}, token.KindMatrix, func(_ jme.Env, args []token.Token) (token.Token, error) {
		rows, err := matrixRows(args)
		if err != nil {
			return nil, err
		}
		return token.NewMatrix(rows), nil
	})
	c.fn("rowvector", []string{"*" + tNum}, token.KindMatrix, func(_ jme.Env, args []token.Token) (token.Token, error) {
		row, err := reals("rowvector", args)
		if err != nil {
			return nil, err
		}
		return token.NewMatrix([][]float64{row}), nil
	})
	c.fn("rowvector", []string{tList}, token.KindMatrix, func(_ jme.Env, args []token.Token) (token.Token, error) {
		row, err := reals("rowvector", args[0].(token.List).Items)
		if err != nil {
			return nil, err
		}
		return token.NewMatrix([][]float64{row}), nil
	})

	vectorish := func(args []token.Token) bool {
		if len(args) != 2 {
			return false
		}
		for _, a := range args {
			if k := a.Kind(); k != token.KindVector && k != token.KindMatrix {
				return false
			}
		}
		return true
	}
	c.check("dot", vectorish, token.KindNumber, func(_ jme.Env, args []token.Token) (token.Token, error) {
		a, err := asVector("dot", args[0])
		if err != nil {
			return nil, err
		}
		b, err := asVector("dot", args[1])
		if err != nil {
			return nil, err
		}
		return realNum(dot(a, b)), nil
	})
	c.check("cross", vectorish, token.KindVector, func(_ jme.Env, args []token.Token) (token.Token, error) {
		a, err := asVector("cross", args[0])
		if err != nil {
			return nil, err
		}
		b, err := asVector("cross", args[1])
		if err != nil {
			return nil, err
		}
		v, err := cross(a, b)
		return token.Vector{Values: v}, err
	})
	c.fn("det", []string{tMat}, token.KindNumber, func(_ jme.Env, args []token.Token) (token.Token, error) {
		d, err := det(matrixOf(args[0]))
		return realNum(d), err
	})
	c.fn("transpose", []string{tVec}, token.KindMatrix, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.NewMatrix([][]float64{append([]float64(nil), vectorOf(args[0])...)}), nil
	})
	c.fn("transpose", []string{tMat}, token.KindMatrix, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return transpose(matrixOf(args[0])), nil
	})
	c.fn("id", []string{tNum}, token.KindMatrix, func(_ jme.Env, args []token.Token) (token.Token, error) {
		n, err := countArg("id", args[0])
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, jme.NewRuntimeError("id", "size must not be negative")
		}
		if n*n > maxItems {
			return nil, jme.NewRuntimeError("id", "size %d makes more than %d items", n, maxItems)
		}
		return identity(n), nil
	})
	c.fn("list", []string{tVec}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.NewList(lo.Map(vectorOf(args[0]), func(x float64, _ int) token.Token { return realNum(x) })...), nil
	})
	c.fn("list", []string{tMat}, token.KindList, func(_ jme.Env, args []token.Token) (token.Token, error) {
		return token.NewList(lo.Map(matrixOf(args[0]).Values, func(row []float64, _ int) token.Token {
			return token.NewList(lo.Map(row, func(x float64, _ int) token.Token { return realNum(x) })...)
		})...), nil
	})
}
