package models

import (
    "errors"
    "fmt"

    "gonum.org/v1/gonum/mat"
)

// LinearRegression fits ordinary least squares with an intercept.
type LinearRegression struct{}

func NewLinearRegression() *LinearRegression { return &LinearRegression{} }

func (l *LinearRegression) Name() string { return "Linear" }

func (l *LinearRegression) Fit(X [][]float64, y []float64) (Predictor, error) {
    A, b, err := designMatrix(X, y)
    if err != nil { return nil, err }
    var w mat.VecDense
    if err := w.SolveVec(A, b); err != nil {
        return nil, fmt.Errorf("linear: solve least squares: %w", err)
    }
    return linearModelFromVec(&w), nil
}

// Ridge fits L2-regularized least squares via the normal equations. The
// intercept is not penalized.
type Ridge struct {
    Lambda float64
}

func NewRidge(lambda float64) *Ridge { return &Ridge{Lambda: lambda} }

func (r *Ridge) Name() string { return "Ridge" }

func (r *Ridge) Fit(X [][]float64, y []float64) (Predictor, error) {
    if r.Lambda < 0 { return nil, errors.New("ridge: negative lambda") }
    A, b, err := designMatrix(X, y)
    if err != nil { return nil, err }
    p := A.RawMatrix().Cols

    var ata mat.Dense
    ata.Mul(A.T(), A)
    for j := 1; j < p; j++ {
        ata.Set(j, j, ata.At(j, j)+r.Lambda)
    }
    var aty mat.VecDense
    aty.MulVec(A.T(), b)

    var w mat.VecDense
    if err := w.SolveVec(&ata, &aty); err != nil {
        return nil, fmt.Errorf("ridge: solve normal equations: %w", err)
    }
    return linearModelFromVec(&w), nil
}

// LinearModel is the fitted form shared by LinearRegression and Ridge.
type LinearModel struct {
    Intercept float64
    Weights   []float64
}

func (m *LinearModel) Predict(X [][]float64) ([]float64, error) {
    out := make([]float64, len(X))
    for i, row := range X {
        if len(row) != len(m.Weights) {
            return nil, fmt.Errorf("linear: row %d has %d features, model has %d", i, len(row), len(m.Weights))
        }
        s := m.Intercept
        for j, v := range row { s += m.Weights[j] * v }
        out[i] = s
    }
    return out, nil
}

func designMatrix(X [][]float64, y []float64) (*mat.Dense, *mat.VecDense, error) {
    n := len(X)
    if n == 0 { return nil, nil, errors.New("linear: empty training sample") }
    if len(y) != n { return nil, nil, fmt.Errorf("linear: %d rows, %d outcomes", n, len(y)) }
    p := len(X[0])
    A := mat.NewDense(n, p+1, nil)
    for i := 0; i < n; i++ {
        if len(X[i]) != p {
            return nil, nil, fmt.Errorf("linear: row %d has %d features, row 0 has %d", i, len(X[i]), p)
        }
        A.Set(i, 0, 1)
        for j := 0; j < p; j++ { A.Set(i, j+1, X[i][j]) }
    }
    return A, mat.NewVecDense(n, append([]float64{}, y...)), nil
}

func linearModelFromVec(w *mat.VecDense) *LinearModel {
    weights := make([]float64, w.Len()-1)
    for j := range weights { weights[j] = w.AtVec(j + 1) }
    return &LinearModel{Intercept: w.AtVec(0), Weights: weights}
}
