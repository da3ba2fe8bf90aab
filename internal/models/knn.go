package models

import (
    "errors"
    "sort"
)

// KNNRegressor averages the outcomes of the K nearest training rows by
// Euclidean distance. Distance ties break on training-row order, keeping
// predictions deterministic.
type KNNRegressor struct {
    K int
}

func NewKNNRegressor(k int) *KNNRegressor { return &KNNRegressor{K: k} }

func (m *KNNRegressor) Name() string { return "KNN" }

func (m *KNNRegressor) Fit(X [][]float64, y []float64) (Predictor, error) {
    if m.K <= 0 { return nil, errors.New("knn: k must be positive") }
    if len(X) == 0 { return nil, errors.New("knn: empty training sample") }
    if len(X) != len(y) { return nil, errors.New("knn: feature/outcome length mismatch") }
    Xc := make([][]float64, len(X))
    for i := range X { Xc[i] = append([]float64{}, X[i]...) }
    return &KNNModel{K: m.K, X: Xc, Y: append([]float64{}, y...)}, nil
}

type KNNModel struct {
    K int
    X [][]float64
    Y []float64
}

func (m *KNNModel) Predict(X [][]float64) ([]float64, error) {
    k := m.K
    if k > len(m.X) { k = len(m.X) }
    out := make([]float64, len(X))
    type cand struct {
        d   float64
        idx int
    }
    for i, q := range X {
        cands := make([]cand, len(m.X))
        for j, row := range m.X {
            d := 0.0
            for f := range row {
                diff := row[f] - q[f]
                d += diff * diff
            }
            cands[j] = cand{d, j}
        }
        sort.Slice(cands, func(a, b int) bool {
            if cands[a].d != cands[b].d { return cands[a].d < cands[b].d }
            return cands[a].idx < cands[b].idx
        })
        s := 0.0
        for j := 0; j < k; j++ { s += m.Y[cands[j].idx] }
        out[i] = s / float64(k)
    }
    return out, nil
}
