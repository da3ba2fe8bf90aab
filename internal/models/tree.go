package models

import (
    "errors"
    "math"
    "sort"
)

type TreeNode struct {
    Feature   int
    Threshold float64
    Left      *TreeNode
    Right     *TreeNode
    IsLeaf    bool
    Value     float64
}

// RegressionTree grows a CART-style regression tree minimizing within-node
// squared error. Candidate thresholds are taken at deterministic quantiles so
// identical inputs always grow identical trees.
type RegressionTree struct {
    MaxDepth        int
    MinSamplesSplit int
    MaxThresholds   int
}

func NewRegressionTree() *RegressionTree {
    return &RegressionTree{MaxDepth: 6, MinSamplesSplit: 10, MaxThresholds: 32}
}

func (t *RegressionTree) Name() string { return "Tree" }

func (t *RegressionTree) Fit(X [][]float64, y []float64) (Predictor, error) {
    if len(X) == 0 { return nil, errors.New("tree: empty training sample") }
    if len(X) != len(y) { return nil, errors.New("tree: feature/outcome length mismatch") }
    idx := make([]int, len(X))
    for i := range idx { idx[i] = i }
    return &TreeModel{Root: t.build(X, y, idx, 0)}, nil
}

type TreeModel struct {
    Root *TreeNode
}

func (m *TreeModel) Predict(X [][]float64) ([]float64, error) {
    if m.Root == nil { return nil, errors.New("tree: model not fitted") }
    out := make([]float64, len(X))
    for i := range X {
        n := m.Root
        for !n.IsLeaf {
            if X[i][n.Feature] <= n.Threshold { n = n.Left } else { n = n.Right }
        }
        out[i] = n.Value
    }
    return out, nil
}

func (t *RegressionTree) build(X [][]float64, y []float64, idx []int, depth int) *TreeNode {
    mean := subsetMean(y, idx)
    if len(idx) < t.MinSamplesSplit || depth >= t.MaxDepth {
        return &TreeNode{IsLeaf: true, Value: mean}
    }

    bestFeature := -1
    bestThr := 0.0
    bestSSE := math.MaxFloat64
    var leftBest, rightBest []int

    nFeats := len(X[idx[0]])
    for f := 0; f < nFeats; f++ {
        for _, thr := range quantileThresholds(X, idx, f, t.MaxThresholds) {
            l, r := partition(X, idx, f, thr)
            if len(l) == 0 || len(r) == 0 { continue }
            sse := subsetSSE(y, l) + subsetSSE(y, r)
            if sse < bestSSE {
                bestSSE = sse
                bestFeature = f
                bestThr = thr
                leftBest, rightBest = l, r
            }
        }
    }
    if bestFeature == -1 {
        return &TreeNode{IsLeaf: true, Value: mean}
    }
    return &TreeNode{
        Feature:   bestFeature,
        Threshold: bestThr,
        Left:      t.build(X, y, leftBest, depth+1),
        Right:     t.build(X, y, rightBest, depth+1),
    }
}

func partition(X [][]float64, idx []int, f int, thr float64) ([]int, []int) {
    l := make([]int, 0, len(idx))
    r := make([]int, 0, len(idx))
    for _, i := range idx {
        if X[i][f] <= thr { l = append(l, i) } else { r = append(r, i) }
    }
    return l, r
}

func subsetMean(y []float64, idx []int) float64 {
    if len(idx) == 0 { return 0 }
    s := 0.0
    for _, i := range idx { s += y[i] }
    return s / float64(len(idx))
}

func subsetSSE(y []float64, idx []int) float64 {
    m := subsetMean(y, idx)
    s := 0.0
    for _, i := range idx {
        d := y[i] - m
        s += d * d
    }
    return s
}

// quantileThresholds returns up to maxC candidate split points taken at evenly
// spaced quantiles of the feature values in idx, deduplicated.
func quantileThresholds(X [][]float64, idx []int, f int, maxC int) []float64 {
    if maxC <= 0 { maxC = 16 }
    vals := make([]float64, len(idx))
    for j, i := range idx { vals[j] = X[i][f] }
    sort.Float64s(vals)
    n := len(vals)
    out := make([]float64, 0, maxC)
    for k := 1; k < maxC; k++ {
        pos := int(math.Round(float64(k) / float64(maxC) * float64(n-1)))
        if pos <= 0 || pos >= n { continue }
        thr := vals[pos]
        if len(out) == 0 || thr != out[len(out)-1] { out = append(out, thr) }
    }
    if len(out) == 0 && n > 1 && vals[0] != vals[n-1] {
        out = append(out, (vals[0]+vals[n-1])/2)
    }
    return out
}
