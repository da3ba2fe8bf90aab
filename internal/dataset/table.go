package dataset

import (
    "errors"
    "fmt"
)

// Table is an ordered sequence of rows over a fixed feature schema, with one
// designated numeric outcome column. Y may be nil for evaluation-only tables.
type Table struct {
    FeatureNames []string
    Outcome      string
    X            [][]float64
    Y            []float64
}

func New(featureNames []string, outcome string, X [][]float64, y []float64) (*Table, error) {
    for i := range X {
        if len(X[i]) != len(featureNames) {
            return nil, fmt.Errorf("row %d has %d values, schema has %d features", i, len(X[i]), len(featureNames))
        }
    }
    if y != nil && len(y) != len(X) {
        return nil, fmt.Errorf("outcome has %d values for %d rows", len(y), len(X))
    }
    return &Table{FeatureNames: featureNames, Outcome: outcome, X: X, Y: y}, nil
}

func (t *Table) Len() int { return len(t.X) }

func (t *Table) NumFeatures() int { return len(t.FeatureNames) }

// Select returns a new table holding the rows at idx, in order. Indices may
// repeat, which is how bootstrap resamples are materialized.
func (t *Table) Select(idx []int) *Table {
    X := make([][]float64, len(idx))
    var y []float64
    if t.Y != nil { y = make([]float64, len(idx)) }
    for j, i := range idx {
        X[j] = t.X[i]
        if y != nil { y[j] = t.Y[i] }
    }
    return &Table{FeatureNames: t.FeatureNames, Outcome: t.Outcome, X: X, Y: y}
}

// WithoutOutcome returns a view of the table with the outcome dropped, for use
// as an evaluation feature set.
func (t *Table) WithoutOutcome() *Table {
    return &Table{FeatureNames: t.FeatureNames, Outcome: "", X: t.X}
}

var ErrNoOutcome = errors.New("dataset: table has no outcome column")

// OutcomeMean is the average of the outcome column.
func (t *Table) OutcomeMean() (float64, error) {
    if t.Y == nil || len(t.Y) == 0 { return 0, ErrNoOutcome }
    sum := 0.0
    for _, v := range t.Y { sum += v }
    return sum / float64(len(t.Y)), nil
}
