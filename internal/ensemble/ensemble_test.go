package ensemble

import (
    "errors"
    "math"
    "path/filepath"
    "sync/atomic"
    "testing"

    "github.com/joevus/mlforsocialscience/internal/dataset"
    "github.com/joevus/mlforsocialscience/internal/models"
)

func tenRowTable(t *testing.T) *dataset.Table {
    t.Helper()
    X := make([][]float64, 10)
    y := make([]float64, 10)
    for i := range X {
        X[i] = []float64{float64(i), float64(i % 3)}
        y[i] = float64(i + 1) // outcomes 1..10, population mean 5.5
    }
    tbl, err := dataset.New([]string{"a", "b"}, "y", X, y)
    if err != nil { t.Fatalf("build table: %v", err) }
    return tbl
}

func evalTable(t *testing.T, rows int) *dataset.Table {
    t.Helper()
    X := make([][]float64, rows)
    for i := range X { X[i] = []float64{float64(i), 0} }
    tbl, err := dataset.New([]string{"a", "b"}, "", X, nil)
    if err != nil { t.Fatalf("build eval table: %v", err) }
    return tbl
}

// countingLearner counts Fit calls so tests can assert the learner was never
// invoked on invalid arguments.
type countingLearner struct {
    inner models.Learner
    fits  atomic.Int64
}

func (c *countingLearner) Name() string { return "counting" }
func (c *countingLearner) Fit(X [][]float64, y []float64) (models.Predictor, error) {
    c.fits.Add(1)
    return c.inner.Fit(X, y)
}

// failingLearner fails on its nth Fit call.
type failingLearner struct {
    failOn int64
    calls  atomic.Int64
}

var errBoom = errors.New("no convergence")

func (f *failingLearner) Name() string { return "failing" }
func (f *failingLearner) Fit(X [][]float64, y []float64) (models.Predictor, error) {
    if f.calls.Add(1) == f.failOn { return nil, errBoom }
    return &models.MeanModel{Value: 0}, nil
}

func TestRunSingleReplicateEqualsItsColumn(t *testing.T) {
    train := tenRowTable(t)
    eval := evalTable(t, 4)
    res, err := Run(train, eval, models.NewMeanLearner(), Options{Replicates: 1, Seed: 7})
    if err != nil { t.Fatalf("run: %v", err) }

    rows, cols := res.Predictions.Dims()
    if rows != 4 || cols != 1 {
        t.Fatalf("prediction matrix is %dx%d, want 4x1", rows, cols)
    }
    for i := range res.Mean {
        if res.Mean[i] != res.Predictions.At(i, 0) {
            t.Errorf("row %d: mean %v != single prediction %v", i, res.Mean[i], res.Predictions.At(i, 0))
        }
        if res.Variance[i] != 0 {
            t.Errorf("row %d: variance %v, want 0 for a single replicate", i, res.Variance[i])
        }
    }
}

func TestRunDeterministicAcrossRunsAndWorkers(t *testing.T) {
    train := tenRowTable(t)
    eval := evalTable(t, 5)
    opts := Options{Replicates: 40, Seed: 99}

    first, err := Run(train, eval, models.NewMeanLearner(), opts)
    if err != nil { t.Fatalf("first run: %v", err) }
    second, err := Run(train, eval, models.NewMeanLearner(), opts)
    if err != nil { t.Fatalf("second run: %v", err) }
    opts.Workers = 4
    parallel, err := Run(train, eval, models.NewMeanLearner(), opts)
    if err != nil { t.Fatalf("parallel run: %v", err) }

    a := first.Predictions.RawMatrix().Data
    b := second.Predictions.RawMatrix().Data
    c := parallel.Predictions.RawMatrix().Data
    for i := range a {
        if a[i] != b[i] {
            t.Fatalf("element %d differs between identical runs: %v vs %v", i, a[i], b[i])
        }
        if a[i] != c[i] {
            t.Fatalf("element %d differs between sequential and parallel runs: %v vs %v", i, a[i], c[i])
        }
    }
}

func TestRunMeanLearnerRecoversPopulationMean(t *testing.T) {
    train := tenRowTable(t)
    eval := evalTable(t, 3)
    res, err := Run(train, eval, models.NewMeanLearner(), Options{Replicates: 50, Seed: 11})
    if err != nil { t.Fatalf("run: %v", err) }

    rows, cols := res.Predictions.Dims()
    if rows != 3 || cols != 50 {
        t.Fatalf("prediction matrix is %dx%d, want 3x50", rows, cols)
    }
    for i, m := range res.Mean {
        if math.Abs(m-5.5) > 0.5 {
            t.Errorf("row %d: ensemble mean %v too far from population mean 5.5", i, m)
        }
    }
}

func TestRunEnsembleMeanStableAcrossReplicateCounts(t *testing.T) {
    train := tenRowTable(t)
    eval := evalTable(t, 1)
    avgFor := func(replicates int) float64 {
        sum := 0.0
        const seeds = 30
        for s := int64(0); s < seeds; s++ {
            res, err := Run(train, eval, models.NewMeanLearner(), Options{Replicates: replicates, Seed: s})
            if err != nil { t.Fatalf("run with %d replicates: %v", replicates, err) }
            sum += res.Mean[0]
        }
        return sum / seeds
    }
    small, large := avgFor(5), avgFor(50)
    if math.Abs(small-large) > 0.3 {
        t.Errorf("expected ensemble mean independent of replicate count: %v vs %v", small, large)
    }
}

func TestRunRejectsNonPositiveReplicates(t *testing.T) {
    train := tenRowTable(t)
    eval := evalTable(t, 2)
    learner := &countingLearner{inner: models.NewMeanLearner()}

    _, err := Run(train, eval, learner, Options{Replicates: 0, Seed: 1})
    if !errors.Is(err, ErrBadReplicates) {
        t.Fatalf("got %v, want ErrBadReplicates", err)
    }
    if n := learner.fits.Load(); n != 0 {
        t.Errorf("learner was fitted %d times on invalid arguments", n)
    }
}

func TestRunRejectsEmptyTrainingSet(t *testing.T) {
    empty, err := dataset.New([]string{"a", "b"}, "y", nil, nil)
    if err != nil { t.Fatalf("build empty table: %v", err) }
    learner := &countingLearner{inner: models.NewMeanLearner()}

    _, err = Run(empty, evalTable(t, 2), learner, Options{Replicates: 10, Seed: 1})
    if !errors.Is(err, ErrNoTrainingData) {
        t.Fatalf("got %v, want ErrNoTrainingData", err)
    }
    if n := learner.fits.Load(); n != 0 {
        t.Errorf("learner was fitted %d times on an empty training set", n)
    }
}

func TestRunAbortsOnReplicateFailure(t *testing.T) {
    train := tenRowTable(t)
    eval := evalTable(t, 2)
    // Sequential execution, so the 8th fit is replicate index 7.
    learner := &failingLearner{failOn: 8}

    res, err := Run(train, eval, learner, Options{Replicates: 20, Seed: 3})
    if res != nil {
        t.Fatalf("got a partial result %+v after a replicate failure", res)
    }
    var re *ReplicateError
    if !errors.As(err, &re) {
        t.Fatalf("got %v, want *ReplicateError", err)
    }
    if re.Index != 7 {
        t.Errorf("failure reported for replicate %d, want 7", re.Index)
    }
    if !errors.Is(err, errBoom) {
        t.Errorf("replicate error does not wrap the underlying cause: %v", err)
    }
}

func TestFitPredictMatchesRun(t *testing.T) {
    train := tenRowTable(t)
    eval := evalTable(t, 4)
    opts := Options{Replicates: 25, Seed: 5}

    res, err := Run(train, eval, models.NewMeanLearner(), opts)
    if err != nil { t.Fatalf("run: %v", err) }
    ens, err := Fit(train, models.NewMeanLearner(), opts)
    if err != nil { t.Fatalf("fit: %v", err) }
    mean, variance, err := ens.Predict(eval.X)
    if err != nil { t.Fatalf("predict: %v", err) }

    for i := range mean {
        if mean[i] != res.Mean[i] {
            t.Errorf("row %d: Fit+Predict mean %v != Run mean %v", i, mean[i], res.Mean[i])
        }
        if variance[i] != res.Variance[i] {
            t.Errorf("row %d: Fit+Predict variance %v != Run variance %v", i, variance[i], res.Variance[i])
        }
    }
    if len(ens.Features) != 2 || ens.Features[0] != "a" {
        t.Errorf("ensemble did not retain the feature schema: %v", ens.Features)
    }
}

func TestSaveLoadRoundTrip(t *testing.T) {
    train := tenRowTable(t)
    ens, err := Fit(train, models.NewRegressionTree(), Options{Replicates: 5, Seed: 2})
    if err != nil { t.Fatalf("fit: %v", err) }

    path := filepath.Join(t.TempDir(), "ens.gob")
    if err := ens.Save(path); err != nil { t.Fatalf("save: %v", err) }
    back, err := Load(path)
    if err != nil { t.Fatalf("load: %v", err) }

    if back.LearnerName != ens.LearnerName || len(back.Models) != len(ens.Models) {
        t.Fatalf("loaded ensemble %q/%d, want %q/%d", back.LearnerName, len(back.Models), ens.LearnerName, len(ens.Models))
    }
    X := [][]float64{{4, 1}, {8, 2}}
    m1, v1, err := ens.Predict(X)
    if err != nil { t.Fatalf("predict original: %v", err) }
    m2, v2, err := back.Predict(X)
    if err != nil { t.Fatalf("predict loaded: %v", err) }
    for i := range m1 {
        if m1[i] != m2[i] || v1[i] != v2[i] {
            t.Errorf("row %d: loaded ensemble predicts (%v,%v), original (%v,%v)", i, m2[i], v2[i], m1[i], v1[i])
        }
    }
}

func TestReplicateSeedIndependentOfOrder(t *testing.T) {
    s1 := replicateSeed(42, 3)
    s2 := replicateSeed(42, 3)
    if s1 != s2 { t.Fatalf("same (seed,index) produced different sub-seeds") }
    if replicateSeed(42, 3) == replicateSeed(42, 4) {
        t.Fatalf("adjacent replicates share a sub-seed")
    }
    if replicateSeed(42, 3) == replicateSeed(43, 3) {
        t.Fatalf("different run seeds share a sub-seed")
    }
}
