// Package ensemble implements bootstrap aggregation over an arbitrary base
// learner: each replicate resamples the training rows with replacement, fits a
// fresh model, and predicts a fixed evaluation set; the per-row mean of those
// predictions is the ensemble prediction and the per-row sample variance is
// its dispersion estimate.
package ensemble

import (
    "context"
    "fmt"
    "math/rand"

    "golang.org/x/sync/errgroup"
    "gonum.org/v1/gonum/mat"
    "gonum.org/v1/gonum/stat"

    "github.com/joevus/mlforsocialscience/internal/dataset"
    "github.com/joevus/mlforsocialscience/internal/models"
)

// DefaultReplicates matches the count used throughout the lessons.
const DefaultReplicates = 100

type Options struct {
    Replicates int
    Seed       int64
    // Workers bounds how many replicates fit concurrently; <= 1 runs
    // sequentially. Results are identical either way.
    Workers int
}

// Result is owned by the caller once returned; the package keeps no reference.
type Result struct {
    // Mean holds the ensemble point prediction per evaluation row.
    Mean []float64
    // Variance holds the sample variance across replicates per evaluation
    // row (zero when Replicates == 1).
    Variance []float64
    // Predictions has one row per evaluation row and one column per
    // replicate.
    Predictions *mat.Dense
}

// Run draws opts.Replicates bootstrap resamples of train, fits learner on
// each, predicts eval with each fitted model, and aggregates. Replicate i's
// resampling stream depends only on (opts.Seed, i), so the prediction matrix
// is identical regardless of worker count or completion order.
func Run(train, eval *dataset.Table, learner models.Learner, opts Options) (*Result, error) {
    if opts.Replicates <= 0 {
        return nil, fmt.Errorf("%w: got %d", ErrBadReplicates, opts.Replicates)
    }
    if train == nil || train.Len() == 0 { return nil, ErrNoTrainingData }
    if eval == nil || eval.Len() == 0 { return nil, ErrNoEvalData }

    rows := eval.Len()
    preds := mat.NewDense(rows, opts.Replicates, nil)

    g, ctx := errgroup.WithContext(context.Background())
    g.SetLimit(workerLimit(opts.Workers))
    for i := 0; i < opts.Replicates; i++ {
        i := i // per-iteration copy: module builds with go < 1.22 loop semantics
        g.Go(func() error {
            if err := ctx.Err(); err != nil { return err }
            fitted, err := fitReplicate(train, learner, replicateSeed(opts.Seed, i))
            if err != nil { return &ReplicateError{Index: i, Err: err} }
            col, err := fitted.Predict(eval.X)
            if err != nil {
                return &ReplicateError{Index: i, Err: fmt.Errorf("predict: %w", err)}
            }
            if len(col) != rows {
                return &ReplicateError{Index: i, Err: fmt.Errorf("predict returned %d values for %d evaluation rows", len(col), rows)}
            }
            // Writes are partitioned by column, one column per replicate.
            preds.SetCol(i, col)
            return nil
        })
    }
    if err := g.Wait(); err != nil { return nil, err }

    mean, variance := reduceRows(preds)
    return &Result{Mean: mean, Variance: variance, Predictions: preds}, nil
}

// Ensemble retains the fitted replicate models so new observations can be
// scored after training, the way the lessons' saved models are served.
type Ensemble struct {
    LearnerName string
    Features    []string
    Seed        int64
    Models      []models.Predictor
}

// Fit performs the bootstrap fitting half of Run and keeps the fitted models.
func Fit(train *dataset.Table, learner models.Learner, opts Options) (*Ensemble, error) {
    if opts.Replicates <= 0 {
        return nil, fmt.Errorf("%w: got %d", ErrBadReplicates, opts.Replicates)
    }
    if train == nil || train.Len() == 0 { return nil, ErrNoTrainingData }

    fitted := make([]models.Predictor, opts.Replicates)
    g, ctx := errgroup.WithContext(context.Background())
    g.SetLimit(workerLimit(opts.Workers))
    for i := 0; i < opts.Replicates; i++ {
        i := i // per-iteration copy: module builds with go < 1.22 loop semantics
        g.Go(func() error {
            if err := ctx.Err(); err != nil { return err }
            m, err := fitReplicate(train, learner, replicateSeed(opts.Seed, i))
            if err != nil { return &ReplicateError{Index: i, Err: err} }
            fitted[i] = m
            return nil
        })
    }
    if err := g.Wait(); err != nil { return nil, err }
    return &Ensemble{LearnerName: learner.Name(), Features: train.FeatureNames, Seed: opts.Seed, Models: fitted}, nil
}

// Predict scores X with every retained model and returns the per-row mean and
// sample variance.
func (e *Ensemble) Predict(X [][]float64) (mean, variance []float64, err error) {
    if len(e.Models) == 0 { return nil, nil, fmt.Errorf("%w: got 0", ErrBadReplicates) }
    if len(X) == 0 { return nil, nil, ErrNoEvalData }
    preds := mat.NewDense(len(X), len(e.Models), nil)
    for i, m := range e.Models {
        col, err := m.Predict(X)
        if err != nil { return nil, nil, &ReplicateError{Index: i, Err: fmt.Errorf("predict: %w", err)} }
        if len(col) != len(X) {
            return nil, nil, &ReplicateError{Index: i, Err: fmt.Errorf("predict returned %d values for %d rows", len(col), len(X))}
        }
        preds.SetCol(i, col)
    }
    mean, variance = reduceRows(preds)
    return mean, variance, nil
}

func fitReplicate(train *dataset.Table, learner models.Learner, seed int64) (models.Predictor, error) {
    rng := rand.New(rand.NewSource(seed))
    n := train.Len()
    idx := make([]int, n)
    for i := range idx { idx[i] = rng.Intn(n) }
    boot := train.Select(idx)
    fitted, err := learner.Fit(boot.X, boot.Y)
    if err != nil { return nil, fmt.Errorf("fit: %w", err) }
    return fitted, nil
}

// replicateSeed derives replicate i's stream from the run seed with an odd
// 64-bit stride, so each replicate is reproducible in isolation.
func replicateSeed(seed int64, i int) int64 {
    return int64(uint64(seed) + uint64(i+1)*0x9E3779B97F4A7C15)
}

func workerLimit(w int) int {
    if w <= 1 { return 1 }
    return w
}

func reduceRows(preds *mat.Dense) (mean, variance []float64) {
    rows, cols := preds.Dims()
    mean = make([]float64, rows)
    variance = make([]float64, rows)
    buf := make([]float64, cols)
    for r := 0; r < rows; r++ {
        mat.Row(buf, r, preds)
        if cols == 1 {
            mean[r] = buf[0]
            continue
        }
        mean[r], variance[r] = stat.MeanVariance(buf, nil)
    }
    return mean, variance
}
