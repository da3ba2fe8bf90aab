package main

import (
    "encoding/csv"
    "flag"
    "fmt"
    "math"
    "os"
    "path/filepath"
    "runtime"
    "strconv"

    "gonum.org/v1/plot"
    "gonum.org/v1/plot/plotter"
    "gonum.org/v1/plot/plotutil"
    "gonum.org/v1/plot/vg"

    "github.com/joevus/mlforsocialscience/internal/dataset"
    "github.com/joevus/mlforsocialscience/internal/ensemble"
    "github.com/joevus/mlforsocialscience/internal/lesson"
    "github.com/joevus/mlforsocialscience/internal/metrics"
)

// analyzer sweeps the training-set size and compares the bootstrap-ensemble
// holdout error against a single fit of the same base learner at each point.
func main() {
    learnerKind := flag.String("learner", "tree", "Base learner: mean|linear|ridge|tree|knn")
    replicates := flag.Int("replicates", ensemble.DefaultReplicates, "Bootstrap replicates per point")
    seed := flag.Int64("seed", 42, "Resampling seed")
    workers := flag.Int("workers", runtime.NumCPU(), "Concurrent replicate fits")
    maxDepth := flag.Int("max_depth", 6, "Tree depth limit")
    minSamples := flag.Int("min_samples", 10, "Minimum samples to split a tree node")
    k := flag.Int("k", 5, "Neighbours for knn")
    lambda := flag.Float64("lambda", 1.0, "Ridge penalty")
    points := flag.Int("points", 8, "Points on the curve")
    dataPath := flag.String("data", "data/housing.csv", "Dataset CSV")
    outcome := flag.String("outcome", "price", "Outcome column name")
    outImg := flag.String("out_img", "cmd/api/static/learning_curve.png", "PNG output")
    outCsv := flag.String("out_csv", "data/learning_curve.csv", "CSV output")
    flag.Parse()

    table, err := dataset.LoadCSV(*dataPath, *outcome)
    if err != nil { fmt.Println("Failed to load dataset:", err); return }
    train, test := dataset.Split(table, 0.8, *seed)

    spec := lesson.LearnerSpec{Kind: *learnerKind, Lambda: *lambda, MaxDepth: *maxDepth, MinSamples: *minSamples, K: *k}
    learner, err := spec.Build()
    if err != nil { fmt.Println("Failed to build learner:", err); return }

    sizes := make([]int, 0, *points)
    for i := 1; i <= *points; i++ {
        frac := float64(i) / float64(*points)
        s := int(math.Max(50, frac*float64(train.Len())))
        if s > train.Len() { s = train.Len() }
        sizes = append(sizes, s)
    }

    ensembleRMSE := make([]float64, len(sizes))
    singleRMSE := make([]float64, len(sizes))

    for i, s := range sizes {
        idx := make([]int, s)
        for j := range idx { idx[j] = j }
        sub := train.Select(idx)

        res, err := ensemble.Run(sub, test.WithoutOutcome(), learner,
            ensemble.Options{Replicates: *replicates, Seed: *seed, Workers: *workers})
        if err != nil { fmt.Println("Ensemble run failed:", err); return }
        ensembleRMSE[i] = metrics.RMSE(test.Y, res.Mean)

        single, err := learner.Fit(sub.X, sub.Y)
        if err != nil { fmt.Println("Single fit failed:", err); return }
        pred, err := single.Predict(test.X)
        if err != nil { fmt.Println("Single predict failed:", err); return }
        singleRMSE[i] = metrics.RMSE(test.Y, pred)

        fmt.Printf("%s | size=%d | ensemble_rmse=%.4f | single_rmse=%.4f | mean_var=%.4f\n",
            learner.Name(), s, ensembleRMSE[i], singleRMSE[i], metrics.MeanOf(res.Variance))
    }

    if err := writeCSV(*outCsv, sizes, ensembleRMSE, singleRMSE); err != nil {
        fmt.Println("Failed to save CSV:", err)
    } else {
        fmt.Println("Curve saved to:", *outCsv)
    }
    if err := plotCurve(*outImg, sizes, ensembleRMSE, singleRMSE); err != nil {
        fmt.Println("Failed to save PNG:", err)
    } else {
        fmt.Println("Plot saved to:", *outImg)
    }
}

func writeCSV(path string, sizes []int, ensembleRMSE, singleRMSE []float64) error {
    if dir := filepath.Dir(path); dir != "." {
        if err := os.MkdirAll(dir, 0o755); err != nil { return err }
    }
    f, err := os.Create(path)
    if err != nil { return err }
    defer f.Close()
    w := csv.NewWriter(f)
    defer w.Flush()
    if err := w.Write([]string{"size", "ensemble_rmse", "single_rmse"}); err != nil { return err }
    for i := range sizes {
        rec := []string{strconv.Itoa(sizes[i]), fmt.Sprintf("%.6f", ensembleRMSE[i]), fmt.Sprintf("%.6f", singleRMSE[i])}
        if err := w.Write(rec); err != nil { return err }
    }
    return nil
}

func plotCurve(path string, sizes []int, ensembleRMSE, singleRMSE []float64) error {
    p := plot.New()
    p.Title.Text = "Learning Curve: Ensemble vs Single Fit"
    p.X.Label.Text = "Training rows"
    p.Y.Label.Text = "Holdout RMSE"

    toXY := func(xs []int, ys []float64) plotter.XYs {
        pts := make(plotter.XYs, len(xs))
        for i := range xs { pts[i].X = float64(xs[i]); pts[i].Y = ys[i] }
        return pts
    }
    if err := plotutil.AddLinePoints(p,
        "Ensemble", toXY(sizes, ensembleRMSE),
        "Single", toXY(sizes, singleRMSE),
    ); err != nil { return err }
    if dir := filepath.Dir(path); dir != "." {
        if err := os.MkdirAll(dir, 0o755); err != nil { return err }
    }
    return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
