package main

import (
    "encoding/csv"
    "flag"
    "fmt"
    "os"
    "path/filepath"
    "runtime"
    "strconv"

    "gonum.org/v1/plot"
    "gonum.org/v1/plot/plotter"
    "gonum.org/v1/plot/plotutil"
    "gonum.org/v1/plot/vg"

    "go.uber.org/zap"

    "github.com/joevus/mlforsocialscience/internal/dataset"
    "github.com/joevus/mlforsocialscience/internal/ensemble"
    "github.com/joevus/mlforsocialscience/internal/lesson"
    "github.com/joevus/mlforsocialscience/internal/metrics"
    "github.com/joevus/mlforsocialscience/pkg/utils"
)

func main() {
    logger := utils.Logger()
    defer logger.Sync()

    configPath := flag.String("config", "", "Lesson YAML; when set it overrides the flags below")
    regen := flag.Bool("regen", true, "Regenerate the synthetic housing CSV")
    n := flag.Int("n", 5000, "Number of synthetic rows")
    out := flag.String("out", "data/housing.csv", "Dataset CSV path")
    outcome := flag.String("outcome", "price", "Outcome column name")
    learnerKind := flag.String("learner", "tree", "Base learner: mean|linear|ridge|tree|knn")
    replicates := flag.Int("replicates", ensemble.DefaultReplicates, "Number of bootstrap replicates")
    seed := flag.Int64("seed", 42, "Resampling seed")
    workers := flag.Int("workers", runtime.NumCPU(), "Concurrent replicate fits")
    maxDepth := flag.Int("max_depth", 6, "Tree depth limit")
    minSamples := flag.Int("min_samples", 10, "Minimum samples to split a tree node")
    k := flag.Int("k", 5, "Neighbours for knn")
    lambda := flag.Float64("lambda", 1.0, "Ridge penalty")
    testFrac := flag.Float64("test_frac", 0.2, "Holdout fraction")
    modelPath := flag.String("model_out", "models/ensemble.gob", "Fitted ensemble output")
    curve := flag.Bool("curve", true, "Emit the variance-reduction curve")
    curveCsv := flag.String("curve_out_csv", "data/variance_curve.csv", "Curve CSV path")
    curveImg := flag.String("curve_out_img", "cmd/api/static/variance_curve.png", "Curve PNG path")
    flag.Parse()

    cfg := lesson.Config{
        Name:         "cli",
        Dataset:      lesson.DataSource{Path: *out, Outcome: *outcome},
        Learner:      lesson.LearnerSpec{Kind: *learnerKind, Lambda: *lambda, MaxDepth: *maxDepth, MinSamples: *minSamples, K: *k},
        Replicates:   *replicates,
        Seed:         *seed,
        Workers:      *workers,
        TestFraction: *testFrac,
        Output:       lesson.Output{ModelPath: *modelPath, CurveCSV: *curveCsv, CurvePNG: *curveImg},
    }
    if *configPath != "" {
        loaded, err := lesson.Load(*configPath)
        if err != nil { logger.Fatal("load lesson config", zap.Error(err)) }
        cfg = *loaded
        logger.Info("Lesson config loaded", zap.String("lesson", cfg.Name), zap.String("path", *configPath))
    }

    if *regen && *configPath == "" {
        logger.Info("Generating synthetic housing data", zap.Int("n", *n), zap.String("out", cfg.Dataset.Path))
        if err := dataset.GenerateHousing(*n, cfg.Seed, cfg.Dataset.Path); err != nil {
            logger.Fatal("generate dataset", zap.Error(err))
        }
    }

    table, err := dataset.LoadCSV(cfg.Dataset.Path, cfg.Dataset.Outcome)
    if err != nil { logger.Fatal("load dataset", zap.Error(err)) }
    train, test := dataset.Split(table, 1-cfg.TestFraction, cfg.Seed)
    logger.Info("Dataset split",
        zap.Int("train_rows", train.Len()),
        zap.Int("test_rows", test.Len()),
        zap.Int("features", table.NumFeatures()),
    )

    learner, err := cfg.Learner.Build()
    if err != nil { logger.Fatal("build learner", zap.Error(err)) }

    opts := ensemble.Options{Replicates: cfg.Replicates, Seed: cfg.Seed, Workers: cfg.Workers}
    res, err := ensemble.Run(train, test.WithoutOutcome(), learner, opts)
    if err != nil { logger.Fatal("run ensemble", zap.Error(err)) }

    // Single fit of the same learner on the full training set, for the
    // classroom comparison against the ensemble average.
    single, err := learner.Fit(train.X, train.Y)
    if err != nil { logger.Fatal("fit single model", zap.Error(err)) }
    singlePred, err := single.Predict(test.X)
    if err != nil { logger.Fatal("predict single model", zap.Error(err)) }

    logger.Info("Holdout metrics",
        zap.String("learner", learner.Name()),
        zap.Int("replicates", cfg.Replicates),
        zap.Float64("ensemble_rmse", metrics.RMSE(test.Y, res.Mean)),
        zap.Float64("ensemble_mae", metrics.MAE(test.Y, res.Mean)),
        zap.Float64("ensemble_r2", metrics.R2(test.Y, res.Mean)),
        zap.Float64("single_rmse", metrics.RMSE(test.Y, singlePred)),
        zap.Float64("mean_prediction_variance", metrics.MeanOf(res.Variance)),
    )

    fitted, err := ensemble.Fit(train, learner, opts)
    if err != nil { logger.Fatal("fit ensemble for serving", zap.Error(err)) }
    if err := fitted.Save(cfg.Output.ModelPath); err != nil {
        logger.Fatal("save ensemble", zap.Error(err))
    }
    logger.Info("Ensemble saved", zap.String("path", cfg.Output.ModelPath))
    fmt.Println("Learner:", learner.Name())

    if *curve && cfg.Output.CurveCSV != "" {
        counts := replicateGrid(cfg.Replicates)
        avgVar := make([]float64, len(counts))
        rmse := make([]float64, len(counts))
        for i, b := range counts {
            r, err := ensemble.Run(train, test.WithoutOutcome(), learner, ensemble.Options{Replicates: b, Seed: cfg.Seed, Workers: cfg.Workers})
            if err != nil { logger.Fatal("run curve point", zap.Int("replicates", b), zap.Error(err)) }
            avgVar[i] = metrics.MeanOf(r.Variance)
            rmse[i] = metrics.RMSE(test.Y, r.Mean)
        }
        if err := writeCurveCSV(cfg.Output.CurveCSV, counts, avgVar, rmse); err != nil {
            logger.Warn("save curve CSV", zap.Error(err))
        }
        if cfg.Output.CurvePNG != "" {
            if err := plotCurvePNG(cfg.Output.CurvePNG, counts, avgVar, rmse); err != nil {
                logger.Warn("save curve PNG", zap.Error(err))
            } else {
                logger.Info("Variance-reduction curve written",
                    zap.String("png", cfg.Output.CurvePNG), zap.String("csv", cfg.Output.CurveCSV))
            }
        }
    }
}

// replicateGrid picks the replicate counts shown on the curve, always ending
// at the configured maximum.
func replicateGrid(max int) []int {
    base := []int{1, 2, 5, 10, 20, 50, 100, 200}
    out := make([]int, 0, len(base)+1)
    for _, b := range base {
        if b < max { out = append(out, b) }
    }
    return append(out, max)
}

func writeCurveCSV(path string, counts []int, avgVar, rmse []float64) error {
    if dir := filepath.Dir(path); dir != "." {
        if err := os.MkdirAll(dir, 0o755); err != nil { return err }
    }
    f, err := os.Create(path)
    if err != nil { return err }
    defer f.Close()
    w := csv.NewWriter(f)
    defer w.Flush()
    if err := w.Write([]string{"replicates", "mean_variance", "test_rmse"}); err != nil { return err }
    for i := range counts {
        rec := []string{strconv.Itoa(counts[i]), fmt.Sprintf("%.6f", avgVar[i]), fmt.Sprintf("%.6f", rmse[i])}
        if err := w.Write(rec); err != nil { return err }
    }
    return nil
}

func plotCurvePNG(path string, counts []int, avgVar, rmse []float64) error {
    p := plot.New()
    p.Title.Text = "Averaging Reduces Prediction Variance"
    p.X.Label.Text = "Bootstrap replicates"
    p.Y.Label.Text = "Mean prediction variance / RMSE"
    p.X.Scale = plot.LogScale{}
    p.X.Tick.Marker = plot.LogTicks{Prec: -1}

    toXY := func(xs []int, ys []float64) plotter.XYs {
        pts := make(plotter.XYs, len(xs))
        for i := range xs { pts[i].X = float64(xs[i]); pts[i].Y = ys[i] }
        return pts
    }
    if err := plotutil.AddLinePoints(p,
        "Mean variance", toXY(counts, avgVar),
        "Test RMSE", toXY(counts, rmse),
    ); err != nil { return err }
    if dir := filepath.Dir(path); dir != "." {
        if err := os.MkdirAll(dir, 0o755); err != nil { return err }
    }
    return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
