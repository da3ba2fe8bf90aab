package metrics

import "math"

// MSE is the mean squared error of predictions p against outcomes y.
func MSE(y, p []float64) float64 {
    if len(y) == 0 || len(y) != len(p) { return math.NaN() }
    s := 0.0
    for i := range y {
        d := y[i] - p[i]
        s += d * d
    }
    return s / float64(len(y))
}

func RMSE(y, p []float64) float64 { return math.Sqrt(MSE(y, p)) }

// MAE is the mean absolute error.
func MAE(y, p []float64) float64 {
    if len(y) == 0 || len(y) != len(p) { return math.NaN() }
    s := 0.0
    for i := range y { s += math.Abs(y[i] - p[i]) }
    return s / float64(len(y))
}

// R2 is the coefficient of determination: 1 - SSE/SST. A constant outcome
// yields NaN unless predicted exactly.
func R2(y, p []float64) float64 {
    if len(y) == 0 || len(y) != len(p) { return math.NaN() }
    mean := 0.0
    for _, v := range y { mean += v }
    mean /= float64(len(y))
    var sse, sst float64
    for i := range y {
        d := y[i] - p[i]
        sse += d * d
        m := y[i] - mean
        sst += m * m
    }
    if sst == 0 {
        if sse == 0 { return 1 }
        return math.NaN()
    }
    return 1 - sse/sst
}

// MeanOf averages a slice; used for summarizing per-row variance vectors.
func MeanOf(x []float64) float64 {
    if len(x) == 0 { return 0 }
    s := 0.0
    for _, v := range x { s += v }
    return s / float64(len(x))
}
