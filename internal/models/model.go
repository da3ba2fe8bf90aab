package models

// Predictor is a fitted model queried for one prediction per feature row.
type Predictor interface {
    Predict(X [][]float64) ([]float64, error)
}

// Learner fits a fresh Predictor on a labeled training sample. Implementations
// hold hyperparameters only; fitted state lives in the returned Predictor, so
// one Learner can be fitted many times over different resamples.
type Learner interface {
    Fit(X [][]float64, y []float64) (Predictor, error)
    Name() string
}
