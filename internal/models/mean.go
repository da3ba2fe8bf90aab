package models

import "errors"

// MeanLearner predicts the training-outcome mean as a constant. It is the
// baseline every lesson starts from.
type MeanLearner struct{}

func NewMeanLearner() *MeanLearner { return &MeanLearner{} }

func (m *MeanLearner) Name() string { return "Mean" }

func (m *MeanLearner) Fit(X [][]float64, y []float64) (Predictor, error) {
    if len(y) == 0 { return nil, errors.New("mean: empty training sample") }
    sum := 0.0
    for _, v := range y { sum += v }
    return &MeanModel{Value: sum / float64(len(y))}, nil
}

type MeanModel struct {
    Value float64
}

func (m *MeanModel) Predict(X [][]float64) ([]float64, error) {
    out := make([]float64, len(X))
    for i := range out { out[i] = m.Value }
    return out, nil
}
