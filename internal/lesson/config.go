// Package lesson loads the YAML files that describe one classroom run: which
// dataset to use, which base learner to resample, and where results land.
package lesson

import (
    "fmt"
    "os"

    "github.com/go-playground/validator/v10"
    "github.com/goccy/go-yaml"

    "github.com/joevus/mlforsocialscience/internal/models"
)

type Config struct {
    Name         string      `yaml:"name" validate:"required"`
    Dataset      DataSource  `yaml:"dataset"`
    Learner      LearnerSpec `yaml:"learner"`
    Replicates   int         `yaml:"replicates" validate:"gt=0"`
    Seed         int64       `yaml:"seed"`
    Workers      int         `yaml:"workers" validate:"gte=0"`
    TestFraction float64     `yaml:"test_fraction" validate:"gt=0,lt=1"`
    Output       Output      `yaml:"output"`
}

type DataSource struct {
    Path    string `yaml:"path" validate:"required"`
    Outcome string `yaml:"outcome" validate:"required"`
}

type LearnerSpec struct {
    Kind       string  `yaml:"kind" validate:"required,oneof=mean linear ridge tree knn"`
    Lambda     float64 `yaml:"lambda" validate:"gte=0"`
    MaxDepth   int     `yaml:"max_depth"`
    MinSamples int     `yaml:"min_samples"`
    K          int     `yaml:"k"`
}

type Output struct {
    ModelPath string `yaml:"model_path"`
    CurveCSV  string `yaml:"curve_csv"`
    CurvePNG  string `yaml:"curve_png"`
}

// Load reads and validates a lesson file, applying defaults for the knobs a
// lesson leaves out.
func Load(path string) (*Config, error) {
    raw, err := os.ReadFile(path)
    if err != nil { return nil, err }
    cfg := Config{
        Replicates:   100,
        TestFraction: 0.2,
    }
    if err := yaml.Unmarshal(raw, &cfg); err != nil {
        return nil, fmt.Errorf("lesson %s: %w", path, err)
    }
    if err := validator.New().Struct(&cfg); err != nil {
        return nil, fmt.Errorf("lesson %s: %w", path, err)
    }
    return &cfg, nil
}

// Build constructs the configured base learner.
func (s LearnerSpec) Build() (models.Learner, error) {
    switch s.Kind {
    case "mean":
        return models.NewMeanLearner(), nil
    case "linear":
        return models.NewLinearRegression(), nil
    case "ridge":
        return models.NewRidge(s.Lambda), nil
    case "tree":
        t := models.NewRegressionTree()
        if s.MaxDepth > 0 { t.MaxDepth = s.MaxDepth }
        if s.MinSamples > 0 { t.MinSamplesSplit = s.MinSamples }
        return t, nil
    case "knn":
        k := s.K
        if k <= 0 { k = 5 }
        return models.NewKNNRegressor(k), nil
    }
    return nil, fmt.Errorf("lesson: unknown learner kind %q", s.Kind)
}
