package dataset

import (
    "math"
    "path/filepath"
    "testing"
)

func TestNewRejectsRaggedRows(t *testing.T) {
    _, err := New([]string{"a", "b"}, "y", [][]float64{{1, 2}, {3}}, []float64{1, 2})
    if err == nil { t.Fatal("expected an error for a ragged row") }
}

func TestNewRejectsOutcomeLengthMismatch(t *testing.T) {
    _, err := New([]string{"a"}, "y", [][]float64{{1}, {2}}, []float64{1})
    if err == nil { t.Fatal("expected an error for a short outcome column") }
}

func TestSelectRepeatsRows(t *testing.T) {
    tbl, err := New([]string{"a"}, "y", [][]float64{{1}, {2}, {3}}, []float64{10, 20, 30})
    if err != nil { t.Fatalf("new: %v", err) }
    boot := tbl.Select([]int{2, 2, 0})
    if boot.Len() != 3 { t.Fatalf("selected %d rows, want 3", boot.Len()) }
    if boot.X[0][0] != 3 || boot.X[1][0] != 3 || boot.X[2][0] != 1 {
        t.Errorf("selected rows %v, want [[3] [3] [1]]", boot.X)
    }
    if boot.Y[0] != 30 || boot.Y[2] != 10 {
        t.Errorf("selected outcomes %v, want [30 30 10]", boot.Y)
    }
}

func TestSplitIsDeterministicAndPartitions(t *testing.T) {
    tbl := SyntheticHousing(100, 7)
    tr1, te1 := Split(tbl, 0.8, 3)
    tr2, te2 := Split(tbl, 0.8, 3)

    if tr1.Len() != 80 || te1.Len() != 20 {
        t.Fatalf("split sizes %d/%d, want 80/20", tr1.Len(), te1.Len())
    }
    for i := range tr1.X {
        if tr1.X[i][0] != tr2.X[i][0] || tr1.Y[i] != tr2.Y[i] {
            t.Fatalf("row %d differs between identically seeded splits", i)
        }
    }
    if te1.Len() != te2.Len() {
        t.Fatalf("test sizes differ: %d vs %d", te1.Len(), te2.Len())
    }
}

func TestGenerateAndLoadRoundTrip(t *testing.T) {
    path := filepath.Join(t.TempDir(), "housing.csv")
    if err := GenerateHousing(50, 9, path); err != nil {
        t.Fatalf("generate: %v", err)
    }
    tbl, err := LoadCSV(path, "price")
    if err != nil { t.Fatalf("load: %v", err) }
    if tbl.Len() != 50 {
        t.Fatalf("loaded %d rows, want 50", tbl.Len())
    }
    if tbl.NumFeatures() != len(housingFeatures) {
        t.Fatalf("loaded %d features, want %d", tbl.NumFeatures(), len(housingFeatures))
    }
    mem := SyntheticHousing(50, 9)
    for i := 0; i < tbl.Len(); i++ {
        if math.Abs(tbl.Y[i]-mem.Y[i]) > 1e-9 {
            t.Fatalf("row %d: outcome %v from CSV, %v in memory", i, tbl.Y[i], mem.Y[i])
        }
    }
}

func TestLoadCSVMissingOutcome(t *testing.T) {
    path := filepath.Join(t.TempDir(), "housing.csv")
    if err := GenerateHousing(5, 1, path); err != nil {
        t.Fatalf("generate: %v", err)
    }
    if _, err := LoadCSV(path, "no_such_column"); err == nil {
        t.Fatal("expected an error for a missing outcome column")
    }
}

func TestOutcomeMean(t *testing.T) {
    tbl, err := New([]string{"a"}, "y", [][]float64{{1}, {2}}, []float64{4, 6})
    if err != nil { t.Fatalf("new: %v", err) }
    m, err := tbl.OutcomeMean()
    if err != nil { t.Fatalf("mean: %v", err) }
    if m != 5 { t.Errorf("outcome mean %v, want 5", m) }

    if _, err := tbl.WithoutOutcome().OutcomeMean(); err == nil {
        t.Error("expected ErrNoOutcome for a feature-only table")
    }
}
