package dataset

import (
    "math"
    "math/rand"
    "os"
    "path/filepath"
)

var housingFeatures = []string{"rooms", "age", "dist_center_km", "tax_rate", "pct_lower_income", "crime_rate"}

// GenerateHousing writes a synthetic housing-survey CSV with a known price
// relationship plus noise, so classroom runs do not depend on downloading the
// real survey data. The same seed reproduces the same file.
func GenerateHousing(n int, seed int64, outPath string) error {
    t := SyntheticHousing(n, seed)
    if dir := filepath.Dir(outPath); dir != "." {
        if err := os.MkdirAll(dir, 0o755); err != nil { return err }
    }
    return WriteCSV(outPath, t)
}

// SyntheticHousing builds the same table in memory.
func SyntheticHousing(n int, seed int64) *Table {
    rng := rand.New(rand.NewSource(seed))

    X := make([][]float64, n)
    y := make([]float64, n)
    for i := 0; i < n; i++ {
        rooms := 3 + rng.Float64()*6
        age := rng.Float64() * 100
        dist := 0.5 + rng.ExpFloat64()*4
        if dist > 25 { dist = 25 }
        tax := 180 + rng.Float64()*540
        lower := rng.Float64() * 35
        crime := rng.ExpFloat64() * 3
        if crime > 40 { crime = 40 }

        price := 12 +
            8.5*rooms -
            0.06*age -
            0.9*dist -
            0.012*tax -
            0.55*lower -
            0.35*crime +
            rng.NormFloat64()*3.5
        if price < 5 { price = 5 }

        X[i] = []float64{
            round2(rooms), round2(age), round2(dist),
            round2(tax), round2(lower), round2(crime),
        }
        y[i] = round2(price)
    }
    return &Table{FeatureNames: housingFeatures, Outcome: "price", X: X, Y: y}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
