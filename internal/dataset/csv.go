package dataset

import (
    "encoding/csv"
    "fmt"
    "os"
    "strconv"
)

// LoadCSV reads a headered CSV where every column is numeric, splitting out
// the named outcome column. Pass outcome == "" to load a feature-only table.
func LoadCSV(path, outcome string) (*Table, error) {
    f, err := os.Open(path)
    if err != nil { return nil, err }
    defer f.Close()

    r := csv.NewReader(f)
    rows, err := r.ReadAll()
    if err != nil { return nil, err }
    if len(rows) < 2 { return nil, fmt.Errorf("csv %s: no data rows", path) }

    header := rows[0]
    outCol := -1
    names := make([]string, 0, len(header))
    for j, h := range header {
        if h == outcome {
            outCol = j
            continue
        }
        names = append(names, h)
    }
    if outcome != "" && outCol == -1 {
        return nil, fmt.Errorf("csv %s: outcome column %q not found", path, outcome)
    }

    X := make([][]float64, 0, len(rows)-1)
    var y []float64
    if outCol != -1 { y = make([]float64, 0, len(rows)-1) }
    for i := 1; i < len(rows); i++ {
        row := rows[i]
        if len(row) != len(header) {
            return nil, fmt.Errorf("csv %s: row %d has %d fields, header has %d", path, i, len(row), len(header))
        }
        vec := make([]float64, 0, len(names))
        for j, cell := range row {
            v, err := strconv.ParseFloat(cell, 64)
            if err != nil {
                return nil, fmt.Errorf("csv %s: row %d column %q: %w", path, i, header[j], err)
            }
            if j == outCol {
                y = append(y, v)
            } else {
                vec = append(vec, v)
            }
        }
        X = append(X, vec)
    }
    return New(names, outcome, X, y)
}

// WriteCSV writes the table back out with the outcome as the last column.
func WriteCSV(path string, t *Table) error {
    f, err := os.Create(path)
    if err != nil { return err }
    defer f.Close()

    w := csv.NewWriter(f)
    defer w.Flush()

    header := append(append([]string{}, t.FeatureNames...), t.Outcome)
    if err := w.Write(header); err != nil { return err }
    for i := range t.X {
        rec := make([]string, 0, len(header))
        for _, v := range t.X[i] {
            rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
        }
        rec = append(rec, strconv.FormatFloat(t.Y[i], 'g', -1, 64))
        if err := w.Write(rec); err != nil { return err }
    }
    return nil
}
