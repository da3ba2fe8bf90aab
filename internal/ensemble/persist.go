package ensemble

import (
    "encoding/gob"
    "os"
    "path/filepath"

    "github.com/joevus/mlforsocialscience/internal/models"
)

func init() {
    gob.Register(&models.MeanModel{})
    gob.Register(&models.LinearModel{})
    gob.Register(&models.TreeModel{})
    gob.Register(&models.KNNModel{})
}

// Save writes the fitted ensemble as gob, creating the directory if needed.
func (e *Ensemble) Save(path string) error {
    if dir := filepath.Dir(path); dir != "." {
        if err := os.MkdirAll(dir, 0o755); err != nil { return err }
    }
    f, err := os.Create(path)
    if err != nil { return err }
    defer f.Close()
    return gob.NewEncoder(f).Encode(e)
}

// Load reads a fitted ensemble written by Save.
func Load(path string) (*Ensemble, error) {
    f, err := os.Open(path)
    if err != nil { return nil, err }
    defer f.Close()
    var e Ensemble
    if err := gob.NewDecoder(f).Decode(&e); err != nil { return nil, err }
    return &e, nil
}
