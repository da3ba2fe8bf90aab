package dataset

import "math/rand"

// Shuffle returns a copy of the table with rows permuted by the seeded source.
func Shuffle(t *Table, seed int64) *Table {
    rng := rand.New(rand.NewSource(seed))
    return t.Select(rng.Perm(t.Len()))
}

// Split shuffles and splits the table into train and test partitions, with
// trainFrac of the rows in the first. The same seed always yields the same
// partition.
func Split(t *Table, trainFrac float64, seed int64) (train, test *Table) {
    if trainFrac < 0 { trainFrac = 0 }
    if trainFrac > 1 { trainFrac = 1 }
    rng := rand.New(rand.NewSource(seed))
    perm := rng.Perm(t.Len())
    cut := int(trainFrac * float64(t.Len()))
    return t.Select(perm[:cut]), t.Select(perm[cut:])
}
