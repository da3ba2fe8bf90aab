package ensemble

import (
    "errors"
    "fmt"
)

// Invalid-argument conditions, detected before any resampling or learner call.
var (
    ErrBadReplicates  = errors.New("ensemble: replicate count must be positive")
    ErrNoTrainingData = errors.New("ensemble: empty training set")
    ErrNoEvalData     = errors.New("ensemble: empty evaluation set")
)

// ReplicateError reports that one bootstrap replicate's fit or predict step
// failed. The whole run is aborted rather than dropping the replicate, since a
// silently shrunk ensemble would bias the average.
type ReplicateError struct {
    Index int
    Err   error
}

func (e *ReplicateError) Error() string {
    return fmt.Sprintf("ensemble: replicate %d: %v", e.Index, e.Err)
}

func (e *ReplicateError) Unwrap() error { return e.Err }
