package rangetracker

import "errors"

// ErrEmptyUpdateRange is returned by ComputeUpdateRange when both the
// insert and delete lists are empty, so no bounding box exists to pad.
var ErrEmptyUpdateRange = errors.New("rangetracker: insert and delete lists are both empty")
