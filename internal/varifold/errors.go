package varifold

import (
	"errors"
	"fmt"
)

// ErrInvalidRadius reports a non-positive measuring-ball radius. It is
// detected before any computation starts.
var ErrInvalidRadius = errors.New("varifold: radius must be positive")

// FaultKind classifies per-sample estimation failures.
type FaultKind int

const (
	// DegenerateNeighborhood means the sample had no distinct neighbor
	// inside the ball (or no in-ball weight at all), which happens when the
	// radius is smaller than the local sample spacing.
	DegenerateNeighborhood FaultKind = iota
	// DegenerateDisplacement means a distinct neighbor index coincided
	// exactly with the center sample, leaving a zero-length displacement.
	// This cannot occur on a non-degenerate mesh and is never silently
	// turned into a division by zero.
	DegenerateDisplacement
)

func (k FaultKind) String() string {
	switch k {
	case DegenerateNeighborhood:
		return "degenerate neighborhood"
	case DegenerateDisplacement:
		return "degenerate displacement"
	}
	return fmt.Sprintf("FaultKind(%d)", int(k))
}

// SampleFault marks one sample whose curvature could not be estimated.
// The curvature slot for that sample is left zero; the caller decides
// whether to abort the run or exclude the sample.
type SampleFault struct {
	Index    int
	Kind     FaultKind
	Neighbor int // offending neighbor for DegenerateDisplacement, else -1
}

func (f SampleFault) Error() string {
	if f.Kind == DegenerateDisplacement {
		return fmt.Sprintf("sample %d: %s (neighbor %d)", f.Index, f.Kind, f.Neighbor)
	}
	return fmt.Sprintf("sample %d: %s", f.Index, f.Kind)
}
