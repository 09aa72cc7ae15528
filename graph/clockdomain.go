package graph

import (
	"golang.org/x/xerrors"
)

// Rate is a rational rate relative to the base rate (1,1). P is the
// numerator, Q the denominator; both must be >= 1.
type Rate struct {
	P int
	Q int
}

// BaseRate is the reference rate (1,1).
var BaseRate = Rate{P: 1, Q: 1}

// IsBase reports whether r is the base rate.
func (r Rate) IsBase() bool { return r.P == 1 && r.Q == 1 }

// IsUpsampleOrBase reports whether r is a pure upsample or the base rate,
// i.e. Q == 1.
func (r Rate) IsUpsampleOrBase() bool { return r.Q == 1 }

// Validate checks that the rate is well formed.
func (r Rate) Validate() error {
	if r.P < 1 || r.Q < 1 {
		return xerrors.Errorf("rate (%d,%d) must have both terms >= 1", r.P, r.Q)
	}
	return nil
}

// ClockDomain represents a subtree operating at a rational rate relative to
// the base rate.
type ClockDomain struct {
	Name string
	Rate Rate
}
