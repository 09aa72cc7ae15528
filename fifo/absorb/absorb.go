// Package absorb implements the delay / initial-condition algebra: folding
// a unit-delay node's initial state into an adjacent FIFO's initial
// contents so the delay node itself can be dropped from the graph.
package absorb

import (
	"golang.org/x/xerrors"

	"github.com/cyarp/vitis-mtengine/fifo"
	"github.com/cyarp/vitis-mtengine/graph"
)

// Result is the absorption outcome taxonomy.
type Result int

const (
	NoAbsorption Result = iota
	FullAbsorption
	PartialAbsorptionFullFIFO
	PartialAbsorptionMergeInitCond
)

func (r Result) String() string {
	switch r {
	case NoAbsorption:
		return "NO_ABSORPTION"
	case FullAbsorption:
		return "FULL_ABSORPTION"
	case PartialAbsorptionFullFIFO:
		return "PARTIAL_ABSORPTION_FULL_FIFO"
	case PartialAbsorptionMergeInitCond:
		return "PARTIAL_ABSORPTION_MERGE_INIT_COND"
	default:
		return "UNKNOWN_ABSORPTION_RESULT"
	}
}

// InputLegality bundles the facts the caller (typically the optimizer,
// which has full graph connectivity) must have already established before
// calling AbsorbInput.
type InputLegality struct {
	// DelayInInputPartition is true when the delay node lies in the
	// FIFO's input (source) partition.
	DelayInInputPartition bool
	// FIFOSoleConsumer is true when the FIFO is the sole consumer of the
	// delay's output.
	FIFOSoleConsumer bool
	// NoOrderConstraintsOnInput is true when there are no order-constraint
	// arcs on the FIFO's input side.
	NoOrderConstraintsOnInput bool
}

func (l InputLegality) ok() bool {
	return l.DelayInInputPartition && l.FIFOSoleConsumer && l.NoOrderConstraintsOnInput
}

// OutputLegality bundles the facts required for output-side absorption.
type OutputLegality struct {
	// AllConsumersAreDelays is true when every consumer of the FIFO's
	// output is a delay node.
	AllConsumersAreDelays bool
	// IdenticalInitialConditions is true when all such delays have
	// identical initial-condition vectors.
	IdenticalInitialConditions bool
	// DelaysInOutputPartition is true when they lie in the FIFO's output
	// (destination) partition.
	DelaysInOutputPartition bool
	// NoOrderConstraintsOnOutput is true when there are no order-constraint
	// arcs on the FIFO's output side.
	NoOrderConstraintsOnOutput bool
}

func (l OutputLegality) ok() bool {
	return l.AllConsumersAreDelays && l.IdenticalInitialConditions &&
		l.DelaysInOutputPartition && l.NoOrderConstraintsOnOutput
}

// ErrDelayPortTypeMismatch is raised when a delay node's input and output
// port types disagree at code-gen time.
var ErrDelayPortTypeMismatch = xerrors.New("delay node input and output port types disagree")

func capacityUnits(f *fifo.FIFO) int {
	return f.CapacityBlocks * f.BlockSizeOut * f.ElementsPerBlock()
}

// AbsorbInput attempts to fold an upstream delay's initial state into f's
// initial conditions, prepending it (the delay's values are the
// chronologically earliest samples the consumer will observe, exactly as if
// the delay still sat upstream of the FIFO). Callers iterate per FIFO until
// NoAbsorption is returned.
func AbsorbInput(f *fifo.FIFO, delay graph.DelayNode, legal InputLegality) (Result, error) {
	if !legal.ok() {
		return NoAbsorption, nil
	}

	unit := f.ElementsPerBlock()
	if unit <= 0 {
		return NoAbsorption, xerrors.Errorf("FIFO %q: %w", f.Name, fifo.ErrUnsupportedFIFOConfig)
	}

	room := capacityUnits(f) - len(f.InitConditions)
	if room <= 0 {
		return NoAbsorption, nil
	}

	delayValues := delay.InitialConditions()
	if len(delayValues) == 0 {
		return NoAbsorption, nil
	}

	if len(delayValues) <= room {
		f.InitConditions = append(append([]graph.Value(nil), delayValues...), f.InitConditions...)
		return FullAbsorption, nil
	}

	// Only whole ElementsPerBlock groups can be absorbed; anything left
	// over stays behind as a shortened delay.
	absorbable := (room / unit) * unit
	if absorbable == 0 {
		return NoAbsorption, nil
	}

	taken := delayValues[len(delayValues)-absorbable:]
	f.InitConditions = append(append([]graph.Value(nil), taken...), f.InitConditions...)

	if len(f.InitConditions) == capacityUnits(f) {
		return PartialAbsorptionFullFIFO, nil
	}
	return PartialAbsorptionMergeInitCond, nil
}

// AbsorbOutput attempts to fold the identical initial state of every
// downstream-delay consumer of f's output into f's initial conditions,
// appending it (those values sit beyond the FIFO's own existing contents,
// exactly as if the delay still sat downstream of the FIFO).
func AbsorbOutput(f *fifo.FIFO, delays []graph.DelayNode, legal OutputLegality) (Result, error) {
	if !legal.ok() || len(delays) == 0 {
		return NoAbsorption, nil
	}

	reference := delays[0].InitialConditions()
	for _, d := range delays[1:] {
		vals := d.InitialConditions()
		if len(vals) != len(reference) {
			return NoAbsorption, nil
		}
		for i := range vals {
			if err := graph.CheckSameType(vals[i], reference[i]); err != nil {
				return NoAbsorption, nil
			}
			if vals[i] != reference[i] {
				return NoAbsorption, nil
			}
		}
	}

	unit := f.ElementsPerBlock()
	if unit <= 0 {
		return NoAbsorption, xerrors.Errorf("FIFO %q: %w", f.Name, fifo.ErrUnsupportedFIFOConfig)
	}

	room := capacityUnits(f) - len(f.InitConditions)
	if room <= 0 {
		return NoAbsorption, nil
	}

	if len(reference) <= room {
		f.InitConditions = append(f.InitConditions, reference...)
		return FullAbsorption, nil
	}

	absorbable := (room / unit) * unit
	if absorbable == 0 {
		return NoAbsorption, nil
	}

	f.InitConditions = append(f.InitConditions, reference[:absorbable]...)
	if len(f.InitConditions) == capacityUnits(f) {
		return PartialAbsorptionFullFIFO, nil
	}
	return PartialAbsorptionMergeInitCond, nil
}
