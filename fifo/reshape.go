package fifo

import "github.com/cyarp/vitis-mtengine/graph"

// SpilledDelay describes the delay node the reshape step must insert on the
// FIFO's input side to hold the initial-condition values that did not fit a
// whole block.
type SpilledDelay struct {
	InitialConditions []graph.Value
}

// Reshape enforces the |init_conditions| mod (block_size*elements_per_block)
// == 0 invariant. When the count is not already a multiple of the unit
// size, it spills the leading (chronologically earliest) partial block back
// out into a newly inserted upstream delay, leaving the FIFO with a
// round-multiple count. It returns the spilled delay's initial conditions,
// or nil if no spill was necessary.
func (f *FIFO) Reshape() *SpilledDelay {
	unit := f.BlockSizeOut * f.ElementsPerBlock()
	if unit <= 0 {
		return nil
	}
	n := len(f.InitConditions)
	remainder := n % unit
	if remainder == 0 {
		return nil
	}

	spilled := append([]graph.Value(nil), f.InitConditions[:remainder]...)
	f.InitConditions = append([]graph.Value(nil), f.InitConditions[remainder:]...)
	return &SpilledDelay{InitialConditions: spilled}
}

// ReshapeToTarget reshapes the FIFO's initial conditions to exactly target
// values (a multiple of the block unit, validated by the caller), spilling
// any surplus the same way Reshape does.
func (f *FIFO) ReshapeToTarget(target int) *SpilledDelay {
	n := len(f.InitConditions)
	if target >= n {
		return nil
	}
	spillCount := n - target
	spilled := append([]graph.Value(nil), f.InitConditions[:spillCount]...)
	f.InitConditions = append([]graph.Value(nil), f.InitConditions[spillCount:]...)
	return &SpilledDelay{InitialConditions: spilled}
}
