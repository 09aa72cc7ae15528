package optimize

import (
	"strings"

	"golang.org/x/xerrors"

	"github.com/cyarp/vitis-mtengine/fifo"
	"github.com/cyarp/vitis-mtengine/graph"
)

// ErrEmptyMergeGroup is returned when MergeFIFOs is called with no FIFOs.
var ErrEmptyMergeGroup = xerrors.New("merge group has no FIFOs")

// ErrFIFOsNotMergeable is returned when a merge group's FIFOs disagree on a
// property this rewrite requires to match before merging: same partition
// pair, identical block size, identical clock-domain rate on both ends,
// identical copy_mode, identical in_place flag, and an equal number of
// initially occupied blocks (this decision resolves the merge-preconditions
// Open Question, see DESIGN.md).
var ErrFIFOsNotMergeable = xerrors.New("FIFOs are not mergeable")

// MergedFIFO is the result of a successful merge: the new wider FIFO plus
// the constituent FIFOs it replaces, in merge order (their relative order
// fixes the per-block interleaving of the merged element stream).
type MergedFIFO struct {
	FIFO         *fifo.FIFO
	Constituents []*fifo.FIFO
}

func mergedName(fifos []*fifo.FIFO) string {
	names := make([]string, len(fifos))
	for i, f := range fifos {
		names[i] = f.Name
	}
	return "Merged_" + strings.Join(names, "_")
}

// MergeFIFOs merges multiple FIFOs between the same partition pair into one
// wider FIFO. Producer/consumer endpoints of the constituents are expected
// to be redirected to the merged FIFO by the caller (InsertedFIFO rewiring
// is a graph-level concern this package doesn't own); MergeFIFOs itself only
// builds the merged fifo.FIFO value and its concatenated initial conditions.
//
// The merged FIFO's element type carries every constituent's per-block
// element count flattened into one DataType with the first constituent's
// base type and signedness; the other constituents' base types are not
// compared, and no constituent's bit widths or complex flag are carried
// over. The merged capacity is the largest constituent capacity.
func MergeFIFOs(fifos []*fifo.FIFO) (*MergedFIFO, error) {
	if len(fifos) == 0 {
		return nil, ErrEmptyMergeGroup
	}
	if len(fifos) == 1 {
		return &MergedFIFO{FIFO: fifos[0], Constituents: fifos}, nil
	}

	first := fifos[0]
	occupied := first.OccupiedBlocks()
	for _, f := range fifos[1:] {
		switch {
		case f.SrcPartition != first.SrcPartition || f.DstPartition != first.DstPartition:
			return nil, xerrors.Errorf("%q vs %q: partition pair mismatch: %w", f.Name, first.Name, ErrFIFOsNotMergeable)
		case f.BlockSizeIn != first.BlockSizeIn || f.BlockSizeOut != first.BlockSizeOut:
			return nil, xerrors.Errorf("%q vs %q: block size mismatch: %w", f.Name, first.Name, ErrFIFOsNotMergeable)
		case f.ClockDomainIn.Rate != first.ClockDomainIn.Rate || f.ClockDomainOut.Rate != first.ClockDomainOut.Rate:
			return nil, xerrors.Errorf("%q vs %q: clock-domain rate mismatch: %w", f.Name, first.Name, ErrFIFOsNotMergeable)
		case f.CopyMode != first.CopyMode:
			return nil, xerrors.Errorf("%q vs %q: copy_mode mismatch: %w", f.Name, first.Name, ErrFIFOsNotMergeable)
		case f.InPlace != first.InPlace:
			return nil, xerrors.Errorf("%q vs %q: in_place mismatch: %w", f.Name, first.Name, ErrFIFOsNotMergeable)
		case f.OccupiedBlocks() != occupied:
			return nil, xerrors.Errorf("%q vs %q: initial occupied-block count mismatch: %w", f.Name, first.Name, ErrFIFOsNotMergeable)
		}
	}

	totalElements := 0
	for _, f := range fifos {
		totalElements += f.ElementsPerBlock()
	}

	merged := fifo.New(mergedName(fifos), first.SrcPartition, first.DstPartition)
	merged.BlockSizeIn, merged.BlockSizeOut = first.BlockSizeIn, first.BlockSizeOut
	merged.SubBlockSizeIn, merged.SubBlockSizeOut = first.SubBlockSizeIn, first.SubBlockSizeOut
	merged.ClockDomainIn, merged.ClockDomainOut = first.ClockDomainIn, first.ClockDomainOut
	merged.CopyMode = first.CopyMode
	merged.InPlace = first.InPlace
	merged.Caching = first.Caching
	merged.ElementType = graph.DataType{
		Base:   first.ElementType.Base,
		Signed: first.ElementType.Signed,
		Shape:  []int{totalElements},
	}

	capacity := first.CapacityBlocks
	for _, f := range fifos[1:] {
		if f.CapacityBlocks > capacity {
			capacity = f.CapacityBlocks
		}
	}
	merged.CapacityBlocks = capacity

	merged.InitConditions = interleavePerBlock(fifos, occupied)

	return &MergedFIFO{FIFO: merged, Constituents: append([]*fifo.FIFO(nil), fifos...)}, nil
}

// interleavePerBlock concatenates each constituent's initial conditions per
// block position: for every occupied block index, the values of every
// constituent's block at that index are appended in constituent order,
// before moving to the next block index.
func interleavePerBlock(fifos []*fifo.FIFO, occupiedBlocks int) []graph.Value {
	var out []graph.Value
	for block := 0; block < occupiedBlocks; block++ {
		for _, f := range fifos {
			unit := f.BlockSizeOut * f.ElementsPerBlock()
			if unit == 0 {
				continue
			}
			out = append(out, f.InitConditions[block*unit:(block+1)*unit]...)
		}
	}
	return out
}
