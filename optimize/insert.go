// Package optimize implements the graph-to-FIFO lowering passes: inserting
// one thread-crossing FIFO per partition-crossing arc group, and optionally
// merging multiple FIFOs between the same partition pair into one.
package optimize

import (
	"fmt"

	"golang.org/x/xerrors"

	"github.com/cyarp/vitis-mtengine/fifo"
	"github.com/cyarp/vitis-mtengine/graph"
)

// PartitionPair identifies a directed partition-crossing boundary.
type PartitionPair struct {
	Src int
	Dst int
}

// ArcGroup is the set of arcs sharing a single source port that crosses one
// partition boundary. Fan-out from one port is one FIFO, one arc per
// destination.
type ArcGroup []graph.Arc

// Failure conditions named by the FIFO insertion pass.
var (
	ErrEmptyArcGroup                 = xerrors.New("arc group has no arcs")
	ErrArcGroupSourceMismatch        = xerrors.New("arc group's arcs disagree on their source port")
	ErrArcGroupDestPartitionMismatch = xerrors.New("arc in group connects to a destination outside the stated partition")
)

// NodeLookup resolves a NodeID to its graph.Node, giving the insertion pass
// access to partition and parent information the Port/Arc types don't carry
// directly.
type NodeLookup interface {
	Node(id graph.NodeID) (graph.Node, bool)
}

// EnableOutputNode is implemented by nodes whose output exits an enabled
// subsystem context. For such a source node, the inserted FIFO is parented
// one level further up so it sits outside the enabled context.
type EnableOutputNode interface {
	graph.Node
	IsEnableOutput() bool
}

// InsertedFIFO pairs a newly created FIFO with the rewired arcs that now
// read from its output and the subsystem it was parented under.
type InsertedFIFO struct {
	FIFO      *fifo.FIFO
	Parent    graph.NodeID
	Rewritten []graph.Arc
}

func fifoParent(n graph.Node, lookup NodeLookup) graph.NodeID {
	parent := n.Parent()
	if eo, ok := n.(EnableOutputNode); ok && eo.IsEnableOutput() {
		if parentNode, found := lookup.Node(parent); found {
			return parentNode.Parent()
		}
	}
	return parent
}

// InsertFIFOs implements the FIFO-insertion pass. groups maps each
// partition-crossing boundary to its arc groups (one group per fan-out
// source port). For every group it creates one fifo.FIFO, rewires each
// arc's source port to the FIFO's output (destination ports are left
// untouched), and names the FIFO PartitionCrossingFIFO_<src>_TO_<dst>_<k>.
func InsertFIFOs(groups map[PartitionPair][]ArcGroup, lookup NodeLookup) ([]InsertedFIFO, error) {
	var results []InsertedFIFO

	for pair, groupList := range groups {
		for k, group := range groupList {
			if len(group) == 0 {
				return nil, xerrors.Errorf("partition %d->%d group %d: %w", pair.Src, pair.Dst, k, ErrEmptyArcGroup)
			}

			srcPort := group[0].Src
			for _, arc := range group {
				if arc.Src.Node != srcPort.Node || arc.Src.Index != srcPort.Index {
					return nil, xerrors.Errorf("partition %d->%d group %d: %w", pair.Src, pair.Dst, k, ErrArcGroupSourceMismatch)
				}
				dstNode, found := lookup.Node(arc.Dst.Node)
				if !found || dstNode.Partition() != pair.Dst {
					return nil, xerrors.Errorf("partition %d->%d group %d: arc to %q: %w", pair.Src, pair.Dst, k, arc.Dst.Node, ErrArcGroupDestPartitionMismatch)
				}
			}

			srcNode, found := lookup.Node(srcPort.Node)
			if !found {
				return nil, xerrors.Errorf("partition %d->%d group %d: source node %q not found", pair.Src, pair.Dst, k, srcPort.Node)
			}

			name := fmt.Sprintf("PartitionCrossingFIFO_%s_TO_%s_%d", graph.PartitionName(pair.Src), graph.PartitionName(pair.Dst), k)
			f := fifo.New(name, pair.Src, pair.Dst)
			f.ElementType = srcPort.Type
			f.ClockDomainIn = srcPort.Domain

			newSrcPort := graph.Port{Node: graph.NodeID(name), Index: 0, Type: srcPort.Type, Domain: srcPort.Domain}
			rewritten := make([]graph.Arc, len(group))
			for i, arc := range group {
				rewritten[i] = graph.Arc{Src: newSrcPort, Dst: arc.Dst, OrderConstraint: arc.OrderConstraint}
			}

			results = append(results, InsertedFIFO{
				FIFO:      f,
				Parent:    fifoParent(srcNode, lookup),
				Rewritten: rewritten,
			})
		}
	}

	return results, nil
}
