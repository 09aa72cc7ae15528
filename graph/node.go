package graph

import (
	"strconv"

	"github.com/cyarp/vitis-mtengine/cir"
)

// IOPartitionNum is the distinguished sentinel partition number for the I/O
// partition. The source graph may use 0 or a negative number
// for it; callers should compare against this constant rather than a
// hard-coded literal.
const IOPartitionNum = 0

// NodeKind is the collapsed set of node variants: rather than a deep
// inheritance hierarchy per original node type, every node reduces to one
// of these variants with an operation table attached.
type NodeKind int

const (
	KindPrimitive NodeKind = iota
	KindSubsystem
	KindContextRoot
	KindRateChange
	KindMasterIO
	KindFIFO
	KindDelay
)

func (k NodeKind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindSubsystem:
		return "Subsystem"
	case KindContextRoot:
		return "ContextRoot"
	case KindRateChange:
		return "RateChange"
	case KindMasterIO:
		return "MasterIO"
	case KindFIFO:
		return "FIFO"
	case KindDelay:
		return "Delay"
	default:
		return "Unknown"
	}
}

// Node is the external-collaborator surface this engine consumes. Parsing,
// scheduling, and individual-operator lowering are all performed upstream;
// Node is the read-only view the FIFO/optimizer/emitter layers need.
//
//go:generate mockgen -destination=graphmock/node_mock.go -package=graphmock github.com/cyarp/vitis-mtengine/graph Node
type Node interface {
	ID() NodeID
	Kind() NodeKind
	Partition() int
	ScheduleOrder() int
	Parent() NodeID
	Inputs() []Port
	Outputs() []Port

	// HasState reports whether this node carries persistent state (and
	// therefore needs emission in the partition's state struct / reset
	// function).
	HasState() bool

	// GetCStateVars returns the C declarations of this node's state
	// variables, if HasState().
	GetCStateVars() []cir.Decl

	// EmitCExpr returns the expression computing this node's output at
	// the given output index from its (already-emitted) input
	// expressions.
	EmitCExpr(outputIdx int, inputExprs []cir.Expr) cir.Expr

	// EmitCExprNextState returns the expression for the node's next-state
	// value, for stateful nodes (e.g. a delay's next buffered value).
	EmitCExprNextState(inputExprs []cir.Expr) cir.Expr

	// EmitCStateUpdate returns the statements that commit next-state
	// values computed by EmitCExprNextState into the node's state
	// variables.
	EmitCStateUpdate() []cir.Stmt

	// GetGlobalDecl returns any global (not per-partition-state)
	// declarations this node requires, e.g. a large constant table.
	GetGlobalDecl() []cir.Decl

	// GetExternalIncludes returns extra C include directives this node's
	// emission needs (e.g. a black-box node's header).
	GetExternalIncludes() []string

	// ResetFuncName returns the C function name to call from the
	// partition reset function to reinitialize this node, or "" if none
	// is needed.
	ResetFuncName() string
}

// DelayNode is implemented by nodes of KindDelay, adding the extra surface
// the absorption algebra needs.
type DelayNode interface {
	Node
	DelayLength() int
	InitialConditions() []Value
}

// PartitionName renders a partition number the way generated FIFO/function
// names do: negative partitions get an "N" prefix.
func PartitionName(partition int) string {
	if partition < 0 {
		return "N" + strconv.Itoa(-partition)
	}
	return strconv.Itoa(partition)
}
