package graph

// Port carries the type and timing information for one arc endpoint. Every
// arc has exactly one source port and one destination port.
type Port struct {
	Node   NodeID
	Index  int
	Type   DataType
	Domain ClockDomain
}

// NodeID is a stable identifier for a graph node.
type NodeID string

// Arc connects a single source Port to a single destination Port.
type Arc struct {
	Src Port
	Dst Port
	// OrderConstraint marks an arc that exists purely to express scheduling
	// order rather than data movement.
	OrderConstraint bool
}
