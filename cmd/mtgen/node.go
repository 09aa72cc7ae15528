package main

import (
	"github.com/cyarp/vitis-mtengine/cir"
	"github.com/cyarp/vitis-mtengine/graph"
)

// passthroughNode is the one built-in graph.Node kind this driver ships:
// it copies each input straight to the correspondingly-indexed output and
// carries no state. It exists so a manifest can describe a minimal
// end-to-end design without an upstream graph-parsing collaborator; real
// operator lowering stays out of scope (spec.md §1 Non-goals).
type passthroughNode struct {
	id      graph.NodeID
	order   int
	parent  graph.NodeID
	inputs  []graph.Port
	outputs []graph.Port
}

func buildPassthroughNode(mn manifestNode) (graph.Node, error) {
	outputs := make([]graph.Port, 0, len(mn.Outputs))
	for _, mp := range mn.Outputs {
		bt, err := resolveBaseType(mp.BaseType)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, graph.Port{Type: graph.DataType{Base: bt, Shape: shapeOrScalar(mp.Shape)}})
	}
	return &passthroughNode{id: graph.NodeID(mn.ID), order: mn.Order, outputs: outputs}, nil
}

func (n *passthroughNode) ID() graph.NodeID          { return n.id }
func (n *passthroughNode) Kind() graph.NodeKind      { return graph.KindPrimitive }
func (n *passthroughNode) Partition() int            { return 0 }
func (n *passthroughNode) ScheduleOrder() int        { return n.order }
func (n *passthroughNode) Parent() graph.NodeID      { return n.parent }
func (n *passthroughNode) Inputs() []graph.Port      { return n.inputs }
func (n *passthroughNode) Outputs() []graph.Port     { return n.outputs }
func (n *passthroughNode) HasState() bool            { return false }
func (n *passthroughNode) GetCStateVars() []cir.Decl { return nil }

// EmitCExpr returns the already-emitted input expression unchanged: a
// passthrough has exactly one input feeding each output index.
func (n *passthroughNode) EmitCExpr(_ int, inputExprs []cir.Expr) cir.Expr {
	if len(inputExprs) == 0 {
		return cir.Lit{Text: "0"}
	}
	return inputExprs[0]
}

func (n *passthroughNode) EmitCExprNextState(_ []cir.Expr) cir.Expr { return nil }
func (n *passthroughNode) EmitCStateUpdate() []cir.Stmt             { return nil }
func (n *passthroughNode) GetGlobalDecl() []cir.Decl                { return nil }
func (n *passthroughNode) GetExternalIncludes() []string            { return nil }
func (n *passthroughNode) ResetFuncName() string                    { return "" }
