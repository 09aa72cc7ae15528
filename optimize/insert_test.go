package optimize

import (
	"testing"

	"github.com/cyarp/vitis-mtengine/cir"
	"github.com/cyarp/vitis-mtengine/graph"
)

type fakeNode struct {
	id       graph.NodeID
	part     int
	parent   graph.NodeID
	enableOp bool
}

func (n *fakeNode) ID() graph.NodeID                      { return n.id }
func (n *fakeNode) Kind() graph.NodeKind                  { return graph.KindPrimitive }
func (n *fakeNode) Partition() int                        { return n.part }
func (n *fakeNode) ScheduleOrder() int                     { return 0 }
func (n *fakeNode) Parent() graph.NodeID                  { return n.parent }
func (n *fakeNode) Inputs() []graph.Port                  { return nil }
func (n *fakeNode) Outputs() []graph.Port                 { return nil }
func (n *fakeNode) HasState() bool                        { return false }
func (n *fakeNode) GetCStateVars() []cir.Decl              { return nil }
func (n *fakeNode) EmitCExpr(int, []cir.Expr) cir.Expr      { return nil }
func (n *fakeNode) EmitCExprNextState([]cir.Expr) cir.Expr  { return nil }
func (n *fakeNode) EmitCStateUpdate() []cir.Stmt           { return nil }
func (n *fakeNode) GetGlobalDecl() []cir.Decl              { return nil }
func (n *fakeNode) GetExternalIncludes() []string          { return nil }
func (n *fakeNode) ResetFuncName() string                  { return "" }
func (n *fakeNode) IsEnableOutput() bool                   { return n.enableOp }

type fakeLookup map[graph.NodeID]graph.Node

func (l fakeLookup) Node(id graph.NodeID) (graph.Node, bool) {
	n, ok := l[id]
	return n, ok
}

func int32Scalar() graph.DataType {
	return graph.DataType{Base: graph.Int32, Signed: true, Shape: []int{1}}
}

func TestInsertFIFOsCreatesOneFIFOPerGroup(t *testing.T) {
	src := &fakeNode{id: "src", part: 0, parent: "subsysA"}
	dst := &fakeNode{id: "dst", part: 1, parent: "subsysB"}
	lookup := fakeLookup{"src": src, "dst": dst}

	srcPort := graph.Port{Node: "src", Index: 0, Type: int32Scalar()}
	arc := graph.Arc{Src: srcPort, Dst: graph.Port{Node: "dst", Index: 0, Type: int32Scalar()}}

	groups := map[PartitionPair][]ArcGroup{
		{Src: 0, Dst: 1}: {ArcGroup{arc}},
	}

	results, err := InsertFIFOs(groups, lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 inserted FIFO, got %d", len(results))
	}
	got := results[0]
	if got.FIFO.Name != "PartitionCrossingFIFO_0_TO_1_0" {
		t.Errorf("unexpected FIFO name %q", got.FIFO.Name)
	}
	if got.Parent != "subsysA" {
		t.Errorf("expected parent subsysA, got %q", got.Parent)
	}
	if len(got.Rewritten) != 1 || got.Rewritten[0].Src.Node != graph.NodeID("PartitionCrossingFIFO_0_TO_1_0") {
		t.Errorf("expected rewritten arc to source from the new FIFO, got %+v", got.Rewritten)
	}
	if got.Rewritten[0].Dst.Node != "dst" {
		t.Errorf("expected destination port unchanged, got %+v", got.Rewritten[0].Dst)
	}
}

func TestInsertFIFOsParentsOneLevelUpForEnableOutput(t *testing.T) {
	enabledCtx := &fakeNode{id: "enabledCtx", part: 0, parent: "outerSubsys"}
	src := &fakeNode{id: "src", part: 0, parent: "enabledCtx", enableOp: true}
	dst := &fakeNode{id: "dst", part: 1, parent: "subsysB"}
	lookup := fakeLookup{"enabledCtx": enabledCtx, "src": src, "dst": dst}

	srcPort := graph.Port{Node: "src", Index: 0, Type: int32Scalar()}
	arc := graph.Arc{Src: srcPort, Dst: graph.Port{Node: "dst", Index: 0, Type: int32Scalar()}}

	groups := map[PartitionPair][]ArcGroup{
		{Src: 0, Dst: 1}: {ArcGroup{arc}},
	}

	results, err := InsertFIFOs(groups, lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Parent != "outerSubsys" {
		t.Errorf("expected enable-output source to parent one level up, got %q", results[0].Parent)
	}
}

func TestInsertFIFOsRejectsEmptyGroup(t *testing.T) {
	lookup := fakeLookup{}
	groups := map[PartitionPair][]ArcGroup{
		{Src: 0, Dst: 1}: {ArcGroup{}},
	}
	if _, err := InsertFIFOs(groups, lookup); err == nil {
		t.Fatal("expected ErrEmptyArcGroup")
	}
}

func TestInsertFIFOsRejectsMixedSourcePorts(t *testing.T) {
	srcA := &fakeNode{id: "srcA", part: 0, parent: "sub"}
	srcB := &fakeNode{id: "srcB", part: 0, parent: "sub"}
	dst := &fakeNode{id: "dst", part: 1, parent: "sub2"}
	lookup := fakeLookup{"srcA": srcA, "srcB": srcB, "dst": dst}

	arc1 := graph.Arc{Src: graph.Port{Node: "srcA", Index: 0}, Dst: graph.Port{Node: "dst", Index: 0}}
	arc2 := graph.Arc{Src: graph.Port{Node: "srcB", Index: 0}, Dst: graph.Port{Node: "dst", Index: 1}}

	groups := map[PartitionPair][]ArcGroup{
		{Src: 0, Dst: 1}: {ArcGroup{arc1, arc2}},
	}
	if _, err := InsertFIFOs(groups, lookup); err == nil {
		t.Fatal("expected ErrArcGroupSourceMismatch")
	}
}

func TestInsertFIFOsRejectsDestinationOutsideStatedPartition(t *testing.T) {
	src := &fakeNode{id: "src", part: 0, parent: "sub"}
	wrongDst := &fakeNode{id: "wrongDst", part: 2, parent: "sub3"}
	lookup := fakeLookup{"src": src, "wrongDst": wrongDst}

	arc := graph.Arc{Src: graph.Port{Node: "src", Index: 0}, Dst: graph.Port{Node: "wrongDst", Index: 0}}
	groups := map[PartitionPair][]ArcGroup{
		{Src: 0, Dst: 1}: {ArcGroup{arc}},
	}
	if _, err := InsertFIFOs(groups, lookup); err == nil {
		t.Fatal("expected ErrArcGroupDestPartitionMismatch")
	}
}
