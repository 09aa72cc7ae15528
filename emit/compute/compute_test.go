package compute

import (
	"strings"
	"testing"

	"github.com/cyarp/vitis-mtengine/cir"
	"github.com/cyarp/vitis-mtengine/config"
	"github.com/cyarp/vitis-mtengine/fifo"
	"github.com/cyarp/vitis-mtengine/graph"
	"github.com/cyarp/vitis-mtengine/rate"
)

type addNode struct {
	id    graph.NodeID
	order int
}

func (n *addNode) ID() graph.NodeID             { return n.id }
func (n *addNode) Kind() graph.NodeKind         { return graph.KindPrimitive }
func (n *addNode) Partition() int               { return 1 }
func (n *addNode) ScheduleOrder() int           { return n.order }
func (n *addNode) Parent() graph.NodeID         { return "" }
func (n *addNode) Inputs() []graph.Port {
	return []graph.Port{{Node: "in", Index: 0}, {Node: "in", Index: 0}}
}
func (n *addNode) Outputs() []graph.Port {
	return []graph.Port{{Type: graph.DataType{Base: graph.Int32, Shape: []int{1}}}}
}
func (n *addNode) HasState() bool                       { return false }
func (n *addNode) GetCStateVars() []cir.Decl            { return nil }
func (n *addNode) EmitCExpr(idx int, in []cir.Expr) cir.Expr {
	return cir.BinOp{Op: "+", Left: in[0], Right: in[1]}
}
func (n *addNode) EmitCExprNextState([]cir.Expr) cir.Expr { return nil }
func (n *addNode) EmitCStateUpdate() []cir.Stmt          { return nil }
func (n *addNode) GetGlobalDecl() []cir.Decl             { return nil }
func (n *addNode) GetExternalIncludes() []string         { return nil }
func (n *addNode) ResetFuncName() string                 { return "" }

func scalarFIFO() *fifo.FIFO {
	f := fifo.New("f", 0, 1)
	f.ElementType = graph.DataType{Base: graph.Int32, Shape: []int{1}}
	f.BlockSizeIn, f.BlockSizeOut = 1, 1
	return f
}

func TestEmitComputeRejectsEmptySchedule(t *testing.T) {
	if _, err := EmitCompute(Partition{Design: "d", Number: 1, BlockSize: 1}); err == nil {
		t.Fatal("expected ErrNoSchedule")
	}
}

func TestEmitComputeNamesFunctionAndParams(t *testing.T) {
	p := Partition{
		Design:    "myeng",
		Number:    1,
		BlockSize: 1,
		Nodes:     []graph.Node{&addNode{id: "n0", order: 0}},
		Inputs:    []PortBinding{{FIFO: scalarFIFO(), ParamName: "in0"}},
		Outputs:   []PortBinding{{FIFO: scalarFIFO(), ParamName: "out0"}},
	}
	fn, err := EmitCompute(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fn.Name != "myeng_partition1_compute" {
		t.Errorf("unexpected function name %q", fn.Name)
	}
	if len(fn.Params) != 3 {
		t.Fatalf("expected 3 params (state, in0, out0), got %d", len(fn.Params))
	}
	if !strings.Contains(fn.Params[1].Type, "const") {
		t.Errorf("expected input param to be const-qualified, got %q", fn.Params[1].Type)
	}
	if strings.Contains(fn.Params[2].Type, "const") {
		t.Errorf("expected output param to be non-const, got %q", fn.Params[2].Type)
	}
}

func TestEmitComputeOpensLoopOnlyWhenBlockSizeGreaterThanOne(t *testing.T) {
	single := Partition{Design: "d", Number: 0, BlockSize: 1, Nodes: []graph.Node{&addNode{id: "n0"}}}
	fnSingle, _ := EmitCompute(single)
	textSingle := cir.RenderFunc(fnSingle)
	if strings.Contains(textSingle, "for (") {
		t.Error("expected no outer loop when BlockSize == 1")
	}

	blocked := Partition{Design: "d", Number: 0, BlockSize: 4, Nodes: []graph.Node{&addNode{id: "n0"}}}
	fnBlocked, _ := EmitCompute(blocked)
	textBlocked := cir.RenderFunc(fnBlocked)
	if !strings.Contains(textBlocked, "for (") {
		t.Error("expected an outer loop when BlockSize > 1")
	}
}

func TestEmitComputeSkipsNegativeScheduleOrder(t *testing.T) {
	p := Partition{
		Design:    "d",
		Number:    0,
		BlockSize: 1,
		Nodes: []graph.Node{
			&addNode{id: "visible", order: 0},
			&addNode{id: "hidden", order: -1},
		},
	}
	fn, err := EmitCompute(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := cir.RenderFunc(fn)
	if strings.Contains(text, "hidden_out0") {
		t.Error("expected negative-schedule-order node to be skipped")
	}
	if !strings.Contains(text, "visible_out0") {
		t.Error("expected positive-schedule-order node to be emitted")
	}
}

func TestEmitComputeIsDeterministicAcrossRepeatedRenders(t *testing.T) {
	plan, err := rate.NewPlan(4, []graph.Rate{{P: 1, Q: 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := Partition{
		Design:    "d",
		Number:    0,
		BlockSize: 4,
		Nodes:     []graph.Node{&addNode{id: "n0"}},
		Plan:      plan,
		Double:    config.DoubleBufferInputAndOutput,
	}
	fn1, err := EmitCompute(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fn2, err := EmitCompute(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cir.RenderFunc(fn1) != cir.RenderFunc(fn2) {
		t.Error("expected repeated emission of the same Partition to render identically")
	}
}

func TestEmitResetInvokesBlackBoxResetFuncs(t *testing.T) {
	stateful := &statefulNode{id: "bbox", resetFn: "bbox_reset"}
	p := Partition{Design: "d", Number: 2, Nodes: []graph.Node{stateful}}
	fn := EmitReset(p)
	text := cir.RenderFunc(fn)
	if !strings.Contains(text, "bbox_reset(") {
		t.Errorf("expected reset function to call bbox_reset, got:\n%s", text)
	}
}

type statefulNode struct {
	id      graph.NodeID
	resetFn string
}

func (n *statefulNode) ID() graph.NodeID                      { return n.id }
func (n *statefulNode) Kind() graph.NodeKind                  { return graph.KindPrimitive }
func (n *statefulNode) Partition() int                        { return 2 }
func (n *statefulNode) ScheduleOrder() int                     { return 0 }
func (n *statefulNode) Parent() graph.NodeID                  { return "" }
func (n *statefulNode) Inputs() []graph.Port                  { return nil }
func (n *statefulNode) Outputs() []graph.Port                 { return nil }
func (n *statefulNode) HasState() bool                        { return true }
func (n *statefulNode) GetCStateVars() []cir.Decl {
	return []cir.Decl{{Type: "int32_t", Name: "acc", Init: cir.Lit{Text: "0"}}}
}
func (n *statefulNode) EmitCExpr(int, []cir.Expr) cir.Expr     { return nil }
func (n *statefulNode) EmitCExprNextState([]cir.Expr) cir.Expr { return nil }
func (n *statefulNode) EmitCStateUpdate() []cir.Stmt           { return nil }
func (n *statefulNode) GetGlobalDecl() []cir.Decl              { return nil }
func (n *statefulNode) GetExternalIncludes() []string          { return nil }
func (n *statefulNode) ResetFuncName() string                  { return n.resetFn }

func TestGlobalDeclsAndExternalIncludesDeduplicateAndSort(t *testing.T) {
	a := &globalNode{decls: []cir.Decl{{Type: "int", Name: "z"}}, includes: []string{"b.h"}}
	b := &globalNode{decls: []cir.Decl{{Type: "int", Name: "a"}, {Type: "int", Name: "z"}}, includes: []string{"a.h", "b.h"}}

	decls := GlobalDecls([]graph.Node{a, b})
	if len(decls) != 2 || decls[0].Name != "a" || decls[1].Name != "z" {
		t.Fatalf("expected deduplicated sorted decls [a z], got %+v", decls)
	}
	includes := ExternalIncludes([]graph.Node{a, b})
	if len(includes) != 2 || includes[0] != "a.h" || includes[1] != "b.h" {
		t.Fatalf("expected deduplicated sorted includes [a.h b.h], got %+v", includes)
	}
}

type globalNode struct {
	decls    []cir.Decl
	includes []string
}

func (n *globalNode) ID() graph.NodeID                      { return "g" }
func (n *globalNode) Kind() graph.NodeKind                  { return graph.KindPrimitive }
func (n *globalNode) Partition() int                        { return 0 }
func (n *globalNode) ScheduleOrder() int                     { return 0 }
func (n *globalNode) Parent() graph.NodeID                  { return "" }
func (n *globalNode) Inputs() []graph.Port                  { return nil }
func (n *globalNode) Outputs() []graph.Port                 { return nil }
func (n *globalNode) HasState() bool                        { return false }
func (n *globalNode) GetCStateVars() []cir.Decl             { return nil }
func (n *globalNode) EmitCExpr(int, []cir.Expr) cir.Expr     { return nil }
func (n *globalNode) EmitCExprNextState([]cir.Expr) cir.Expr { return nil }
func (n *globalNode) EmitCStateUpdate() []cir.Stmt           { return nil }
func (n *globalNode) GetGlobalDecl() []cir.Decl             { return n.decls }
func (n *globalNode) GetExternalIncludes() []string         { return n.includes }
func (n *globalNode) ResetFuncName() string                 { return "" }
