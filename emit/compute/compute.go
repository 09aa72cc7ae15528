// Package compute emits the per-partition compute and reset C functions:
// <design>_partition<P>_compute and <design>_partition<P>_reset. It is built
// on the cir IR rather than string concatenation so that emitting the same
// Partition twice yields byte-identical text by construction.
package compute

import (
	"fmt"
	"sort"

	"golang.org/x/xerrors"

	"github.com/cyarp/vitis-mtengine/cir"
	"github.com/cyarp/vitis-mtengine/config"
	"github.com/cyarp/vitis-mtengine/fifo"
	"github.com/cyarp/vitis-mtengine/graph"
	"github.com/cyarp/vitis-mtengine/rate"
)

// PortBinding names the C parameter a FIFO port is passed under. Every port
// gets exactly one pointer parameter (const-qualified for inputs) whatever
// the double-buffer mode; no separate current/next buffer pointers are
// emitted per port.
type PortBinding struct {
	FIFO      *fifo.FIFO
	ParamName string
}

// Partition is the read-only input the compute emitter needs: the node
// schedule (already ordered upstream — this package only filters and
// emits, it does not sort by dependency), the FIFO ports bound to this
// partition's compute function, and the rate plan covering every non-base
// rate those FIFOs run at.
type Partition struct {
	Design    string
	Number    int
	BlockSize int

	Nodes   []graph.Node
	Inputs  []PortBinding
	Outputs []PortBinding

	Plan   *rate.Plan
	Double config.DoubleBufferMode
}

// ErrNoSchedule is returned when a partition has no nodes to emit.
var ErrNoSchedule = xerrors.New("partition has no scheduled nodes")

func computeFuncName(design string, partition int) string {
	return fmt.Sprintf("%s_partition%s_compute", design, graph.PartitionName(partition))
}

func resetFuncName(design string, partition int) string {
	return fmt.Sprintf("%s_partition%s_reset", design, graph.PartitionName(partition))
}

func stateType(design string, partition int) string {
	return fmt.Sprintf("%s_partition%s_state_t", design, graph.PartitionName(partition))
}

// EmitCompute builds the compute function's IR.
func EmitCompute(p Partition) (cir.FuncDecl, error) {
	if len(p.Nodes) == 0 {
		return cir.FuncDecl{}, ErrNoSchedule
	}

	params := []cir.Param{{Type: "struct " + stateType(p.Design, p.Number) + " *", Name: "state"}}
	for _, in := range p.Inputs {
		elemType := in.FIFO.ElementType.CPUStorageType().String()
		params = append(params, cir.Param{Type: "const " + elemType + " *", Name: in.ParamName})
	}
	for _, out := range p.Outputs {
		elemType := out.FIFO.ElementType.CPUStorageType().String()
		params = append(params, cir.Param{Type: elemType + " *", Name: out.ParamName})
	}

	var body []cir.Stmt

	// Step 1: declare rate indices/counters.
	if p.Plan != nil {
		for _, d := range p.Plan.Declarations() {
			body = append(body, d)
		}
	}

	var loopBody []cir.Stmt

	// Step 3: emit each scheduled operator in schedule order, skipping
	// negative schedule orders.
	sorted := make([]graph.Node, len(p.Nodes))
	copy(sorted, p.Nodes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ScheduleOrder() < sorted[j].ScheduleOrder() })

	nodeOutputVar := map[graph.NodeID][]cir.Expr{}
	for _, n := range sorted {
		if n.ScheduleOrder() < 0 {
			continue
		}
		inputExprs := make([]cir.Expr, len(n.Inputs()))
		for i, port := range n.Inputs() {
			if outs, ok := nodeOutputVar[port.Node]; ok && port.Index < len(outs) {
				inputExprs[i] = outs[port.Index]
			} else {
				inputExprs[i] = cir.Var{Name: fmt.Sprintf("%s_out%d", port.Node, port.Index)}
			}
		}

		outs := make([]cir.Expr, len(n.Outputs()))
		for oi := range n.Outputs() {
			varName := fmt.Sprintf("%s_out%d", n.ID(), oi)
			outs[oi] = cir.Var{Name: varName}
			loopBody = append(loopBody, cir.Decl{
				Type: n.Outputs()[oi].Type.CPUStorageType().String(),
				Name: varName,
				Init: n.EmitCExpr(oi, inputExprs),
			})
		}
		nodeOutputVar[n.ID()] = outs

		if n.HasState() {
			loopBody = append(loopBody, cir.ExprStmt{Expr: cir.Raw{Text: fmt.Sprintf("/* %s next-state computed below */", n.ID())}})
			nextState := n.EmitCExprNextState(inputExprs)
			if nextState != nil {
				loopBody = append(loopBody, cir.Assign{Dst: cir.Var{Name: fmt.Sprintf("%s_next", n.ID())}, Src: nextState})
			}
			loopBody = append(loopBody, n.EmitCStateUpdate()...)
		}
	}

	// Step 4: rate advancement.
	if p.Plan != nil {
		loopBody = append(loopBody, p.Plan.AdvanceStatements()...)
	}

	// Step 5: double-buffer mirroring at period boundaries.
	if p.Double.Any() && p.Plan != nil {
		for _, v := range p.Plan.Vars {
			loopBody = append(loopBody, mirrorOnPeriodBoundary(v)...)
		}
	}

	// Step 2 / 6: open/close the outer loop when B > 1.
	if p.BlockSize > 1 {
		body = append(body, cir.For{
			Init: cir.Decl{Type: "int", Name: "i", Init: cir.Lit{Text: "0"}},
			Cond: cir.BinOp{Op: "<", Left: cir.Var{Name: "i"}, Right: cir.Lit{Text: fmt.Sprintf("%d", p.BlockSize)}},
			Post: cir.Assign{Dst: cir.Var{Name: "i"}, Op: "+=", Src: cir.Lit{Text: "1"}},
			Body: cir.Block{Stmts: loopBody},
		})
	} else {
		body = append(body, loopBody...)
	}

	return cir.FuncDecl{
		ReturnType: "void",
		Name:       computeFuncName(p.Design, p.Number),
		Params:     params,
		Body:       &cir.Block{Stmts: body},
	}, nil
}

// mirrorOnPeriodBoundary emits the "copy into the mirrored double-buffer
// slot when this rate's counter just wrapped" guard for one index variable.
// Pure upsample/base rates mirror every iteration (no counter to gate on).
func mirrorOnPeriodBoundary(v rate.IndexVar) []cir.Stmt {
	mirror := cir.ExprStmt{Expr: cir.Call{
		Func: cir.Var{Name: "memcpy"},
		Args: []cir.Expr{
			cir.Var{Name: "next"},
			cir.Var{Name: "current"},
			cir.Raw{Text: fmt.Sprintf("sizeof(*current) /* rate %d/%d */", v.Rate.P, v.Rate.Q)},
		},
	}}
	if !v.HasCounter() {
		return []cir.Stmt{mirror}
	}
	return []cir.Stmt{cir.If{
		Cond: cir.BinOp{Op: "==", Left: cir.Var{Name: v.CounterName}, Right: cir.Lit{Text: "0"}},
		Then: cir.Block{Stmts: []cir.Stmt{mirror}},
	}}
}

// EmitReset builds the reset function's IR: it reinitializes every stateful
// node's state variables from their declared initial values and invokes
// reset methods on black-box nodes via their ResetFuncName.
func EmitReset(p Partition) cir.FuncDecl {
	var body []cir.Stmt
	for _, n := range p.Nodes {
		if !n.HasState() {
			continue
		}
		for _, decl := range n.GetCStateVars() {
			if decl.Init != nil {
				body = append(body, cir.Assign{
					Dst: cir.Field{Base: cir.Deref{Inner: cir.Var{Name: "state"}}, Name: decl.Name},
					Src: decl.Init,
				})
			}
		}
		if fn := n.ResetFuncName(); fn != "" {
			body = append(body, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: fn}, Args: []cir.Expr{
				cir.Addr{Inner: cir.Field{Base: cir.Deref{Inner: cir.Var{Name: "state"}}, Name: string(n.ID())}},
			}}})
		}
	}

	return cir.FuncDecl{
		ReturnType: "void",
		Name:       resetFuncName(p.Design, p.Number),
		Params:     []cir.Param{{Type: "struct " + stateType(p.Design, p.Number) + " *", Name: "state"}},
		Body:       &cir.Block{Stmts: body},
	}
}

// GlobalDecls collects every node's GetGlobalDecl output, deduplicated by
// name and sorted for deterministic emission (P9).
func GlobalDecls(nodes []graph.Node) []cir.Decl {
	seen := map[string]cir.Decl{}
	for _, n := range nodes {
		for _, d := range n.GetGlobalDecl() {
			seen[d.Name] = d
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]cir.Decl, len(names))
	for i, name := range names {
		out[i] = seen[name]
	}
	return out
}

// ExternalIncludes collects every node's GetExternalIncludes output,
// deduplicated and sorted for deterministic emission (P9).
func ExternalIncludes(nodes []graph.Node) []string {
	seen := map[string]bool{}
	for _, n := range nodes {
		for _, inc := range n.GetExternalIncludes() {
			seen[inc] = true
		}
	}
	out := make([]string, 0, len(seen))
	for inc := range seen {
		out = append(out, inc)
	}
	sort.Strings(out)
	return out
}
