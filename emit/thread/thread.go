// Package thread emits the per-partition thread entry point
// (<design>_partition<P>_thread) and its FIFO-readiness-check helper
// (readiness.go). The eight ordered setup/loop steps follow the teacher's
// layered build-up style (declare locals, then the loop, one stanza per
// concern) rather than one monolithic statement list.
package thread

import (
	"fmt"

	"github.com/cyarp/vitis-mtengine/cir"
	"github.com/cyarp/vitis-mtengine/config"
	"github.com/cyarp/vitis-mtengine/fifo"
	"github.com/cyarp/vitis-mtengine/graph"
)

// Partition is the thread emitter's input: the FIFOs this partition reads
// from and writes to (each tagged in-place or not), the design's telemetry
// and double-buffer configuration, and the compute/reset function names to
// call.
type Partition struct {
	Design string
	Number int

	Inputs  []*fifo.FIFO
	Outputs []*fifo.FIFO

	Telem  config.TelemLevel
	Double config.DoubleBufferMode

	ComputeFunc string
	ResetFunc   string
}

func threadFuncName(design string, partition int) string {
	return fmt.Sprintf("%s_partition%s_thread", design, graph.PartitionName(partition))
}

func stateLocalType(design string, partition int) string {
	return fmt.Sprintf("%s_partition%s_state_t", design, graph.PartitionName(partition))
}

func polledInputs(fifos []*fifo.FIFO) []PolledFIFO {
	out := make([]PolledFIFO, len(fifos))
	for i, f := range fifos {
		out[i] = PolledFIFO{FIFO: f, Role: RoleConsumer}
	}
	return out
}

func polledOutputs(fifos []*fifo.FIFO) []PolledFIFO {
	out := make([]PolledFIFO, len(fifos))
	for i, f := range fifos {
		out[i] = PolledFIFO{FIFO: f, Role: RoleProducer}
	}
	return out
}

// cancellationCheck is the thread function's poll-time cancellation point:
// a bare pthread_testcancel() call, matching spec.md §5's "cancellation
// only at explicit cancellation points (the readiness-poll helper)".
func cancellationCheck() cir.Stmt {
	return cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "pthread_testcancel"}}}
}

// EmitThread builds the thread function's IR following the eight ordered steps.
func EmitThread(p Partition) cir.FuncDecl {
	var body []cir.Stmt

	// Step 1: recover the argument struct; copy FIFO handles into locals.
	body = append(body, cir.Decl{
		Type: "struct " + p.Design + "_partition" + graph.PartitionName(p.Number) + "_args *",
		Name: "targs",
		Init: cir.Cast{Type: "struct " + p.Design + "_partition" + graph.PartitionName(p.Number) + "_args *", Inner: cir.Var{Name: "args"}},
	})
	for _, f := range append(append([]*fifo.FIFO{}, p.Inputs...), p.Outputs...) {
		body = append(body, cir.Decl{
			Type: f.Name + "_t *",
			Name: f.Name + "_local",
			Init: cir.Field{Base: cir.Deref{Inner: cir.Var{Name: "targs"}}, Name: f.Name, Arrow: false},
		})
	}

	// Step 2: allocate partition state on the stack; call reset.
	body = append(body, cir.Decl{Type: "struct " + stateLocalType(p.Design, p.Number), Name: "state"})
	body = append(body, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: p.ResetFunc}, Args: []cir.Expr{cir.Addr{Inner: cir.Var{Name: "state"}}}}})

	// Step 3: telemetry setup.
	if p.Telem.Enabled() {
		body = append(body, cir.Comment{Text: "telemetry: capture clock resolution, open dump file, init counters"})
		body = append(body, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "clock_getres"}, Args: []cir.Expr{
			cir.Lit{Text: "CLOCK_MONOTONIC"}, cir.Addr{Inner: cir.Var{Name: "telem_resolution"}},
		}}})
		if p.Telem.UsesPAPI() {
			body = append(body, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "PAPI_create_eventset"}, Args: []cir.Expr{
				cir.Addr{Inner: cir.Var{Name: "telem_eventset"}},
			}}})
		}
	}

	// Step 4: cached cursor locals.
	for _, f := range p.Inputs {
		if f.Caching.CachesConsumerSide() {
			body = append(body, cir.Decl{Type: "uint64_t", Name: f.Name + "_cached", Init: cir.Lit{Text: "0"}})
		}
	}
	for _, f := range p.Outputs {
		if f.Caching.CachesProducerSide() {
			body = append(body, cir.Decl{Type: "uint64_t", Name: f.Name + "_cached", Init: cir.Lit{Text: "0"}})
		}
	}

	// Step 5: non-in-place scratch temporaries.
	for _, f := range append(append([]*fifo.FIFO{}, p.Inputs...), p.Outputs...) {
		if !f.InPlace {
			body = append(body, cir.Decl{Type: f.ElementType.CPUStorageType().String(), Name: f.Name + "_scratch"})
		}
	}

	// Step 6: double-buffer current/next/prev pointers.
	if p.Double.Any() {
		for _, f := range p.Inputs {
			if p.Double.Input() {
				body = append(body, cir.Decl{Type: f.ElementType.CPUStorageType().String() + " *", Name: f.Name + "_current"})
				body = append(body, cir.Decl{Type: f.ElementType.CPUStorageType().String() + " *", Name: f.Name + "_next"})
			}
		}
		for _, f := range p.Outputs {
			if p.Double.Output() {
				body = append(body, cir.Decl{Type: f.ElementType.CPUStorageType().String() + " *", Name: f.Name + "_current"})
				body = append(body, cir.Decl{Type: f.ElementType.CPUStorageType().String() + " *", Name: f.Name + "_prev"})
			}
		}
	}

	// Step 7: prime the double buffer(s).
	if p.Double.Any() {
		body = append(body, cir.Block{Stmts: Emit(primingReadiness(p), Config{Blocking: true, ShortCircuit: true, CancellationCheck: cancellationCheck()})})
		if p.Double.Input() {
			for _, f := range p.Inputs {
				body = append(body, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "memcpy"}, Args: []cir.Expr{
					cir.Var{Name: f.Name + "_current"}, cir.Var{Name: f.Name + "_local"}, cir.Raw{Text: "sizeof(*" + f.Name + "_current)"},
				}}})
			}
		}
		if p.Double.Output() {
			body = append(body, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: p.ComputeFunc}, Args: computeArgs(p, "_prev")}})
			for _, f := range p.Outputs {
				body = append(body, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "swap_ptr"}, Args: []cir.Expr{
					cir.Addr{Inner: cir.Var{Name: f.Name + "_current"}}, cir.Addr{Inner: cir.Var{Name: f.Name + "_prev"}},
				}}})
			}
		}
	}

	// Step 8: main loop.
	var loopBody []cir.Stmt
	firstIterFlag := cir.Var{Name: "first_iteration"}
	body = append(body, cir.Decl{Type: "bool", Name: "first_iteration", Init: cir.Lit{Text: "true"}})

	if p.Telem.Enabled() {
		loopBody = append(loopBody, cir.If{
			Cond: cir.BinOp{Op: ">=", Left: cir.Var{Name: "telem_elapsed"}, Right: cir.Var{Name: "telem_interval"}},
			Then: cir.Block{Stmts: telemetryIntervalStmts(p)},
		})
	}

	loopBody = append(loopBody, cir.Block{Stmts: Emit(polledInputs(p.Inputs), Config{Blocking: true, ShortCircuit: true, CancellationCheck: cancellationCheck()})})

	var inPlaceOutputs, nonInPlaceOutputs []*fifo.FIFO
	for _, f := range p.Outputs {
		if f.InPlace {
			inPlaceOutputs = append(inPlaceOutputs, f)
		} else {
			nonInPlaceOutputs = append(nonInPlaceOutputs, f)
		}
	}
	if len(inPlaceOutputs) > 0 {
		loopBody = append(loopBody, cir.Block{Stmts: Emit(polledOutputs(inPlaceOutputs), Config{Blocking: true, ShortCircuit: true, CancellationCheck: cancellationCheck()})})
	}

	loopBody = append(loopBody, cir.Comment{Text: "obtain read pointers / copy non-in-place reads into scratch"})
	loopBody = append(loopBody, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: p.ComputeFunc}, Args: computeArgs(p, "")}})

	if len(nonInPlaceOutputs) > 0 {
		loopBody = append(loopBody, cir.Block{Stmts: Emit(polledOutputs(nonInPlaceOutputs), Config{Blocking: true, ShortCircuit: true, CancellationCheck: cancellationCheck()})})
		loopBody = append(loopBody, cir.Comment{Text: "copy from write temps into FIFOs"})
	}

	for _, f := range p.Inputs {
		loopBody = append(loopBody, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "publish_read"}, Args: []cir.Expr{cir.Var{Name: f.Name + "_local"}}}})
	}
	for _, f := range inPlaceOutputs {
		loopBody = append(loopBody, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "publish_write"}, Args: []cir.Expr{cir.Var{Name: f.Name + "_local"}}}})
	}

	if p.Double.Any() {
		for _, f := range p.Inputs {
			if p.Double.Input() {
				loopBody = append(loopBody, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "swap_ptr"}, Args: []cir.Expr{
					cir.Addr{Inner: cir.Var{Name: f.Name + "_current"}}, cir.Addr{Inner: cir.Var{Name: f.Name + "_next"}},
				}}})
			}
		}
		for _, f := range p.Outputs {
			if p.Double.Output() {
				loopBody = append(loopBody, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "swap_ptr"}, Args: []cir.Expr{
					cir.Addr{Inner: cir.Var{Name: f.Name + "_current"}}, cir.Addr{Inner: cir.Var{Name: f.Name + "_prev"}},
				}}})
			}
		}
	}

	if p.Telem.Enabled() {
		loopBody = append(loopBody, cir.If{
			Cond: firstIterFlag,
			Then: cir.Block{Stmts: []cir.Stmt{
				cir.Comment{Text: "first successful iteration: reset telemetry counters, removing warm-up"},
				cir.Assign{Dst: cir.Var{Name: "telem_elapsed"}, Src: cir.Lit{Text: "0"}},
			}},
		})
	}
	loopBody = append(loopBody, cir.Assign{Dst: firstIterFlag, Src: cir.Lit{Text: "false"}})

	body = append(body, cir.For{
		Cond: cir.Lit{Text: "1"},
		Body: cir.Block{Stmts: loopBody},
	})
	body = append(body, cir.Return{Value: cir.Lit{Text: "NULL"}})

	return cir.FuncDecl{
		ReturnType: "void *",
		Name:       threadFuncName(p.Design, p.Number),
		Params:     []cir.Param{{Type: "void *", Name: "args"}},
		Body:       &cir.Block{Stmts: body},
	}
}

func computeArgs(p Partition, outputSuffix string) []cir.Expr {
	args := []cir.Expr{cir.Addr{Inner: cir.Var{Name: "state"}}}
	for _, f := range p.Inputs {
		args = append(args, portExpr(f, p.Double.Input(), "_current"))
	}
	for _, f := range p.Outputs {
		args = append(args, portExpr(f, p.Double.Output(), outputSuffix))
	}
	return args
}

func portExpr(f *fifo.FIFO, doubled bool, suffix string) cir.Expr {
	if doubled && suffix != "" {
		return cir.Var{Name: f.Name + suffix}
	}
	if doubled {
		return cir.Var{Name: f.Name + "_current"}
	}
	if f.InPlace {
		return cir.Var{Name: f.Name + "_local"}
	}
	return cir.Addr{Inner: cir.Var{Name: f.Name + "_scratch"}}
}

func primingReadiness(p Partition) []PolledFIFO {
	if p.Double.Input() {
		return polledInputs(p.Inputs)
	}
	return nil
}

func telemetryIntervalStmts(p Partition) []cir.Stmt {
	stmts := []cir.Stmt{
		cir.Comment{Text: "compute rates for the interval"},
	}
	if p.Telem.UsesPAPI() {
		stmts = append(stmts, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "PAPI_read"}, Args: []cir.Expr{
			cir.Var{Name: "telem_eventset"}, cir.Var{Name: "telem_papi_values"},
		}}})
	}
	stmts = append(stmts, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "telemetry_write_row"}, Args: []cir.Expr{
		cir.Var{Name: "telem_file"},
	}}})
	stmts = append(stmts, cir.Assign{Dst: cir.Var{Name: "telem_elapsed"}, Src: cir.Lit{Text: "0"}})
	return stmts
}
