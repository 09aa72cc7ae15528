// Package kernel emits the zero-argument coordinator entry function: FIFO
// allocation, thread argument population, PAPI/SCHED_FIFO setup, thread
// creation/pinning, the stack-guard check, and the join-then-cancel
// teardown sequence.
package kernel

import (
	"fmt"
	"sort"

	"github.com/cyarp/vitis-mtengine/cir"
	"github.com/cyarp/vitis-mtengine/config"
	"github.com/cyarp/vitis-mtengine/fifo"
	"github.com/cyarp/vitis-mtengine/graph"
)

// Design is the coordinator emitter's input: every FIFO in the design, the
// (possibly I/O) partition numbers that need a thread, and the engine
// configuration.
type Design struct {
	Name        string
	FIFOs       []*fifo.FIFO
	Partitions  []int // non-I/O partitions, in thread-creation order
	IOPartition int   // the I/O partition number
	Cfg         config.Config
}

func entryFuncName(design string) string { return design + "_coordinator_main" }

// Emit builds the coordinator function's IR, following the seven steps in
// order.
func Emit(d Design) cir.FuncDecl {
	var body []cir.Stmt

	// Step 1: allocate/initialize every FIFO's shared buffer NUMA-local to
	// its producer partition's pinned core; write initial conditions; set
	// cursors to the initial occupancy.
	sorted := make([]*fifo.FIFO, len(d.FIFOs))
	copy(sorted, d.FIFOs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for _, f := range sorted {
		core, pinned, _ := coreForPartition(d.Cfg.CoreMap, f.SrcPartition, d.IOPartition)
		allocFunc := "numa_alloc_generic"
		args := []cir.Expr{cir.Var{Name: f.Name + "_buf_size"}}
		if pinned {
			allocFunc = "numa_alloc_on_core"
			args = append(args, cir.Lit{Text: fmt.Sprintf("%d", core)})
		}
		body = append(body, cir.Assign{
			Dst: cir.Var{Name: f.Name + "_buf"},
			Src: cir.Call{Func: cir.Var{Name: allocFunc}, Args: args},
		})
		prod, cons := f.InitialCursors()
		body = append(body, cir.Assign{Dst: cir.Var{Name: f.Name + "_producer_cursor"}, Src: cir.Lit{Text: fmt.Sprintf("%d", prod)}})
		body = append(body, cir.Assign{Dst: cir.Var{Name: f.Name + "_consumer_cursor"}, Src: cir.Lit{Text: fmt.Sprintf("%d", cons)}})
		if f.OccupiedBlocks() > 0 {
			body = append(body, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "memcpy"}, Args: []cir.Expr{
				cir.Var{Name: f.Name + "_buf"}, cir.Var{Name: f.Name + "_init_conditions"}, cir.Raw{Text: "sizeof(" + f.Name + "_init_conditions)"},
			}}})
		}
	}

	// Step 2: populate each per-thread argument struct with FIFO handles.
	for _, p := range append(append([]int{}, d.Partitions...), d.IOPartition) {
		for _, f := range sorted {
			if f.SrcPartition == p || f.DstPartition == p {
				body = append(body, cir.Assign{
					Dst: cir.Field{Base: cir.Var{Name: argsVar(d.Name, p)}, Name: f.Name, Arrow: false},
					Src: cir.Var{Name: f.Name + "_buf"},
				})
			}
		}
	}

	// Step 3: optional PAPI setup.
	if d.Cfg.TelemLevel.UsesPAPI() {
		body = append(body, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "PAPI_library_init"}, Args: []cir.Expr{cir.Lit{Text: "PAPI_VER_CURRENT"}}}})
	}

	// Step 4: thread attributes, SCHED_FIFO, CPU affinity.
	allPartitions := append(append([]int{}, d.Partitions...), d.IOPartition)
	for _, p := range allPartitions {
		name := graph.PartitionName(p)
		body = append(body, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "pthread_attr_init"}, Args: []cir.Expr{cir.Addr{Inner: cir.Var{Name: "attr" + name}}}}})
		if d.Cfg.UseSCHEDFIFO {
			body = append(body, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "pthread_attr_setschedpolicy"}, Args: []cir.Expr{
				cir.Addr{Inner: cir.Var{Name: "attr" + name}}, cir.Lit{Text: "SCHED_FIFO"},
			}}})
		}
		core, pinned, _ := coreForPartition(d.Cfg.CoreMap, p, d.IOPartition)
		if pinned {
			body = append(body, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "pthread_attr_setaffinity_np"}, Args: []cir.Expr{
				cir.Addr{Inner: cir.Var{Name: "attr" + name}}, cir.Lit{Text: fmt.Sprintf("cpu_mask(%d)", core)},
			}}})
		}
	}

	// Step 5: create non-I/O threads first, then the I/O thread.
	for _, p := range d.Partitions {
		body = append(body, createThreadStmt(d.Name, p))
	}
	body = append(body, createThreadStmt(d.Name, d.IOPartition))

	// Step 6: query each thread's stack guard; warn if too small.
	for _, p := range allPartitions {
		name := graph.PartitionName(p)
		body = append(body, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "pthread_getattr_np"}, Args: []cir.Expr{
			cir.Var{Name: "thread" + name}, cir.Addr{Inner: cir.Var{Name: "attr" + name}},
		}}})
		body = append(body, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "pthread_attr_getguardsize"}, Args: []cir.Expr{
			cir.Addr{Inner: cir.Var{Name: "attr" + name}}, cir.Addr{Inner: cir.Var{Name: "guard" + name}},
		}}})
		body = append(body, cir.If{
			Cond: cir.BinOp{Op: "<", Left: cir.Var{Name: "guard" + name}, Right: cir.Lit{Text: fmt.Sprintf("%d", d.Cfg.CacheLineBytes)}},
			Then: cir.Block{Stmts: []cir.Stmt{
				cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "fprintf"}, Args: []cir.Expr{
					cir.Var{Name: "stderr"}, cir.Lit{Text: fmt.Sprintf("\"partition %s stack guard smaller than cache line\\n\"", name)},
				}}},
			}},
		})
		body = append(body, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "write_stack_info"}, Args: []cir.Expr{
			cir.Lit{Text: fmt.Sprintf("%q", d.Name+"_stack_info.txt")}, cir.Var{Name: "guard" + name},
		}}})
	}

	// Step 7: join the I/O thread, then cancel every non-I/O thread.
	body = append(body, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "pthread_join"}, Args: []cir.Expr{
		cir.Var{Name: "thread" + graph.PartitionName(d.IOPartition)}, cir.Lit{Text: "NULL"},
	}}})
	for _, p := range d.Partitions {
		body = append(body, cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "pthread_cancel"}, Args: []cir.Expr{
			cir.Var{Name: "thread" + graph.PartitionName(p)},
		}}})
	}

	return cir.FuncDecl{
		ReturnType: "int",
		Name:       entryFuncName(d.Name),
		Params:     nil,
		Body:       &cir.Block{Stmts: append(body, cir.Return{Value: cir.Lit{Text: "0"}})},
	}
}

func argsVar(design string, partition int) string {
	return fmt.Sprintf("%s_partition%s_args_v", design, graph.PartitionName(partition))
}

func createThreadStmt(design string, partition int) cir.Stmt {
	name := graph.PartitionName(partition)
	return cir.ExprStmt{Expr: cir.Call{Func: cir.Var{Name: "pthread_create"}, Args: []cir.Expr{
		cir.Addr{Inner: cir.Var{Name: "thread" + name}},
		cir.Addr{Inner: cir.Var{Name: "attr" + name}},
		cir.Var{Name: design + "_partition" + name + "_thread"},
		cir.Addr{Inner: cir.Var{Name: argsVar(design, partition)}},
	}}}
}

// coreForPartition maps spec.md §4.9's partition-to-core convention: map
// position 0 is the I/O partition's core, position p+1 is partition p's.
func coreForPartition(m config.CoreMap, partition, ioPartition int) (int, bool, error) {
	if partition == ioPartition {
		core, ok := m.IOCore()
		return core, ok, nil
	}
	return m.PartitionCore(partition)
}
