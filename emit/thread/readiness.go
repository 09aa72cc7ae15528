package thread

import (
	"github.com/cyarp/vitis-mtengine/cir"
	"github.com/cyarp/vitis-mtengine/fifo"
)

// Role distinguishes which cursor a readiness check is polling: a producer
// checks that its output FIFO is not full, a consumer that its input FIFO is
// not empty.
type Role int

const (
	RoleProducer Role = iota
	RoleConsumer
)

// PolledFIFO is one FIFO a readiness check polls, in the role this thread
// plays against it.
type PolledFIFO struct {
	FIFO *fifo.FIFO
	Role Role
}

func (p PolledFIFO) remoteCursorVar() string {
	if p.Role == RoleProducer {
		return p.FIFO.Name + "_consumer_cursor"
	}
	return p.FIFO.Name + "_producer_cursor"
}

// ownCursorVar is the global cursor this role owns and advances directly
// (the producer writes only its own producer_cursor, the consumer only its
// consumer_cursor; see kernel.go's priming of both). Readiness compares the
// remote side's cursor against this one.
func (p PolledFIFO) ownCursorVar() string {
	if p.Role == RoleProducer {
		return p.FIFO.Name + "_producer_cursor"
	}
	return p.FIFO.Name + "_consumer_cursor"
}

// pollStmts returns the nested-block statements that read this FIFO's
// remote cursor (honoring its caching policy) and fold the readiness test
// into `ready`, matching spec.md §4.8's "each FIFO contributes, in a nested
// block scope, the statements needed...".
func (p PolledFIFO) pollStmts() cir.Stmt {
	remote := cir.Var{Name: p.remoteCursorVar()}
	predicate := "isNotEmpty"
	if p.Role == RoleProducer {
		predicate = "isNotFull"
	}

	cachedByRole := p.Role == RoleProducer && p.FIFO.Caching.CachesProducerSide() ||
		p.Role == RoleConsumer && p.FIFO.Caching.CachesConsumerSide()

	own := cir.Var{Name: p.ownCursorVar()}
	var remoteView cir.Expr = cir.Call{Func: cir.Var{Name: "atomic_load"}, Args: []cir.Expr{cir.Addr{Inner: remote}}}

	var inner []cir.Stmt
	if cachedByRole {
		cached := cir.Var{Name: p.FIFO.Name + "_cached"}
		inner = append(inner, cir.If{
			Cond: cir.UnaryOp{Op: "!", Operand: cir.Call{Func: cir.Var{Name: predicate}, Args: []cir.Expr{cached, own}}},
			Then: cir.Block{Stmts: []cir.Stmt{cir.Assign{Dst: cached, Src: remoteView}}},
		})
		remoteView = cached
	}

	inner = append(inner, cir.Assign{
		Dst: cir.Var{Name: "ready"},
		Op:  "&=",
		Src: cir.Call{Func: cir.Var{Name: predicate}, Args: []cir.Expr{remoteView, own}},
	})
	return cir.Block{Stmts: inner}
}

// Config selects the readiness check's blocking/short-circuit behavior.
type Config struct {
	Blocking     bool
	ShortCircuit bool
	// CancellationCheck is inserted between poll iterations in blocking
	// mode; it is the thread emitter's hook so the cancellation strategy
	// (pthread cancellation point vs a polled atomic flag) can vary without
	// this package knowing about it.
	CancellationCheck cir.Stmt
}

// Emit builds the readiness-check statements for a set of FIFOs under cfg.
//
// Blocking mode wraps the poll in `while (!ready) { ready = true; ...; }`;
// non-blocking mode emits a single `bool ready = true;` evaluation.
// Short-circuit, in blocking mode, continues the outer loop (running the
// cancellation check first) as soon as any polled FIFO is found not ready;
// in non-blocking mode it nests the per-FIFO checks so a FIFO is polled only
// once every earlier one succeeded.
func Emit(fifos []PolledFIFO, cfg Config) []cir.Stmt {
	if !cfg.Blocking {
		return emitNonBlocking(fifos, cfg)
	}
	return emitBlocking(fifos, cfg)
}

func emitNonBlocking(fifos []PolledFIFO, cfg Config) []cir.Stmt {
	decl := cir.Decl{Type: "bool", Name: "ready", Init: cir.Lit{Text: "true"}}
	if !cfg.ShortCircuit || len(fifos) == 0 {
		stmts := []cir.Stmt{decl}
		for _, f := range fifos {
			stmts = append(stmts, f.pollStmts())
		}
		return stmts
	}

	var build func(i int) cir.Stmt
	build = func(i int) cir.Stmt {
		if i == len(fifos) {
			return cir.Block{}
		}
		return cir.Block{Stmts: []cir.Stmt{
			fifos[i].pollStmts(),
			cir.If{Cond: cir.Var{Name: "ready"}, Then: build(i + 1)},
		}}
	}
	return []cir.Stmt{decl, build(0)}
}

func emitBlocking(fifos []PolledFIFO, cfg Config) []cir.Stmt {
	appendFailCheck := func(stmts []cir.Stmt) []cir.Stmt {
		var failBody []cir.Stmt
		if cfg.CancellationCheck != nil {
			failBody = append(failBody, cfg.CancellationCheck)
		}
		failBody = append(failBody, cir.Continue{})
		return append(stmts, cir.If{
			Cond: cir.UnaryOp{Op: "!", Operand: cir.Var{Name: "ready"}},
			Then: cir.Block{Stmts: failBody},
		})
	}

	loopBody := []cir.Stmt{cir.Assign{Dst: cir.Var{Name: "ready"}, Src: cir.Lit{Text: "true"}}}
	if cfg.ShortCircuit {
		for _, f := range fifos {
			loopBody = append(loopBody, f.pollStmts())
			loopBody = appendFailCheck(loopBody)
		}
	} else {
		for _, f := range fifos {
			loopBody = append(loopBody, f.pollStmts())
		}
		loopBody = appendFailCheck(loopBody)
	}

	return []cir.Stmt{
		cir.Decl{Type: "bool", Name: "ready", Init: cir.Lit{Text: "false"}},
		cir.While{
			Cond: cir.UnaryOp{Op: "!", Operand: cir.Var{Name: "ready"}},
			Body: cir.Block{Stmts: loopBody},
		},
	}
}
