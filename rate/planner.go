// Package rate implements the per-partition multi-rate index-variable
// planner: for every distinct non-base FIFO rate a partition's compute loop
// must track, it derives the index/counter variable declarations and the
// statement that advances them at the foot of the loop.
package rate

import (
	"fmt"

	"golang.org/x/xerrors"

	"github.com/cyarp/vitis-mtengine/cir"
	"github.com/cyarp/vitis-mtengine/graph"
)

// ErrRateNotExact is returned when a rate's block expansion
// (blockSize * p / q) is not an exact integer, which the bit-width formula
// assumes.
var ErrRateNotExact = xerrors.New("block size is not evenly divisible by rate")

// bitsCeilLog2 returns ceil(log2(n)) for n >= 1 (0 for n <= 1, matching the
// convention that a single representable value needs zero address bits
// before the "+1" guard bit is added).
func bitsCeilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	bits := 0
	for (1 << bits) < n {
		bits++
	}
	return bits
}

func storageType(bits int) graph.BaseType {
	switch {
	case bits <= 8:
		return graph.UInt8
	case bits <= 16:
		return graph.UInt16
	case bits <= 32:
		return graph.UInt32
	default:
		return graph.UInt64
	}
}

// IndexVar is the pair of local variables declared for one distinct
// non-base rate: an index variable (always), and a counter variable (only
// when the rate's denominator is not 1).
type IndexVar struct {
	Rate graph.Rate

	IndexName string
	IndexBits int

	// CounterName is "" when Rate.Q == 1: the rate is a pure upsample or
	// the base rate, and needs no counter.
	CounterName string
	CounterBits int
}

// HasCounter reports whether this rate needs a counter variable.
func (iv IndexVar) HasCounter() bool { return iv.CounterName != "" }

// Decls returns the C local declarations for this index (and, if present,
// counter) variable, both zero-initialized.
func (iv IndexVar) Decls() []cir.Decl {
	decls := []cir.Decl{
		{Type: storageType(iv.IndexBits).String(), Name: iv.IndexName, Init: cir.Lit{Text: "0"}},
	}
	if iv.HasCounter() {
		decls = append(decls, cir.Decl{Type: storageType(iv.CounterBits).String(), Name: iv.CounterName, Init: cir.Lit{Text: "0"}})
	}
	return decls
}

// Advance returns the statement that advances this rate's index (and
// counter) at the foot of the compute loop:
//   - pure upsample/base (q == 1): index += p
//   - rational/downsample: if counter < q-1 { counter++ } else { counter = 0; index += p }
func (iv IndexVar) Advance() cir.Stmt {
	indexVar := cir.Var{Name: iv.IndexName}
	step := cir.Lit{Text: fmt.Sprintf("%d", iv.Rate.P)}

	if iv.Rate.IsUpsampleOrBase() {
		return cir.Assign{Dst: indexVar, Src: step, Op: "+="}
	}

	counterVar := cir.Var{Name: iv.CounterName}
	return cir.If{
		Cond: cir.BinOp{Op: "<", Left: counterVar, Right: cir.Lit{Text: fmt.Sprintf("%d", iv.Rate.Q-1)}},
		Then: cir.Assign{Dst: counterVar, Op: "+=", Src: cir.Lit{Text: "1"}},
		Else: cir.Block{Stmts: []cir.Stmt{
			cir.Assign{Dst: counterVar, Src: cir.Lit{Text: "0"}},
			cir.Assign{Dst: indexVar, Src: step, Op: "+="},
		}},
	}
}

// Plan collects the index/counter declarations for one partition's base
// block size and the set of distinct non-base rates its FIFOs use.
type Plan struct {
	BlockSize int
	Vars      []IndexVar
}

// NewPlan builds a Plan. Rates equal to the base rate (1,1) are skipped
// (no index tracking needed); duplicate rates contribute a single IndexVar.
func NewPlan(blockSize int, rates []graph.Rate) (*Plan, error) {
	p := &Plan{BlockSize: blockSize}
	seen := map[graph.Rate]bool{}

	for _, r := range rates {
		if r.IsBase() || seen[r] {
			continue
		}
		seen[r] = true

		if (blockSize*r.P)%r.Q != 0 {
			return nil, xerrors.Errorf("rate (%d,%d) with block size %d: %w", r.P, r.Q, blockSize, ErrRateNotExact)
		}

		iv := IndexVar{
			Rate:      r,
			IndexName: fmt.Sprintf("idx_%d_%d", r.P, r.Q),
			IndexBits: bitsCeilLog2(blockSize*r.P/r.Q) + 1,
		}
		if r.Q != 1 {
			iv.CounterName = fmt.Sprintf("cnt_%d_%d", r.P, r.Q)
			iv.CounterBits = bitsCeilLog2(blockSize*r.Q) + 1
		}
		p.Vars = append(p.Vars, iv)
	}

	return p, nil
}

// Declarations returns every index/counter variable declaration in the plan,
// in rate-registration order (deterministic given deterministic input, for P9).
func (p *Plan) Declarations() []cir.Decl {
	var out []cir.Decl
	for _, v := range p.Vars {
		out = append(out, v.Decls()...)
	}
	return out
}

// AdvanceStatements returns the foot-of-loop advancement statement for every
// rate in the plan, in rate-registration order.
func (p *Plan) AdvanceStatements() []cir.Stmt {
	out := make([]cir.Stmt, len(p.Vars))
	for i, v := range p.Vars {
		out[i] = v.Advance()
	}
	return out
}
