// Package spsc is the executable specification of the single-producer /
// single-consumer lockless FIFO ring the emitted C program implements: the
// same cursor/caching discipline as the C++ reference's
// LocklessInPlaceThreadCrossingFIFO, translated into Go's memory model
// (sync/atomic acquire/release loads and stores replacing the C++
// std::atomic ordering annotations one for one). It exists so the
// round-trip and mirror-consistency properties are testable in Go without
// compiling generated C.
package spsc

import (
	"sync/atomic"

	"golang.org/x/xerrors"

	"github.com/cyarp/vitis-mtengine/config"
	"github.com/cyarp/vitis-mtengine/fifo"
	"github.com/cyarp/vitis-mtengine/graph"
)

// ErrBlockSizeMismatch is returned when an Enqueue call's value slice does
// not match the ring's per-block element count.
var ErrBlockSizeMismatch = xerrors.New("block does not carry the FIFO's slot element count")

// Ring is a single-producer/single-consumer block FIFO. Cursors are
// monotonically increasing block counts; the physical index into buf is
// always cursor % capacityBlocks. Exactly one goroutine may call Enqueue
// and exactly one (possibly different) goroutine may call Dequeue; callers
// must not share either role across goroutines, matching the FIFO's
// single-producer/single-consumer contract.
type Ring struct {
	slotElems      int
	capacityBlocks int
	bufferKind     fifo.BufferKind
	buf            []graph.Value

	producerCursor uint64
	consumerCursor uint64

	caching        config.IndexCachingBehavior
	cachedConsumer uint64
	cachedProducer uint64
}

// NewRing builds a Ring from a fifo.FIFO's static configuration, preloading
// f.InitConditions and starting the cursors at f.InitialCursors().
func NewRing(f *fifo.FIFO) *Ring {
	slotElems := f.BlockSizeOut * f.ElementsPerBlock()
	physical := f.PhysicalLength(0)

	r := &Ring{
		slotElems:      slotElems,
		capacityBlocks: f.CapacityBlocks,
		bufferKind:     f.Buffer,
		buf:            make([]graph.Value, physical*slotElems),
		caching:        f.Caching,
	}

	occupied := f.OccupiedBlocks()
	for b := 0; b < occupied; b++ {
		src := f.InitConditions[b*slotElems : (b+1)*slotElems]
		r.writeSlot(b, src)
	}

	prod, cons := f.InitialCursors()
	r.producerCursor, r.consumerCursor = prod, cons
	r.cachedConsumer, r.cachedProducer = cons, prod
	return r
}

func (r *Ring) writeSlot(blockIndex int, values []graph.Value) {
	idx := blockIndex % r.capacityBlocks
	copy(r.buf[idx*r.slotElems:(idx+1)*r.slotElems], values)
	if r.bufferKind == fifo.DoubleLen {
		mirror := idx + r.capacityBlocks
		copy(r.buf[mirror*r.slotElems:(mirror+1)*r.slotElems], values)
	}
}

// Enqueue writes one block if the ring has room, reporting whether the
// write happened. Only the producer goroutine may call this.
func (r *Ring) Enqueue(values []graph.Value) (bool, error) {
	if len(values) != r.slotElems {
		return false, xerrors.Errorf("enqueue: got %d values, want %d: %w", len(values), r.slotElems, ErrBlockSizeMismatch)
	}

	prod := r.producerCursor
	cons := r.consumerView()
	if int(prod-cons) >= r.capacityBlocks {
		return false, nil
	}

	r.writeSlot(int(prod), values)
	atomic.StoreUint64(&r.producerCursor, prod+1)
	return true, nil
}

// consumerView returns the producer's view of the consumer cursor. Under
// CacheProducer/CacheProducerConsumer it only reloads the shared cursor
// when the cached snapshot says the ring might be full, mirroring the
// generated C's "acquire occurred earlier in cache update" discipline.
func (r *Ring) consumerView() uint64 {
	if !r.caching.CachesProducerSide() {
		return atomic.LoadUint64(&r.consumerCursor)
	}
	if int(r.producerCursor-r.cachedConsumer) >= r.capacityBlocks {
		r.cachedConsumer = atomic.LoadUint64(&r.consumerCursor)
	}
	return r.cachedConsumer
}

// Dequeue reads one block if the ring is non-empty, reporting whether the
// read happened. Only the consumer goroutine may call this.
func (r *Ring) Dequeue() ([]graph.Value, bool) {
	cons := r.consumerCursor
	prod := r.producerView()
	if cons == prod {
		return nil, false
	}

	idx := int(cons) % r.capacityBlocks
	out := append([]graph.Value(nil), r.buf[idx*r.slotElems:(idx+1)*r.slotElems]...)
	atomic.StoreUint64(&r.consumerCursor, cons+1)
	return out, true
}

// producerView returns the consumer's view of the producer cursor, cached
// symmetrically to consumerView under CacheConsumer/CacheProducerConsumer.
func (r *Ring) producerView() uint64 {
	if !r.caching.CachesConsumerSide() {
		return atomic.LoadUint64(&r.producerCursor)
	}
	if r.cachedProducer == r.consumerCursor {
		r.cachedProducer = atomic.LoadUint64(&r.producerCursor)
	}
	return r.cachedProducer
}

// MirrorConsistent reports whether buf[i] == buf[i+capacityBlocks] for
// every i, as DOUBLE_LEN requires. Always true for non-DOUBLE_LEN rings.
func (r *Ring) MirrorConsistent() bool {
	if r.bufferKind != fifo.DoubleLen {
		return true
	}
	for i := 0; i < r.capacityBlocks; i++ {
		for e := 0; e < r.slotElems; e++ {
			if r.buf[i*r.slotElems+e] != r.buf[(i+r.capacityBlocks)*r.slotElems+e] {
				return false
			}
		}
	}
	return true
}

// Occupied returns the current number of occupied blocks, reading both
// cursors directly (for test assertions; not used on the hot path).
func (r *Ring) Occupied() int {
	prod := atomic.LoadUint64(&r.producerCursor)
	cons := atomic.LoadUint64(&r.consumerCursor)
	return int(prod - cons)
}
