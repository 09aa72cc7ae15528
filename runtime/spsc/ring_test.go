package spsc

import (
	"sync"
	"testing"

	"github.com/cyarp/vitis-mtengine/config"
	"github.com/cyarp/vitis-mtengine/fifo"
	"github.com/cyarp/vitis-mtengine/graph"
)

func newScalarInt32FIFO(capacityBlocks int) *fifo.FIFO {
	f := fifo.New("test_fifo", 0, 1)
	f.ElementType = graph.DataType{Base: graph.Int32, Signed: true, Shape: []int{1}}
	f.CapacityBlocks = capacityBlocks
	f.BlockSizeIn, f.BlockSizeOut = 1, 1
	f.Buffer = fifo.RequiredBufferKind(f.BlockSizeOut)
	return f
}

// spinEnqueue and spinDequeue busy-retry against capacity/empty pushback;
// they return an error instead of calling testing.T directly so they stay
// safe to call from a non-test goroutine.
func spinEnqueue(r *Ring, v graph.Value) error {
	for {
		ok, err := r.Enqueue([]graph.Value{v})
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
}

func spinDequeue(r *Ring) graph.Value {
	for {
		vals, ok := r.Dequeue()
		if ok {
			return vals[0]
		}
	}
}

func TestRoundTripNoDelays(t *testing.T) {
	const n = 500
	f := newScalarInt32FIFO(4)
	r := NewRing(f)

	var wg sync.WaitGroup
	wg.Add(2)

	var got []int64
	var enqueueErr error
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			if err := spinEnqueue(r, graph.NewReal(graph.Int32, float64(i))); err != nil {
				enqueueErr = err
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		got = make([]int64, n)
		for i := 0; i < n; i++ {
			got[i] = int64(spinDequeue(r).Re)
		}
	}()
	wg.Wait()

	if enqueueErr != nil {
		t.Fatalf("enqueue error: %v", enqueueErr)
	}
	for i := 0; i < n; i++ {
		if got[i] != int64(i) {
			t.Fatalf("index %d: expected %d, got %d", i, i, got[i])
		}
	}
}

func TestRoundTripWithInitialConditions(t *testing.T) {
	f := newScalarInt32FIFO(4)
	f.InitConditions = []graph.Value{
		graph.NewReal(graph.Int32, 7),
		graph.NewReal(graph.Int32, 8),
	}
	r := NewRing(f)

	first, ok := r.Dequeue()
	if !ok || first[0].Re != 7 {
		t.Fatalf("expected first read to return initial condition 7, got %+v ok=%v", first, ok)
	}
	second, ok := r.Dequeue()
	if !ok || second[0].Re != 8 {
		t.Fatalf("expected second read to return initial condition 8, got %+v ok=%v", second, ok)
	}
	if _, ok := r.Dequeue(); ok {
		t.Fatal("expected no further reads beyond the two preloaded initial conditions")
	}
}

func TestDoubleLenMirrorInvariant(t *testing.T) {
	f := newScalarInt32FIFO(3)
	f.BlockSizeIn, f.BlockSizeOut = 2, 2
	f.ElementType = graph.DataType{Base: graph.Float32, Complex: true, Shape: []int{1}}
	f.Buffer = fifo.RequiredBufferKind(f.BlockSizeOut)
	if f.Buffer != fifo.DoubleLen {
		t.Fatal("expected DOUBLE_LEN buffer for block_size=2")
	}
	r := NewRing(f)

	slot := make([]graph.Value, r.slotElems)
	for i := range slot {
		slot[i] = graph.NewComplex(graph.Float32, float64(i), float64(-i))
	}

	for b := 0; b < f.CapacityBlocks+2; b++ {
		ok, err := r.Enqueue(slot)
		if err != nil {
			t.Fatalf("enqueue error: %v", err)
		}
		if !r.MirrorConsistent() {
			t.Fatalf("mirror invariant violated after enqueue %d (accepted=%v)", b, ok)
		}
		if ok {
			if _, dequeued := r.Dequeue(); !dequeued {
				t.Fatal("expected a value to dequeue right after a successful enqueue")
			}
		}
	}
}

func TestEnqueueRejectsWrongBlockSize(t *testing.T) {
	f := newScalarInt32FIFO(4)
	r := NewRing(f)
	if _, err := r.Enqueue([]graph.Value{}); err == nil {
		t.Fatal("expected ErrBlockSizeMismatch")
	}
}

func TestCachedCursorPoliciesStillRoundTrip(t *testing.T) {
	for _, c := range []config.IndexCachingBehavior{
		config.CacheNone, config.CacheProducer, config.CacheConsumer, config.CacheProducerConsumer,
	} {
		f := newScalarInt32FIFO(10)
		f.Caching = c
		r := NewRing(f)

		for i := 0; i < 10; i++ {
			if err := spinEnqueue(r, graph.NewReal(graph.Int32, float64(i))); err != nil {
				t.Fatalf("caching=%v: enqueue error: %v", c, err)
			}
		}
		for i := 0; i < 10; i++ {
			got := spinDequeue(r)
			if got.Re != float64(i) {
				t.Fatalf("caching=%v: index %d: expected %d, got %v", c, i, i, got.Re)
			}
		}
	}
}
