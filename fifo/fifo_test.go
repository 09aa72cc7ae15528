package fifo

import (
	"testing"

	"github.com/cyarp/vitis-mtengine/graph"
)

func scalarInt32() graph.DataType {
	return graph.DataType{Base: graph.Int32, Signed: true, TotalBits: 32, Shape: []int{1}}
}

func TestValidateStructureRejectsSelfFIFO(t *testing.T) {
	f := New("PartitionCrossingFIFO_0_TO_0_0", 0, 0)
	if err := f.ValidateStructure(); err == nil {
		t.Fatal("expected ErrSelfFIFO")
	}
}

func TestValidateStructureAcceptsCrossPartition(t *testing.T) {
	f := New("PartitionCrossingFIFO_0_TO_1_0", 0, 1)
	if err := f.ValidateStructure(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Single FIFO, capacity_blocks=4, block_size=1, scalar int32, no initial
// conditions: should start empty and pick the compact buffer layout.
func TestScalarFIFOEmptyInitialState(t *testing.T) {
	f := New("fifo_s1", 0, 1)
	f.ElementType = scalarInt32()
	f.CapacityBlocks = 4
	f.BlockSizeIn, f.BlockSizeOut = 1, 1
	f.Buffer = RequiredBufferKind(f.BlockSizeOut)

	if err := f.ValidateInitialConditionShape(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.OccupiedBlocks(); got != 0 {
		t.Errorf("expected 0 occupied blocks, got %d", got)
	}
	if f.Buffer != NoExtraLen {
		t.Errorf("expected NO_EXTRA_LEN for block_size=1, got %v", f.Buffer)
	}
}

// Same FIFO preloaded with init_conditions=[1,2]: occupied-block count and
// initial cursor placement should reflect the preload.
func TestFIFOWithTwoInitialConditions(t *testing.T) {
	f := New("fifo_s2", 0, 1)
	f.ElementType = scalarInt32()
	f.CapacityBlocks = 4
	f.BlockSizeIn, f.BlockSizeOut = 1, 1
	f.InitConditions = []graph.Value{graph.NewReal(graph.Int32, 1), graph.NewReal(graph.Int32, 2)}

	if err := f.ValidateInitialConditionShape(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.OccupiedBlocks(); got != 2 {
		t.Errorf("expected 2 occupied blocks, got %d", got)
	}
	prod, cons := f.InitialCursors()
	if prod != 2 || cons != 0 {
		t.Errorf("expected cursors (2,0), got (%d,%d)", prod, cons)
	}
}

// capacity_blocks=3, block_size=2, complex float32: block_size>1 forces the
// mirrored double-length buffer layout.
func TestComplexBlockSizeTwoRequiresDoubleLen(t *testing.T) {
	f := New("fifo_s3", 0, 1)
	f.ElementType = graph.DataType{Base: graph.Float32, Shape: []int{1}, Complex: true}
	f.CapacityBlocks = 3
	f.BlockSizeIn, f.BlockSizeOut = 2, 2
	f.Buffer = RequiredBufferKind(f.BlockSizeOut)

	if f.Buffer != DoubleLen {
		t.Fatalf("expected DOUBLE_LEN for block_size=2, got %v", f.Buffer)
	}
	if got := f.PhysicalLength(0); got != 6 {
		t.Errorf("expected physical length 6 (2*3), got %d", got)
	}
}

func TestValidateInitialConditionShapeRejectsNonMultiple(t *testing.T) {
	f := New("fifo_bad", 0, 1)
	f.ElementType = scalarInt32()
	f.CapacityBlocks = 4
	f.BlockSizeIn, f.BlockSizeOut = 2, 2
	f.InitConditions = []graph.Value{graph.NewReal(graph.Int32, 1)} // 1 value, unit=2

	if err := f.ValidateInitialConditionShape(); err == nil {
		t.Fatal("expected ErrInitCondShape")
	}
}

func TestValidateInitialConditionShapeRejectsOverCapacity(t *testing.T) {
	f := New("fifo_bad2", 0, 1)
	f.ElementType = scalarInt32()
	f.CapacityBlocks = 1
	f.BlockSizeIn, f.BlockSizeOut = 1, 1
	f.InitConditions = []graph.Value{
		graph.NewReal(graph.Int32, 1),
		graph.NewReal(graph.Int32, 2),
	}

	if err := f.ValidateInitialConditionShape(); err == nil {
		t.Fatal("expected ErrInitCondExceedsCap")
	}
}

func TestReshapeSpillsPartialBlock(t *testing.T) {
	f := New("fifo_reshape", 0, 1)
	f.ElementType = scalarInt32()
	f.CapacityBlocks = 4
	f.BlockSizeIn, f.BlockSizeOut = 2, 2
	f.InitConditions = []graph.Value{
		graph.NewReal(graph.Int32, 1),
		graph.NewReal(graph.Int32, 2),
		graph.NewReal(graph.Int32, 3),
	}

	spilled := f.Reshape()
	if spilled == nil {
		t.Fatal("expected a spill")
	}
	if len(spilled.InitialConditions) != 1 || spilled.InitialConditions[0].Re != 1 {
		t.Errorf("expected earliest value [1] spilled, got %+v", spilled.InitialConditions)
	}
	if len(f.InitConditions) != 2 {
		t.Errorf("expected 2 remaining init conditions, got %d", len(f.InitConditions))
	}
	if err := f.ValidateInitialConditionShape(); err != nil {
		t.Errorf("expected valid shape after reshape: %v", err)
	}
}

func TestReshapeNoopWhenAlreadyAligned(t *testing.T) {
	f := New("fifo_aligned", 0, 1)
	f.ElementType = scalarInt32()
	f.BlockSizeIn, f.BlockSizeOut = 2, 2
	f.InitConditions = []graph.Value{
		graph.NewReal(graph.Int32, 1),
		graph.NewReal(graph.Int32, 2),
	}
	if spilled := f.Reshape(); spilled != nil {
		t.Errorf("expected no spill, got %+v", spilled)
	}
}

func TestValidateConfigurationRejectsEarliestFirstWithBlocking(t *testing.T) {
	f := New("fifo_ef", 0, 1)
	f.BlockSizeOut = 2
	f.EarliestFirst = true
	if err := f.ValidateConfiguration(); err == nil {
		t.Fatal("expected ErrUnsupportedFIFOConfig")
	}
}
