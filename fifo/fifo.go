// Package fifo implements the value-type thread-crossing FIFO model: the
// central entity the rest of the engine (optimizer, planner, emitters)
// reads and mutates before it becomes read-only input to code generation.
package fifo

import (
	"github.com/google/uuid"
	"golang.org/x/xerrors"

	"github.com/cyarp/vitis-mtengine/config"
	"github.com/cyarp/vitis-mtengine/graph"
)

// BufferKind selects the physical layout of a FIFO's backing buffer.
type BufferKind int

const (
	// NoExtraLen is a ring of length capacity_blocks+1.
	NoExtraLen BufferKind = iota
	// DoubleLen has physical length 2*capacity_blocks, with each write
	// mirrored to the "other half" so consumers always see a contiguous
	// capacity_blocks-sized window. Required whenever block_size > 1.
	DoubleLen
	// PlusDelayLenM1 has physical length capacity_blocks + delay - 1 with
	// a conditional mirror write.
	PlusDelayLenM1
)

func (b BufferKind) String() string {
	switch b {
	case NoExtraLen:
		return "NO_EXTRA_LEN"
	case DoubleLen:
		return "DOUBLE_LEN"
	case PlusDelayLenM1:
		return "PLUS_DELAY_LEN_M1"
	default:
		return "UNKNOWN_BUFFER_KIND"
	}
}

// CachedCursor is a thread-local snapshot of a remote cursor, refreshed
// lazily when the local view says the FIFO is blocked. A nil *CachedCursor
// on a FIFO role means that role is not cached under the configured
// IndexCachingBehavior.
type CachedCursor struct {
	// VarName is the C local variable name the thread function declares
	// to hold the cached snapshot.
	VarName string
}

// FIFO is the thread-crossing FIFO connecting a producer partition to a
// consumer partition.
type FIFO struct {
	ID   uuid.UUID
	Name string

	SrcPartition int
	DstPartition int

	// ElementType is the per-item (pre-block-expansion) scalar/complex
	// type flowing through the FIFO.
	ElementType graph.DataType

	CapacityBlocks int

	// BlockSizeIn/Out are the items-per-block on the producer and
	// consumer side respectively; they may differ across a rate-change
	// boundary.
	BlockSizeIn  int
	BlockSizeOut int

	// SubBlockSizeIn/Out are the outermost-dimension strides for each end.
	SubBlockSizeIn  int
	SubBlockSizeOut int

	// InitConditions holds the FIFO's pre-loaded initial contents, total
	// size = delay_blocks * elements_per_block.
	InitConditions []graph.Value

	ClockDomainIn  graph.ClockDomain
	ClockDomainOut graph.ClockDomain

	CopyMode config.CopyMode
	InPlace  bool

	Buffer BufferKind

	Caching config.IndexCachingBehavior

	// CachedProducerCursor / CachedConsumerCursor are left nil by this
	// module: the thread emitter derives its <name>_cached local from
	// Caching directly and does not read these fields.
	CachedProducerCursor *CachedCursor
	CachedConsumerCursor *CachedCursor

	// EarliestFirst requests that, under contention, the oldest blocks be
	// prioritized. Combined with block_size>1 this is rejected outright
	// rather than silently relaxed (see DESIGN.md).
	EarliestFirst bool
}

// New constructs a FIFO with a freshly allocated ID and sensible zero
// values for optional fields.
func New(name string, srcPartition, dstPartition int) *FIFO {
	return &FIFO{
		ID:           uuid.New(),
		Name:         name,
		SrcPartition: srcPartition,
		DstPartition: dstPartition,
		BlockSizeIn:  1,
		BlockSizeOut: 1,
	}
}

// Errors surfaced by FIFO-level structural checks.
var (
	ErrSelfFIFO              = xerrors.New("FIFO source and destination partitions must differ")
	ErrInitCondShape         = xerrors.New("initial-condition count is not a multiple of block_size * elements_per_block")
	ErrInitCondExceedsCap    = xerrors.New("initial-condition count exceeds FIFO capacity")
	ErrUnsupportedFIFOConfig = xerrors.New("unsupported FIFO configuration")
)

// ElementsPerBlock returns the number of scalar/complex elements one item of
// ElementType carries.
func (f *FIFO) ElementsPerBlock() int {
	return f.ElementType.NumElements()
}

// ValidateStructure checks that source and destination partitions differ,
// naming the offending FIFO in any returned error.
func (f *FIFO) ValidateStructure() error {
	if f.SrcPartition == f.DstPartition {
		return xerrors.Errorf("FIFO %q (partition %d): %w", f.Name, f.SrcPartition, ErrSelfFIFO)
	}
	return nil
}

// ValidateInitialConditionShape checks that |init_conditions| is an
// integer multiple of block_size*elements_per_block and does not exceed
// capacity_blocks*block_size*elements_per_block. The consumer-side block
// size (BlockSizeOut) is the sizing reference, since initial contents are
// always consumed at that granularity before any corresponding block is
// produced.
func (f *FIFO) ValidateInitialConditionShape() error {
	unit := f.BlockSizeOut * f.ElementsPerBlock()
	if unit <= 0 {
		return xerrors.Errorf("FIFO %q: %w: block_size*elements_per_block is zero", f.Name, ErrUnsupportedFIFOConfig)
	}
	n := len(f.InitConditions)
	if n%unit != 0 {
		return xerrors.Errorf("FIFO %q: %d initial-condition values, unit %d: %w", f.Name, n, unit, ErrInitCondShape)
	}
	max := f.CapacityBlocks * unit
	if n > max {
		return xerrors.Errorf("FIFO %q: %d initial-condition values exceeds capacity %d: %w", f.Name, n, max, ErrInitCondExceedsCap)
	}
	return nil
}

// OccupiedBlocks returns the initial number of occupied blocks:
// |init_conditions| / elements_per_block / block_size.
func (f *FIFO) OccupiedBlocks() int {
	unit := f.BlockSizeOut * f.ElementsPerBlock()
	if unit == 0 {
		return 0
	}
	return len(f.InitConditions) / unit
}

// InitialCursors returns the producer and consumer cursor values (in
// blocks) the coordinator must program at allocation time so that the FIFO
// starts with OccupiedBlocks() occupied.
func (f *FIFO) InitialCursors() (producer, consumer uint64) {
	return uint64(f.OccupiedBlocks()), 0
}

// PhysicalLength returns the allocated length, in blocks, of the FIFO's
// backing array, using the per-BufferKind formula. delayBlocks is only
// consulted for PlusDelayLenM1.
func (f *FIFO) PhysicalLength(delayBlocks int) int {
	switch f.Buffer {
	case DoubleLen:
		return 2 * f.CapacityBlocks
	case PlusDelayLenM1:
		return f.CapacityBlocks + delayBlocks - 1
	default:
		return f.CapacityBlocks + 1
	}
}

// RequiredBufferKind returns the BufferKind mandated by the consumer block
// size: DOUBLE_LEN is used whenever block_size > 1.
func RequiredBufferKind(blockSizeOut int) BufferKind {
	if blockSizeOut > 1 {
		return DoubleLen
	}
	return NoExtraLen
}

// ValidateConfiguration enforces the unsupported-configuration checks this
// rewrite resolves by outright rejection rather than silent relaxation:
// EarliestFirst combined with block_size > 1, and DOUBLE_LEN requested with
// a non-positive block size.
func (f *FIFO) ValidateConfiguration() error {
	if f.EarliestFirst && (f.BlockSizeIn > 1 || f.BlockSizeOut > 1) {
		return xerrors.Errorf("FIFO %q: earliestFirst with block_size>1: %w", f.Name, ErrUnsupportedFIFOConfig)
	}
	if f.Buffer == DoubleLen && f.BlockSizeOut <= 0 {
		return xerrors.Errorf("FIFO %q: DOUBLE_LEN requires positive block size: %w", f.Name, ErrUnsupportedFIFOConfig)
	}
	return nil
}
