// Package config defines the engine-wide configuration flags consumed from
// external collaborators and the partition-to-core map.
package config

import (
	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"
)

// CopyMode selects how a FIFO's data is moved between the shared buffer and
// a thread's local read/write scratch.
type CopyMode int

const (
	Assign CopyMode = iota
	Memcpy
	InlinedMemcpy
	SIMDFastCopy
)

func (m CopyMode) String() string {
	switch m {
	case Assign:
		return "ASSIGN"
	case Memcpy:
		return "MEMCPY"
	case InlinedMemcpy:
		return "INLINED_MEMCPY"
	case SIMDFastCopy:
		return "SIMD_FAST_COPY"
	default:
		return "UNKNOWN_COPY_MODE"
	}
}

// IndexCachingBehavior selects which cursor roles a FIFO caches locally.
type IndexCachingBehavior int

const (
	CacheNone IndexCachingBehavior = iota
	CacheProducer
	CacheConsumer
	CacheProducerConsumer
)

func (c IndexCachingBehavior) CachesProducerSide() bool {
	return c == CacheProducer || c == CacheProducerConsumer
}

func (c IndexCachingBehavior) CachesConsumerSide() bool {
	return c == CacheConsumer || c == CacheProducerConsumer
}

// TelemLevel selects which telemetry columns/instrumentation the thread
// emitter produces.
type TelemLevel int

const (
	TelemNone TelemLevel = iota
	TelemRateOnly
	TelemRateAndBreakdown
	TelemPAPIComputeOnly
	TelemPAPIFull
)

func (t TelemLevel) Enabled() bool { return t != TelemNone }

func (t TelemLevel) UsesPAPI() bool {
	return t == TelemPAPIComputeOnly || t == TelemPAPIFull
}

func (t TelemLevel) IncludesBreakdown() bool {
	return t == TelemRateAndBreakdown || t == TelemPAPIFull
}

// DoubleBufferMode selects which side(s) of a partition's FIFOs are
// double-buffered.
type DoubleBufferMode int

const (
	DoubleBufferNone DoubleBufferMode = iota
	DoubleBufferInput
	DoubleBufferOutput
	DoubleBufferInputAndOutput
)

func (d DoubleBufferMode) Input() bool {
	return d == DoubleBufferInput || d == DoubleBufferInputAndOutput
}

func (d DoubleBufferMode) Output() bool {
	return d == DoubleBufferOutput || d == DoubleBufferInputAndOutput
}

func (d DoubleBufferMode) Any() bool { return d != DoubleBufferNone }

// CoreMap is the partition-to-core map: position 0 is the I/O partition's
// core; position p+1 is partition p's core. An empty map means pinning is
// skipped.
type CoreMap []int

// IOCore returns the I/O partition's pinned core and whether a map was
// configured at all.
func (m CoreMap) IOCore() (int, bool) {
	if len(m) == 0 {
		return 0, false
	}
	return m[0], true
}

// PartitionCore returns the pinned core for the given non-I/O partition
// index and whether a map was configured.
func (m CoreMap) PartitionCore(partition int) (int, bool, error) {
	if len(m) == 0 {
		return 0, false, nil
	}
	idx := partition + 1
	if idx < 0 || idx >= len(m) {
		return 0, false, xerrors.Errorf("partition %d: %w", partition, ErrCoreMapIndexOutOfRange)
	}
	return m[idx], true, nil
}

// ErrCoreMapIndexOutOfRange reports a partition-map index out of range.
var ErrCoreMapIndexOutOfRange = xerrors.New("partition-to-core map index out of range")

// Config carries every configuration flag the engine reads.
type Config struct {
	ThreadDebugPrint bool

	TelemLevel               TelemLevel
	TelemReportFreqBlockFreq int
	ReportPeriodSeconds      float64
	TelemDumpFilePrefix      string
	TelemAvg                 bool
	PAPIHelperHeader         string // empty = disabled

	FIFOIndexCachingBehavior IndexCachingBehavior
	DoubleBuffer             DoubleBufferMode
	UseSCHEDFIFO             bool
	CopyMode                 CopyMode

	CoreMap CoreMap

	// DesignName / IOSuffix name the generated artifacts ("<design>" /
	// "<iosuffix>" file-naming scheme). They default here rather than
	// being left to each emitter to invent independently.
	DesignName string
	IOSuffix   string

	// CacheLineBytes is the alignment constant the platform-parameters
	// header exports and the stack-guard check compares against.
	CacheLineBytes int
}

// Validate fills in defaults and reports every configuration violation it
// can detect in one pass, following the teacher's
// Chapter08/bspgraph.GraphConfig.validate / Chapter12/dbspgraph.Config
// pattern of accumulating with multierror instead of failing on the first
// problem.
func (c *Config) Validate() error {
	var err error

	if c.DesignName == "" {
		err = multierror.Append(err, xerrors.New("config: DesignName must be set"))
	}
	if c.IOSuffix == "" {
		c.IOSuffix = "io"
	}
	if c.CacheLineBytes <= 0 {
		c.CacheLineBytes = 64
	}
	if c.TelemReportFreqBlockFreq <= 0 {
		c.TelemReportFreqBlockFreq = 1
	}
	if c.ReportPeriodSeconds <= 0 && c.TelemLevel.Enabled() {
		c.ReportPeriodSeconds = 1.0
	}
	if c.TelemDumpFilePrefix == "" {
		c.TelemDumpFilePrefix = c.DesignName + "_"
	}
	if c.TelemLevel.UsesPAPI() && c.PAPIHelperHeader == "" {
		err = multierror.Append(err, xerrors.New(
			"config: TelemLevel requires PAPI but PAPIHelperHeader is empty"))
	}

	return err
}
