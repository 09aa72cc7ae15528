// Package engine orchestrates the full graph-to-C-source pipeline: it
// validates every FIFO and the engine configuration up front (aggregating
// every violation via multierror — no partial-success mode), then emits
// each partition's compute/reset/thread functions plus the shared kernel
// and support files, returning them as an in-memory FileSet. Concurrency
// across partitions is an implementation detail (internal/fanout); output
// is merged back in partition-number order so it never depends on
// goroutine scheduling.
package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"

	"github.com/cyarp/vitis-mtengine/cir"
	"github.com/cyarp/vitis-mtengine/config"
	"github.com/cyarp/vitis-mtengine/emit/compute"
	"github.com/cyarp/vitis-mtengine/emit/kernel"
	"github.com/cyarp/vitis-mtengine/emit/support"
	"github.com/cyarp/vitis-mtengine/emit/thread"
	"github.com/cyarp/vitis-mtengine/fifo"
	"github.com/cyarp/vitis-mtengine/graph"
	"github.com/cyarp/vitis-mtengine/internal/fanout"
	"github.com/cyarp/vitis-mtengine/rate"
)

// ArtifactKind is the stable enum identifying one file in a FileSet, so
// cmd/mtgen can write artifacts to disk by name without engine.Generate
// touching the filesystem itself.
type ArtifactKind int

const (
	KindCompute ArtifactKind = iota
	KindThread
	KindKernel
	KindFIFOHeader
	KindSIMDCopy
	KindNUMAHelpers
	KindPlatformParams
	KindTelemetryConfig
	KindMakefile
)

// Artifact is one emitted file.
type Artifact struct {
	Kind    ArtifactKind
	Name    string
	Content []byte
}

// FileSet is the complete, ordered output of one Generate call. It is
// sorted by Name so two calls over the same input diff as equal byte for
// byte (P9).
type FileSet []Artifact

// ByName returns the artifact with the given name, or false if absent.
func (fs FileSet) ByName(name string) (Artifact, bool) {
	for _, a := range fs {
		if a.Name == name {
			return a, true
		}
	}
	return Artifact{}, false
}

// PartitionSpec is one partition's full input to compute/thread emission.
type PartitionSpec struct {
	Number    int
	Nodes     []graph.Node
	Inputs    []*fifo.FIFO
	Outputs   []*fifo.FIFO
	BlockSize int
	Rates     []graph.Rate
}

// Input is everything engine.Generate needs: the engine configuration and
// the non-I/O partition list. The I/O thread's compute/thread functions are
// an external collaborator per spec.md §6 ("this spec only fixes its
// entry-symbol name") — Partitions therefore holds only the partitions this
// engine emits compute/reset/thread functions for; IOPartition just names
// the I/O partition number so the coordinator can create/join its thread
// and apply its core-map entry.
type Input struct {
	Config      config.Config
	Partitions  []PartitionSpec
	IOPartition int
}

// ErrNoPartitions is returned when Input has no partitions to emit.
var ErrNoPartitions = xerrors.New("engine: input has no partitions")

func allFIFOs(partitions []PartitionSpec) []*fifo.FIFO {
	seen := map[string]*fifo.FIFO{}
	for _, p := range partitions {
		for _, f := range append(append([]*fifo.FIFO{}, p.Inputs...), p.Outputs...) {
			seen[f.Name] = f
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]*fifo.FIFO, len(names))
	for i, n := range names {
		out[i] = seen[n]
	}
	return out
}

func validate(in *Input) error {
	var err error
	if len(in.Partitions) == 0 {
		err = multierror.Append(err, ErrNoPartitions)
	}
	if cfgErr := in.Config.Validate(); cfgErr != nil {
		err = multierror.Append(err, cfgErr)
	}
	for _, f := range allFIFOs(in.Partitions) {
		if structErr := f.ValidateStructure(); structErr != nil {
			err = multierror.Append(err, structErr)
		}
		if shapeErr := f.ValidateInitialConditionShape(); shapeErr != nil {
			err = multierror.Append(err, shapeErr)
		}
		if cfgErr := f.ValidateConfiguration(); cfgErr != nil {
			err = multierror.Append(err, cfgErr)
		}
		if in.Config.DoubleBuffer.Any() && !f.InPlace {
			err = multierror.Append(err, xerrors.Errorf("FIFO %q: %w", f.Name, ErrDoubleBufferRequiresInPlace))
		}
	}
	return err
}

// ErrDoubleBufferRequiresInPlace is the Open-Question decision recorded in
// DESIGN.md: double-buffering is only supported for in-place FIFOs.
var ErrDoubleBufferRequiresInPlace = xerrors.New("double buffering requires in-place FIFOs")

type partitionFiles struct {
	number int
	files  []Artifact
}

func emitPartition(_ context.Context, p PartitionSpec, cfg config.Config) (partitionFiles, error) {
	plan, err := rate.NewPlan(p.BlockSize, p.Rates)
	if err != nil {
		return partitionFiles{}, xerrors.Errorf("partition %d rate plan: %w", p.Number, err)
	}

	inputBindings := make([]compute.PortBinding, len(p.Inputs))
	for i, f := range p.Inputs {
		inputBindings[i] = compute.PortBinding{FIFO: f, ParamName: fmt.Sprintf("in%d", i)}
	}
	outputBindings := make([]compute.PortBinding, len(p.Outputs))
	for i, f := range p.Outputs {
		outputBindings[i] = compute.PortBinding{FIFO: f, ParamName: fmt.Sprintf("out%d", i)}
	}

	cp := compute.Partition{
		Design:    cfg.DesignName,
		Number:    p.Number,
		BlockSize: p.BlockSize,
		Nodes:     p.Nodes,
		Inputs:    inputBindings,
		Outputs:   outputBindings,
		Plan:      plan,
		Double:    cfg.DoubleBuffer,
	}
	computeFn, err := compute.EmitCompute(cp)
	if err != nil {
		return partitionFiles{}, xerrors.Errorf("partition %d compute: %w", p.Number, err)
	}
	resetFn := compute.EmitReset(cp)

	name := graph.PartitionName(p.Number)
	computeSrc := cir.RenderFunc(resetFn) + "\n" + cir.RenderFunc(computeFn)

	threadFn := thread.EmitThread(thread.Partition{
		Design:      cfg.DesignName,
		Number:      p.Number,
		Inputs:      p.Inputs,
		Outputs:     p.Outputs,
		Telem:       cfg.TelemLevel,
		Double:      cfg.DoubleBuffer,
		ComputeFunc: cfg.DesignName + "_partition" + name + "_compute",
		ResetFunc:   cfg.DesignName + "_partition" + name + "_reset",
	})
	threadSrc := cir.RenderFunc(threadFn)

	return partitionFiles{
		number: p.Number,
		files: []Artifact{
			{Kind: KindCompute, Name: fmt.Sprintf("%s_partition%s_compute.c", cfg.DesignName, name), Content: []byte(computeSrc)},
			{Kind: KindThread, Name: fmt.Sprintf("%s_partition%s_thread.c", cfg.DesignName, name), Content: []byte(threadSrc)},
		},
	}, nil
}

// Generate runs the full pipeline. It returns no FileSet on any validation
// error — a consistent set of files is written by the caller, or none.
func Generate(ctx context.Context, in Input) (FileSet, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}

	results, err := fanout.Run(ctx, in.Partitions, 0, func(ctx context.Context, p PartitionSpec) (partitionFiles, error) {
		return emitPartition(ctx, p, in.Config)
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].number < results[j].number })

	var fs FileSet
	for _, r := range results {
		fs = append(fs, r.files...)
	}

	fifos := allFIFOs(in.Partitions)
	var nonIOPartitions []int
	for _, p := range in.Partitions {
		if p.Number != in.IOPartition {
			nonIOPartitions = append(nonIOPartitions, p.Number)
		}
	}
	sort.Ints(nonIOPartitions)

	kernelFn := kernel.Emit(kernel.Design{
		Name:        in.Config.DesignName,
		FIFOs:       fifos,
		Partitions:  nonIOPartitions,
		IOPartition: in.IOPartition,
		Cfg:         in.Config,
	})
	fs = append(fs, Artifact{
		Kind:    KindKernel,
		Name:    in.Config.DesignName + "_coordinator.c",
		Content: []byte(cir.RenderFunc(kernelFn)),
	})

	fs = append(fs, Artifact{
		Kind:    KindFIFOHeader,
		Name:    in.Config.DesignName + "_fifo_types.h",
		Content: []byte(support.FIFOTypeHeader(in.Config.DesignName, fifos)),
	})

	if support.NeedsSIMDCopy(fifos) {
		fs = append(fs, Artifact{Kind: KindSIMDCopy, Name: "simd_copy.h", Content: []byte(support.SIMDCopyHelper())})
	}

	fs = append(fs, Artifact{Kind: KindNUMAHelpers, Name: "numa_helpers.c", Content: []byte(support.NUMAHelpers())})
	fs = append(fs, Artifact{
		Kind:    KindPlatformParams,
		Name:    in.Config.DesignName + "_platform_params.h",
		Content: []byte(support.PlatformParamsHeader(in.Config.DesignName, in.Config.CacheLineBytes)),
	})

	telemCfg := support.TelemetryConfig{
		CSVFile:    in.Config.TelemDumpFilePrefix + "telemetry.csv",
		CoreMap:    in.Config.CoreMap,
		ColumnsRow: support.CSVColumns(in.Config.TelemLevel),
	}
	telemJSON, jsonErr := support.TelemetryConfigJSON(telemCfg)
	if jsonErr != nil {
		return nil, xerrors.Errorf("telemetry config: %w", jsonErr)
	}
	fs = append(fs, Artifact{Kind: KindTelemetryConfig, Name: in.Config.DesignName + "_telemetry.json", Content: telemJSON})

	needsRT := in.Config.TelemLevel.Enabled()
	needsAtomic := true
	fs = append(fs, Artifact{
		Kind:    KindMakefile,
		Name:    "Makefile",
		Content: []byte(support.Makefile(in.Config.DesignName, needsRT, needsAtomic, in.Config.TelemLevel)),
	})

	sort.Slice(fs, func(i, j int) bool { return fs[i].Name < fs[j].Name })
	return fs, nil
}
