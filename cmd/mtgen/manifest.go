package main

import (
	"encoding/json"
	"os"

	"golang.org/x/xerrors"

	"github.com/cyarp/vitis-mtengine/config"
	"github.com/cyarp/vitis-mtengine/engine"
	"github.com/cyarp/vitis-mtengine/fifo"
	"github.com/cyarp/vitis-mtengine/graph"
)

// manifest is the on-disk JSON shape this driver reads. Real deployments sit
// behind an upstream graph-parsing collaborator (out of scope per spec.md §1
// Non-goals); this manifest format exists only so cmd/mtgen has something
// concrete to turn into an engine.Input for local runs, and so its node kind
// registry has somewhere to plug in.
type manifest struct {
	DesignName  string              `json:"design_name"`
	IOPartition int                 `json:"io_partition"`
	CoreMap     []int               `json:"core_map,omitempty"`
	Partitions  []manifestPartition `json:"partitions"`
	FIFOs       []manifestFIFO      `json:"fifos"`
}

type manifestPartition struct {
	Number    int            `json:"number"`
	BlockSize int            `json:"block_size"`
	Rates     []manifestRate `json:"rates,omitempty"`
	Nodes     []manifestNode `json:"nodes"`
}

type manifestRate struct {
	P int `json:"p"`
	Q int `json:"q"`
}

type manifestNode struct {
	ID      string         `json:"id"`
	Kind    string         `json:"kind"`
	Order   int            `json:"order"`
	Outputs []manifestPort `json:"outputs"`
}

type manifestPort struct {
	BaseType string `json:"base_type"`
	Shape    []int  `json:"shape,omitempty"`
}

type manifestFIFO struct {
	Name           string `json:"name"`
	SrcPartition   int    `json:"src_partition"`
	DstPartition   int    `json:"dst_partition"`
	BaseType       string `json:"base_type"`
	Shape          []int  `json:"shape,omitempty"`
	CapacityBlocks int    `json:"capacity_blocks"`
	BlockSizeIn    int    `json:"block_size_in"`
	BlockSizeOut   int    `json:"block_size_out"`
	InPlace        bool   `json:"in_place"`
}

var baseTypes = map[string]graph.BaseType{
	"bool":    graph.Bool,
	"int8":    graph.Int8,
	"int16":   graph.Int16,
	"int32":   graph.Int32,
	"int64":   graph.Int64,
	"uint8":   graph.UInt8,
	"uint16":  graph.UInt16,
	"uint32":  graph.UInt32,
	"uint64":  graph.UInt64,
	"float32": graph.Float32,
	"float64": graph.Float64,
}

// ErrUnknownBaseType is returned when a manifest names a base type this
// driver does not recognize.
var ErrUnknownBaseType = xerrors.New("unknown base type")

// ErrUnknownNodeKind is returned when a manifest node names a kind this
// driver's registry has no builder for.
var ErrUnknownNodeKind = xerrors.New("unknown node kind")

func resolveBaseType(name string) (graph.BaseType, error) {
	bt, ok := baseTypes[name]
	if !ok {
		return 0, xerrors.Errorf("%q: %w", name, ErrUnknownBaseType)
	}
	return bt, nil
}

func shapeOrScalar(shape []int) []int {
	if len(shape) == 0 {
		return []int{1}
	}
	return shape
}

// nodeBuilder constructs a graph.Node from its manifest description.
// Registering new kinds here is how a deployment extends this driver beyond
// its built-in passthrough node, without touching the core engine package.
type nodeBuilder func(mn manifestNode) (graph.Node, error)

var nodeRegistry = map[string]nodeBuilder{
	"passthrough": buildPassthroughNode,
}

func loadManifest(path string) (manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest{}, xerrors.Errorf("reading design manifest %q: %w", path, err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return manifest{}, xerrors.Errorf("parsing design manifest %q: %w", path, err)
	}
	return m, nil
}

// toEngineInput builds the engine.Input from a parsed manifest, constructing
// each node via the registry and each FIFO via fifo.New.
func toEngineInput(m manifest, cfg config.Config) (engine.Input, error) {
	cfg.DesignName = m.DesignName
	if len(m.CoreMap) > 0 {
		cfg.CoreMap = config.CoreMap(m.CoreMap)
	}

	fifosByName := map[string]*fifo.FIFO{}
	for _, mf := range m.FIFOs {
		bt, err := resolveBaseType(mf.BaseType)
		if err != nil {
			return engine.Input{}, xerrors.Errorf("fifo %q: %w", mf.Name, err)
		}
		f := fifo.New(mf.Name, mf.SrcPartition, mf.DstPartition)
		f.ElementType = graph.DataType{Base: bt, Shape: shapeOrScalar(mf.Shape)}
		f.CapacityBlocks = mf.CapacityBlocks
		f.BlockSizeIn = mf.BlockSizeIn
		f.BlockSizeOut = mf.BlockSizeOut
		f.InPlace = mf.InPlace
		fifosByName[mf.Name] = f
	}

	partitions := make([]engine.PartitionSpec, 0, len(m.Partitions))
	for _, mp := range m.Partitions {
		nodes := make([]graph.Node, 0, len(mp.Nodes))
		for _, mn := range mp.Nodes {
			build, ok := nodeRegistry[mn.Kind]
			if !ok {
				return engine.Input{}, xerrors.Errorf("partition %d node %q: %w", mp.Number, mn.ID, ErrUnknownNodeKind)
			}
			n, err := build(mn)
			if err != nil {
				return engine.Input{}, xerrors.Errorf("partition %d node %q: %w", mp.Number, mn.ID, err)
			}
			nodes = append(nodes, n)
		}

		var inputs, outputs []*fifo.FIFO
		for _, f := range fifosByName {
			if f.DstPartition == mp.Number {
				inputs = append(inputs, f)
			}
			if f.SrcPartition == mp.Number {
				outputs = append(outputs, f)
			}
		}

		rates := make([]graph.Rate, 0, len(mp.Rates))
		for _, r := range mp.Rates {
			rates = append(rates, graph.Rate{P: r.P, Q: r.Q})
		}

		partitions = append(partitions, engine.PartitionSpec{
			Number:    mp.Number,
			Nodes:     nodes,
			Inputs:    inputs,
			Outputs:   outputs,
			BlockSize: mp.BlockSize,
			Rates:     rates,
		})
	}

	return engine.Input{
		Config:      cfg,
		Partitions:  partitions,
		IOPartition: m.IOPartition,
	}, nil
}
