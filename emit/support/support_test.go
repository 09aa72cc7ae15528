package support

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cyarp/vitis-mtengine/config"
	"github.com/cyarp/vitis-mtengine/fifo"
	"github.com/cyarp/vitis-mtengine/graph"
)

func TestFIFOTypeHeaderEmitsSeparateImaginaryArrayForComplex(t *testing.T) {
	f := fifo.New("f0", 0, 1)
	f.ElementType = graph.DataType{Base: graph.Float32, Complex: true, Shape: []int{1}}
	f.BlockSizeOut = 2
	header := FIFOTypeHeader("eng", []*fifo.FIFO{f})
	if !strings.Contains(header, "float re[2]") {
		t.Errorf("expected real array sized by block_size*elements_per_block, got:\n%s", header)
	}
	if !strings.Contains(header, "float im[2]") {
		t.Errorf("expected a separate imaginary array for complex types, got:\n%s", header)
	}
}

func TestFIFOTypeHeaderOmitsImaginaryArrayForReal(t *testing.T) {
	f := fifo.New("f0", 0, 1)
	f.ElementType = graph.DataType{Base: graph.Int32, Shape: []int{1}}
	f.BlockSizeOut = 1
	header := FIFOTypeHeader("eng", []*fifo.FIFO{f})
	if strings.Contains(header, "im[") {
		t.Error("expected no imaginary array for a real-valued FIFO")
	}
}

func TestNeedsSIMDCopyGatesOnCopyMode(t *testing.T) {
	plain := fifo.New("f0", 0, 1)
	if NeedsSIMDCopy([]*fifo.FIFO{plain}) {
		t.Error("expected false when no FIFO uses SIMD_FAST_COPY")
	}
	simd := fifo.New("f1", 0, 1)
	simd.CopyMode = config.SIMDFastCopy
	if !NeedsSIMDCopy([]*fifo.FIFO{plain, simd}) {
		t.Error("expected true when a FIFO uses SIMD_FAST_COPY")
	}
}

func TestCSVColumnsGatedByTelemLevel(t *testing.T) {
	base := CSVColumns(config.TelemRateOnly)
	if len(base) != 3 {
		t.Fatalf("expected 3 base columns, got %d: %v", len(base), base)
	}
	full := CSVColumns(config.TelemPAPIFull)
	if len(full) <= len(base) {
		t.Fatalf("expected PAPI+breakdown columns to extend the base set, got %v", full)
	}
}

func TestTelemetryConfigJSONRoundTrips(t *testing.T) {
	cfg := TelemetryConfig{CSVFile: "eng_telem.csv", CoreMap: []int{0, 1, 2}, ColumnsRow: CSVColumns(config.TelemRateOnly)}
	data, err := TelemetryConfigJSON(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got TelemetryConfig
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if got.CSVFile != cfg.CSVFile || len(got.CoreMap) != 3 || len(got.ColumnsRow) != 3 {
		t.Errorf("expected lossless round-trip, got %+v", got)
	}
}

func TestMakefileGatesLibsOnNeeds(t *testing.T) {
	mk := Makefile("eng", false, false, config.TelemNone)
	if strings.Contains(mk, "-lrt") || strings.Contains(mk, "-latomic") || strings.Contains(mk, "-lpapi") {
		t.Errorf("expected no optional libs, got:\n%s", mk)
	}
	mk2 := Makefile("eng", true, true, config.TelemPAPIFull)
	for _, lib := range []string{"-lrt", "-latomic", "-lpapi", "-pthread"} {
		if !strings.Contains(mk2, lib) {
			t.Errorf("expected %s in Makefile, got:\n%s", lib, mk2)
		}
	}
}
