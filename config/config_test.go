package config

import "testing"

func TestValidateRequiresDesignName(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for missing DesignName")
	}
}

func TestValidateDefaults(t *testing.T) {
	c := Config{DesignName: "demo"}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.IOSuffix != "io" {
		t.Errorf("expected default IOSuffix 'io', got %q", c.IOSuffix)
	}
	if c.CacheLineBytes != 64 {
		t.Errorf("expected default CacheLineBytes 64, got %d", c.CacheLineBytes)
	}
	if c.TelemDumpFilePrefix != "demo_" {
		t.Errorf("expected default TelemDumpFilePrefix 'demo_', got %q", c.TelemDumpFilePrefix)
	}
}

func TestValidateAccumulatesMultipleErrors(t *testing.T) {
	c := Config{TelemLevel: TelemPAPIFull}
	err := c.Validate()
	if err == nil {
		t.Fatal("expected accumulated errors")
	}
	msg := err.Error()
	if !contains(msg, "DesignName") || !contains(msg, "PAPI") {
		t.Errorf("expected both violations reported, got: %s", msg)
	}
}

func TestCoreMapPartitionCore(t *testing.T) {
	m := CoreMap{3, 0, 1}
	ioCore, ok := m.IOCore()
	if !ok || ioCore != 3 {
		t.Fatalf("expected IO core 3, got %d ok=%v", ioCore, ok)
	}
	core, ok, err := m.PartitionCore(1)
	if err != nil || !ok || core != 1 {
		t.Fatalf("expected partition 1 core 1, got %d ok=%v err=%v", core, ok, err)
	}
	if _, _, err := m.PartitionCore(5); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestCoreMapEmptySkipsPinning(t *testing.T) {
	var m CoreMap
	if _, ok := m.IOCore(); ok {
		t.Fatal("expected no IO core for empty map")
	}
	if _, ok, err := m.PartitionCore(0); ok || err != nil {
		t.Fatalf("expected pinning skipped, got ok=%v err=%v", ok, err)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
