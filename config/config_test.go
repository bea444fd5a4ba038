package config

import (
	"testing"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.View.DefaultZoom != 100 || cfg.View.CellPixels != 10 {
		t.Errorf("view defaults = %+v", cfg.View)
	}
	if !cfg.Edit.Quantize {
		t.Errorf("quantize should default on")
	}
	if cfg.Preview.Channel != 1 {
		t.Errorf("preview channel = %d, want 1", cfg.Preview.Channel)
	}
}

func TestConfig_SaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.View.DefaultZoom = 240
	cfg.Edit.Quantize = false
	cfg.Preview.PortName = "FluidSynth"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.View.DefaultZoom != 240 {
		t.Errorf("zoom = %v, want 240", got.View.DefaultZoom)
	}
	if got.Edit.Quantize {
		t.Errorf("quantize should stay off after reload")
	}
	if got.Preview.PortName != "FluidSynth" {
		t.Errorf("port = %q, want FluidSynth", got.Preview.PortName)
	}
	if got.View.MaxZoom != 1000 {
		t.Errorf("max zoom = %v, want 1000", got.View.MaxZoom)
	}
}
