package config

import (
	"strings"
	"testing"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("WAVEPLAY_VOLUME", "0.5")
	t.Setenv("WAVEPLAY_VISUALIZER", "radial")
	t.Setenv("WAVEPLAY_FFT_SIZE", "512")
	t.Setenv("WAVEPLAY_EQ_ENABLED", "false")
	t.Setenv("WAVEPLAY_BARS", "not-a-number")

	cfg := Load()
	if cfg.Volume != 0.5 {
		t.Fatalf("expected volume 0.5, got %v", cfg.Volume)
	}
	if cfg.Visualizer != "radial" {
		t.Fatalf("expected radial visualizer, got %q", cfg.Visualizer)
	}
	if cfg.FFTSize != 512 {
		t.Fatalf("expected fft size 512, got %d", cfg.FFTSize)
	}
	if cfg.EQEnabled {
		t.Fatal("expected EQ disabled from environment")
	}
	if cfg.Bars != Defaults().Bars {
		t.Fatalf("expected malformed bar count to fall back to %d, got %d", Defaults().Bars, cfg.Bars)
	}
}

func TestValidateDefaults(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestValidateRejectsBadFFTSize(t *testing.T) {
	cfg := Defaults()
	cfg.FFTSize = 300
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "power of two") {
		t.Fatalf("expected power-of-two error, got %v", err)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Volume = 2
	cfg.Visualizer = "lasers"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "volume") || !strings.Contains(msg, "lasers") {
		t.Fatalf("expected both errors reported, got %q", msg)
	}
}

func TestValidateAcceptsVisualizerAliases(t *testing.T) {
	for _, name := range []string{"bars", "Waveform", "wave", "radial", "circular", "particles"} {
		cfg := Defaults()
		cfg.Visualizer = name
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() with visualizer %q error = %v", name, err)
		}
	}
}
