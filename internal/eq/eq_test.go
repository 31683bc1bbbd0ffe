package eq

import "testing"

func TestBandsLayout(t *testing.T) {
	bands := Bands()
	if bands[0].Type != LowShelf {
		t.Fatalf("expected first band low-shelf, got %v", bands[0].Type)
	}
	if bands[NumBands-1].Type != HighShelf {
		t.Fatalf("expected last band high-shelf, got %v", bands[NumBands-1].Type)
	}
	for i := 1; i < NumBands-1; i++ {
		if bands[i].Type != Peaking || bands[i].Q != 1 {
			t.Fatalf("band %d: expected peaking Q=1, got %v Q=%v", i, bands[i].Type, bands[i].Q)
		}
	}
	for i := 1; i < NumBands; i++ {
		if bands[i].Frequency <= bands[i-1].Frequency {
			t.Fatalf("expected ascending frequencies at %d", i)
		}
	}
}

func TestClampGain(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{13, 12},
		{-40, -12},
		{3.3, 3.5},
		{-0.2, 0},
		{1.25, 1.5},
	}
	for _, tc := range cases {
		if got := ClampGain(tc.in); got != tc.want {
			t.Fatalf("ClampGain(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRockThenFlatLeavesAllBandsAtZero(t *testing.T) {
	e := New()
	if err := e.ApplyPreset("rock"); err != nil {
		t.Fatalf("ApplyPreset(rock) error = %v", err)
	}
	if e.Gains().IsFlat() {
		t.Fatal("expected rock preset to change gains")
	}
	if err := e.ApplyPreset("flat"); err != nil {
		t.Fatalf("ApplyPreset(flat) error = %v", err)
	}
	for i, g := range e.Gains() {
		if g != 0 {
			t.Fatalf("band %d: expected 0 dB after flat, got %v", i, g)
		}
	}
}

func TestApplyPresetNotifiesOnceWithWholeVector(t *testing.T) {
	e := New()
	calls := 0
	var got Gains
	e.OnChange(func(g Gains, enabled bool) {
		calls++
		got = g
	})
	if err := e.ApplyPreset("Jazz"); err != nil {
		t.Fatalf("ApplyPreset error = %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one notification, got %d", calls)
	}
	want, _ := LookupPreset("jazz")
	if got != want.Gains {
		t.Fatalf("expected jazz gains %v, got %v", want.Gains, got)
	}
	if e.Preset() != "jazz" {
		t.Fatalf("expected preset name jazz, got %q", e.Preset())
	}
}

func TestApplyUnknownPresetKeepsGains(t *testing.T) {
	e := New()
	_ = e.SetBand(2, 4)
	if err := e.ApplyPreset("dubstep"); err == nil {
		t.Fatal("expected error for unknown preset")
	}
	if e.Gains()[2] != 4 {
		t.Fatalf("expected gains untouched, got %v", e.Gains())
	}
}

func TestSetBandRejectsOutOfRange(t *testing.T) {
	e := New()
	if err := e.SetBand(NumBands, 1); err == nil {
		t.Fatal("expected out-of-range error")
	}
	if err := e.AdjustBand(0, 20); err != nil {
		t.Fatalf("AdjustBand error = %v", err)
	}
	if e.Gains()[0] != MaxGain {
		t.Fatalf("expected clamp to %v, got %v", MaxGain, e.Gains()[0])
	}
	if e.Preset() != "custom" {
		t.Fatalf("expected custom preset after manual change, got %q", e.Preset())
	}
}

func TestNextPresetCycles(t *testing.T) {
	e := New()
	seen := map[string]bool{}
	for range len(Presets()) {
		seen[e.NextPreset()] = true
	}
	if len(seen) != len(Presets()) {
		t.Fatalf("expected every preset visited, got %v", seen)
	}
	if e.Preset() != "flat" {
		t.Fatalf("expected cycle to return to flat, got %q", e.Preset())
	}
}

func TestLabel(t *testing.T) {
	if Label(60) != "60" || Label(1000) != "1k" || Label(14000) != "14k" {
		t.Fatalf("unexpected labels: %s %s %s", Label(60), Label(1000), Label(14000))
	}
}
