package visualizer

import (
	"testing"

	"github.com/olivier-w/waveplay/internal/spectrum"
)

func TestDisplayDoesNotModifySnapshot(t *testing.T) {
	d := NewDisplay(Bars, 40, 10, 30, Options{})
	data := filled(64, 200)
	d.Update(freqSnap(data...))
	data2 := filled(64, 0)
	d.Update(freqSnap(data2...))
	for _, v := range data2 {
		if v != 0 {
			t.Fatal("display wrote into the caller's snapshot")
		}
	}
	if d.View() == "" {
		t.Fatal("empty view")
	}
}

func TestDisplaySpringsEaseTowardsTarget(t *testing.T) {
	d := NewDisplay(Bars, 40, 10, 30, Options{})
	d.Update(freqSnap(filled(64, 0)...))
	d.Update(freqSnap(filled(64, 255)...))
	if d.buf[0] == 0 || d.buf[0] == 255 {
		t.Fatalf("eased level = %d, want strictly between 0 and 255", d.buf[0])
	}
	for range 120 {
		d.Update(freqSnap(filled(64, 255)...))
	}
	if d.buf[0] < 250 {
		t.Fatalf("level after settling = %d, want ~255", d.buf[0])
	}
}

func TestDisplayWrongKindRendersIdle(t *testing.T) {
	d := NewDisplay(Waveform, 20, 6, 30, Options{})
	d.Update(freqSnap(filled(64, 255)...))
	mid := 6 * 4 / 2
	if !d.canvas.Lit(0, mid) {
		t.Fatal("idle waveform should draw the centre line")
	}
}

func TestDisplayModeCycleAndResize(t *testing.T) {
	d := NewDisplay(Bars, 20, 6, 0, Options{})
	if d.Input() != spectrum.Frequency {
		t.Fatalf("bars input = %v", d.Input())
	}
	if m := d.NextMode(); m != Waveform || d.Input() != spectrum.TimeDomain {
		t.Fatalf("NextMode = %v input %v", m, d.Input())
	}
	d.Resize(30, 8)
	if c, r := d.canvas.Size(); c != 30 || r != 8 {
		t.Fatalf("size = %dx%d", c, r)
	}
	d.Idle()
	if len(d.Commands()) == 0 {
		t.Fatal("idle frame produced no commands")
	}
}
