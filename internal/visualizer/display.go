package visualizer

import "github.com/olivier-w/waveplay/internal/spectrum"

const (
	DefaultFPS    = 30
	springFreq    = 14.0
	springDamping = 0.8
)

// Display drives one renderer onto a canvas. Frequency snapshots are copied
// and eased with springs before rendering; the caller's buffer is never
// modified or retained.
type Display struct {
	opts     Options
	fps      int
	renderer Renderer
	canvas   *Canvas
	springs  springBank
	buf      []byte
	prev     []Command
	view     string
}

// NewDisplay creates a display of cols×rows cells animating at fps.
func NewDisplay(mode Mode, cols, rows, fps int, opts Options) *Display {
	if fps <= 0 {
		fps = DefaultFPS
	}
	d := &Display{
		opts:    opts,
		fps:     fps,
		canvas:  NewCanvas(cols, rows),
		springs: newSpringBank(fps, springFreq, springDamping),
	}
	d.SetMode(mode)
	return d
}

// Mode returns the active mode.
func (d *Display) Mode() Mode { return d.renderer.Mode() }

// Input returns the snapshot kind the active renderer reads.
func (d *Display) Input() spectrum.Kind { return d.renderer.Input() }

// SetMode swaps the renderer and drops trail state.
func (d *Display) SetMode(mode Mode) {
	d.renderer = New(mode, d.opts)
	d.prev = nil
	d.springs = newSpringBank(d.fps, springFreq, springDamping)
}

// NextMode cycles to the next renderer and returns it.
func (d *Display) NextMode() Mode {
	d.SetMode(d.Mode().Next())
	return d.Mode()
}

// Resize changes the canvas size in cells.
func (d *Display) Resize(cols, rows int) {
	if c, r := d.canvas.Size(); c == cols && r == rows {
		return
	}
	d.canvas.Resize(cols, rows)
	d.prev = nil
}

// Update renders one frame from snap. Snapshots of the wrong kind or with no
// data render the idle frame.
func (d *Display) Update(snap spectrum.Snapshot) {
	if snap.Kind != d.renderer.Input() {
		snap = spectrum.Snapshot{Kind: d.renderer.Input()}
	}
	d.buf = append(d.buf[:0], snap.Data...)
	if snap.Kind == spectrum.Frequency && len(d.buf) > 0 {
		d.springs.follow(d.buf, d.buf)
	}
	frame := spectrum.Snapshot{Kind: snap.Kind, Data: d.buf}
	d.prev = d.renderer.Render(frame, d.canvas.Surface(), d.prev)
	d.canvas.Draw(d.prev)
	d.view = d.canvas.View()
}

// Idle renders the flat idle frame.
func (d *Display) Idle() {
	d.Update(spectrum.Snapshot{Kind: d.renderer.Input()})
}

// Commands returns the last frame's draw commands.
func (d *Display) Commands() []Command { return d.prev }

// View returns the last rendered frame.
func (d *Display) View() string { return d.view }
