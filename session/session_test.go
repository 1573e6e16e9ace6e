package session

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"strings"
	"testing"

	"github.com/setanarut/colorsplash"
)

var (
	bgrRed   = [3]uint8{10, 10, 200}
	bgrBlue  = [3]uint8{255, 0, 0}
	bgrBlack = [3]uint8{0, 0, 0}
)

// ringImage is 7×7: a black ring on the square (1,1)-(5,5), red inside and
// blue outside.
func ringImage() colorsplash.RGB {
	img := colorsplash.NewRGB(7, 7)
	for y := range 7 {
		for x := range 7 {
			switch {
			case x >= 2 && x <= 4 && y >= 2 && y <= 4:
				img.Set(x, y, bgrRed)
			case x >= 1 && x <= 5 && y >= 1 && y <= 5:
				img.Set(x, y, bgrBlack)
			default:
				img.Set(x, y, bgrBlue)
			}
		}
	}
	return img
}

// darkDetector marks black pixels as edges and remembers its last call.
type darkDetector struct {
	low, high int
	calls     int
}

func (d *darkDetector) Detect(src *image.Gray, low, high int) *image.Gray {
	d.low, d.high = low, high
	d.calls++
	out := image.NewGray(src.Bounds())
	for i, v := range src.Pix {
		if v == 0 {
			out.Pix[i] = 255
		}
	}
	return out
}

type scriptedDisplay struct {
	events  []Event
	answers []string
	shown   []string
	legends []string
	frames  []image.Image
}

func (d *scriptedDisplay) Show(name string, frame image.Image, legend string) error {
	d.shown = append(d.shown, name)
	d.legends = append(d.legends, legend)
	d.frames = append(d.frames, frame)
	return nil
}

func (d *scriptedDisplay) Next(ctx context.Context) (Event, error) {
	if len(d.events) == 0 {
		return Event{}, io.EOF
	}
	ev := d.events[0]
	d.events = d.events[1:]
	return ev, nil
}

func (d *scriptedDisplay) Ask(prompt string) (string, error) {
	if len(d.answers) == 0 {
		return "", io.EOF
	}
	a := d.answers[0]
	d.answers = d.answers[1:]
	return a, nil
}

type memorySink struct {
	paths  []string
	images []image.Image
	err    error
}

func (s *memorySink) Save(path string, img image.Image) error {
	if s.err != nil {
		return s.err
	}
	s.paths = append(s.paths, path)
	s.images = append(s.images, img)
	return nil
}

func key(k rune) Event { return Event{Key: k} }

func click(k rune, x, y int) Event {
	p := image.Pt(x, y)
	return Event{Key: k, Click: &p}
}

func newTestMachine() (*Machine, *scriptedDisplay, *memorySink, *darkDetector) {
	d := &darkDetector{}
	disp := &scriptedDisplay{}
	sink := &memorySink{}
	return &Machine{Detector: d, Display: disp, Sink: sink}, disp, sink, d
}

func TestNewState(t *testing.T) {
	d := &darkDetector{}
	s := NewState(ringImage(), d, colorsplash.DefaultThresholds())
	if s.Mode != ModeFill {
		t.Errorf("expected fill mode, got %v", s.Mode)
	}
	if got := s.Mask.Count(colorsplash.CategoryBorder); got != 16 {
		t.Errorf("expected 16 ring pixels as border, got %d", got)
	}
	if d.low != 120 || d.high != 210 {
		t.Errorf("expected detector called with (120, 210), got (%d, %d)", d.low, d.high)
	}
	if got := s.Gray.At(3, 3); got != [3]uint8{73, 73, 73} {
		t.Errorf("expected gray 73 inside, got %v", got)
	}
}

func TestApplySelectFill(t *testing.T) {
	m, _, _, d := newTestMachine()
	s := NewState(ringImage(), d, colorsplash.DefaultThresholds())
	s.Click = image.Pt(3, 3)
	before := s.Mask

	next, err := m.Apply(s, CmdSelectFill)
	if err != nil {
		t.Fatal(err)
	}
	if got := next.Mask.Count(colorsplash.CategoryFill); got != 9 {
		t.Errorf("expected 9 filled pixels, got %d", got)
	}
	if before.Count(colorsplash.CategoryFill) != 0 || s.Mask.Count(colorsplash.CategoryFill) != 0 {
		t.Error("previous state must not be modified")
	}
}

func TestApplyIgnoresIllegalCommands(t *testing.T) {
	m, _, _, d := newTestMachine()
	s := NewState(ringImage(), d, colorsplash.DefaultThresholds())

	tests := []struct {
		mode Mode
		cmd  Command
	}{
		{ModeFill, CmdDilate},
		{ModeFill, CmdWriteOutput},
		{ModeEdit, CmdSelectFill},
		{ModeEdit, CmdGotoPreview},
		{ModePreview, CmdSwapCategories},
		{ModePreview, CmdIncreaseMax},
		{ModeFill, CmdNone},
	}
	for _, tt := range tests {
		s.Mode = tt.mode
		next, err := m.Apply(s, tt.cmd)
		if err != nil {
			t.Errorf("%v/%v: unexpected error %v", tt.mode, tt.cmd, err)
		}
		if next.Mode != s.Mode || !next.Mask.Equal(s.Mask) || next.Thresholds != s.Thresholds {
			t.Errorf("%v/%v: expected state unchanged", tt.mode, tt.cmd)
		}
	}
}

func TestApplyTransitions(t *testing.T) {
	m, _, _, d := newTestMachine()
	s := NewState(ringImage(), d, colorsplash.DefaultThresholds())

	steps := []struct {
		cmd  Command
		want Mode
	}{
		{CmdGotoEdit, ModeEdit},
		{CmdGotoFill, ModeFill},
		{CmdGotoPreview, ModePreview},
		{CmdGotoFill, ModeFill},
		{CmdQuit, ModeEnd},
	}
	for _, st := range steps {
		var err error
		s, err = m.Apply(s, st.cmd)
		if err != nil {
			t.Fatal(err)
		}
		if s.Mode != st.want {
			t.Fatalf("after %v: expected %v, got %v", st.cmd, st.want, s.Mode)
		}
	}
}

func TestApplySwapBackground(t *testing.T) {
	m, _, _, d := newTestMachine()
	s := NewState(ringImage(), d, colorsplash.DefaultThresholds())
	for _, mode := range []Mode{ModeFill, ModeEdit, ModePreview} {
		s.Mode = mode
		next, _ := m.Apply(s, CmdSwapBackground)
		if next.Background != 1 {
			t.Errorf("%v: expected background 1, got %d", mode, next.Background)
		}
		back, _ := m.Apply(next, CmdSwapBackground)
		if back.Background != 0 {
			t.Errorf("%v: expected background 0, got %d", mode, back.Background)
		}
	}
	s.Background = 1
	if s.BackgroundImage().At(3, 3) != bgrRed || s.ForegroundImage().At(3, 3) != [3]uint8{73, 73, 73} {
		t.Error("background 1 should use the colour image behind a gray foreground")
	}
}

func TestApplyThresholdsRebuildMask(t *testing.T) {
	m, _, _, d := newTestMachine()
	s := NewState(ringImage(), d, colorsplash.DefaultThresholds())
	s.Click = image.Pt(3, 3)
	s, _ = m.Apply(s, CmdSelectFill)
	s, _ = m.Apply(s, CmdGotoEdit)

	calls := d.calls
	s, _ = m.Apply(s, CmdIncreaseMax)
	if s.Thresholds != (colorsplash.Thresholds{Min: 120, Max: 225}) {
		t.Errorf("expected (120, 225), got %+v", s.Thresholds)
	}
	if d.calls != calls+1 || d.high != 225 {
		t.Errorf("expected one rebuild with high 225, got %d calls, high %d", d.calls-calls, d.high)
	}
	if s.Mask.Count(colorsplash.CategoryFill) != 0 {
		t.Error("rebuilt mask should start without fills")
	}

	for range 10 {
		s, _ = m.Apply(s, CmdIncreaseMax)
	}
	if s.Thresholds.Max != 255 {
		t.Errorf("expected max to stop at 255, got %d", s.Thresholds.Max)
	}
	for range 20 {
		s, _ = m.Apply(s, CmdDecreaseMin)
	}
	if s.Thresholds.Min != 0 {
		t.Errorf("expected min to stop at 0, got %d", s.Thresholds.Min)
	}
	for range 30 {
		s, _ = m.Apply(s, CmdIncreaseMin)
	}
	if s.Thresholds.Min != s.Thresholds.Max {
		t.Errorf("expected min to stop at max, got %+v", s.Thresholds)
	}
	s, _ = m.Apply(s, CmdDecreaseMax)
	if s.Thresholds.Max != 255 {
		t.Errorf("max cannot drop below min, got %+v", s.Thresholds)
	}
}

func TestApplyRepairAndSwap(t *testing.T) {
	m, _, _, d := newTestMachine()
	s := NewState(ringImage(), d, colorsplash.DefaultThresholds())
	s.Mode = ModeEdit

	dilated, _ := m.Apply(s, CmdDilate)
	if !dilated.Mask.Equal(colorsplash.Dilate(s.Mask)) {
		t.Error("dilate command should apply Dilate")
	}
	bridged, _ := m.Apply(s, CmdBridge)
	if !bridged.Mask.Equal(colorsplash.Bridge(s.Mask)) {
		t.Error("bridge command should apply Bridge")
	}
	swapped, _ := m.Apply(s, CmdSwapCategories)
	if !swapped.Mask.Equal(colorsplash.Swap(s.Mask)) {
		t.Error("swap-categories command should apply Swap")
	}
}

func TestApplyWriteOutput(t *testing.T) {
	m, disp, sink, d := newTestMachine()
	s := NewState(ringImage(), d, colorsplash.DefaultThresholds())
	s.Click = image.Pt(3, 3)
	s, _ = m.Apply(s, CmdSelectFill)
	s.Mode = ModePreview

	disp.answers = []string{"  result  "}
	next, err := m.Apply(s, CmdWriteOutput)
	if err != nil {
		t.Fatalf("write-output: %v", err)
	}
	if next.Mode != ModePreview {
		t.Errorf("expected to stay in preview, got %v", next.Mode)
	}
	if len(sink.paths) != 1 || sink.paths[0] != "result.jpg" {
		t.Fatalf("expected one write to result.jpg, got %v", sink.paths)
	}
	img := sink.images[0]
	if got := color.RGBAModel.Convert(img.At(3, 3)).(color.RGBA); got != (color.RGBA{R: 200, G: 10, B: 10, A: 255}) {
		t.Errorf("expected colour inside the selection, got %v", got)
	}
	if got := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA); got != (color.RGBA{R: 85, G: 85, B: 85, A: 255}) {
		t.Errorf("expected gray outside the selection, got %v", got)
	}
}

func TestApplyWriteOutputErrors(t *testing.T) {
	m, disp, sink, d := newTestMachine()
	s := NewState(ringImage(), d, colorsplash.DefaultThresholds())
	s.Mode = ModePreview

	disp.answers = []string{"   "}
	if _, err := m.Apply(s, CmdWriteOutput); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}

	sinkErr := errors.New("disk full")
	sink.err = sinkErr
	disp.answers = []string{"out.png"}
	next, err := m.Apply(s, CmdWriteOutput)
	if !errors.Is(err, sinkErr) {
		t.Errorf("expected sink error to be wrapped, got %v", err)
	}
	if !next.Mask.Equal(s.Mask) || next.Mode != s.Mode {
		t.Error("a failed write must not change the state")
	}
}

func TestRunScenario(t *testing.T) {
	m, disp, sink, d := newTestMachine()
	disp.events = []Event{
		click('o', 3, 3),
		key('p'),
		key('w'),
		key('x'),
	}
	disp.answers = []string{"splash.png"}

	final, err := m.Run(context.Background(), NewState(ringImage(), d, colorsplash.DefaultThresholds()))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if final.Mode != ModeEnd {
		t.Errorf("expected end mode, got %v", final.Mode)
	}
	if final.Click != image.Pt(3, 3) {
		t.Errorf("expected click (3,3) to be recorded, got %v", final.Click)
	}
	wantShown := []string{"fill", "fill", "preview", "preview"}
	if strings.Join(disp.shown, ",") != strings.Join(wantShown, ",") {
		t.Errorf("expected frames %v, got %v", wantShown, disp.shown)
	}
	if len(sink.paths) != 1 || sink.paths[0] != "splash.png" {
		t.Errorf("expected splash.png to be written, got %v", sink.paths)
	}
}

func TestRunReportsFailedWrite(t *testing.T) {
	m, disp, sink, d := newTestMachine()
	sink.err = errors.New("read-only file system")
	disp.events = []Event{key('p'), key('w'), key('f')}
	disp.answers = []string{"out"}

	final, err := m.Run(context.Background(), NewState(ringImage(), d, colorsplash.DefaultThresholds()))
	if err != nil {
		t.Fatalf("a failed write must not stop the loop: %v", err)
	}
	if final.Mode != ModeEnd {
		t.Errorf("end of input should end the session, got %v", final.Mode)
	}
	// Frames: fill, preview, preview (after the failed write), fill.
	if len(disp.legends) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(disp.legends))
	}
	if !strings.Contains(disp.legends[2], "read-only file system") {
		t.Errorf("expected failure notice in the next legend, got %q", disp.legends[2])
	}
	if strings.Contains(disp.legends[3], "read-only") {
		t.Error("notice should only be shown once")
	}
}

func TestRunIgnoresUnboundKeys(t *testing.T) {
	m, disp, _, d := newTestMachine()
	disp.events = []Event{key('z'), key('d'), {}, key('x')}
	start := NewState(ringImage(), d, colorsplash.DefaultThresholds())

	final, err := m.Run(context.Background(), start)
	if err != nil {
		t.Fatal(err)
	}
	if !final.Mask.Equal(start.Mask) {
		t.Error("unbound keys must not change the mask")
	}
}

func TestRunCancelled(t *testing.T) {
	m, disp, _, d := newTestMachine()
	disp.events = []Event{key('e')}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Run(ctx, NewState(ringImage(), d, colorsplash.DefaultThresholds()))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(disp.shown) != 0 {
		t.Error("nothing should be rendered after cancellation")
	}
}

func TestFrame(t *testing.T) {
	d := &darkDetector{}
	s := NewState(ringImage(), d, colorsplash.DefaultThresholds())
	s.Mask = colorsplash.FillAt(s.Mask, image.Pt(3, 3))

	overlay := s.Frame()
	if overlay.At(1, 1) != [3]uint8{0, 255, 0} {
		t.Errorf("fill mode should draw borders in green, got %v", overlay.At(1, 1))
	}

	s.Mode = ModePreview
	final := s.Frame()
	if final.At(3, 3) != bgrRed {
		t.Errorf("preview should show the colour foreground, got %v", final.At(3, 3))
	}
	if final.At(0, 0) != [3]uint8{85, 85, 85} {
		t.Errorf("preview should show the gray background, got %v", final.At(0, 0))
	}
}
