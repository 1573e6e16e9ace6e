// Package session drives a colorsplash edit: it renders the current state,
// waits for one input event and applies exactly one command per event.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/setanarut/colorsplash"
	"github.com/setanarut/colorsplash/utils"
)

// ErrEmptyName is returned when the user gives no output file name.
var ErrEmptyName = errors.New("empty output name")

// Event is one input read. Click is set when the user double-clicked the
// image since the previous read; it is in image coordinates.
type Event struct {
	Key   rune
	Click *image.Point
}

// Display renders frames and collects user input.
type Display interface {
	Show(name string, frame image.Image, legend string) error
	Next(ctx context.Context) (Event, error)
	Ask(prompt string) (string, error)
}

// Sink stores the finished image.
type Sink interface {
	Save(path string, img image.Image) error
}

// State is everything one iteration of the loop needs. Transitions return
// a new State; buffers in a State are never written after construction.
type State struct {
	Gray       colorsplash.RGB
	Color      colorsplash.RGB
	Mask       colorsplash.Mask
	Background int // 0 = Gray, 1 = Color
	Mode       Mode
	Thresholds colorsplash.Thresholds
	Click      image.Point
}

// NewState prepares a session for img in fill mode with a mask built from
// its grayscale reduction.
func NewState(img colorsplash.RGB, d colorsplash.EdgeDetector, th colorsplash.Thresholds) State {
	gray := colorsplash.Grayscale(img)
	return State{
		Gray:       gray,
		Color:      img,
		Mask:       colorsplash.BuildMask(gray, d, th),
		Mode:       ModeFill,
		Thresholds: th,
	}
}

// BackgroundImage returns the grid currently used as background.
func (s State) BackgroundImage() colorsplash.RGB {
	if s.Background == 1 {
		return s.Color
	}
	return s.Gray
}

// ForegroundImage returns the grid shown inside the selection.
func (s State) ForegroundImage() colorsplash.RGB {
	if s.Background == 1 {
		return s.Gray
	}
	return s.Color
}

// Frame renders what the user should see in the current mode.
func (s State) Frame() colorsplash.RGB {
	if s.Mode == ModePreview {
		return colorsplash.Finalize(s.BackgroundImage(), s.ForegroundImage(), s.Mask)
	}
	return colorsplash.Overlay(s.BackgroundImage(), s.Mask)
}

type Machine struct {
	Detector colorsplash.EdgeDetector
	Display  Display
	Sink     Sink
	// Number of foreground colours listed in the preview legend.
	// 0 disables the report.
	PaletteSize   int
	PaletteMethod utils.PaletteMethod
}

// Apply performs cmd on s. Commands that are not legal in s.Mode leave s
// unchanged. The returned error only reports a failed side effect (writing
// the output); the returned state is valid in every case.
func (m *Machine) Apply(s State, cmd Command) (State, error) {
	if !s.Mode.Allows(cmd) {
		return s, nil
	}
	log := colorsplash.Logger()
	log.Debug("apply", "mode", s.Mode, "cmd", cmd)

	switch cmd {
	case CmdSelectFill:
		s.Mask = colorsplash.FillAt(s.Mask, s.Click)
	case CmdSwapBackground:
		s.Background = (s.Background + 1) % 2
	case CmdSwapCategories:
		s.Mask = colorsplash.Swap(s.Mask)
	case CmdDilate:
		s.Mask = colorsplash.Dilate(s.Mask)
	case CmdBridge:
		s.Mask = colorsplash.Bridge(s.Mask)
	case CmdIncreaseMin, CmdDecreaseMin, CmdIncreaseMax, CmdDecreaseMax:
		s.Thresholds = adjust(s.Thresholds, cmd)
		s.Mask = colorsplash.BuildMask(s.Gray, m.Detector, s.Thresholds)
	case CmdGotoFill:
		s.Mode = ModeFill
	case CmdGotoEdit:
		s.Mode = ModeEdit
	case CmdGotoPreview:
		s.Mode = ModePreview
	case CmdWriteOutput:
		return s, m.write(s)
	case CmdQuit:
		s.Mode = ModeEnd
	}
	return s, nil
}

func adjust(t colorsplash.Thresholds, cmd Command) colorsplash.Thresholds {
	switch cmd {
	case CmdIncreaseMin:
		return t.Adjust(colorsplash.BoundMin, colorsplash.Step)
	case CmdDecreaseMin:
		return t.Adjust(colorsplash.BoundMin, -colorsplash.Step)
	case CmdIncreaseMax:
		return t.Adjust(colorsplash.BoundMax, colorsplash.Step)
	case CmdDecreaseMax:
		return t.Adjust(colorsplash.BoundMax, -colorsplash.Step)
	}
	return t
}

func (m *Machine) write(s State) error {
	name, err := m.Display.Ask("What would you like to name the output file?")
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	path := utils.OutputPath(name)
	out := colorsplash.Finalize(s.BackgroundImage(), s.ForegroundImage(), s.Mask)
	if err := m.Sink.Save(path, out.Image()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	colorsplash.Logger().Info("output written", "path", path)
	return nil
}

// Run loops until the user quits, the input ends or ctx is cancelled, and
// returns the last state. End of input counts as quitting.
func (m *Machine) Run(ctx context.Context, s State) (State, error) {
	log := colorsplash.Logger()
	var notice string
	for s.Mode != ModeEnd {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		frame := s.Frame()
		if err := m.Display.Show(s.Mode.String(), frame.Image(), m.Legend(s, notice)); err != nil {
			return s, fmt.Errorf("show %s: %w", s.Mode, err)
		}
		notice = ""

		ev, err := m.Display.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.Mode = ModeEnd
				return s, nil
			}
			return s, err
		}
		if ev.Click != nil {
			s.Click = *ev.Click
			log.Debug("click", "x", s.Click.X, "y", s.Click.Y)
		}

		next, err := m.Apply(s, KeyCommand(s.Mode, ev.Key))
		if err != nil {
			log.Warn("command failed", "err", err)
			notice = err.Error()
		}
		s = next
	}
	return s, nil
}
