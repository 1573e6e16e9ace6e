// Package console is a terminal display for a colorsplash session. Frames
// are written as PNG files that any image viewer can keep open; input is
// read line by line.
//
// Input lines:
//
//	o          press key o
//	120 45     double-click at x=120, y=45
//	o 120 45   double-click, then press o
package console

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/setanarut/colorsplash/session"
	"github.com/setanarut/colorsplash/utils"
)

type Display struct {
	in  *bufio.Scanner
	out io.Writer
	dir string
}

// New returns a display that reads from in, prints to out and writes frames
// into dir.
func New(in io.Reader, out io.Writer, dir string) *Display {
	return &Display{in: bufio.NewScanner(in), out: out, dir: dir}
}

// FramePath returns where the frame named name is written.
func (d *Display) FramePath(name string) string {
	return filepath.Join(d.dir, name+".png")
}

func (d *Display) Show(name string, frame image.Image, legend string) error {
	path := d.FramePath(name)
	if err := utils.SaveImage(frame, path); err != nil {
		return err
	}
	_, err := fmt.Fprintf(d.out, "[%s] %s\n\n%s", name, path, legend)
	return err
}

// Next blocks until a line is read. io.EOF is returned at end of input.
func (d *Display) Next(ctx context.Context) (session.Event, error) {
	if err := ctx.Err(); err != nil {
		return session.Event{}, err
	}
	line, err := d.readLine()
	if err != nil {
		return session.Event{}, err
	}
	return ParseEvent(line), nil
}

func (d *Display) Ask(prompt string) (string, error) {
	if _, err := fmt.Fprintln(d.out, prompt); err != nil {
		return "", err
	}
	return d.readLine()
}

// Say prints one message line.
func (d *Display) Say(msg string) error {
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func (d *Display) readLine() (string, error) {
	if !d.in.Scan() {
		if err := d.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return d.in.Text(), nil
}

// ParseEvent decodes one input line. Lines that match none of the accepted
// forms yield the zero Event.
func ParseEvent(line string) session.Event {
	f := strings.Fields(line)
	switch len(f) {
	case 1:
		if k, ok := parseKey(f[0]); ok {
			return session.Event{Key: k}
		}
	case 2:
		if p, ok := parsePoint(f[0], f[1]); ok {
			return session.Event{Click: &p}
		}
	case 3:
		k, ok := parseKey(f[0])
		p, ok2 := parsePoint(f[1], f[2])
		if ok && ok2 {
			return session.Event{Key: k, Click: &p}
		}
	}
	return session.Event{}
}

func parseKey(s string) (rune, bool) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, false
	}
	return unicode.ToLower(r), true
}

func parsePoint(xs, ys string) (image.Point, bool) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return image.Point{}, false
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return image.Point{}, false
	}
	return image.Pt(x, y), true
}
