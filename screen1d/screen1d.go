// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen1d draws accelerometer samples on the terminal as one line
// of ANSI colored bars, one bar per axis.
//
// Useful to eyeball the sensor orientation and taps without plotting tools.
package screen1d

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"

	"github.com/GermanBionicSystems/fabo3axis/adxl345"
)

// Opts represents the options available for this display.
type Opts struct {
	// Width is the number of cells per axis bar. Default is 21.
	Width int
	// FullScale is the sample magnitude filling half a bar. Default is 512,
	// the span of ±16g with 10-bit samples.
	FullScale int16
	Palette   *ansi256.Palette
	// W is where the line is drawn. Default is stdout.
	W io.Writer

	_ struct{}
}

// Colors of the bar cells.
var (
	Positive = color.NRGBA{0, 200, 0, 255}
	Negative = color.NRGBA{200, 0, 0, 255}
	Empty    = color.NRGBA{40, 40, 40, 255}
	Center   = color.NRGBA{200, 200, 200, 255}
)

// Dev draws acceleration bars on the console.
type Dev struct {
	w       io.Writer
	width   int
	full    int
	palette ansi256.Palette

	cells []color.NRGBA
	buf   bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	width := opts.Width
	if width <= 0 {
		width = 21
	}
	full := int(opts.FullScale)
	if full <= 0 {
		full = 512
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{
		w:       w,
		width:   width,
		full:    full,
		palette: *p,
		cells:   make([]color.NRGBA, 3*width),
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("Screen1D{width:%d, full:%d}", d.width, d.full)
}

// Halt implements conn.Resource.
//
// It resets the colors and ends the line so the terminal is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Draw redraws the line with the three axes of a followed by the tap flags
// of status.
func (d *Dev) Draw(a adxl345.Acceleration, status adxl345.Interrupt) error {
	for i, v := range []int16{a.X, a.Y, a.Z} {
		d.fill(d.cells[i*d.width:(i+1)*d.width], v)
	}
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for i, c := range d.cells {
		if i != 0 && i%d.width == 0 {
			_, _ = d.buf.WriteString("\033[0m ")
		}
		_, _ = io.WriteString(&d.buf, d.palette.Block(c))
	}
	_, _ = d.buf.WriteString("\033[0m ")
	_, _ = d.buf.WriteString(tapFlags(status))
	_, err := d.buf.WriteTo(d.w)
	return err
}

// fill colors the cells of one bar for the value v.
func (d *Dev) fill(cells []color.NRGBA, v int16) {
	lo, hi := span(int(v), d.full, len(cells))
	c := len(cells) / 2
	for i := range cells {
		switch {
		case i >= lo && i < hi && i >= c:
			cells[i] = Positive
		case i >= lo && i < hi:
			cells[i] = Negative
		case i == c:
			cells[i] = Center
		default:
			cells[i] = Empty
		}
	}
}

// span returns the cells [lo, hi) covered by v in a bar of width cells
// centred on zero, where full fills one half.
func span(v, full, width int) (int, int) {
	c := width / 2
	half := width - c
	if v < 0 {
		half = c
	}
	mag := v
	if mag < 0 {
		mag = -mag
	}
	n := (mag*half + full/2) / full
	if n > half {
		n = half
	}
	if v < 0 {
		return c - n, c
	}
	return c, c + n
}

func tapFlags(status adxl345.Interrupt) string {
	s := []byte("  ")
	if status.SingleTap() {
		s[0] = 'S'
	}
	if status.DoubleTap() {
		s[1] = 'D'
	}
	return string(s)
}

var _ conn.Resource = &Dev{}
var _ fmt.Stringer = &Dev{}
