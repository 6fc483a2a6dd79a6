// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"fmt"
	"sync"
	"sync/atomic"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/spi"
)

// DebugF the debug function type.
type DebugF func(string, ...interface{})

// Opts holds the configuration written by Init.
type Opts struct {
	Range     Range      // Measurement range
	Format    DataFormat // Mode bits of the data format register
	AutoSleep bool       // Sleep on inactivity
	Wakeup    Wakeup     // Sampling frequency in sleep mode
}

// DefaultOpts is ±16g, right justified 10-bit samples, 8Hz wake-up and no
// auto sleep.
var DefaultOpts = Opts{
	Range:  Range16G,
	Wakeup: Wakeup8Hz,
}

// Tap holds the tap detection parameters.
type Tap struct {
	Threshold byte    // 62.5mg/LSB
	Duration  byte    // Maximum time above Threshold to count as a tap, 625µs/LSB
	Latency   byte    // Wait from a tap to the start of Window, 1.25ms/LSB
	Window    byte    // Time during which a second tap makes a double tap, 1.25ms/LSB
	Axes      TapAxes // Axes taking part in detection
}

// DefaultTap detects taps on the Z axis.
var DefaultTap = Tap{
	Threshold: 0x32,
	Duration:  0x30,
	Latency:   0xF8,
	Window:    0x10,
	Axes:      TapZ,
}

// Dev is a driver for the ADXL345 accelerometer.
type Dev struct {
	p     Port
	addr  uint16
	mu    sync.Mutex
	opts  Opts
	debug DebugF
	// rng mirrors opts.Range so String does not take mu; a DebugF may
	// format the Dev while a register access holds it.
	rng atomic.Uint32
}

// New returns a Dev talking to the device at addr through p, once the data
// format has been written and measurement enabled.
//
// addr 0 means DefaultAddr. opts nil means DefaultOpts. On error the Dev is
// not returned; the chip may be partially configured, see SequenceError.
func New(p Port, addr uint16, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if err := opts.validate(p); err != nil {
		return nil, err
	}
	if addr == 0 {
		addr = DefaultAddr
	}
	d := &Dev{p: p, addr: addr, opts: *opts, debug: noop}
	d.rng.Store(uint32(opts.Range))
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewI2C returns a Dev on an I²C bus. See New.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	return New(&I2CPort{Bus: b}, addr, opts)
}

// NewSPI returns a Dev on an SPI port. See New.
func NewSPI(p spi.Port, opts *Opts) (*Dev, error) {
	s, err := NewSPIPort(p)
	if err != nil {
		return nil, err
	}
	return New(s, 0, opts)
}

func (d *Dev) String() string {
	return fmt.Sprintf("ADXL345{addr:%#x, range:%s}", d.addr, d.Range())
}

// EnableDebug sets the function tracing register accesses.
func (d *Dev) EnableDebug(f DebugF) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if f == nil {
		f = noop
	}
	d.debug = f
}

// Init writes the data format then enables measurement.
//
// It is called by New and can be called again to bring the chip back to the
// Opts configuration, e.g. after a power cycle.
func (d *Dev) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeSequence("Init", []step{
		{"data format", RegDataFormat, d.dataFormat()},
		{"power control", RegPowerCtl, d.powerCtl()},
	})
}

// Identify reports whether the device ID register reads DeviceID.
func (d *Dev) Identify() (bool, error) {
	id, err := d.DeviceID()
	if err != nil {
		return false, err
	}
	return id == DeviceID, nil
}

// DeviceID returns the content of the device ID register.
func (d *Dev) DeviceID() (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readReg(RegDevID)
}

// Configure writes the data format register from the Opts mode bits and
// range.
func (d *Dev) Configure() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeReg(RegDataFormat, d.dataFormat())
}

// SetRange changes the measurement range and rewrites the data format
// register.
func (d *Dev) SetRange(r Range) error {
	if r > Range16G {
		return &RangeError{Range: r}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	prev := d.opts.Range
	d.opts.Range = r
	if err := d.writeReg(RegDataFormat, d.dataFormat()); err != nil {
		d.opts.Range = prev
		return err
	}
	d.rng.Store(uint32(r))
	return nil
}

// Range returns the measurement range last written by the driver.
func (d *Dev) Range() Range {
	return Range(d.rng.Load())
}

// PowerOn puts the device in measurement mode. This is required before
// reading samples.
func (d *Dev) PowerOn() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeReg(RegPowerCtl, d.powerCtl())
}

// Halt implements conn.Resource.
//
// It puts the device in standby. Registers keep their content; PowerOn
// resumes measurement.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeReg(RegPowerCtl, 0)
}

// EnableTap writes the tap parameters then enables the single and double tap
// interrupts on t.Axes. t nil means DefaultTap.
func (d *Dev) EnableTap(t *Tap) error {
	if t == nil {
		t = &DefaultTap
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	// Parameters go first, some parts raise spurious taps otherwise.
	return d.writeSequence("EnableTap", []step{
		{"threshold", RegThreshTap, t.Threshold},
		{"duration", RegDur, t.Duration},
		{"latency", RegLatent, t.Latency},
		{"window", RegWindow, t.Window},
		{"interrupt enable", RegIntEnable, byte(IntSingleTap | IntDoubleTap)},
		{"tap axes", RegTapAxes, byte(t.Axes)},
	})
}

// DisableTap disables the tap interrupts and tap detection on every axis.
func (d *Dev) DisableTap() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeSequence("DisableTap", []step{
		{"interrupt enable", RegIntEnable, 0},
		{"tap axes", RegTapAxes, 0},
	})
}

// MapInterrupts routes the sources in int2 to the INT2 pin, the others to
// INT1.
func (d *Dev) MapInterrupts(int2 Interrupt) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeReg(RegIntMap, byte(int2))
}

// ReadIntStatus returns the interrupt source register. Reading it clears the
// tap bits on the chip.
func (d *Dev) ReadIntStatus() (Interrupt, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.readReg(RegIntSource)
	return Interrupt(v), err
}

// IsSingleTap reports whether status, as read by ReadIntStatus, has the
// single tap bit set.
func IsSingleTap(status byte) bool {
	return Interrupt(status).SingleTap()
}

// IsDoubleTap reports whether status, as read by ReadIntStatus, has the
// double tap bit set.
func IsDoubleTap(status byte) bool {
	return Interrupt(status).DoubleTap()
}

// Read returns the raw acceleration on the three axes.
//
// The six data registers are read in one burst so the axes belong to the
// same sample.
func (d *Dev) Read() (Acceleration, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b [6]byte
	d.debug("read registers %x-%x", RegDataX0, RegDataZ1)
	if err := d.p.ReadRegs(d.addr, RegDataX0, b[:]); err != nil {
		return Acceleration{}, err
	}
	return decodeSample(b), nil
}

// ReadRegister reads one register.
func (d *Dev) ReadRegister(reg byte) (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readReg(reg)
}

// WriteRegister writes one register.
func (d *Dev) WriteRegister(reg, v byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeReg(reg, v)
}

// Acceleration represents the acceleration on the three axes, in LSB of
// the configured range.
type Acceleration struct {
	X int16
	Y int16
	Z int16
}

// String returns a string representation of the Acceleration
func (a Acceleration) String() string {
	return fmt.Sprintf("X:%d Y:%d Z:%d", a.X, a.Y, a.Z)
}

// decodeSample splits the DATAX0..DATAZ1 burst into the three axes.
func decodeSample(b [6]byte) Acceleration {
	return Acceleration{
		X: combine(b[0], b[1]),
		Y: combine(b[2], b[3]),
		Z: combine(b[4], b[5]),
	}
}

// combine returns the two's complement value of the little endian pair
// (low, high). The conversion to int16 wraps values with bit 15 set to
// v - 1<<16.
func combine(low, high byte) int16 {
	return int16(uint16(low) | uint16(high)<<8)
}

type step struct {
	name string
	reg  byte
	v    byte
}

// writeSequence writes the steps in order and stops at the first failure.
func (d *Dev) writeSequence(op string, steps []step) error {
	for i, s := range steps {
		if err := d.writeReg(s.reg, s.v); err != nil {
			return &SequenceError{Op: op, Step: s.name, Reg: s.reg, Written: i, Err: err}
		}
	}
	return nil
}

// validate rejects values the registers cannot hold. SPI3Wire is refused on
// an SPIPort, which only does 4-wire transfers.
func (o *Opts) validate(p Port) error {
	if o.Range > Range16G {
		return &RangeError{Range: o.Range}
	}
	if o.Wakeup > Wakeup1Hz {
		return &OptsError{Field: "Wakeup", Value: byte(o.Wakeup), Reason: "valid values are 0 (8Hz) to 3 (1Hz)"}
	}
	if extra := o.Format &^ formatMask; extra != 0 {
		return &OptsError{Field: "Format", Value: byte(extra), Reason: "unknown data format bits"}
	}
	if _, ok := p.(*SPIPort); ok && o.Format&SPI3Wire != 0 {
		return &OptsError{Field: "Format", Value: byte(SPI3Wire), Reason: "3-wire mode is not supported by SPIPort"}
	}
	return nil
}

func (d *Dev) dataFormat() byte {
	return byte(d.opts.Format&formatMask) | byte(d.opts.Range&0x03)
}

func (d *Dev) powerCtl() byte {
	v := Measure
	if d.opts.AutoSleep {
		v |= AutoSleep
	}
	return byte(v) | byte(d.opts.Wakeup&0x03)
}

func (d *Dev) writeReg(reg, v byte) error {
	d.debug("write register %x value %x", reg, v)
	return d.p.WriteReg(d.addr, reg, v)
}

func (d *Dev) readReg(reg byte) (byte, error) {
	d.debug("read register %x", reg)
	v, err := d.p.ReadReg(d.addr, reg)
	if err != nil {
		return 0, err
	}
	d.debug("register content %x", v)
	return v, nil
}

func noop(string, ...interface{}) {}

var _ conn.Resource = &Dev{}
