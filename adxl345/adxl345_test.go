// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
)

const addr uint16 = 0x53

// initOps is the bus trace of New with DefaultOpts.
func initOps() []i2ctest.IO {
	return []i2ctest.IO{
		{Addr: addr, W: []byte{RegDataFormat, 0x03}},
		{Addr: addr, W: []byte{RegPowerCtl, 0x08}},
	}
}

func TestNewI2C(t *testing.T) {
	bus := i2ctest.Playback{Ops: initOps()}
	d, err := NewI2C(&bus, addr, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s := d.String(); s != "ADXL345{addr:0x53, range:±16g}" {
		t.Fatalf("String() = %q", s)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewI2C_opts(t *testing.T) {
	bus := i2ctest.Playback{Ops: []i2ctest.IO{
		{Addr: AltAddr, W: []byte{RegDataFormat, byte(FullRes) | byte(Range4G)}},
		{Addr: AltAddr, W: []byte{RegPowerCtl, byte(AutoSleep|Measure) | byte(Wakeup2Hz)}},
	}}
	opts := Opts{Range: Range4G, Format: FullRes, AutoSleep: true, Wakeup: Wakeup2Hz}
	if _, err := NewI2C(&bus, AltAddr, &opts); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewI2C_badRange(t *testing.T) {
	bus := i2ctest.Playback{}
	_, err := NewI2C(&bus, addr, &Opts{Range: 4})
	var re *RangeError
	if !errors.As(err, &re) || re.Range != 4 {
		t.Fatalf("expected RangeError, got %v", err)
	}
}

func TestNewI2C_powerFails(t *testing.T) {
	// The power control write is missing from the playback, so it errors.
	bus := i2ctest.Playback{Ops: initOps()[:1], DontPanic: true}
	d, err := NewI2C(&bus, addr, nil)
	if d != nil {
		t.Fatal("expected no device")
	}
	var se *SequenceError
	if !errors.As(err, &se) {
		t.Fatalf("expected SequenceError, got %v", err)
	}
	if se.Op != "Init" || se.Reg != RegPowerCtl || se.Written != 1 {
		t.Fatalf("unexpected %#v", se)
	}
}

func TestIdentify(t *testing.T) {
	for _, id := range []byte{0xE5, 0xE4, 0x00, 0xFF} {
		ops := append(initOps(), i2ctest.IO{Addr: addr, W: []byte{RegDevID}, R: []byte{id}})
		bus := i2ctest.Playback{Ops: ops}
		d, err := NewI2C(&bus, addr, nil)
		if err != nil {
			t.Fatal(err)
		}
		ok, err := d.Identify()
		if err != nil {
			t.Fatal(err)
		}
		if ok != (id == DeviceID) {
			t.Fatalf("Identify() = %t for %#x", ok, id)
		}
		if err := bus.Close(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestEnableTap(t *testing.T) {
	ops := append(initOps(),
		i2ctest.IO{Addr: addr, W: []byte{RegThreshTap, 0x32}},
		i2ctest.IO{Addr: addr, W: []byte{RegDur, 0x30}},
		i2ctest.IO{Addr: addr, W: []byte{RegLatent, 0xF8}},
		i2ctest.IO{Addr: addr, W: []byte{RegWindow, 0x10}},
		i2ctest.IO{Addr: addr, W: []byte{RegIntEnable, 0x60}},
		i2ctest.IO{Addr: addr, W: []byte{RegTapAxes, 0x01}},
		i2ctest.IO{Addr: addr, W: []byte{RegIntSource}, R: []byte{0x60}},
	)
	bus := i2ctest.Playback{Ops: ops}
	d, err := NewI2C(&bus, addr, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.EnableTap(nil); err != nil {
		t.Fatal(err)
	}
	status, err := d.ReadIntStatus()
	if err != nil {
		t.Fatal(err)
	}
	if !status.SingleTap() || !status.DoubleTap() {
		t.Fatalf("status %s", status)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestRead(t *testing.T) {
	ops := append(initOps(), i2ctest.IO{
		Addr: addr,
		W:    []byte{RegDataX0},
		R:    []byte{0x00, 0x00, 0xFF, 0xFF, 0x00, 0x80},
	})
	bus := i2ctest.Playback{Ops: ops}
	d, err := NewI2C(&bus, addr, nil)
	if err != nil {
		t.Fatal(err)
	}
	a, err := d.Read()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Acceleration{X: 0, Y: -1, Z: -32768}, a); diff != "" {
		t.Fatalf("Read() difference (-want +got):\n%s", diff)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestCombine(t *testing.T) {
	for v := math.MinInt16; v <= math.MaxInt16; v++ {
		u := uint16(int16(v))
		if got := combine(byte(u), byte(u>>8)); int(got) != v {
			t.Fatalf("combine(%#x, %#x) = %d, want %d", byte(u), byte(u>>8), got, v)
		}
	}
	data := []struct {
		low, high byte
		want      int16
	}{
		{0x00, 0x00, 0},
		{0xFF, 0x7F, 32767},
		{0x00, 0x80, -32768},
		{0xFF, 0xFF, -1},
		{0x01, 0x00, 1},
		{0x00, 0x01, 256},
	}
	for _, line := range data {
		if got := combine(line.low, line.high); got != line.want {
			t.Errorf("combine(%#x, %#x) = %d, want %d", line.low, line.high, got, line.want)
		}
	}
}

func TestTapClassify(t *testing.T) {
	data := []struct {
		status      byte
		single, dbl bool
	}{
		{0x60, true, true},
		{0x40, true, false},
		{0x20, false, true},
		{0x00, false, false},
		{0x9F, false, false},
		{0xFF, true, true},
	}
	for _, line := range data {
		if got := IsSingleTap(line.status); got != line.single {
			t.Errorf("IsSingleTap(%#x) = %t", line.status, got)
		}
		if got := IsDoubleTap(line.status); got != line.dbl {
			t.Errorf("IsDoubleTap(%#x) = %t", line.status, got)
		}
	}
}

func TestSPI(t *testing.T) {
	pb := spitest.Playback{Playback: conntest.Playback{Ops: []conntest.IO{
		{W: []byte{RegDataFormat, 0x03}, R: []byte{0, 0}},
		{W: []byte{RegPowerCtl, 0x08}, R: []byte{0, 0}},
		{W: []byte{RegDevID | 0x80, 0}, R: []byte{0, DeviceID}},
		{W: []byte{RegDataX0 | 0xC0, 0, 0, 0, 0, 0, 0}, R: []byte{0, 0x10, 0x00, 0xF0, 0xFF, 0x00, 0x01}},
	}}}
	d, err := NewSPI(&pb, nil)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := d.Identify()
	if err != nil || !ok {
		t.Fatalf("Identify() = %t, %v", ok, err)
	}
	a, err := d.Read()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Acceleration{X: 16, Y: -16, Z: 256}, a); diff != "" {
		t.Fatalf("Read() difference (-want +got):\n%s", diff)
	}
	if err := pb.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestFlagString(t *testing.T) {
	data := []struct {
		got  string
		want string
	}{
		{(IntSingleTap | IntDoubleTap).String(), "SingleTap|DoubleTap"},
		{Interrupt(0).String(), "0"},
		{(FullRes | Justify).String(), "FullRes|Justify"},
		{(Measure | 0x01).String(), "Measure|0x1"},
		{TapZ.String(), "Z"},
		{Range(7).String(), "Range(0x7)"},
		{Wakeup1Hz.String(), "1Hz"},
	}
	for _, line := range data {
		if line.got != line.want {
			t.Errorf("%q != %q", line.got, line.want)
		}
	}
}

func TestDebug(t *testing.T) {
	bus := i2ctest.Playback{Ops: append(initOps(), i2ctest.IO{Addr: addr, W: []byte{RegPowerCtl, 0}})}
	d, err := NewI2C(&bus, addr, nil)
	if err != nil {
		t.Fatal(err)
	}
	var lines []string
	d.EnableDebug(func(format string, args ...interface{}) {
		lines = append(lines, format)
	})
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"write register %x value %x"}, lines); diff != "" {
		t.Fatalf("debug difference (-want +got):\n%s", diff)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestDebug_formatsDev(t *testing.T) {
	bus := i2ctest.Playback{Ops: append(initOps(),
		i2ctest.IO{Addr: addr, W: []byte{RegPowerCtl, 0x08}},
		i2ctest.IO{Addr: addr, W: []byte{RegDataFormat, 0x01}},
	)}
	d, err := NewI2C(&bus, addr, nil)
	if err != nil {
		t.Fatal(err)
	}
	var lines []string
	d.EnableDebug(func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf("%s: "+format, append([]interface{}{d}, args...)...))
	})
	done := make(chan error, 1)
	go func() {
		if err := d.PowerOn(); err != nil {
			done <- err
			return
		}
		done <- d.SetRange(Range4G)
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("register access blocked while the debug function printed the device")
	}
	want := []string{
		"ADXL345{addr:0x53, range:±16g}: write register 2d value 8",
		"ADXL345{addr:0x53, range:±16g}: write register 31 value 1",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("debug difference (-want +got):\n%s", diff)
	}
	if s := d.String(); s != "ADXL345{addr:0x53, range:±4g}" {
		t.Fatalf("String() = %q", s)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNew_invalidOpts(t *testing.T) {
	data := []struct {
		name  string
		p     Port
		opts  Opts
		field string
	}{
		{"wakeup", &I2CPort{Bus: &i2ctest.Playback{}}, Opts{Range: Range16G, Wakeup: 7}, "Wakeup"},
		{"reserved format bit", &I2CPort{Bus: &i2ctest.Playback{}}, Opts{Format: 0x10}, "Format"},
		{"range bits in format", &I2CPort{Bus: &i2ctest.Playback{}}, Opts{Format: 0x03}, "Format"},
		{"3-wire on SPI", mustSPIPort(&spitest.Playback{}), Opts{Format: SPI3Wire}, "Format"},
	}
	for _, line := range data {
		t.Run(line.name, func(t *testing.T) {
			// No bus op is expected: the Playback would fail on any Tx.
			d, err := New(line.p, addr, &line.opts)
			var oe *OptsError
			if d != nil || !errors.As(err, &oe) || oe.Field != line.field {
				t.Fatalf("New() = %v, %v", d, err)
			}
		})
	}
	// 3-wire is a valid data format bit on other ports.
	bus := i2ctest.Playback{Ops: []i2ctest.IO{
		{Addr: addr, W: []byte{RegDataFormat, 0x43}},
		{Addr: addr, W: []byte{RegPowerCtl, 0x08}},
	}}
	if _, err := NewI2C(&bus, addr, &Opts{Range: Range16G, Format: SPI3Wire}); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestSPIPort_ReadRegsSingle(t *testing.T) {
	pb := spitest.Playback{Playback: conntest.Playback{Ops: []conntest.IO{
		{W: []byte{RegIntSource | 0x80, 0}, R: []byte{0, 0x60}},
	}}}
	p := mustSPIPort(&pb)
	b := make([]byte, 1)
	if err := p.ReadRegs(0, RegIntSource, b); err != nil {
		t.Fatal(err)
	}
	if b[0] != 0x60 {
		t.Fatalf("ReadRegs() = %#x", b[0])
	}
	if err := pb.Close(); err != nil {
		t.Fatal(err)
	}
}

// mustSPIPort connects p the same way NewSPI does.
func mustSPIPort(p spi.Port) *SPIPort {
	sp, err := NewSPIPort(p)
	if err != nil {
		panic(err)
	}
	return sp
}

type connectFails struct {
	spitest.Playback
	err error
}

func (c *connectFails) Connect(physic.Frequency, spi.Mode, int) (spi.Conn, error) {
	return nil, c.err
}

func TestNewSPI_connectFails(t *testing.T) {
	busErr := errors.New("no such port")
	d, err := NewSPI(&connectFails{err: busErr}, nil)
	if d != nil || !errors.Is(err, busErr) {
		t.Fatalf("NewSPI() = %v, %v", d, err)
	}
}
