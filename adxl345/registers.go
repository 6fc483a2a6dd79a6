// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"fmt"
	"strings"
)

// I²C addresses.
const (
	DefaultAddr uint16 = 0x53 // ALT ADDRESS pin low
	AltAddr     uint16 = 0x1D // ALT ADDRESS pin high
)

// DeviceID is the content of RegDevID on an ADXL345.
const DeviceID byte = 0xE5

// Register addresses.
const (
	RegDevID        byte = 0x00 // Device ID
	RegThreshTap    byte = 0x1D // Tap threshold, 62.5mg/LSB
	RegOfsX         byte = 0x1E // X-axis offset
	RegOfsY         byte = 0x1F // Y-axis offset
	RegOfsZ         byte = 0x20 // Z-axis offset
	RegDur          byte = 0x21 // Tap duration, 625µs/LSB
	RegLatent       byte = 0x22 // Tap latency, 1.25ms/LSB
	RegWindow       byte = 0x23 // Tap window, 1.25ms/LSB
	RegThreshAct    byte = 0x24 // Activity threshold
	RegThreshInact  byte = 0x25 // Inactivity threshold
	RegTimeInact    byte = 0x26 // Inactivity time
	RegActInactCtl  byte = 0x27 // Axis enable control for activity and inactivity detection
	RegThreshFF     byte = 0x28 // Free-fall threshold
	RegTimeFF       byte = 0x29 // Free-fall time
	RegTapAxes      byte = 0x2A // Axis control for single tap/double tap
	RegActTapStatus byte = 0x2B // Source of single tap/double tap
	RegBwRate       byte = 0x2C // Data rate and power mode control
	RegPowerCtl     byte = 0x2D // Power-saving features control
	RegIntEnable    byte = 0x2E // Interrupt enable control
	RegIntMap       byte = 0x2F // Interrupt mapping control
	RegIntSource    byte = 0x30 // Source of interrupts
	RegDataFormat   byte = 0x31 // Data format control

	RegDataX0 byte = 0x32
	RegDataX1 byte = 0x33
	RegDataY0 byte = 0x34
	RegDataY1 byte = 0x35
	RegDataZ0 byte = 0x36
	RegDataZ1 byte = 0x37

	RegFifoCtl    byte = 0x38
	RegFifoStatus byte = 0x39
)

// DataFormat holds the mode bits of RegDataFormat. The two range bits are
// carried separately as a Range.
type DataFormat byte

const (
	SelfTest  DataFormat = 0x80 // Apply the self-test force
	SPI3Wire  DataFormat = 0x40 // 3-wire SPI mode
	IntInvert DataFormat = 0x20 // Interrupts active low
	FullRes   DataFormat = 0x08 // 4mg/LSB at every range
	Justify   DataFormat = 0x04 // Left justified (MSB) samples

	formatMask DataFormat = SelfTest | SPI3Wire | IntInvert | FullRes | Justify
)

func (f DataFormat) String() string {
	return flagString(byte(f), []flagName{
		{byte(SelfTest), "SelfTest"},
		{byte(SPI3Wire), "SPI3Wire"},
		{byte(IntInvert), "IntInvert"},
		{byte(FullRes), "FullRes"},
		{byte(Justify), "Justify"},
	})
}

// Range is the measurement range, the two low bits of RegDataFormat.
type Range byte

const (
	Range2G  Range = 0x00 // ±2g
	Range4G  Range = 0x01 // ±4g
	Range8G  Range = 0x02 // ±8g
	Range16G Range = 0x03 // ±16g
)

func (r Range) String() string {
	switch r {
	case Range2G:
		return "±2g"
	case Range4G:
		return "±4g"
	case Range8G:
		return "±8g"
	case Range16G:
		return "±16g"
	default:
		return fmt.Sprintf("Range(%#x)", byte(r))
	}
}

// PowerCtl holds the flag bits of RegPowerCtl. The wake-up frequency is
// carried separately as a Wakeup.
type PowerCtl byte

const (
	Link      PowerCtl = 0x20 // Serial activity and inactivity
	AutoSleep PowerCtl = 0x10 // Sleep on inactivity
	Measure   PowerCtl = 0x08 // Measurement mode, standby when cleared
	Sleep     PowerCtl = 0x04 // Sleep mode
)

func (p PowerCtl) String() string {
	return flagString(byte(p), []flagName{
		{byte(Link), "Link"},
		{byte(AutoSleep), "AutoSleep"},
		{byte(Measure), "Measure"},
		{byte(Sleep), "Sleep"},
	})
}

// Wakeup is the sampling frequency while in sleep mode, the two low bits of
// RegPowerCtl.
type Wakeup byte

const (
	Wakeup8Hz Wakeup = 0x00
	Wakeup4Hz Wakeup = 0x01
	Wakeup2Hz Wakeup = 0x02
	Wakeup1Hz Wakeup = 0x03
)

func (w Wakeup) String() string {
	switch w {
	case Wakeup8Hz:
		return "8Hz"
	case Wakeup4Hz:
		return "4Hz"
	case Wakeup2Hz:
		return "2Hz"
	case Wakeup1Hz:
		return "1Hz"
	default:
		return fmt.Sprintf("Wakeup(%#x)", byte(w))
	}
}

// TapAxes selects the axes taking part in tap detection.
type TapAxes byte

const (
	TapZ        TapAxes = 0x01
	TapY        TapAxes = 0x02
	TapX        TapAxes = 0x04
	TapSuppress TapAxes = 0x08 // Suppress double tap when acceleration exceeds the threshold between taps
)

func (t TapAxes) String() string {
	return flagString(byte(t), []flagName{
		{byte(TapSuppress), "Suppress"},
		{byte(TapX), "X"},
		{byte(TapY), "Y"},
		{byte(TapZ), "Z"},
	})
}

// Interrupt is the bit layout shared by RegIntEnable, RegIntMap and
// RegIntSource.
type Interrupt byte

const (
	IntDataReady  Interrupt = 0x80
	IntSingleTap  Interrupt = 0x40
	IntDoubleTap  Interrupt = 0x20
	IntActivity   Interrupt = 0x10
	IntInactivity Interrupt = 0x08
	IntFreeFall   Interrupt = 0x04
	IntWatermark  Interrupt = 0x02
	IntOverrun    Interrupt = 0x01
)

// SingleTap reports whether the single tap bit is set.
func (i Interrupt) SingleTap() bool {
	return i&IntSingleTap == IntSingleTap
}

// DoubleTap reports whether the double tap bit is set.
func (i Interrupt) DoubleTap() bool {
	return i&IntDoubleTap == IntDoubleTap
}

func (i Interrupt) String() string {
	return flagString(byte(i), []flagName{
		{byte(IntDataReady), "DataReady"},
		{byte(IntSingleTap), "SingleTap"},
		{byte(IntDoubleTap), "DoubleTap"},
		{byte(IntActivity), "Activity"},
		{byte(IntInactivity), "Inactivity"},
		{byte(IntFreeFall), "FreeFall"},
		{byte(IntWatermark), "Watermark"},
		{byte(IntOverrun), "Overrun"},
	})
}

type flagName struct {
	bit  byte
	name string
}

// flagString returns the names of the bits set in v joined with "|", "0"
// when none is set. Unknown bits are appended in hex.
func flagString(v byte, names []flagName) string {
	if v == 0 {
		return "0"
	}
	var out []string
	for _, n := range names {
		if v&n.bit != 0 {
			out = append(out, n.name)
			v &^= n.bit
		}
	}
	if v != 0 {
		out = append(out, fmt.Sprintf("%#x", v))
	}
	return strings.Join(out, "|")
}
