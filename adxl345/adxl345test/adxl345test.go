// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package adxl345test implements an in-memory ADXL345 register file for
// testing code using the adxl345 driver without hardware.
package adxl345test

import (
	"errors"
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/fabo3axis/adxl345"
)

// ErrBus is the error returned by injected faults when Registers.Err is nil.
var ErrBus = errors.New("adxl345test: injected bus error")

// Write is a recorded register write.
type Write struct {
	Addr uint16
	Reg  byte
	V    byte
}

func (w Write) String() string {
	return fmt.Sprintf("%#x:0x%02x<-0x%02x", w.Addr, w.Reg, w.V)
}

// Registers implements adxl345.Port over a 256 byte register file.
//
// Every successful write is appended to Writes. Reads return the register
// content. The zero value answers at every address with all registers
// cleared; use New for a freshly reset chip.
type Registers struct {
	sync.Mutex
	Regs   [256]byte
	Writes []Write

	// Addr, when not zero, is the only address answering; other addresses
	// fail with ErrNoDevice.
	Addr uint16
	// FailWriteAt makes the Nth write (1 based) fail with Err. 0 disables.
	FailWriteAt int
	// FailRead makes every read fail with Err.
	FailRead bool
	// Err is the injected error; nil means ErrBus.
	Err error

	writes int
}

// ErrNoDevice is returned for an address other than Registers.Addr.
var ErrNoDevice = errors.New("adxl345test: no device at address")

// New returns a register file in the ADXL345 reset state answering at
// addr.
func New(addr uint16) *Registers {
	r := &Registers{Addr: addr}
	r.Regs[adxl345.RegDevID] = adxl345.DeviceID
	r.Regs[adxl345.RegBwRate] = 0x0A
	r.Regs[adxl345.RegIntSource] = byte(adxl345.IntDataReady)
	return r
}

// SetSample stores a as the content of the six data registers.
func (r *Registers) SetSample(a adxl345.Acceleration) {
	r.Lock()
	defer r.Unlock()
	for i, v := range []int16{a.X, a.Y, a.Z} {
		u := uint16(v)
		r.Regs[int(adxl345.RegDataX0)+2*i] = byte(u)
		r.Regs[int(adxl345.RegDataX0)+2*i+1] = byte(u >> 8)
	}
}

// WriteReg implements adxl345.Port.
func (r *Registers) WriteReg(addr uint16, reg, v byte) error {
	r.Lock()
	defer r.Unlock()
	if err := r.check(addr); err != nil {
		return err
	}
	r.writes++
	if r.writes == r.FailWriteAt {
		return r.err()
	}
	r.Regs[reg] = v
	r.Writes = append(r.Writes, Write{Addr: addr, Reg: reg, V: v})
	return nil
}

// ReadReg implements adxl345.Port.
func (r *Registers) ReadReg(addr uint16, reg byte) (byte, error) {
	r.Lock()
	defer r.Unlock()
	if err := r.check(addr); err != nil {
		return 0, err
	}
	if r.FailRead {
		return 0, r.err()
	}
	return r.Regs[reg], nil
}

// ReadRegs implements adxl345.Port.
func (r *Registers) ReadRegs(addr uint16, reg byte, b []byte) error {
	r.Lock()
	defer r.Unlock()
	if err := r.check(addr); err != nil {
		return err
	}
	if r.FailRead {
		return r.err()
	}
	if int(reg)+len(b) > len(r.Regs) {
		return fmt.Errorf("adxl345test: read of %d registers from 0x%02x past the register file", len(b), reg)
	}
	copy(b, r.Regs[int(reg):])
	return nil
}

func (r *Registers) String() string {
	return "adxl345test"
}

func (r *Registers) check(addr uint16) error {
	if r.Addr != 0 && addr != r.Addr {
		return ErrNoDevice
	}
	return nil
}

func (r *Registers) err() error {
	if r.Err != nil {
		return r.Err
	}
	return ErrBus
}

var _ adxl345.Port = &Registers{}
