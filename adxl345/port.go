// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import (
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"tinygo.org/x/drivers"
)

// Port is the register access the driver needs from a bus.
//
// addr is the 7-bit device address; implementations where the device is
// selected otherwise (SPI chip select) ignore it. Errors are returned as the
// bus reported them.
type Port interface {
	// WriteReg writes v to register reg.
	WriteReg(addr uint16, reg, v byte) error
	// ReadReg reads register reg.
	ReadReg(addr uint16, reg byte) (byte, error)
	// ReadRegs reads len(b) contiguous registers starting at reg.
	ReadRegs(addr uint16, reg byte, b []byte) error
}

// I2CPort accesses registers over an I²C bus.
type I2CPort struct {
	Bus i2c.Bus
}

// WriteReg implements Port.
func (p *I2CPort) WriteReg(addr uint16, reg, v byte) error {
	return p.Bus.Tx(addr, []byte{reg, v}, nil)
}

// ReadReg implements Port.
func (p *I2CPort) ReadReg(addr uint16, reg byte) (byte, error) {
	var r [1]byte
	err := p.Bus.Tx(addr, []byte{reg}, r[:])
	return r[0], err
}

// ReadRegs implements Port.
func (p *I2CPort) ReadRegs(addr uint16, reg byte, b []byte) error {
	return p.Bus.Tx(addr, []byte{reg}, b)
}

func (p *I2CPort) String() string {
	return p.Bus.String()
}

// SPI connection parameters.
var (
	SpiFrequency = physic.KiloHertz * 50
	SpiMode      = spi.Mode3 // CPOL=1, CPHA=1
	SpiBits      = 8
)

const (
	spiRead      = 0x80
	spiMultiByte = 0x40
)

// SPIPort accesses registers over a 4-wire SPI connection.
type SPIPort struct {
	Conn spi.Conn
}

// NewSPIPort connects to p with SpiFrequency, SpiMode and SpiBits.
func NewSPIPort(p spi.Port) (*SPIPort, error) {
	c, err := p.Connect(SpiFrequency, SpiMode, SpiBits)
	if err != nil {
		return nil, err
	}
	return &SPIPort{Conn: c}, nil
}

// WriteReg implements Port. addr is ignored.
func (p *SPIPort) WriteReg(_ uint16, reg, v byte) error {
	// The first byte is the register with the read bit cleared, the second
	// the value. The chip clocks nothing meaningful back.
	tx := []byte{reg, v}
	rx := make([]byte, len(tx))
	return p.Conn.Tx(tx, rx)
}

// ReadReg implements Port. addr is ignored.
func (p *SPIPort) ReadReg(_ uint16, reg byte) (byte, error) {
	// The second byte is a "don't care" clocking the register out.
	tx := []byte{reg | spiRead, 0x00}
	rx := make([]byte, len(tx))
	if err := p.Conn.Tx(tx, rx); err != nil {
		return 0, err
	}
	return rx[1], nil
}

// ReadRegs implements Port. addr is ignored.
func (p *SPIPort) ReadRegs(_ uint16, reg byte, b []byte) error {
	cmd := reg | spiRead
	if len(b) > 1 {
		cmd |= spiMultiByte
	}
	tx := make([]byte, len(b)+1)
	tx[0] = cmd
	rx := make([]byte, len(tx))
	if err := p.Conn.Tx(tx, rx); err != nil {
		return err
	}
	copy(b, rx[1:])
	return nil
}

func (p *SPIPort) String() string {
	return "spi"
}

// TinyGoPort accesses registers through a TinyGo I²C bus.
type TinyGoPort struct {
	Bus drivers.I2C
}

// WriteReg implements Port.
func (p *TinyGoPort) WriteReg(addr uint16, reg, v byte) error {
	return p.Bus.Tx(addr, []byte{reg, v}, nil)
}

// ReadReg implements Port.
func (p *TinyGoPort) ReadReg(addr uint16, reg byte) (byte, error) {
	var r [1]byte
	err := p.Bus.Tx(addr, []byte{reg}, r[:])
	return r[0], err
}

// ReadRegs implements Port.
func (p *TinyGoPort) ReadRegs(addr uint16, reg byte, b []byte) error {
	return p.Bus.Tx(addr, []byte{reg}, b)
}

var (
	_ Port = &I2CPort{}
	_ Port = &SPIPort{}
	_ Port = &TinyGoPort{}
)
