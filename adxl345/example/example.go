// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// example polls an ADXL345 for acceleration samples or taps.
//
//	example -bus 1              # print x, y, z every 500ms
//	example -tap                # print taps
//	example -bars -interval 50ms
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/fabo3axis/adxl345"
	"github.com/GermanBionicSystems/fabo3axis/screen1d"
)

func parseRange(g int) (adxl345.Range, error) {
	switch g {
	case 2:
		return adxl345.Range2G, nil
	case 4:
		return adxl345.Range4G, nil
	case 8:
		return adxl345.Range8G, nil
	case 16:
		return adxl345.Range16G, nil
	}
	return 0, fmt.Errorf("invalid -range %d, valid values are 2, 4, 8, 16", g)
}

func parseAddr(a uint) (uint16, error) {
	if a > 0x7F {
		return 0, fmt.Errorf("invalid -addr %#x, I²C addresses are 7 bits", a)
	}
	return uint16(a), nil
}

func open(busName, spiName string, addr uint16, opts *adxl345.Opts) (*adxl345.Dev, func() error, error) {
	if spiName != "" {
		p, err := spireg.Open(spiName)
		if err != nil {
			return nil, nil, err
		}
		d, err := adxl345.NewSPI(p, opts)
		if err != nil {
			p.Close()
			return nil, nil, err
		}
		return d, p.Close, nil
	}
	b, err := i2creg.Open(busName)
	if err != nil {
		return nil, nil, err
	}
	d, err := adxl345.NewI2C(b, addr, opts)
	if err != nil {
		b.Close()
		return nil, nil, err
	}
	return d, b.Close, nil
}

func mainImpl() error {
	busName := flag.String("bus", "", "I²C bus to use")
	spiName := flag.String("spi", "", "SPI port to use instead of I²C")
	addr := flag.Uint("addr", uint(adxl345.DefaultAddr), "I²C device address")
	g := flag.Int("range", 16, "measurement range in g: 2, 4, 8 or 16")
	tap := flag.Bool("tap", false, "print taps instead of samples")
	bars := flag.Bool("bars", false, "draw samples as colored bars")
	interval := flag.Duration("interval", 500*time.Millisecond, "polling interval")
	duration := flag.Duration("duration", 0, "stop after this duration, 0 runs until interrupted")
	verbose := flag.Bool("v", false, "trace register accesses")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	r, err := parseRange(*g)
	if err != nil {
		return err
	}
	a, err := parseAddr(*addr)
	if err != nil {
		return err
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	opts := adxl345.DefaultOpts
	opts.Range = r
	d, closer, err := open(*busName, *spiName, a, &opts)
	if err != nil {
		return err
	}
	defer closer()
	defer d.Halt()
	d.EnableDebug(log.Printf)

	ok, err := d.Identify()
	if err != nil {
		return err
	}
	if !ok {
		id, err := d.DeviceID()
		if err != nil {
			return err
		}
		return fmt.Errorf("device ID %#x is not an ADXL345", id)
	}
	if *tap {
		if err := d.EnableTap(nil); err != nil {
			return err
		}
	}

	var screen *screen1d.Dev
	if *bars {
		screen = screen1d.New(&screen1d.Opts{})
		defer screen.Halt()
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	var stop <-chan time.Time
	if *duration > 0 {
		stop = time.After(*duration)
	}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	for {
		select {
		case <-stop:
			return nil
		case <-interrupt:
			return nil
		case <-ticker.C:
		}
		var status adxl345.Interrupt
		if *tap || *bars {
			if status, err = d.ReadIntStatus(); err != nil {
				return err
			}
		}
		if *tap && !*bars {
			if status.DoubleTap() {
				fmt.Println("Double Tap")
			}
			if status.SingleTap() {
				fmt.Println("Single Tap")
			}
			fmt.Println("*")
			continue
		}
		a, err := d.Read()
		if err != nil {
			return err
		}
		if screen != nil {
			if err := screen.Draw(a, status); err != nil {
				return err
			}
			continue
		}
		fmt.Printf("x = %d\ny = %d\nz = %d\n\n", a.X, a.Y, a.Z)
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "example: %s.\n", err)
		os.Exit(1)
	}
}
