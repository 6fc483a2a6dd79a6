// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package adxl345 controls an ADXL345 3-axis accelerometer over I²C or SPI.
//
// The driver talks to the chip through a Port, a register level capability
// with I²C, SPI and TinyGo implementations. New configures the data format
// and enables measurement before returning the Dev.
//
// Accesses are not retried. When a multi-register sequence fails part way the
// writes already done stay in effect on the chip; the returned *SequenceError
// tells which step failed.
//
// # Datasheet
//
// http://www.analog.com/media/en/technical-documentation/data-sheets/ADXL345.pdf
package adxl345
