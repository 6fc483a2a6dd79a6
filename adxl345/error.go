// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl345

import "fmt"

// SequenceError is returned when a write of a multi-register sequence fails.
//
// Written writes of the sequence already took effect on the chip, the rest
// were not attempted.
type SequenceError struct {
	Op      string // Sequence, e.g. "EnableTap"
	Step    string // Failed step, e.g. "latency"
	Reg     byte   // Register of the failed step
	Written int
	Err     error // Bus error
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("adxl345: %s: %s (register 0x%02x) failed after %d writes: %v", e.Op, e.Step, e.Reg, e.Written, e.Err)
}

func (e *SequenceError) Unwrap() error {
	return e.Err
}

// RangeError is returned for a measurement range outside Range2G..Range16G.
type RangeError struct {
	Range Range
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("adxl345: invalid range %#x, valid values are 0 (±2g) to 3 (±16g)", byte(e.Range))
}

// OptsError is returned by New for an Opts field the chip cannot be
// configured with.
type OptsError struct {
	Field  string
	Value  byte
	Reason string
}

func (e *OptsError) Error() string {
	return fmt.Sprintf("adxl345: invalid %s %#x: %s", e.Field, e.Value, e.Reason)
}
