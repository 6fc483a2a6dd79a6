// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package fabo3axis is a container for the FaBo 3AXIS brick (ADXL345)
// driver and its helpers.
//
// The driver lives in package adxl345; screen1d draws its samples on a
// terminal.
package fabo3axis
