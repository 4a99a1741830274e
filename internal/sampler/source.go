// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package sampler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	iioMagnX = "in_magn_x_raw"
	iioMagnY = "in_magn_y_raw"
)

// ErrInvalidReading is returned when a sensor produced a reading that does not form a heading.
var ErrInvalidReading = errors.New("invalid magnetometer reading")

// Source provides compass headings in degrees.
type Source interface {
	Name() string
	Heading(ctx context.Context) (float64, error)
}

// IIOSource reads the magnetometer of a Linux Industrial I/O device from sysfs, e.g.
// /sys/bus/iio/devices/iio:device0. The per-axis scale is identical for x and y and
// cancels out in the heading, so only the raw values are read.
type IIOSource struct {
	dir    string
	invert bool
}

// NewIIOSource returns an IIOSource for the given device directory.
func NewIIOSource(dir string, invert bool) *IIOSource {
	return &IIOSource{dir: dir, invert: invert}
}

// Name returns the name of the source.
func (s *IIOSource) Name() string {
	return "iio"
}

// Heading reads one magnetometer sample and converts it into a heading.
func (s *IIOSource) Heading(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	x, err := readSysfsFloat(filepath.Join(s.dir, iioMagnX))
	if err != nil {
		return 0, err
	}
	y, err := readSysfsFloat(filepath.Join(s.dir, iioMagnY))
	if err != nil {
		return 0, err
	}
	if x == 0 && y == 0 {
		return 0, fmt.Errorf("%w: zero field vector", ErrInvalidReading)
	}
	heading, ok := HeadingFromMagnetometer(x, y, s.invert)
	if !ok {
		return 0, ErrInvalidReading
	}
	return heading, nil
}

// StaticSource always returns the same heading. It is used for manually entered bearings.
type StaticSource struct {
	heading float64
}

// NewStaticSource returns a StaticSource for the given heading in degrees.
func NewStaticSource(heading float64) *StaticSource {
	return &StaticSource{heading: heading}
}

// Name returns the name of the source.
func (s *StaticSource) Name() string {
	return "static"
}

// Heading returns the configured heading.
func (s *StaticSource) Heading(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.heading, nil
}

func readSysfsFloat(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read sensor value %q: %w", path, err)
	}
	val, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse sensor value %q: %w", path, err)
	}
	return val, nil
}
