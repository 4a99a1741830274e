// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package gpsfix

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wneessen/lightning-locator/internal/geo"
)

// FileSource reads a fix from a text file containing "lat,lon" or "lat,lon,accuracy".
type FileSource struct {
	path string
}

// NewFileSource returns a FileSource for the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the name of the source.
func (s *FileSource) Name() string {
	return "file"
}

// Fix reads and parses the location file.
func (s *FileSource) Fix(ctx context.Context) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Fix{}, fmt.Errorf("failed to read location file %q: %w", s.path, err)
	}
	fields := strings.Split(strings.TrimSpace(string(data)), ",")
	if len(fields) != 2 && len(fields) != 3 {
		return Fix{}, fmt.Errorf("location file %q contains invalid coordinates", s.path)
	}

	values := make([]float64, len(fields))
	for i, field := range fields {
		values[i], err = strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return Fix{}, fmt.Errorf("failed to parse value %d from location file %q: %w", i+1, s.path, err)
		}
	}

	fix := Fix{
		Coordinate: geo.Coordinate{Lat: values[0], Lon: values[1]},
		Source:     s.Name(),
		At:         time.Now(),
	}
	if len(values) == 3 {
		if values[2] < 0 {
			return Fix{}, fmt.Errorf("location file %q contains a negative accuracy", s.path)
		}
		fix.AccuracyM = values[2]
	}
	if !fix.Coordinate.Valid() {
		return Fix{}, fmt.Errorf("%w: %s", ErrInvalidCoordinate, fix.Coordinate)
	}
	return fix, nil
}

// StaticSource returns a fixed position, e.g. from the configuration or command line.
type StaticSource struct {
	fix Fix
}

// NewStaticSource returns a StaticSource for the given coordinate and accuracy in meters.
func NewStaticSource(coord geo.Coordinate, accuracyM float64) *StaticSource {
	return &StaticSource{fix: Fix{Coordinate: coord, AccuracyM: accuracyM}}
}

// Name returns the name of the source.
func (s *StaticSource) Name() string {
	return "static"
}

// Fix returns the configured position.
func (s *StaticSource) Fix(ctx context.Context) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, err
	}
	if !s.fix.Coordinate.Valid() {
		return Fix{}, fmt.Errorf("%w: %s", ErrInvalidCoordinate, s.fix.Coordinate)
	}
	fix := s.fix
	fix.Source = s.Name()
	fix.At = time.Now()
	return fix, nil
}
