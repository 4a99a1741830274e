// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package sampler

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestIIOSource_Heading(t *testing.T) {
	t.Run("reading a heading succeeds", func(t *testing.T) {
		dir := writeIIODevice(t, "0\n", "-1523\n")
		source := NewIIOSource(dir, false)
		if source.Name() != "iio" {
			t.Errorf("expected source name to be iio, got %s", source.Name())
		}
		heading, err := source.Heading(t.Context())
		if err != nil {
			t.Fatalf("failed to read heading: %s", err)
		}
		if math.Abs(heading-270) > 1e-9 {
			t.Errorf("expected heading to be 270, got %f", heading)
		}
	})
	t.Run("inverted axes", func(t *testing.T) {
		dir := writeIIODevice(t, "250", "250")
		heading, err := NewIIOSource(dir, true).Heading(t.Context())
		if err != nil {
			t.Fatalf("failed to read heading: %s", err)
		}
		if math.Abs(heading-45) > 1e-9 {
			t.Errorf("expected heading to be 45, got %f", heading)
		}
	})
	t.Run("missing device fails", func(t *testing.T) {
		_, err := NewIIOSource(filepath.Join(t.TempDir(), "missing"), false).Heading(t.Context())
		if err == nil {
			t.Error("expected reading from a missing device to fail")
		}
	})
	t.Run("malformed value fails", func(t *testing.T) {
		dir := writeIIODevice(t, "abc", "12")
		if _, err := NewIIOSource(dir, false).Heading(t.Context()); err == nil {
			t.Error("expected malformed value to fail")
		}
	})
	t.Run("zero field vector fails", func(t *testing.T) {
		dir := writeIIODevice(t, "0", "0")
		_, err := NewIIOSource(dir, false).Heading(t.Context())
		if !errors.Is(err, ErrInvalidReading) {
			t.Errorf("expected error to be %s, got %v", ErrInvalidReading, err)
		}
	})
	t.Run("cancelled context fails", func(t *testing.T) {
		dir := writeIIODevice(t, "1", "1")
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		if _, err := NewIIOSource(dir, false).Heading(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context cancelled error, got %v", err)
		}
	})
}

func TestStaticSource_Heading(t *testing.T) {
	source := NewStaticSource(123.5)
	if source.Name() != "static" {
		t.Errorf("expected source name to be static, got %s", source.Name())
	}
	heading, err := source.Heading(t.Context())
	if err != nil {
		t.Fatalf("failed to read heading: %s", err)
	}
	if heading != 123.5 {
		t.Errorf("expected heading to be 123.5, got %f", heading)
	}
}

func writeIIODevice(t *testing.T, x, y string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, iioMagnX), []byte(x), 0o600); err != nil {
		t.Fatalf("failed to write x value: %s", err)
	}
	if err := os.WriteFile(filepath.Join(dir, iioMagnY), []byte(y), 0o600); err != nil {
		t.Fatalf("failed to write y value: %s", err)
	}
	return dir
}
