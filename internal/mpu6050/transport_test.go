// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mpu6050

import (
	"errors"
	"testing"
)

func TestNewI2CTransport_RejectsBadAddress(t *testing.T) {
	// The address check runs before any host or bus setup, so this is
	// testable without hardware.
	for _, addr := range []uint16{0x00, 0x40, 0x6A} {
		_, err := NewI2CTransport("", addr, 0)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("addr 0x%02X: err=%v want ErrInvalidArgument", addr, err)
		}
	}
}
