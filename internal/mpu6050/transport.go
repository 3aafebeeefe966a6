// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mpu6050

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// Transport is the register-level bus access the driver runs on.
// The production implementation talks I2C through periph.io; tests
// substitute an in-memory fake.
type Transport interface {
	// ReadRegister reads n bytes starting at register reg.
	ReadRegister(reg byte, n int) ([]byte, error)
	// WriteRegister writes a single byte to register reg.
	WriteRegister(reg, value byte) error
	Close() error
}

// i2cTransport is the periph.io-backed Transport.
type i2cTransport struct {
	bus i2c.BusCloser
	dev i2c.Dev
}

// NewI2CTransport opens the named I2C bus (empty string picks the first
// available one) and addresses the MPU-6050 at addr. The bus clock is set
// to clockHz; a bus that cannot change speed is reported and used as-is.
func NewI2CTransport(busID string, addr uint16, clockHz physic.Frequency) (Transport, error) {
	if addr != AddressLow && addr != AddressHigh {
		return nil, fmt.Errorf("%w: I2C address 0x%02X (must be 0x68 or 0x69)", ErrInvalidArgument, addr)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	bus, err := i2creg.Open(busID)
	if err != nil {
		return nil, fmt.Errorf("I2C bus open (%q): %w", busID, err)
	}

	if clockHz > 0 {
		if err := bus.SetSpeed(clockHz); err != nil {
			// Some bus drivers only support a fixed speed.
			log.Printf("mpu6050: cannot set bus speed to %s, continuing: %v", clockHz, err)
		}
	}

	return &i2cTransport{
		bus: bus,
		dev: i2c.Dev{Bus: bus, Addr: addr},
	}, nil
}

func (t *i2cTransport) ReadRegister(reg byte, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := t.dev.Tx([]byte{reg}, buf); err != nil {
		return nil, fmt.Errorf("read register 0x%02X: %w", reg, err)
	}
	return buf, nil
}

func (t *i2cTransport) WriteRegister(reg, value byte) error {
	if err := t.dev.Tx([]byte{reg, value}, nil); err != nil {
		return fmt.Errorf("write register 0x%02X: %w", reg, err)
	}
	return nil
}

func (t *i2cTransport) Close() error {
	return t.bus.Close()
}
