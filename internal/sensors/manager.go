// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"
	"sync"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/relabs-tech/motion_computer/internal/config"
	"github.com/relabs-tech/motion_computer/internal/motion"
	"github.com/relabs-tech/motion_computer/internal/mpu6050"
)

// Manager owns the single MPU-6050 handle. The driver itself does no
// locking (register read-modify-write spans two bus transactions), so
// every producer, poller, and debug tool in this process goes through
// the manager's mutex.
type Manager struct {
	mu        sync.Mutex
	transport mpu6050.Transport
	dev       *mpu6050.Dev
}

var (
	manager     *Manager
	managerOnce sync.Once
)

// GetManager returns the process-wide sensor manager.
func GetManager() *Manager {
	managerOnce.Do(func() {
		manager = &Manager{}
	})
	return manager
}

// Init opens the configured I2C bus and brings up the sensor. Safe to
// call again after a failure.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dev != nil {
		return nil
	}

	cfg := config.Get()
	if m.transport == nil {
		t, err := mpu6050.NewI2CTransport(cfg.I2CBus, cfg.MPUI2CAddr,
			physic.Frequency(cfg.MPUClockHz)*physic.Hertz)
		if err != nil {
			return fmt.Errorf("MPU6050 transport: %w", err)
		}
		m.transport = t
	}

	dev, err := mpu6050.New(m.transport)
	if err != nil {
		return fmt.Errorf("MPU6050 device creation: %w", err)
	}

	// Apply configured ranges on top of the bring-up defaults.
	if err := dev.SetAccelFullScale(cfg.AccelRange); err != nil {
		return fmt.Errorf("set accel full-scale: %w", err)
	}
	log.Printf("mpu6050: accelerometer full-scale set to ±%dg", cfg.AccelRange)

	if err := dev.SetGyroFullScale(cfg.GyroRange); err != nil {
		return fmt.Errorf("set gyro full-scale: %w", err)
	}
	log.Printf("mpu6050: gyroscope full-scale set to ±%d°/s", cfg.GyroRange)

	if err := dev.SetDLPFMode(cfg.DLPFMode); err != nil {
		return fmt.Errorf("set DLPF mode: %w", err)
	}
	log.Printf("mpu6050: DLPF mode set to %d", cfg.DLPFMode)

	m.dev = dev
	return nil
}

// InitWithTransport brings up the sensor over a caller-supplied
// transport. Used by tests and simulations.
func (m *Manager) InitWithTransport(t mpu6050.Transport) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dev, err := mpu6050.New(t)
	if err != nil {
		return err
	}
	m.transport = t
	m.dev = dev
	return nil
}

// Available reports whether Init has succeeded.
func (m *Manager) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dev != nil
}

// Reinitialize re-runs the identity check and baseline configuration
// over the existing transport. Used by the register-debug tool after
// manual register pokes.
func (m *Manager) Reinitialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.transport == nil {
		return fmt.Errorf("sensor not initialized")
	}
	dev, err := mpu6050.New(m.transport)
	if err != nil {
		return err
	}
	m.dev = dev
	return nil
}

func (m *Manager) device() (*mpu6050.Dev, error) {
	if m.dev == nil {
		return nil, fmt.Errorf("sensor not initialized")
	}
	return m.dev, nil
}

// ReadSample reads one converted six-axis sample.
func (m *Manager) ReadSample(inG bool) (motion.Sample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dev, err := m.device()
	if err != nil {
		return motion.Sample{}, err
	}
	v, err := dev.ReadValues(inG)
	if err != nil {
		return motion.Sample{}, err
	}
	return motion.Sample{
		Source:          "mpu6050",
		Temperature:     v.Temperature,
		Acceleration:    v.Acceleration,
		AngularVelocity: v.AngularVelocity,
		InG:             inG,
		Time:            time.Now().Format(time.RFC3339Nano),
	}, nil
}

// ReadStatus reads the current device configuration back from hardware.
func (m *Manager) ReadStatus() (motion.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dev, err := m.device()
	if err != nil {
		return motion.Status{}, err
	}

	sleep, err := dev.SleepMode()
	if err != nil {
		return motion.Status{}, err
	}
	clk, err := dev.ClockSource()
	if err != nil {
		return motion.Status{}, err
	}
	accelFS, err := dev.AccelFullScale()
	if err != nil {
		return motion.Status{}, err
	}
	gyroFS, err := dev.GyroFullScale()
	if err != nil {
		return motion.Status{}, err
	}

	return motion.Status{
		SleepMode:      sleep,
		ClockSource:    clk,
		AccelFullScale: accelFS,
		GyroFullScale:  gyroFS,
	}, nil
}

// SetupMotionDetection programs the default motion-detection policy, lays
// any configured threshold/duration overrides on top, and then enables
// the motion interrupt (the driver's bundle leaves all interrupts off).
func (m *Manager) SetupMotionDetection() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dev, err := m.device()
	if err != nil {
		return err
	}
	if err := dev.ConfigureMotionDetection(); err != nil {
		return fmt.Errorf("configure motion detection: %w", err)
	}

	cfg := config.Get()
	if cfg == nil {
		return dev.SetMotionEnabled(true)
	}
	if cfg.MotionThreshold > 0 {
		if err := dev.SetMotionThreshold(cfg.MotionThreshold); err != nil {
			return err
		}
	}
	if cfg.MotionDuration > 0 {
		if err := dev.SetMotionDuration(cfg.MotionDuration); err != nil {
			return err
		}
	}
	if cfg.ZeroMotionThreshold > 0 {
		if err := dev.SetZeroMotionThreshold(cfg.ZeroMotionThreshold); err != nil {
			return err
		}
	}
	if cfg.ZeroMotionDuration > 0 {
		if err := dev.SetZeroMotionDuration(cfg.ZeroMotionDuration); err != nil {
			return err
		}
	}

	return dev.SetMotionEnabled(true)
}

// PollMotion reads the interrupt status once.
func (m *Manager) PollMotion() (motion.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dev, err := m.device()
	if err != nil {
		return motion.Event{}, err
	}

	// One status read would clear both latched bits, so read once via
	// the raw accessor and decode both.
	buf, err := dev.ReadRegister(mpu6050.RegIntStatus, 1)
	if err != nil {
		return motion.Event{}, err
	}
	return motion.Event{
		Source:    "mpu6050",
		Motion:    buf[0]&(1<<6) != 0,
		DataReady: buf[0]&1 != 0,
		Time:      time.Now().Format(time.RFC3339Nano),
	}, nil
}

// ReadRegister reads one raw register byte for the debug tool.
func (m *Manager) ReadRegister(reg byte) (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dev, err := m.device()
	if err != nil {
		return 0, err
	}
	buf, err := dev.ReadRegister(reg, 1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadAllRegisters reads every register named in the metadata map.
func (m *Manager) ReadAllRegisters() (map[byte]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dev, err := m.device()
	if err != nil {
		return nil, err
	}

	out := make(map[byte]byte)
	for _, info := range mpu6050.RegisterMap() {
		var reg byte
		if _, err := fmt.Sscanf(info.Address, "0x%X", &reg); err != nil {
			continue
		}
		buf, err := dev.ReadRegister(reg, 1)
		if err != nil {
			return nil, fmt.Errorf("register 0x%02X: %w", reg, err)
		}
		out[reg] = buf[0]
	}
	return out, nil
}

// WriteRegister writes one raw register byte for the debug tool.
func (m *Manager) WriteRegister(reg, value byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dev, err := m.device()
	if err != nil {
		return err
	}
	return dev.WriteRegister(reg, value)
}
