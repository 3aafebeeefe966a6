// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package mpu6050 is a register-level driver for the InvenSense MPU-6050
// six-axis motion sensor (three-axis accelerometer, three-axis gyroscope,
// temperature) over I2C.
//
// The driver is purely poll-based and caches nothing: every accessor
// re-queries the hardware, so the scale factor applied during conversion
// always matches the full-scale range currently programmed in the device.
// It is not safe for concurrent use from multiple goroutines; register
// read-modify-write sequences span two bus transactions, so one logical
// owner must issue all calls (see internal/sensors for the shared manager).
package mpu6050

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// The MPU-6050 responds at 0x68, or 0x69 with the AD0 pin pulled high.
const (
	AddressLow  uint16 = 0x68
	AddressHigh uint16 = 0x69
)

// DeviceID is the fixed WHO_AM_I value for an MPU-6050.
const DeviceID = 0x68

// GravityMS2 is standard gravity, used to convert g units to m/s².
const GravityMS2 = 9.80665

// FullScaleUnknown is returned by AccelFullScale and GyroFullScale when
// the hardware readback does not map to any known range code.
const FullScaleUnknown = -1

var (
	// ErrInvalidArgument reports an out-of-domain parameter. It is
	// detected before any register access, so no hardware state changes.
	ErrInvalidArgument = errors.New("mpu6050: invalid argument")
	// ErrInvalidDevice reports a WHO_AM_I mismatch at initialization.
	ErrInvalidDevice = errors.New("mpu6050: not an MPU-6050")
)

// Full-scale range tables. The 2-bit register codes are the indices.
var (
	accelFullScaleG  = [4]int{2, 4, 8, 16}
	accelSensitivity = [4]float64{16384.0, 8192.0, 4096.0, 2048.0} // LSB/g
	gyroFullScaleDPS = [4]int{250, 500, 1000, 2000}
	gyroSensitivity  = [4]float64{131.0, 65.5, 32.8, 16.4} // LSB/(°/s)
)

// Motion detection defaults written by ConfigureMotionDetection.
const (
	defaultAccelOnDelay        = 3
	defaultMotionThreshold     = 2
	defaultMotionDuration      = 5
	defaultZeroMotionThreshold = 4
	defaultZeroMotionDuration  = 2
)

// AxisValues is one converted three-axis sample.
type AxisValues struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Values bundles one temperature, accelerometer, and gyroscope reading.
// The three reads are separate bus transactions; the axes are not latched
// at a single instant.
type Values struct {
	Temperature     float64    `json:"temp_c"`
	Acceleration    AxisValues `json:"accel"`
	AngularVelocity AxisValues `json:"gyro_dps"`
}

// Opts holds the bus parameters for NewI2C.
type Opts struct {
	Addr       uint16           // 0x68 or 0x69
	ClockSpeed physic.Frequency // bus clock, 0 leaves the bus untouched
}

// DefaultOpts addresses the sensor at 0x68 with a 400 kHz bus clock.
var DefaultOpts = Opts{
	Addr:       AddressLow,
	ClockSpeed: 400 * physic.KiloHertz,
}

// Dev is a handle to one MPU-6050.
type Dev struct {
	t Transport
}

// NewI2C opens busID and initializes the MPU-6050 found there.
func NewI2C(busID string, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	t, err := NewI2CTransport(busID, opts.Addr, opts.ClockSpeed)
	if err != nil {
		return nil, err
	}
	d, err := New(t)
	if err != nil {
		t.Close()
		return nil, err
	}
	return d, nil
}

// New verifies the device identity over t and programs the baseline
// configuration: clock source PLL X gyro, ±2g, ±2000°/s, DLPF mode 0,
// sleep cleared.
func New(t Transport) (*Dev, error) {
	d := &Dev{t: t}

	id, err := d.readRegister(RegWhoAmI)
	if err != nil {
		return nil, fmt.Errorf("identity check: %w", err)
	}
	if id != DeviceID {
		return nil, fmt.Errorf("%w: WHO_AM_I=0x%02X, want 0x%02X", ErrInvalidDevice, id, DeviceID)
	}

	if err := d.SetClockSource(1); err != nil {
		return nil, err
	}
	if err := d.SetAccelFullScale(2); err != nil {
		return nil, err
	}
	if err := d.SetGyroFullScale(2000); err != nil {
		return nil, err
	}
	if err := d.SetDLPFMode(0); err != nil {
		return nil, err
	}
	if err := d.SetSleepMode(false); err != nil {
		return nil, err
	}
	return d, nil
}

// Close releases the underlying transport.
func (d *Dev) Close() error {
	return d.t.Close()
}

func (d *Dev) String() string {
	return "MPU6050"
}

// readRegister reads one byte from reg.
func (d *Dev) readRegister(reg byte) (byte, error) {
	buf, err := d.t.ReadRegister(reg, 1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// updateRegister is the shared read-modify-write: clear the bits in mask,
// OR in value, write back. Not atomic across the two bus transactions.
func (d *Dev) updateRegister(reg, mask, value byte) error {
	cur, err := d.readRegister(reg)
	if err != nil {
		return err
	}
	return d.t.WriteRegister(reg, (cur&^mask)|value)
}

// writeRegisterBit sets or clears a single bit of reg.
func (d *Dev) writeRegisterBit(reg byte, pos uint, state bool) error {
	cur, err := d.readRegister(reg)
	if err != nil {
		return err
	}
	if state {
		cur |= 1 << pos
	} else {
		cur &^= 1 << pos
	}
	return d.t.WriteRegister(reg, cur)
}

// decodeInt16 reconstructs a signed 16-bit sample from a big-endian
// register byte pair (two's complement).
func decodeInt16(hi, lo byte) int16 {
	return int16(uint16(hi)<<8 | uint16(lo))
}

// --- Configuration ---

// SleepMode reports the SLEEP bit of PWR_MGMT_1.
func (d *Dev) SleepMode() (bool, error) {
	v, err := d.readRegister(RegPwrMgmt1)
	if err != nil {
		return false, err
	}
	return (v>>bitSleep)&1 == 1, nil
}

// SetSleepMode sets or clears the SLEEP bit of PWR_MGMT_1.
func (d *Dev) SetSleepMode(sleep bool) error {
	return d.writeRegisterBit(RegPwrMgmt1, bitSleep, sleep)
}

// ClockSource returns the CLKSEL field of PWR_MGMT_1.
func (d *Dev) ClockSource() (byte, error) {
	v, err := d.readRegister(RegPwrMgmt1)
	if err != nil {
		return 0, err
	}
	return v & 0x07, nil
}

// SetClockSource programs the CLKSEL field of PWR_MGMT_1.
// Accepted values are 0-5 and 7; 6 is reserved.
func (d *Dev) SetClockSource(clksel byte) error {
	if clksel > 7 || clksel == 6 {
		return fmt.Errorf("%w: clock source %d", ErrInvalidArgument, clksel)
	}
	return d.updateRegister(RegPwrMgmt1, 0x07, clksel)
}

// SetDLPFMode programs the digital low-pass filter (CONFIG bits 2:0).
// Accepted values are 0-7.
func (d *Dev) SetDLPFMode(dlpf byte) error {
	if dlpf > 7 {
		return fmt.Errorf("%w: DLPF mode %d", ErrInvalidArgument, dlpf)
	}
	return d.updateRegister(RegConfig, 0x07, dlpf)
}

// SetDHPFMode programs the digital high-pass filter (ACCEL_CONFIG bits
// 2:0). Accepted values are 0-4 and 7; 5 and 6 are reserved.
func (d *Dev) SetDHPFMode(dhpf byte) error {
	if dhpf > 7 || dhpf == 5 || dhpf == 6 {
		return fmt.Errorf("%w: DHPF mode %d", ErrInvalidArgument, dhpf)
	}
	return d.updateRegister(RegAccelConfig, 0x07, dhpf)
}

// SetAccelFullScale programs the accelerometer full-scale range.
// Accepted values are 2, 4, 8, and 16 (g). The config register is zeroed
// first so stale bits cannot survive in reserved positions.
func (d *Dev) SetAccelFullScale(fullScaleG int) error {
	code, ok := accelCodeFor(fullScaleG)
	if !ok {
		return fmt.Errorf("%w: accel full-scale %dg", ErrInvalidArgument, fullScaleG)
	}
	if err := d.t.WriteRegister(RegAccelConfig, 0x00); err != nil {
		return err
	}
	return d.updateRegister(RegAccelConfig, 0x18, code<<3)
}

// AccelFullScale returns the programmed accelerometer range in g, or
// FullScaleUnknown if the readback maps to no known code. Only the
// AFS_SEL field is decoded; DHPF and self-test bits sharing the
// register do not affect the result.
func (d *Dev) AccelFullScale() (int, error) {
	v, err := d.readRegister(RegAccelConfig)
	if err != nil {
		return FullScaleUnknown, err
	}
	code, ok := rangeCodeForRaw(v)
	if !ok {
		return FullScaleUnknown, nil
	}
	return accelFullScaleG[code], nil
}

// SetGyroFullScale programs the gyroscope full-scale range.
// Accepted values are 250, 500, 1000, and 2000 (°/s).
func (d *Dev) SetGyroFullScale(fullScaleDPS int) error {
	code, ok := gyroCodeFor(fullScaleDPS)
	if !ok {
		return fmt.Errorf("%w: gyro full-scale %d°/s", ErrInvalidArgument, fullScaleDPS)
	}
	if err := d.t.WriteRegister(RegGyroConfig, 0x00); err != nil {
		return err
	}
	return d.updateRegister(RegGyroConfig, 0x18, code<<3)
}

// GyroFullScale returns the programmed gyroscope range in °/s, or
// FullScaleUnknown if the readback maps to no known code.
func (d *Dev) GyroFullScale() (int, error) {
	v, err := d.readRegister(RegGyroConfig)
	if err != nil {
		return FullScaleUnknown, err
	}
	code, ok := rangeCodeForRaw(v)
	if !ok {
		return FullScaleUnknown, nil
	}
	return gyroFullScaleDPS[code], nil
}

func accelCodeFor(fullScaleG int) (byte, bool) {
	for code, g := range accelFullScaleG {
		if g == fullScaleG {
			return byte(code), true
		}
	}
	return 0, false
}

func gyroCodeFor(fullScaleDPS int) (byte, bool) {
	for code, dps := range gyroFullScaleDPS {
		if dps == fullScaleDPS {
			return byte(code), true
		}
	}
	return 0, false
}

// rangeCodeForRaw extracts the 2-bit range code (bits 4:3) from a raw
// ACCEL_CONFIG/GYRO_CONFIG readback. Foreign bits in the register (the
// DHPF field, self-test flags) do not disturb the code. A code outside
// the lookup tables is unrecognized.
func rangeCodeForRaw(v byte) (int, bool) {
	code := int(v>>3) & 0x03
	if code >= len(accelFullScaleG) {
		return 0, false
	}
	return code, true
}

// --- Measurement ---

// Temperature returns the die temperature in °C, using the conversion
// from the register map documentation: raw/340 + 36.53.
func (d *Dev) Temperature() (float64, error) {
	buf, err := d.t.ReadRegister(RegTempOutH, 2)
	if err != nil {
		return 0, err
	}
	raw := decodeInt16(buf[0], buf[1])
	return float64(raw)/340.0 + 36.53, nil
}

// Acceleration returns one three-axis accelerometer sample. With inG the
// values are in g, otherwise in m/s². The sensitivity divisor is looked
// up from the range the hardware actually reports, not from any cached
// state; an unrecognized readback degrades to the ±2g divisor.
func (d *Dev) Acceleration(inG bool) (AxisValues, error) {
	buf, err := d.t.ReadRegister(RegAccelXOutH, 6)
	if err != nil {
		return AxisValues{}, err
	}

	v, err := d.readRegister(RegAccelConfig)
	if err != nil {
		return AxisValues{}, err
	}
	sens := accelSensitivity[0]
	if code, ok := rangeCodeForRaw(v); ok {
		sens = accelSensitivity[code]
	}

	a := AxisValues{
		X: float64(decodeInt16(buf[0], buf[1])) / sens,
		Y: float64(decodeInt16(buf[2], buf[3])) / sens,
		Z: float64(decodeInt16(buf[4], buf[5])) / sens,
	}
	if !inG {
		a.X *= GravityMS2
		a.Y *= GravityMS2
		a.Z *= GravityMS2
	}
	return a, nil
}

// AngularVelocity returns one three-axis gyroscope sample in °/s. An
// unrecognized full-scale readback degrades to the ±250°/s divisor.
func (d *Dev) AngularVelocity() (AxisValues, error) {
	buf, err := d.t.ReadRegister(RegGyroXOutH, 6)
	if err != nil {
		return AxisValues{}, err
	}

	v, err := d.readRegister(RegGyroConfig)
	if err != nil {
		return AxisValues{}, err
	}
	sens := gyroSensitivity[0]
	if code, ok := rangeCodeForRaw(v); ok {
		sens = gyroSensitivity[code]
	}

	return AxisValues{
		X: float64(decodeInt16(buf[0], buf[1])) / sens,
		Y: float64(decodeInt16(buf[2], buf[3])) / sens,
		Z: float64(decodeInt16(buf[4], buf[5])) / sens,
	}, nil
}

// ReadValues returns temperature, acceleration, and angular velocity in
// one call. The three reads are issued back to back but not latched
// together, an accepted trade-off of polling.
func (d *Dev) ReadValues(inG bool) (Values, error) {
	temp, err := d.Temperature()
	if err != nil {
		return Values{}, err
	}
	accel, err := d.Acceleration(inG)
	if err != nil {
		return Values{}, err
	}
	gyro, err := d.AngularVelocity()
	if err != nil {
		return Values{}, err
	}
	return Values{
		Temperature:     temp,
		Acceleration:    accel,
		AngularVelocity: gyro,
	}, nil
}

// --- Motion detection ---

// SetAccelPowerOnDelay programs the accelerometer power-on delay
// (MOT_DETECT_CTRL bits 5:4). Accepted values are 0-3.
func (d *Dev) SetAccelPowerOnDelay(delay int) error {
	if delay < 0 || delay > 3 {
		return fmt.Errorf("%w: accel power-on delay %d", ErrInvalidArgument, delay)
	}
	return d.updateRegister(RegMotionDetectCtrl, 0x30, byte(delay)<<4)
}

// SetFreeFallEnabled toggles the free-fall interrupt (INT_ENABLE bit 7).
func (d *Dev) SetFreeFallEnabled(enabled bool) error {
	return d.writeRegisterBit(RegIntEnable, bitFreeFall, enabled)
}

// SetMotionEnabled toggles the motion interrupt (INT_ENABLE bit 6).
func (d *Dev) SetMotionEnabled(enabled bool) error {
	return d.writeRegisterBit(RegIntEnable, bitMotion, enabled)
}

// SetZeroMotionEnabled toggles the zero-motion interrupt (INT_ENABLE bit 5).
func (d *Dev) SetZeroMotionEnabled(enabled bool) error {
	return d.writeRegisterBit(RegIntEnable, bitZeroMotion, enabled)
}

// SetMotionThreshold writes the motion detection threshold register.
// The value is raw register units (1 LSB = 1 mg per the datasheet).
func (d *Dev) SetMotionThreshold(threshold int) error {
	return d.writeByteValue(RegMotionThreshold, "motion threshold", threshold)
}

// MotionThreshold reads back the motion detection threshold register.
func (d *Dev) MotionThreshold() (byte, error) {
	return d.readRegister(RegMotionThreshold)
}

// SetMotionDuration writes the motion detection duration register
// (1 LSB = 1 ms).
func (d *Dev) SetMotionDuration(duration int) error {
	return d.writeByteValue(RegMotionDuration, "motion duration", duration)
}

// MotionDuration reads back the motion detection duration register.
func (d *Dev) MotionDuration() (byte, error) {
	return d.readRegister(RegMotionDuration)
}

// SetZeroMotionThreshold writes the zero-motion threshold register.
func (d *Dev) SetZeroMotionThreshold(threshold int) error {
	return d.writeByteValue(RegZeroMotionThreshold, "zero-motion threshold", threshold)
}

// ZeroMotionThreshold reads back the zero-motion threshold register.
func (d *Dev) ZeroMotionThreshold() (byte, error) {
	return d.readRegister(RegZeroMotionThreshold)
}

// SetZeroMotionDuration writes the zero-motion duration register
// (1 LSB = 64 ms).
func (d *Dev) SetZeroMotionDuration(duration int) error {
	return d.writeByteValue(RegZeroMotionDuration, "zero-motion duration", duration)
}

// ZeroMotionDuration reads back the zero-motion duration register.
func (d *Dev) ZeroMotionDuration() (byte, error) {
	return d.readRegister(RegZeroMotionDuration)
}

func (d *Dev) writeByteValue(reg byte, what string, v int) error {
	if v < 0 || v > 255 {
		return fmt.Errorf("%w: %s %d", ErrInvalidArgument, what, v)
	}
	return d.t.WriteRegister(reg, byte(v))
}

// MotionDetected polls the MOT_INT bit of INT_STATUS. Reading the status
// register clears the latched bit, so callers should act on a true result
// immediately.
func (d *Dev) MotionDetected() (bool, error) {
	v, err := d.readRegister(RegIntStatus)
	if err != nil {
		return false, err
	}
	return (v>>bitMotion)&1 == 1, nil
}

// DataReady polls the DATA_RDY_INT bit of INT_STATUS.
func (d *Dev) DataReady() (bool, error) {
	v, err := d.readRegister(RegIntStatus)
	if err != nil {
		return false, err
	}
	return (v>>bitDataReady)&1 == 1, nil
}

// ConfigureMotionDetection programs the fixed default motion detection
// policy: power-on delay 3, DHPF mode 1 (5 Hz), motion threshold 2 /
// duration 5, zero-motion threshold 4 / duration 2. All three motion
// interrupts are left disabled; callers that want them must enable them
// explicitly afterwards.
func (d *Dev) ConfigureMotionDetection() error {
	if err := d.SetAccelPowerOnDelay(defaultAccelOnDelay); err != nil {
		return err
	}
	if err := d.SetFreeFallEnabled(false); err != nil {
		return err
	}
	if err := d.SetZeroMotionEnabled(false); err != nil {
		return err
	}
	if err := d.SetMotionEnabled(false); err != nil {
		return err
	}
	if err := d.SetDHPFMode(1); err != nil {
		return err
	}
	if err := d.SetMotionThreshold(defaultMotionThreshold); err != nil {
		return err
	}
	if err := d.SetMotionDuration(defaultMotionDuration); err != nil {
		return err
	}
	if err := d.SetZeroMotionThreshold(defaultZeroMotionThreshold); err != nil {
		return err
	}
	return d.SetZeroMotionDuration(defaultZeroMotionDuration)
}

// --- Raw register access (register-debug tool) ---

// ReadRegister reads n bytes starting at reg, bypassing all interpretation.
func (d *Dev) ReadRegister(reg byte, n int) ([]byte, error) {
	return d.t.ReadRegister(reg, n)
}

// WriteRegister writes one raw byte to reg, bypassing all interpretation.
func (d *Dev) WriteRegister(reg, value byte) error {
	return d.t.WriteRegister(reg, value)
}
