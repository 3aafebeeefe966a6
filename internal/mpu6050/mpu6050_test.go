// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mpu6050

import (
	"errors"
	"math"
	"testing"
)

type regWrite struct {
	reg   byte
	value byte
}

// fakeTransport is an in-memory register file that records all traffic.
type fakeTransport struct {
	regs   map[byte]byte
	reads  []byte
	writes []regWrite
	err    error // when set, every call fails with it
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{regs: map[byte]byte{RegWhoAmI: DeviceID}}
}

func (f *fakeTransport) ReadRegister(reg byte, n int) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.reads = append(f.reads, reg)
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = f.regs[reg+byte(i)]
	}
	return buf, nil
}

func (f *fakeTransport) WriteRegister(reg, value byte) error {
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, regWrite{reg, value})
	f.regs[reg] = value
	return nil
}

func (f *fakeTransport) Close() error { return nil }

func newTestDev(t *testing.T) (*Dev, *fakeTransport) {
	t.Helper()
	ft := newFakeTransport()
	d, err := New(ft)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Forget about initialization traffic.
	ft.reads = nil
	ft.writes = nil
	return d, ft
}

func TestNew_SetupSequence(t *testing.T) {
	ft := newFakeTransport()
	if _, err := New(ft); err != nil {
		t.Fatalf("New: %v", err)
	}

	// Clock source, accel full-scale (zero then program), gyro full-scale
	// (zero then program), DLPF, sleep clear.
	want := []regWrite{
		{RegPwrMgmt1, 0x01},    // CLKSEL = PLL X gyro
		{RegAccelConfig, 0x00}, // zeroed before programming
		{RegAccelConfig, 0x00}, // ±2g is code 0
		{RegGyroConfig, 0x00},
		{RegGyroConfig, 0x18}, // ±2000°/s is code 3
		{RegConfig, 0x00},     // DLPF mode 0
		{RegPwrMgmt1, 0x01},   // SLEEP bit cleared, CLKSEL intact
	}
	if len(ft.writes) != len(want) {
		t.Fatalf("writes=%v want %v", ft.writes, want)
	}
	for i, w := range want {
		if ft.writes[i] != w {
			t.Fatalf("write[%d]=%+v want %+v", i, ft.writes[i], w)
		}
	}
}

func TestNew_WrongIdentity(t *testing.T) {
	ft := newFakeTransport()
	ft.regs[RegWhoAmI] = 0x00

	_, err := New(ft)
	if !errors.Is(err, ErrInvalidDevice) {
		t.Fatalf("err=%v want ErrInvalidDevice", err)
	}
	if len(ft.writes) != 0 {
		t.Fatalf("writes after failed identity check: %v", ft.writes)
	}
}

func TestFullScaleRoundTrip(t *testing.T) {
	d, _ := newTestDev(t)

	for _, g := range []int{2, 4, 8, 16} {
		if err := d.SetAccelFullScale(g); err != nil {
			t.Fatalf("SetAccelFullScale(%d): %v", g, err)
		}
		got, err := d.AccelFullScale()
		if err != nil {
			t.Fatalf("AccelFullScale: %v", err)
		}
		if got != g {
			t.Fatalf("accel full-scale=%d want %d", got, g)
		}
	}

	for _, dps := range []int{250, 500, 1000, 2000} {
		if err := d.SetGyroFullScale(dps); err != nil {
			t.Fatalf("SetGyroFullScale(%d): %v", dps, err)
		}
		got, err := d.GyroFullScale()
		if err != nil {
			t.Fatalf("GyroFullScale: %v", err)
		}
		if got != dps {
			t.Fatalf("gyro full-scale=%d want %d", got, dps)
		}
	}
}

func TestDecodeInt16(t *testing.T) {
	cases := []struct {
		hi, lo byte
		want   int16
	}{
		{0x7F, 0xFF, 32767},
		{0x80, 0x00, -32768},
		{0x00, 0x00, 0},
		{0xFF, 0xFF, -1},
		{0x01, 0x54, 340},
	}
	for _, c := range cases {
		if got := decodeInt16(c.hi, c.lo); got != c.want {
			t.Fatalf("decodeInt16(0x%02X, 0x%02X)=%d want %d", c.hi, c.lo, got, c.want)
		}
	}
}

func TestTemperature(t *testing.T) {
	d, ft := newTestDev(t)

	// Raw 0 is 36.53 °C, raw 340 one degree more.
	cases := []struct {
		hi, lo byte
		want   float64
	}{
		{0x00, 0x00, 36.53},
		{0x01, 0x54, 37.53},
	}
	for _, c := range cases {
		ft.regs[RegTempOutH] = c.hi
		ft.regs[RegTempOutL] = c.lo
		got, err := d.Temperature()
		if err != nil {
			t.Fatalf("Temperature: %v", err)
		}
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("temp=%v want %v", got, c.want)
		}
	}
}

func TestAcceleration_UnitConversion(t *testing.T) {
	d, ft := newTestDev(t)

	// One quarter of full scale on X, half on Y, full on Z (±2g, 16384 LSB/g).
	ft.regs[RegAccelXOutH], ft.regs[RegAccelXOutL] = 0x10, 0x00
	ft.regs[RegAccelYOutH], ft.regs[RegAccelYOutL] = 0x20, 0x00
	ft.regs[RegAccelZOutH], ft.regs[RegAccelZOutL] = 0x40, 0x00

	inG, err := d.Acceleration(true)
	if err != nil {
		t.Fatalf("Acceleration(true): %v", err)
	}
	if inG.X != 0.25 || inG.Y != 0.5 || inG.Z != 1.0 {
		t.Fatalf("g values=%+v want {0.25 0.5 1}", inG)
	}

	inMS2, err := d.Acceleration(false)
	if err != nil {
		t.Fatalf("Acceleration(false): %v", err)
	}
	for _, pair := range [][2]float64{
		{inG.X, inMS2.X}, {inG.Y, inMS2.Y}, {inG.Z, inMS2.Z},
	} {
		if math.Abs(pair[0]*GravityMS2-pair[1]) > 1e-9 {
			t.Fatalf("m/s² values=%+v, g values=%+v: not related by %v", inMS2, inG, GravityMS2)
		}
	}
}

func TestAcceleration_UsesProgrammedRange(t *testing.T) {
	d, ft := newTestDev(t)

	if err := d.SetAccelFullScale(8); err != nil {
		t.Fatalf("SetAccelFullScale: %v", err)
	}
	// 4096 raw counts is 1 g at ±8g.
	ft.regs[RegAccelXOutH], ft.regs[RegAccelXOutL] = 0x10, 0x00

	a, err := d.Acceleration(true)
	if err != nil {
		t.Fatalf("Acceleration: %v", err)
	}
	if a.X != 1.0 {
		t.Fatalf("X=%v want 1.0 at ±8g", a.X)
	}
}

func TestAngularVelocity_UsesProgrammedRange(t *testing.T) {
	d, ft := newTestDev(t)

	if err := d.SetGyroFullScale(500); err != nil {
		t.Fatalf("SetGyroFullScale: %v", err)
	}
	// 131 counts would be 1 °/s at ±250; at ±500 the divisor is 65.5.
	ft.regs[RegGyroYOutH], ft.regs[RegGyroYOutL] = 0x00, 131

	g, err := d.AngularVelocity()
	if err != nil {
		t.Fatalf("AngularVelocity: %v", err)
	}
	if math.Abs(g.Y-2.0) > 1e-9 {
		t.Fatalf("Y=%v want 2.0 at ±500°/s", g.Y)
	}
	if g.X != 0 || g.Z != 0 {
		t.Fatalf("X=%v Z=%v want 0", g.X, g.Z)
	}
}

func TestFullScaleReadbackIgnoresForeignBits(t *testing.T) {
	d, ft := newTestDev(t)

	// DHPF shares ACCEL_CONFIG with the range field; programming it must
	// not disturb the range readback or the conversion divisor.
	if err := d.SetAccelFullScale(8); err != nil {
		t.Fatalf("SetAccelFullScale: %v", err)
	}
	if err := d.SetDHPFMode(1); err != nil {
		t.Fatalf("SetDHPFMode: %v", err)
	}
	if ft.regs[RegAccelConfig] != 0x11 {
		t.Fatalf("ACCEL_CONFIG=0x%02X want 0x11", ft.regs[RegAccelConfig])
	}

	got, err := d.AccelFullScale()
	if err != nil || got != 8 {
		t.Fatalf("AccelFullScale=%d,%v want 8 with DHPF bits set", got, err)
	}

	// 4096 counts is 1 g at ±8g.
	ft.regs[RegAccelXOutH], ft.regs[RegAccelXOutL] = 0x10, 0x00
	a, err := d.Acceleration(true)
	if err != nil {
		t.Fatalf("Acceleration: %v", err)
	}
	if a.X != 1.0 {
		t.Fatalf("X=%v want 1.0 at the programmed ±8g range", a.X)
	}

	// Self-test flags on GYRO_CONFIG leave the ±250°/s code intact.
	ft.regs[RegGyroConfig] = 0xE0
	dps, err := d.GyroFullScale()
	if err != nil || dps != 250 {
		t.Fatalf("GyroFullScale=%d,%v want 250 with self-test bits set", dps, err)
	}
}

func TestSleepModeRoundTrip(t *testing.T) {
	d, _ := newTestDev(t)

	if err := d.SetSleepMode(true); err != nil {
		t.Fatalf("SetSleepMode(true): %v", err)
	}
	if on, err := d.SleepMode(); err != nil || !on {
		t.Fatalf("SleepMode=%v,%v want true", on, err)
	}

	if err := d.SetSleepMode(false); err != nil {
		t.Fatalf("SetSleepMode(false): %v", err)
	}
	if on, err := d.SleepMode(); err != nil || on {
		t.Fatalf("SleepMode=%v,%v want false", on, err)
	}
}

func TestClockSourceRoundTrip(t *testing.T) {
	d, _ := newTestDev(t)

	for _, sel := range []byte{0, 1, 2, 3, 4, 5, 7} {
		if err := d.SetClockSource(sel); err != nil {
			t.Fatalf("SetClockSource(%d): %v", sel, err)
		}
		got, err := d.ClockSource()
		if err != nil {
			t.Fatalf("ClockSource: %v", err)
		}
		if got != sel {
			t.Fatalf("clock source=%d want %d", got, sel)
		}
	}
}

func TestInvalidInputsTouchNoHardware(t *testing.T) {
	d, ft := newTestDev(t)

	cases := []struct {
		name string
		call func() error
	}{
		{"dlpf 8", func() error { return d.SetDLPFMode(8) }},
		{"dhpf 5", func() error { return d.SetDHPFMode(5) }},
		{"dhpf 6", func() error { return d.SetDHPFMode(6) }},
		{"clock 6", func() error { return d.SetClockSource(6) }},
		{"accel fs 3", func() error { return d.SetAccelFullScale(3) }},
		{"gyro fs 300", func() error { return d.SetGyroFullScale(300) }},
		{"threshold -1", func() error { return d.SetMotionThreshold(-1) }},
		{"threshold 256", func() error { return d.SetMotionThreshold(256) }},
		{"duration -1", func() error { return d.SetMotionDuration(-1) }},
		{"zmot threshold -1", func() error { return d.SetZeroMotionThreshold(-1) }},
		{"zmot duration -1", func() error { return d.SetZeroMotionDuration(-1) }},
		{"power-on delay 4", func() error { return d.SetAccelPowerOnDelay(4) }},
		{"power-on delay -1", func() error { return d.SetAccelPowerOnDelay(-1) }},
	}
	for _, c := range cases {
		if err := c.call(); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%s: err=%v want ErrInvalidArgument", c.name, err)
		}
		if len(ft.writes) != 0 || len(ft.reads) != 0 {
			t.Fatalf("%s: bus traffic on invalid input: reads=%v writes=%v", c.name, ft.reads, ft.writes)
		}
	}
}

func TestMotionThresholdAndDurationRoundTrip(t *testing.T) {
	d, _ := newTestDev(t)

	if err := d.SetMotionThreshold(20); err != nil {
		t.Fatalf("SetMotionThreshold: %v", err)
	}
	if v, _ := d.MotionThreshold(); v != 20 {
		t.Fatalf("motion threshold=%d want 20", v)
	}

	if err := d.SetMotionDuration(40); err != nil {
		t.Fatalf("SetMotionDuration: %v", err)
	}
	if v, _ := d.MotionDuration(); v != 40 {
		t.Fatalf("motion duration=%d want 40", v)
	}

	if err := d.SetZeroMotionThreshold(10); err != nil {
		t.Fatalf("SetZeroMotionThreshold: %v", err)
	}
	if v, _ := d.ZeroMotionThreshold(); v != 10 {
		t.Fatalf("zero-motion threshold=%d want 10", v)
	}

	if err := d.SetZeroMotionDuration(30); err != nil {
		t.Fatalf("SetZeroMotionDuration: %v", err)
	}
	if v, _ := d.ZeroMotionDuration(); v != 30 {
		t.Fatalf("zero-motion duration=%d want 30", v)
	}
}

func TestConfigureMotionDetection(t *testing.T) {
	d, ft := newTestDev(t)

	// Pre-set the interrupt enables so the clearing is observable.
	ft.regs[RegIntEnable] = 0xE0

	if err := d.ConfigureMotionDetection(); err != nil {
		t.Fatalf("ConfigureMotionDetection: %v", err)
	}

	if got := ft.regs[RegMotionDetectCtrl] >> 4 & 0x03; got != 3 {
		t.Fatalf("accel power-on delay=%d want 3", got)
	}
	if got := ft.regs[RegIntEnable] & 0xE0; got != 0 {
		t.Fatalf("INT_ENABLE upper bits=0x%02X want all motion interrupts disabled", got)
	}
	if got := ft.regs[RegAccelConfig] & 0x07; got != 1 {
		t.Fatalf("DHPF mode=%d want 1", got)
	}
	if ft.regs[RegMotionThreshold] != 2 {
		t.Fatalf("motion threshold=%d want 2", ft.regs[RegMotionThreshold])
	}
	if ft.regs[RegMotionDuration] != 5 {
		t.Fatalf("motion duration=%d want 5", ft.regs[RegMotionDuration])
	}
	if ft.regs[RegZeroMotionThreshold] != 4 {
		t.Fatalf("zero-motion threshold=%d want 4", ft.regs[RegZeroMotionThreshold])
	}
	if ft.regs[RegZeroMotionDuration] != 2 {
		t.Fatalf("zero-motion duration=%d want 2", ft.regs[RegZeroMotionDuration])
	}
}

func TestMotionDetectedAndDataReady(t *testing.T) {
	d, ft := newTestDev(t)

	ft.regs[RegIntStatus] = 0x40
	if motion, _ := d.MotionDetected(); !motion {
		t.Fatal("MotionDetected=false with MOT_INT set")
	}
	if ready, _ := d.DataReady(); ready {
		t.Fatal("DataReady=true with only MOT_INT set")
	}

	ft.regs[RegIntStatus] = 0x01
	if motion, _ := d.MotionDetected(); motion {
		t.Fatal("MotionDetected=true with only DATA_RDY_INT set")
	}
	if ready, _ := d.DataReady(); !ready {
		t.Fatal("DataReady=false with DATA_RDY_INT set")
	}
}

func TestTransportErrorPropagates(t *testing.T) {
	d, ft := newTestDev(t)

	busErr := errors.New("bus fault")
	ft.err = busErr

	if _, err := d.Temperature(); !errors.Is(err, busErr) {
		t.Fatalf("Temperature err=%v want wrapped bus fault", err)
	}
	if err := d.SetSleepMode(true); !errors.Is(err, busErr) {
		t.Fatalf("SetSleepMode err=%v want wrapped bus fault", err)
	}
}

func TestFullScaleSetterZeroesConfigFirst(t *testing.T) {
	d, ft := newTestDev(t)

	// Stale self-test and DHPF bits must not survive a range change.
	ft.regs[RegAccelConfig] = 0xE7

	if err := d.SetAccelFullScale(16); err != nil {
		t.Fatalf("SetAccelFullScale: %v", err)
	}
	if len(ft.writes) != 2 || ft.writes[0] != (regWrite{RegAccelConfig, 0x00}) {
		t.Fatalf("writes=%v want zeroing write first", ft.writes)
	}
	if ft.regs[RegAccelConfig] != 0x18 {
		t.Fatalf("ACCEL_CONFIG=0x%02X want 0x18", ft.regs[RegAccelConfig])
	}
}

func TestReadValuesComposition(t *testing.T) {
	d, ft := newTestDev(t)

	ft.regs[RegTempOutH], ft.regs[RegTempOutL] = 0x01, 0x54
	ft.regs[RegAccelZOutH] = 0x40 // 1 g at ±2g
	ft.regs[RegGyroXOutH], ft.regs[RegGyroXOutL] = 0x00, 0x29 // 41 counts

	v, err := d.ReadValues(true)
	if err != nil {
		t.Fatalf("ReadValues: %v", err)
	}
	if math.Abs(v.Temperature-37.53) > 1e-9 {
		t.Fatalf("temp=%v want 37.53", v.Temperature)
	}
	if v.Acceleration.Z != 1.0 {
		t.Fatalf("accel Z=%v want 1.0", v.Acceleration.Z)
	}
	if math.Abs(v.AngularVelocity.X-41.0/16.4) > 1e-9 {
		t.Fatalf("gyro X=%v want %v", v.AngularVelocity.X, 41.0/16.4)
	}
}
