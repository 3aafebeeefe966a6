package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "motion_config.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
# minimal working config
MQTT_BROKER=tcp://localhost:1883
SAMPLE_INTERVAL=100
CONSOLE_LOG_INTERVAL=500
`

func TestLoad_Minimal(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MQTTBroker != "tcp://localhost:1883" {
		t.Fatalf("broker=%q", cfg.MQTTBroker)
	}
	// Hardware defaults
	if cfg.MPUI2CAddr != 0x68 {
		t.Fatalf("addr=0x%02X want 0x68", cfg.MPUI2CAddr)
	}
	if cfg.MPUClockHz != 400000 {
		t.Fatalf("clock=%d want 400000", cfg.MPUClockHz)
	}
	if cfg.AccelRange != 2 || cfg.GyroRange != 2000 {
		t.Fatalf("ranges=%d/%d want 2/2000", cfg.AccelRange, cfg.GyroRange)
	}
}

func TestLoad_FullSensorSection(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
I2C_BUS=/dev/i2c-1
MPU_I2C_ADDR=0x69
MPU_I2C_CLOCK_HZ=100000
ACCEL_FULLSCALE_G=8
GYRO_FULLSCALE_DPS=500
DLPF_MODE=3
ACCEL_IN_G=true
MOTION_THRESHOLD=2
MOTION_DURATION=5
ZERO_MOTION_THRESHOLD=4
ZERO_MOTION_DURATION=2
REGISTER_DEBUG_ALLOWED_RANGES=0x1A-0x22, 0x38, 0x69-0x6C
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MPUI2CAddr != 0x69 {
		t.Fatalf("addr=0x%02X want 0x69", cfg.MPUI2CAddr)
	}
	if cfg.AccelRange != 8 || cfg.GyroRange != 500 || cfg.DLPFMode != 3 {
		t.Fatalf("accel=%d gyro=%d dlpf=%d", cfg.AccelRange, cfg.GyroRange, cfg.DLPFMode)
	}
	if !cfg.AccelInG {
		t.Fatal("AccelInG=false want true")
	}
	if cfg.MotionThreshold != 2 || cfg.MotionDuration != 5 {
		t.Fatalf("motion=%d/%d want 2/5", cfg.MotionThreshold, cfg.MotionDuration)
	}

	want := []ByteRange{{0x1A, 0x22}, {0x38, 0x38}, {0x69, 0x6C}}
	if len(cfg.RegisterDebugAllowedRanges) != len(want) {
		t.Fatalf("ranges=%v want %v", cfg.RegisterDebugAllowedRanges, want)
	}
	for i, r := range want {
		if cfg.RegisterDebugAllowedRanges[i] != r {
			t.Fatalf("range[%d]=%v want %v", i, cfg.RegisterDebugAllowedRanges[i], r)
		}
	}
	if !cfg.RegisterDebugAllowedRanges[1].Contains(0x38) {
		t.Fatal("single-address range should contain itself")
	}
	if cfg.RegisterDebugAllowedRanges[0].Contains(0x23) {
		t.Fatal("0x23 should be outside 0x1A-0x22")
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantSub string
	}{
		{"missing broker", "SAMPLE_INTERVAL=100\nCONSOLE_LOG_INTERVAL=500\n", "MQTT_BROKER is required"},
		{"missing interval", "MQTT_BROKER=tcp://x:1883\nCONSOLE_LOG_INTERVAL=500\n", "SAMPLE_INTERVAL is required"},
		{"unknown key", minimalConfig + "NO_SUCH_KEY=1\n", "unknown config key"},
		{"bad line", minimalConfig + "JUSTAWORD\n", "invalid config line"},
		{"bad address", minimalConfig + "MPU_I2C_ADDR=0x70\n", "must be 0x68 or 0x69"},
		{"bad accel range", minimalConfig + "ACCEL_FULLSCALE_G=3\n", "must be 2, 4, 8 or 16"},
		{"bad gyro range", minimalConfig + "GYRO_FULLSCALE_DPS=750\n", "must be 250, 500, 1000 or 2000"},
		{"bad dlpf", minimalConfig + "DLPF_MODE=8\n", "must be 0-7"},
		{"threshold too big", minimalConfig + "MOTION_THRESHOLD=256\n", "must be 0-255"},
		{"inverted range", minimalConfig + "REGISTER_DEBUG_ALLOWED_RANGES=0x22-0x1A\n", "ends before it starts"},
	}
	for _, c := range cases {
		_, err := Load(writeConfig(t, c.content))
		if err == nil {
			t.Fatalf("%s: Load succeeded, want error containing %q", c.name, c.wantSub)
		}
		if !strings.Contains(err.Error(), c.wantSub) {
			t.Fatalf("%s: err=%v want substring %q", c.name, err, c.wantSub)
		}
	}
}
