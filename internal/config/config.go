package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// ByteRange is an inclusive register address range for the register-debug
// write allow-list.
type ByteRange struct {
	Lo byte
	Hi byte
}

// Contains reports whether reg falls inside the range.
func (r ByteRange) Contains(reg byte) bool {
	return reg >= r.Lo && reg <= r.Hi
}

// Config holds all application configuration values.
type Config struct {
	// Sensor bus
	I2CBus     string // empty selects the first available bus
	MPUI2CAddr uint16
	MPUClockHz int
	AccelRange int  // full-scale, g: 2, 4, 8, 16
	GyroRange  int  // full-scale, °/s: 250, 500, 1000, 2000
	DLPFMode   byte // 0-7
	AccelInG   bool // publish acceleration in g instead of m/s²

	// Motion detection
	MotionThreshold     int
	MotionDuration      int
	ZeroMotionThreshold int
	ZeroMotionDuration  int

	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDMotion   string
	MQTTClientIDConsole  string
	MQTTClientIDDisplay  string

	// Topics
	TopicValues string
	TopicPose   string
	TopicMotion string

	// Timing (milliseconds)
	SampleInterval     int
	MotionPollInterval int
	ConsoleLogInterval int

	// Register debug tool
	RegisterDebugPort          int
	RegisterDebugAllowedRanges []ByteRange

	// Display
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for the singleton pattern: globalConfig
// is only reachable through InitGlobal/Get, configOnce makes initialization
// run once, configMu allows concurrent readers.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	// Hardware defaults match the sensor's bring-up configuration.
	cfg := &Config{
		MPUI2CAddr: 0x68,
		MPUClockHz: 400000,
		AccelRange: 2,
		GyroRange:  2000,
	}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Sensor bus
	case "I2C_BUS":
		c.I2CBus = value
	case "MPU_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid MPU_I2C_ADDR %q: %w", value, err)
		}
		if addr != 0x68 && addr != 0x69 {
			return fmt.Errorf("MPU_I2C_ADDR must be 0x68 or 0x69, got 0x%02X", addr)
		}
		c.MPUI2CAddr = uint16(addr)
	case "MPU_I2C_CLOCK_HZ":
		hz, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MPU_I2C_CLOCK_HZ %q: %w", value, err)
		}
		if hz <= 0 {
			return fmt.Errorf("MPU_I2C_CLOCK_HZ must be positive, got %d", hz)
		}
		c.MPUClockHz = hz
	case "ACCEL_FULLSCALE_G":
		g, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_FULLSCALE_G %q: %w", value, err)
		}
		if g != 2 && g != 4 && g != 8 && g != 16 {
			return fmt.Errorf("ACCEL_FULLSCALE_G must be 2, 4, 8 or 16, got %d", g)
		}
		c.AccelRange = g
	case "GYRO_FULLSCALE_DPS":
		dps, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GYRO_FULLSCALE_DPS %q: %w", value, err)
		}
		if dps != 250 && dps != 500 && dps != 1000 && dps != 2000 {
			return fmt.Errorf("GYRO_FULLSCALE_DPS must be 250, 500, 1000 or 2000, got %d", dps)
		}
		c.GyroRange = dps
	case "DLPF_MODE":
		mode, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DLPF_MODE %q: %w", value, err)
		}
		if mode < 0 || mode > 7 {
			return fmt.Errorf("DLPF_MODE must be 0-7, got %d", mode)
		}
		c.DLPFMode = byte(mode)
	case "ACCEL_IN_G":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_IN_G %q: %w", value, err)
		}
		c.AccelInG = b

	// Motion detection
	case "MOTION_THRESHOLD":
		return c.setByteValue(&c.MotionThreshold, key, value)
	case "MOTION_DURATION":
		return c.setByteValue(&c.MotionDuration, key, value)
	case "ZERO_MOTION_THRESHOLD":
		return c.setByteValue(&c.ZeroMotionThreshold, key, value)
	case "ZERO_MOTION_DURATION":
		return c.setByteValue(&c.ZeroMotionDuration, key, value)

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_MOTION":
		c.MQTTClientIDMotion = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_VALUES":
		c.TopicValues = value
	case "TOPIC_POSE":
		c.TopicPose = value
	case "TOPIC_MOTION":
		c.TopicMotion = value

	// Timing
	case "SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.SampleInterval = interval
	case "MOTION_POLL_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MOTION_POLL_INTERVAL %q: %w", value, err)
		}
		c.MotionPollInterval = interval
	case "CONSOLE_LOG_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CONSOLE_LOG_INTERVAL %q: %w", value, err)
		}
		c.ConsoleLogInterval = interval

	// Register debug tool
	case "REGISTER_DEBUG_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid REGISTER_DEBUG_PORT %q: %w", value, err)
		}
		c.RegisterDebugPort = port
	case "REGISTER_DEBUG_ALLOWED_RANGES":
		ranges, err := parseByteRanges(value)
		if err != nil {
			return fmt.Errorf("invalid REGISTER_DEBUG_ALLOWED_RANGES %q: %w", value, err)
		}
		c.RegisterDebugAllowedRanges = ranges

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func (c *Config) setByteValue(dst *int, key, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if v < 0 || v > 255 {
		return fmt.Errorf("%s must be 0-255, got %d", key, v)
	}
	*dst = v
	return nil
}

// parseByteRanges parses "0x1A-0x22,0x38,0x69-0x6C" style allow-lists.
func parseByteRanges(s string) ([]ByteRange, error) {
	var ranges []ByteRange
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		bounds := strings.SplitN(part, "-", 2)
		lo, err := strconv.ParseUint(strings.TrimSpace(bounds[0]), 0, 8)
		if err != nil {
			return nil, fmt.Errorf("bad range start %q: %w", bounds[0], err)
		}
		hi := lo
		if len(bounds) == 2 {
			hi, err = strconv.ParseUint(strings.TrimSpace(bounds[1]), 0, 8)
			if err != nil {
				return nil, fmt.Errorf("bad range end %q: %w", bounds[1], err)
			}
		}
		if hi < lo {
			return nil, fmt.Errorf("range %q ends before it starts", part)
		}
		ranges = append(ranges, ByteRange{Lo: byte(lo), Hi: byte(hi)})
	}
	return ranges, nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.SampleInterval == 0 {
		return fmt.Errorf("SAMPLE_INTERVAL is required")
	}
	if c.ConsoleLogInterval == 0 {
		return fmt.Errorf("CONSOLE_LOG_INTERVAL is required")
	}
	return nil
}

// InitGlobal initializes the global configuration from file. Uses
// sync.Once so repeated calls are no-ops.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must be
// called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
