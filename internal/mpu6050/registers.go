// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mpu6050

// MPU-6050 register addresses. See the InvenSense MPU-6000/MPU-6050
// Register Map and Descriptions, revision 4.2.
const (
	RegSelfTestX = 0x0D
	RegSelfTestY = 0x0E
	RegSelfTestZ = 0x0F
	RegSelfTestA = 0x10

	RegSampleRateDiv = 0x19
	RegConfig        = 0x1A // DLPF_CFG lives in bits 2:0
	RegGyroConfig    = 0x1B
	RegAccelConfig   = 0x1C

	RegMotionThreshold     = 0x1F
	RegMotionDuration      = 0x20
	RegZeroMotionThreshold = 0x21
	RegZeroMotionDuration  = 0x22

	RegFIFOEnable = 0x23

	RegIntPinConfig = 0x37
	RegIntEnable    = 0x38
	RegIntStatus    = 0x3A

	RegAccelXOutH = 0x3B
	RegAccelXOutL = 0x3C
	RegAccelYOutH = 0x3D
	RegAccelYOutL = 0x3E
	RegAccelZOutH = 0x3F
	RegAccelZOutL = 0x40

	RegTempOutH = 0x41
	RegTempOutL = 0x42

	RegGyroXOutH = 0x43
	RegGyroXOutL = 0x44
	RegGyroYOutH = 0x45
	RegGyroYOutL = 0x46
	RegGyroZOutH = 0x47
	RegGyroZOutL = 0x48

	RegMotionDetectStatus = 0x61
	RegSignalPathReset    = 0x68
	RegMotionDetectCtrl   = 0x69
	RegUserCtrl           = 0x6A
	RegPwrMgmt1           = 0x6B
	RegPwrMgmt2           = 0x6C

	RegWhoAmI = 0x75
)

// Bit positions within INT_ENABLE / INT_STATUS.
const (
	bitFreeFall   = 7
	bitMotion     = 6
	bitZeroMotion = 5
	bitDataReady  = 0
)

// bitSleep is the SLEEP bit of PWR_MGMT_1.
const bitSleep = 6

// BitField describes one named field within a register.
type BitField struct {
	Bits        string `json:"bits"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Values      string `json:"values,omitempty"`
}

// RegisterInfo is register metadata for the register-debug tool.
type RegisterInfo struct {
	Address     string     `json:"address"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Access      string     `json:"access"` // "R", "W", "RW"
	Default     string     `json:"default,omitempty"`
	BitFields   []BitField `json:"bit_fields,omitempty"`
}

// RegisterMap returns metadata for the MPU-6050 registers the driver
// touches, plus the surrounding configuration registers. Register names,
// access types, and bit field definitions follow the datasheet.
func RegisterMap() []RegisterInfo {
	return []RegisterInfo{
		// Configuration registers
		{Address: "0x19", Name: "SMPLRT_DIV", Description: "Sample Rate Divider", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7:0", Name: "SMPLRT_DIV", Description: "Sample Rate = Gyro_Output_Rate / (1 + SMPLRT_DIV)", Values: "0-255"},
			}},
		{Address: "0x1A", Name: "CONFIG", Description: "Configuration (DLPF)", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "5:3", Name: "EXT_SYNC_SET", Description: "External FSYNC pin sampling", Values: "0=Disabled"},
				{Bits: "2:0", Name: "DLPF_CFG", Description: "Digital Low Pass Filter", Values: "0=260Hz, 1=184Hz, 2=94Hz, 3=44Hz, 4=21Hz, 5=10Hz, 6=5Hz, 7=Reserved"},
			}},
		{Address: "0x1B", Name: "GYRO_CONFIG", Description: "Gyroscope Configuration", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "XG_ST", Description: "X Gyro self-test", Values: "0=Disabled, 1=Enabled"},
				{Bits: "6", Name: "YG_ST", Description: "Y Gyro self-test", Values: "0=Disabled, 1=Enabled"},
				{Bits: "5", Name: "ZG_ST", Description: "Z Gyro self-test", Values: "0=Disabled, 1=Enabled"},
				{Bits: "4:3", Name: "FS_SEL", Description: "Gyro Full Scale Range", Values: "0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s"},
			}},
		{Address: "0x1C", Name: "ACCEL_CONFIG", Description: "Accelerometer Configuration", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "XA_ST", Description: "X Accel self-test", Values: "0=Disabled, 1=Enabled"},
				{Bits: "6", Name: "YA_ST", Description: "Y Accel self-test", Values: "0=Disabled, 1=Enabled"},
				{Bits: "5", Name: "ZA_ST", Description: "Z Accel self-test", Values: "0=Disabled, 1=Enabled"},
				{Bits: "4:3", Name: "AFS_SEL", Description: "Accel Full Scale Range", Values: "0=±2g, 1=±4g, 2=±8g, 3=±16g"},
				{Bits: "2:0", Name: "ACCEL_HPF", Description: "Digital High Pass Filter", Values: "0=Reset, 1=5Hz, 2=2.5Hz, 3=1.25Hz, 4=0.63Hz, 7=Hold"},
			}},

		// Motion detection programming
		{Address: "0x1F", Name: "MOT_THR", Description: "Motion Detection Threshold", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7:0", Name: "MOT_THR", Description: "Motion detection threshold, 1 LSB = 1 mg", Values: "0-255"},
			}},
		{Address: "0x20", Name: "MOT_DUR", Description: "Motion Detection Duration", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7:0", Name: "MOT_DUR", Description: "Motion detection duration, 1 LSB = 1 ms", Values: "0-255"},
			}},
		{Address: "0x21", Name: "ZRMOT_THR", Description: "Zero Motion Detection Threshold", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7:0", Name: "ZRMOT_THR", Description: "Zero motion detection threshold, 1 LSB = 1 mg", Values: "0-255"},
			}},
		{Address: "0x22", Name: "ZRMOT_DUR", Description: "Zero Motion Detection Duration", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7:0", Name: "ZRMOT_DUR", Description: "Zero motion detection duration, 1 LSB = 64 ms", Values: "0-255"},
			}},

		// Interrupt configuration
		{Address: "0x37", Name: "INT_PIN_CFG", Description: "INT Pin / Bypass Enable Configuration", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "INT_LEVEL", Description: "INT pin active low", Values: "0=Active high, 1=Active low"},
				{Bits: "6", Name: "INT_OPEN", Description: "INT pin open drain", Values: "0=Push-pull, 1=Open drain"},
				{Bits: "5", Name: "LATCH_INT_EN", Description: "Latch INT pin", Values: "0=50us pulse, 1=Latch until cleared"},
				{Bits: "4", Name: "INT_RD_CLEAR", Description: "Clear INT on any read", Values: "0=Status read only, 1=Any read"},
				{Bits: "1", Name: "I2C_BYPASS_EN", Description: "I2C bypass enable", Values: "0=Disabled, 1=Enabled"},
			}},
		{Address: "0x38", Name: "INT_ENABLE", Description: "Interrupt Enable", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "FF_EN", Description: "Free fall interrupt", Values: "0=Disabled, 1=Enabled"},
				{Bits: "6", Name: "MOT_EN", Description: "Motion detection interrupt", Values: "0=Disabled, 1=Enabled"},
				{Bits: "5", Name: "ZMOT_EN", Description: "Zero motion detection interrupt", Values: "0=Disabled, 1=Enabled"},
				{Bits: "4", Name: "FIFO_OFLOW_EN", Description: "FIFO overflow interrupt", Values: "0=Disabled, 1=Enabled"},
				{Bits: "0", Name: "DATA_RDY_EN", Description: "Data ready interrupt", Values: "0=Disabled, 1=Enabled"},
			}},
		{Address: "0x3A", Name: "INT_STATUS", Description: "Interrupt Status", Access: "R", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "FF_INT", Description: "Free fall interrupt status", Values: ""},
				{Bits: "6", Name: "MOT_INT", Description: "Motion detection interrupt status", Values: ""},
				{Bits: "5", Name: "ZMOT_INT", Description: "Zero motion interrupt status", Values: ""},
				{Bits: "4", Name: "FIFO_OFLOW_INT", Description: "FIFO overflow interrupt status", Values: ""},
				{Bits: "0", Name: "DATA_RDY_INT", Description: "Data ready interrupt status", Values: ""},
			}},

		// Sensor data registers (read-only)
		{Address: "0x3B", Name: "ACCEL_XOUT_H", Description: "Accelerometer X-Axis High Byte", Access: "R"},
		{Address: "0x3C", Name: "ACCEL_XOUT_L", Description: "Accelerometer X-Axis Low Byte", Access: "R"},
		{Address: "0x3D", Name: "ACCEL_YOUT_H", Description: "Accelerometer Y-Axis High Byte", Access: "R"},
		{Address: "0x3E", Name: "ACCEL_YOUT_L", Description: "Accelerometer Y-Axis Low Byte", Access: "R"},
		{Address: "0x3F", Name: "ACCEL_ZOUT_H", Description: "Accelerometer Z-Axis High Byte", Access: "R"},
		{Address: "0x40", Name: "ACCEL_ZOUT_L", Description: "Accelerometer Z-Axis Low Byte", Access: "R"},
		{Address: "0x41", Name: "TEMP_OUT_H", Description: "Temperature High Byte", Access: "R"},
		{Address: "0x42", Name: "TEMP_OUT_L", Description: "Temperature Low Byte", Access: "R"},
		{Address: "0x43", Name: "GYRO_XOUT_H", Description: "Gyroscope X-Axis High Byte", Access: "R"},
		{Address: "0x44", Name: "GYRO_XOUT_L", Description: "Gyroscope X-Axis Low Byte", Access: "R"},
		{Address: "0x45", Name: "GYRO_YOUT_H", Description: "Gyroscope Y-Axis High Byte", Access: "R"},
		{Address: "0x46", Name: "GYRO_YOUT_L", Description: "Gyroscope Y-Axis Low Byte", Access: "R"},
		{Address: "0x47", Name: "GYRO_ZOUT_H", Description: "Gyroscope Z-Axis High Byte", Access: "R"},
		{Address: "0x48", Name: "GYRO_ZOUT_L", Description: "Gyroscope Z-Axis Low Byte", Access: "R"},

		// Motion detection status and control
		{Address: "0x61", Name: "MOT_DETECT_STATUS", Description: "Motion Detection Status", Access: "R", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "MOT_XNEG", Description: "Motion on X negative", Values: ""},
				{Bits: "6", Name: "MOT_XPOS", Description: "Motion on X positive", Values: ""},
				{Bits: "5", Name: "MOT_YNEG", Description: "Motion on Y negative", Values: ""},
				{Bits: "4", Name: "MOT_YPOS", Description: "Motion on Y positive", Values: ""},
				{Bits: "3", Name: "MOT_ZNEG", Description: "Motion on Z negative", Values: ""},
				{Bits: "2", Name: "MOT_ZPOS", Description: "Motion on Z positive", Values: ""},
				{Bits: "0", Name: "MOT_ZRMOT", Description: "Zero motion detected", Values: ""},
			}},
		{Address: "0x69", Name: "MOT_DETECT_CTRL", Description: "Motion Detection Control", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "5:4", Name: "ACCEL_ON_DELAY", Description: "Accelerometer power-on delay", Values: "0-3 (extra samples)"},
				{Bits: "3:2", Name: "FF_COUNT", Description: "Free fall counter decrement", Values: "0-3"},
				{Bits: "1:0", Name: "MOT_COUNT", Description: "Motion counter decrement", Values: "0-3"},
			}},

		// Power management
		{Address: "0x6B", Name: "PWR_MGMT_1", Description: "Power Management 1", Access: "RW", Default: "0x40",
			BitFields: []BitField{
				{Bits: "7", Name: "DEVICE_RESET", Description: "Device reset", Values: "1=Reset device"},
				{Bits: "6", Name: "SLEEP", Description: "Sleep mode", Values: "0=Disabled, 1=Sleep"},
				{Bits: "5", Name: "CYCLE", Description: "Cycle mode", Values: "0=Disabled, 1=Cycle"},
				{Bits: "3", Name: "TEMP_DIS", Description: "Temperature sensor", Values: "0=Enabled, 1=Disabled"},
				{Bits: "2:0", Name: "CLKSEL", Description: "Clock source", Values: "0=Internal 8MHz, 1=PLL X gyro, 2=PLL Y gyro, 3=PLL Z gyro, 4=PLL 32.768kHz, 5=PLL 19.2MHz, 7=Stopped"},
			}},
		{Address: "0x6C", Name: "PWR_MGMT_2", Description: "Power Management 2", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7:6", Name: "LP_WAKE_CTRL", Description: "Low power wake-up frequency", Values: "0=1.25Hz, 1=5Hz, 2=20Hz, 3=40Hz"},
				{Bits: "5", Name: "STBY_XA", Description: "Disable X accelerometer", Values: "0=Enabled, 1=Standby"},
				{Bits: "4", Name: "STBY_YA", Description: "Disable Y accelerometer", Values: "0=Enabled, 1=Standby"},
				{Bits: "3", Name: "STBY_ZA", Description: "Disable Z accelerometer", Values: "0=Enabled, 1=Standby"},
				{Bits: "2", Name: "STBY_XG", Description: "Disable X gyro", Values: "0=Enabled, 1=Standby"},
				{Bits: "1", Name: "STBY_YG", Description: "Disable Y gyro", Values: "0=Enabled, 1=Standby"},
				{Bits: "0", Name: "STBY_ZG", Description: "Disable Z gyro", Values: "0=Enabled, 1=Standby"},
			}},

		// Device identification
		{Address: "0x75", Name: "WHO_AM_I", Description: "Device ID (should be 0x68)", Access: "R", Default: "0x68"},
	}
}
