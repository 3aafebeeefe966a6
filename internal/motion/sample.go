package motion

import "github.com/relabs-tech/motion_computer/internal/mpu6050"

// Sample is one converted six-axis reading as published over MQTT.
type Sample struct {
	Source string `json:"source"`

	Temperature     float64            `json:"temp_c"`
	Acceleration    mpu6050.AxisValues `json:"accel"`
	AngularVelocity mpu6050.AxisValues `json:"gyro_dps"`

	// InG is true when Acceleration is in g rather than m/s².
	InG bool `json:"in_g"`

	Time string `json:"time"` // RFC3339
}

// Event is one motion-detection event from the interrupt-status poll loop.
type Event struct {
	Source string `json:"source"`

	Motion    bool `json:"motion"`
	DataReady bool `json:"data_ready"`

	Time string `json:"time"` // RFC3339
}

// Status is a configuration snapshot read back from the hardware,
// served by the register-debug tool.
type Status struct {
	SleepMode      bool `json:"sleep_mode"`
	ClockSource    byte `json:"clock_source"`
	AccelFullScale int  `json:"accel_fullscale_g"`  // mpu6050.FullScaleUnknown when unrecognized
	GyroFullScale  int  `json:"gyro_fullscale_dps"` // mpu6050.FullScaleUnknown when unrecognized
}
