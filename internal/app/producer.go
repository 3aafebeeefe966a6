// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/motion_computer/internal/config"
	"github.com/relabs-tech/motion_computer/internal/orientation"
	"github.com/relabs-tech/motion_computer/internal/sensors"
)

// RunMotionProducer polls the MPU-6050 and publishes samples and the
// derived pose over MQTT. The driver never sleeps internally; this loop
// owns the inter-poll delay.
func RunMotionProducer() error {
	log.Println("starting motion-computer sample producer")

	cfg := config.Get()

	mgr := sensors.GetManager()
	if err := mgr.Init(); err != nil {
		return err
	}

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)

	log.Println("connected to MQTT, starting publish loop")

	ticker := time.NewTicker(time.Duration(cfg.SampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		sample, err := mgr.ReadSample(cfg.AccelInG)
		if err != nil {
			log.Printf("error reading sample: %v", err)
			continue
		}

		if payload, err := json.Marshal(sample); err != nil {
			log.Printf("sample marshal error: %v", err)
		} else {
			if token := client.Publish(cfg.TopicValues, 0, true, payload); token.Wait() && token.Error() != nil {
				log.Printf("MQTT publish error (values): %v", token.Error())
				continue
			}
		}

		// Tilt-only pose from the accelerometer; unit does not matter.
		pose := orientation.ComputePoseFromAccel(
			sample.Acceleration.X,
			sample.Acceleration.Y,
			sample.Acceleration.Z,
		)
		if payload, err := json.Marshal(pose); err != nil {
			log.Printf("pose marshal error: %v", err)
		} else {
			if token := client.Publish(cfg.TopicPose, 0, true, payload); token.Wait() && token.Error() != nil {
				log.Printf("MQTT publish error (pose): %v", token.Error())
			}
		}
	}

	return nil
}
