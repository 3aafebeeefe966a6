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
	"github.com/relabs-tech/motion_computer/internal/sensors"
)

// RunMotionWatch programs motion detection and polls the interrupt
// status register, publishing an event whenever the sensor reports
// motion. The status read clears the latched bit, so every poll result
// is acted on immediately.
func RunMotionWatch() error {
	log.Println("starting motion-computer motion watcher")

	cfg := config.Get()

	mgr := sensors.GetManager()
	if err := mgr.Init(); err != nil {
		return err
	}
	if err := mgr.SetupMotionDetection(); err != nil {
		return err
	}
	log.Printf("motion detection armed (threshold=%d duration=%d)",
		cfg.MotionThreshold, cfg.MotionDuration)

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDMotion)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)

	interval := cfg.MotionPollInterval
	if interval <= 0 {
		interval = 50
	}
	ticker := time.NewTicker(time.Duration(interval) * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		ev, err := mgr.PollMotion()
		if err != nil {
			log.Printf("error polling motion status: %v", err)
			continue
		}
		if !ev.Motion {
			continue
		}

		log.Printf("motion detected at %s", ev.Time)
		payload, err := json.Marshal(ev)
		if err != nil {
			log.Printf("event marshal error: %v", err)
			continue
		}
		if token := client.Publish(cfg.TopicMotion, 0, false, payload); token.Wait() && token.Error() != nil {
			log.Printf("MQTT publish error (motion): %v", token.Error())
		}
	}

	return nil
}
