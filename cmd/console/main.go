// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/motion_computer/internal/app"
	"github.com/relabs-tech/motion_computer/internal/config"
)

func main() {
	configPath := flag.String("config", "./motion_config.txt", "path to configuration file")
	mock := flag.Bool("mock", false, "print a simulated pose instead of subscribing to MQTT")
	flag.Parse()

	if *mock {
		log.Println("starting motion-computer console (mock source)")
		if err := app.RunMockConsole(); err != nil {
			log.Fatalf("fatal: %v", err)
		}
		return
	}

	log.Println("starting motion-computer console (MQTT subscriber)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsoleMQTT(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
