// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/relabs-tech/motion_computer/internal/app"
	"github.com/relabs-tech/motion_computer/internal/config"
	"github.com/relabs-tech/motion_computer/internal/sensors"
)

func main() {
	configPath := flag.String("config", "./motion_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting MPU-6050 register debug tool")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	log.Println("Initializing sensor manager...")
	mgr := sensors.GetManager()
	if err := mgr.Init(); err != nil {
		log.Printf("Warning: sensor initialization had issues: %v", err)
		log.Println("Continuing anyway - register access may still work")
	}

	if mgr.Available() {
		log.Println("MPU-6050 available")
	} else {
		log.Println("Warning: MPU-6050 not available")
	}

	http.HandleFunc("/ws", app.HandleRegisterDebugWS)

	// API endpoint for live sensor data
	http.HandleFunc("/api/values", app.HandleSensorData)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "web/register_debug.html")
	})

	cfg := config.Get()
	port := cfg.RegisterDebugPort
	if port == 0 {
		port = 8081
	}
	addr := fmt.Sprintf(":%d", port)
	log.Printf("Register debug tool listening on %s", addr)
	log.Printf("Open http://localhost%s in your browser", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
