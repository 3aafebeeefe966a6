package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/motion_computer/internal/config"
	"github.com/relabs-tech/motion_computer/internal/motion"
	"github.com/relabs-tech/motion_computer/internal/orientation"
)

// RunConsoleMQTT subscribes to the sample, pose, and motion topics and
// pretty-prints everything it receives.
func RunConsoleMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Samples arrive much faster than a terminal is worth scrolling, so
	// printing is rate-limited to the configured interval.
	logEvery := time.Duration(cfg.ConsoleLogInterval) * time.Millisecond
	var (
		printMu   sync.Mutex
		lastPrint time.Time
	)

	// Subscribe to samples
	valuesToken := client.Subscribe(cfg.TopicValues, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s motion.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: sample unmarshal error: %v", err)
			return
		}

		printMu.Lock()
		if time.Since(lastPrint) < logEvery {
			printMu.Unlock()
			return
		}
		lastPrint = time.Now()
		printMu.Unlock()

		unit := "m/s²"
		if s.InG {
			unit = "g"
		}
		fmt.Printf(
			"[VAL]  T=%5.2f°C  a=(%7.3f %7.3f %7.3f) %s  ω=(%8.2f %8.2f %8.2f) °/s\n",
			s.Temperature,
			s.Acceleration.X, s.Acceleration.Y, s.Acceleration.Z, unit,
			s.AngularVelocity.X, s.AngularVelocity.Y, s.AngularVelocity.Z,
		)
	})
	valuesToken.Wait()
	if valuesToken.Error() != nil {
		return valuesToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicValues)

	// Subscribe to pose
	poseToken := client.Subscribe(cfg.TopicPose, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p orientation.Pose
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("console: pose unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[POSE] ROLL=%6.2f  PITCH=%6.2f  YAW=%6.2f\n",
			p.Roll, p.Pitch, p.Yaw,
		)
	})
	poseToken.Wait()
	if poseToken.Error() != nil {
		return poseToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicPose)

	// Subscribe to motion events
	motionToken := client.Subscribe(cfg.TopicMotion, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var ev motion.Event
		if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
			log.Printf("console: motion event unmarshal error: %v", err)
			return
		}

		fmt.Printf("[MOT]  motion detected at %s\n", ev.Time)
	})
	motionToken.Wait()
	if motionToken.Error() != nil {
		return motionToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicMotion)

	// Block until interrupted
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	client.Disconnect(250)
	return nil
}
