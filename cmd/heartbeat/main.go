// FILE: lixenwraith/qlog/cmd/heartbeat/main.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/qlog"
)

func main() {
	// Heartbeats are trace records, so they only appear while the level is trace
	phases := []struct {
		level       qlog.Level
		description string
	}{
		{qlog.LevelDebug, "Heartbeats filtered"},
		{qlog.LevelTrace, "Heartbeats visible"},
		{qlog.LevelInfo, "Heartbeats filtered again"},
	}

	pipeline, err := qlog.NewBuilder().
		File("./logs", "heartbeat").
		Level(qlog.LevelTrace).
		MonitorIntervalMs(1000).
		Heartbeat(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize pipeline: %v\n", err)
		os.Exit(1)
	}
	router := pipeline.NewRouter()

	for _, phase := range phases {
		pipeline.SetLevel(phase.level)

		fmt.Printf("\n--- Testing level %s: %s ---\n", phase.level, phase.description)
		router.Info("test", "heartbeat test started", "level", phase.level.String())

		// Generate some traffic so the queue counters move
		for j := 0; j < 10; j++ {
			router.Debug("test", "debug test log", "iteration", j)
			router.Info("test", "info test log", "iteration", j)
			router.Warn("test", "warning test log", "iteration", j)
			time.Sleep(100 * time.Millisecond)
		}

		// Wait for a few heartbeats
		waitTime := 3 * time.Second
		fmt.Printf("Waiting %v for heartbeats to generate...\n", waitTime)
		time.Sleep(waitTime)

		router.Info("test", "heartbeat test completed", "level", phase.level.String())
	}

	if err := pipeline.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to shut down pipeline: %v\n", err)
	}

	fmt.Println("\nHeartbeat test program completed successfully")
	fmt.Println("Check logs directory for generated log files")
}
