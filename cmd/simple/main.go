// FILE: lixenwraith/qlog/cmd/simple/main.go
package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/qlog"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[qlog]
  level = "debug"
  enable_file = true
  directory = "./simple_logs"
  extension = "log"
  buffer_size = 1024
  color = "auto"
  # Other settings use defaults
`

func main() {
	fmt.Println("--- Simple Logger Example ---")

	// --- Setup Config ---
	err := os.WriteFile(configFile, []byte(tomlContent), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		// Continue with defaults, a missing file is not an error
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
	}

	cfg, err := qlog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Records logged before the pipeline exists are held and replayed
	early := qlog.NewFutureLogger()
	qlog.SetGlobalLogger(early)
	qlog.Infof("main", "config loaded from %s", configFile)

	// --- Initialize Pipeline ---
	pipeline, err := qlog.NewPipeline(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize pipeline: %v\n", err)
		os.Exit(1)
	}
	early.Set(pipeline.Logger())
	fmt.Println("Pipeline initialized.")

	// --- Logging ---
	qlog.Debug("main", "This is a debug message.", "user_id", 123)
	qlog.Info("main", "Application starting...")
	qlog.Warn("main", "Potential issue detected.", "threshold", 0.95)
	qlog.Error("main", "An error occurred!", "code", 500)
	qlog.LogColor(qlog.LevelInfo, qlog.RGB{R: 80, G: 200, B: 120}, "main", "colored when the console is a terminal")

	// Logging from goroutines, one of them capturing its records
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			capture := qlog.NewMemoryLogger(pipeline.Logger())
			defer qlog.EnterScope(capture).Exit()

			qlog.Infof("worker", "goroutine %d started", id)
			time.Sleep(time.Duration(50+id*50) * time.Millisecond)
			qlog.Infof("worker", "goroutine %d finished", id)
			fmt.Printf("worker %d captured %d records\n", id, capture.Len())
		}(i)
	}

	// Wait for goroutines to finish before shutting down
	wg.Wait()
	fmt.Println("Goroutines finished.")

	// --- Shutdown Pipeline ---
	fmt.Println("Shutting down pipeline...")
	if err := pipeline.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline shutdown error: %v\n", err)
	} else {
		fmt.Println("Pipeline shutdown complete.")
	}

	fmt.Println("--- Example Finished ---")
	fmt.Printf("Check log files in '%s'.\n", cfg.Directory)
}
