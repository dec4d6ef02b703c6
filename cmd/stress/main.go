// FILE: lixenwraith/qlog/cmd/stress/main.go
package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lixenwraith/qlog"
)

const (
	totalBursts    = 100
	logsPerBurst   = 500
	maxMessageSize = 10000
	numWorkers     = 500
)

const configFile = "stress_config.toml"

// Example TOML content for stress test
var tomlContent = `
# Example stress_config.toml
[qlog]
  level = "debug"
  enable_console = false
  enable_file = true
  directory = "./logs"
  name = "stress_test"
  extension = "log"
  sanitize = "txt"
  buffer_size = 512            # Start small to force queue growth
  max_buffer_size = 67108864   # 64MB ceiling
  scratch_size = 65536
  max_size_mb = 1              # Force frequent rotation (1MB)
  max_backups = 20
  monitor_interval_ms = 250
  heartbeat = true
`

var levels = []qlog.Level{
	qlog.LevelDebug,
	qlog.LevelInfo,
	qlog.LevelWarn,
	qlog.LevelError,
}

var router *qlog.Router

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

// logBurst simulates a burst of logging activity
func logBurst(burstID int) {
	system := fmt.Sprintf("wkr%03d", burstID%numWorkers)
	for i := 0; i < logsPerBurst; i++ {
		level := levels[rand.Intn(len(levels))]
		msgSize := rand.Intn(maxMessageSize) + 10
		msg := generateRandomMessage(msgSize)
		if i%2 == 0 {
			router.Log(level, system, "bst=%d seq=%d rnd=%d %s", burstID, i, rand.Int63(), msg)
		} else {
			router.LogArgs(level, system, msg, "bst", burstID, "seq", i, "rnd", rand.Int63())
		}
	}
}

// worker goroutine function
func worker(burstChan chan int, wg *sync.WaitGroup, completedBursts *atomic.Int64) {
	defer wg.Done()
	for burstID := range burstChan {
		logBurst(burstID)
		completed := completedBursts.Add(1)
		if completed%10 == 0 || completed == totalBursts {
			fmt.Printf("\rProgress: %d/%d bursts completed", completed, totalBursts)
		}
	}
}

func main() {
	fmt.Println("--- Logger Stress Test ---")

	// --- Setup Config ---
	err := os.WriteFile(configFile, []byte(tomlContent), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created dummy config file: %s\n", configFile)

	cfg, err := qlog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	_ = os.RemoveAll(cfg.Directory) // Clean previous run's logs before starting

	// --- Initialize Pipeline ---
	pipeline, err := qlog.NewPipeline(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize pipeline: %v\n", err)
		os.Exit(1)
	}
	router = pipeline.NewRouter()
	fmt.Printf("Pipeline initialized. Logs will be written to: %s\n", cfg.Directory)

	fmt.Printf("Starting stress test: %d workers, %d bursts, %d logs/burst.\n",
		numWorkers, totalBursts, logsPerBurst)
	fmt.Println("Check log directory size and file rotation.")
	fmt.Println("Press Ctrl+C to stop early.")

	// --- Setup Workers and Signal Handling ---
	burstChan := make(chan int, numWorkers)
	var wg sync.WaitGroup
	completedBursts := atomic.Int64{}
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	stopChan := make(chan struct{})

	go func() {
		<-sigChan
		fmt.Println("\n[Signal Received] Stopping burst generation...")
		close(stopChan)
	}()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go worker(burstChan, &wg, &completedBursts)
	}

	// --- Run Test ---
	startTime := time.Now()
	for i := 1; i <= totalBursts; i++ {
		select {
		case burstChan <- i:
		case <-stopChan:
			fmt.Println("[Signal Received] Halting burst submission.")
			goto endLoop
		}
	}
endLoop:
	close(burstChan)

	fmt.Println("\nWaiting for workers to finish...")
	wg.Wait()
	duration := time.Since(startTime)
	finalCompleted := completedBursts.Load()

	fmt.Printf("\n--- Test Finished ---")
	fmt.Printf("\nCompleted %d/%d bursts in %v\n", finalCompleted, totalBursts, duration.Round(time.Millisecond))
	if finalCompleted > 0 && duration.Seconds() > 0 {
		logsPerSec := float64(finalCompleted*logsPerBurst) / duration.Seconds()
		fmt.Printf("Approximate Logs/sec: %.2f\n", logsPerSec)
	}

	// Queue state before the final drain
	if out := pipeline.Output("file"); out != nil {
		s := out.Writer().Stats()
		fmt.Printf("File queue: len=%d cap=%d grows=%d enqueued=%d drained=%d failures=%d dropped=%d\n",
			s.Len, s.Cap, s.Grows, s.Enqueued, s.Drained, s.Failures, out.Dropped())
	}
	fmt.Printf("Reentrant calls dropped: %d\n", router.Reentered())

	// --- Shutdown Pipeline ---
	fmt.Println("Shutting down pipeline...")
	shutdownStart := time.Now()
	if err := pipeline.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline shutdown error: %v\n", err)
	} else {
		fmt.Printf("Pipeline shutdown complete in %v.\n", time.Since(shutdownStart).Round(time.Millisecond))
	}

	fmt.Printf("Check log files in '%s' and the config '%s'.\n", cfg.Directory, configFile)
}
