// FILE: lixenwraith/qlog/example/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/qlog"
	"github.com/lixenwraith/qlog/compat"
	"github.com/valyala/fasthttp"
)

func main() {
	// Create and configure the pipeline
	pipeline, err := qlog.NewBuilder().
		File("/var/log/fasthttp", "server").
		LevelString("info").
		BufferSize(2048).
		Build()
	if err != nil {
		panic(err)
	}
	defer pipeline.Shutdown()

	router := pipeline.NewRouter()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		router,
		compat.WithDefaultLevel(qlog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		// Other server settings
		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	// Start server
	router.Infof("main", "starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		router.Fatalf("main", "server stopped: %v", err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) (qlog.Level, bool) {
	// Specific fasthttp message patterns first
	if strings.Contains(msg, "connection cannot be served") {
		return qlog.LevelWarn, true
	}
	if strings.Contains(msg, "error when serving connection") {
		return qlog.LevelError, true
	}

	// Use default detection
	return compat.DetectLogLevel(msg)
}
