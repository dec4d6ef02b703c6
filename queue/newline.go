// FILE: lixenwraith/qlog/queue/newline.go

//go:build !windows

package queue

// Newline is the platform line terminator.
const Newline = "\n"
