// FILE: lixenwraith/qlog/queue/newline_windows.go
package queue

// Newline is the platform line terminator.
const Newline = "\r\n"
