// Package viewer is the terminal log viewer behind the watch command.
//
// It connects to a running server's websocket endpoint with format=json and
// renders every pushed window in a scrolling viewport, colouring error and
// warning lines.
package viewer
