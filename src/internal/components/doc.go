// Package components holds the long-running parts of the server command.
// Each implements Component and is started in order and stopped in reverse.
package components
