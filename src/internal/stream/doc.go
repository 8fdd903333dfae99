// Package stream pushes the trailing window of a logger's backing file to
// connected viewers.
//
// Every viewer gets its own Session. On connect the session reads the
// "logger" parameter and resolves it to a file, falling back to the
// default logger. It then pushes the last Window lines once immediately and
// once per Interval until the viewer leaves. Each push re-sends the whole
// window; no read offset is kept, so truncation and rotation need no
// special handling.
//
// A tick ends in one of three outcomes:
//
//   - Delivered: the window was pushed
//   - Degraded: nothing resolved, the fallback message was pushed
//   - Terminated: the push failed (TRANSPORT_ERROR) or reading/rendering
//     panicked (INTERNAL_ERROR), and the session closes
//
// Transports (websocket, server-sent events) implement Conn.
package stream
