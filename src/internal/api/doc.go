// Package api provides the HTTP surface of logstream.
//
// It serves:
//   - the logger name listing used to fill viewer selectors
//   - one-shot tails of a logger's backing file
//   - live streams over websocket (/ws/log) and server-sent events
//   - session and health status
//   - the embedded HTML viewer under /log_viewer/
//
// # Response Format
//
// All successful JSON responses wrap data in a "data" field:
//
//	{
//	  "data": ["api", "app", "db"]
//	}
//
// Error responses use the following format:
//
//	{
//	  "error": {
//	    "code": "not_found",
//	    "message": "Human-readable error message",
//	    "details": { /* optional context */ }
//	  }
//	}
//
// # Streams
//
// Both stream endpoints accept "logger" and "format" (html or json) query
// parameters and push the full trailing window once per poll interval.
package api
