// Package logtail reads the most recent lines of a log file and tags each line
// with a severity for presentation.
//
// Reading is stateless: every call opens the file, reads its current tail and
// closes it again. There is no cursor to fall out of sync when a file is
// rotated or truncated, at the cost of re-reading the window on every poll.
//
// A file that does not exist is not an error. It is the normal state of a
// logger that has not written anything yet, and yields an empty window.
//
//	lines := logtail.Tail("/var/log/app.log", 30)
//	for _, l := range lines {
//	    fmt.Println(l.Severity, l.Text)
//	}
//
// With Tailer.MaxReadBytes set, large files are read backwards from the end
// in chunks of that size until the window is complete. The result is the
// same as reading the whole file.
package logtail
