package logtail

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// Line is one line of a tailed file paired with its severity.
type Line struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

// Tailer reads the trailing window of a file. It keeps no state between
// calls, so a rotated or truncated file is simply read as it is now.
type Tailer struct {
	// MaxReadBytes is the chunk size used to read the file backwards from
	// its end until the window is complete. Zero or negative reads the whole
	// file at once.
	MaxReadBytes int64
}

// Tail returns the last n lines of the file at path using a Tailer that reads the whole file.
func Tail(path string, n int) []Line {
	return (&Tailer{}).Tail(path, n)
}

// Tail returns at most n lines from the end of the file at path, oldest first.
// A missing, unreadable or non-regular file yields an empty result.
func (t *Tailer) Tail(path string, n int) []Line {
	if n <= 0 {
		return []Line{}
	}
	content, err := t.read(path, n)
	if err != nil {
		return []Line{}
	}

	raw := lastLines(content, n)
	lines := make([]Line, len(raw))
	for i, text := range raw {
		lines[i] = Line{Severity: Classify(text), Text: text}
	}
	return lines
}

// read returns the end of the file holding at least its last n lines.
func (t *Tailer) read(path string, n int) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", path)
	}

	size := info.Size()
	if t.MaxReadBytes <= 0 || size <= t.MaxReadBytes {
		data, err := io.ReadAll(file)
		if err != nil {
			return "", err
		}
		return strings.ToValidUTF8(string(data), "\uFFFD"), nil
	}

	// n+1 newlines guarantee n complete lines after the first one, even when
	// the file ends with a newline.
	var data []byte
	offset, newlines := size, 0
	for offset > 0 && newlines <= n {
		step := min(t.MaxReadBytes, offset)
		offset -= step
		chunk := make([]byte, step)
		if _, err := file.ReadAt(chunk, offset); err != nil {
			return "", err
		}
		newlines += bytes.Count(chunk, []byte{'\n'})
		data = append(chunk, data...)
	}

	// Drop the partial line the first chunk started in.
	if offset > 0 {
		idx := bytes.IndexByte(data, '\n')
		data = data[idx+1:]
	}

	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}

// lastLines splits content into lines and keeps the last n.
// A trailing newline does not produce an empty final line.
func lastLines(content string, n int) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
