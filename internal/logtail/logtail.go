package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Filter selects which lines Tail keeps. A nil Filter keeps everything.
type Filter func(line string) bool

// Contains returns a case-insensitive substring filter. An empty needle
// matches every line.
func Contains(needle string) Filter {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return nil
	}
	return func(line string) bool {
		return strings.Contains(strings.ToLower(line), needle)
	}
}

// Read returns the last maxLines matching lines of the file at path. A
// missing file yields no lines and no error.
func Read(path string, maxLines int, keep Filter) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()
	return Tail(file, maxLines, keep)
}

// Tail returns the last maxLines matching lines of r in order. A
// non-positive maxLines returns every matching line.
func Tail(r io.Reader, maxLines int, keep Filter) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			if line := scanner.Text(); keep == nil || keep(line) {
				lines = append(lines, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count, idx := 0, 0
	for scanner.Scan() {
		line := scanner.Text()
		if keep != nil && !keep(line) {
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level is a coarse severity guessed from a log line.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Classify guesses the severity of a flowdo log line from its wording.
func Classify(line string) Level {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "failed"), strings.Contains(lower, "reverted"):
		return LevelError
	case strings.Contains(lower, "skipped"), strings.Contains(lower, "discarded"), strings.Contains(lower, "retrying"):
		return LevelWarn
	default:
		return LevelInfo
	}
}
