package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorWhite   = "\033[37m"
)

// FormatEntry renders one JSON log line as a compact, optionally colored
// block: timestamp, level and message, then one indented line per field.
func FormatEntry(line []byte, useColor bool) (string, error) {
	var entry map[string]interface{}
	if err := json.Unmarshal(line, &entry); err != nil {
		return "", fmt.Errorf("error parsing log entry: %w", err)
	}

	paint := func(s, color string) string {
		if !useColor {
			return s
		}
		return color + s + colorReset
	}

	timestamp, _ := entry["time"].(string)
	level, _ := entry["level"].(string)
	msg, _ := entry["msg"].(string)

	level = strings.ToUpper(level)
	levelColor := colorWhite
	switch level {
	case "DEBUG":
		levelColor = colorBlue
	case "INFO":
		levelColor = colorGreen
	case "WARNING", "WARN":
		level = "WARN"
		levelColor = colorYellow
	case "ERROR":
		levelColor = colorRed
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", paint(formatTimestamp(timestamp), colorMagenta), paint(fmt.Sprintf("%-5s", level), levelColor), msg)

	keys := make([]string, 0, len(entry))
	for key := range entry {
		if key != "time" && key != "level" && key != "msg" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, "\n    %s %v", paint(key+":", colorCyan), entry[key])
	}
	return b.String(), nil
}

func formatTimestamp(timestamp string) string {
	t, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return timestamp // Return original if parsing fails
	}
	return t.Format("06-01-02 15:04:05.000")
}

// Follower reads lines appended to the *.log files of a directory.
type Follower struct {
	dir       string
	positions map[string]int64
}

// NewFollower creates a Follower starting at the beginning of every file
func NewFollower(dir string) *Follower {
	return &Follower{dir: dir, positions: make(map[string]int64)}
}

// Poll calls fn for every complete line written since the previous call.
// A file that shrank is read again from the start.
func (f *Follower) Poll(fn func(file, line string)) error {
	logFiles, err := filepath.Glob(filepath.Join(f.dir, "*.log"))
	if err != nil {
		return fmt.Errorf("error reading log directory: %w", err)
	}
	sort.Strings(logFiles)

	for _, path := range logFiles {
		if err := f.pollFile(path, fn); err != nil {
			return err
		}
	}
	return nil
}

func (f *Follower) pollFile(path string, fn func(file, line string)) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("error getting file stats for %s: %w", filepath.Base(path), err)
	}
	pos := f.positions[path]
	if stat.Size() < pos {
		pos = 0
	}
	if _, err := file.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("error seeking in %s: %w", filepath.Base(path), err)
	}

	reader := bufio.NewReader(file)
	name := filepath.Base(path)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			// A partial last line is read again once it is complete
			break
		}
		pos += int64(len(line))
		fn(name, strings.TrimRight(line, "\r\n"))
	}
	f.positions[path] = pos
	return nil
}
