// Package logging provides a small leveled logger used across cjdkgo.
//
// Before configuration is loaded there is no log file and no confirmed log
// level, but early lifecycle events (command initialization, config discovery)
// still need to be observable. PreLog buffers those messages at DEBUG
// verbosity until InitLogger is called, at which point the real logger
// takes over for everything that follows.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

func parseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

type entry struct {
	Time  time.Time `json:"time"`
	Level string    `json:"level"`
	Msg   string    `json:"msg"`
}

var (
	mu         sync.Mutex
	level      = LevelInfo
	jsonFormat = false
	out        io.Writer = os.Stdout
	logFile    *os.File

	preLogLevel = LevelDebug
	preLogBuf   []entry
)

// PreLog buffers a message before InitLogger has run. Messages below
// preLogLevel (set by SetPreLogLevel once the --log-level flag is known)
// are discarded.
func PreLog(levelName, format string, args ...interface{}) {
	lvl := parseLevel(levelName)
	mu.Lock()
	defer mu.Unlock()
	if lvl < preLogLevel {
		return
	}
	preLogBuf = append(preLogBuf, entry{Time: time.Now(), Level: levelName, Msg: fmt.Sprintf(format, args...)})
}

// SetPreLogLevel adjusts the verbosity filter applied to PreLog calls.
func SetPreLogLevel(levelName string) {
	mu.Lock()
	defer mu.Unlock()
	preLogLevel = parseLevel(levelName)
}

// InitLogger switches on the real logger: writes to stdout and, if logPath
// is non-empty, to a per-day log file (cjdkgo-YYYYMMDD.log, appended to)
// under logPath. Buffered
// PreLog messages are flushed first.
func InitLogger(logPath, logLevel string, useJSON bool) error {
	mu.Lock()
	defer mu.Unlock()

	level = parseLevel(logLevel)
	jsonFormat = useJSON

	writers := []io.Writer{os.Stdout}
	if logPath != "" {
		if err := os.MkdirAll(logPath, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		path := fmt.Sprintf("%s/cjdkgo-%s.log", logPath, time.Now().Format("20060102"))
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		writers = append(writers, f)
	}
	out = io.MultiWriter(writers...)

	for _, e := range preLogBuf {
		writeLocked(e.Level, e.Msg)
	}
	preLogBuf = nil
	return nil
}

// Close releases the log file handle, if one is open.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

func writeLocked(levelName, msg string) {
	if jsonFormat {
		data, err := json.Marshal(entry{Time: time.Now(), Level: levelName, Msg: msg})
		if err != nil {
			fmt.Fprintf(out, "%s [%s] %s\n", time.Now().Format(time.RFC3339), levelName, msg)
			return
		}
		fmt.Fprintln(out, string(data))
		return
	}
	fmt.Fprintf(out, "%s [%s] %s\n", time.Now().Format(time.RFC3339), levelName, msg)
}

func log(lvl Level, levelName, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if lvl < level {
		return
	}
	writeLocked(levelName, fmt.Sprintf(format, args...))
}

// LogDebug logs a DEBUG-level message.
func LogDebug(format string, args ...interface{}) { log(LevelDebug, "DEBUG", format, args...) }

// LogInfo logs an INFO-level message.
func LogInfo(format string, args ...interface{}) { log(LevelInfo, "INFO", format, args...) }

// LogError logs an ERROR-level message.
func LogError(format string, args ...interface{}) { log(LevelError, "ERROR", format, args...) }

// LogOutput writes a user-facing line unconditionally, bypassing level
// filtering (used for command results such as version listings).
func LogOutput(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, format+"\n", args...)
}
