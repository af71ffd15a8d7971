package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"
)

type LogLevel string

const (
	LevelInfo    LogLevel = "INFO"
	LevelSuccess LogLevel = "SUCCESS"
	LevelWarning LogLevel = "WARNING"
	LevelError   LogLevel = "ERROR"
	LevelDebug   LogLevel = "DEBUG"
)

var (
	mu sync.Mutex

	console io.Writer = os.Stdout
	debug   bool

	errorLogger  *stdlog.Logger
	errorLogFile *os.File

	// Agent debug lines (model calls, tool dispatch, compaction) go to their
	// own file so error.log stays readable.
	agentLogger  *stdlog.Logger
	agentLogFile *os.File
)

// Init opens error.log and agent.log inside dataDir, creating the directory
// when needed. Console logging works without calling Init.
func Init(dataDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	var err error
	errorLogFile, err = os.OpenFile(filepath.Join(dataDir, "error.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open error log file: %w", err)
	}
	errorLogger = stdlog.New(errorLogFile, "", 0)

	agentLogFile, err = os.OpenFile(filepath.Join(dataDir, "agent.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open agent log file: %w", err)
	}
	agentLogger = stdlog.New(agentLogFile, "", 0)

	return nil
}

// CloseLogFile should be called during shutdown to properly close all log files
func CloseLogFile() {
	mu.Lock()
	defer mu.Unlock()

	if errorLogFile != nil {
		errorLogFile.Close()
		errorLogFile, errorLogger = nil, nil
	}
	if agentLogFile != nil {
		agentLogFile.Close()
		agentLogFile, agentLogger = nil, nil
	}
}

// SetOutput redirects console output. Pass io.Discard to silence it.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	console = w
}

// SetDebug toggles printing of debug lines to the console.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debug = enabled
}

var colorMap = map[string]func(a ...interface{}) string{
	string(LevelInfo):    color.New(color.FgBlue).SprintFunc(),
	string(LevelSuccess): color.New(color.FgGreen).SprintFunc(),
	string(LevelWarning): color.New(color.FgYellow).SprintFunc(),
	string(LevelError):   color.New(color.FgRed).SprintFunc(),
	string(LevelDebug):   color.New(color.FgCyan).SprintFunc(),

	"blue":    color.New(color.FgBlue).SprintFunc(),
	"green":   color.New(color.FgGreen).SprintFunc(),
	"yellow":  color.New(color.FgYellow).SprintFunc(),
	"red":     color.New(color.FgRed).SprintFunc(),
	"cyan":    color.New(color.FgCyan).SprintFunc(),
	"magenta": color.New(color.FgMagenta).SprintFunc(),
	"white":   color.New(color.FgWhite).SprintFunc(),
	"dim":     color.New(color.Faint).SprintFunc(),

	"bold_blue":  color.New(color.FgBlue, color.Bold).SprintFunc(),
	"bold_green": color.New(color.FgGreen, color.Bold).SprintFunc(),
	"bold_cyan":  color.New(color.FgCyan, color.Bold).SprintFunc(),
	"bold_red":   color.New(color.FgRed, color.Bold).SprintFunc(),
}

func GetColorFunc(colorName string) func(a ...interface{}) string {
	if fn, ok := colorMap[colorName]; ok {
		return fn
	}
	return colorMap["white"]
}

func logMessage(level LogLevel, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	mu.Lock()
	defer mu.Unlock()

	if level != LevelDebug || debug {
		colorFunc := GetColorFunc(string(level))
		fmt.Fprintln(console, colorFunc(fmt.Sprintf("[%s] ", level))+message)
	}

	// Only errors and warnings are persisted to error.log
	if level == LevelError || level == LevelWarning {
		if errorLogger != nil {
			errorLogger.Printf("[%s] %s: %s", level, timestamp, message)
		}
	}
}

func Infof(format string, args ...interface{}) {
	logMessage(LevelInfo, format, args...)
}

func Successf(format string, args ...interface{}) {
	logMessage(LevelSuccess, format, args...)
}

func Warnf(format string, args ...interface{}) {
	logMessage(LevelWarning, format, args...)
}

func Errorf(format string, args ...interface{}) {
	logMessage(LevelError, format, args...)
}

func Debugf(format string, args ...interface{}) {
	logMessage(LevelDebug, format, args...)
}

// AgentDebugf logs agent-loop debug messages to agent.log instead of error.log
func AgentDebugf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	mu.Lock()
	defer mu.Unlock()

	if debug {
		colorFunc := GetColorFunc(string(LevelDebug))
		fmt.Fprintln(console, colorFunc("[AGENT-DEBUG] ")+message)
	}

	if agentLogger != nil {
		agentLogger.Printf("[DEBUG] %s: %s", timestamp, message)
	}
}
