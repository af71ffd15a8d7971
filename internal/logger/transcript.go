package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TranscriptLogger appends a human-readable record of one session to
// <baseDir>/session/<sessionID>/<date>.log, rotating the file when the day
// changes.
type TranscriptLogger struct {
	baseDir     string
	sessionID   string
	file        *os.File
	mutex       sync.Mutex
	currentDate string
	now         func() time.Time
}

// NewTranscriptLogger creates a transcript logger. No file is opened until
// the first entry is written.
func NewTranscriptLogger(baseDir, sessionID string) *TranscriptLogger {
	return &TranscriptLogger{
		baseDir:   baseDir,
		sessionID: sanitizeFilename(sessionID),
		now:       time.Now,
	}
}

// sanitizeFilename removes characters that are invalid in filenames
func sanitizeFilename(name string) string {
	safeMap := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '\'',
		'<':  '(',
		'>':  ')',
		'|':  '-',
	}

	result := []rune(name)
	for i, char := range result {
		if replacement, found := safeMap[char]; found {
			result[i] = replacement
		}
	}

	return string(result)
}

// Path returns the file the next entry would be written to.
func (tl *TranscriptLogger) Path() string {
	return filepath.Join(tl.baseDir, "session", tl.sessionID, tl.now().Format("2006-01-02")+".log")
}

func (tl *TranscriptLogger) writer() (*os.File, error) {
	currentDate := tl.now().Format("2006-01-02")
	if tl.file != nil && currentDate == tl.currentDate {
		return tl.file, nil
	}
	if tl.file != nil {
		tl.file.Close()
		tl.file = nil
	}

	logPath := tl.Path()
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for transcript: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript %s: %w", logPath, err)
	}

	tl.file = file
	tl.currentDate = currentDate
	return file, nil
}

func (tl *TranscriptLogger) write(format string, args ...interface{}) {
	tl.mutex.Lock()
	defer tl.mutex.Unlock()

	writer, err := tl.writer()
	if err != nil {
		Errorf("%v", err)
		return
	}

	timestamp := tl.now().Format("15:04:05")
	entry := fmt.Sprintf("[%s] %s\n", timestamp, fmt.Sprintf(format, args...))
	if _, err := writer.WriteString(entry); err != nil {
		Errorf("Failed to write transcript: %v", err)
	}
}

// LogUser records a line of user input.
func (tl *TranscriptLogger) LogUser(input string) {
	tl.write("<user> %s", input)
}

// LogToolCall records a tool invocation with its raw arguments.
func (tl *TranscriptLogger) LogToolCall(name, arguments string) {
	tl.write("* tool %s %s", name, arguments)
}

// LogAssistant records the final answer of a turn.
func (tl *TranscriptLogger) LogAssistant(answer string) {
	tl.write("<assistant> %s", answer)
}

// LogEvent records a session event such as a cleared history or an error.
func (tl *TranscriptLogger) LogEvent(event string) {
	tl.write("-- %s", event)
}

// Close closes the current transcript file.
func (tl *TranscriptLogger) Close() {
	tl.mutex.Lock()
	defer tl.mutex.Unlock()

	if tl.file != nil {
		tl.file.Close()
		tl.file = nil
	}
}
