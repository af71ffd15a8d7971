package tools

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindToolNotFound
	KindNotFound
	KindInvalidArgs
	KindInvalidPattern
	KindIO
	KindExecution
	KindTimeout
	KindBlocked
)

var kindNames = map[ErrorKind]string{
	KindInternal:       "internal",
	KindToolNotFound:   "tool_not_found",
	KindNotFound:       "not_found",
	KindInvalidArgs:    "invalid_args",
	KindInvalidPattern: "invalid_pattern",
	KindIO:             "io",
	KindExecution:      "execution",
	KindTimeout:        "timeout",
	KindBlocked:        "blocked",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ToolError is a tool failure. Message is the exact text shown to the model.
type ToolError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ToolError) Error() string {
	return e.Message
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

func newToolError(kind ErrorKind, err error, format string, args ...interface{}) *ToolError {
	return &ToolError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the kind of a tool error, or KindInternal for anything else.
func KindOf(err error) ErrorKind {
	var te *ToolError
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindInternal
}

// ResultText collapses an Execute outcome into the text fed back to the model.
func ResultText(result string, err error) string {
	if err == nil {
		return result
	}
	var te *ToolError
	if errors.As(err, &te) {
		return te.Message
	}
	return "Error: " + err.Error()
}
