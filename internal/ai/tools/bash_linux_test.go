package tools

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"
)

// processGone reports whether pid has exited. A zombie waiting for its
// reaper counts as gone.
func processGone(pid int) bool {
	if err := syscall.Kill(pid, 0); errors.Is(err, syscall.ESRCH) {
		return true
	}
	stat, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return true
	}
	// The state field follows the parenthesized command name.
	if i := strings.LastIndexByte(string(stat), ')'); i >= 0 {
		fields := strings.Fields(string(stat[i+1:]))
		return len(fields) > 0 && (fields[0] == "Z" || fields[0] == "X")
	}
	return false
}

func TestBashToolTimeoutKillsChildren(t *testing.T) {
	requireBash(t)

	pidFile := filepath.Join(t.TempDir(), "child.pid")
	tool := NewBashTool(300*time.Millisecond, nil)

	_, err := tool.Execute(context.Background(), Args{"command": "sleep 30 & echo $! > " + pidFile + "; wait"})
	if KindOf(err) != KindTimeout {
		t.Fatalf("err = %v (kind %s), want timeout", err, KindOf(err))
	}

	data, err := os.ReadFile(pidFile)
	if err != nil {
		t.Fatalf("read pid file: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		t.Fatalf("parse pid %q: %v", data, err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !processGone(pid) {
		if time.Now().After(deadline) {
			syscall.Kill(pid, syscall.SIGKILL)
			t.Fatalf("child %d still running after timeout", pid)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestBashToolCancelledIsNotExitCode(t *testing.T) {
	requireBash(t)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	got, err := NewBashTool(10*time.Second, nil).Execute(ctx, Args{"command": "sleep 5"})
	if KindOf(err) != KindExecution || !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v (kind %s), want cancelled execution error", err, KindOf(err))
	}
	if strings.Contains(got, "Exit code") {
		t.Fatalf("cancelled command reported as exit status: %q", got)
	}
}
