package tools

import (
	"regexp"
	"strings"
)

// dangerousPatterns are matched against the lowercased command.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\brm\s+(-\S*r|--recursive|\*|/)`),                   // rm -rf, rm -r, rm *, rm /
	regexp.MustCompile(`\bsudo\b`),                                          // privilege escalation
	regexp.MustCompile(`\bsu\s+-`),                                          // root login shell
	regexp.MustCompile(`\bmkfs|\bfdisk\b|\bformat\s`),                       // disk formatting
	regexp.MustCompile(`\bdd\s+.*(if=/dev/(zero|random|urandom)|of=/dev/)`), // overwriting devices
	regexp.MustCompile(`(curl|wget|fetch)\s*https?://`),                     // remote fetch
	regexp.MustCompile(`(curl|wget|fetch)\b[^|]*\|\s*\S*(sh|bash|zsh|python\S*|perl)\b`), // fetch piped into an interpreter
	regexp.MustCompile(`[;&|]\s*(rm|sudo|mkfs|dd)\b`),                       // chained destructives
	regexp.MustCompile(`\$\(\s*(curl|wget)`),                                // subshell fetches
	regexp.MustCompile("`\\s*(curl|wget)"),                                  // backtick fetches
	regexp.MustCompile(`/dev/(tcp|udp)/`),                                   // /dev/tcp hacks
	regexp.MustCompile(`>\s*/dev/(sd|nvme|hd|disk)`),                        // device file writes
}

// safeCommands lists the leading command words the shell tool accepts.
var safeCommands = map[string]bool{
	"ls": true, "cat": true, "head": true, "tail": true, "grep": true,
	"sed": true, "awk": true, "find": true, "xargs": true, "echo": true,
	"print": true, "pwd": true, "cd": true, "mkdir": true, "touch": true,
	"mv": true, "cp": true, "git": true, "uv": true, "pytest": true,
	"python": true, "pip": true, "poetry": true, "read": true, "write": true,
	"glob": true, "diff": true, "sort": true, "uniq": true, "wc": true,
	"go": true, "make": true,
}

// ShellPolicy decides whether a command may run.
type ShellPolicy struct {
	Dangerous []*regexp.Regexp
	Allowed   map[string]bool
}

// DefaultShellPolicy returns the denylist/allowlist used in safe mode.
func DefaultShellPolicy() *ShellPolicy {
	allowed := make(map[string]bool, len(safeCommands))
	for k, v := range safeCommands {
		allowed[k] = v
	}
	return &ShellPolicy{Dangerous: dangerousPatterns, Allowed: allowed}
}

// Check returns a KindBlocked *ToolError when the command is rejected.
func (p *ShellPolicy) Check(command string) error {
	lowered := strings.ToLower(strings.TrimSpace(command))

	for _, pattern := range p.Dangerous {
		if pattern.MatchString(lowered) {
			return newToolError(KindBlocked, nil, "Safety block: Dangerous command '%s'. Use safer alternatives.", command)
		}
	}

	firstWord := ""
	if fields := strings.Fields(lowered); len(fields) > 0 {
		firstWord = fields[0]
	}
	if !p.Allowed[firstWord] {
		return newToolError(KindBlocked, nil, "Safety block: Unknown command '%s'. Stick to safe dev tools like ls/cat/uv/pytest.", firstWord)
	}

	return nil
}
