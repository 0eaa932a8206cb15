package magetasks

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/magefile/mage/sh"
)

// IsCommandNotFound checks if the error indicates the command was not found.
func IsCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "executable file not found") ||
		strings.Contains(errStr, "no such file or directory")
}

func runOutput(cmd string, args ...string) (string, error) {
	return sh.Output(cmd, args...)
}

// unformatted parses gofmt -l output, ignoring the read-only reference tree.
func unformatted(out string) []string {
	var files []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "_") {
			continue
		}
		files = append(files, line)
	}
	return files
}
