package magetasks

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/magefile/mage/sh"
)

// LDFlags returns the linker flags that stamp build metadata into
// internal/version.
func LDFlags(version, commit, date string) string {
	pkg := ModulePath + "/internal/version"
	return fmt.Sprintf("-s -w -X '%s.Version=%s' -X '%s.CommitHash=%s' -X '%s.BuildDate=%s'",
		pkg, version, pkg, commit, pkg, date)
}

// BuildAll builds the testreport binary.
func BuildAll() error {
	PrintH2Header("Build")

	ldflags := LDFlags(gitOutput("dev", "describe", "--tags", "--always", "--dirty", "--match=v*"),
		gitOutput("unknown", "rev-parse", "--short", "HEAD"),
		time.Now().UTC().Format(time.RFC3339))

	if err := Run("Go Build", "go", "build", "-ldflags", ldflags, "-o", BinPath, MainPackage); err != nil {
		PrintError("Build failed")
		return err
	}
	PrintSuccess(fmt.Sprintf("Built: %s", BinPath))
	return nil
}

// Clean removes build artifacts.
func Clean() error {
	PrintH2Header("Clean")

	if err := sh.Rm("./bin"); err != nil {
		return err
	}
	if err := sh.Rm("coverage.out"); err != nil {
		return err
	}
	PrintSuccess("Cleaned build artifacts")
	return nil
}

func gitOutput(fallback string, args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil || strings.TrimSpace(out) == "" {
		return fallback
	}
	return strings.TrimSpace(out)
}

// Run runs a command with its output attached to the terminal.
func Run(label, cmd string, args ...string) error {
	fmt.Printf("%s: %s %s\n", label, cmd, strings.Join(args, " "))
	_, err := sh.Exec(nil, os.Stdout, os.Stderr, cmd, args...)
	return err
}
