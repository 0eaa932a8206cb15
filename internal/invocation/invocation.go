// Package invocation captures the invocation-wide context merged into every
// test record: canonical relative paths, the fatal-details artifacts and the
// external test identity.
package invocation

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yugabyte/testreport/internal/config"
	"github.com/yugabyte/testreport/internal/logger"
	"github.com/yugabyte/testreport/pkg/logscan"
	"github.com/yugabyte/testreport/pkg/report"
)

// Java test logs are named <class>-output.txt; the cluster writes fatal
// details next to them as <class>.<test>.fatal_failure_details.<suffix>.
const (
	javaLogSuffix      = "-output.txt"
	fatalDetailsSuffix = "fatal_failure_details"
)

// GlobFunc lists the paths matching a pattern.
type GlobFunc func(pattern string) ([]string, error)

// Context is the invocation-wide data shared by all records. It is built once
// and not modified afterwards.
type Context struct {
	Roots Roots

	Language         string
	CxxRelTestBinary string
	JavaModuleDir    string
	TestFailed       *bool

	// LogPath is the log to scan: the plain log, or its .gz sibling when
	// only that exists.
	LogPath string

	RelLogPath           string
	RelJUnitXMLPath      string
	RelExtraErrorLogPath string
	FatalDetailsPaths    []string
	TestDescriptor       string

	ClassName string
	TestName  string
}

// New builds the context from resolved options. A nil glob uses
// filepath.Glob.
func New(opts config.Options, glob GlobFunc) (*Context, error) {
	if glob == nil {
		glob = filepath.Glob
	}
	roots, err := NewRoots(opts.YBSrcRoot, opts.BuildRoot)
	if err != nil {
		return nil, err
	}

	ctx := &Context{
		Roots:            roots,
		Language:         opts.Language,
		CxxRelTestBinary: opts.CxxRelTestBinary,
		JavaModuleDir:    opts.JavaModuleDir,
		TestFailed:       opts.TestFailed,
		LogPath:          logscan.ResolvePath(opts.TestLogPath),
		TestDescriptor:   opts.TestDescriptor,
		ClassName:        opts.ClassName,
		TestName:         opts.TestName,
	}
	logger.Infof("Log path: %s", ctx.LogPath)
	logger.Infof("JUnit XML path: %s", opts.JUnitXMLPath)

	if ctx.RelLogPath, err = roots.RelToSrc(ctx.LogPath); err != nil {
		return nil, err
	}
	if ctx.RelJUnitXMLPath, err = roots.RelToSrc(opts.JUnitXMLPath); err != nil {
		return nil, err
	}
	if opts.ExtraErrorLogPath != "" {
		if ctx.RelExtraErrorLogPath, err = roots.RelToSrc(opts.ExtraErrorLogPath); err != nil {
			return nil, err
		}
	}
	if buildRel, err := roots.RelToBuild(ctx.LogPath); err == nil {
		logger.Debugf("Log path relative to build root: %s", buildRel)
	}

	if ctx.ClassName != "" {
		logger.Infof("Externally specified class name: %s", ctx.ClassName)
	}
	if ctx.TestName != "" {
		logger.Infof("Externally specified test name: %s", ctx.TestName)
	}
	if ctx.JavaModuleDir != "" {
		logger.Debugf("Java module directory: %s", ctx.JavaModuleDir)
	}
	if ctx.TestFailed != nil {
		logger.Debugf("Test failed according to the test framework: %t", *ctx.TestFailed)
	}

	prefix := FatalDetailsPrefix(opts.FatalDetailsPathPrefix, opts.TestName, opts.TestLogPath)
	if prefix != "" {
		paths, err := FatalDetailsPaths(glob, prefix)
		if err != nil {
			logger.Warnf("Could not list fatal failure details with prefix %s: %v", prefix, err)
		}
		for _, p := range paths {
			r, err := roots.RelToSrc(p)
			if err != nil {
				return nil, err
			}
			ctx.FatalDetailsPaths = append(ctx.FatalDetailsPaths, r)
		}
	}
	return ctx, nil
}

// FatalDetailsPrefix returns the explicit prefix when given. Otherwise, for a
// Java log named <class>-output.txt and a known test name, it derives
// <class>.<test>.fatal_failure_details. Anything else yields "".
func FatalDetailsPrefix(explicit, testName, logPath string) string {
	if explicit != "" {
		return explicit
	}
	if testName == "" || !strings.HasSuffix(logPath, javaLogSuffix) {
		return ""
	}
	base := strings.TrimSuffix(logPath, javaLogSuffix)
	return strings.Join([]string{base, testName, fatalDetailsSuffix}, ".") + "."
}

// FatalDetailsPaths lists the files starting with prefix, sorted.
func FatalDetailsPaths(glob GlobFunc, prefix string) ([]string, error) {
	paths, err := glob(escapeGlob(prefix) + "*")
	if err != nil {
		return nil, fmt.Errorf("glob %s*: %w", prefix, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// escapeGlob quotes the metacharacters of a literal prefix. Test names such
// as testSameZoneOps[1] would otherwise form a character class.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Merge adds the shared context fields to rec. External class and test names
// fill in only what the result document left out.
func (c *Context) Merge(rec *report.Record) {
	rec.Language = c.Language
	rec.CxxRelTestBinary = c.CxxRelTestBinary
	rec.LogPath = c.RelLogPath
	rec.JUnitXMLPath = c.RelJUnitXMLPath
	if len(c.FatalDetailsPaths) > 0 {
		rec.FatalDetailsPaths = append([]string(nil), c.FatalDetailsPaths...)
	}
	rec.TestDescriptor = c.TestDescriptor
	rec.ExtraErrorLogPath = c.RelExtraErrorLogPath

	if rec.TestName == nil && c.TestName != "" {
		name := c.TestName
		rec.TestName = &name
	}
	if rec.ClassName == nil && c.ClassName != "" {
		class := c.ClassName
		rec.ClassName = &class
	}
}

// MergeAll merges the context into every record.
func (c *Context) MergeAll(records []*report.Record) {
	for _, rec := range records {
		c.Merge(rec)
	}
}
