// testreport post-processes the result of a single unit test run into a JSON
// test report.
//
// Usage:
//
//	testreport --yb-src-root ~/code/yugabyte-db \
//	    --build-root ~/code/yugabyte-db/build/debug-gcc-dynamic \
//	    --test-log-path build/yb-test-logs/tests-util__string_util-test/StringUtilTest_TestCollectionToString.log \
//	    --junit-xml-path build/yb-test-logs/tests-util__string_util-test/StringUtilTest_TestCollectionToString.xml \
//	    --language cxx
//
// The structured result (JUnit XML) is normalized into one record per test
// case. Failing records are classified by scanning the test log, plain or
// gzip-compressed, for known failure signatures. The report is written next
// to the result file as <stem>_test_report.json.
//
// Exit codes:
//
//	0  report written
//	1  runtime failure (unparsable result file, scan setup, write or validation failure)
//	2  usage or configuration error
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yugabyte/testreport/internal/config"
	"github.com/yugabyte/testreport/internal/invocation"
	"github.com/yugabyte/testreport/internal/logger"
	"github.com/yugabyte/testreport/internal/schema"
	"github.com/yugabyte/testreport/internal/version"
	"github.com/yugabyte/testreport/pkg/classify"
	"github.com/yugabyte/testreport/pkg/junit"
	"github.com/yugabyte/testreport/pkg/logscan"
	"github.com/yugabyte/testreport/pkg/mapper"
	"github.com/yugabyte/testreport/pkg/render"
	"github.com/yugabyte/testreport/pkg/report"
	"github.com/yugabyte/testreport/pkg/signature"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// usageError marks errors that map to exit code 2.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func run(args []string, stdout, stderr io.Writer) int {
	logger.SetOutput(stderr)

	cmd := newRootCmd(stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "testreport: %v\n", err)
	var ue *usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	var flags config.Flags

	cmd := &cobra.Command{
		Use:   "testreport",
		Short: "Post-process a unit test result into a JSON test report",
		Long: `testreport normalizes the JUnit XML result of one unit test run, classifies
failures by scanning the test log for known failure signatures, and writes
<result stem>_test_report.json next to the result file.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return &usageError{err}
			}
			return nil
		},
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			flags.LogLevelSet = fs.Changed("log-level")
			flags.VerboseSet = fs.Changed("verbose")
			flags.SummarySet = fs.Changed("summary")
			flags.ThemeSet = fs.Changed("theme")
			flags.ValidateSet = fs.Changed("validate")

			opts, err := config.Resolve(flags)
			if err != nil {
				return &usageError{err}
			}
			return process(opts, stderr)
		},
	}
	cmd.SetVersionTemplate("testreport {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	fs := cmd.Flags()
	fs.StringVar(&flags.YBSrcRoot, "yb-src-root", "", "root directory of the source tree (required)")
	fs.StringVar(&flags.BuildRoot, "build-root", "", "root directory of the build (required)")
	fs.StringVar(&flags.TestLogPath, "test-log-path", "", "main log file of this test (required)")
	fs.StringVar(&flags.JUnitXMLPath, "junit-xml-path", "", "JUnit-compatible XML result file of this test (required)")
	fs.StringVar(&flags.Language, "language", "", "language the test is written in: cxx, java (required)")
	fs.StringVar(&flags.TestFailed, "test-failed", "", "whether the test framework considered the test failed: true, false")
	fs.StringVar(&flags.FatalDetailsPathPrefix, "fatal-details-path-prefix", "", "prefix of fatal failure details files")
	fs.StringVar(&flags.ClassName, "class-name", "", "class name, used when the result file lacks one")
	fs.StringVar(&flags.TestName, "test-name", "", "test name within the class, used when the result file lacks one")
	fs.StringVar(&flags.JavaModuleDir, "java-module-dir", "", "Java module directory containing this test")
	fs.StringVar(&flags.CxxRelTestBinary, "cxx-rel-test-binary", "", "C++ test binary path relative to the build directory")
	fs.StringVar(&flags.ExtraErrorLogPath, "extra-error-log-path", "", "stdout/stderr log of the outermost test invocation")

	fs.StringVar(&flags.ConfigPath, "config", "", "config file (default .testreport.yaml, then ~/.config/testreport/.testreport.yaml)")
	fs.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.BoolVarP(&flags.Verbose, "verbose", "v", false, "debug logging")
	fs.BoolVar(&flags.Summary, "summary", false, "print a human-readable summary to stderr")
	fs.StringVar(&flags.ThemeName, "theme", "", "summary theme: "+strings.Join(render.ThemeNames, ", "))
	fs.BoolVar(&flags.Validate, "validate", false, "validate the report against the embedded JSON schema before writing")

	return cmd
}

// process runs the pipeline: normalize the result file, merge the invocation
// context, classify failing records and emit the report.
func process(opts config.Options, stderr io.Writer) error {
	logger.Init(opts.LogLevel)
	if opts.ConfigFile != "" {
		logger.Debugf("Config file: %s", opts.ConfigFile)
	}

	cat, err := signature.New(opts.Signals)
	if err != nil {
		return &usageError{fmt.Errorf("signals: %w", err)}
	}

	ctx, err := invocation.New(opts, nil)
	if err != nil {
		return err
	}

	records, err := junit.NormalizeFile(opts.JUnitXMLPath)
	if err != nil {
		return err
	}

	classifier := classify.New(cat, logscan.NewScanner(logscan.NewFileSource(ctx.LogPath), cat))
	for _, rec := range records {
		ctx.Merge(rec)
		classifier.Apply(rec)
	}

	var validate report.Validator
	if opts.Validate {
		validate = schema.Validate
	}
	out := report.OutputPath(opts.JUnitXMLPath)
	if err := report.NewEmitter(validate).Emit(records, out); err != nil {
		return err
	}
	logger.Infof("Wrote JSON test report file: %s", out)

	if opts.Summary {
		printSummary(stderr, opts, records)
	}
	return nil
}

func printSummary(w io.Writer, opts config.Options, records []*report.Record) {
	label := strings.TrimSuffix(filepath.Base(opts.JUnitXMLPath), filepath.Ext(opts.JUnitXMLPath))
	theme := render.SelectTheme(opts.Theme, isTTYWriter(w))
	r := render.NewTerminal(theme, termWidth(w))
	fmt.Fprint(w, r.Render(mapper.FromRecords(label, records)))
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth returns the terminal width of w, defaulting to 80.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return 80
}
