package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Environment variables read during resolution.
const (
	EnvConfig         = "TESTREPORT_CONFIG"
	EnvLogLevel       = "TESTREPORT_LOG_LEVEL"
	EnvNoColor        = "NO_COLOR"
	EnvTestDescriptor = "YB_TEST_DESCRIPTOR"
)

// Defaults.
const (
	DefaultLogLevel = "info"
	DefaultTheme    = "default"
)

// Languages accepted by --language.
const (
	LanguageCxx  = "cxx"
	LanguageJava = "java"
)

var (
	// ErrMissingRequired is returned when a required flag is empty.
	ErrMissingRequired = errors.New("missing required flag")
	// ErrInvalidLanguage is returned for a --language other than cxx or java.
	ErrInvalidLanguage = errors.New("invalid language")
	// ErrInvalidValue is returned for any other out-of-range setting.
	ErrInvalidValue = errors.New("invalid value")
)

var validThemes = []string{"default", "orca", "mono"}

// Flags holds the values of command-line flags.
type Flags struct {
	YBSrcRoot              string
	BuildRoot              string
	TestLogPath            string
	JUnitXMLPath           string
	Language               string
	TestFailed             string
	FatalDetailsPathPrefix string
	ClassName              string
	TestName               string
	JavaModuleDir          string
	CxxRelTestBinary       string
	ExtraErrorLogPath      string

	ConfigPath string
	LogLevel   string
	Verbose    bool
	Summary    bool
	ThemeName  string
	Validate   bool

	// Flags to track if they were explicitly set by the user
	LogLevelSet bool
	VerboseSet  bool
	SummarySet  bool
	ThemeSet    bool
	ValidateSet bool
}

// Options is the fully resolved configuration of one invocation. It is built
// once by Resolve and treated as read-only afterwards.
type Options struct {
	YBSrcRoot              string
	BuildRoot              string
	TestLogPath            string
	JUnitXMLPath           string
	Language               string
	TestFailed             *bool
	FatalDetailsPathPrefix string
	ClassName              string
	TestName               string
	JavaModuleDir          string
	CxxRelTestBinary       string
	ExtraErrorLogPath      string
	TestDescriptor         string

	LogLevel string
	Signals  []string
	Summary  bool
	Theme    string
	Validate bool

	// Resolution metadata (for debugging)
	ConfigFile     string // path of the loaded config file, if any
	LogLevelSource string // "cli", "env", "file", "default"
	ThemeSource    string // "cli", "env", "file", "default"
}

// Resolve builds Options from flags, the environment and the config file.
func Resolve(flags Flags) (Options, error) {
	path := flags.ConfigPath
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	fc, source, err := LoadFile(path)
	if err != nil {
		return Options{}, err
	}

	opts := Options{
		YBSrcRoot:              flags.YBSrcRoot,
		BuildRoot:              flags.BuildRoot,
		TestLogPath:            flags.TestLogPath,
		JUnitXMLPath:           flags.JUnitXMLPath,
		Language:               flags.Language,
		FatalDetailsPathPrefix: flags.FatalDetailsPathPrefix,
		ClassName:              flags.ClassName,
		TestName:               flags.TestName,
		JavaModuleDir:          flags.JavaModuleDir,
		CxxRelTestBinary:       flags.CxxRelTestBinary,
		ExtraErrorLogPath:      flags.ExtraErrorLogPath,
		TestDescriptor:         os.Getenv(EnvTestDescriptor),
		ConfigFile:             source,
	}

	opts.LogLevel, opts.LogLevelSource = resolveLogLevel(flags, fc)
	opts.Theme, opts.ThemeSource = resolveTheme(flags, fc)

	if fc.Summary != nil {
		opts.Summary = *fc.Summary
	}
	if flags.SummarySet {
		opts.Summary = flags.Summary
	}
	if fc.Validate != nil {
		opts.Validate = *fc.Validate
	}
	if flags.ValidateSet {
		opts.Validate = flags.Validate
	}
	if len(fc.Signals) > 0 {
		opts.Signals = append([]string(nil), fc.Signals...)
	}

	if flags.TestFailed != "" {
		b, err := parseTestFailed(flags.TestFailed)
		if err != nil {
			return Options{}, err
		}
		opts.TestFailed = &b
	}

	if err := validate(opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// resolveLogLevel applies CLI > env > file > default. --verbose means debug
// unless --log-level was given as well.
func resolveLogLevel(flags Flags, fc *FileConfig) (string, string) {
	switch {
	case flags.LogLevelSet && flags.LogLevel != "":
		return strings.ToLower(flags.LogLevel), "cli"
	case flags.VerboseSet && flags.Verbose:
		return "debug", "cli"
	}
	if env := os.Getenv(EnvLogLevel); env != "" {
		return strings.ToLower(env), "env"
	}
	if fc.LogLevel != "" {
		return strings.ToLower(fc.LogLevel), "file"
	}
	return DefaultLogLevel, "default"
}

// resolveTheme applies CLI > NO_COLOR > file > default.
func resolveTheme(flags Flags, fc *FileConfig) (string, string) {
	if flags.ThemeSet && flags.ThemeName != "" {
		return flags.ThemeName, "cli"
	}
	if os.Getenv(EnvNoColor) != "" {
		return "mono", "env"
	}
	if fc.Theme != "" {
		return fc.Theme, "file"
	}
	return DefaultTheme, "default"
}

func parseTestFailed(s string) (bool, error) {
	switch s {
	case "true", "false":
		return strconv.ParseBool(s)
	default:
		return false, fmt.Errorf("%w: --test-failed %q (must be: true, false)", ErrInvalidValue, s)
	}
}

// validate checks the resolved options and returns errors for invalid states.
func validate(opts Options) error {
	required := []struct{ flag, value string }{
		{"--yb-src-root", opts.YBSrcRoot},
		{"--build-root", opts.BuildRoot},
		{"--test-log-path", opts.TestLogPath},
		{"--junit-xml-path", opts.JUnitXMLPath},
		{"--language", opts.Language},
	}
	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.flag)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(missing, ", "))
	}

	if opts.Language != LanguageCxx && opts.Language != LanguageJava {
		return fmt.Errorf("%w: %q (must be: %s, %s)", ErrInvalidLanguage, opts.Language, LanguageCxx, LanguageJava)
	}

	if _, err := logrus.ParseLevel(opts.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidValue, opts.LogLevel)
	}

	validTheme := false
	for _, t := range validThemes {
		if opts.Theme == t {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("%w: theme %q (must be: %s)", ErrInvalidValue, opts.Theme, strings.Join(validThemes, ", "))
	}
	return nil
}
