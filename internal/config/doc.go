// Package config resolves the invocation settings of testreport.
//
// # Configuration Precedence
//
// Values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--log-level, --verbose, --summary, --theme, --validate)
//  2. Environment variables (TESTREPORT_LOG_LEVEL, NO_COLOR)
//  3. YAML config file (.testreport.yaml in the working directory or
//     ~/.config/testreport/.testreport.yaml)
//  4. Hardcoded defaults
//
// Invocation paths (--yb-src-root, --test-log-path and friends) come from the
// command line only. The test descriptor is read from YB_TEST_DESCRIPTOR.
//
// # Config File
//
//	log_level: debug
//	summary: true
//	theme: orca
//	validate: true
//	signals: [SIGABRT, SIGSEGV, SIGKILL]
//
// signals replaces the built-in Linux signal list searched for in test logs.
//
// # Environment Variables
//
//   - TESTREPORT_CONFIG: path of the config file, instead of discovery
//   - TESTREPORT_LOG_LEVEL: log level (debug, info, warn, error)
//   - NO_COLOR: any non-empty value forces the mono theme
//   - YB_TEST_DESCRIPTOR: copied verbatim into every record
package config
