// Package magetasks provides the build, test and lint tasks behind the
// Magefile of testreport.
package magetasks
