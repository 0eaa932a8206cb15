package magetasks

import (
	"os"
	"path/filepath"
)

var (
	// ModulePath is the Go module path.
	ModulePath = "github.com/yugabyte/testreport"

	// BinPath is the output path of the testreport binary.
	BinPath = "./bin/testreport"

	// MainPackage is the package built into BinPath.
	MainPackage = "./cmd/testreport"

	// ProjectRoot is the root directory of the project.
	ProjectRoot string
)

// Initialize records the project root and creates the bin directory.
// Call this from the Magefile init() function.
func Initialize() error {
	var err error
	ProjectRoot, err = os.Getwd()
	if err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(ProjectRoot, "bin"), 0o750)
}
