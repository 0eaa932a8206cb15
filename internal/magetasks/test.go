package magetasks

// TestAll runs all tests.
func TestAll() error {
	PrintH2Header("Tests")
	if err := Run("Go Test", "go", "test", "./..."); err != nil {
		PrintError("Tests failed")
		return err
	}
	PrintSuccess("All tests passed")
	return nil
}

// TestCoverage runs tests with coverage.
func TestCoverage() error {
	PrintH2Header("Test Coverage")
	if err := Run("Go Test", "go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		PrintError("Tests failed")
		return err
	}
	_ = Run("Coverage", "go", "tool", "cover", "-func=coverage.out")
	PrintSuccess("Coverage report generated")
	return nil
}

// TestRace runs tests with race detector.
func TestRace() error {
	PrintH2Header("Race Detector")
	if err := Run("Go Test", "go", "test", "-race", "./..."); err != nil {
		PrintError("Race detector found issues")
		return err
	}
	PrintSuccess("No race conditions detected")
	return nil
}

// QualityCheck runs linters, tests and the build. Lint findings are reported
// but do not fail the check.
func QualityCheck() error {
	PrintH1Header("testreport Quality Assurance")
	if err := LintAll(); err != nil {
		PrintWarning("Linting issues found")
	}
	if err := TestAll(); err != nil {
		return err
	}
	return BuildAll()
}
