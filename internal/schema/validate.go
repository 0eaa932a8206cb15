// Package schema validates emitted test reports against the embedded JSON
// schema.
package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ReportSchemaURL identifies the report schema.
const ReportSchemaURL = "report.schema.json"

//go:embed report.schema.json
var reportSchemaData []byte

var (
	reportSchema *jsonschema.Schema
	compileOnce  sync.Once
	compileErr   error
)

// compileSchema compiles the embedded schema once.
func compileSchema() error {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(reportSchemaData))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal report schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(ReportSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add report schema resource: %w", err)
			return
		}

		reportSchema, err = compiler.Compile(ReportSchemaURL)
		if err != nil {
			compileErr = fmt.Errorf("compile report schema: %w", err)
		}
	})
	return compileErr
}

// Schema returns the embedded schema document.
func Schema() []byte {
	return bytes.Clone(reportSchemaData)
}

// Validate validates encoded report bytes against the report schema.
func Validate(data []byte) error {
	if err := compileSchema(); err != nil {
		return err
	}

	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := reportSchema.Validate(v); err != nil {
		return fmt.Errorf("report validation failed: %w", err)
	}
	return nil
}
