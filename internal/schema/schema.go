// Package schema validates task files against the embedded JSON schema.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://task-cli.local/tasks.schema.json"

//go:embed tasks.schema.json
var schemaSource []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Violation is a single schema failure.
type Violation struct {
	// Path is a dotted path to the offending value, e.g. "tasks[2].status".
	Path    string
	Message string
}

// Validate checks data against the task file schema. The error result is
// reserved for input that is not JSON or a schema that does not compile.
func Validate(data []byte) ([]Violation, error) {
	schema, err := taskSchema()
	if err != nil {
		return nil, err
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	err = schema.Validate(value)
	if err == nil {
		return nil, nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var violations []Violation
	collectViolations(ve, &violations)
	return violations, nil
}

func taskSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaSource)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// collectViolations flattens the cause tree into its leaves.
func collectViolations(err *jsonschema.ValidationError, result *[]Violation) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*result = append(*result, Violation{
			Path:    pointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectViolations(cause, result)
	}
}

// pointerToPath converts a JSON pointer such as /tasks/0/id to tasks[0].id.
func pointerToPath(pointer string) string {
	if pointer == "" {
		return "$"
	}
	var builder strings.Builder
	for _, part := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		if isIndex(part) {
			builder.WriteString("[" + part + "]")
			continue
		}
		if builder.Len() > 0 {
			builder.WriteByte('.')
		}
		builder.WriteString(part)
	}
	return builder.String()
}

func isIndex(part string) bool {
	if part == "" {
		return false
	}
	for _, r := range part {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
