package wire

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Makepad-fr/todogui/internal/model"
)

//go:embed schema/*.json
var schemaFS embed.FS

var (
	schemasOnce sync.Once
	schemas     map[model.Kind]*jsonschema.Schema
	schemasErr  error
)

func loadSchemas() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	files := map[string]string{
		"item.json":    "schema/item.json",
		"deleted.json": "schema/deleted.json",
	}
	for name, path := range files {
		b, err := schemaFS.ReadFile(path)
		if err != nil {
			schemasErr = fmt.Errorf("read schema %s: %w", path, err)
			return
		}
		if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
			schemasErr = fmt.Errorf("add schema %s: %w", name, err)
			return
		}
	}

	item, err := compiler.Compile("item.json")
	if err != nil {
		schemasErr = fmt.Errorf("compile item schema: %w", err)
		return
	}
	deleted, err := compiler.Compile("deleted.json")
	if err != nil {
		schemasErr = fmt.Errorf("compile deleted schema: %w", err)
		return
	}
	schemas = map[model.Kind]*jsonschema.Schema{
		model.Added:   item,
		model.Updated: item,
		model.Deleted: deleted,
	}
}

// Validate checks payload against the JSON Schema for kind k.
func Validate(k model.Kind, payload []byte) error {
	schemasOnce.Do(loadSchemas)
	if schemasErr != nil {
		return schemasErr
	}
	sch, ok := schemas[k]
	if !ok {
		return fmt.Errorf("%w: unknown kind %v", ErrMalformed, k)
	}

	var v interface{}
	if err := json.Unmarshal(payload, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformed, describe(err))
	}
	return nil
}

// describe flattens a schema validation error into one line.
func describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var msgs []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			msgs = append(msgs, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return strings.Join(msgs, "; ")
}
